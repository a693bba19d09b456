// Package categories owns the configurable list of subject categories. The
// list lives in categories.json next to the collection files; the classifier
// labels stay valid because the catch-all is never removable.
package categories

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/video-learn/backend/internal/classify"
)

const fileName = "categories.json"

// Defaults is the fixed label set the classifier produces.
var Defaults = []string{
	classify.CategoryLanguageArts,
	classify.CategoryMath,
	classify.CategoryEnglish,
	classify.CategoryOther,
}

type fileFormat struct {
	Categories []string `json:"categories"`
}

type Config struct {
	path string
	mu   sync.Mutex
}

func New(dataDir string) *Config {
	return &Config{path: filepath.Join(dataDir, fileName)}
}

// List returns the configured categories, creating the file with the default
// set on first use.
func (c *Config) List() ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		if err := c.write(Defaults); err != nil {
			return nil, err
		}
		return append([]string(nil), Defaults...), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fileName, err)
	}
	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", fileName, err)
	}
	return f.Categories, nil
}

// Save replaces the category list. The catch-all category is appended when
// missing so unclassifiable videos always have a home.
func (c *Config) Save(cats []string) error {
	hasOther := false
	for _, cat := range cats {
		if cat == classify.CategoryOther {
			hasOther = true
			break
		}
	}
	if !hasOther {
		cats = append(cats, classify.CategoryOther)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.write(cats)
}

// Valid reports whether cat is one of the configured categories.
func (c *Config) Valid(cat string) (bool, error) {
	cats, err := c.List()
	if err != nil {
		return false, err
	}
	for _, known := range cats {
		if known == cat {
			return true, nil
		}
	}
	return false, nil
}

func (c *Config) write(cats []string) error {
	data, err := json.MarshalIndent(fileFormat{Categories: cats}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", fileName, err)
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", fileName, err)
	}
	return nil
}
