// Package media manages the upload directory that backs the video catalog.
// Catalog records reference files by their stored name relative to this
// directory.
package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var videoExtensions = map[string]bool{
	".mp4": true, ".mkv": true, ".avi": true, ".mov": true,
	".wmv": true, ".flv": true, ".webm": true, ".m4v": true,
	".ts": true, ".mpg": true, ".mpeg": true,
}

func IsVideoFile(name string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(name))]
}

// TitleFromFilename derives a display title from an uploaded file's original
// name: the base name without its extension.
func TitleFromFilename(name string) string {
	base := filepath.Base(name)
	title := strings.TrimSuffix(base, filepath.Ext(base))
	if title == "" {
		title = "untitled"
	}
	return title
}

type Library struct {
	dir string
}

func New(dir string) (*Library, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Library{dir: dir}, nil
}

func (l *Library) Dir() string {
	return l.dir
}

// StoredName generates the on-disk name for an upload, keeping the original
// extension. Names are opaque so colliding or hostile filenames can't
// clobber existing files.
func (l *Library) StoredName(originalName string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(originalName))
}

// Save writes an upload under the given stored name.
func (l *Library) Save(name string, r io.Reader) error {
	full, err := l.resolve(name)
	if err != nil {
		return err
	}
	f, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// Remove deletes a stored file. A missing file is not an error: the catalog
// record is authoritative and the file may already be gone.
func (l *Library) Remove(name string) error {
	full, err := l.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}

// resolve joins name onto the library dir, rejecting path traversal.
func (l *Library) resolve(name string) (string, error) {
	full := filepath.Join(l.dir, name)
	absBase, err := filepath.Abs(l.dir)
	if err != nil {
		return "", err
	}
	absFull, err := filepath.Abs(full)
	if err != nil {
		return "", err
	}
	if absFull != absBase && !strings.HasPrefix(absFull, absBase+string(filepath.Separator)) {
		return "", os.ErrPermission
	}
	return full, nil
}
