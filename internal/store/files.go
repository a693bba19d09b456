package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Collection file names inside the data directory.
const (
	usersFile        = "users.json"
	feedbackFile     = "feedback.json"
	videosFile       = "videos.json"
	watchHistoryFile = "watch_history.json"
)

func (s *Store) path(file string) string {
	return filepath.Join(s.dir, file)
}

func (s *Store) readArray(file string) ([]Record, error) {
	data, err := os.ReadFile(s.path(file))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	var recs []Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", file, err)
	}
	return recs, nil
}

// writeArray rewrites a collection file wholesale. There is no journal; the
// most recently completed write is the collection.
func (s *Store) writeArray(file string, recs []Record) error {
	if recs == nil {
		recs = []Record{}
	}
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", file, err)
	}
	if err := os.WriteFile(s.path(file), data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", file, err)
	}
	return nil
}

// videoDoc is the videos collection: a JSON object keyed by storage path.
// Key order is preserved across load/store cycles so that "natural file
// order" is a stable iteration order for selects and the recommender.
type videoDoc struct {
	paths  []string
	byPath map[string]Record
}

func newVideoDoc() *videoDoc {
	return &videoDoc{byPath: make(map[string]Record)}
}

func (d *videoDoc) get(path string) (Record, bool) {
	rec, ok := d.byPath[path]
	return rec, ok
}

// set inserts or overwrites. An overwrite keeps the key's original position.
func (d *videoDoc) set(path string, rec Record) {
	if _, ok := d.byPath[path]; !ok {
		d.paths = append(d.paths, path)
	}
	d.byPath[path] = rec
}

func (d *videoDoc) delete(path string) {
	if _, ok := d.byPath[path]; !ok {
		return
	}
	delete(d.byPath, path)
	for i, p := range d.paths {
		if p == path {
			d.paths = append(d.paths[:i], d.paths[i+1:]...)
			break
		}
	}
}

// records flattens the document into rows with the key injected as "path".
func (d *videoDoc) records() []Record {
	out := make([]Record, 0, len(d.paths))
	for _, p := range d.paths {
		rec := d.byPath[p].clone()
		rec["path"] = p
		out = append(out, rec)
	}
	return out
}

func (s *Store) readVideos() (*videoDoc, error) {
	data, err := os.ReadFile(s.path(videosFile))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", videosFile, err)
	}
	doc := newVideoDoc()
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", videosFile, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("parse %s: expected object, got %v", videosFile, tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", videosFile, err)
		}
		key := keyTok.(string)
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("parse %s[%s]: %w", videosFile, key, err)
		}
		doc.set(key, rec)
	}
	return doc, nil
}

func (s *Store) writeVideos(doc *videoDoc) error {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range doc.paths {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode %s: %w", videosFile, err)
		}
		rec := doc.byPath[p].clone()
		delete(rec, "path")
		val, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode %s: %w", videosFile, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return fmt.Errorf("encode %s: %w", videosFile, err)
	}
	if err := os.WriteFile(s.path(videosFile), out.Bytes(), 0644); err != nil {
		return fmt.Errorf("write %s: %w", videosFile, err)
	}
	return nil
}
