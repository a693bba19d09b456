package store

import "time"

// Record is a single row of a collection as stored on disk. Values come back
// from encoding/json, so numbers are float64 and timestamps are RFC 3339
// strings; the accessors below normalize both.
type Record map[string]any

func (r Record) Str(key string) string {
	s, _ := r[key].(string)
	return s
}

func (r Record) Int(key string) int64 {
	switch v := r[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

func (r Record) Float(key string) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

func (r Record) Bool(key string) bool {
	b, _ := r[key].(bool)
	return b
}

func (r Record) Time(key string) time.Time {
	s, ok := r[key].(string)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (r Record) clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// merge copies params into the record, replacing fields shallowly.
func (r Record) merge(p Params) {
	for k, v := range p {
		r[k] = v
	}
}
