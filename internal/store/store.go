package store

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/video-learn/backend/internal/auth"
)

// ErrMissingKey is returned when an update or delete request omits the
// collection's key field. Missing non-key fields are tolerated.
var ErrMissingKey = errors.New("missing key field")

// Store emulates multi-table CRUD on top of four flat JSON documents. Every
// operation is a full read-modify-write of the affected collection's file; a
// per-collection mutex serializes those cycles within the process, and the
// last completed write wins otherwise.
type Store struct {
	dir string
	mu  [4]sync.Mutex
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

// Init creates the data directory and empty collection files if absent, then
// seeds the default administrator when no admin account exists. Safe to run
// on every startup.
func (s *Store) Init(adminUsername, adminPassword string) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	defaults := map[string]string{
		usersFile:        "[]",
		feedbackFile:     "[]",
		videosFile:       "{}",
		watchHistoryFile: "[]",
	}
	for file, empty := range defaults {
		if _, err := os.Stat(s.path(file)); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("stat %s: %w", file, err)
		}
		if err := os.WriteFile(s.path(file), []byte(empty), 0644); err != nil {
			return fmt.Errorf("write %s: %w", file, err)
		}
	}

	users, err := s.Query(Request{Action: ActionSelect, Collection: CollectionUsers})
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.Str("role") == RoleAdmin {
			return nil
		}
	}
	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return err
	}
	_, err = s.Query(Request{
		Action:     ActionInsert,
		Collection: CollectionUsers,
		Params: Params{
			"username": adminUsername,
			"password": hash,
			"role":     RoleAdmin,
		},
	})
	return err
}

// Query executes one store operation. NotFound is a normal outcome: a
// key-based select/update/delete with no match returns an empty slice and a
// nil error. Unsupported action/collection combinations return
// ErrUnknownOperation; file failures are returned wrapped.
func (s *Store) Query(req Request) ([]Record, error) {
	if req.Collection < CollectionUsers || req.Collection > CollectionWatchHistory {
		return nil, opErr(req.Action, req.Collection)
	}
	s.mu[req.Collection].Lock()
	defer s.mu[req.Collection].Unlock()

	p := req.Params
	if p == nil {
		p = Params{}
	}
	switch req.Collection {
	case CollectionUsers:
		return s.queryUsers(req.Action, p)
	case CollectionFeedback:
		return s.queryFeedback(req.Action, p)
	case CollectionVideos:
		return s.queryVideos(req.Action, p)
	default:
		return s.queryWatchHistory(req.Action, p)
	}
}

// ResetHistory clears the watch history collection wholesale.
func (s *Store) ResetHistory() error {
	s.mu[CollectionWatchHistory].Lock()
	defer s.mu[CollectionWatchHistory].Unlock()
	return s.writeArray(watchHistoryFile, nil)
}

func (s *Store) queryUsers(action Action, p Params) ([]Record, error) {
	users, err := s.readArray(usersFile)
	if err != nil {
		return nil, err
	}
	switch action {
	case ActionSelect:
		if want, ok := p["username"]; ok {
			return filterBy(users, "username", want), nil
		}
		return users, nil

	case ActionInsert:
		rec := newRecord(p)
		rec["id"] = nextID(users)
		rec["created_at"] = timestamp()
		users = append(users, rec)
		if err := s.writeArray(usersFile, users); err != nil {
			return nil, err
		}
		return []Record{rec}, nil

	case ActionUpdate:
		if _, ok := p["username"]; !ok {
			return nil, fmt.Errorf("%w: users update needs username", ErrMissingKey)
		}
		i := indexBy(users, "username", p["username"])
		if i < 0 {
			return nil, nil
		}
		users[i].merge(p)
		if err := s.writeArray(usersFile, users); err != nil {
			return nil, err
		}
		return []Record{users[i]}, nil

	case ActionDelete:
		if _, ok := p["username"]; !ok {
			return nil, fmt.Errorf("%w: users delete needs username", ErrMissingKey)
		}
		i := indexBy(users, "username", p["username"])
		if i < 0 {
			return nil, nil
		}
		removed := users[i]
		users = append(users[:i], users[i+1:]...)
		if err := s.writeArray(usersFile, users); err != nil {
			return nil, err
		}
		return []Record{removed}, nil
	}
	return nil, opErr(action, CollectionUsers)
}

func (s *Store) queryFeedback(action Action, p Params) ([]Record, error) {
	feedback, err := s.readArray(feedbackFile)
	if err != nil {
		return nil, err
	}
	switch action {
	case ActionSelect:
		if want, ok := p["user_id"]; ok {
			return filterBy(feedback, "user_id", want), nil
		}
		return feedback, nil

	case ActionInsert:
		rec := newRecord(p)
		rec["id"] = nextID(feedback)
		rec["timestamp"] = timestamp()
		feedback = append(feedback, rec)
		if err := s.writeArray(feedbackFile, feedback); err != nil {
			return nil, err
		}
		return []Record{rec}, nil

	case ActionDelete:
		if _, ok := p["id"]; !ok {
			return nil, fmt.Errorf("%w: feedback delete needs id", ErrMissingKey)
		}
		i := indexBy(feedback, "id", p["id"])
		if i < 0 {
			return nil, nil
		}
		removed := feedback[i]
		feedback = append(feedback[:i], feedback[i+1:]...)
		if err := s.writeArray(feedbackFile, feedback); err != nil {
			return nil, err
		}
		return []Record{removed}, nil
	}
	return nil, opErr(action, CollectionFeedback)
}

func (s *Store) queryVideos(action Action, p Params) ([]Record, error) {
	doc, err := s.readVideos()
	if err != nil {
		return nil, err
	}
	switch action {
	case ActionSelect:
		if want, ok := p["path"]; ok {
			path, _ := want.(string)
			rec, found := doc.get(path)
			if !found {
				return nil, nil
			}
			out := rec.clone()
			out["path"] = path
			return []Record{out}, nil
		}
		recs := doc.records()
		for _, rec := range recs {
			// Legacy entries may predate the upload_time field.
			if _, ok := rec["upload_time"]; !ok {
				rec["upload_time"] = timestamp()
			}
		}
		return recs, nil

	case ActionInsert:
		path, _ := p["path"].(string)
		if path == "" {
			return nil, fmt.Errorf("%w: videos insert needs path", ErrMissingKey)
		}
		rec := Record{
			"title":       p["title"],
			"category":    p["category"],
			"upload_time": timestamp(),
		}
		// Re-inserting an existing path overwrites the entry.
		doc.set(path, rec)
		if err := s.writeVideos(doc); err != nil {
			return nil, err
		}
		out := rec.clone()
		out["path"] = path
		return []Record{out}, nil

	case ActionUpdate:
		path, _ := p["path"].(string)
		if path == "" {
			return nil, fmt.Errorf("%w: videos update needs path", ErrMissingKey)
		}
		rec, found := doc.get(path)
		if !found {
			return nil, nil
		}
		merged := rec.clone()
		merged.merge(p)
		delete(merged, "path")
		doc.set(path, merged)
		if err := s.writeVideos(doc); err != nil {
			return nil, err
		}
		out := merged.clone()
		out["path"] = path
		return []Record{out}, nil

	case ActionDelete:
		path, _ := p["path"].(string)
		if path == "" {
			return nil, fmt.Errorf("%w: videos delete needs path", ErrMissingKey)
		}
		rec, found := doc.get(path)
		if !found {
			return nil, nil
		}
		removed := rec.clone()
		removed["path"] = path
		doc.delete(path)
		if err := s.writeVideos(doc); err != nil {
			return nil, err
		}
		return []Record{removed}, nil
	}
	return nil, opErr(action, CollectionVideos)
}

// queryWatchHistory supports select and insert only; history is append-only
// and cleared in bulk through ResetHistory.
func (s *Store) queryWatchHistory(action Action, p Params) ([]Record, error) {
	history, err := s.readArray(watchHistoryFile)
	if err != nil {
		return nil, err
	}
	switch action {
	case ActionSelect:
		if want, ok := p["user_id"]; ok {
			return filterBy(history, "user_id", want), nil
		}
		return history, nil

	case ActionInsert:
		rec := newRecord(p)
		rec["id"] = nextID(history)
		rec["timestamp"] = timestamp()
		history = append(history, rec)
		if err := s.writeArray(watchHistoryFile, history); err != nil {
			return nil, err
		}
		return []Record{rec}, nil
	}
	return nil, opErr(action, CollectionWatchHistory)
}

func opErr(action Action, coll Collection) error {
	return fmt.Errorf("%w: %s %s", ErrUnknownOperation, action, coll)
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func newRecord(p Params) Record {
	rec := make(Record, len(p)+2)
	rec.merge(p)
	return rec
}

func nextID(recs []Record) int64 {
	var max int64
	for _, r := range recs {
		if id := r.Int("id"); id > max {
			max = id
		}
	}
	return max + 1
}

func indexBy(recs []Record, key string, want any) int {
	for i, r := range recs {
		if fieldEqual(r[key], want) {
			return i
		}
	}
	return -1
}

func filterBy(recs []Record, key string, want any) []Record {
	var out []Record
	for _, r := range recs {
		if fieldEqual(r[key], want) {
			out = append(out, r)
		}
	}
	return out
}

// fieldEqual compares a stored value against a filter value. Stored numbers
// come back from encoding/json as float64 while callers pass int64, so
// numeric values are compared as integers.
func fieldEqual(got, want any) bool {
	gi, gok := asInt(got)
	wi, wok := asInt(want)
	if gok && wok {
		return gi == wi
	}
	return got == want
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	}
	return 0, false
}
