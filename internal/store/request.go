package store

import "errors"

// ErrUnknownOperation is returned when an action/collection combination is
// not supported, e.g. update on the append-only watch history collection.
var ErrUnknownOperation = errors.New("unknown operation")

// Action is a store verb.
type Action int

const (
	ActionSelect Action = iota
	ActionInsert
	ActionUpdate
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionSelect:
		return "select"
	case ActionInsert:
		return "insert"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	}
	return "invalid"
}

// Collection identifies one of the four backing JSON documents.
type Collection int

const (
	CollectionUsers Collection = iota
	CollectionFeedback
	CollectionVideos
	CollectionWatchHistory
)

func (c Collection) String() string {
	switch c {
	case CollectionUsers:
		return "users"
	case CollectionFeedback:
		return "feedback"
	case CollectionVideos:
		return "videos"
	case CollectionWatchHistory:
		return "watch_history"
	}
	return "invalid"
}

// Request is the single entry point into the store: an action applied to a
// collection with filter/field parameters. Using enums instead of parsed
// verb strings makes an unsupported combination a compile-time-visible
// constant rather than a typo.
type Request struct {
	Action     Action
	Collection Collection
	Params     Params
}

// Params carries equality filters (select) or field values (insert/update)
// and key fields (update/delete).
type Params map[string]any
