package store

import "time"

// User roles. Every account is either a regular user or an administrator.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Video is a catalog entry. Its storage path doubles as its identity.
type Video struct {
	Path       string    `json:"path"`
	Title      string    `json:"title"`
	Category   string    `json:"category"`
	UploadTime time.Time `json:"upload_time"`
}

type Feedback struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// WatchRecord is one watch event. Records are append-only: repeated views of
// the same video accumulate history rather than overwriting a single row.
type WatchRecord struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	VideoPath string    `json:"video_path"`
	Completed bool      `json:"completed"`
	Progress  float64   `json:"progress"`
	Timestamp time.Time `json:"timestamp"`
}

func userFromRecord(r Record) User {
	return User{
		ID:        r.Int("id"),
		Username:  r.Str("username"),
		Password:  r.Str("password"),
		Role:      r.Str("role"),
		CreatedAt: r.Time("created_at"),
	}
}

func videoFromRecord(r Record) Video {
	return Video{
		Path:       r.Str("path"),
		Title:      r.Str("title"),
		Category:   r.Str("category"),
		UploadTime: r.Time("upload_time"),
	}
}

func feedbackFromRecord(r Record) Feedback {
	return Feedback{
		ID:        r.Int("id"),
		UserID:    r.Int("user_id"),
		Content:   r.Str("content"),
		Timestamp: r.Time("timestamp"),
	}
}

func watchFromRecord(r Record) WatchRecord {
	return WatchRecord{
		ID:        r.Int("id"),
		UserID:    r.Int("user_id"),
		VideoPath: r.Str("video_path"),
		Completed: r.Bool("completed"),
		Progress:  r.Float("progress"),
		Timestamp: r.Time("timestamp"),
	}
}
