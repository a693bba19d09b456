// Package report aggregates watch history into a per-video learning
// progress summary.
package report

import (
	"path"
	"time"

	"github.com/video-learn/backend/internal/store"
)

// VideoProgress summarizes one video's watch records for a user.
type VideoProgress struct {
	VideoPath       string    `json:"video_path"`
	Title           string    `json:"title"`
	ClickCount      int       `json:"click_count"`
	HighestProgress float64   `json:"highest_progress"`
	LastWatched     time.Time `json:"last_watched"`
}

// Progress builds the per-video report in first-watched order. A record with
// neither completion nor progress counts as a bare click. History rows whose
// video no longer exists in the catalog keep their path's base name as the
// title.
func Progress(history []store.WatchRecord, catalog []store.Video) []VideoProgress {
	titles := make(map[string]string, len(catalog))
	for _, v := range catalog {
		titles[v.Path] = v.Title
	}

	byPath := make(map[string]*VideoProgress)
	var order []string

	for _, rec := range history {
		p := byPath[rec.VideoPath]
		if p == nil {
			title, ok := titles[rec.VideoPath]
			if !ok {
				title = path.Base(rec.VideoPath)
			}
			p = &VideoProgress{VideoPath: rec.VideoPath, Title: title}
			byPath[rec.VideoPath] = p
			order = append(order, rec.VideoPath)
		}
		if !rec.Completed && rec.Progress == 0 {
			p.ClickCount++
		}
		if rec.Completed {
			p.HighestProgress = 1
		} else if rec.Progress > p.HighestProgress {
			p.HighestProgress = rec.Progress
		}
		if rec.Timestamp.After(p.LastWatched) {
			p.LastWatched = rec.Timestamp
		}
	}

	out := make([]VideoProgress, 0, len(order))
	for _, vp := range order {
		out = append(out, *byPath[vp])
	}
	return out
}
