// Package recommend picks the next video for a user from their watch history
// and the catalog. The scoring is a fixed, explainable heuristic; the weights
// are part of the contract and must not drift.
package recommend

import (
	"math/rand"
	"time"

	"github.com/video-learn/backend/internal/store"
)

type videoStats struct {
	watchCount     int
	completedCount int
	lastWatch      time.Time
}

// Next returns the recommended video, or nil when the catalog is empty. With
// no watch history the pick is uniformly random; otherwise every catalog
// video is scored and the first highest-scoring one wins.
func Next(userID int64, history []store.WatchRecord, catalog []store.Video) *store.Video {
	if len(catalog) == 0 {
		return nil
	}
	if len(history) == 0 {
		v := catalog[rand.Intn(len(catalog))]
		return &v
	}

	byPath := make(map[string]store.Video, len(catalog))
	for _, v := range catalog {
		byPath[v.Path] = v
	}

	stats := make(map[string]*videoStats)
	interest := make(map[string]int)
	var interestOrder []string

	for _, rec := range history {
		st := stats[rec.VideoPath]
		if st == nil {
			st = &videoStats{}
			stats[rec.VideoPath] = st
		}
		st.watchCount++
		if rec.Completed {
			st.completedCount++
		}
		if rec.Timestamp.After(st.lastWatch) {
			st.lastWatch = rec.Timestamp
		}

		// A dangling video_path contributes no category interest.
		if v, ok := byPath[rec.VideoPath]; ok && v.Category != "" {
			if _, seen := interest[v.Category]; !seen {
				interestOrder = append(interestOrder, v.Category)
			}
			interest[v.Category]++
		}
	}

	preferred := ""
	best := 0
	for _, cat := range interestOrder {
		if interest[cat] > best {
			best = interest[cat]
			preferred = cat
		}
	}

	now := time.Now()
	bestScore := 0
	var pick *store.Video
	for i := range catalog {
		v := &catalog[i]
		score := scoreVideo(v, stats[v.Path], preferred, now)
		if pick == nil || score > bestScore {
			bestScore = score
			pick = v
		}
	}
	return pick
}

func scoreVideo(v *store.Video, st *videoStats, preferred string, now time.Time) int {
	score := 10

	if st != nil && st.completedCount > 0 {
		score -= 5
	}
	if st != nil {
		score -= min(5, st.watchCount)
	}
	if preferred != "" && v.Category == preferred {
		score += 3
	}
	if st != nil && !st.lastWatch.IsZero() {
		days := now.Sub(st.lastWatch).Hours() / 24
		if days < 1 {
			score -= 2
		} else if days < 7 {
			score -= 1
		}
	}
	return score
}
