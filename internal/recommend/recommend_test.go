package recommend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/video-learn/backend/internal/store"
)

func video(path, category string) store.Video {
	return store.Video{Path: path, Title: path, Category: category}
}

func watched(path string, completed bool, at time.Time) store.WatchRecord {
	return store.WatchRecord{VideoPath: path, Completed: completed, Timestamp: at}
}

func TestNextEmptyCatalog(t *testing.T) {
	assert.Nil(t, Next(1, nil, nil))
	assert.Nil(t, Next(1, []store.WatchRecord{watched("a.mp4", true, time.Now())}, nil))
}

func TestNextEmptyHistoryPicksUniformly(t *testing.T) {
	catalog := []store.Video{
		video("a.mp4", "math"),
		video("b.mp4", "english"),
		video("c.mp4", "other"),
	}

	seen := make(map[string]int)
	for i := 0; i < 300; i++ {
		pick := Next(1, nil, catalog)
		require.NotNil(t, pick)
		seen[pick.Path]++
	}
	// Every catalog entry shows up over enough trials.
	assert.Len(t, seen, 3)
}

func TestNextPrefersUnwatchedVideoInPreferredCategory(t *testing.T) {
	catalog := []store.Video{
		video("watched.mp4", "math"),
		video("fresh.mp4", "math"),
		video("offtopic.mp4", "english"),
	}
	now := time.Now()
	history := []store.WatchRecord{
		watched("watched.mp4", true, now.Add(-2*time.Hour)),
		watched("watched.mp4", false, now.Add(-26*time.Hour)),
		watched("watched.mp4", false, now.Add(-50*time.Hour)),
	}

	pick := Next(1, history, catalog)
	require.NotNil(t, pick)
	// fresh.mp4: 10 + 3 (preferred category) = 13.
	// watched.mp4: 10 - 5 (completed) - 3 (watch count) + 3 - 2 (<1 day) = 3.
	// offtopic.mp4: 10.
	assert.Equal(t, "fresh.mp4", pick.Path)
}

func TestNextCompletedAndRepeatExposurePenalties(t *testing.T) {
	catalog := []store.Video{
		video("a.mp4", ""),
		video("b.mp4", ""),
	}
	now := time.Now().Add(-10 * 24 * time.Hour)
	var history []store.WatchRecord
	for i := 0; i < 8; i++ {
		history = append(history, watched("a.mp4", true, now))
	}

	pick := Next(1, history, catalog)
	require.NotNil(t, pick)
	// a.mp4: 10 - 5 (completed) - 5 (capped watch count) = 0; b.mp4: 10.
	assert.Equal(t, "b.mp4", pick.Path)
}

func TestNextRecencyPenaltyTiers(t *testing.T) {
	catalog := []store.Video{
		video("today.mp4", ""),
		video("thisweek.mp4", ""),
		video("old.mp4", ""),
	}
	now := time.Now()
	history := []store.WatchRecord{
		watched("today.mp4", false, now.Add(-1*time.Hour)),
		watched("thisweek.mp4", false, now.Add(-3*24*time.Hour)),
		watched("old.mp4", false, now.Add(-30*24*time.Hour)),
	}

	pick := Next(1, history, catalog)
	require.NotNil(t, pick)
	// today: 10-1-2=7, thisweek: 10-1-1=8, old: 10-1=9.
	assert.Equal(t, "old.mp4", pick.Path)
}

func TestNextFirstMaxWinsInCatalogOrder(t *testing.T) {
	catalog := []store.Video{
		video("first.mp4", ""),
		video("second.mp4", ""),
	}
	history := []store.WatchRecord{
		watched("elsewhere.mp4", false, time.Now()),
	}

	pick := Next(1, history, catalog)
	require.NotNil(t, pick)
	assert.Equal(t, "first.mp4", pick.Path)
}

// History rows pointing at deleted videos still count as exposure but add no
// category interest.
func TestNextToleratesDanglingHistory(t *testing.T) {
	catalog := []store.Video{
		video("math.mp4", "math"),
		video("eng.mp4", "english"),
	}
	now := time.Now()
	history := []store.WatchRecord{
		watched("gone.mp4", true, now),
		watched("gone.mp4", true, now),
		watched("eng.mp4", false, now.Add(-10*24*time.Hour)),
	}

	pick := Next(1, history, catalog)
	require.NotNil(t, pick)
	// Preferred category is english (only known reference); math.mp4 scores
	// 10, eng.mp4 scores 10 - 1 + 3 = 12.
	assert.Equal(t, "eng.mp4", pick.Path)
}

func TestNextPreferredCategoryTieGoesToFirstSeen(t *testing.T) {
	catalog := []store.Video{
		video("m1.mp4", "math"),
		video("e1.mp4", "english"),
		video("m2.mp4", "math"),
		video("e2.mp4", "english"),
	}
	old := time.Now().Add(-30 * 24 * time.Hour)
	history := []store.WatchRecord{
		watched("e1.mp4", false, old),
		watched("m1.mp4", false, old),
	}

	pick := Next(1, history, catalog)
	require.NotNil(t, pick)
	// english and math both have one interest point; english was seen first
	// during aggregation, so e2.mp4 gets the +3 and wins over m2.mp4.
	assert.Equal(t, "e2.mp4", pick.Path)
}
