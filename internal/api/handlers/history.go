package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/video-learn/backend/internal/api/middleware"
	"github.com/video-learn/backend/internal/recommend"
	"github.com/video-learn/backend/internal/report"
	"github.com/video-learn/backend/internal/store"
)

type HistoryHandler struct {
	store *store.Store
}

func NewHistoryHandler(st *store.Store) *HistoryHandler {
	return &HistoryHandler{store: st}
}

type watchRequest struct {
	VideoPath string   `json:"video_path"`
	Completed *bool    `json:"completed"`
	Progress  *float64 `json:"progress"`
}

// Record appends one watch event. Events accumulate; nothing is overwritten.
func (h *HistoryHandler) Record(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		jsonError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req watchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.VideoPath == "" || req.Completed == nil {
		jsonError(w, "video_path and completed are required", http.StatusBadRequest)
		return
	}
	progress := 0.0
	if req.Progress != nil {
		if *req.Progress < 0 || *req.Progress > 1 {
			jsonError(w, "progress must be between 0 and 1", http.StatusBadRequest)
			return
		}
		progress = *req.Progress
	}

	recs, err := h.store.Query(store.Request{
		Action:     store.ActionInsert,
		Collection: store.CollectionWatchHistory,
		Params: store.Params{
			"user_id":    claims.UserID,
			"video_path": req.VideoPath,
			"completed":  *req.Completed,
			"progress":   progress,
		},
	})
	if err != nil {
		jsonError(w, "failed to record watch event", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]interface{}{"id": recs[0].Int("id")}, http.StatusCreated)
}

// ListMine returns the caller's watch events in file order.
func (h *HistoryHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		jsonError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	history, err := h.store.HistoryForUser(claims.UserID)
	if err != nil {
		jsonError(w, "failed to list history", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, history, http.StatusOK)
}

// Reset clears the watch history collection.
func (h *HistoryHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ResetHistory(); err != nil {
		jsonError(w, "failed to reset history", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// ProgressReport returns the caller's per-video learning summary.
func (h *HistoryHandler) ProgressReport(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		jsonError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	history, err := h.store.HistoryForUser(claims.UserID)
	if err != nil {
		jsonError(w, "failed to load history", http.StatusInternalServerError)
		return
	}
	catalog, err := h.store.Videos()
	if err != nil {
		jsonError(w, "failed to load videos", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]interface{}{
		"details": report.Progress(history, catalog),
	}, http.StatusOK)
}

// Recommendation returns the next suggested video, or null when the catalog
// is empty.
func (h *HistoryHandler) Recommendation(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		jsonError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	history, err := h.store.HistoryForUser(claims.UserID)
	if err != nil {
		jsonError(w, "failed to load history", http.StatusInternalServerError)
		return
	}
	catalog, err := h.store.Videos()
	if err != nil {
		jsonError(w, "failed to load videos", http.StatusInternalServerError)
		return
	}

	pick := recommend.Next(claims.UserID, history, catalog)
	if pick == nil {
		jsonResponse(w, map[string]interface{}{"recommendation": nil}, http.StatusOK)
		return
	}
	jsonResponse(w, map[string]interface{}{
		"recommendation": map[string]string{
			"path":  pick.Path,
			"title": pick.Title,
		},
	}, http.StatusOK)
}
