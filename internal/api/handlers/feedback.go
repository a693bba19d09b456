package handlers

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/video-learn/backend/internal/api/middleware"
	"github.com/video-learn/backend/internal/store"
)

type FeedbackHandler struct {
	store *store.Store
}

func NewFeedbackHandler(st *store.Store) *FeedbackHandler {
	return &FeedbackHandler{store: st}
}

type feedbackRequest struct {
	Content string `json:"content"`
}

func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		jsonError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Content == "" {
		jsonError(w, "content is required", http.StatusBadRequest)
		return
	}

	recs, err := h.store.Query(store.Request{
		Action:     store.ActionInsert,
		Collection: store.CollectionFeedback,
		Params: store.Params{
			"user_id": claims.UserID,
			"content": req.Content,
		},
	})
	if err != nil {
		jsonError(w, "failed to save feedback", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]interface{}{"id": recs[0].Int("id")}, http.StatusCreated)
}

// ListMine returns the caller's feedback, newest first.
func (h *FeedbackHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		jsonError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	feedback, err := h.store.FeedbackForUser(claims.UserID)
	if err != nil {
		jsonError(w, "failed to list feedback", http.StatusInternalServerError)
		return
	}
	sortNewestFirst(feedback)
	jsonResponse(w, feedback, http.StatusOK)
}

// ListAll returns every user's feedback, newest first. Admin only.
func (h *FeedbackHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	feedback, err := h.store.AllFeedback()
	if err != nil {
		jsonError(w, "failed to list feedback", http.StatusInternalServerError)
		return
	}
	sortNewestFirst(feedback)
	jsonResponse(w, feedback, http.StatusOK)
}

// Delete removes one feedback entry by id. Admin only.
func (h *FeedbackHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		jsonError(w, "invalid feedback ID", http.StatusBadRequest)
		return
	}

	recs, err := h.store.Query(store.Request{
		Action:     store.ActionDelete,
		Collection: store.CollectionFeedback,
		Params:     store.Params{"id": id},
	})
	if err != nil {
		jsonError(w, "failed to delete feedback", http.StatusInternalServerError)
		return
	}
	if len(recs) == 0 {
		jsonError(w, "feedback not found", http.StatusNotFound)
		return
	}
	jsonResponse(w, map[string]string{"status": "ok"}, http.StatusOK)
}

func sortNewestFirst(feedback []store.Feedback) {
	sort.SliceStable(feedback, func(i, j int) bool {
		return feedback[i].Timestamp.After(feedback[j].Timestamp)
	})
}
