package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/video-learn/backend/internal/categories"
	"github.com/video-learn/backend/internal/store"
)

type CategoriesHandler struct {
	store      *store.Store
	categories *categories.Config
}

func NewCategoriesHandler(st *store.Store, cats *categories.Config) *CategoriesHandler {
	return &CategoriesHandler{store: st, categories: cats}
}

func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	cats, err := h.categories.List()
	if err != nil {
		jsonError(w, "failed to load categories", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]interface{}{"categories": cats}, http.StatusOK)
}

type updateCategoriesRequest struct {
	Categories []string `json:"categories"`
}

// Update replaces the configured category list. Admin only.
func (h *CategoriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateCategoriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Categories) == 0 {
		jsonError(w, "categories must be a non-empty list", http.StatusBadRequest)
		return
	}
	if err := h.categories.Save(req.Categories); err != nil {
		jsonError(w, "failed to save categories", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// Stats returns per-category video counts. Admin only.
func (h *CategoriesHandler) Stats(w http.ResponseWriter, r *http.Request) {
	videos, err := h.store.Videos()
	if err != nil {
		jsonError(w, "failed to load videos", http.StatusInternalServerError)
		return
	}
	stats := make(map[string]int)
	for _, v := range videos {
		stats[v.Category]++
	}
	jsonResponse(w, map[string]interface{}{"stats": stats}, http.StatusOK)
}

type batchRelabelRequest struct {
	OldCategory string `json:"old_category"`
	NewCategory string `json:"new_category"`
}

// BatchRelabel moves every video in one category to another. Admin only.
func (h *CategoriesHandler) BatchRelabel(w http.ResponseWriter, r *http.Request) {
	var req batchRelabelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	valid, err := h.categories.Valid(req.NewCategory)
	if err != nil {
		jsonError(w, "failed to load categories", http.StatusInternalServerError)
		return
	}
	if !valid {
		jsonError(w, "invalid category", http.StatusBadRequest)
		return
	}

	videos, err := h.store.Videos()
	if err != nil {
		jsonError(w, "failed to load videos", http.StatusInternalServerError)
		return
	}
	updated := 0
	for _, v := range videos {
		if v.Category != req.OldCategory {
			continue
		}
		recs, err := h.store.Query(store.Request{
			Action:     store.ActionUpdate,
			Collection: store.CollectionVideos,
			Params:     store.Params{"path": v.Path, "category": req.NewCategory},
		})
		if err != nil {
			jsonError(w, "failed to update videos", http.StatusInternalServerError)
			return
		}
		if len(recs) > 0 {
			updated++
		}
	}
	jsonResponse(w, map[string]interface{}{"updated": updated}, http.StatusOK)
}
