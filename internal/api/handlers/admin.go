package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/video-learn/backend/internal/api/middleware"
	"github.com/video-learn/backend/internal/store"
)

type AdminHandler struct {
	store   *store.Store
	limiter *middleware.RateLimiter
}

func NewAdminHandler(st *store.Store, limiter *middleware.RateLimiter) *AdminHandler {
	return &AdminHandler{store: st, limiter: limiter}
}

// ListUsers returns all accounts without password hashes.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.Users()
	if err != nil {
		jsonError(w, "failed to list users", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, users, http.StatusOK)
}

type roleRequest struct {
	Role string `json:"role"`
}

// UpdateRole changes one user's role. The last admin cannot be demoted.
func (h *AdminHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	var req roleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Role != store.RoleUser && req.Role != store.RoleAdmin {
		jsonError(w, "role must be one of: user, admin", http.StatusBadRequest)
		return
	}

	user, err := h.store.UserByUsername(username)
	if err != nil {
		jsonError(w, "failed to look up user", http.StatusInternalServerError)
		return
	}
	if user == nil {
		jsonError(w, "user not found", http.StatusNotFound)
		return
	}
	if user.Role == store.RoleAdmin && req.Role != store.RoleAdmin {
		count, err := h.countAdmins()
		if err != nil {
			jsonError(w, "failed to check admin count", http.StatusInternalServerError)
			return
		}
		if count <= 1 {
			jsonError(w, "cannot demote the last admin", http.StatusBadRequest)
			return
		}
	}

	recs, err := h.store.Query(store.Request{
		Action:     store.ActionUpdate,
		Collection: store.CollectionUsers,
		Params:     store.Params{"username": username, "role": req.Role},
	})
	if err != nil {
		jsonError(w, "failed to update role", http.StatusInternalServerError)
		return
	}
	if len(recs) == 0 {
		jsonError(w, "user not found", http.StatusNotFound)
		return
	}
	jsonResponse(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// DeleteUser removes an account. The last admin cannot be deleted.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := h.store.UserByUsername(username)
	if err != nil {
		jsonError(w, "failed to look up user", http.StatusInternalServerError)
		return
	}
	if user == nil {
		jsonError(w, "user not found", http.StatusNotFound)
		return
	}
	if user.Role == store.RoleAdmin {
		count, err := h.countAdmins()
		if err != nil {
			jsonError(w, "failed to check admin count", http.StatusInternalServerError)
			return
		}
		if count <= 1 {
			jsonError(w, "cannot delete the last admin", http.StatusBadRequest)
			return
		}
	}

	recs, err := h.store.Query(store.Request{
		Action:     store.ActionDelete,
		Collection: store.CollectionUsers,
		Params:     store.Params{"username": username},
	})
	if err != nil {
		jsonError(w, "failed to delete user", http.StatusInternalServerError)
		return
	}
	if len(recs) == 0 {
		jsonError(w, "user not found", http.StatusNotFound)
		return
	}
	jsonResponse(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// RateLimitStatus reports the current state of the auth rate limiter.
func (h *AdminHandler) RateLimitStatus(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, h.limiter.Status(), http.StatusOK)
}

// RateLimitClear resets the auth rate limiter.
func (h *AdminHandler) RateLimitClear(w http.ResponseWriter, r *http.Request) {
	h.limiter.Clear()
	jsonResponse(w, map[string]string{"status": "ok"}, http.StatusOK)
}

func (h *AdminHandler) countAdmins() (int, error) {
	users, err := h.store.Users()
	if err != nil {
		return 0, err
	}
	count := 0
	for _, u := range users {
		if u.Role == store.RoleAdmin {
			count++
		}
	}
	return count, nil
}
