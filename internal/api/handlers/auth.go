package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/video-learn/backend/internal/api/middleware"
	"github.com/video-learn/backend/internal/auth"
	"github.com/video-learn/backend/internal/store"
)

type AuthHandler struct {
	store *store.Store
	jwt   *auth.JWTService
}

func NewAuthHandler(st *store.Store, jwt *auth.JWTService) *AuthHandler {
	return &AuthHandler{store: st, jwt: jwt}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Role     string `json:"role"`
	} `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Password == "" {
		jsonError(w, "username and password are required", http.StatusBadRequest)
		return
	}

	existing, err := h.store.UserByUsername(req.Username)
	if err != nil {
		jsonError(w, "failed to check username", http.StatusInternalServerError)
		return
	}
	if existing != nil {
		jsonError(w, "username already exists", http.StatusConflict)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		jsonError(w, "failed to hash password", http.StatusInternalServerError)
		return
	}
	recs, err := h.store.Query(store.Request{
		Action:     store.ActionInsert,
		Collection: store.CollectionUsers,
		Params: store.Params{
			"username": req.Username,
			"password": hash,
			"role":     store.RoleUser,
		},
	})
	if err != nil {
		jsonError(w, "failed to create user", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, map[string]interface{}{
		"id":       recs[0].Int("id"),
		"username": req.Username,
		"role":     store.RoleUser,
	}, http.StatusCreated)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.store.UserByUsername(req.Username)
	if err != nil {
		jsonError(w, "failed to look up user", http.StatusInternalServerError)
		return
	}
	if user == nil || !auth.CheckPassword(req.Password, user.Password) {
		jsonError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := h.jwt.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		jsonError(w, "failed to generate token", http.StatusInternalServerError)
		return
	}

	resp := loginResponse{Token: token}
	resp.User.ID = user.ID
	resp.User.Username = user.Username
	resp.User.Role = user.Role

	jsonResponse(w, resp, http.StatusOK)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		jsonError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.store.UserByUsername(claims.Username)
	if err != nil {
		jsonError(w, "failed to look up user", http.StatusInternalServerError)
		return
	}
	if user == nil {
		jsonError(w, "user not found", http.StatusNotFound)
		return
	}

	jsonResponse(w, map[string]interface{}{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
	}, http.StatusOK)
}
