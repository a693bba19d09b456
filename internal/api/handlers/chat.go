package handlers

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/video-learn/backend/internal/api/middleware"
	"github.com/video-learn/backend/internal/faq"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatHandler fronts the FAQ responder and keeps a per-user transcript in
// memory. Transcripts are conversational sugar, not data: they reset with
// the process.
type ChatHandler struct {
	mu          sync.Mutex
	transcripts map[int64][]ChatMessage
}

func NewChatHandler() *ChatHandler {
	return &ChatHandler{transcripts: make(map[int64][]ChatMessage)}
}

type chatRequest struct {
	Message string `json:"message"`
}

func (h *ChatHandler) Message(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		jsonError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		jsonError(w, "message is required", http.StatusBadRequest)
		return
	}

	answer := faq.Answer(req.Message)

	h.mu.Lock()
	h.transcripts[claims.UserID] = append(h.transcripts[claims.UserID],
		ChatMessage{Role: "user", Content: req.Message},
		ChatMessage{Role: "assistant", Content: answer},
	)
	h.mu.Unlock()

	jsonResponse(w, map[string]string{"message": answer}, http.StatusOK)
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		jsonError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	h.mu.Lock()
	transcript := append([]ChatMessage(nil), h.transcripts[claims.UserID]...)
	h.mu.Unlock()

	if transcript == nil {
		transcript = []ChatMessage{}
	}
	jsonResponse(w, transcript, http.StatusOK)
}

func (h *ChatHandler) Reset(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		jsonError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	h.mu.Lock()
	delete(h.transcripts, claims.UserID)
	h.mu.Unlock()

	jsonResponse(w, map[string]string{"status": "ok"}, http.StatusOK)
}
