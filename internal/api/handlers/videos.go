package handlers

import (
	"encoding/json"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/video-learn/backend/internal/categories"
	"github.com/video-learn/backend/internal/classify"
	"github.com/video-learn/backend/internal/media"
	"github.com/video-learn/backend/internal/store"
)

// maxUploadSize bounds a single upload request (2 GiB).
const maxUploadSize = 2 << 30

type VideoHandler struct {
	store      *store.Store
	library    *media.Library
	categories *categories.Config
}

func NewVideoHandler(st *store.Store, lib *media.Library, cats *categories.Config) *VideoHandler {
	return &VideoHandler{store: st, library: lib, categories: cats}
}

type videoResponse struct {
	Path       string `json:"path"`
	Title      string `json:"title"`
	Category   string `json:"category"`
	UploadTime int64  `json:"upload_time"`
}

// List returns the whole catalog in file order.
func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	videos, err := h.store.Videos()
	if err != nil {
		jsonError(w, "failed to list videos", http.StatusInternalServerError)
		return
	}
	out := make([]videoResponse, 0, len(videos))
	for _, v := range videos {
		title := v.Title
		if title == "" {
			title = "untitled"
		}
		out = append(out, videoResponse{
			Path:       v.Path,
			Title:      title,
			Category:   v.Category,
			UploadTime: v.UploadTime.UnixMilli(),
		})
	}
	jsonResponse(w, out, http.StatusOK)
}

// Upload stores a single video and auto-classifies it by title.
func (h *VideoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart request", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("video")
	if err != nil {
		jsonError(w, "no file uploaded", http.StatusBadRequest)
		return
	}
	defer file.Close()

	result, err := h.saveAndRegister(file, header, "")
	if err != nil {
		log.Printf("Upload failed: %v", err)
		jsonError(w, "upload failed", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, result, http.StatusCreated)
}

// UploadBatch stores multiple videos. A manual category in the form overrides
// auto-classification for every file in the batch.
func (h *VideoHandler) UploadBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart request", http.StatusBadRequest)
		return
	}
	if r.MultipartForm == nil || len(r.MultipartForm.File["videos"]) == 0 {
		jsonError(w, "no files uploaded", http.StatusBadRequest)
		return
	}

	manual := r.FormValue("category")
	if manual != "" {
		valid, err := h.categories.Valid(manual)
		if err != nil {
			jsonError(w, "failed to load categories", http.StatusInternalServerError)
			return
		}
		if !valid {
			jsonError(w, "invalid category", http.StatusBadRequest)
			return
		}
	}

	var results []videoResponse
	for _, header := range r.MultipartForm.File["videos"] {
		file, err := header.Open()
		if err != nil {
			jsonError(w, "failed to read upload", http.StatusBadRequest)
			return
		}
		result, err := h.saveAndRegister(file, header, manual)
		file.Close()
		if err != nil {
			log.Printf("Batch upload failed for %s: %v", header.Filename, err)
			jsonError(w, "upload failed", http.StatusInternalServerError)
			return
		}
		results = append(results, result)
	}
	jsonResponse(w, map[string]interface{}{"videos": results}, http.StatusCreated)
}

func (h *VideoHandler) saveAndRegister(file multipart.File, header *multipart.FileHeader, manualCategory string) (videoResponse, error) {
	storedName := h.library.StoredName(header.Filename)
	if err := h.library.Save(storedName, file); err != nil {
		return videoResponse{}, err
	}

	title := media.TitleFromFilename(header.Filename)
	category := manualCategory
	if category == "" {
		category = classify.Title(title)
	}

	recs, err := h.store.Query(store.Request{
		Action:     store.ActionInsert,
		Collection: store.CollectionVideos,
		Params: store.Params{
			"path":     storedName,
			"title":    title,
			"category": category,
		},
	})
	if err != nil {
		// The catalog record is what makes a file visible; drop the orphan.
		if rmErr := h.library.Remove(storedName); rmErr != nil {
			log.Printf("Failed to remove orphaned upload %s: %v", storedName, rmErr)
		}
		return videoResponse{}, err
	}
	rec := recs[0]
	return videoResponse{
		Path:       storedName,
		Title:      rec.Str("title"),
		Category:   rec.Str("category"),
		UploadTime: rec.Time("upload_time").UnixMilli(),
	}, nil
}

// Category returns a single video's category.
func (h *VideoHandler) Category(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		jsonError(w, "path is required", http.StatusBadRequest)
		return
	}
	video, err := h.store.VideoByPath(path)
	if err != nil {
		jsonError(w, "failed to look up video", http.StatusInternalServerError)
		return
	}
	if video == nil {
		jsonError(w, "video not found", http.StatusNotFound)
		return
	}
	jsonResponse(w, map[string]string{"category": video.Category}, http.StatusOK)
}

type updateCategoryRequest struct {
	Path     string `json:"path"`
	Category string `json:"category"`
}

// UpdateCategory re-labels one video with a configured category.
func (h *VideoHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req updateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		jsonError(w, "path is required", http.StatusBadRequest)
		return
	}
	valid, err := h.categories.Valid(req.Category)
	if err != nil {
		jsonError(w, "failed to load categories", http.StatusInternalServerError)
		return
	}
	if !valid {
		jsonError(w, "invalid category", http.StatusBadRequest)
		return
	}

	recs, err := h.store.Query(store.Request{
		Action:     store.ActionUpdate,
		Collection: store.CollectionVideos,
		Params:     store.Params{"path": req.Path, "category": req.Category},
	})
	if err != nil {
		jsonError(w, "failed to update category", http.StatusInternalServerError)
		return
	}
	if len(recs) == 0 {
		jsonError(w, "video not found", http.StatusNotFound)
		return
	}
	jsonResponse(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// Delete removes a video's catalog record, then its file. A failed file
// removal is logged but does not fail the request: the record is gone and
// that is what the catalog serves from.
func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		jsonError(w, "path is required", http.StatusBadRequest)
		return
	}

	recs, err := h.store.Query(store.Request{
		Action:     store.ActionDelete,
		Collection: store.CollectionVideos,
		Params:     store.Params{"path": path},
	})
	if err != nil {
		jsonError(w, "failed to delete video", http.StatusInternalServerError)
		return
	}
	if len(recs) == 0 {
		jsonError(w, "video not found", http.StatusNotFound)
		return
	}

	if err := h.library.Remove(path); err != nil {
		log.Printf("Failed to remove video file %s: %v", path, err)
	}
	jsonResponse(w, map[string]string{"status": "ok"}, http.StatusOK)
}
