package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/video-learn/backend/internal/auth"
	"github.com/video-learn/backend/internal/categories"
	"github.com/video-learn/backend/internal/config"
	"github.com/video-learn/backend/internal/media"
	"github.com/video-learn/backend/internal/store"
)

type testEnv struct {
	router http.Handler
	store  *store.Store
	jwt    *auth.JWTService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st := store.New(t.TempDir())
	require.NoError(t, st.Init("admin", "123456"))

	library, err := media.New(t.TempDir())
	require.NoError(t, err)

	dataDir := t.TempDir()
	cats := categories.New(dataDir)
	_, err = cats.List()
	require.NoError(t, err)

	cfg := &config.Config{CORSOrigins: []string{"*"}}
	jwtService := auth.NewJWTService("test-secret")

	return &testEnv{
		router: NewRouter(st, jwtService, cfg, library, cats),
		store:  st,
		jwt:    jwtService,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	admin, err := e.store.UserByUsername("admin")
	require.NoError(t, err)
	require.NotNil(t, admin)
	token, err := e.jwt.GenerateToken(admin.ID, admin.Username, admin.Role)
	require.NoError(t, err)
	return token
}

func (e *testEnv) userToken(t *testing.T, username string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username, "password": "secret",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": username, "password": "secret",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRegisterLoginMe(t *testing.T) {
	env := newTestEnv(t)
	token := env.userToken(t, "alice")

	w := env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var me struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "alice", me.Username)
	assert.Equal(t, store.RoleUser, me.Role)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	env.userToken(t, "alice")

	w := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice", "password": "other",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginBadPassword(t *testing.T) {
	env := newTestEnv(t)
	env.userToken(t, "alice")

	w := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/api/videos", "/api/history", "/api/recommendation"} {
		w := env.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestAdminRoutesForbiddenForUsers(t *testing.T) {
	env := newTestEnv(t)
	token := env.userToken(t, "alice")

	w := env.do(t, http.MethodGet, "/api/admin/users", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodGet, "/api/admin/users", env.adminToken(t), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUploadClassifiesAndLists(t *testing.T) {
	env := newTestEnv(t)
	token := env.userToken(t, "alice")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("video", "数学函数基础.mp4")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake video bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/videos/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var uploaded struct {
		Path     string `json:"path"`
		Title    string `json:"title"`
		Category string `json:"category"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &uploaded))
	assert.Equal(t, "数学函数基础", uploaded.Title)
	assert.Equal(t, "math", uploaded.Category)
	assert.NotEmpty(t, uploaded.Path)

	list := env.do(t, http.MethodGet, "/api/videos", token, nil)
	require.Equal(t, http.StatusOK, list.Code)
	var videos []struct {
		Path string `json:"path"`
	}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &videos))
	require.Len(t, videos, 1)
	assert.Equal(t, uploaded.Path, videos[0].Path)
}

func TestWatchHistoryAndRecommendationFlow(t *testing.T) {
	env := newTestEnv(t)
	token := env.userToken(t, "alice")

	// Empty catalog: recommendation is null.
	w := env.do(t, http.MethodGet, "/api/recommendation", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rec struct {
		Recommendation *struct {
			Path string `json:"path"`
		} `json:"recommendation"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Nil(t, rec.Recommendation)

	// Seed the catalog directly through the store.
	_, err := env.store.Query(store.Request{
		Action:     store.ActionInsert,
		Collection: store.CollectionVideos,
		Params:     store.Params{"path": "a.mp4", "title": "代数", "category": "math"},
	})
	require.NoError(t, err)

	w = env.do(t, http.MethodPost, "/api/history", token, map[string]any{
		"video_path": "a.mp4", "completed": false, "progress": 0.5,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodGet, "/api/recommendation", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	require.NotNil(t, rec.Recommendation)
	assert.Equal(t, "a.mp4", rec.Recommendation.Path)

	// Progress report sees the watch event.
	w = env.do(t, http.MethodGet, "/api/report/progress", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rep struct {
		Details []struct {
			VideoPath       string  `json:"video_path"`
			HighestProgress float64 `json:"highest_progress"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rep))
	require.Len(t, rep.Details, 1)
	assert.Equal(t, 0.5, rep.Details[0].HighestProgress)

	// Reset clears everything.
	w = env.do(t, http.MethodDelete, "/api/history", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodGet, "/api/history", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history []json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	assert.Empty(t, history)
}

func TestHistoryRecordValidation(t *testing.T) {
	env := newTestEnv(t)
	token := env.userToken(t, "alice")

	w := env.do(t, http.MethodPost, "/api/history", token, map[string]any{
		"completed": true,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/history", token, map[string]any{
		"video_path": "a.mp4", "completed": true, "progress": 1.5,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFeedbackLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token := env.userToken(t, "alice")

	w := env.do(t, http.MethodPost, "/api/feedback", token, map[string]string{
		"content": "更多数学视频",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = env.do(t, http.MethodGet, "/api/feedback", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []struct {
		Content string `json:"content"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, "更多数学视频", mine[0].Content)

	admin := env.adminToken(t)
	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/admin/feedback/%d", created.ID), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/admin/feedback", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Empty(t, all)
}

func TestChatAnswersAndKeepsTranscript(t *testing.T) {
	env := newTestEnv(t)
	token := env.userToken(t, "alice")

	w := env.do(t, http.MethodPost, "/api/chat", token, map[string]string{
		"message": "你好，你是谁？",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Message, "助手")

	w = env.do(t, http.MethodGet, "/api/chat/history", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var transcript []struct {
		Role string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &transcript))
	require.Len(t, transcript, 2)
	assert.Equal(t, "user", transcript[0].Role)
	assert.Equal(t, "assistant", transcript[1].Role)

	w = env.do(t, http.MethodPost, "/api/chat/reset", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodGet, "/api/chat/history", token, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &transcript))
	assert.Empty(t, transcript)
}

func TestAdminCannotDemoteLastAdmin(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken(t)

	w := env.do(t, http.MethodPut, "/api/admin/users/admin/role", admin, map[string]string{
		"role": store.RoleUser,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodDelete, "/api/admin/users/admin", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminRoleUpdate(t *testing.T) {
	env := newTestEnv(t)
	env.userToken(t, "alice")
	admin := env.adminToken(t)

	w := env.do(t, http.MethodPut, "/api/admin/users/alice/role", admin, map[string]string{
		"role": store.RoleAdmin,
	})
	require.Equal(t, http.StatusOK, w.Code)

	alice, err := env.store.UserByUsername("alice")
	require.NoError(t, err)
	require.NotNil(t, alice)
	assert.Equal(t, store.RoleAdmin, alice.Role)

	// Now the original admin can step down.
	w = env.do(t, http.MethodPut, "/api/admin/users/admin/role", admin, map[string]string{
		"role": store.RoleUser,
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCategoriesEndpoints(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken(t)

	w := env.do(t, http.MethodGet, "/api/categories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Categories []string `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Categories, "other")

	// Relabel every math video as other.
	_, err := env.store.Query(store.Request{
		Action:     store.ActionInsert,
		Collection: store.CollectionVideos,
		Params:     store.Params{"path": "m.mp4", "title": "几何", "category": "math"},
	})
	require.NoError(t, err)

	w = env.do(t, http.MethodPut, "/api/admin/categories/batch", admin, map[string]string{
		"old_category": "math", "new_category": "other",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var batch struct {
		Updated int `json:"updated"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &batch))
	assert.Equal(t, 1, batch.Updated)

	stats := env.do(t, http.MethodGet, "/api/admin/categories/stats", admin, nil)
	require.Equal(t, http.StatusOK, stats.Code)
	var statsResp struct {
		Stats map[string]int `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(stats.Body.Bytes(), &statsResp))
	assert.Equal(t, 1, statsResp.Stats["other"])
	assert.Zero(t, statsResp.Stats["math"])
}

func TestVideoCategoryUpdateValidation(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken(t)

	_, err := env.store.Query(store.Request{
		Action:     store.ActionInsert,
		Collection: store.CollectionVideos,
		Params:     store.Params{"path": "v.mp4", "title": "诗歌", "category": "other"},
	})
	require.NoError(t, err)

	w := env.do(t, http.MethodPut, "/api/videos/category", admin, map[string]string{
		"path": "v.mp4", "category": "astrology",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPut, "/api/videos/category", admin, map[string]string{
		"path": "v.mp4", "category": "language-arts",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPut, "/api/videos/category", admin, map[string]string{
		"path": "missing.mp4", "category": "language-arts",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
