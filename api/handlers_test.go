package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"young-portfolio/gallery"
	"young-portfolio/model"
	"young-portfolio/storage"
)

const testPassword = "correct horse"

func newTestHandlers(t *testing.T) (*GalleryHandlers, *http.ServeMux) {
	t.Helper()
	logger := zap.NewNop()
	store, err := storage.NewJSONStore(t.TempDir(), logger)
	require.NoError(t, err)

	hash, err := HashPassword(testPassword)
	require.NoError(t, err)

	h := &GalleryHandlers{
		Store:        store,
		Files:        &storage.LocalFileStorage{Dir: t.TempDir(), Log: logger},
		Cache:        gallery.NewViewCache(),
		Log:          logger,
		SecretKey:    "test-secret",
		PasswordHash: hash,
	}
	mux := http.NewServeMux()
	h.ServeHTTP(mux)
	return h, mux
}

func login(t *testing.T, mux *http.ServeMux) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"password": testPassword})
	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["token"])
	return resp["token"]
}

func seedPhotography(t *testing.T, h *GalleryHandlers) {
	t.Helper()
	works := []model.Work{
		{
			ID: "photography-DSC_0001", Filename: "DSC_0001.jpg", Title: "夜景",
			Category: model.CategoryPhotography, Visible: true, RawTime: "2024 Dec 13",
			Event: &model.Event{Name: "2024新北耶誕城"},
			Photo: &model.PhotoInfo{Tags: []string{"夜拍"}},
		},
		{
			ID: "photography-DSC_0002", Filename: "DSC_0002.jpg", Title: "街拍",
			Category: model.CategoryPhotography, Visible: true, RawTime: "2025 Jan 17",
			Event: &model.Event{Name: "春日街拍"},
			Photo: &model.PhotoInfo{Tags: []string{"街拍"}},
		},
	}
	for i := range works {
		works[i].Time, works[i].TimeValid = model.ParseWorkTime(works[i].RawTime)
	}
	require.NoError(t, h.Store.AppendWorks(model.CategoryPhotography, "春日街拍", works))
}

func TestLogin(t *testing.T) {
	_, mux := newTestHandlers(t)

	t.Run("valid password issues a token", func(t *testing.T) {
		token := login(t, mux)
		assert.True(t, strings.Count(token, ".") == 2, "JWT has three segments")
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"password": "nope"})
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body)))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("GET is rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/login", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestAuthMiddleware(t *testing.T) {
	_, mux := newTestHandlers(t)

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/delete-image?category=photography&filename=x.jpg", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/delete-image?category=photography&filename=x.jpg", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/delete-image?category=photography&filename=x.jpg", nil)
		req.Header.Set("Authorization", "Bearer not.a.jwt")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestHandleGallery(t *testing.T) {
	h, mux := newTestHandlers(t)
	seedPhotography(t, h)

	t.Run("flat listing newest first", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/gallery?category=photography", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp apiResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		require.Len(t, resp.Images, 2)
		assert.Equal(t, "DSC_0002.jpg", resp.Images[0].Filename)
		assert.Equal(t, 2, resp.EventStats["春日街拍"])
	})

	t.Run("event filter", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/gallery?category=photography&event=春日街拍", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp apiResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Images, 1)
		assert.Equal(t, "DSC_0002.jpg", resp.Images[0].Filename)
	})

	t.Run("grouped view", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/gallery?category=photography&grouped=true", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp apiResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Groups, 2)
		assert.Equal(t, "春日街拍", resp.Groups[0].Name, "most recent event leads")
	})

	t.Run("gallery alias maps to digital", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/gallery?category=gallery", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp apiResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Empty(t, resp.Images)
	})

	t.Run("unknown category", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/gallery?category=video", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleFilters(t *testing.T) {
	_, mux := newTestHandlers(t)

	t.Run("defaults before anything is saved", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/filters", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var state gallery.FilterState
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
		assert.Equal(t, gallery.DefaultFilterState(), state)
	})

	t.Run("roundtrip", func(t *testing.T) {
		saved := gallery.FilterState{
			SelectedCategory: gallery.FilterPhotography,
			SelectedEvent:    "春日街拍",
			YearFilter:       "2025",
		}
		body, _ := json.Marshal(saved)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/filters", bytes.NewReader(body)))
		require.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/filters", nil))
		var state gallery.FilterState
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
		assert.Equal(t, saved, state)
	})
}

func uploadRequest(t *testing.T, token string, fields map[string]string, files map[string][]byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for name, data := range files {
		fw, err := mw.CreateFormFile("file", name)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestHandleUpload(t *testing.T) {
	h, mux := newTestHandlers(t)
	token := login(t, mux)

	t.Run("rejects missing event name", func(t *testing.T) {
		req := uploadRequest(t, token, map[string]string{
			"category": "photography",
			"event":    "",
		}, map[string][]byte{"DSC_0001.jpg": []byte("not really a jpeg")})
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects unsupported file type", func(t *testing.T) {
		req := uploadRequest(t, token, map[string]string{
			"category": "photography",
			"event":    "春日街拍",
		}, map[string][]byte{"script.exe": []byte("binary")})
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects empty batch", func(t *testing.T) {
		req := uploadRequest(t, token, map[string]string{
			"category": "photography",
			"event":    "春日街拍",
		}, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("stores the batch with per-file metadata", func(t *testing.T) {
		req := uploadRequest(t, token, map[string]string{
			"category":             "photography",
			"event":                "春日街拍",
			"eventDescription":     "城市日常",
			"eventLocation":        "台北市",
			"title_DSC_0001.jpg":   "自訂標題",
			"content_DSC_0001.jpg": "自訂描述",
			"tags_DSC_0001.jpg":    "街拍",
			"time_DSC_0001.jpg":    "2025 Jan 17",
		}, map[string][]byte{"DSC_0001.jpg": []byte("not really a jpeg")})
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp apiResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "成功上傳 1 個攝影作品", resp.Message)
		require.Len(t, resp.Images, 1)
		assert.Equal(t, "自訂標題", resp.Images[0].Title)
		assert.Contains(t, resp.Images[0].Tags, "街拍")

		works, stats, err := h.Store.LoadWorks(model.CategoryPhotography)
		require.NoError(t, err)
		require.Len(t, works, 1)
		assert.Equal(t, "photography-DSC_0001", works[0].ID)
		assert.True(t, works[0].TimeValid)
		assert.Equal(t, 1, stats["春日街拍"])
	})

	t.Run("rejects oversized chunked body", func(t *testing.T) {
		h.MaxRequestBytes = 1024
		defer func() { h.MaxRequestBytes = 0 }()

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("category", "photography"))
		require.NoError(t, mw.WriteField("event", "春日街拍"))
		fw, err := mw.CreateFormFile("file", "DSC_0002.jpg")
		require.NoError(t, err)
		_, err = fw.Write(bytes.Repeat([]byte("x"), 4096))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		// Wrapping the buffer hides its length, so the request goes out with
		// ContentLength -1 like a chunked upload.
		req := httptest.NewRequest(http.MethodPost, "/api/upload", io.MultiReader(&buf))
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		require.Equal(t, int64(-1), req.ContentLength)

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})
}

func TestHandleUpdateImage(t *testing.T) {
	h, mux := newTestHandlers(t)
	seedPhotography(t, h)
	token := login(t, mux)

	body, _ := json.Marshal(map[string]any{
		"category": "photography",
		"filename": "DSC_0001.jpg",
		"update":   map[string]any{"title": "改名", "visible": false},
	})
	req := httptest.NewRequest(http.MethodPatch, "/api/update-image", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "圖片更新成功", resp.Message)
	require.NotNil(t, resp.Image)
	assert.Equal(t, "改名", resp.Image.Title)
	assert.False(t, resp.Image.Visible)

	t.Run("unknown filename", func(t *testing.T) {
		body, _ := json.Marshal(map[string]any{
			"category": "photography",
			"filename": "missing.jpg",
			"update":   map[string]any{"title": "x"},
		})
		req := httptest.NewRequest(http.MethodPatch, "/api/update-image", bytes.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandleUpdateEvent(t *testing.T) {
	h, mux := newTestHandlers(t)
	seedPhotography(t, h)
	token := login(t, mux)

	body, _ := json.Marshal(map[string]string{
		"category":    "photography",
		"oldName":     "春日街拍",
		"newName":     "春季街拍紀錄",
		"description": "改版描述",
		"location":    "台北市",
	})
	req := httptest.NewRequest(http.MethodPatch, "/api/update-event", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "活動更新成功", resp.Message)
	assert.Equal(t, 1, resp.Updated)

	works, _, err := h.Store.LoadWorks(model.CategoryPhotography)
	require.NoError(t, err)
	found := false
	for _, w := range works {
		if w.Event != nil && w.Event.Name == "春季街拍紀錄" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestHandleDeleteImage(t *testing.T) {
	h, mux := newTestHandlers(t)
	seedPhotography(t, h)
	token := login(t, mux)

	req := httptest.NewRequest(http.MethodDelete, "/api/delete-image?category=photography&filename=DSC_0001.jpg", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "圖片刪除成功", resp.Message)

	works, _, err := h.Store.LoadWorks(model.CategoryPhotography)
	require.NoError(t, err)
	assert.Len(t, works, 1)

	t.Run("double delete", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req.Clone(req.Context()))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
