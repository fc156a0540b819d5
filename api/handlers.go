package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"young-portfolio/config"
	"young-portfolio/exifmeta"
	"young-portfolio/gallery"
	"young-portfolio/model"
	"young-portfolio/storage"
)

// GalleryHandlers exposes the public gallery read API and the authenticated
// admin mutations over the two work collections.
type GalleryHandlers struct {
	Store     *storage.JSONStore
	Files     *storage.LocalFileStorage
	Cache     *gallery.ViewCache
	Log       *zap.Logger
	SecretKey string
	// PasswordHash is the bcrypt hash the admin login is checked against.
	PasswordHash string
	// MaxRequestBytes caps upload request bodies; zero means
	// config.MaxRequestBytes.
	MaxRequestBytes int64
}

func (h *GalleryHandlers) maxRequestBytes() int64 {
	if h.MaxRequestBytes > 0 {
		return h.MaxRequestBytes
	}
	return config.MaxRequestBytes
}

type LoginRequest struct {
	Password string `json:"password"`
}

type apiResponse struct {
	Success    bool           `json:"success"`
	Message    string         `json:"message,omitempty"`
	Error      string         `json:"error,omitempty"`
	Image      *workPayload   `json:"image,omitempty"`
	Images     []workPayload  `json:"images,omitempty"`
	Groups     []galleryGroup `json:"groups,omitempty"`
	EventStats map[string]int `json:"eventStats,omitempty"`
	Updated    int            `json:"updatedCount,omitempty"`
}

// workPayload is the JSON shape a single work takes on the wire, shared by
// the read API and the mutation responses.
type workPayload struct {
	ID          string       `json:"id"`
	Filename    string       `json:"filename"`
	Title       string       `json:"title"`
	Description string       `json:"content"`
	Category    string       `json:"category"`
	Time        string       `json:"time"`
	Event       *model.Event `json:"event,omitempty"`
	Visible     bool         `json:"visible"`
	Color       string       `json:"color,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	Camera      string       `json:"camera,omitempty"`
	Model       string       `json:"model,omitempty"`
	FocalLength float64      `json:"focalLength,omitempty"`
	Aperture    float64      `json:"aperture,omitempty"`
	ISO         int          `json:"iso,omitempty"`
	Shutter     float64      `json:"shutterSpeed,omitempty"`
}

type galleryGroup struct {
	Key       string        `json:"key"`
	Name      string        `json:"eventName"`
	Event     *model.Event  `json:"eventInfo,omitempty"`
	Images    []workPayload `json:"images"`
	TimeRange string        `json:"timeRange"`
}

func toPayload(w model.Work) workPayload {
	p := workPayload{
		ID:          w.ID,
		Filename:    w.Filename,
		Title:       w.Title,
		Description: w.Description,
		Category:    string(w.Category),
		Time:        w.RawTime,
		Event:       w.Event,
		Visible:     w.Visible,
	}
	if w.Digital != nil {
		p.Color = w.Digital.Color
	}
	if w.Photo != nil {
		p.Tags = w.Photo.Tags
		p.Camera = w.Photo.Camera
		p.Model = w.Photo.Model
		p.FocalLength = w.Photo.FocalLength
		p.Aperture = w.Photo.Aperture
		p.ISO = w.Photo.ISO
		p.Shutter = w.Photo.ShutterSpeed
	}
	return p
}

func toPayloads(works []model.Work) []workPayload {
	out := make([]workPayload, 0, len(works))
	for _, w := range works {
		out = append(out, toPayload(w))
	}
	return out
}

// ServeHTTP registers every route on mux. Mutating routes sit behind the
// JWT auth middleware; everything is wrapped in recovery and request logging.
func (h *GalleryHandlers) ServeHTTP(mux *http.ServeMux) {
	wrap := func(next http.HandlerFunc) http.HandlerFunc {
		return RecoveryMiddleware(h.Log, RequestLoggerMiddleware(h.Log, next))
	}
	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return wrap(h.authMiddleware(next))
	}

	mux.HandleFunc("/api/login", wrap(h.handleLogin))
	mux.HandleFunc("/api/gallery", wrap(h.handleGallery))
	mux.HandleFunc("/api/filters", wrap(h.handleFilters))
	mux.HandleFunc("/api/upload", admin(h.handleUpload))
	mux.HandleFunc("/api/update-image", admin(h.handleUpdateImage))
	mux.HandleFunc("/api/update-event", admin(h.handleUpdateEvent))
	mux.HandleFunc("/api/delete-image", admin(h.handleDeleteImage))
}

func (h *GalleryHandlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.Log.Error("failed to encode response body", zap.Error(err))
	}
}

func (h *GalleryHandlers) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, apiResponse{Success: false, Error: msg})
}

// handleGallery serves one category's works, optionally filtered and grouped
// by event. Query parameters mirror the browse view's filter state.
func (h *GalleryHandlers) handleGallery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cat, err := model.ParseCategory(r.URL.Query().Get("category"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "不支援的作品分類")
		return
	}

	works, stats, err := h.Store.LoadWorks(cat)
	if err != nil {
		h.Log.Error("failed to load works", zap.String("category", string(cat)), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "無法讀取作品資料")
		return
	}

	state := gallery.FilterState{
		SelectedCategory: string(cat),
		SelectedEvent:    r.URL.Query().Get("event"),
		SearchQuery:      r.URL.Query().Get("search"),
		YearFilter:       r.URL.Query().Get("year"),
	}
	filtered := h.Cache.FilteredWorks(works, state)

	resp := apiResponse{
		Success:    true,
		Images:     toPayloads(filtered),
		EventStats: stats,
	}
	if r.URL.Query().Get("grouped") == "true" {
		for _, g := range h.Cache.GroupedWorks(works, state) {
			resp.Groups = append(resp.Groups, galleryGroup{
				Key:       g.Key,
				Name:      g.Name,
				Event:     g.Event,
				Images:    toPayloads(g.Items),
				TimeRange: g.TimeRange,
			})
		}
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// handleFilters round-trips the browse view's last filter selection so a new
// session resumes where the previous one left off.
func (h *GalleryHandlers) handleFilters(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.writeJSON(w, http.StatusOK, h.Store.LoadFilterState())
	case http.MethodPut:
		var state gallery.FilterState
		if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
			h.writeError(w, http.StatusBadRequest, "無法解析請求內容")
			return
		}
		if err := h.Store.SaveFilterState(state); err != nil {
			h.Log.Error("failed to save filter state", zap.Error(err))
			h.writeError(w, http.StatusInternalServerError, "儲存篩選狀態失敗")
			return
		}
		h.writeJSON(w, http.StatusOK, apiResponse{Success: true})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleUpload ingests a multipart batch. Shared event fields arrive once;
// per-file metadata arrives as "<field>_<filename>" form values.
func (h *GalleryHandlers) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	limit := h.maxRequestBytes()
	if r.ContentLength > limit {
		h.Log.Warn("upload request too large", zap.Int64("content_length", r.ContentLength))
		h.writeError(w, http.StatusRequestEntityTooLarge, "上傳內容超過大小限制")
		return
	}
	// Chunked uploads report ContentLength -1, so the cap is enforced on the
	// body as well.
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.writeError(w, http.StatusRequestEntityTooLarge, "上傳內容超過大小限制")
			return
		}
		h.writeError(w, http.StatusBadRequest, "無法解析上傳表單")
		return
	}

	cat, err := model.ParseCategory(r.FormValue("category"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "不支援的作品分類")
		return
	}

	event := model.NewEvent(
		r.FormValue("event"),
		r.FormValue("eventDescription"),
		r.FormValue("eventLocation"),
	)
	if errs := gallery.ValidateEvent(event); len(errs) > 0 {
		h.writeError(w, http.StatusBadRequest, errs[0].Error())
		return
	}

	fileHeaders := r.MultipartForm.File["file"]
	if len(fileHeaders) == 0 {
		h.writeError(w, http.StatusBadRequest, "請選擇要上傳的檔案")
		return
	}
	if len(fileHeaders) > config.MaxUploadFiles {
		h.writeError(w, http.StatusBadRequest, "一次最多上傳 20 個檔案")
		return
	}

	var uploaded []model.Work
	for _, fh := range fileHeaders {
		if err := gallery.ValidateUpload(fh.Filename, fh.Size); err != nil {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		file, err := fh.Open()
		if err != nil {
			h.Log.Error("failed to open uploaded file", zap.String("filename", fh.Filename), zap.Error(err))
			h.writeError(w, http.StatusInternalServerError, "讀取上傳檔案失敗")
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			h.writeError(w, http.StatusInternalServerError, "讀取上傳檔案失敗")
			return
		}

		work, err := h.buildWork(cat, event, fh.Filename, data, r)
		if err != nil {
			h.Log.Error("failed to store uploaded file", zap.String("filename", fh.Filename), zap.Error(err))
			h.writeError(w, http.StatusInternalServerError, "儲存上傳檔案失敗")
			return
		}
		uploaded = append(uploaded, work)
	}

	if err := h.Store.AppendWorks(cat, event.Name, uploaded); err != nil {
		h.Log.Error("failed to append works", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "寫入作品資料失敗")
		return
	}
	h.Cache.Clear()

	msg := "成功上傳 " + strconv.Itoa(len(uploaded)) + " 個數位作品"
	if cat == model.CategoryPhotography {
		msg = "成功上傳 " + strconv.Itoa(len(uploaded)) + " 個攝影作品"
	}
	h.Log.Info("upload complete",
		zap.String("category", string(cat)),
		zap.String("event", event.Name),
		zap.Int("count", len(uploaded)),
	)
	h.writeJSON(w, http.StatusOK, apiResponse{
		Success: true,
		Message: msg,
		Images:  toPayloads(uploaded),
	})
}

// buildWork stores the file, derives the thumbnail and assembles the record
// from the per-file form fields plus, for photography, the EXIF block.
func (h *GalleryHandlers) buildWork(cat model.Category, event model.Event, filename string, data []byte, r *http.Request) (model.Work, error) {
	rel, err := h.Files.Save(cat, event.Name, filename, bytes.NewReader(data))
	if err != nil {
		return model.Work{}, err
	}
	if _, err := h.Files.Thumbnail(rel); err != nil {
		// A failed thumbnail does not block the upload.
		h.Log.Warn("thumbnail generation failed", zap.String("file", rel), zap.Error(err))
	}

	work := model.Work{
		ID:          model.WorkID(cat, filename),
		Filename:    filename,
		Title:       r.FormValue("title_" + filename),
		Description: r.FormValue("content_" + filename),
		Category:    cat,
		Event:       &model.Event{Name: event.Name, Description: event.Description, Location: event.Location},
		Visible:     true,
	}

	if cat == model.CategoryDigital {
		work.Digital = &model.DigitalInfo{Color: r.FormValue("color_" + filename)}
	} else {
		info := model.PhotoInfo{}
		if meta, err := exifmeta.Extract(bytes.NewReader(data)); err == nil {
			info.Camera = meta.Make
			info.Model = meta.Model
			info.FocalLength = meta.FocalLength
			info.Aperture = meta.Aperture
			info.ISO = meta.ISO
			info.ShutterSpeed = meta.ShutterSpeed
			if meta.TimeValid {
				work.Time = meta.CaptureTime
				work.TimeValid = true
				work.RawTime = gallery.FormatDateFull(meta.CaptureTime)
			}
		}
		info.Tags = gallery.SmartTags(info, filename, r.FormValue("tags_"+filename))
		work.Photo = &info
	}

	if work.Title == "" || work.Description == "" {
		title, desc := gallery.AutoTitleDescription(filename)
		if work.Title == "" {
			work.Title = title
		}
		if work.Description == "" {
			work.Description = desc
		}
	}
	if work.RawTime == "" {
		if t := r.FormValue("time_" + filename); t != "" {
			work.RawTime = t
			work.Time, work.TimeValid = model.ParseWorkTime(t)
		}
	}
	return work, nil
}

func (h *GalleryHandlers) handleUpdateImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Category string             `json:"category"`
		Filename string             `json:"filename"`
		Update   storage.WorkUpdate `json:"update"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "無法解析請求內容")
		return
	}
	cat, err := model.ParseCategory(req.Category)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "不支援的作品分類")
		return
	}

	updated, err := h.Store.UpdateWork(cat, req.Filename, req.Update)
	if errors.Is(err, storage.ErrWorkNotFound) {
		h.writeError(w, http.StatusNotFound, "找不到指定的圖片")
		return
	}
	if err != nil {
		h.Log.Error("failed to update work", zap.String("filename", req.Filename), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "更新圖片資料失敗")
		return
	}
	h.Cache.Clear()

	p := toPayload(*updated)
	h.writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: "圖片更新成功", Image: &p})
}

func (h *GalleryHandlers) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Category    string `json:"category"`
		OldName     string `json:"oldName"`
		NewName     string `json:"newName"`
		Description string `json:"description"`
		Location    string `json:"location"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "無法解析請求內容")
		return
	}
	cat, err := model.ParseCategory(req.Category)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "不支援的作品分類")
		return
	}
	if err := gallery.ValidateEventName(req.NewName); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	n, err := h.Store.RenameEvent(cat, req.OldName, req.NewName, req.Description, req.Location)
	if errors.Is(err, storage.ErrEventNotFound) {
		h.writeError(w, http.StatusNotFound, "找不到指定的活動")
		return
	}
	if err != nil {
		h.Log.Error("failed to rename event", zap.String("event", req.OldName), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "更新活動資料失敗")
		return
	}
	h.Cache.Clear()

	h.writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: "活動更新成功", Updated: n})
}

func (h *GalleryHandlers) handleDeleteImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cat, err := model.ParseCategory(r.URL.Query().Get("category"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "不支援的作品分類")
		return
	}
	filename := r.URL.Query().Get("filename")
	if filename == "" {
		h.writeError(w, http.StatusBadRequest, "缺少檔案名稱")
		return
	}

	removed, err := h.Store.DeleteWork(cat, filename)
	if errors.Is(err, storage.ErrWorkNotFound) {
		h.writeError(w, http.StatusNotFound, "找不到指定的圖片")
		return
	}
	if err != nil {
		h.Log.Error("failed to delete work", zap.String("filename", filename), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "刪除圖片資料失敗")
		return
	}

	eventName := ""
	if removed.Event != nil {
		eventName = removed.Event.Name
	}
	if err := h.Files.Remove(storage.RelPath(cat, eventName, filename)); err != nil {
		// The record is already gone; an orphaned file is logged, not fatal.
		h.Log.Warn("failed to remove stored file", zap.String("filename", filename), zap.Error(err))
	}
	h.Cache.Clear()

	h.writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: "圖片刪除成功"})
}
