package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hszk-dev/videocatalog/internal/domain/model"
	"github.com/hszk-dev/videocatalog/internal/domain/repository"
	"github.com/hszk-dev/videocatalog/internal/usecase"
)

const timeFormat = "2006-01-02T15:04:05Z07:00"

// VideoRequest is the JSON body for create and update. Multipart
// requests carry the same fields as form values plus one file part per
// slot; relation arrays use the same keys.
type VideoRequest struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	YearLaunched int       `json:"year_launched"`
	Opened       bool      `json:"opened"`
	Rating       string    `json:"rating"`
	Duration     int       `json:"duration"`
	CategoryIDs  *[]string `json:"categories_id"`
	GenderIDs    *[]string `json:"genders_id"`
}

type VideoResponse struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	YearLaunched   int    `json:"year_launched"`
	Opened         bool   `json:"opened"`
	Rating         string `json:"rating"`
	Duration       int    `json:"duration"`
	VideoFileURL   string `json:"video_file_url,omitempty"`
	ThumbFileURL   string `json:"thumb_file_url,omitempty"`
	BannerFileURL  string `json:"banner_file_url,omitempty"`
	TrailerFileURL string `json:"trailer_file_url,omitempty"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

// VideoHandler handles video-related HTTP requests.
type VideoHandler struct {
	svc     usecase.VideoService
	storage repository.ArtifactStorage

	maxUploadBytes int64
}

// NewVideoHandler creates a new VideoHandler. The storage is used only
// to resolve artifact keys to public URLs in responses.
func NewVideoHandler(svc usecase.VideoService, storage repository.ArtifactStorage, maxUploadBytes int64) *VideoHandler {
	return &VideoHandler{
		svc:            svc,
		storage:        storage,
		maxUploadBytes: maxUploadBytes,
	}
}

// videoPayload is the decoded request, either JSON or multipart.
type videoPayload struct {
	VideoRequest

	categoryIDs *[]uuid.UUID
	genderIDs   *[]uuid.UUID
	uploads     []repository.Upload
	closers     []io.Closer
}

func (p *videoPayload) close() {
	for _, c := range p.closers {
		_ = c.Close()
	}
}

// Create handles POST /v1/videos
func (h *VideoHandler) Create(w http.ResponseWriter, r *http.Request) {
	payload, fields, ok := h.decode(w, r)
	if !ok {
		return
	}
	defer payload.close()

	if !fields.empty() {
		ValidationError(w, fields)
		return
	}

	input := usecase.CreateVideoInput{
		Title:        payload.Title,
		Description:  payload.Description,
		YearLaunched: payload.YearLaunched,
		Opened:       payload.Opened,
		Rating:       model.Rating(payload.Rating),
		Duration:     payload.Duration,
		Uploads:      payload.uploads,
	}
	if payload.categoryIDs != nil {
		input.CategoryIDs = *payload.categoryIDs
	}
	if payload.genderIDs != nil {
		input.GenderIDs = *payload.genderIDs
	}

	video, err := h.svc.CreateVideo(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusCreated, h.toVideoResponse(video))
}

// Update handles PUT /v1/videos/{id}
func (h *VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	videoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_video_id", "Video ID must be a valid UUID")
		return
	}

	payload, fields, ok := h.decode(w, r)
	if !ok {
		return
	}
	defer payload.close()

	if !fields.empty() {
		ValidationError(w, fields)
		return
	}

	input := usecase.UpdateVideoInput{
		ID:           videoID,
		Title:        payload.Title,
		Description:  payload.Description,
		YearLaunched: payload.YearLaunched,
		Opened:       payload.Opened,
		Rating:       model.Rating(payload.Rating),
		Duration:     payload.Duration,
		Uploads:      payload.uploads,
	}
	if payload.categoryIDs != nil {
		input.CategoryIDs = *payload.categoryIDs
	}
	if payload.genderIDs != nil {
		input.GenderIDs = *payload.genderIDs
	}

	video, err := h.svc.UpdateVideo(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, h.toVideoResponse(video))
}

// Get handles GET /v1/videos/{id}
func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	videoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_video_id", "Video ID must be a valid UUID")
		return
	}

	video, err := h.svc.GetVideo(r.Context(), videoID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, h.toVideoResponse(video))
}

// List handles GET /v1/videos
func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	videos, err := h.svc.ListVideos(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	responses := make([]VideoResponse, 0, len(videos))
	for _, video := range videos {
		responses = append(responses, h.toVideoResponse(video))
	}
	JSON(w, http.StatusOK, responses)
}

// Delete handles DELETE /v1/videos/{id}
func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	videoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_video_id", "Video ID must be a valid UUID")
		return
	}

	if err := h.svc.DeleteVideo(r.Context(), videoID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decode parses the request body, JSON or multipart, and validates the
// fields that can be checked without touching the database. A false
// return means a response has already been written.
func (h *VideoHandler) decode(w http.ResponseWriter, r *http.Request) (*videoPayload, fieldErrors, bool) {
	payload := &videoPayload{}
	fields := fieldErrors{}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
			Error(w, http.StatusBadRequest, "invalid_request", "Invalid multipart body")
			return nil, nil, false
		}
		h.decodeMultipart(r, payload, fields)
	} else {
		if err := json.NewDecoder(r.Body).Decode(&payload.VideoRequest); err != nil {
			Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
			return nil, nil, false
		}
		payload.categoryIDs = parseIDList(payload.CategoryIDs, "categories_id", fields)
		payload.genderIDs = parseIDList(payload.GenderIDs, "genders_id", fields)
	}

	h.validateFields(payload, fields)
	return payload, fields, true
}

// decodeMultipart fills payload from form values and file parts. One
// file part per slot, named after the slot.
func (h *VideoHandler) decodeMultipart(r *http.Request, payload *videoPayload, fields fieldErrors) {
	form := r.MultipartForm

	payload.Title = r.FormValue("title")
	payload.Description = r.FormValue("description")
	payload.Rating = r.FormValue("rating")

	if v := r.FormValue("year_launched"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			fields.add("year_launched", "must be an integer")
		}
		payload.YearLaunched = year
	}
	if v := r.FormValue("duration"); v != "" {
		duration, err := strconv.Atoi(v)
		if err != nil {
			fields.add("duration", "must be an integer")
		}
		payload.Duration = duration
	}
	if v := r.FormValue("opened"); v != "" {
		opened, err := strconv.ParseBool(v)
		if err != nil {
			fields.add("opened", "must be a boolean")
		}
		payload.Opened = opened
	}

	if values, ok := form.Value["categories_id"]; ok {
		payload.categoryIDs = parseIDList(&values, "categories_id", fields)
	}
	if values, ok := form.Value["genders_id"]; ok {
		payload.genderIDs = parseIDList(&values, "genders_id", fields)
	}

	for _, slot := range model.FileSlots {
		headers, ok := form.File[slot.String()]
		if !ok || len(headers) == 0 {
			continue
		}
		header := headers[0]
		contentType := header.Header.Get("Content-Type")

		if err := slot.ValidateContent(header.Size, contentType); err != nil {
			fields.add(slot.String(), fileErrorMessage(slot, err))
			continue
		}

		file, err := header.Open()
		if err != nil {
			fields.add(slot.String(), "could not read the uploaded file")
			continue
		}
		payload.closers = append(payload.closers, file)
		payload.uploads = append(payload.uploads, repository.Upload{
			Slot:        slot,
			Name:        header.Filename,
			Size:        header.Size,
			ContentType: contentType,
			Content:     file,
		})
	}
}

// validateFields checks the scalar fields shared by create and update.
func (h *VideoHandler) validateFields(payload *videoPayload, fields fieldErrors) {
	if payload.Title == "" {
		fields.add("title", "is required")
	} else if len(payload.Title) > 255 {
		fields.add("title", "must not exceed 255 characters")
	}
	if payload.Description == "" {
		fields.add("description", "is required")
	}
	if payload.YearLaunched < 1000 || payload.YearLaunched > 9999 {
		fields.add("year_launched", "must be a 4-digit year")
	}
	if !model.Rating(payload.Rating).IsValid() {
		fields.add("rating", fmt.Sprintf("must be one of %s", ratingValues()))
	}
	if payload.Duration <= 0 {
		fields.add("duration", "must be a positive number of minutes")
	}
}

func (h *VideoHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrVideoNotFound):
		Error(w, http.StatusNotFound, "video_not_found", "Video not found")
	case errors.Is(err, repository.ErrDuplicateVideo):
		Error(w, http.StatusConflict, "duplicate_video", "Video already exists")
	case errors.Is(err, usecase.ErrUnknownCategory):
		ValidationError(w, fieldErrors{"categories_id": {"one or more categories do not exist"}})
	case errors.Is(err, usecase.ErrUnknownGender):
		ValidationError(w, fieldErrors{"genders_id": {"one or more genders do not exist"}})
	case errors.Is(err, model.ErrGenderWithoutCategory):
		ValidationError(w, fieldErrors{"genders_id": {"every gender must belong to a selected category"}})
	case errors.Is(err, model.ErrFileTooLarge), errors.Is(err, model.ErrFileMediaType):
		ValidationError(w, fieldErrors{"files": {err.Error()}})
	case errors.Is(err, model.ErrEmptyTitle), errors.Is(err, model.ErrTitleTooLong):
		ValidationError(w, fieldErrors{"title": {err.Error()}})
	case errors.Is(err, model.ErrEmptyDescription):
		ValidationError(w, fieldErrors{"description": {err.Error()}})
	case errors.Is(err, model.ErrInvalidYear):
		ValidationError(w, fieldErrors{"year_launched": {err.Error()}})
	case errors.Is(err, model.ErrInvalidRating):
		ValidationError(w, fieldErrors{"rating": {err.Error()}})
	case errors.Is(err, model.ErrInvalidDuration):
		ValidationError(w, fieldErrors{"duration": {err.Error()}})
	default:
		Error(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

func (h *VideoHandler) toVideoResponse(v *model.Video) VideoResponse {
	return VideoResponse{
		ID:             v.ID.String(),
		Title:          v.Title,
		Description:    v.Description,
		YearLaunched:   v.YearLaunched,
		Opened:         v.Opened,
		Rating:         v.Rating.String(),
		Duration:       v.Duration,
		VideoFileURL:   h.storage.ResolveURL(v.VideoFile),
		ThumbFileURL:   h.storage.ResolveURL(v.ThumbFile),
		BannerFileURL:  h.storage.ResolveURL(v.BannerFile),
		TrailerFileURL: h.storage.ResolveURL(v.TrailerFile),
		CreatedAt:      v.CreatedAt.Format(timeFormat),
		UpdatedAt:      v.UpdatedAt.Format(timeFormat),
	}
}

// parseIDList converts string ids to UUIDs, recording invalid entries.
// A nil input stays nil so updates can leave relations untouched.
func parseIDList(values *[]string, field string, fields fieldErrors) *[]uuid.UUID {
	if values == nil {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(*values))
	for _, value := range *values {
		id, err := uuid.Parse(value)
		if err != nil {
			fields.add(field, fmt.Sprintf("%q is not a valid UUID", value))
			continue
		}
		ids = append(ids, id)
	}
	return &ids
}

func fileErrorMessage(slot model.FileSlot, err error) string {
	switch {
	case errors.Is(err, model.ErrFileTooLarge):
		return fmt.Sprintf("must not exceed %d bytes", slot.MaxSize())
	case errors.Is(err, model.ErrFileMediaType):
		return fmt.Sprintf("must be of type %s", slot.AcceptedMediaType())
	default:
		return err.Error()
	}
}

func ratingValues() string {
	values := make([]string, 0, len(model.RatingList))
	for _, rating := range model.RatingList {
		values = append(values, rating.String())
	}
	return strings.Join(values, ", ")
}
