package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hszk-dev/videocatalog/internal/domain/model"
	"github.com/hszk-dev/videocatalog/internal/domain/repository"
	"github.com/hszk-dev/videocatalog/internal/usecase"
)

// Mock VideoService

type mockVideoService struct {
	createVideoFn func(ctx context.Context, input usecase.CreateVideoInput) (*model.Video, error)
	updateVideoFn func(ctx context.Context, input usecase.UpdateVideoInput) (*model.Video, error)
	getVideoFn    func(ctx context.Context, videoID uuid.UUID) (*model.Video, error)
	listVideosFn  func(ctx context.Context) ([]*model.Video, error)
	deleteVideoFn func(ctx context.Context, videoID uuid.UUID) error
}

func (m *mockVideoService) CreateVideo(ctx context.Context, input usecase.CreateVideoInput) (*model.Video, error) {
	if m.createVideoFn != nil {
		return m.createVideoFn(ctx, input)
	}
	return nil, nil
}

func (m *mockVideoService) UpdateVideo(ctx context.Context, input usecase.UpdateVideoInput) (*model.Video, error) {
	if m.updateVideoFn != nil {
		return m.updateVideoFn(ctx, input)
	}
	return nil, nil
}

func (m *mockVideoService) GetVideo(ctx context.Context, videoID uuid.UUID) (*model.Video, error) {
	if m.getVideoFn != nil {
		return m.getVideoFn(ctx, videoID)
	}
	return nil, repository.ErrVideoNotFound
}

func (m *mockVideoService) ListVideos(ctx context.Context) ([]*model.Video, error) {
	if m.listVideosFn != nil {
		return m.listVideosFn(ctx)
	}
	return nil, nil
}

func (m *mockVideoService) DeleteVideo(ctx context.Context, videoID uuid.UUID) error {
	if m.deleteVideoFn != nil {
		return m.deleteVideoFn(ctx, videoID)
	}
	return nil
}

// stubStorage resolves keys without a real store.
type stubStorage struct{}

func (stubStorage) Put(_ context.Context, videoID uuid.UUID, upload repository.Upload) (string, error) {
	return videoID.String() + "/" + string(upload.Slot), nil
}

func (stubStorage) Delete(_ context.Context, _ string) error { return nil }

func (stubStorage) ResolveURL(key string) string {
	if key == "" {
		return ""
	}
	return "http://cdn.local/media/" + key
}

func (stubStorage) Exists(_ context.Context, _ string) (bool, error) { return false, nil }

func (stubStorage) List(_ context.Context, _ string) ([]repository.ObjectInfo, error) {
	return nil, nil
}

func newVideoRouter(svc usecase.VideoService) *chi.Mux {
	h := NewVideoHandler(svc, stubStorage{}, 32<<20)
	r := chi.NewRouter()
	r.Route("/v1/videos", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
	return r
}

func sampleVideo(t *testing.T) *model.Video {
	t.Helper()
	video, err := model.NewVideo("Test Video", "A test video", 2020, true, model.RatingTwelve, 90)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return video
}

func validVideoBody() VideoRequest {
	return VideoRequest{
		Title:        "Test Video",
		Description:  "A test video",
		YearLaunched: 2020,
		Opened:       true,
		Rating:       "12",
		Duration:     90,
	}
}

func decodeValidation(t *testing.T, body []byte) ValidationErrorResponse {
	t.Helper()
	var resp ValidationErrorResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("failed to unmarshal validation response: %v", err)
	}
	return resp
}

func TestVideoHandler_Create(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(m *mockVideoService)
		wantStatusCode int
		checkResponse  func(t *testing.T, body []byte)
	}{
		{
			name:        "successful creation",
			requestBody: validVideoBody(),
			setupMock: func(m *mockVideoService) {
				m.createVideoFn = func(_ context.Context, input usecase.CreateVideoInput) (*model.Video, error) {
					return model.NewVideo(input.Title, input.Description, input.YearLaunched, input.Opened, input.Rating, input.Duration)
				}
			},
			wantStatusCode: http.StatusCreated,
			checkResponse: func(t *testing.T, body []byte) {
				var resp VideoResponse
				if err := json.Unmarshal(body, &resp); err != nil {
					t.Fatalf("failed to unmarshal response: %v", err)
				}
				if resp.Title != "Test Video" || resp.Rating != "12" {
					t.Errorf("unexpected response: %+v", resp)
				}
				if resp.VideoFileURL != "" {
					t.Errorf("expected no file URLs without uploads, got %q", resp.VideoFileURL)
				}
			},
		},
		{
			name:           "invalid JSON body",
			requestBody:    "invalid json",
			setupMock:      func(m *mockVideoService) {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "missing required fields",
			requestBody: VideoRequest{
				Opened: true,
			},
			setupMock:      func(m *mockVideoService) {},
			wantStatusCode: http.StatusUnprocessableEntity,
			checkResponse: func(t *testing.T, body []byte) {
				resp := decodeValidation(t, body)
				for _, field := range []string{"title", "description", "year_launched", "rating", "duration"} {
					if len(resp.Fields[field]) == 0 {
						t.Errorf("expected a validation message for %s, got %v", field, resp.Fields)
					}
				}
			},
		},
		{
			name: "unknown rating",
			requestBody: func() VideoRequest {
				req := validVideoBody()
				req.Rating = "PG-13"
				return req
			}(),
			setupMock:      func(m *mockVideoService) {},
			wantStatusCode: http.StatusUnprocessableEntity,
			checkResponse: func(t *testing.T, body []byte) {
				resp := decodeValidation(t, body)
				if len(resp.Fields["rating"]) == 0 {
					t.Errorf("expected a validation message for rating, got %v", resp.Fields)
				}
			},
		},
		{
			name: "malformed category id",
			requestBody: func() VideoRequest {
				req := validVideoBody()
				req.CategoryIDs = &[]string{"not-a-uuid"}
				return req
			}(),
			setupMock:      func(m *mockVideoService) {},
			wantStatusCode: http.StatusUnprocessableEntity,
			checkResponse: func(t *testing.T, body []byte) {
				resp := decodeValidation(t, body)
				if len(resp.Fields["categories_id"]) == 0 {
					t.Errorf("expected a validation message for categories_id, got %v", resp.Fields)
				}
			},
		},
		{
			name:        "gender outside selected categories",
			requestBody: validVideoBody(),
			setupMock: func(m *mockVideoService) {
				m.createVideoFn = func(_ context.Context, _ usecase.CreateVideoInput) (*model.Video, error) {
					return nil, model.ErrGenderWithoutCategory
				}
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			checkResponse: func(t *testing.T, body []byte) {
				resp := decodeValidation(t, body)
				if len(resp.Fields["genders_id"]) == 0 {
					t.Errorf("expected a validation message for genders_id, got %v", resp.Fields)
				}
			},
		},
		{
			name:        "unknown category from service",
			requestBody: validVideoBody(),
			setupMock: func(m *mockVideoService) {
				m.createVideoFn = func(_ context.Context, _ usecase.CreateVideoInput) (*model.Video, error) {
					return nil, usecase.ErrUnknownCategory
				}
			},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockVideoService{}
			tt.setupMock(svc)
			router := newVideoRouter(svc)

			var body bytes.Buffer
			switch b := tt.requestBody.(type) {
			case string:
				body.WriteString(b)
			default:
				if err := json.NewEncoder(&body).Encode(b); err != nil {
					t.Fatalf("failed to encode request: %v", err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/v1/videos", &body)
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("status = %d, want %d (body: %s)", rec.Code, tt.wantStatusCode, rec.Body.String())
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, rec.Body.Bytes())
			}
		})
	}
}

func TestVideoHandler_CreateMultipart(t *testing.T) {
	var received usecase.CreateVideoInput
	svc := &mockVideoService{
		createVideoFn: func(_ context.Context, input usecase.CreateVideoInput) (*model.Video, error) {
			received = input
			video, err := model.NewVideo(input.Title, input.Description, input.YearLaunched, input.Opened, input.Rating, input.Duration)
			if err != nil {
				return nil, err
			}
			for _, upload := range input.Uploads {
				video.SetFileKey(upload.Slot, video.ID.String()+"/"+string(upload.Slot))
			}
			return video, nil
		},
	}
	router := newVideoRouter(svc)

	categoryID := uuid.New()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("title", "Test Video")
	_ = mw.WriteField("description", "A test video")
	_ = mw.WriteField("year_launched", "2020")
	_ = mw.WriteField("opened", "true")
	_ = mw.WriteField("rating", "12")
	_ = mw.WriteField("duration", "90")
	_ = mw.WriteField("categories_id", categoryID.String())
	part, err := mw.CreateFormFile("thumb_file", "thumb.png")
	if err != nil {
		t.Fatalf("failed to create file part: %v", err)
	}
	if _, err := io.WriteString(part, "png bytes"); err != nil {
		t.Fatalf("failed to write file part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/videos", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}
	if received.CategoryIDs == nil || len(received.CategoryIDs) != 1 || received.CategoryIDs[0] != categoryID {
		t.Errorf("unexpected categories: %v", received.CategoryIDs)
	}
	if len(received.Uploads) != 1 || received.Uploads[0].Slot != model.SlotThumbFile {
		t.Fatalf("unexpected uploads: %+v", received.Uploads)
	}
	if received.Uploads[0].Name != "thumb.png" {
		t.Errorf("unexpected upload name: %s", received.Uploads[0].Name)
	}

	var resp VideoResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.ThumbFileURL == "" {
		t.Error("expected the thumb URL to be resolved")
	}
}

func TestVideoHandler_CreateMultipartOversizedFile(t *testing.T) {
	svc := &mockVideoService{
		createVideoFn: func(_ context.Context, _ usecase.CreateVideoInput) (*model.Video, error) {
			t.Error("service should not be called for an oversized file")
			return nil, nil
		},
	}
	router := newVideoRouter(svc)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("title", "Test Video")
	_ = mw.WriteField("description", "A test video")
	_ = mw.WriteField("year_launched", "2020")
	_ = mw.WriteField("rating", "12")
	_ = mw.WriteField("duration", "90")
	part, err := mw.CreateFormFile("thumb_file", "thumb.png")
	if err != nil {
		t.Fatalf("failed to create file part: %v", err)
	}
	if _, err := part.Write(bytes.Repeat([]byte("x"), int(model.ThumbFileMaxSize)+1)); err != nil {
		t.Fatalf("failed to write file part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/videos", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusUnprocessableEntity, rec.Body.String())
	}
	resp := decodeValidation(t, rec.Body.Bytes())
	if len(resp.Fields["thumb_file"]) == 0 {
		t.Errorf("expected a validation message for thumb_file, got %v", resp.Fields)
	}
}

func TestVideoHandler_Update(t *testing.T) {
	t.Run("absent relation arrays leave relations untouched", func(t *testing.T) {
		var received usecase.UpdateVideoInput
		svc := &mockVideoService{
			updateVideoFn: func(_ context.Context, input usecase.UpdateVideoInput) (*model.Video, error) {
				received = input
				return sampleVideo(t), nil
			},
		}
		router := newVideoRouter(svc)

		var body bytes.Buffer
		if err := json.NewEncoder(&body).Encode(validVideoBody()); err != nil {
			t.Fatalf("failed to encode request: %v", err)
		}
		req := httptest.NewRequest(http.MethodPut, "/v1/videos/"+uuid.NewString(), &body)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
		}
		if received.CategoryIDs != nil || received.GenderIDs != nil {
			t.Errorf("expected nil relation sets, got %v / %v", received.CategoryIDs, received.GenderIDs)
		}
	})

	t.Run("empty relation arrays are forwarded", func(t *testing.T) {
		var received usecase.UpdateVideoInput
		svc := &mockVideoService{
			updateVideoFn: func(_ context.Context, input usecase.UpdateVideoInput) (*model.Video, error) {
				received = input
				return sampleVideo(t), nil
			},
		}
		router := newVideoRouter(svc)

		reqBody := validVideoBody()
		reqBody.CategoryIDs = &[]string{}
		reqBody.GenderIDs = &[]string{}
		var body bytes.Buffer
		if err := json.NewEncoder(&body).Encode(reqBody); err != nil {
			t.Fatalf("failed to encode request: %v", err)
		}
		req := httptest.NewRequest(http.MethodPut, "/v1/videos/"+uuid.NewString(), &body)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
		}
		if received.CategoryIDs == nil || len(received.CategoryIDs) != 0 {
			t.Errorf("expected an empty category set, got %v", received.CategoryIDs)
		}
		if received.GenderIDs == nil || len(received.GenderIDs) != 0 {
			t.Errorf("expected an empty gender set, got %v", received.GenderIDs)
		}
	})

	t.Run("unknown video returns 404", func(t *testing.T) {
		svc := &mockVideoService{
			updateVideoFn: func(_ context.Context, _ usecase.UpdateVideoInput) (*model.Video, error) {
				return nil, repository.ErrVideoNotFound
			},
		}
		router := newVideoRouter(svc)

		var body bytes.Buffer
		if err := json.NewEncoder(&body).Encode(validVideoBody()); err != nil {
			t.Fatalf("failed to encode request: %v", err)
		}
		req := httptest.NewRequest(http.MethodPut, "/v1/videos/"+uuid.NewString(), &body)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})
}

func TestVideoHandler_Get(t *testing.T) {
	video := func(t *testing.T) *model.Video {
		v := sampleVideo(t)
		v.SetFileKey(model.SlotThumbFile, v.ID.String()+"/thumb_file-x.png")
		return v
	}

	t.Run("returns the video with resolved URLs", func(t *testing.T) {
		v := video(t)
		svc := &mockVideoService{
			getVideoFn: func(_ context.Context, videoID uuid.UUID) (*model.Video, error) {
				if videoID != v.ID {
					return nil, repository.ErrVideoNotFound
				}
				return v, nil
			},
		}
		router := newVideoRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/v1/videos/"+v.ID.String(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		var resp VideoResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if resp.ThumbFileURL != "http://cdn.local/media/"+v.ThumbFile {
			t.Errorf("unexpected thumb URL: %s", resp.ThumbFileURL)
		}
		if resp.VideoFileURL != "" {
			t.Errorf("expected empty video URL, got %s", resp.VideoFileURL)
		}
	})

	t.Run("invalid id returns 400", func(t *testing.T) {
		router := newVideoRouter(&mockVideoService{})
		req := httptest.NewRequest(http.MethodGet, "/v1/videos/not-a-uuid", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("unknown video returns 404", func(t *testing.T) {
		router := newVideoRouter(&mockVideoService{})
		req := httptest.NewRequest(http.MethodGet, "/v1/videos/"+uuid.NewString(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})
}

func TestVideoHandler_List(t *testing.T) {
	svc := &mockVideoService{
		listVideosFn: func(_ context.Context) ([]*model.Video, error) {
			return []*model.Video{sampleVideo(t), sampleVideo(t)}, nil
		},
	}
	router := newVideoRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/v1/videos", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var resp []VideoResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(resp) != 2 {
		t.Errorf("expected 2 videos, got %d", len(resp))
	}
}

func TestVideoHandler_Delete(t *testing.T) {
	t.Run("deletes and returns 204", func(t *testing.T) {
		var deleted uuid.UUID
		svc := &mockVideoService{
			deleteVideoFn: func(_ context.Context, videoID uuid.UUID) error {
				deleted = videoID
				return nil
			},
		}
		router := newVideoRouter(svc)

		videoID := uuid.New()
		req := httptest.NewRequest(http.MethodDelete, "/v1/videos/"+videoID.String(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
		}
		if deleted != videoID {
			t.Errorf("expected delete of %s, got %s", videoID, deleted)
		}
	})

	t.Run("unknown video returns 404", func(t *testing.T) {
		svc := &mockVideoService{
			deleteVideoFn: func(_ context.Context, _ uuid.UUID) error {
				return repository.ErrVideoNotFound
			},
		}
		router := newVideoRouter(svc)

		req := httptest.NewRequest(http.MethodDelete, "/v1/videos/"+uuid.NewString(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})
}
