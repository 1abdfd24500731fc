package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hszk-dev/videocatalog/internal/domain/model"
	"github.com/hszk-dev/videocatalog/internal/domain/repository"
	"github.com/hszk-dev/videocatalog/internal/usecase"
)

type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// CategoryHandler handles category-related HTTP requests.
type CategoryHandler struct {
	svc usecase.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(svc usecase.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

// Create handles POST /v1/categories
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCategoryRequest(w, r)
	if !ok {
		return
	}

	category, err := h.svc.CreateCategory(r.Context(), usecase.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive == nil || *req.IsActive,
	})
	if err != nil {
		handleCategoryError(w, err)
		return
	}

	JSON(w, http.StatusCreated, toCategoryResponse(category))
}

// Get handles GET /v1/categories/{id}
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	categoryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_category_id", "Category ID must be a valid UUID")
		return
	}

	category, err := h.svc.GetCategory(r.Context(), categoryID)
	if err != nil {
		handleCategoryError(w, err)
		return
	}

	JSON(w, http.StatusOK, toCategoryResponse(category))
}

// List handles GET /v1/categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.ListCategories(r.Context())
	if err != nil {
		handleCategoryError(w, err)
		return
	}

	responses := make([]CategoryResponse, 0, len(categories))
	for _, category := range categories {
		responses = append(responses, toCategoryResponse(category))
	}
	JSON(w, http.StatusOK, responses)
}

// Update handles PUT /v1/categories/{id}
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	categoryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_category_id", "Category ID must be a valid UUID")
		return
	}

	req, ok := decodeCategoryRequest(w, r)
	if !ok {
		return
	}

	category, err := h.svc.UpdateCategory(r.Context(), usecase.UpdateCategoryInput{
		ID:          categoryID,
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive == nil || *req.IsActive,
	})
	if err != nil {
		handleCategoryError(w, err)
		return
	}

	JSON(w, http.StatusOK, toCategoryResponse(category))
}

// Delete handles DELETE /v1/categories/{id}
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	categoryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_category_id", "Category ID must be a valid UUID")
		return
	}

	if err := h.svc.DeleteCategory(r.Context(), categoryID); err != nil {
		handleCategoryError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decodeCategoryRequest(w http.ResponseWriter, r *http.Request) (CategoryRequest, bool) {
	var req CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return req, false
	}
	return req, true
}

func handleCategoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrCategoryNotFound):
		Error(w, http.StatusNotFound, "category_not_found", "Category not found")
	case errors.Is(err, repository.ErrDuplicateCategory):
		Error(w, http.StatusConflict, "duplicate_category", "Category already exists")
	case errors.Is(err, model.ErrEmptyName), errors.Is(err, model.ErrNameTooLong):
		ValidationError(w, fieldErrors{"name": {err.Error()}})
	default:
		Error(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

func toCategoryResponse(c *model.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt.Format(timeFormat),
		UpdatedAt:   c.UpdatedAt.Format(timeFormat),
	}
}
