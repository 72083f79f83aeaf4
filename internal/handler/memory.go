package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/voyage/voyage/internal/auth"
	"github.com/voyage/voyage/internal/handler/dto"
	"github.com/voyage/voyage/internal/model"
	"github.com/voyage/voyage/internal/service"
)

// MemoryHandler handles HTTP requests for memory operations.
type MemoryHandler struct {
	svc    *service.MemoryService
	logger *slog.Logger
}

// NewMemoryHandler creates a new MemoryHandler.
func NewMemoryHandler(svc *service.MemoryService, logger *slog.Logger) *MemoryHandler {
	return &MemoryHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /memories.
func (h *MemoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.UserIDFromContext(r.Context())

	var req dto.CreateMemoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.MessageResponse{Message: "Invalid request body"})
		return
	}

	input := service.MemoryInput{
		Title:        req.Title,
		Description:  req.Description,
		PlaceName:    req.PlaceName,
		LocationLink: req.LocationLink,
		FromDate:     req.FromDate,
		ToDate:       req.ToDate,
		Photo:        req.Photo,
	}

	memory, err := h.svc.CreateMemory(r.Context(), ownerID, input)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("memory_created",
		"memory_id", memory.ID,
		"user_id", ownerID,
	)

	writeJSON(w, http.StatusCreated, dto.MemoryEnvelope{
		Message: "Memory created successfully",
		Memory:  dto.ToMemoryResponse(memory),
	})
}

// List handles GET /memories.
// Supports optional search, year, and month query parameters.
func (h *MemoryHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.UserIDFromContext(r.Context())
	query := r.URL.Query()

	input := service.ListMemoriesInput{
		Search: query.Get("search"),
	}

	if y := query.Get("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, dto.MessageResponse{Message: "Invalid year parameter"})
			return
		}
		input.Year = &parsed
	}

	if m := query.Get("month"); m != "" {
		parsed, err := strconv.Atoi(m)
		if err != nil || parsed < 0 || parsed > 11 {
			writeJSON(w, http.StatusBadRequest, dto.MessageResponse{Message: "Invalid month parameter"})
			return
		}
		input.Month = &parsed
	}

	result, err := h.svc.ListMemories(r.Context(), ownerID, input)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToMemoryListResponse(result))
}

// Get handles GET /memories/{id}.
func (h *MemoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.UserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	memory, err := h.svc.GetMemory(r.Context(), ownerID, id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MemoryEnvelope{
		Memory: dto.ToMemoryResponse(memory),
	})
}

// Update handles PUT /memories/{id}.
func (h *MemoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.UserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req dto.UpdateMemoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.MessageResponse{Message: "Invalid request body"})
		return
	}

	input := service.UpdateMemoryInput{
		Title:        req.Title,
		Description:  req.Description,
		PlaceName:    req.PlaceName,
		LocationLink: req.LocationLink,
		FromDate:     req.FromDate,
		ToDate:       req.ToDate,
		Photo:        req.Photo,
	}

	memory, err := h.svc.UpdateMemory(r.Context(), ownerID, id, input)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("memory_updated",
		"memory_id", memory.ID,
		"user_id", ownerID,
	)

	writeJSON(w, http.StatusOK, dto.MemoryEnvelope{
		Message: "Memory updated successfully",
		Memory:  dto.ToMemoryResponse(memory),
	})
}

// Delete handles DELETE /memories/{id}.
func (h *MemoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.UserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.svc.DeleteMemory(r.Context(), ownerID, id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("memory_deleted",
		"memory_id", id,
		"user_id", ownerID,
	)

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Memory deleted successfully"})
}

// DeleteAll handles DELETE /memories.
func (h *MemoryHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.UserIDFromContext(r.Context())

	count, err := h.svc.DeleteAllMemories(r.Context(), ownerID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("memories_deleted_all",
		"user_id", ownerID,
		"count", count,
	)

	writeJSON(w, http.StatusOK, dto.DeleteAllResponse{
		Message:      "All memories deleted successfully",
		DeletedCount: count,
	})
}

// handleServiceError maps service errors to HTTP responses.
func (h *MemoryHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs model.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusBadRequest, dto.ValidationErrorResponse{
			Message: "Validation failed",
			Errors:  verrs,
		})
	case errors.Is(err, service.ErrMemoryNotFound):
		writeJSON(w, http.StatusNotFound, dto.MessageResponse{Message: "Memory not found"})
	default:
		h.logger.Error("internal_error",
			"error", err,
			"path", r.URL.Path,
		)
		writeJSON(w, http.StatusInternalServerError, dto.MessageResponse{Message: "Server error, please try again later"})
	}
}
