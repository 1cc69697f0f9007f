package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"bookshelf/internal/catalog"
	"bookshelf/internal/httpx"
	"bookshelf/internal/usecase"

	"github.com/rs/zerolog"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type BookHandler struct {
	library *usecase.Library
	logger  zerolog.Logger
}

func NewBookHandler(library *usecase.Library, logger zerolog.Logger) *BookHandler {
	return &BookHandler{library: library, logger: logger}
}

// List handles GET /v1/books?page&page_size
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	rows := h.library.Rows()
	total := len(rows)

	totalPages := (total + pageSize - 1) / pageSize

	// Pages past the end are empty. Compare before multiplying so a huge
	// page cannot overflow.
	start := total
	if page <= totalPages {
		start = (page - 1) * pageSize
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	httpx.JSONSuccess(w, r, rows[start:end], map[string]interface{}{
		"page":        page,
		"page_size":   pageSize,
		"total":       total,
		"total_pages": totalPages,
	})
}

// Create handles POST /v1/books
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	row, err := h.library.Add(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpx.JSONCreated(w, r, row)
}

// Update handles PUT /v1/books/{position}
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	position, ok := positionParam(w, r)
	if !ok {
		return
	}
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	if err := h.library.Update(r.Context(), position, in); err != nil {
		h.writeError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, usecase.Row{Position: position, Title: in.Title, Author: in.Author}, nil)
}

// Delete handles DELETE /v1/books/{position}
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	position, ok := positionParam(w, r)
	if !ok {
		return
	}

	if err := h.library.Delete(r.Context(), position); err != nil {
		h.writeError(w, r, err)
		return
	}

	httpx.JSONNoContent(w)
}

// Search handles GET /v1/books/search?q=
func (h *BookHandler) Search(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("q")

	records, err := h.library.Search(keyword)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, records, map[string]interface{}{
		"query": keyword,
		"total": len(records),
	})
}

func positionParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	position, err := strconv.Atoi(r.PathValue("position"))
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "position must be an integer", nil)
		return 0, false
	}
	return position, true
}

func (h *BookHandler) decodeInput(w http.ResponseWriter, r *http.Request) (usecase.BookInput, bool) {
	var in usecase.BookInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httpx.JSONError(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large", nil)
			return in, false
		}
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return in, false
	}
	return in, true
}

func (h *BookHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *usecase.ValidationError
	switch {
	case errors.As(err, &verr):
		details := make([]httpx.ErrorDetail, len(verr.Fields))
		for i, f := range verr.Fields {
			details[i] = httpx.ErrorDetail{Field: f.Field, Message: f.Message}
		}
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Fields cannot be empty", details)
	case errors.Is(err, usecase.ErrDuplicate):
		httpx.JSONError(w, r, http.StatusConflict, "DUPLICATE", "Duplicate book not allowed", nil)
	case errors.Is(err, usecase.ErrEmptyKeyword):
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Enter search keyword", nil)
	case errors.Is(err, catalog.ErrOutOfRange):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	default:
		h.logger.Error().Err(err).Str("request_id", httpx.RequestIDFrom(r)).Msg("book request failed")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "server error", nil)
	}
}
