package ingest

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"

	"bookshelf/internal/httpx"
)

type HTTPHandler struct {
	svc    *Service
	secret string
}

func NewHTTPHandler(svc *Service, secret string) *HTTPHandler {
	return &HTTPHandler{svc: svc, secret: secret}
}

// Ingest handles POST /v1/ingest?q=&max=
func (h *HTTPHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	if h.secret != "" {
		secret := r.Header.Get("X-Internal-Secret")
		if subtle.ConstantTimeCompare([]byte(secret), []byte(h.secret)) != 1 {
			httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid internal secret", nil)
			return
		}
	}

	max := DefaultMax
	if v := r.URL.Query().Get("max"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "max must be a positive integer", nil)
			return
		}
		max = n
	}

	res, err := h.svc.Run(r.Context(), r.URL.Query().Get("q"), max)
	if err != nil {
		if errors.Is(err, ErrEmptyQuery) {
			httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
			return
		}
		httpx.JSONError(w, r, http.StatusBadGateway, "INGEST_FAILED", err.Error(), nil)
		return
	}

	httpx.JSONSuccess(w, r, res, nil)
}
