package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookshelf/internal/catalog"
	"bookshelf/internal/entity"
	"bookshelf/internal/store"
	"bookshelf/internal/usecase"

	"github.com/rs/zerolog"
)

// Fixture records used across handler and interface tests.
var (
	Dune       = entity.NewRecord("Dune", "Frank Herbert")
	Emma       = entity.NewRecord("Emma", "Jane Austen")
	Foundation = entity.NewRecord("Foundation", "Isaac Asimov")
)

// NewLibrary returns a library over an in-memory store holding records.
// The store is returned so tests can inspect what was saved.
func NewLibrary(t testing.TB, records ...entity.Record) (*usecase.Library, *store.Memory) {
	t.Helper()
	mem := store.NewMemory(records...)
	c := catalog.New(context.Background(), mem, catalog.WithLogger(zerolog.Nop()))
	return usecase.NewLibrary(c), mem
}

// NewRequest creates a new HTTP request for testing
func NewRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	var r *http.Request
	if bodyBytes != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// RecordResponse records the HTTP response for testing
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]interface{}
}

// RecordHTTPResponse records the HTTP response
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]interface{}
	if len(bodyBytes) > 0 {
		_ = json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}

// ErrorCode returns error.code from an error envelope, or "".
func (r RecordResponse) ErrorCode() string {
	errObj, ok := r.Body["error"].(map[string]interface{})
	if !ok {
		return ""
	}
	code, _ := errObj["code"].(string)
	return code
}
