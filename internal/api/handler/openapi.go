package handler

import (
	"encoding/hex"
	"log/slog"
	"net/http"
	"sync"

	"golang.org/x/crypto/blake2b"
	"sigs.k8s.io/yaml"

	"github.com/roadsentinel/roadsentinel/internal/api/middleware"
	"github.com/roadsentinel/roadsentinel/internal/api/response"
)

// OpenAPIHandler serves the embedded OpenAPI document as JSON. The document
// is converted once and then served with a content-derived ETag.
type OpenAPIHandler struct {
	rawYAML []byte

	once     sync.Once
	jsonSpec []byte
	etag     string
	err      error
}

// NewOpenAPIHandler creates a handler for the given YAML document.
func NewOpenAPIHandler(yamlSpec []byte) *OpenAPIHandler {
	return &OpenAPIHandler{rawYAML: yamlSpec}
}

func (h *OpenAPIHandler) load() {
	h.jsonSpec, h.err = yaml.YAMLToJSON(h.rawYAML)
	if h.err != nil {
		return
	}
	sum := blake2b.Sum256(h.jsonSpec)
	h.etag = `"` + hex.EncodeToString(sum[:8]) + `"`
}

// ServeHTTP writes the JSON document, or 304 when the client's copy is current.
func (h *OpenAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.once.Do(h.load)

	if h.err != nil {
		slog.Error("failed to convert OpenAPI spec to JSON", "error", h.err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to convert OpenAPI spec", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("ETag", h.etag)
	w.Header().Set("Cache-Control", "public, max-age=300")
	if r.Header.Get("If-None-Match") == h.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(h.jsonSpec); err != nil {
		slog.Error("failed to write OpenAPI spec response", "error", err)
	}
}
