package health

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
)

// Checker defines the interface for checking a dependency's health.
type Checker interface {
	Ping(ctx context.Context) error
}

// Handler handles health check operations.
type Handler struct {
	backendName string
	backend     Checker
}

// NewHandler creates a health handler for the named history backend.
func NewHandler(backendName string, backend Checker) *Handler {
	return &Handler{backendName: backendName, backend: backend}
}

// Response is the response for health check endpoint.
type Response struct {
	Body struct {
		Status  string `json:"status"`
		Backend struct {
			Name   string `json:"name"`
			Status string `json:"status"`
		} `json:"backend"`
	}
}

// Check reports whether the history backend is reachable.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	resp := &Response{}
	resp.Body.Status = "ok"
	resp.Body.Backend.Name = h.backendName

	if err := h.backend.Ping(ctx); err != nil {
		resp.Body.Backend.Status = "unhealthy"
		resp.Body.Status = "degraded"
	} else {
		resp.Body.Backend.Status = "healthy"
	}

	return resp, nil
}

// RegisterRoutes registers health check routes.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Get(api, "/health", h.Check)
}
