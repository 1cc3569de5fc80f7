package health_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/serroba/tinyurl-history/internal/health"
	"github.com/serroba/tinyurl-history/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockChecker struct {
	err error
}

func (m *mockChecker) Ping(_ context.Context) error {
	return m.err
}

func TestNewHandler(t *testing.T) {
	checker := &mockChecker{}
	handler := health.NewHandler("memory", checker)

	assert.NotNil(t, handler)
}

func TestHandler_Check(t *testing.T) {
	t.Run("returns ok when backend is healthy", func(t *testing.T) {
		checker := &mockChecker{err: nil}
		handler := health.NewHandler("redis", checker)

		resp, err := handler.Check(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, "ok", resp.Body.Status)
		assert.Equal(t, "redis", resp.Body.Backend.Name)
		assert.Equal(t, "healthy", resp.Body.Backend.Status)
	})

	t.Run("returns degraded when backend is unhealthy", func(t *testing.T) {
		checker := &mockChecker{err: errors.New("connection refused")}
		handler := health.NewHandler("redis", checker)

		resp, err := handler.Check(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, "degraded", resp.Body.Status)
		assert.Equal(t, "unhealthy", resp.Body.Backend.Status)
	})

	t.Run("works with a real backend", func(t *testing.T) {
		handler := health.NewHandler("memory", store.NewMemoryStore())

		resp, err := handler.Check(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, "ok", resp.Body.Status)
	})
}

func TestRegisterRoutes(t *testing.T) {
	_, api := humatest.New(t)
	health.RegisterRoutes(api, health.NewHandler("memory", &mockChecker{}))

	resp := api.Get("/health")

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"status":"ok"`)
}
