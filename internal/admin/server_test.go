package admin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubReloader struct {
	err error
}

func (s *stubReloader) Reload(ctx context.Context) error { return s.err }

func TestEngine_HealthReturnsOK(t *testing.T) {
	engine := newEngine(zap.NewNop(), nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEngine_ReadyReturnsOK(t *testing.T) {
	engine := newEngine(zap.NewNop(), nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEngine_MetricsServesPrometheusFormat(t *testing.T) {
	engine := newEngine(zap.NewNop(), nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEngine_ReloadWithoutReloaderReturnsUnavailable(t *testing.T) {
	engine := newEngine(zap.NewNop(), nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/reload", nil)
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestEngine_ReloadSuccessReturnsOK(t *testing.T) {
	engine := newEngine(zap.NewNop(), &stubReloader{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/reload", nil)
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEngine_ReloadFailureReturnsInternalError(t *testing.T) {
	engine := newEngine(zap.NewNop(), &stubReloader{err: errors.New("store unreachable")})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/reload", nil)
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAddr_FallsBackWhenConfigEmpty(t *testing.T) {
	assert.Equal(t, ":8080", addr(nil))
}
