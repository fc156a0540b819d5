package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLoggerMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	handler := RequestLoggerMiddleware(logger, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/gallery?category=photography", nil))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "completed HTTP request", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "/api/gallery", fields["path"])
	assert.Equal(t, "photography", fields["category"])
	assert.Equal(t, int64(http.StatusTeapot), fields["status_code"])

	t.Run("no category param", func(t *testing.T) {
		handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/filters", nil))
		entry := logs.All()[logs.Len()-1]
		_, ok := entry.ContextMap()["category"]
		assert.False(t, ok)
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := RecoveryMiddleware(zap.NewNop(), func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		handler(rec, httptest.NewRequest(http.MethodGet, "/api/gallery", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
