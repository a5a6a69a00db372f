package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var records []map[string]any
	dec := json.NewDecoder(buf)
	for dec.More() {
		var record map[string]any
		require.NoError(t, dec.Decode(&record))
		records = append(records, record)
	}
	return records
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", JSON: true, Output: &buf})

	log.Info("dropped")
	log.Warn("kept", "key", "value")

	records := decodeLines(t, &buf)
	require.Len(t, records, 1)
	assert.Equal(t, "kept", records[0]["msg"])
	assert.Equal(t, "value", records[0]["key"])
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", JSON: true, Output: &buf})

	log.LogError(errors.New("disk full"), "Write failed", "path", "/tmp")

	records := decodeLines(t, &buf)
	require.Len(t, records, 1)
	assert.Equal(t, "ERROR", records[0]["level"])
	assert.Equal(t, "disk full", records[0]["error"])
	assert.Equal(t, "/tmp", records[0]["path"])
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{JSON: true, Output: &buf})

	assert.Same(t, GetGlobal(), FromContext(context.Background()))

	ctx := NewContext(context.Background(), log.WithRequestID("abc"))
	FromContext(ctx).Info("hello")

	records := decodeLines(t, &buf)
	require.Len(t, records, 1)
	assert.Equal(t, "abc", records[0]["request_id"])
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	log := New(Config{JSON: true, Output: &buf})

	r := gin.New()
	r.Use(Middleware(log))
	r.GET("/items/:id", func(c *gin.Context) {
		FromContext(c.Request.Context()).Info("inside handler")
		assert.NotSame(t, log, FromGin(c))
		c.Status(http.StatusTeapot)
	})

	t.Run("propagates incoming request id", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest(http.MethodGet, "/items/1", nil)
		req.Header.Set(RequestIDHeader, "req-42")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))

		records := decodeLines(t, &buf)
		require.Len(t, records, 2)
		assert.Equal(t, "inside handler", records[0]["msg"])
		assert.Equal(t, "req-42", records[0]["request_id"])
		assert.Equal(t, "request completed", records[1]["msg"])
		assert.Equal(t, "/items/:id", records[1]["path"])
		assert.Equal(t, float64(http.StatusTeapot), records[1]["status"])
	})

	t.Run("generates a request id", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/1", nil))
		assert.Len(t, w.Header().Get(RequestIDHeader), 36)
	})
}
