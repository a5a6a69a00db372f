package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"message-board/backend/internal/api"
	"message-board/backend/internal/repository"
	"message-board/backend/internal/service"
	apperrors "message-board/backend/pkg/errors"
	"message-board/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(logger.Middleware(logger.Discard()))
	r.Use(apperrors.ErrorHandler())
	api.NewMessageController(service.NewMessageService(repository.NewMemoryMessageRepository())).
		RegisterRoutesV1(r.Group("/api/v1"))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestSmoke(t *testing.T) {
	client := newAPIClient(newTestServer(t).URL)
	organizationID := uuid.New()

	var steps []string
	err := client.smoke(context.Background(), organizationID, func(format string, _ ...any) {
		steps = append(steps, format)
	})
	require.NoError(t, err)
	assert.Len(t, steps, 5)

	messages, err := client.list(context.Background(), organizationID)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestCreate_ReportsAPIError(t *testing.T) {
	client := newAPIClient(newTestServer(t).URL)

	_, err := client.create(context.Background(), uuid.New(), "Hi", "too short")

	var apiErr *apiError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, apiErr.Body, "Title")
}
