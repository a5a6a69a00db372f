package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "message-board/backend/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const messagePath = "/api/v1/organizations/11111111-1111-1111-1111-111111111111/messages/22222222-2222-2222-2222-222222222222"

func setupValidatedRouter(t *testing.T) *gin.Engine {
	t.Helper()
	v, err := NewOpenAPIValidator("../../api/openapi.yaml")
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(apperrors.ErrorHandler())
	r.Use(v.Middleware())
	r.PUT("/api/v1/organizations/:organizationId/messages/:id", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/elsewhere", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func send(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMiddleware_AcceptsWellTypedBody(t *testing.T) {
	r := setupValidatedRouter(t)

	w := send(r, http.MethodPut, messagePath, `{"title":"Hi","content":"short","isActive":true}`)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestMiddleware_RejectsTypeMismatch(t *testing.T) {
	r := setupValidatedRouter(t)

	w := send(r, http.MethodPut, messagePath, `{"title":"Hello","content":"Some content","isActive":"yes"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"INVALID_REQUEST"`)
}

func TestMiddleware_IgnoresUndescribedRoutes(t *testing.T) {
	r := setupValidatedRouter(t)

	w := send(r, http.MethodGet, "/elsewhere", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNewOpenAPIValidatorFromData(t *testing.T) {
	_, err := NewOpenAPIValidatorFromData([]byte("not: [valid"))
	assert.Error(t, err)

	v, err := NewOpenAPIValidatorFromData([]byte(`
openapi: 3.0.3
info: {title: t, version: "1"}
paths:
  /ping:
    post:
      requestBody:
        content:
          application/json:
            schema:
              type: object
              properties:
                count: {type: integer}
      responses:
        '204': {description: ok}
`))
	require.NoError(t, err)
	assert.Error(t, v.ReloadSchema())

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(apperrors.ErrorHandler())
	r.Use(v.Middleware())
	r.POST("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, send(r, http.MethodPost, "/ping", `{"count":3}`).Code)
	assert.Equal(t, http.StatusBadRequest, send(r, http.MethodPost, "/ping", `{"count":"three"}`).Code)
}

func TestNewOpenAPIValidator_MissingFile(t *testing.T) {
	_, err := NewOpenAPIValidator("does-not-exist.yaml")
	assert.Error(t, err)
}
