package api

import (
	"net/http"
	"testing"
	"time"

	"message-board/backend/internal/models"
	"message-board/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type unknownResult struct{ service.Updated }

func TestMapResult(t *testing.T) {
	message := &models.Message{
		ID:             uuid.MustParse("22222222-2222-2222-2222-222222222222"),
		OrganizationID: uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		Title:          "Hello World",
		Content:        "This is a valid content message.",
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
	}
	errs := map[string][]string{"Title": {"Title must be 3-200 characters."}}

	tests := []struct {
		name   string
		result service.Result
		want   Response
	}{
		{
			name:   "created",
			result: service.Created{Message: message},
			want: Response{
				Status:   http.StatusCreated,
				Location: "/api/v1/organizations/11111111-1111-1111-1111-111111111111/messages/22222222-2222-2222-2222-222222222222",
				Body:     message,
			},
		},
		{name: "updated", result: service.Updated{}, want: Response{Status: http.StatusNoContent}},
		{name: "deleted", result: service.Deleted{}, want: Response{Status: http.StatusNoContent}},
		{
			name:   "not found",
			result: service.NotFound{Message: "Message not found."},
			want:   Response{Status: http.StatusNotFound, Body: gin.H{"message": "Message not found."}},
		},
		{
			name:   "conflict",
			result: service.Conflict{Message: "Title must be unique per organization."},
			want:   Response{Status: http.StatusConflict, Body: gin.H{"message": "Title must be unique per organization."}},
		},
		{
			name:   "validation error",
			result: service.ValidationError{Errors: errs},
			want:   Response{Status: http.StatusBadRequest, Body: errs},
		},
		{name: "nil result", result: nil, want: Response{Status: http.StatusBadRequest}},
		{name: "unknown result", result: unknownResult{}, want: Response{Status: http.StatusBadRequest}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapResult(tt.result))
		})
	}
}
