package api

import (
	"fmt"
	"net/http"

	"message-board/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Response is the transport form of a service.Result
type Response struct {
	Status   int
	Location string
	// Body is nil when the response has no content
	Body any
}

// MapResult translates a service result into a response. It has no side effects.
func MapResult(result service.Result) Response {
	switch r := result.(type) {
	case service.Created:
		return Response{
			Status:   http.StatusCreated,
			Location: MessageLocation(r.Message.OrganizationID, r.Message.ID),
			Body:     r.Message,
		}
	case service.Updated, service.Deleted:
		return Response{Status: http.StatusNoContent}
	case service.NotFound:
		return Response{Status: http.StatusNotFound, Body: gin.H{"message": r.Message}}
	case service.Conflict:
		return Response{Status: http.StatusConflict, Body: gin.H{"message": r.Message}}
	case service.ValidationError:
		return Response{Status: http.StatusBadRequest, Body: r.Errors}
	default:
		return Response{Status: http.StatusBadRequest}
	}
}

// MessageLocation is the canonical URL path of a message
func MessageLocation(organizationID, id uuid.UUID) string {
	return fmt.Sprintf("/api/v1/organizations/%s/messages/%s", organizationID, id)
}

func writeResponse(c *gin.Context, resp Response) {
	if resp.Location != "" {
		c.Header("Location", resp.Location)
	}
	if resp.Body == nil {
		c.Status(resp.Status)
		return
	}
	c.JSON(resp.Status, resp.Body)
}
