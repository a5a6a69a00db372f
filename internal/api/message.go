package api

import (
	"errors"
	"net/http"

	"message-board/backend/internal/models"
	"message-board/backend/internal/service"
	apperrors "message-board/backend/pkg/errors"
	"message-board/backend/pkg/resilience"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MessageController handles the organization-scoped message endpoints
type MessageController struct {
	messageService *service.MessageService
}

// NewMessageController creates a new message controller
func NewMessageController(messageService *service.MessageService) *MessageController {
	return &MessageController{messageService: messageService}
}

// RegisterRoutesV1 registers the message routes on the /api/v1 group
func (mc *MessageController) RegisterRoutesV1(v1 *gin.RouterGroup) {
	messages := v1.Group("/organizations/:organizationId/messages")
	{
		messages.GET("", mc.ListMessages)
		messages.GET("/:id", mc.GetMessage)
		messages.POST("", mc.CreateMessage)
		messages.PUT("/:id", mc.UpdateMessage)
		messages.DELETE("/:id", mc.DeleteMessage)
	}
}

// ListMessages returns every message of the organization
func (mc *MessageController) ListMessages(c *gin.Context) {
	organizationID, ok := uuidParam(c, "organizationId")
	if !ok {
		return
	}

	messages, err := mc.messageService.List(c.Request.Context(), organizationID)
	if err != nil {
		c.Error(storeError(err))
		return
	}
	c.JSON(http.StatusOK, messages)
}

// GetMessage returns a single message or 404
func (mc *MessageController) GetMessage(c *gin.Context) {
	organizationID, ok := uuidParam(c, "organizationId")
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	message, err := mc.messageService.Get(c.Request.Context(), organizationID, id)
	if err != nil {
		c.Error(storeError(err))
		return
	}
	if message == nil {
		c.Status(http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, message)
}

// CreateMessage creates a message from a {title, content} body
func (mc *MessageController) CreateMessage(c *gin.Context) {
	organizationID, ok := uuidParam(c, "organizationId")
	if !ok {
		return
	}

	var req models.CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewBadRequestError("INVALID_REQUEST", "Request body must be a JSON object").Wrap(err))
		return
	}

	result, err := mc.messageService.Create(c.Request.Context(), organizationID, req)
	if err != nil {
		c.Error(storeError(err))
		return
	}
	writeResponse(c, MapResult(result))
}

// UpdateMessage replaces a message from a {title, content, isActive} body
func (mc *MessageController) UpdateMessage(c *gin.Context) {
	organizationID, ok := uuidParam(c, "organizationId")
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewBadRequestError("INVALID_REQUEST", "Request body must be a JSON object").Wrap(err))
		return
	}

	result, err := mc.messageService.Update(c.Request.Context(), organizationID, id, req)
	if err != nil {
		c.Error(storeError(err))
		return
	}
	writeResponse(c, MapResult(result))
}

// DeleteMessage deletes an active message
func (mc *MessageController) DeleteMessage(c *gin.Context) {
	organizationID, ok := uuidParam(c, "organizationId")
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	result, err := mc.messageService.Delete(c.Request.Context(), organizationID, id)
	if err != nil {
		c.Error(storeError(err))
		return
	}
	writeResponse(c, MapResult(result))
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.Error(apperrors.NewBadRequestError("INVALID_REQUEST", name+" must be a UUID").Wrap(err))
		return uuid.Nil, false
	}
	return id, true
}

// storeError converts a repository failure into the error rendered by the error handler
func storeError(err error) error {
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return apperrors.NewServiceUnavailableError("STORE_UNAVAILABLE", "Message store is temporarily unavailable").Wrap(err)
	}
	return err
}
