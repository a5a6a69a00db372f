package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"message-board/backend/internal/models"
	"message-board/backend/internal/repository"
	"message-board/backend/pkg/logger"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "message-board/backend/internal/service"

const (
	msgNotFound          = "Message not found."
	msgTitleTaken        = "Title must be unique per organization."
	msgTitleTakenByOther = "Another message with this title already exists."
	msgInactiveUpdate    = "Inactive messages cannot be updated."
	msgInactiveDelete    = "Only active messages can be deleted."
)

// MessageService applies the message business rules on top of a repository.
// It holds no per-request state and performs repository calls sequentially;
// repository errors are returned wrapped, never converted into a Result.
type MessageService struct {
	repo     repository.MessageRepository
	now      func() time.Time
	newID    func() uuid.UUID
	tracer   trace.Tracer
	outcomes metric.Int64Counter
}

// NewMessageService creates a message service backed by repo
func NewMessageService(repo repository.MessageRepository) *MessageService {
	outcomes, err := otel.Meter(instrumentationName).Int64Counter(
		"message_operation_outcomes",
		metric.WithDescription("Outcomes of message operations by operation and variant"),
	)
	if err != nil {
		logger.GetGlobal().LogError(err, "Failed to create outcome counter")
		outcomes = noop.Int64Counter{}
	}

	return &MessageService{
		repo:     repo,
		now:      time.Now,
		newID:    uuid.New,
		tracer:   otel.Tracer(instrumentationName),
		outcomes: outcomes,
	}
}

// List returns every message of the organization, oldest first
func (s *MessageService) List(ctx context.Context, organizationID uuid.UUID) ([]models.Message, error) {
	ctx, span := s.start(ctx, "List", organizationID)
	defer span.End()

	messages, err := s.repo.GetAllByOrganization(ctx, organizationID)
	if err != nil {
		return nil, s.fail(span, fmt.Errorf("failed to list messages: %w", err))
	}
	return messages, nil
}

// Get returns the message, or nil without error when it does not exist
func (s *MessageService) Get(ctx context.Context, organizationID, id uuid.UUID) (*models.Message, error) {
	ctx, span := s.start(ctx, "Get", organizationID, attribute.String("message.id", id.String()))
	defer span.End()

	message, err := s.repo.GetByID(ctx, organizationID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail(span, fmt.Errorf("failed to get message: %w", err))
	}
	return message, nil
}

// Create validates req and stores a new active message
func (s *MessageService) Create(ctx context.Context, organizationID uuid.UUID, req models.CreateMessageRequest) (Result, error) {
	ctx, span := s.start(ctx, "Create", organizationID)
	defer span.End()

	if errs := validateFields(req, createFieldMessages); errs != nil {
		return s.finish(ctx, span, "create", ValidationError{Errors: errs}), nil
	}

	taken, err := s.titleTaken(ctx, organizationID, req.Title, uuid.Nil)
	if err != nil {
		return nil, s.fail(span, err)
	}
	if taken {
		return s.finish(ctx, span, "create", Conflict{Message: msgTitleTaken}), nil
	}

	message := &models.Message{
		ID:             s.newID(),
		OrganizationID: organizationID,
		Title:          req.Title,
		Content:        req.Content,
		IsActive:       true,
		CreatedAt:      s.now().UTC(),
	}
	created, err := s.repo.Create(ctx, message)
	if err != nil {
		return nil, s.fail(span, fmt.Errorf("failed to create message: %w", err))
	}
	return s.finish(ctx, span, "create", Created{Message: created}), nil
}

// Update replaces title, content and active flag of an active message
func (s *MessageService) Update(ctx context.Context, organizationID, id uuid.UUID, req models.UpdateMessageRequest) (Result, error) {
	ctx, span := s.start(ctx, "Update", organizationID, attribute.String("message.id", id.String()))
	defer span.End()

	existing, err := s.repo.GetByID(ctx, organizationID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return s.finish(ctx, span, "update", NotFound{Message: msgNotFound}), nil
	}
	if err != nil {
		return nil, s.fail(span, fmt.Errorf("failed to get message: %w", err))
	}

	if !existing.IsActive {
		return s.finish(ctx, span, "update", ValidationError{Errors: map[string][]string{
			FieldIsActive: {msgInactiveUpdate},
		}}), nil
	}

	if errs := validateFields(req, updateFieldMessages); errs != nil {
		return s.finish(ctx, span, "update", ValidationError{Errors: errs}), nil
	}

	taken, err := s.titleTaken(ctx, organizationID, req.Title, id)
	if err != nil {
		return nil, s.fail(span, err)
	}
	if taken {
		return s.finish(ctx, span, "update", Conflict{Message: msgTitleTakenByOther}), nil
	}

	now := s.now().UTC()
	existing.Title = req.Title
	existing.Content = req.Content
	existing.IsActive = req.IsActive
	existing.UpdatedAt = &now

	_, err = s.repo.Update(ctx, existing)
	if errors.Is(err, repository.ErrNotFound) {
		return s.finish(ctx, span, "update", NotFound{Message: msgNotFound}), nil
	}
	if err != nil {
		return nil, s.fail(span, fmt.Errorf("failed to update message: %w", err))
	}
	return s.finish(ctx, span, "update", Updated{}), nil
}

// Delete removes an active message
func (s *MessageService) Delete(ctx context.Context, organizationID, id uuid.UUID) (Result, error) {
	ctx, span := s.start(ctx, "Delete", organizationID, attribute.String("message.id", id.String()))
	defer span.End()

	existing, err := s.repo.GetByID(ctx, organizationID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return s.finish(ctx, span, "delete", NotFound{Message: msgNotFound}), nil
	}
	if err != nil {
		return nil, s.fail(span, fmt.Errorf("failed to get message: %w", err))
	}

	if !existing.IsActive {
		return s.finish(ctx, span, "delete", ValidationError{Errors: map[string][]string{
			FieldIsActive: {msgInactiveDelete},
		}}), nil
	}

	deleted, err := s.repo.Delete(ctx, organizationID, id)
	if err != nil {
		return nil, s.fail(span, fmt.Errorf("failed to delete message: %w", err))
	}
	if !deleted {
		return s.finish(ctx, span, "delete", NotFound{Message: msgNotFound}), nil
	}
	return s.finish(ctx, span, "delete", Deleted{}), nil
}

// titleTaken reports whether a message other than self already uses title.
// Comparison is exact and case-sensitive.
func (s *MessageService) titleTaken(ctx context.Context, organizationID uuid.UUID, title string, self uuid.UUID) (bool, error) {
	existing, err := s.repo.GetByTitle(ctx, organizationID, title)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up title: %w", err)
	}
	return existing.ID != self, nil
}

func (s *MessageService) start(ctx context.Context, op string, organizationID uuid.UUID, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("organization.id", organizationID.String()))
	return s.tracer.Start(ctx, "MessageService."+op, trace.WithAttributes(attrs...))
}

func (s *MessageService) finish(ctx context.Context, span trace.Span, op string, result Result) Result {
	span.SetAttributes(attribute.String("outcome", result.Outcome()))
	s.outcomes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("outcome", result.Outcome()),
	))
	logger.FromContext(ctx).Debug("Message operation finished", "operation", op, "outcome", result.Outcome())
	return result
}

func (s *MessageService) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
