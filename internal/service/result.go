package service

import "message-board/backend/internal/models"

// Result is the outcome of a mutating message operation. The set of
// implementations is closed: Created, Updated, Deleted, NotFound, Conflict
// and ValidationError.
type Result interface {
	// Outcome names the variant for logs, traces and metrics
	Outcome() string
	sealed()
}

// Created carries the newly persisted message
type Created struct {
	Message *models.Message
}

// Updated signals a successful update
type Updated struct{}

// Deleted signals a successful delete
type Deleted struct{}

// NotFound signals that the referenced message does not exist
type NotFound struct {
	Message string
}

// Conflict signals a title collision within the organization
type Conflict struct {
	Message string
}

// ValidationError maps field names to the problems found with them
type ValidationError struct {
	Errors map[string][]string
}

func (Created) Outcome() string         { return "created" }
func (Updated) Outcome() string         { return "updated" }
func (Deleted) Outcome() string         { return "deleted" }
func (NotFound) Outcome() string        { return "not_found" }
func (Conflict) Outcome() string        { return "conflict" }
func (ValidationError) Outcome() string { return "validation_error" }

func (Created) sealed()         {}
func (Updated) sealed()         {}
func (Deleted) sealed()         {}
func (NotFound) sealed()        {}
func (Conflict) sealed()        {}
func (ValidationError) sealed() {}
