package service

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

// Field keys used in ValidationError
const (
	FieldTitle    = "Title"
	FieldContent  = "Content"
	FieldIsActive = "IsActive"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// notblank rejects empty and whitespace-only strings
	if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic(err)
	}
	return v
}

var (
	createFieldMessages = map[string]string{
		FieldTitle:   "Title is required and must be 3-200 characters.",
		FieldContent: "Content must be 10-1000 characters.",
	}
	updateFieldMessages = map[string]string{
		FieldTitle:   "Title must be 3-200 characters.",
		FieldContent: "Content must be 10-1000 characters.",
	}
)

// validateFields checks every tagged field of req and returns one entry per
// failing field, or nil when req is valid
func validateFields(req any, messages map[string]string) map[string][]string {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// only reachable when req is not a struct
		panic(err)
	}

	return lo.SliceToMap(fieldErrs, func(fe validator.FieldError) (string, []string) {
		return fe.Field(), []string{messages[fe.Field()]}
	})
}
