package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxTitleLength is the maximum number of characters in a stored note title.
// Only the server enforces it; drafts are checked for blank fields alone.
const MaxTitleLength = 500

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field
// messages, e.g. "title: is required; content: is required".
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// Draft is the user-editable part of a note, submitted by create and update.
type Draft struct {
	Title   string `json:"title" validate:"notblank"`
	Content string `json:"content" validate:"notblank"`
}

// storedNote holds the rules a note must satisfy before it is written.
// An empty status is allowed so updates can be checked before the stored
// status is known.
type storedNote struct {
	Title   string `json:"title" validate:"notblank,max=500"`
	Content string `json:"content" validate:"notblank"`
	Status  Status `json:"status" validate:"omitempty,oneof=pending completed"`
}

// NewDraft returns a draft with surrounding whitespace trimmed from both fields.
func NewDraft(title, content string) Draft {
	return Draft{
		Title:   strings.TrimSpace(title),
		Content: strings.TrimSpace(content),
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// notblank rejects empty and whitespace-only strings.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// ValidateDraft checks a Draft for blank fields.
// It returns a *ValidationError if any rules fail, or nil if the draft is valid.
func ValidateDraft(d Draft) error {
	return check(d)
}

// ValidateNote checks a note about to be stored: title and content must be
// non-blank, the title at most MaxTitleLength characters, and a set status
// must be known.
func ValidateNote(n *Note) error {
	return check(storedNote{Title: n.Title, Content: n.Content, Status: n.Status})
}

func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating %T: %w", v, err)
	}

	var ve ValidationError
	for _, fe := range verrs {
		ve.Errors = append(ve.Errors, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return &ve
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank":
		return "is required"
	case "max":
		return fmt.Sprintf("must be %s characters or fewer", fe.Param())
	case "oneof":
		return fmt.Sprintf("invalid value %q", fmt.Sprint(fe.Value()))
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
