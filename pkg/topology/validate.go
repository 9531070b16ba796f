package topology

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Validation constants
	MaxIDLength    = 128
	MaxProperties  = 200
	MaxPropertyKey = 100
)

func init() {
	validate = validator.New()
}

// NodeRecord is the wire shape of one node as produced by the editor's
// persistence layer. It is validated before being admitted into a Topology.
type NodeRecord struct {
	ID         string         `json:"id" yaml:"id" validate:"required,min=1,max=128"`
	Type       string         `json:"type" yaml:"type" validate:"required,min=1,max=32"`
	X          float64        `json:"x" yaml:"x"`
	Y          float64        `json:"y" yaml:"y"`
	Properties map[string]any `json:"properties" yaml:"properties" validate:"omitempty,max=200"`
}

// LinkRecord is the wire shape of one link.
type LinkRecord struct {
	Source      string         `json:"source" yaml:"source" validate:"required,min=1,max=128"`
	Destination string         `json:"destination" yaml:"destination" validate:"required,min=1,max=128"`
	Properties  map[string]any `json:"properties" yaml:"properties" validate:"omitempty,max=200"`
}

// ValidateNodeRecord validates one node record. A failure here is a
// structural error: the caller skips the record and continues.
func ValidateNodeRecord(rec *NodeRecord) error {
	if rec == nil {
		return errors.New("node record cannot be nil")
	}

	if err := validate.Struct(rec); err != nil {
		return formatValidationError(err)
	}

	for key := range rec.Properties {
		if err := ValidatePropertyKey(key); err != nil {
			return fmt.Errorf("Properties: %w", err)
		}
	}

	return nil
}

// ValidateLinkRecord validates one link record. Endpoint existence is not
// checked here; that is the rewriter's job at compile time.
func ValidateLinkRecord(rec *LinkRecord) error {
	if rec == nil {
		return errors.New("link record cannot be nil")
	}

	if err := validate.Struct(rec); err != nil {
		return formatValidationError(err)
	}

	if rec.Source == rec.Destination {
		return fmt.Errorf("Source: self-link to '%s' is not allowed", rec.Source)
	}

	for key := range rec.Properties {
		if err := ValidatePropertyKey(key); err != nil {
			return fmt.Errorf("Properties: %w", err)
		}
	}

	return nil
}

// ValidatePropertyKey validates a property key
func ValidatePropertyKey(key string) error {
	if key == "" {
		return errors.New("property key cannot be empty")
	}
	if len(key) > MaxPropertyKey {
		return fmt.Errorf("property key '%s' exceeds maximum length of %d characters", key, MaxPropertyKey)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Field()
		tag := e.Tag()
		param := e.Param()

		switch tag {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, tag)
		}
	}

	return err
}
