package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"
)

const (
	// FullTag holds the constraints checked on complete payloads (create, replace).
	FullTag = "validate"
	// PartialTag holds the constraints checked on partial payloads (patch).
	PartialTag = "patch"
)

// Validator is a validator that validates the given struct.
type Validator interface {
	// Validate validates the given struct against its full constraints.
	Validate(s any) error
	// ValidatePartial validates the given struct against its partial constraints.
	ValidatePartial(s any) error
}

type DefaultValidator struct {
	full    *validator.Validate
	partial *validator.Validate
}

// NewDefaultValidator creates a new default validator.
// It returns a new DefaultValidator and an error if the validator registration fails.
func NewDefaultValidator() (*DefaultValidator, error) {
	full, err := newValidate(FullTag)
	if err != nil {
		return nil, err
	}

	partial, err := newValidate(PartialTag)
	if err != nil {
		return nil, err
	}

	return &DefaultValidator{full: full, partial: partial}, nil
}

func newValidate(tagName string) (*validator.Validate, error) {
	v := validator.New()
	v.SetTagName(tagName)

	// Report fields by their JSON name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// Decimals are checked as float64 so numeric tags (gte, lte) apply.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})

	// Register custom validators
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return nil, fmt.Errorf("register notblank validator: %w", err)
	}

	return v, nil
}

func (v DefaultValidator) Validate(s any) error {
	return v.full.Struct(s)
}

func (v DefaultValidator) ValidatePartial(s any) error {
	return v.partial.Struct(s)
}

func ValidationErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "notblank":
		return "must not be blank"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lt":
		return fmt.Sprintf("must be less than %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	default:
		return "is invalid"
	}
}
