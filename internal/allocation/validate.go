package allocation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidInput is wrapped by every contract violation Allocate reports.
var ErrInvalidInput = errors.New("invalid allocation input")

// ValidationError describes the first malformed member or site of a call.
type ValidationError struct {
	Kind   string // "member" or "site"
	Index  int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s[%d]: %s", e.Kind, e.Index, e.Reason)
	}
	return fmt.Sprintf("%s[%d].%s: %s", e.Kind, e.Index, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// validate caches struct metadata and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// Validate checks the member and site shapes Allocate depends on. The roster
// must not repeat an id.
func Validate(members []Member, sites []Site) error {
	seen := make(map[string]int, len(members))
	for i, m := range members {
		if err := checkStruct("member", i, m); err != nil {
			return err
		}
		if first, dup := seen[m.ID]; dup {
			return &ValidationError{
				Kind:   "member",
				Index:  i,
				Field:  "id",
				Reason: fmt.Sprintf("duplicate id %q (first at member[%d])", m.ID, first),
			}
		}
		seen[m.ID] = i
	}
	for i, s := range sites {
		if err := checkStruct("site", i, s); err != nil {
			return err
		}
	}
	return nil
}

func checkStruct(kind string, index int, value any) error {
	err := validate.Struct(value)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Kind: kind, Index: index, Reason: err.Error()}
	}
	fe := fieldErrs[0]
	return &ValidationError{
		Kind:   kind,
		Index:  index,
		Field:  fe.Field(),
		Reason: describe(fe),
	}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fmt.Sprint(fe.Value()))
	}
	return fmt.Sprintf("failed %q check", fe.Tag())
}
