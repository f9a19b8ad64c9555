package workflow

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/careeriq/internal/gateway"
)

// Display messages for failures that carry no server explanation.
const (
	SessionExpiredMessage = "Your session has expired. Please log in again."
	NetworkErrorMessage   = "Network error: unable to reach the server"
)

// ValidationError is a local rejection of input before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Message converts err into the string shown to the user. Server messages are
// surfaced verbatim; anything without a usable message gets fallback.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if fallback == "" {
		fallback = GenericFailure
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}

	var authErr *gateway.AuthError
	if errors.As(err, &authErr) {
		return SessionExpiredMessage
	}

	var serverErr *gateway.ServerError
	if errors.As(err, &serverErr) {
		if serverErr.FromServer && serverErr.Message != "" {
			return serverErr.Message
		}
		return fallback
	}

	var netErr *gateway.NetworkError
	if errors.As(err, &netErr) {
		return NetworkErrorMessage
	}

	return fallback
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs the struct's validate tags and reports the first
// violation as a *ValidationError with a readable message.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	return &ValidationError{Field: fe.Field(), Message: describe(s, fe)}
}

func describe(s any, fe validator.FieldError) string {
	label := strings.ReplaceAll(fe.Field(), "_", " ")

	switch fe.Tag() {
	case "min", "max":
		if lo, hi, ok := bounds(s, fe.StructField()); ok {
			return fmt.Sprintf("%s must be between %s and %s", label, lo, hi)
		}
		if fe.Tag() == "min" {
			return fmt.Sprintf("%s must be at least %s", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", label, fe.Param())
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", label)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.Join(strings.Fields(fe.Param()), ", "))
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}

// bounds reads the min and max parameters from a field's validate tag.
func bounds(s any, field string) (string, string, bool) {
	t := reflect.TypeOf(s)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return "", "", false
	}
	f, ok := t.FieldByName(field)
	if !ok {
		return "", "", false
	}

	var lo, hi string
	for _, rule := range strings.Split(f.Tag.Get("validate"), ",") {
		if v, found := strings.CutPrefix(rule, "min="); found {
			lo = v
		}
		if v, found := strings.CutPrefix(rule, "max="); found {
			hi = v
		}
	}
	return lo, hi, lo != "" && hi != ""
}
