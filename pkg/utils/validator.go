package utils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var (
	vnPhonePattern    = regexp.MustCompile(`^0[35789][0-9]{8}$`)
	looseEmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

var validate = newValidator()

// FieldError is one failed rule, keyed by the json name of the field.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterValidation("vnphone", func(fl validator.FieldLevel) bool {
		return IsVietnamesePhone(fl.Field().String())
	})
	v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
		return IsPersonName(fl.Field().String())
	})
	v.RegisterValidation("looseemail", func(fl validator.FieldLevel) bool {
		return IsLooseEmail(fl.Field().String())
	})

	return v
}

// IsVietnamesePhone matches 10-digit mobile numbers with a 03/05/07/08/09 prefix.
func IsVietnamesePhone(s string) bool {
	return vnPhonePattern.MatchString(s)
}

// IsPersonName requires at least two characters and no digits.
func IsPersonName(s string) bool {
	if utf8.RuneCountInString(s) < 2 {
		return false
	}
	return strings.IndexFunc(s, unicode.IsDigit) < 0
}

func IsLooseEmail(s string) bool {
	return looseEmailPattern.MatchString(s)
}

// ValidateStruct returns a map of field -> message, or nil when valid.
func ValidateStruct(data any) map[string]string {
	fieldErrors := ValidateStructOrdered(data)
	if len(fieldErrors) == 0 {
		return nil
	}

	errs := make(map[string]string, len(fieldErrors))
	for _, fe := range fieldErrors {
		errs[fe.Field] = fe.Message
	}
	return errs
}

// ValidateStructOrdered keeps the declaration order of the struct fields,
// so callers can build deterministic messages.
func ValidateStructOrdered(data any) []FieldError {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []FieldError{{Field: "", Tag: "invalid", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: getErrorMessage(fe),
		})
	}
	return out
}

func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "email", "looseemail":
		return "Invalid email format"
	case "vnphone":
		return "Must be a Vietnamese mobile number (10 digits, starting with 03, 05, 07, 08 or 09)"
	case "personname":
		return "Must be at least 2 characters and contain no digits"
	case "min":
		return fmt.Sprintf("Minimum length is %s", err.Param())
	case "max":
		return fmt.Sprintf("Maximum length is %s", err.Param())
	case "oneof":
		options := strings.ReplaceAll(err.Param(), " ", ", ")
		return fmt.Sprintf("Must be one of: %s", options)
	case "latitude", "longitude":
		return fmt.Sprintf("Invalid %s", err.Tag())
	default:
		return fmt.Sprintf("Invalid %s field", err.Field())
	}
}

// FormatValidationErrors joins errors in a stable order.
func FormatValidationErrors(errs []FieldError) string {
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return strings.Join(msgs, "; ")
}
