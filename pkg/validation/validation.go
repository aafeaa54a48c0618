// Package validation wires go-playground/validator with the date, time-of-day and
// record tags shared by the schedules and bookings validators, and translates its
// errors into field-level messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"clinicbook/pkg/logger"
	"clinicbook/pkg/timeutil"

	"github.com/go-playground/validator/v10"
)

const (
	TagISODate        = "iso_date"
	TagClock          = "clock"
	TagClockBoundary  = "clock_boundary"
	TagSubjectDetails = "subject_details"

	maxSubjectDetails     = 20
	maxSubjectDetailKey   = 64
	maxSubjectDetailValue = 256
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// Details renders the errors as a field -> message map for AppError details.
func (v ValidationErrors) Details() map[string]any {
	details := make(map[string]any, len(v))
	for _, err := range v {
		details[err.Field] = err.Message
	}
	return details
}

// Field builds a single-entry ValidationErrors.
func Field(field, message string) ValidationErrors {
	return ValidationErrors{{Field: field, Message: message}}
}

// New returns a validator with the shared tags registered, reporting json field names.
func New(log *logger.Logger) *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	tags := map[string]validator.Func{
		TagISODate:        validateISODate,
		TagClock:          validateClock,
		TagClockBoundary:  validateClockBoundary,
		TagSubjectDetails: validateSubjectDetails,
	}
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatal("Failed to register validator", "tag", tag, "error", err)
		}
	}

	return v
}

func validateISODate(fl validator.FieldLevel) bool {
	return timeutil.IsDate(fl.Field().String())
}

func validateClock(fl validator.FieldLevel) bool {
	return timeutil.IsClock(fl.Field().String())
}

func validateClockBoundary(fl validator.FieldLevel) bool {
	_, err := timeutil.ParseBoundary(fl.Field().String())
	return err == nil
}

func validateSubjectDetails(fl validator.FieldLevel) bool {
	details, ok := fl.Field().Interface().(map[string]string)
	if !ok {
		return false
	}
	if len(details) > maxSubjectDetails {
		return false
	}
	for key, value := range details {
		key = strings.TrimSpace(key)
		if key == "" || len(key) > maxSubjectDetailKey || len(value) > maxSubjectDetailValue {
			return false
		}
	}
	return true
}

// Translate converts a validator error into ValidationErrors; other errors pass through.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	var out ValidationErrors
	for _, fe := range validationErrs {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "mongodb":
		return fmt.Sprintf("%s must be a valid MongoDB ObjectID", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case TagISODate:
		return fmt.Sprintf("%s must be a valid date in YYYY-MM-DD format", fe.Field())
	case TagClock:
		return fmt.Sprintf("%s must be in HH:MM 24-hour format", fe.Field())
	case TagClockBoundary:
		return fmt.Sprintf("%s must be in HH:MM 24-hour format or 24:00", fe.Field())
	case TagSubjectDetails:
		return fmt.Sprintf("%s must have at most %d entries with non-empty keys", fe.Field(), maxSubjectDetails)
	}
	return fe.Error()
}
