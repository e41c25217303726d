package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound means the record does not exist inside the caller's organization.
	ErrNotFound = errors.New("not found")
	// ErrConflict means a unique key or duplicate check failed.
	ErrConflict = errors.New("already exists")
	// ErrForbidden means the caller is authenticated but not allowed to act.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthenticated means no usable identity was presented.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidCredentials is returned for any failed password check.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailNotVerified rejects a login while verified logins are required.
	ErrEmailNotVerified = errors.New("email address is not verified")
	// ErrInvalidTransition is returned when a status change is not allowed.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError lists the fields of a request that failed validation.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Fields, ", "))
}

// Invalid returns a ValidationError with the given message.
func Invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// MissingFields returns a ValidationError naming the empty required fields,
// or nil when every field is set. fields alternates name, value.
func MissingFields(fields ...string) error {
	var missing []string
	for i := 0; i+1 < len(fields); i += 2 {
		if strings.TrimSpace(fields[i+1]) == "" {
			missing = append(missing, fields[i])
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &ValidationError{Message: "all fields are required", Fields: missing}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
