package gateway

import (
	"errors"
	"fmt"
)

var (
	errMissingAccount = errors.New("gateway: account id is required")
	errMissingToken   = errors.New("gateway: api token is required")
)

// Kind classifies a gateway API failure.
type Kind string

const (
	// KindTimeout means the call exceeded its deadline.
	KindTimeout Kind = "timeout"
	// KindRateLimit means the API asked us to slow down.
	KindRateLimit Kind = "ratelimit"
	// KindValidation means the API rejected the request payload.
	KindValidation Kind = "validation"
	// KindAuth means the credentials were rejected.
	KindAuth Kind = "auth"
	// KindAPI covers every other API-reported failure.
	KindAPI Kind = "api"
)

// Error is a classified gateway API failure.
type Error struct {
	Kind     Kind
	Method   string
	Endpoint string
	Status   int
	Message  string
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("gateway: %s %s: %s (%d): %s", e.Method, e.Endpoint, e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("gateway: %s %s: %s: %s", e.Method, e.Endpoint, e.Kind, e.Message)
}

// IsKind reports whether err is a gateway Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ge *Error
	return errors.As(err, &ge) && ge.Kind == kind
}

// IsTimeout reports whether err is a gateway timeout.
func IsTimeout(err error) bool { return IsKind(err, KindTimeout) }

// IsRateLimit reports whether err is a gateway rate-limit rejection.
func IsRateLimit(err error) bool { return IsKind(err, KindRateLimit) }

// IsValidation reports whether err is a gateway payload rejection.
func IsValidation(err error) bool { return IsKind(err, KindValidation) }

// IsAuth reports whether err is a gateway credential rejection.
func IsAuth(err error) bool { return IsKind(err, KindAuth) }
