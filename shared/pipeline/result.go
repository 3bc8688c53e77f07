package pipeline

import (
	"log"
	"net/http"
	"time"
)

// FailureKind is the closed set of pipeline failure classes
type FailureKind string

const (
	// FailureUnauthenticated - no resolvable principal; callers redirect to login
	FailureUnauthenticated FailureKind = "unauthenticated"
	// FailureUnauthorized - principal resolved but lacks the capability or tenant match
	FailureUnauthorized FailureKind = "unauthorized"
	// FailureValidation - missing/malformed field, failed confirmation, bad selection
	FailureValidation FailureKind = "validation"
	// FailureIntegrity - dependent rows exist or the backend reported a referential violation
	FailureIntegrity FailureKind = "integrity"
	// FailureRateLimited - actor hit the event window limit; RetryIn is set
	FailureRateLimited FailureKind = "rate_limited"
	// FailureBackend - unexpected data store error; detail is logged, message is generic
	FailureBackend FailureKind = "backend"
)

// Failure is the single discriminated error result every pipeline entry point
// returns. Internal errors never cross the pipeline boundary raw.
type Failure struct {
	Kind    FailureKind   `json:"kind"`
	Message string        `json:"message"`
	Field   string        `json:"field,omitempty"`
	RetryIn time.Duration `json:"-"`
}

func (f *Failure) Error() string {
	return f.Message
}

// HTTPStatus maps a failure kind to the response status handlers emit
func (f *Failure) HTTPStatus() int {
	switch f.Kind {
	case FailureUnauthenticated:
		return http.StatusUnauthorized
	case FailureUnauthorized:
		return http.StatusForbidden
	case FailureValidation:
		return http.StatusUnprocessableEntity
	case FailureIntegrity:
		return http.StatusConflict
	case FailureRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Unauthenticated builds the no-principal failure
func Unauthenticated() *Failure {
	return &Failure{Kind: FailureUnauthenticated, Message: "Authentication required"}
}

// Unauthorized builds a capability/tenant denial
func Unauthorized(message string) *Failure {
	if message == "" {
		message = "You do not have permission to perform this action"
	}
	return &Failure{Kind: FailureUnauthorized, Message: message}
}

// Validation builds a field-oriented validation failure
func Validation(field, message string) *Failure {
	return &Failure{Kind: FailureValidation, Message: message, Field: field}
}

// Integrity builds the dependent-rows failure. All integrity problems share
// one consistent user-facing message regardless of how they were detected.
func Integrity(message string) *Failure {
	if message == "" {
		message = "Related records exist. Remove dependents first."
	}
	return &Failure{Kind: FailureIntegrity, Message: message}
}

// RateLimited builds a cooldown failure carrying the retry-after duration
func RateLimited(message string, retryIn time.Duration) *Failure {
	return &Failure{Kind: FailureRateLimited, Message: message, RetryIn: retryIn}
}

// Backend logs the underlying error server-side and returns the generic
// failure. Raw backend error text never reaches the caller.
func Backend(op string, err error) *Failure {
	log.Printf("❌ backend error during %s: %v", op, err)
	return &Failure{Kind: FailureBackend, Message: "Unable to complete action. Please try again."}
}
