package usecase

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error taxonomy for the settlement flow. Validation problems carry per-field
// detail; the rest are sentinels the handlers map to HTTP outcomes.
var (
	ErrGatewayUnavailable        = errors.New("payment gateway unavailable")
	ErrPaymentVerificationFailed = errors.New("payment verification failed")
	ErrLedgerWriteFailed         = errors.New("booking write failed after payment")
	ErrPaymentSessionNotFound    = errors.New("payment session not found or expired")
)

func isVerificationFailure(err error) bool {
	return errors.Is(err, ErrPaymentVerificationFailed)
}

// ValidationError enumerates every failing field so a client can surface all
// problems at once instead of fixing them one at a time.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

func (e *ValidationError) Add(field, message string) {
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var msgs []string
	for _, field := range fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}
