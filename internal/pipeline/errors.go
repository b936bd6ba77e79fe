package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/yt-subtitles/backend/internal/provider"
)

// ErrorKind is the failure taxonomy reported to clients. Every external-call
// failure is converted into one of these at its stage boundary.
type ErrorKind string

const (
	KindValidation     ErrorKind = "validation_error"
	KindFetch          ErrorKind = "fetch_error"
	KindAuthentication ErrorKind = "authentication_error"
	KindRateLimit      ErrorKind = "rate_limit_error"
	KindConnection     ErrorKind = "connection_error"
	KindInvalidModel   ErrorKind = "invalid_model_error"
	KindAlignment      ErrorKind = "alignment_error"
	KindTimeout        ErrorKind = "timeout_error"
	KindInternal       ErrorKind = "internal_error"
)

// Error is a classified job failure
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func validationError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// classify converts a stage error into the taxonomy. Provider error kinds map
// one-to-one; a dead deadline always wins as a timeout.
func classify(ctx context.Context, err error, fallback ErrorKind) *Error {
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
		return &Error{Kind: KindTimeout, Message: "job exceeded the processing time limit"}
	}

	var perr *provider.Error
	if errors.As(err, &perr) {
		return &Error{Kind: ErrorKind(perr.Kind), Message: perr.Message}
	}

	var jerr *Error
	if errors.As(err, &jerr) {
		return jerr
	}

	return &Error{Kind: fallback, Message: err.Error()}
}
