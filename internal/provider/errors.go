package provider

import (
	"errors"
	"fmt"
)

// ErrUnknownProvider is returned by the registry for unregistered identifiers
var ErrUnknownProvider = errors.New("unknown provider")

// ErrorKind classifies a provider failure
type ErrorKind string

const (
	KindAuthentication ErrorKind = "authentication_error"
	KindRateLimit      ErrorKind = "rate_limit_error"
	KindConnection     ErrorKind = "connection_error"
	KindInvalidModel   ErrorKind = "invalid_model_error"
	KindAlignment      ErrorKind = "alignment_error"
)

// Error is a classified provider failure. Raw vendor response bodies stay
// behind it; callers only see the kind and a human-readable message.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// classifyStatus maps a non-200 vendor API response to an error kind
func classifyStatus(name string, status int, model string) *Error {
	switch {
	case status == 401 || status == 403:
		return &Error{Kind: KindAuthentication, Message: fmt.Sprintf("%s rejected the API key", name)}
	case status == 429:
		return &Error{Kind: KindRateLimit, Message: fmt.Sprintf("%s rate limit exceeded, try again later", name)}
	case status == 404 || status == 400:
		return &Error{Kind: KindInvalidModel, Message: fmt.Sprintf("%s does not accept model %q", name, model)}
	default:
		return &Error{Kind: KindConnection, Message: fmt.Sprintf("%s API returned status %d", name, status)}
	}
}
