package services

import (
	"errors"
	"fmt"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")

	// Request builder errors
	ErrInvalidRequest  = errors.New("invalid quiz request parameters")
	ErrMaterialMissing = errors.New("context material is empty")
	ErrCountOutOfRange = errors.New("quiz count must be between 1 and 10")
	ErrUnknownModel    = errors.New("unknown assistant model name")

	// Response parser errors
	ErrNoResponse        = errors.New("generation service returned no messages")
	ErrMalformedResponse = errors.New("generation reply is not JSON-shaped")
	ErrSchemaRejected    = errors.New("quiz set rejected - question missing subjects")

	// Session errors
	ErrSessionNotFound   = errors.New("session not found")
	ErrInvalidTransition = errors.New("action not allowed in current session phase")
	ErrNoQuizGenerated   = errors.New("no quiz has been generated for this session")
)

// ParseError carries the decode diagnostic plus a snippet of the raw
// assistant reply so callers can surface it without re-reading the
// response.
type ParseError struct {
	Raw string `json:"raw"`
	Err error  `json:"-"`
}

func (pe *ParseError) Error() string {
	return fmt.Sprintf("failed to decode quiz payload: %v", pe.Err)
}

func (pe *ParseError) Unwrap() error {
	return pe.Err
}

// NewParseError truncates the raw reply to keep error payloads bounded.
func NewParseError(raw string, err error) *ParseError {
	const maxRaw = 512
	if len(raw) > maxRaw {
		raw = raw[:maxRaw]
	}
	return &ParseError{Raw: raw, Err: err}
}

// ===== ERROR HELPERS =====

// IsParseFailure reports whether err is any of the parser-boundary error
// kinds that degrade to an empty quiz set instead of propagating.
func IsParseFailure(err error) bool {
	if errors.Is(err, ErrNoResponse) ||
		errors.Is(err, ErrMalformedResponse) ||
		errors.Is(err, ErrSchemaRejected) {
		return true
	}
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsInvalidRequest reports whether err represents bad request parameters.
func IsInvalidRequest(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrMaterialMissing) ||
		errors.Is(err, ErrCountOutOfRange) ||
		errors.Is(err, ErrUnknownModel) ||
		errors.Is(err, ErrValidationFailed)
}

// IsConflict reports whether err represents a session phase conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrNoQuizGenerated)
}

// IsNotFound reports whether err represents a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrSessionNotFound)
}
