package llmclient

import "errors"

// ErrEmptyCandidates means the provider answered without any usable content,
// usually because a safety filter swallowed the response.
var ErrEmptyCandidates = errors.New("no content in model response")

// ErrMissingAPIKey means the provider credential is not configured.
var ErrMissingAPIKey = errors.New("model API key is not configured")

// PermanentError indicates an error that will not resolve with retries.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}
