package generate

import "errors"

var (
	// ErrInputNotReady means the active mode's payload is incomplete. It is
	// checked locally and never reaches the backend.
	ErrInputNotReady = errors.New("required payload missing for active input mode")

	// ErrEmptyResponse means the backend returned empty or whitespace-only
	// text, usually a content safety filter.
	ErrEmptyResponse = errors.New("the model returned an empty response")

	// ErrMalformedEnvelope means no parseable JSON block was found in the
	// response.
	ErrMalformedEnvelope = errors.New("the model returned an invalid JSON envelope")

	// ErrSchemaViolation means the envelope decoded but its fields do not
	// satisfy the output contract.
	ErrSchemaViolation = errors.New("the model response violates the output schema")

	// ErrUnexpectedShape means the backend returned a document where a file
	// list was required, or vice versa.
	ErrUnexpectedShape = errors.New("the model returned code of an unexpected shape")
)
