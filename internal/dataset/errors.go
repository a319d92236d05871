package dataset

import "errors"

// Sentinel errors for upload processing. Handlers match these with
// errors.Is to choose a status code and user-facing message.
var (
	// ErrMalformedUpload indicates the payload is not a "<descriptor>,<base64>"
	// data-URI string.
	ErrMalformedUpload = errors.New("malformed upload payload")

	// ErrPayloadTooLarge indicates the encoded payload exceeds the size limit.
	// Raised before any decode work is attempted.
	ErrPayloadTooLarge = errors.New("file too large")

	// ErrParseFailure indicates the payload body could not be decoded or
	// parsed as CSV.
	ErrParseFailure = errors.New("invalid csv")
)
