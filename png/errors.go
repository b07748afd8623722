package png

import "errors"

// Errors returned by the png package. Callers test them with errors.Is.
var (
	ErrInvalidLength    = errors.New("chunk type must be exactly 4 characters")
	ErrTruncated        = errors.New("not enough bytes")
	ErrInvalidChunkType = errors.New("invalid chunk type")
	ErrBadSignature     = errors.New("invalid signature")
	ErrChunkNotFound    = errors.New("chunk not found")
	ErrEmptyPayload     = errors.New("no data to show")
	ErrChecksumMismatch = errors.New("crc mismatch")
)
