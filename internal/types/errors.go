package types

import "errors"

// Every run-level failure wraps exactly one of these sentinels so the
// command surface can report it and callers can match it with errors.Is.
var (
	ErrConfigUnavailable       = errors.New("configuration unavailable")
	ErrCatalogUnavailable      = errors.New("catalog unavailable")
	ErrGridsUnavailable        = errors.New("grid states unavailable")
	ErrAllocationFailure       = errors.New("allocation failure")
	ErrRecordTruncated         = errors.New("record truncated")
	ErrMagnetizationOutOfRange = errors.New("magnetization out of range")
	ErrCatalogUnsorted         = errors.New("catalog not sorted by magnetization")
	ErrInvalidRange            = errors.New("invalid sampling range")
)
