package domain

import "errors"

// Normalizer errors. ErrAmbiguousLocalTime and ErrNonexistentLocalTime are
// classification results used inside the normalizer; Normalize recovers from
// both and never returns them.
var (
	ErrInvalidHour          = errors.New("invalid hour")
	ErrInvalidZone          = errors.New("invalid time zone")
	ErrInvalidTimestamp     = errors.New("invalid timestamp")
	ErrAmbiguousLocalTime   = errors.New("ambiguous local time")
	ErrNonexistentLocalTime = errors.New("nonexistent local time")
)

// Corpus naming errors.
var (
	ErrInvalidLocationDir  = errors.New("invalid location directory name")
	ErrInvalidBuildingFile = errors.New("invalid building file name")
)
