package store

import apperrors "github.com/smartspb/mediabot/internal/errors"

// Sentinel errors. They carry domain codes so callers can match either
// these values or the generic ones in internal/errors.
var (
	ErrNotFound     = apperrors.NotFound("record not found")
	ErrInvalidInput = apperrors.Validation("invalid input")
	ErrEmptyMedia   = apperrors.Validation("an entry needs at least one media file")
)
