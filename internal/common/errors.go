package common

import "errors"

// Error taxonomy for the notification core. Validation and not-found
// conditions propagate to the immediate caller; delivery and aggregation
// failures are logged where they happen and never surface.
var (
	ErrValidation = errors.New("invalid notification")
	ErrNotFound   = errors.New("notification not found")
)
