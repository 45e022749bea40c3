package common

import (
	"fmt"
	"strings"
)

// ValidateNotification enforces the creation invariants: non-blank title and
// message, and a target that actually addresses someone.
func ValidateNotification(title, message string, target Target) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("%w: message is required", ErrValidation)
	}
	if target.IsZero() {
		return fmt.Errorf("%w: a target user or role is required", ErrValidation)
	}
	return nil
}

func ValidatePriority(p Priority) error {
	switch p {
	case "", PriorityLow, PriorityMedium, PriorityHigh:
		return nil
	}
	return fmt.Errorf("%w: unknown priority %q", ErrValidation, p)
}
