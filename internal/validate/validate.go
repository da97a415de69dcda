// Package validate checks candidate task titles before they reach the store.
package validate

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// MinTitleLength is the minimum length of a raw, untrimmed title.
const MinTitleLength = 3

var (
	// ErrEmptyTitle reports a title that is blank after trimming.
	ErrEmptyTitle = errors.New("task title is required and should not be empty")
	// ErrTooShort reports a raw title shorter than MinTitleLength characters.
	ErrTooShort = errors.New("task title should contain at least 3 characters")
)

// Title checks raw against every rule. Each violated rule contributes its
// sentinel, so errors.Is matches every kind that applies. A nil return means
// raw may be stored as-is; it is never trimmed.
func Title(raw string) error {
	var errs []error
	if strings.TrimSpace(raw) == "" {
		errs = append(errs, ErrEmptyTitle)
	}
	if utf8.RuneCountInString(raw) < MinTitleLength {
		errs = append(errs, ErrTooShort)
	}
	return errors.Join(errs...)
}

// Message returns the user-facing text for a validation failure.
// Empty wins over too short when both apply.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyTitle):
		return "Todo field cannot be empty!"
	case errors.Is(err, ErrTooShort):
		return "Task title should contain at least 3 characters"
	default:
		return err.Error()
	}
}

// IsValidation reports whether err carries any title rule violation.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyTitle) || errors.Is(err, ErrTooShort)
}
