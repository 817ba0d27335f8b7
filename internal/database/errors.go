package database

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation is the sentinel every *ValidationError unwraps to.
	ErrValidation = errors.New("validation error")
)

// ValidationError describes a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NormalizeTitle trims surrounding whitespace and truncates the title to at
// most maxLen runes. An empty result is a *ValidationError.
func NormalizeTitle(title string, maxLen int) (string, error) {
	title = strings.TrimSpace(title)
	if maxLen > 0 && utf8.RuneCountInString(title) > maxLen {
		title = string([]rune(title)[:maxLen])
	}
	if title == "" {
		return "", &ValidationError{Field: "title", Message: "cannot be empty"}
	}
	return title, nil
}
