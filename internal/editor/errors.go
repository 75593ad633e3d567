package editor

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidKey      = errors.New("invalid key")
	ErrInvalidValue    = errors.New("invalid value")
	ErrShapeMismatch   = errors.New("value does not match the shape of the field")
	ErrUnsupported     = errors.New("field is not editable")
	ErrImmutableID     = errors.New("record id cannot be changed")
	ErrUnknownCategory = errors.New("menu item references an unknown category")
	ErrRecordNotFound  = errors.New("record not found")
)

// CategoryInUseError refuses a category deletion while menu items reference it.
type CategoryInUseError struct {
	ID    string
	Count int
}

func (e *CategoryInUseError) Error() string {
	return fmt.Sprintf("category %q is used by %d menu item(s)", e.ID, e.Count)
}
