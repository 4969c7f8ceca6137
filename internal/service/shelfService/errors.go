package shelfService

import "errors"

var (
	ErrEmptyField       = errors.New("title and author must not be empty")
	ErrNotFound         = errors.New("book not found")
	ErrUnknownDirection = errors.New("unknown sort direction")
)
