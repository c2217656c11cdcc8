package core

import "errors"

// Import and lookup failures. Callers wrap these with context via
// fmt.Errorf("...: %w", err) and test them with errors.Is; MapError turns
// them into stable user-facing codes.
var (
	// ErrDecode means the upload is not valid text in the declared encoding.
	ErrDecode = errors.New("encoding error")

	// ErrInvalidFormat means the CSV structure could not be interpreted.
	ErrInvalidFormat = errors.New("invalid csv")

	// ErrEmptyFile means no non-blank row survived parsing.
	ErrEmptyFile = errors.New("empty file")

	// ErrUnsupportedFile means the upload is not a .csv / text file.
	ErrUnsupportedFile = errors.New("unsupported file type")

	// ErrMissingTitle means neither the form nor the CSV header named the course.
	ErrMissingTitle = errors.New("missing course title")

	// ErrCourseNotFound means the target course of a question import does not exist.
	ErrCourseNotFound = errors.New("course not found")

	// ErrNoValidRows means every data row of a question import was rejected.
	ErrNoValidRows = errors.New("no valid rows")

	// ErrInvalidRange means a correct-option index fell outside 1..4.
	ErrInvalidRange = errors.New("correct option out of range")

	// ErrInvalidInput means a form or JSON field failed validation, e.g. an
	// over-long title or a blank answer.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned by gateway lookups that match nothing.
	ErrNotFound = errors.New("not found")
)
