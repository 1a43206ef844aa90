package corpus

import "errors"

var (
	// ErrNotDirectory is returned when the corpus path is not a directory.
	ErrNotDirectory = errors.New("corpus path is not a directory")

	// ErrNoPages is returned when the corpus directory holds no .html files.
	ErrNoPages = errors.New("corpus contains no .html pages")

	// ErrDuplicatePage is returned when two file names normalize to the
	// same page name.
	ErrDuplicatePage = errors.New("duplicate page name")
)
