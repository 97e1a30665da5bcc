package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Catalog errors
	ErrCatalogNotFound = fmt.Errorf("index file not found")
	ErrInvalidCatalog  = fmt.Errorf("invalid index file")
	ErrDuplicatePart   = fmt.Errorf("%w: duplicate part", ErrInvalidCatalog)

	// Run errors
	ErrSongRootNotFound = fmt.Errorf("songs directory not found")
	ErrUnsupportedPart  = fmt.Errorf("unsupported part")
	ErrRunLocked        = fmt.Errorf("another run holds the output lock")
	ErrRunNotFound      = fmt.Errorf("run not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
