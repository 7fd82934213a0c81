package shared

import "fmt"

var (
	ErrNotImplemented     = fmt.Errorf("not implemented")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Catalog collaborator errors. Both are transient: the matcher
	// absorbs them as zero candidates and keeps going.
	ErrSearchFailed = fmt.Errorf("catalog search failed")
	ErrFetchFailed  = fmt.Errorf("release fetch failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")

	// Playlist errors
	ErrEmptyPlaylist     = fmt.Errorf("playlist contains no tracks")
	ErrUnsupportedFormat = fmt.Errorf("unsupported playlist format")
	ErrPlaylistNotFound  = fmt.Errorf("playlist file not found")
	ErrMalformedPlaylist = fmt.Errorf("malformed playlist entry")
)
