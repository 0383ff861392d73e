package metadata

import "fmt"

// UnsupportedURLError is returned for input that is not a URL of a supported
// platform. No process is spawned in that case.
type UnsupportedURLError struct {
	URL    string
	Reason string
}

func (e *UnsupportedURLError) Error() string {
	return fmt.Sprintf("unsupported URL %q: %s", e.URL, e.Reason)
}

// ParseError is returned when yt-dlp output is not valid JSON or lacks
// required fields
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid metadata: %s: %v", e.Reason, e.Err)
	}
	return "invalid metadata: " + e.Reason
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
