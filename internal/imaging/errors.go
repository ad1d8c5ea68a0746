package imaging

import "fmt"

// DecodeError reports image data that could not be decoded.
type DecodeError struct {
	// Source describes where the data came from ("data URI", a URL, a path...).
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode image from %s: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// LoadError reports a source that could not be fetched or read.
//
// StatusCode is set for HTTP sources that answered with a non-2xx status and
// is zero otherwise.
type LoadError struct {
	Source     string
	StatusCode int
	Err        error
}

func (e *LoadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to load image from %s: HTTP %d: %v", e.Source, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("failed to load image from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// UnsupportedSourceError reports a source argument of an unknown kind.
type UnsupportedSourceError struct {
	Type string
}

func (e *UnsupportedSourceError) Error() string {
	return fmt.Sprintf("unsupported image source type: %s", e.Type)
}
