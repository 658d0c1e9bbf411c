package oembed

import (
	"errors"
	"fmt"
)

var (
	// ErrParseFailure marks a provider body that could not be turned into a Response.
	ErrParseFailure = errors.New("oembed: unparseable response")
	// ErrInvalidFormat is returned for formats other than json and xml.
	ErrInvalidFormat = errors.New("oembed: invalid response format")
	// ErrEmptyEndpoint is returned when a provider is built without an endpoint.
	ErrEmptyEndpoint = errors.New("oembed: endpoint is empty")
)

// ParseError describes why a body of the given format was rejected.
// errors.Is(err, ErrParseFailure) reports true for every ParseError.
type ParseError struct {
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("oembed: parse %s response", e.Format)
	}
	return fmt.Sprintf("oembed: parse %s response: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParseFailure }

func parseFailure(format Format, err error) error {
	return &ParseError{Format: format, Err: err}
}
