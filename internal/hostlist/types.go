package hostlist

import (
	"errors"
	"fmt"
)

// ErrMalformedLine is wrapped by every ParseError
var ErrMalformedLine = errors.New("malformed host-list line")

// HostEntry is one name,address record from a host-list file
type HostEntry struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
	Line    int    `yaml:"line"`
	// Raw is the source line without its line terminator
	Raw string `yaml:"-"`
}

// ParseError describes a host-list line that could not be parsed
type ParseError struct {
	Line   int
	Raw    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Raw)
}

func (e *ParseError) Unwrap() error {
	return ErrMalformedLine
}
