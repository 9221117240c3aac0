package generator

import "errors"

var (
	// ErrNotFound indicates a missing host-list or template file
	ErrNotFound = errors.New("input file not found")

	// ErrParse indicates one or more malformed host-list lines.
	// The individual lines are available as *hostlist.ParseError through errors.As
	ErrParse = errors.New("host list parse error")

	// ErrIO indicates an output file or directory could not be written
	ErrIO = errors.New("output write failed")
)
