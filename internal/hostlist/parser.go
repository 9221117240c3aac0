package hostlist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

const maxLineSize = 1024 * 1024

// ParseFile parses the host list at path. A missing file is reported with an
// error matching os.ErrNotExist
func ParseFile(path string) ([]HostEntry, []*ParseError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads name,address lines from r. Malformed lines are collected and
// returned alongside the valid entries; the error is only set when r itself
// fails
func Parse(r io.Reader) ([]HostEntry, []*ParseError, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	var (
		entries []HostEntry
		bad     []*ParseError
		lineNo  int
	)

	for scanner.Scan() {
		lineNo++
		entry, ok, perr := ParseLine(lineNo, scanner.Text())
		if perr != nil {
			bad = append(bad, perr)
			continue
		}
		if ok {
			entries = append(entries, entry)
		}
	}

	if err := scanner.Err(); err != nil {
		return entries, bad, fmt.Errorf("reading host list: %w", err)
	}
	return entries, bad, nil
}

// ParseLine parses a single line. The bool is false for blank lines, which
// carry no entry and are not an error
func ParseLine(lineNo int, raw string) (HostEntry, bool, *ParseError) {
	line := strings.TrimSuffix(raw, "\r")
	if strings.TrimSpace(line) == "" {
		return HostEntry{}, false, nil
	}

	if n := strings.Count(line, ","); n != 1 {
		return HostEntry{}, false, &ParseError{
			Line:   lineNo,
			Raw:    line,
			Reason: fmt.Sprintf("expected exactly one comma, got %d", n),
		}
	}

	name, address, _ := strings.Cut(line, ",")
	name = strings.TrimSpace(name)
	address = strings.TrimSpace(address)

	switch {
	case name == "":
		return HostEntry{}, false, &ParseError{Line: lineNo, Raw: line, Reason: "empty session name"}
	case address == "":
		return HostEntry{}, false, &ParseError{Line: lineNo, Raw: line, Reason: "empty address"}
	}

	return HostEntry{Name: name, Address: address, Line: lineNo, Raw: line}, true, nil
}
