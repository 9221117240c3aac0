package sessionfile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidName is returned when a session name cannot be turned into a
// usable file name
var ErrInvalidName = errors.New("invalid session file name")

var reservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// SanitizeName maps a session name to a base file name that is legal on
// Windows and POSIX filesystems. Illegal characters become '_'
func SanitizeName(name string) (string, error) {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r < 0x20 || r == 0x7f:
			b.WriteRune('_')
		case strings.ContainsRune(`<>:"/\|?*`, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	out := b.String()

	// Windows drops trailing dots and spaces when creating files
	trimmed := strings.TrimRight(out, ". ")
	if trimmed == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	out = trimmed + strings.Repeat("_", len(out)-len(trimmed))

	stem, _, _ := strings.Cut(out, ".")
	if reservedNames[strings.ToUpper(stem)] {
		return "", fmt.Errorf("%w: %q is a reserved device name", ErrInvalidName, name)
	}

	return out, nil
}

// FileName returns the output file name for a session
func FileName(name, ext string) (string, error) {
	base, err := SanitizeName(name)
	if err != nil {
		return "", err
	}
	return base + ext, nil
}
