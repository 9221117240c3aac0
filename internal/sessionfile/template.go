package sessionfile

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	DefaultNamePlaceholder    = "%NAME%"
	DefaultAddressPlaceholder = "%ADDR%"
	DefaultUserPlaceholder    = "%USER%"
)

var (
	ErrEmptyPlaceholder     = errors.New("placeholder must not be empty")
	ErrDuplicatePlaceholder = errors.New("placeholders must differ")
)

// Template is session file content with name, address and optional user placeholders
type Template struct {
	content  string
	namePH   string
	addrPH   string
	userPH   string
	username string
	segments []segment
}

type segmentKind int

const (
	literal segmentKind = iota
	hostName
	hostAddress
)

// segment is a piece of the template: literal text or a per-host value
type segment struct {
	kind segmentKind
	text string
}

// Option configures a Template
type Option func(*Template)

// WithUser substitutes placeholder with username in every rendered file
func WithUser(placeholder, username string) Option {
	return func(t *Template) {
		t.userPH = placeholder
		t.username = username
	}
}

// New validates the placeholders and builds a template from content
func New(content, namePlaceholder, addressPlaceholder string, opts ...Option) (*Template, error) {
	t := &Template{
		content: content,
		namePH:  namePlaceholder,
		addrPH:  addressPlaceholder,
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.namePH == "" || t.addrPH == "" {
		return nil, ErrEmptyPlaceholder
	}
	if t.namePH == t.addrPH {
		return nil, fmt.Errorf("%w: name and address are both %q", ErrDuplicatePlaceholder, t.namePH)
	}
	if t.userPH != "" && (t.userPH == t.namePH || t.userPH == t.addrPH) {
		return nil, fmt.Errorf("%w: user placeholder %q reuses another placeholder", ErrDuplicatePlaceholder, t.userPH)
	}

	t.segments = t.split()
	return t, nil
}

// split cuts the content at every placeholder in one left-to-right pass.
// At equal positions name wins over address, and both over user.
// The user value is constant so it is folded into the literal text
func (t *Template) split() []segment {
	type token struct {
		ph   string
		kind segmentKind
		user bool
	}
	tokens := []token{{ph: t.namePH, kind: hostName}, {ph: t.addrPH, kind: hostAddress}}
	if t.userPH != "" {
		tokens = append(tokens, token{ph: t.userPH, kind: literal, user: true})
	}

	var (
		segs []segment
		lit  strings.Builder
		rest = t.content
	)
	for rest != "" {
		at, best := -1, -1
		for i, tok := range tokens {
			if idx := strings.Index(rest, tok.ph); idx >= 0 && (at < 0 || idx < at) {
				at, best = idx, i
			}
		}
		if at < 0 {
			lit.WriteString(rest)
			break
		}

		tok := tokens[best]
		lit.WriteString(rest[:at])
		rest = rest[at+len(tok.ph):]

		if tok.user {
			lit.WriteString(t.username)
			continue
		}
		if lit.Len() > 0 {
			segs = append(segs, segment{kind: literal, text: lit.String()})
			lit.Reset()
		}
		segs = append(segs, segment{kind: tok.kind})
	}
	if lit.Len() > 0 {
		segs = append(segs, segment{kind: literal, text: lit.String()})
	}
	return segs
}

// Load reads a template file; a missing file yields an error matching os.ErrNotExist
func Load(path, namePlaceholder, addressPlaceholder string, opts ...Option) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(string(data), namePlaceholder, addressPlaceholder, opts...)
}

// Render substitutes name and address in a single pass, so a value that
// happens to contain another placeholder is left as is
func (t *Template) Render(name, address string) string {
	var b strings.Builder
	b.Grow(len(t.content) + len(name) + len(address))

	for _, seg := range t.segments {
		switch seg.kind {
		case hostName:
			b.WriteString(name)
		case hostAddress:
			b.WriteString(address)
		default:
			b.WriteString(seg.text)
		}
	}
	return b.String()
}

// Missing lists the name and address placeholders absent from the template
func (t *Template) Missing() []string {
	var missing []string
	for _, ph := range []string{t.namePH, t.addrPH} {
		if !strings.Contains(t.content, ph) {
			missing = append(missing, ph)
		}
	}
	return missing
}
