package generator

import "github.com/GuitarSoul/putty-sessions/internal/hostlist"

// GeneratedFile is a session file written for one host entry
type GeneratedFile struct {
	Entry hostlist.HostEntry
	Path  string
}

// Result lists what a generation pass produced, in host-list order
type Result struct {
	Files   []GeneratedFile
	Skipped []*hostlist.ParseError
}

// Recorder is told about every file once it has been written
type Recorder interface {
	Record(file GeneratedFile)
}

// Selector narrows the parsed entries before anything is written
type Selector func(entries []hostlist.HostEntry) ([]hostlist.HostEntry, error)

// Options configures a generation pass.
// An empty TemplatePath selects the builtin template of Format, and an empty
// Ext selects its extension. Username replaces UserPlaceholder in builtin
// templates always and in custom templates only when set. Reserved lists
// file names in OutDir that no session may claim
type Options struct {
	HostsPath          string
	TemplatePath       string
	Format             string
	OutDir             string
	Ext                string
	NamePlaceholder    string
	AddressPlaceholder string
	UserPlaceholder    string
	Username           string
	Reserved           []string
	SkipInvalid        bool
	Workers            int
	Select             Selector
}
