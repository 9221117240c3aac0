package sessionfile

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"
)

// DefaultTemplate is the builtin PuTTY registry session
//
//go:embed putty.reg.tmpl
var DefaultTemplate string

//go:embed securecrt.ini.tmpl
var secureCRTTemplate string

//go:embed xshell.xsh.tmpl
var xshellTemplate string

// DefaultFormat is used when no format is configured
const DefaultFormat = "putty"

// Format is a builtin session file layout for one terminal client
type Format struct {
	Name     string
	Ext      string
	Template string
	// Importable formats can be loaded with the registry importer
	Importable bool
}

func builtinFormats() []Format {
	return []Format{
		{Name: "putty", Ext: ".reg", Template: DefaultTemplate, Importable: true},
		{Name: "securecrt", Ext: ".ini", Template: secureCRTTemplate},
		{Name: "xshell", Ext: ".xsh", Template: xshellTemplate},
	}
}

// LookupFormat finds a builtin format by name, ignoring case
func LookupFormat(name string) (Format, error) {
	for _, f := range builtinFormats() {
		if strings.EqualFold(f.Name, name) {
			return f, nil
		}
	}
	return Format{}, fmt.Errorf("unknown format %q (want one of %s)", name, strings.Join(FormatNames(), ", "))
}

// FormatNames lists the builtin format names
func FormatNames() []string {
	var names []string
	for _, f := range builtinFormats() {
		names = append(names, f.Name)
	}
	slices.Sort(names)
	return names
}
