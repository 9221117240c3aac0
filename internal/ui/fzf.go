package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/koki-develop/go-fzf"

	"github.com/GuitarSoul/putty-sessions/internal/hostlist"
	"github.com/GuitarSoul/putty-sessions/internal/sessionfile"
)

var (
	previewHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// HostSelector picks host entries with a fuzzy multi-select finder. ext is
// used to preview the file name each entry will be written to
func HostSelector(ext string) func([]hostlist.HostEntry) ([]hostlist.HostEntry, error) {
	return func(entries []hostlist.HostEntry) ([]hostlist.HostEntry, error) {
		return SelectHosts(entries, ext)
	}
}

// SelectHosts presents an interactive fuzzy finder. Cancelling returns an
// empty selection
func SelectHosts(entries []hostlist.HostEntry, ext string) ([]hostlist.HostEntry, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("no hosts to select")
	}

	f, err := fzf.New(
		fzf.WithPrompt("PuTTY sessions > "),
		fzf.WithInputPosition(fzf.InputPositionTop),
		fzf.WithLimit(len(entries)),
	)
	if err != nil {
		return nil, err
	}

	idxs, err := f.Find(
		entries,
		func(i int) string {
			return formatHostLine(entries[i])
		},
		fzf.WithPreviewWindow(func(i, w, h int) string {
			if i < 0 || i >= len(entries) {
				return ""
			}
			return formatPreview(entries[i], ext)
		}),
	)
	if errors.Is(err, fzf.ErrAbort) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	selected := make([]hostlist.HostEntry, 0, len(idxs))
	for _, i := range idxs {
		selected = append(selected, entries[i])
	}
	return selected, nil
}

func formatHostLine(e hostlist.HostEntry) string {
	return fmt.Sprintf("%-30s  %s", e.Name, e.Address)
}

func formatPreview(e hostlist.HostEntry, ext string) string {
	var b strings.Builder

	b.WriteString(previewHeader.Render("Session: "+e.Name) + "\n\n")
	b.WriteString(fmt.Sprintf("Address: %s\n", e.Address))
	b.WriteString(fmt.Sprintf("Line:    %d\n", e.Line))

	if name, err := sessionfile.FileName(e.Name, ext); err == nil {
		b.WriteString(fmt.Sprintf("File:    %s\n", name))
	} else {
		b.WriteString(dimStyle.Render(fmt.Sprintf("File:    (%v)", err)) + "\n")
	}

	return b.String()
}
