package hostlist

import (
	"bufio"
	"io"
	"os"
)

// WriteReport writes the raw text of every skipped line to w, one per line.
// After the lines are fixed the report is itself a valid host list
func WriteReport(w io.Writer, bad []*ParseError) error {
	bw := bufio.NewWriter(w)
	for _, perr := range bad {
		if _, err := bw.WriteString(perr.Raw + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteReportFile writes the report to path, replacing any existing file
func WriteReportFile(path string, bad []*ParseError) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteReport(f, bad); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
