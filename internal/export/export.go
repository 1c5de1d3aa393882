// Package export renders a finished ScanResult for its consumers: JSON and
// CSV documents for machines, a table for terminals. Every Finding field
// serializes as a flat record.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"SecretSweep/internal"
)

// WriteJSON writes the whole result as an indented JSON document.
func WriteJSON(w io.Writer, res *internal.ScanResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

var csvHeader = []string{"kind", "path", "name", "dir", "inner_path", "line", "match", "line_text", "detected_at"}

// WriteCSV writes one row per finding, header first.
func WriteCSV(w io.Writer, res *internal.ScanResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, f := range res.Findings {
		line := ""
		if f.Kind == internal.KindContentMatch {
			line = strconv.Itoa(f.Line)
		}
		row := []string{
			string(f.Kind), f.Path, f.Name, f.Dir, f.InnerPath,
			line, f.Match, f.LineText, f.DetectedAt.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// RenderTable prints findings sorted by path/line with a summary footer.
// The result itself stays in detection order; only the view is sorted.
func RenderTable(w io.Writer, res *internal.ScanResult) error {
	view := make([]internal.Finding, len(res.Findings))
	copy(view, res.Findings)
	sort.SliceStable(view, func(i, j int) bool {
		if view[i].Path != view[j].Path {
			return view[i].Path < view[j].Path
		}
		return view[i].Line < view[j].Line
	})

	if len(view) == 0 {
		fmt.Fprintln(w, "No findings.")
	} else {
		tbl := tablewriter.NewWriter(w)
		tbl.Header("KIND", "FILE", "LINE", "MATCH")
		for _, f := range view {
			loc := f.Path
			if f.InnerPath != "" {
				loc = f.Path + "!" + f.InnerPath
			}
			line := ""
			if f.Kind == internal.KindContentMatch {
				line = strconv.Itoa(f.Line)
			}
			if err := tbl.Append([]string{string(f.Kind), loc, line, f.Match}); err != nil {
				return err
			}
		}
		if err := tbl.Render(); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "Inspected %d files in %s: %d extension flags, %d content matches, %d errors\n",
		res.FilesInspected, res.Duration().Round(time.Millisecond),
		res.ExtensionFlags, res.ContentMatches, res.FileErrors)
	return nil
}
