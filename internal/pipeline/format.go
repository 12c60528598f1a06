// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// FormatTable writes results as a human-readable table to w.
func FormatTable(res *Result, w io.Writer) {
	if len(res.Candidates) == 0 {
		fmt.Fprintln(w, "No candidates survived the pipeline.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-56s  %-4s  %-7s  %-7s  %-7s  %s\n",
		"Rank", "Title", "Year", "Lex", "Sem", "Quality", "Venue")
	fmt.Fprintln(w, strings.Repeat("-", 104))

	for i, c := range res.Candidates {
		title := c.Title
		if len(title) > 56 {
			title = title[:53] + "..."
		}
		year := ""
		if c.Year > 0 {
			year = fmt.Sprintf("%d", c.Year)
		}
		sem := "-"
		if c.SemanticScore != nil {
			sem = fmt.Sprintf("%.3f", *c.SemanticScore)
		}
		fmt.Fprintf(w, "%-4d  %-56s  %-4s  %-7.1f  %-7s  %-7.1f  %s\n",
			i+1, title, year, c.LexicalScore, sem, c.QualityScore, c.Venue.Name)
	}

	fmt.Fprintf(w, "\n%d candidates", len(res.Candidates))
	if len(res.DegradedStages) > 0 {
		fmt.Fprintf(w, " (degraded stages: %s)", strings.Join(res.DegradedStages, ", "))
	}
	fmt.Fprintln(w)
}

// FormatStats writes the per-stage statistics table to w.
func FormatStats(res *Result, w io.Writer) {
	fmt.Fprintf(w, "%-18s  %6s  %6s  %10s  %s\n", "Stage", "In", "Out", "Elapsed", "Note")
	for _, st := range res.Stats {
		note := st.Note
		if st.Degraded && note == "" {
			note = "degraded"
		}
		fmt.Fprintf(w, "%-18s  %6d  %6d  %10s  %s\n",
			st.Stage, st.In, st.Out, st.Elapsed.Round(10*time.Microsecond), note)
	}
}

// FormatJSON writes the full result as indented JSON to w.
func FormatJSON(res *Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
