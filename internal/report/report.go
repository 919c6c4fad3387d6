// Package report assembles the data-quality report.
package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
)

// FileStats is one entity's block of quality counters. MissingNote
// describes what the missing-values count refers to; when the count is not
// a single number (sales), MissingText replaces it entirely.
type FileStats struct {
	Processed         int
	DuplicatesRemoved int
	MissingHandled    int
	MissingNote       string
	MissingText       string
	Loaded            int
}

// Report is the complete data-quality report for one run. Blocks are
// appended only for stages that actually completed; an aborted run never
// fabricates counts.
type Report struct {
	RunID     string
	Customers *FileStats
	Products  *FileStats
	Sales     *FileStats
}

// New creates an empty report for the given run.
func New(runID string) *Report {
	return &Report{RunID: runID}
}

var blockLabels = []string{
	"Records processed",
	"Duplicates removed",
	"Missing values handled",
	"Records loaded successfully",
}

// Render produces the fixed-format textual report. The label column is
// padded to a common display width so the value column lines up.
func (r *Report) Render() string {
	var sb strings.Builder

	title := "DATA QUALITY REPORT – FLEXIMART ETL"
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("-", runewidth.StringWidth(title)) + "\n")
	sb.WriteString(fmt.Sprintf("Run: %s\n\n", r.RunID))

	labelWidth := 0
	for _, label := range blockLabels {
		if w := runewidth.StringWidth(label); w > labelWidth {
			labelWidth = w
		}
	}

	writeBlock := func(name string, fs *FileStats) {
		if fs == nil {
			return
		}

		sb.WriteString(name + "\n")
		writeLine(&sb, labelWidth, blockLabels[0], fmt.Sprint(fs.Processed))
		writeLine(&sb, labelWidth, blockLabels[1], fmt.Sprint(fs.DuplicatesRemoved))

		missing := fs.MissingText
		if missing == "" {
			missing = fmt.Sprint(fs.MissingHandled)
			if fs.MissingNote != "" {
				missing += " " + fs.MissingNote
			}
		}

		writeLine(&sb, labelWidth, blockLabels[2], missing)
		writeLine(&sb, labelWidth, blockLabels[3], fmt.Sprint(fs.Loaded))
		sb.WriteString("\n")
	}

	writeBlock("CUSTOMERS FILE", r.Customers)
	writeBlock("PRODUCTS FILE", r.Products)
	writeBlock("SALES FILE", r.Sales)

	return sb.String()
}

func writeLine(sb *strings.Builder, width int, label, value string) {
	padding := width - runewidth.StringWidth(label)
	sb.WriteString(label + strings.Repeat(" ", padding) + " : " + value + "\n")
}

// WriteFile renders the report to the given path.
func (r *Report) WriteFile(path string) error {
	if err := os.WriteFile(path, []byte(r.Render()), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}
