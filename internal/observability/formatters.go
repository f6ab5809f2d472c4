// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/coldcall/internal/fieldpath"
	"github.com/jonathan/coldcall/internal/scanner"
	"github.com/jonathan/coldcall/internal/session"
	"github.com/jonathan/coldcall/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 8
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintScanSummary outputs a human-readable summary of a field scan,
// grouped by section in scan order.
func (p *Printer) PrintScanSummary(candidateID string, fields []types.EmptyField) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Candidate: %s\n", candidateID))
	sb.WriteString(fmt.Sprintf("Fields to verify: %d\n", len(fields)))

	var lastSection fieldpath.Section
	shown := 0
	for _, f := range fields {
		if f.Section != lastSection {
			sb.WriteString("\n")
			sb.WriteString(scanner.SectionLabel(f.Section) + ":\n")
			lastSection = f.Section
		}
		if shown >= maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(fields)-shown))
			break
		}
		sb.WriteString(fmt.Sprintf("  • %s (%s)\n", scanner.EntryLabel(f), f.FieldName))
		shown++
	}

	p.printBox("Field Scan", strings.TrimRight(sb.String(), "\n"))
}

// PrintSessionProgress outputs the per-field progress of a session.
func (p *Printer) PrintSessionProgress(snap session.Snapshot) {
	var sb strings.Builder

	counts := map[session.Progress]int{}
	for _, fv := range snap.Fields {
		counts[fv.Progress]++
	}

	sb.WriteString(fmt.Sprintf("Session:   %s\n", snap.ID))
	sb.WriteString(fmt.Sprintf("Candidate: %s\n", snap.CandidateID))
	sb.WriteString(fmt.Sprintf("Mode:      %s\n", snap.ViewMode))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Pending:   %d\n", counts[session.ProgressPending]))
	sb.WriteString(fmt.Sprintf("Answered:  %d\n", counts[session.ProgressAnswered]))
	sb.WriteString(fmt.Sprintf("Skipped:   %d\n", counts[session.ProgressSkipped]))
	sb.WriteString(fmt.Sprintf("Deferred:  %d\n", counts[session.ProgressAskLater]))

	if len(snap.Questions) > 0 {
		sb.WriteString("\nTop questions:\n")
		count := min(len(snap.Questions), maxItemsToShow)
		for i := 0; i < count; i++ {
			q := snap.Questions[i]
			sb.WriteString(fmt.Sprintf("  %d. [%d] %s\n", i+1, q.Priority, q.Question))
		}
	}

	p.printBox("Cold-Call Session", strings.TrimRight(sb.String(), "\n"))
}
