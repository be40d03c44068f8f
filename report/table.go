package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/aluiziolira/selectm/models"
)

const (
	statusAvailable   = "available"
	statusUnavailable = "sold out"
	targetMarker      = "*"
)

// PrintAvailability renders products as a table on w. The row whose item
// id equals target is marked.
func PrintAvailability(w io.Writer, products []models.Product, target string) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Footer = text.FormatDefault
	t.AppendHeader(table.Row{"", "Item", "Family", "Name", "Status"})
	for _, p := range products {
		marker := ""
		if target != "" && p.ItemID == target {
			marker = targetMarker
		}
		t.AppendRow(table.Row{marker, p.ItemID, p.FamilyID, p.DisplayName, availabilityLabel(p.Available)})
	}
	t.AppendFooter(table.Row{"", "", "", "Total", len(products)})
	t.Render()
}

func availabilityLabel(available bool) string {
	if available {
		return statusAvailable
	}
	return statusUnavailable
}

// PrintSummary writes the end-of-run summary block.
func PrintSummary(w io.Writer, s *models.RunSummary, outputFile string) {
	separator := strings.Repeat("-", 50)
	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "Run complete")
	fmt.Fprintf(w, "  Action:        %s\n", s.Action)
	fmt.Fprintf(w, "  Products:      %d\n", s.ProductCount)
	fmt.Fprintf(w, "  Target:        %s\n", targetLine(s))
	fmt.Fprintf(w, "  Ordered:       %t\n", s.Ordered)
	if len(s.Warnings) > 0 {
		fmt.Fprintf(w, "  Warnings:      %d\n", len(s.Warnings))
		for _, warning := range s.Warnings {
			fmt.Fprintf(w, "    - %s\n", warning)
		}
	}
	fmt.Fprintf(w, "  Duration:      %v\n", s.EndTime.Sub(s.StartTime).Round(time.Millisecond))
	if outputFile != "" {
		fmt.Fprintf(w, "  Output file:   %s\n", outputFile)
	}
	fmt.Fprintln(w, separator)
}

func targetLine(s *models.RunSummary) string {
	switch {
	case !s.Found:
		return s.Target + " (not listed)"
	case s.Available:
		return s.Target + " (" + statusAvailable + ")"
	default:
		return s.Target + " (" + statusUnavailable + ")"
	}
}
