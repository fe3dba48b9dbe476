// Package presentation renders inspection reports for terminals.
package presentation

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"

	"github.com/aretw0/espalier/internal/inspect"
)

// Renderer writes plain-text views of inspection reports, colored for the
// given termenv profile. With termenv.Ascii the output carries no escape
// sequences at all, which is what the golden tests pin down.
type Renderer struct {
	profile termenv.Profile
}

// NewRenderer builds a renderer for the given color profile.
func NewRenderer(profile termenv.Profile) *Renderer {
	return &Renderer{profile: profile}
}

// ANSI 4-bit palette indices.
var statusColors = map[inspect.Status]string{
	inspect.StatusResolved: "10",
	inspect.StatusNotReady: "11",
	inspect.StatusFailed:   "9",
}

const statusColumn = 1

// ReportTable renders one aligned row per report. Cells are padded before
// they are colored, so alignment holds under every profile.
func (r *Renderer) ReportTable(reports []inspect.Report) string {
	rows := make([][]string, 0, len(reports)+1)
	rows = append(rows, []string{"NODE", "STATUS", "KIND", "CONFIGURATION", "DETAIL"})
	for _, report := range reports {
		rows = append(rows, []string{
			report.Label,
			string(report.Status),
			orDash(report.Kind),
			orDash(report.Configuration),
			orDash(report.Error),
		})
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var sb strings.Builder
	for rowIdx, row := range rows {
		for i, cell := range row {
			padded := cell
			if i < len(row)-1 {
				padded = cell + strings.Repeat(" ", widths[i]-len(cell))
			}
			if rowIdx > 0 && i == statusColumn {
				padded = r.colorStatus(padded, reports[rowIdx-1].Status)
			}
			sb.WriteString(padded)
			if i < len(row)-1 {
				sb.WriteString("  ")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Summary renders the aggregate line, e.g.
// "4 nodes: 2 resolved, 1 not-ready, 1 failed".
func (r *Renderer) Summary(sum inspect.Summary) string {
	return fmt.Sprintf("%d nodes: %s, %s, %s",
		sum.Total(),
		r.count(sum.Resolved, inspect.StatusResolved),
		r.count(sum.NotReady, inspect.StatusNotReady),
		r.count(sum.Failed, inspect.StatusFailed),
	)
}

func (r *Renderer) count(n int, status inspect.Status) string {
	text := fmt.Sprintf("%d %s", n, status)
	if n == 0 {
		// Zero counts stay uncolored so the interesting ones stand out.
		return text
	}
	return r.colorStatus(text, status)
}

func (r *Renderer) colorStatus(text string, status inspect.Status) string {
	color, ok := statusColors[status]
	if !ok {
		return text
	}
	return termenv.String(text).Foreground(r.profile.Color(color)).String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
