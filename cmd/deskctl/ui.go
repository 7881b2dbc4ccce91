package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"newsdesk/internal/listview"
	"newsdesk/internal/screens"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	sortedStyle  = headerStyle.Foreground(lipgloss.Color("12"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func renderTable(headers []string, rows [][]string, sorted string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				if sorted != "" && col < len(headers) && headers[col] == sorted {
					return sortedStyle
				}
				return headerStyle
			}
			return cellStyle
		})
	return t.Render()
}

func sortArrow(d listview.SortDirection) string {
	switch d {
	case listview.SortAsc:
		return " ▲"
	case listview.SortDesc:
		return " ▼"
	}
	return ""
}

// renderView draws the collection, or the empty or error state in its place.
func renderView(v screens.View, canDelete bool) string {
	var b strings.Builder

	headers := make([]string, len(v.Headers))
	copy(headers, v.Headers)
	sorted := ""
	for i, f := range v.Fields {
		if f == v.Query.SortField && v.Query.SortDirection != listview.SortNone {
			headers[i] += sortArrow(v.Query.SortDirection)
			sorted = headers[i]
		}
	}

	switch {
	case v.Err != nil && v.Severity == listview.SeverityCritical:
		b.WriteString(errorStyle.Render("Could not load "+string(v.Resource)+": "+v.Err.Error()) + "\n")
	case len(v.Rows) == 0:
		b.WriteString(dimStyle.Render(v.EmptyMessage) + "\n")
	default:
		rows := make([][]string, len(v.Rows))
		for i, r := range v.Rows {
			row := append([]string(nil), r...)
			if n := len(row); n > 0 && n <= len(v.Fields) && v.Fields[n-1] == "actions" {
				if canDelete && v.DeleteState == listview.DeleteIdle {
					row[n-1] = "delete " + v.IDs[i]
				} else {
					row[n-1] = "-"
				}
			}
			rows[i] = row
		}
		b.WriteString(renderTable(headers, rows, sorted) + "\n")
	}

	status := fmt.Sprintf("page %d/%d · %d items · %d per page", v.Query.Page, v.TotalPages, v.TotalItems, v.Query.ItemsPerPage)
	if v.Query.SearchQuery != "" {
		status += fmt.Sprintf(" · search %q", v.Query.SearchQuery)
	}
	if v.Loading {
		status += " · loading (" + string(v.Presentation) + ")"
	}
	b.WriteString(dimStyle.Render(status))
	return b.String()
}

// toastNotifier prints toasts as styled lines.
type toastNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

func (t *toastNotifier) Success(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, successStyle.Render("✓ ")+msg)
}

func (t *toastNotifier) Error(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, errorStyle.Render("✗ ")+msg)
}

// huhConfirmer asks before every delete unless assumeYes is set.
type huhConfirmer struct {
	assumeYes bool
}

func (h huhConfirmer) Confirm(ctx context.Context, p listview.Prompt) (bool, error) {
	if h.assumeYes {
		return true, nil
	}
	var ok bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(p.Title).
			Description(p.Message).
			Affirmative("Delete").
			Negative("Cancel").
			Value(&ok),
	))
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}

// exitNavigator ends the session loop on redirect.
type exitNavigator struct {
	out  io.Writer
	done chan string
}

func (n *exitNavigator) Redirect(path string) {
	fmt.Fprintln(n.out, dimStyle.Render("signed out, redirecting to "+path))
	select {
	case n.done <- path:
	default:
	}
}
