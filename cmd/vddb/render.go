package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"vddb/internal/dberr"
	"vddb/internal/engine"
)

var (
	primaryColor = lipgloss.Color("#8B5CF6")
	accentColor  = lipgloss.Color("#10B981")
	errorColor   = lipgloss.Color("#EF4444")
	mutedColor   = lipgloss.Color("#94A3B8")

	headerStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	footerStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)

// renderResult formats a command result for the terminal.
func renderResult(res *engine.Result) string {
	if !res.IsQuery() {
		return successStyle.Render(res.Message)
	}

	rows := make([][]string, len(res.Rows))
	for i, r := range res.Rows {
		cells := make([]string, len(r))
		for j, v := range r {
			cells[j] = v.String()
		}
		rows[i] = cells
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(mutedColor)).
		Headers(res.Columns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	footer := fmt.Sprintf("(%d rows)", len(res.Rows))
	if len(res.Rows) == 1 {
		footer = "(1 row)"
	}
	return t.String() + "\n" + footerStyle.Render(footer)
}

// renderError formats an error, with the expected form of the command on a
// second line for syntax errors.
func renderError(err error) string {
	var de *dberr.Error
	if !errors.As(err, &de) || de.Hint == "" {
		return errorStyle.Render("Error: ") + err.Error()
	}

	msg := &dberr.Error{Kind: de.Kind, Msg: de.Msg}
	return errorStyle.Render("Error: ") + msg.Error() + "\n" + hintStyle.Render("expected: "+de.Hint)
}
