package ui

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

// CallSummary describes a finished call for the post-call table.
type CallSummary struct {
	RoomID   string
	Duration time.Duration
	Messages int
	Shares   int
	Outcome  string
}

// RenderCallSummary displays the final call stats using a go-pretty table.
func RenderCallSummary(title string, summary CallSummary) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"Room", summary.RoomID},
		{"Outcome", summary.Outcome},
		{"Duration", summary.Duration.String()},
		{"Chat messages", fmt.Sprintf("%d", summary.Messages)},
		{"Screen shares", fmt.Sprintf("%d", summary.Shares)},
	})

	fmt.Println()
	fmt.Println(t.Render())
}
