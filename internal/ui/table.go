package ui

import (
	"path/filepath"
	"strconv"
	"time"

	"github.com/desertthunder/pdfparts/internal/models"
	"github.com/desertthunder/pdfparts/internal/tasks"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RunStatus colors a recorded run status.
func (p *Palette) RunStatus(s models.RunStatus) string {
	switch s {
	case models.RunSucceeded:
		return p.OK(string(s))
	case models.RunFailed:
		return p.Error(string(s))
	case models.RunCompleted:
		return p.Warn(string(s))
	default:
		return p.Help(string(s))
	}
}

// PlanStatus colors a predicted part outcome.
func (p *Palette) PlanStatus(s tasks.PlanStatus) string {
	switch s {
	case tasks.PlanMatched:
		return p.OK(string(s))
	case tasks.PlanMissing, tasks.PlanUnsupported:
		return p.Error(string(s))
	case tasks.PlanNoFolder:
		return p.Warn(string(s))
	default:
		return p.Help(string(s))
	}
}

func newTable() table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	return tw
}

// RenderRuns lists recorded runs, newest first as given, with a footer totalling copies and bytes.
func RenderRuns(p *Palette, runs []*models.Run) string {
	tw := newTable()
	tw.AppendHeader(table.Row{"#", "Started", "Status", "Songs", "Copied", "Size", "Warnings", "Errors", "Duration"})

	var copied int
	var size int64
	for _, run := range runs {
		duration := "-"
		if run.Finished() {
			duration = run.Duration().Round(time.Millisecond).String()
		}
		tw.AppendRow(table.Row{
			run.Sequence(), Since(run.StartedAt), run.Status,
			run.Songs, run.Copied, Bytes(run.Bytes), run.Warnings, run.Errors, duration,
		})
		copied += run.Copied
		size += run.Bytes
	}
	tw.AppendFooter(table.Row{"", "", strconv.Itoa(len(runs)) + " run(s)", "", copied, Bytes(size)})

	right := func(n int) table.ColumnConfig {
		return table.ColumnConfig{Number: n, Align: text.AlignRight, AlignHeader: text.AlignRight, AlignFooter: text.AlignRight}
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		right(1),
		{Number: 3, Transformer: func(v any) string {
			if s, ok := v.(models.RunStatus); ok {
				return p.RunStatus(s)
			}
			return ""
		}},
		right(4), right(5), right(6), right(7), right(8), right(9),
	})
	return tw.Render()
}

// RenderPlan lists the predicted outcome per song and part. Consecutive rows of one song share a merged Song cell.
func RenderPlan(p *Palette, entries []tasks.PlanEntry) string {
	tw := newTable()
	tw.AppendHeader(table.Row{"Song", "Part", "Status", "Source"})

	for _, e := range entries {
		source := e.Reason
		if e.Status == tasks.PlanMatched {
			source = filepath.Base(e.Source) + " (" + e.Term + ")"
		}
		tw.AppendRow(table.Row{e.Song.String(), e.Part, e.Status, source})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true, VAlign: text.VAlignTop},
		{Number: 3, Transformer: func(v any) string {
			if s, ok := v.(tasks.PlanStatus); ok {
				return p.PlanStatus(s)
			}
			return ""
		}},
		{Number: 4, WidthMax: 80},
	})
	return tw.Render()
}
