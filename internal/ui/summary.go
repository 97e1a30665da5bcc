package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/pdfparts/internal/models"
	"github.com/desertthunder/pdfparts/internal/tasks"
	"github.com/dustin/go-humanize"
)

// RenderSummary renders the end-of-run report: completion line, warning and error counts, and copy totals.
func RenderSummary(p *Palette, result *tasks.RunResult) string {
	sum := result.Summary
	var b strings.Builder

	if sum.ErrorCount() == 0 {
		b.WriteString(p.OK("Execution completed."))
	} else {
		b.WriteString("Execution completed.")
	}
	b.WriteString("\n")

	warnings := fmt.Sprintf("    %d Warning(s)", sum.WarningCount())
	if sum.WarningCount() > 0 {
		warnings = p.Warn(warnings)
	}
	b.WriteString(warnings + "\n")

	errs := fmt.Sprintf("    %d Error(s)", sum.ErrorCount())
	if sum.ErrorCount() > 0 {
		errs = p.Error(errs)
	}
	b.WriteString(errs + "\n")

	b.WriteString(p.Help(fmt.Sprintf("    Copied %d file(s), %s, from %d song(s) in %s",
		len(sum.Copies), Bytes(sum.Bytes()), sum.Songs, result.Duration().Round(time.Millisecond))))
	b.WriteString("\n")

	if result.BackupPath != "" {
		b.WriteString(p.Help("    Backup: " + result.BackupPath))
		b.WriteString("\n")
	}

	return b.String()
}

// RenderEvents lists warnings and errors one per line, in the order they were raised.
func RenderEvents(p *Palette, events []tasks.Event) string {
	var b strings.Builder
	for _, e := range events {
		if e.Level == models.LevelError {
			b.WriteString(p.Error("ERROR") + " " + e.Message + "\n")
		} else {
			b.WriteString(p.Warn("WARN ") + " " + e.Message + "\n")
		}
	}
	return b.String()
}

// RenderProgress formats a progress update as a single status line.
func RenderProgress(p *Palette, u tasks.ProgressUpdate) string {
	switch u.Phase {
	case tasks.ProcessSong:
		return fmt.Sprintf("%s %s", p.Title(fmt.Sprintf("[%d/%d]", u.Step, u.Total)), u.Message)
	case tasks.CopyPart:
		return "      " + p.Help(u.Message)
	case tasks.Done:
		return p.OK(u.Message)
	default:
		return u.Message
	}
}

// Since renders t relative to now, e.g. "3 minutes ago".
func Since(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

// Bytes renders n in SI units, e.g. "1.2 MB".
func Bytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}
