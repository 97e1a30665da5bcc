// package formatter renders run reports as CSV, Markdown, JSON or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/desertthunder/pdfparts/internal/models"
	"github.com/desertthunder/pdfparts/internal/shared"
	"github.com/desertthunder/pdfparts/internal/tasks"
)

// ExportToCSV converts a RunResult to CSV with columns: Level, Song, Part, Message.
//
// Warnings and errors come first in the order they were raised, followed by one "copied" row per copied file
// with the destination path as its message.
func ExportToCSV(result *tasks.RunResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Level", "Song", "Part", "Message"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, e := range result.Summary.Events {
		if err := writer.Write([]string{string(e.Level), e.Song, e.Part, e.Message}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	for _, c := range result.Summary.Copies {
		if err := writer.Write([]string{"copied", c.Song, c.Part, c.Destination}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a RunResult to a Markdown report
func ExportToMarkdown(result *tasks.RunResult) ([]byte, error) {
	var buf bytes.Buffer
	sum := result.Summary

	buf.WriteString("# Part index report\n\n")
	if !result.StartedAt.IsZero() {
		fmt.Fprintf(&buf, "**Started**: %s\n", result.StartedAt.Format(time.RFC3339))
		fmt.Fprintf(&buf, "**Duration**: %s\n", result.Duration().Round(time.Millisecond))
	}
	if result.BackupPath != "" {
		fmt.Fprintf(&buf, "**Backup**: `%s`\n", result.BackupPath)
	}
	fmt.Fprintf(&buf, "**Songs**: %d\n", sum.Songs)
	fmt.Fprintf(&buf, "**Copied**: %d\n", len(sum.Copies))
	fmt.Fprintf(&buf, "**Warnings**: %d\n", sum.WarningCount())
	fmt.Fprintf(&buf, "**Errors**: %d\n\n", sum.ErrorCount())

	writeEvents := func(title string, events []tasks.Event) {
		if len(events) == 0 {
			return
		}
		fmt.Fprintf(&buf, "## %s\n\n", title)
		for _, e := range events {
			fmt.Fprintf(&buf, "- %s%s\n", eventTag(e), e.Message)
		}
		buf.WriteString("\n")
	}
	writeEvents("Errors", sum.Errors())
	writeEvents("Warnings", sum.Warnings())

	if len(sum.Copies) > 0 {
		buf.WriteString("## Copied\n\n")
		buf.WriteString("| Song | Part | File |\n|---|---|---|\n")
		for _, c := range sum.Copies {
			fmt.Fprintf(&buf, "| %s | %s | %s |\n", escapeCell(c.Song), escapeCell(c.Part), escapeCell(filepath.Base(c.Destination)))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a RunResult to plain text format
func ExportToText(result *tasks.RunResult) ([]byte, error) {
	var buf bytes.Buffer
	sum := result.Summary

	fmt.Fprintf(&buf, "Songs: %d\n", sum.Songs)
	fmt.Fprintf(&buf, "Copied: %d\n", len(sum.Copies))
	fmt.Fprintf(&buf, "%d Warning(s)\n", sum.WarningCount())
	fmt.Fprintf(&buf, "%d Error(s)\n", sum.ErrorCount())

	if len(sum.Events) > 0 {
		buf.WriteString("\n")
		for _, e := range sum.Events {
			fmt.Fprintf(&buf, "%s: %s\n", levelLabel(e.Level), e.Message)
		}
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts a RunResult's summary to indented JSON
func ExportToJSON(result *tasks.RunResult) ([]byte, error) {
	return shared.MarshalJSON(result.Summary, true)
}

// WriteReport writes result to path, picking the format from the extension:
// .csv, .md/.markdown, .json, anything else plain text.
func WriteReport(result *tasks.RunResult, path string) error {
	if path == "" {
		return fmt.Errorf("%w: report path", shared.ErrMissingArgument)
	}

	var export func(*tasks.RunResult) ([]byte, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		export = ExportToCSV
	case ".md", ".markdown":
		export = ExportToMarkdown
	case ".json":
		export = ExportToJSON
	default:
		export = ExportToText
	}

	data, err := export(result)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func eventTag(e tasks.Event) string {
	switch {
	case e.Song != "" && e.Part != "":
		return fmt.Sprintf("**%s / %s**: ", e.Song, e.Part)
	case e.Song != "":
		return fmt.Sprintf("**%s**: ", e.Song)
	case e.Part != "":
		return fmt.Sprintf("**%s**: ", e.Part)
	default:
		return ""
	}
}

func levelLabel(l models.EventLevel) string {
	if l == models.LevelError {
		return "ERROR"
	}
	return "WARN"
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
