package formatter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/pdfparts/internal/shared"
	"github.com/desertthunder/pdfparts/internal/tasks"
	th "github.com/desertthunder/pdfparts/internal/testing"
)

func sampleResult() *tasks.RunResult {
	var sum tasks.Summary
	sum.Songs = 1
	sum.Warn("Song B", "", "Unable to find directory /songs/Song B. Song could not be processed.")
	sum.Error("Song A", "Trumpet 2", "Unable to load part Trumpet 2 for Song A. no file matches.")
	sum.Copies = []tasks.Copy{{
		Song:        "Song A",
		Part:        "Trumpet 1",
		Source:      "/songs/Song A/Tpt1.pdf",
		Destination: "/parts/Trumpet 1/01 - Song A - Trumpet 1.pdf",
		Bytes:       2048,
	}}

	start := time.Date(2024, 1, 31, 15, 4, 5, 0, time.UTC)
	return &tasks.RunResult{
		Summary:    sum,
		BackupPath: "/backups/backup-20240131150405000",
		StartedAt:  start,
		FinishedAt: start.Add(1500 * time.Millisecond),
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleResult())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("output is not valid CSV: %v", err)
		}
		if len(records) != 4 {
			t.Fatalf("expected header + 3 rows, got %d", len(records))
		}
		if strings.Join(records[0], ",") != "Level,Song,Part,Message" {
			t.Errorf("CSV missing headers, got: %v", records[0])
		}
		if records[1][0] != "warning" || records[2][0] != "error" || records[3][0] != "copied" {
			t.Errorf("unexpected row order: %v", records)
		}
		if records[3][3] != "/parts/Trumpet 1/01 - Song A - Trumpet 1.pdf" {
			t.Errorf("copied row should carry the destination, got %q", records[3][3])
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleResult())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# Part index report",
			"**Duration**: 1.5s",
			"**Backup**: `/backups/backup-20240131150405000`",
			"**Warnings**: 1",
			"## Errors",
			"- **Song A / Trumpet 2**: Unable to load part",
			"- **Song B**: Unable to find directory",
			"| Song A | Trumpet 1 | 01 - Song A - Trumpet 1.pdf |",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleResult())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{"1 Warning(s)", "1 Error(s)", "WARN: Unable to find directory", "ERROR: Unable to load part"} {
			if !strings.Contains(output, want) {
				t.Errorf("text missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("ExportToText clean run", func(t *testing.T) {
		data, err := ExportToText(&tasks.RunResult{})
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}
		if strings.Contains(string(data), "WARN") || !strings.Contains(string(data), "0 Error(s)") {
			t.Errorf("unexpected output:\n%s", data)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(sampleResult())
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded tasks.Summary
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.ErrorCount() != 1 || len(decoded.Copies) != 1 {
			t.Errorf("unexpected summary %+v", decoded)
		}
	})
}

func TestWriteReport(t *testing.T) {
	tc := []struct {
		name string
		file string
		want string
	}{
		{"csv", "report.csv", "Level,Song,Part,Message"},
		{"markdown", "report.md", "# Part index report"},
		{"json", "report.json", `"events"`},
		{"text", "report.txt", "Error(s)"},
		{"no extension", "report", "Error(s)"},
		{"nested directory", filepath.Join("out", "runs", "report.CSV"), "Level,Song,Part,Message"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)

			if err := WriteReport(sampleResult(), path); err != nil {
				t.Fatalf("WriteReport failed: %v", err)
			}

			th.AssertFileExists(t, path)
			if content := th.MustReadFile(t, path); !strings.Contains(content, tt.want) {
				t.Errorf("expected %q in report, got:\n%s", tt.want, content)
			}
		})
	}

	t.Run("empty path", func(t *testing.T) {
		if err := WriteReport(sampleResult(), ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}
