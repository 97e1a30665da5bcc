package tasks

import (
	"testing"

	"github.com/desertthunder/pdfparts/internal/models"
)

func TestSummary(t *testing.T) {
	var a Summary
	if !a.OK() || a.Status() != models.RunSucceeded {
		t.Error("empty summary should be OK")
	}

	a.Warn("Song B", "", "missing folder")
	a.Copies = append(a.Copies, Copy{Bytes: 10})

	var b Summary
	b.Error("Song A", "Trumpet 1", "no match")
	b.Copies = append(b.Copies, Copy{Bytes: 32})
	b.Songs = 1

	a.Merge(b)

	if a.WarningCount() != 1 || a.ErrorCount() != 1 {
		t.Errorf("expected 1 warning and 1 error, got %d and %d", a.WarningCount(), a.ErrorCount())
	}
	if a.Bytes() != 42 {
		t.Errorf("expected 42 bytes, got %d", a.Bytes())
	}
	if a.Songs != 1 {
		t.Errorf("expected 1 song, got %d", a.Songs)
	}
	if a.OK() || a.Status() != models.RunCompleted {
		t.Error("summary with events should not be OK")
	}
	if a.Events[0].Level != models.LevelWarning || a.Events[1].Part != "Trumpet 1" {
		t.Errorf("events out of order: %+v", a.Events)
	}
}

func TestPhaseString(t *testing.T) {
	for phase, want := range map[Phase]string{
		LoadCatalog:   "load_catalog",
		BackupOutput:  "backup_output",
		PrepareOutput: "prepare_output",
		ProcessSong:   "process_song",
		CopyPart:      "copy_part",
		Done:          "done",
		Phase(99):     "",
	} {
		if got := phase.String(); got != want {
			t.Errorf("Phase(%d).String() = %q, want %q", phase, got, want)
		}
	}
}

func TestSendProgressNeverBlocks(t *testing.T) {
	sendProgress(nil, ProgressUpdate{})

	ch := make(chan ProgressUpdate, 1)
	sendProgress(ch, ProgressUpdate{Message: "first"})
	sendProgress(ch, ProgressUpdate{Message: "dropped"})

	if got := (<-ch).Message; got != "first" {
		t.Errorf("expected first update, got %q", got)
	}
}
