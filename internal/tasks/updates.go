package tasks

import (
	"fmt"

	"github.com/desertthunder/pdfparts/internal/models"
)

// ProgressUpdate represents a progress event during a run.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	LoadCatalog Phase = iota
	BackupOutput
	PrepareOutput
	ProcessSong
	CopyPart
	Done
)

func (p Phase) String() string {
	switch p {
	case LoadCatalog:
		return "load_catalog"
	case BackupOutput:
		return "backup_output"
	case PrepareOutput:
		return "prepare_output"
	case ProcessSong:
		return "process_song"
	case CopyPart:
		return "copy_part"
	case Done:
		return "done"
	default:
		return ""
	}
}

// sendProgress sends an update without blocking; updates are dropped when nobody keeps up.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func loadCatalogUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadCatalog,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Reading index file %s...", path),
	}
}

func backupUpdate(dest string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BackupOutput,
		Step:    1,
		Total:   1,
		Message: "Backing up existing output...",
		Data:    dest,
	}
}

func reconcileUpdate(step, total int, part string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PrepareOutput,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Initializing %s...", part),
	}
}

func songUpdate(step, total int, song models.Song) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ProcessSong,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Processing %s...", song),
		Data:    song,
	}
}

func copyUpdate(c Copy) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CopyPart,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Copied %s", c.Destination),
		Data:    c,
	}
}

func doneUpdate(s Summary) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Done,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Execution completed. %d warning(s), %d error(s)", s.WarningCount(), s.ErrorCount()),
		Data:    s,
	}
}
