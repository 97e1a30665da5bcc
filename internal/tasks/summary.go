package tasks

import (
	"github.com/desertthunder/pdfparts/internal/models"
)

// Event is a recoverable anomaly met during a run.
type Event struct {
	Level   models.EventLevel `json:"level"`
	Song    string            `json:"song,omitempty"`
	Part    string            `json:"part,omitempty"`
	Message string            `json:"message"`
}

// Copy is one part file written to the output tree.
type Copy struct {
	Song        string `json:"song"`
	Part        string `json:"part"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Bytes       int64  `json:"bytes"`
	Pages       int    `json:"pages,omitempty"`
}

// Summary accumulates the events and copies of a run (or of one step of it).
//
// Summaries are values: each step returns its own and the orchestrator merges them.
type Summary struct {
	Events []Event `json:"events"`
	Copies []Copy  `json:"copies"`
	Songs  int     `json:"songs"` // songs whose folder was found and listed
}

func (s *Summary) add(level models.EventLevel, song, part, message string) {
	s.Events = append(s.Events, Event{Level: level, Song: song, Part: part, Message: message})
}

// Warn records a warning.
func (s *Summary) Warn(song, part, message string) {
	s.add(models.LevelWarning, song, part, message)
}

// Error records an error.
func (s *Summary) Error(song, part, message string) {
	s.add(models.LevelError, song, part, message)
}

// Merge appends o to s.
func (s *Summary) Merge(o Summary) {
	s.Events = append(s.Events, o.Events...)
	s.Copies = append(s.Copies, o.Copies...)
	s.Songs += o.Songs
}

// Warnings returns the warning events in order.
func (s Summary) Warnings() []Event {
	return s.filter(models.LevelWarning)
}

// Errors returns the error events in order.
func (s Summary) Errors() []Event {
	return s.filter(models.LevelError)
}

func (s Summary) filter(level models.EventLevel) []Event {
	var out []Event
	for _, e := range s.Events {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// WarningCount is the number of warnings.
func (s Summary) WarningCount() int { return len(s.Warnings()) }

// ErrorCount is the number of errors.
func (s Summary) ErrorCount() int { return len(s.Errors()) }

// Bytes is the total size of all copies.
func (s Summary) Bytes() int64 {
	var n int64
	for _, c := range s.Copies {
		n += c.Bytes
	}
	return n
}

// OK reports a clean run: no warnings and no errors.
func (s Summary) OK() bool {
	return len(s.Events) == 0
}

// Status maps the summary to the persisted run status.
func (s Summary) Status() models.RunStatus {
	if s.OK() {
		return models.RunSucceeded
	}
	return models.RunCompleted
}
