package models

import (
	"reflect"
	"testing"
)

func intPtr(n int) *int { return &n }

func TestPart(t *testing.T) {
	t.Run("DisplayName", func(t *testing.T) {
		tc := []struct {
			name string
			part Part
			want string
		}{
			{name: "no number", part: Part{Instrument: "Tuba"}, want: "Tuba"},
			{name: "numbered", part: Part{Instrument: "Trumpet", PartNumber: intPtr(1)}, want: "Trumpet 1"},
			{name: "zero number", part: Part{Instrument: "Trumpet", PartNumber: intPtr(0)}, want: "Trumpet"},
			{name: "negative number", part: Part{Instrument: "Horn", PartNumber: intPtr(-2)}, want: "Horn"},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				if got := tt.part.DisplayName(); got != tt.want {
					t.Errorf("DisplayName() = %q, want %q", got, tt.want)
				}
			})
		}
	})

	t.Run("IsAudio", func(t *testing.T) {
		if !(Part{Instrument: "Audio"}).IsAudio() {
			t.Error("expected unnumbered Audio part to be audio")
		}
		if (Part{Instrument: "Audio", PartNumber: intPtr(0)}).IsAudio() {
			t.Error("expected numbered Audio part not to be audio")
		}
		if (Part{Instrument: "audio"}).IsAudio() {
			t.Error("expected audio check to be case sensitive")
		}
	})

	t.Run("Terms", func(t *testing.T) {
		tc := []struct {
			name string
			part Part
			want []string
		}{
			{
				name: "display name then instrument",
				part: NewPart("Trumpet", 1, false),
				want: []string{"Trumpet 1", "Trumpet"},
			},
			{
				name: "abbreviations in order",
				part: Part{Instrument: "Trumpet", PartNumber: intPtr(2), Abbreviations: "Tpt2, Trp2"},
				want: []string{"Trumpet 2", "Trumpet", "Tpt2", "Trp2"},
			},
			{
				name: "blank abbreviations dropped",
				part: Part{Instrument: "Tuba", Abbreviations: " , Tb,,"},
				want: []string{"Tuba", "Tuba", "Tb"},
			},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				if got := tt.part.Terms(); !reflect.DeepEqual(got, tt.want) {
					t.Errorf("Terms() = %v, want %v", got, tt.want)
				}
			})
		}
	})
}

func TestSong(t *testing.T) {
	song := Song{IndexNumber: "03", Title: "Song A"}
	if got := song.FileName(NewPart("Trumpet", 1, false)); got != "03 - Song A - Trumpet 1.pdf" {
		t.Errorf("FileName() = %q", got)
	}
	if got := song.String(); got != "03 - Song A" {
		t.Errorf("String() = %q", got)
	}
	if got := (Song{Title: "Solo"}).String(); got != "Solo" {
		t.Errorf("String() without index = %q", got)
	}
}

func TestRun(t *testing.T) {
	run := NewRun("/idx.json", "/out")
	if err := run.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if run.Finished() {
		t.Error("new run should not be finished")
	}

	run.Finish(RunCompleted, "2 errors")
	if !run.Finished() || run.Status != RunCompleted {
		t.Errorf("expected completed finished run, got %+v", run)
	}
	if run.Duration() < 0 {
		t.Error("duration should not be negative")
	}

	run.Status = "bogus"
	if err := run.Validate(); err == nil {
		t.Error("expected validation error for unknown status")
	}

	if err := (&Run{Status: RunRunning, OutputRoot: "/out"}).Validate(); err == nil {
		t.Error("expected validation error for missing index path")
	}
}
