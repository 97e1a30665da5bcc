package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/desertthunder/pdfparts/internal/catalog"
	"github.com/desertthunder/pdfparts/internal/models"
	"github.com/desertthunder/pdfparts/internal/shared"
	tu "github.com/desertthunder/pdfparts/internal/testing"
)

// prepare loads the workspace index and reconciles its output tree.
func (w workspace) prepare(t *testing.T) (*models.Catalog, []models.PartDirectory) {
	t.Helper()
	c, err := catalog.Load(w.index)
	if err != nil {
		t.Fatalf("catalog.Load() error = %v", err)
	}
	dirs, _, err := ReconcileOutput(c.Parts, w.parts, nil, nil)
	if err != nil {
		t.Fatalf("ReconcileOutput() error = %v", err)
	}
	return c, dirs
}

func TestProcessSongs(t *testing.T) {
	ctx := context.Background()

	t.Run("optional part without a match is silent", func(t *testing.T) {
		w := newWorkspace(t, bandIndex)
		w.song(t, "Song A", "Song A - Trumpet 1.pdf", "Song A - Trumpet 2.pdf")
		w.song(t, "Song B", "Song B - Trumpet 1.pdf", "Song B - Trumpet 2.pdf")
		c, dirs := w.prepare(t)

		sum, err := w.indexer(t, w.options()).ProcessSongs(ctx, c, dirs, nil)
		if err != nil {
			t.Fatalf("ProcessSongs() error = %v", err)
		}
		if !sum.OK() {
			t.Errorf("expected no events, got %+v", sum.Events)
		}
		if len(sum.Copies) != 4 || sum.Songs != 2 {
			t.Errorf("expected 4 copies over 2 songs, got %d over %d", len(sum.Copies), sum.Songs)
		}
	})

	t.Run("required part without a match is one error", func(t *testing.T) {
		w := newWorkspace(t, bandIndex)
		w.song(t, "Song A", "Tpt1.pdf")
		w.song(t, "Song B", "Trumpet 1.pdf", "Trumpet 2.pdf")
		c, dirs := w.prepare(t)

		sum, err := w.indexer(t, w.options()).ProcessSongs(ctx, c, dirs, nil)
		if err != nil {
			t.Fatalf("ProcessSongs() error = %v", err)
		}
		if sum.ErrorCount() != 1 || sum.WarningCount() != 0 {
			t.Fatalf("expected exactly one error, got %+v", sum.Events)
		}

		e := sum.Errors()[0]
		if e.Song != "Song A" || e.Part != "Trumpet 2" {
			t.Errorf("error not tagged with song and part: %+v", e)
		}
		if !strings.Contains(e.Message, "Trumpet 2") || !strings.Contains(e.Message, "Song A") {
			t.Errorf("message should name part and song: %q", e.Message)
		}
		tu.AssertFileExists(t, filepath.Join(w.parts, "Trumpet 1", "01 - Song A - Trumpet 1.pdf"))
		tu.AssertNotExists(t, filepath.Join(w.parts, "Trumpet 2", "01 - Song A - Trumpet 2.pdf"))
	})

	t.Run("unusable song title is a warning", func(t *testing.T) {
		w := newWorkspace(t, `{
  "parts": [{ "instrument": "Trumpet", "partNumber": 1 }],
  "songs": [
    { "indexNumber": "01", "title": "" },
    { "indexNumber": "02", "title": "../escape" },
    { "indexNumber": "03", "title": "Song B" }
  ]
}`)
		tu.MustWriteFile(t, filepath.Join(w.root, "escape", "Trumpet 1.pdf"), "outside")
		w.song(t, "Song B", "Trumpet 1.pdf")
		c, dirs := w.prepare(t)

		sum, err := w.indexer(t, w.options()).ProcessSongs(ctx, c, dirs, nil)
		if err != nil {
			t.Fatalf("ProcessSongs() error = %v", err)
		}
		if sum.WarningCount() != 2 || sum.ErrorCount() != 0 {
			t.Fatalf("expected two warnings, got %+v", sum.Events)
		}
		for _, e := range sum.Warnings() {
			if !strings.Contains(e.Message, "unusable title") {
				t.Errorf("unexpected warning %q", e.Message)
			}
		}
		if len(sum.Copies) != 1 || sum.Songs != 1 {
			t.Errorf("expected 1 copy from 1 song, got %d from %d", len(sum.Copies), sum.Songs)
		}
		tu.AssertFileExists(t, filepath.Join(w.parts, "Trumpet 1", "03 - Song B - Trumpet 1.pdf"))
	})

	t.Run("ambiguous match is an error", func(t *testing.T) {
		w := newWorkspace(t, `{
  "parts": [{ "instrument": "Trumpet", "partNumber": 1 }],
  "songs": [{ "indexNumber": "01", "title": "Song A" }]
}`)
		w.song(t, "Song A", "Trumpet 1.pdf", "Trumpet 1 old.pdf")
		c, dirs := w.prepare(t)

		sum, err := w.indexer(t, w.options()).ProcessSongs(ctx, c, dirs, nil)
		if err != nil {
			t.Fatalf("ProcessSongs() error = %v", err)
		}
		if sum.ErrorCount() != 1 || !strings.Contains(sum.Errors()[0].Message, "ambiguous") {
			t.Errorf("expected one ambiguity error, got %+v", sum.Events)
		}
		if len(sum.Copies) != 0 {
			t.Errorf("expected no copies, got %+v", sum.Copies)
		}
	})

	t.Run("missing song folder is one warning", func(t *testing.T) {
		w := newWorkspace(t, bandIndex)
		w.song(t, "Song A", "Trumpet 1.pdf", "Trumpet 2.pdf")
		c, dirs := w.prepare(t)

		sum, err := w.indexer(t, w.options()).ProcessSongs(ctx, c, dirs, nil)
		if err != nil {
			t.Fatalf("ProcessSongs() error = %v", err)
		}
		if sum.WarningCount() != 1 || sum.ErrorCount() != 0 {
			t.Fatalf("expected exactly one warning, got %+v", sum.Events)
		}
		if sum.Warnings()[0].Song != "Song B" {
			t.Errorf("unexpected warning %+v", sum.Warnings()[0])
		}
		for _, d := range dirs {
			tu.AssertNotExists(t, filepath.Join(d.Dir, "02 - Song B - "+d.Key()+".pdf"))
		}
	})

	t.Run("audio part is an error and others continue", func(t *testing.T) {
		w := newWorkspace(t, `{
  "parts": [{ "instrument": "Audio" }, { "instrument": "Tuba" }],
  "songs": [{ "indexNumber": "01", "title": "Song A" }]
}`)
		w.song(t, "Song A", "Audio.pdf", "Tuba.pdf")
		c, dirs := w.prepare(t)

		sum, err := w.indexer(t, w.options()).ProcessSongs(ctx, c, dirs, nil)
		if err != nil {
			t.Fatalf("ProcessSongs() error = %v", err)
		}
		if sum.ErrorCount() != 1 || sum.Errors()[0].Part != "Audio" {
			t.Errorf("expected one error for Audio, got %+v", sum.Events)
		}
		tu.AssertFileExists(t, filepath.Join(w.parts, "Tuba", "01 - Song A - Tuba.pdf"))
	})

	t.Run("overwrites existing output", func(t *testing.T) {
		w := newWorkspace(t, `{
  "parts": [{ "instrument": "Tuba" }],
  "songs": [{ "indexNumber": "01", "title": "Song A" }]
}`)
		w.song(t, "Song A", "Tuba.pdf")
		c, dirs := w.prepare(t)
		dst := filepath.Join(w.parts, "Tuba", "01 - Song A - Tuba.pdf")
		tu.MustWriteFile(t, dst, "an older and longer revision of the part")

		if _, err := w.indexer(t, w.options()).ProcessSongs(ctx, c, dirs, nil); err != nil {
			t.Fatalf("ProcessSongs() error = %v", err)
		}
		if got := tu.MustReadFile(t, dst); got != "Tuba.pdf" {
			t.Errorf("destination not overwritten: %q", got)
		}
	})

	t.Run("copy failure is an error and others continue", func(t *testing.T) {
		w := newWorkspace(t, bandIndex)
		w.song(t, "Song A", "Trumpet 1.pdf", "Trumpet 2.pdf")
		w.song(t, "Song B", "Trumpet 1.pdf", "Trumpet 2.pdf")
		c, dirs := w.prepare(t)
		tu.MustMkdir(t, filepath.Join(w.parts, "Trumpet 1", "01 - Song A - Trumpet 1.pdf"))

		sum, err := w.indexer(t, w.options()).ProcessSongs(ctx, c, dirs, nil)
		if err != nil {
			t.Fatalf("ProcessSongs() error = %v", err)
		}
		if sum.ErrorCount() != 1 {
			t.Fatalf("expected one copy error, got %+v", sum.Events)
		}
		if e := sum.Errors()[0]; e.Song != "Song A" || e.Part != "Trumpet 1" {
			t.Errorf("unexpected error %+v", e)
		}
		if len(sum.Copies) != 3 {
			t.Errorf("expected 3 copies, got %d", len(sum.Copies))
		}
	})

	t.Run("missing songs root is fatal", func(t *testing.T) {
		w := newWorkspace(t, bandIndex)
		c, dirs := w.prepare(t)
		if err := os.RemoveAll(w.songs); err != nil {
			t.Fatal(err)
		}

		_, err := w.indexer(t, w.options()).ProcessSongs(ctx, c, dirs, nil)
		if !errors.Is(err, shared.ErrSongRootNotFound) {
			t.Errorf("expected ErrSongRootNotFound, got %v", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		w := newWorkspace(t, bandIndex)
		c, dirs := w.prepare(t)
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := w.indexer(t, w.options()).ProcessSongs(cctx, c, dirs, nil)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestProcessSongsParallel(t *testing.T) {
	run := func(t *testing.T, workers int) Summary {
		w := newWorkspace(t, `{
  "parts": [
    { "instrument": "Trumpet", "partNumber": 1 },
    { "instrument": "Trumpet", "partNumber": 2 }
  ],
  "songs": [
    { "indexNumber": "01", "title": "Song A" },
    { "indexNumber": "02", "title": "Song B" },
    { "indexNumber": "03", "title": "Song C" },
    { "indexNumber": "04", "title": "Song D" },
    { "indexNumber": "05", "title": "Song E" }
  ]
}`)
		w.song(t, "Song A", "Trumpet 1.pdf", "Trumpet 2.pdf")
		w.song(t, "Song B", "Trumpet 1.pdf", "Trumpet 1 old.pdf")
		w.song(t, "Song D", "Trumpet 1.pdf", "Trumpet 2.pdf")
		w.song(t, "Song E", "Trumpet 2.pdf", "Trumpet 2 old.pdf", "Trumpet 1.pdf")
		c, dirs := w.prepare(t)

		opts := w.options()
		opts.Workers = workers
		sum, err := w.indexer(t, opts).ProcessSongs(context.Background(), c, dirs, nil)
		if err != nil {
			t.Fatalf("ProcessSongs() error = %v", err)
		}
		return sum
	}

	seq := run(t, 1)
	par := run(t, 4)

	if !reflect.DeepEqual(seq.Events, par.Events) {
		t.Errorf("events differ:\nsequential %+v\nparallel   %+v", seq.Events, par.Events)
	}
	if len(seq.Copies) != len(par.Copies) || seq.Songs != par.Songs {
		t.Errorf("copies differ: %d/%d songs %d/%d", len(seq.Copies), len(par.Copies), seq.Songs, par.Songs)
	}
	for i := range seq.Copies {
		if seq.Copies[i].Song != par.Copies[i].Song || seq.Copies[i].Part != par.Copies[i].Part {
			t.Errorf("copy %d out of order: %+v vs %+v", i, seq.Copies[i], par.Copies[i])
		}
	}
	if seq.ErrorCount() != 3 || seq.WarningCount() != 1 {
		t.Errorf("expected 3 errors and 1 warning, got %+v", seq.Events)
	}
}

func TestVerifyOptions(t *testing.T) {
	index := `{
  "parts": [{ "instrument": "Trumpet", "partNumber": 1 }, { "instrument": "Tuba" }],
  "songs": [{ "indexNumber": "01", "title": "Song A" }]
}`

	w := newWorkspace(t, index)
	w.song(t, "Song A", "Trumpet 1.pdf")
	tu.MustWriteFile(t, filepath.Join(w.songs, "Song A", "Tuba.pdf"), string(tu.MinimalPDF(2)))
	c, dirs := w.prepare(t)

	opts := w.options()
	opts.VerifyPDF = true
	opts.VerifyCopy = true

	sum, err := w.indexer(t, opts).ProcessSongs(context.Background(), c, dirs, nil)
	if err != nil {
		t.Fatalf("ProcessSongs() error = %v", err)
	}

	if sum.ErrorCount() != 1 || sum.Errors()[0].Part != "Trumpet 1" {
		t.Fatalf("expected the fake PDF to be rejected, got %+v", sum.Events)
	}
	if !strings.Contains(sum.Errors()[0].Message, errInvalidPDF.Error()) {
		t.Errorf("unexpected message %q", sum.Errors()[0].Message)
	}
	tu.AssertNotExists(t, filepath.Join(w.parts, "Trumpet 1", "01 - Song A - Trumpet 1.pdf"))

	if len(sum.Copies) != 1 || sum.Copies[0].Pages != 2 {
		t.Errorf("expected one verified copy of 2 pages, got %+v", sum.Copies)
	}
}
