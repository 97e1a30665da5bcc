package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/desertthunder/pdfparts/internal/models"
	"github.com/desertthunder/pdfparts/internal/shared"
)

const indexJSON = `{
  "Parts": [
    { "Instrument": "Trumpet", "PartNumber": 1, "Optional": false, "Abbreviations": "Tpt1,Trp1" },
    { "Instrument": "Trumpet", "PartNumber": 2 },
    { "Instrument": "Tuba", "PartNumber": null, "Optional": true },
    { "Instrument": "Audio" }
  ],
  "Songs": [
    { "IndexNumber": "01", "Title": "Song A" },
    { "IndexNumber": "02", "Title": "Song B" }
  ]
}`

const indexYAML = `parts:
  - instrument: Trumpet
    partNumber: 1
    abbreviations: Tpt1,Trp1
  - instrument: Trumpet
    partNumber: 2
  - instrument: Tuba
    optional: true
  - instrument: Audio
songs:
  - indexNumber: "01"
    title: Song A
  - indexNumber: "02"
    title: Song B
`

func writeIndex(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write index: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		c, err := Load(writeIndex(t, "index.json", indexJSON))
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if len(c.Parts) != 4 || len(c.Songs) != 2 {
			t.Fatalf("expected 4 parts and 2 songs, got %d and %d", len(c.Parts), len(c.Songs))
		}

		names := []string{}
		for _, p := range c.Parts {
			names = append(names, p.DisplayName())
		}
		want := []string{"Trumpet 1", "Trumpet 2", "Tuba", "Audio"}
		if !reflect.DeepEqual(names, want) {
			t.Errorf("display names = %v, want %v", names, want)
		}

		if !c.Parts[2].Optional {
			t.Error("expected Tuba to be optional")
		}
		if !c.Parts[3].IsAudio() {
			t.Error("expected Audio part without number to be audio")
		}
		if c.Songs[1].IndexNumber != "02" || c.Songs[1].Title != "Song B" {
			t.Errorf("unexpected song %+v", c.Songs[1])
		}
	})

	t.Run("yaml decodes like json", func(t *testing.T) {
		fromJSON, err := Load(writeIndex(t, "index.json", indexJSON))
		if err != nil {
			t.Fatalf("Load(json) error = %v", err)
		}
		fromYAML, err := Load(writeIndex(t, "index.yml", indexYAML))
		if err != nil {
			t.Fatalf("Load(yaml) error = %v", err)
		}

		if !reflect.DeepEqual(fromJSON, fromYAML) {
			t.Errorf("yaml catalog %+v differs from json catalog %+v", fromYAML, fromJSON)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "index.json"))
		if !errors.Is(err, shared.ErrCatalogNotFound) {
			t.Errorf("expected ErrCatalogNotFound, got %v", err)
		}
	})

	tt := []struct {
		name    string
		file    string
		body    string
		wantErr error
	}{
		{name: "malformed json", file: "index.json", body: `{"parts": [`, wantErr: shared.ErrInvalidCatalog},
		{name: "empty file", file: "index.json", body: "  \n", wantErr: shared.ErrInvalidCatalog},
		{name: "malformed yaml", file: "index.yaml", body: "parts: [\n", wantErr: shared.ErrInvalidCatalog},
		{name: "no parts", file: "index.json", body: `{"parts": [], "songs": []}`, wantErr: shared.ErrInvalidCatalog},
		{name: "null document", file: "index.json", body: `null`, wantErr: shared.ErrInvalidCatalog},
		{
			name:    "duplicate display names",
			file:    "index.json",
			body:    `{"parts": [{"instrument": "Horn", "partNumber": 1}, {"instrument": "horn", "partNumber": 1}]}`,
			wantErr: shared.ErrDuplicatePart,
		},
		{
			name:    "blank instrument",
			file:    "index.json",
			body:    `{"parts": [{"instrument": " "}]}`,
			wantErr: shared.ErrInvalidCatalog,
		},
		{
			name:    "part name with a slash",
			file:    "index.json",
			body:    `{"parts": [{"instrument": "Horn/F", "partNumber": 1}]}`,
			wantErr: shared.ErrInvalidCatalog,
		},
		{
			name:    "part name with a backslash",
			file:    "index.json",
			body:    `{"parts": [{"instrument": "Horn\\F"}]}`,
			wantErr: shared.ErrInvalidCatalog,
		},
		{
			name:    "part name is a parent reference",
			file:    "index.json",
			body:    `{"parts": [{"instrument": ".."}]}`,
			wantErr: shared.ErrInvalidCatalog,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeIndex(t, tc.file, tc.body))
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Load() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestDuplicatePartIsInvalidCatalog(t *testing.T) {
	if !errors.Is(shared.ErrDuplicatePart, shared.ErrInvalidCatalog) {
		t.Error("ErrDuplicatePart should wrap ErrInvalidCatalog")
	}
}

func TestFormat(t *testing.T) {
	for path, want := range map[string]string{
		"index.json": "json",
		"index.YAML": "yaml",
		"index.yml":  "yaml",
		"index":      "json",
	} {
		if got := Format(path); got != want {
			t.Errorf("Format(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestDecodeUnknownFormat(t *testing.T) {
	if _, err := Decode([]byte("{}"), "xml"); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestValidateLeavesSongTitlesToTheRun(t *testing.T) {
	c := &models.Catalog{
		Parts: []models.Part{models.NewPart("Horn", 1, false)},
		Songs: []models.Song{{IndexNumber: "01", Title: ""}, {IndexNumber: "02", Title: "../Song B"}},
	}
	if err := Validate(c); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}
