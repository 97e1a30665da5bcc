// package catalog reads and validates the index file listing parts and songs.
//
// The index is JSON by default (the historical index.json format). Files ending in .yaml or .yml are decoded as YAML with the same field names.
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/pdfparts/internal/fileutil"
	"github.com/desertthunder/pdfparts/internal/models"
	"github.com/desertthunder/pdfparts/internal/shared"
	"gopkg.in/yaml.v3"
)

// Load reads the index file at path and validates it.
func Load(path string) (*models.Catalog, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", shared.ErrCatalogNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read index file: %w", err)
	}

	c, err := Decode(data, Format(path))
	if err != nil {
		return nil, err
	}

	if err := Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Format returns "yaml" for .yaml/.yml paths and "json" otherwise.
func Format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

// Decode parses an index document in the given format ("json" or "yaml").
func Decode(data []byte, format string) (*models.Catalog, error) {
	var c models.Catalog

	switch format {
	case "yaml":
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("%w: unable to read index file with message: %v", shared.ErrInvalidCatalog, err)
		}
	case "json":
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, fmt.Errorf("%w: index file is empty", shared.ErrInvalidCatalog)
		}
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("%w: unable to read index file with message: %v", shared.ErrInvalidCatalog, err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown index format %q", shared.ErrInvalidArgument, format)
	}

	return &c, nil
}

// Validate checks the invariants the indexer relies on.
//
// Display names key the output directories, so each must be a single path element and two parts may not
// share one, compared case-insensitively. Song titles are checked per song when a run reaches them.
func Validate(c *models.Catalog) error {
	if c == nil || len(c.Parts) == 0 {
		return fmt.Errorf("%w: no parts were defined in the index file", shared.ErrInvalidCatalog)
	}

	seen := make(map[string]int, len(c.Parts))
	for i, p := range c.Parts {
		if strings.TrimSpace(p.Instrument) == "" {
			return fmt.Errorf("%w: part %d has no instrument", shared.ErrInvalidCatalog, i+1)
		}

		if err := fileutil.CheckName(p.DisplayName()); err != nil {
			return fmt.Errorf("%w: part %d: %v", shared.ErrInvalidCatalog, i+1, err)
		}

		key := strings.ToLower(p.DisplayName())
		if j, ok := seen[key]; ok {
			return fmt.Errorf("%w: parts %d and %d are both named %q", shared.ErrDuplicatePart, j+1, i+1, p.DisplayName())
		}
		seen[key] = i
	}

	return nil
}
