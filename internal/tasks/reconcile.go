package tasks

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pdfparts/internal/fileutil"
	"github.com/desertthunder/pdfparts/internal/models"
	"github.com/desertthunder/pdfparts/internal/shared"
)

// ReconcileOutput makes the subdirectories of outputRoot match parts one to one.
//
// Every part gets outputRoot/<display name>, created when absent. Subdirectories that belong to no part are removed
// with their contents. Files directly inside outputRoot are left alone. The mapping is returned in catalog order.
//
// A part whose display name is not a single path element, or whose directory cannot be created, or a stale directory that cannot be removed, is recorded as an error
// in the returned [Summary]; that part is left out of the mapping and the remaining parts are still reconciled.
func ReconcileOutput(parts []models.Part, outputRoot string, logger *log.Logger, progress chan<- ProgressUpdate) ([]models.PartDirectory, Summary, error) {
	var sum Summary
	logger = orDiscard(logger)

	if len(parts) == 0 {
		return nil, sum, fmt.Errorf("%w: no parts were defined in the index file", shared.ErrInvalidCatalog)
	}

	if err := os.MkdirAll(outputRoot, 0o755); err != nil {
		return nil, sum, fmt.Errorf("failed to create parts directory: %w", err)
	}

	entries, err := os.ReadDir(outputRoot)
	if err != nil {
		return nil, sum, fmt.Errorf("failed to read parts directory: %w", err)
	}

	var stale []string
	for _, e := range entries {
		if e.IsDir() {
			stale = append(stale, e.Name())
		}
	}
	logger.Info("initializing output directory", "path", outputRoot, "existing", len(stale))

	dirs := make([]models.PartDirectory, 0, len(parts))
	for i, part := range parts {
		name := part.DisplayName()
		dir := filepath.Join(outputRoot, name)
		sendProgress(progress, reconcileUpdate(i+1, len(parts), name))

		if err := fileutil.CheckName(name); err != nil {
			msg := fmt.Sprintf("Unable to create a directory for part %s. %v", name, err)
			logger.Error(msg)
			sum.Error("", name, msg)
			continue
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			msg := fmt.Sprintf("Unable to create directory %s for part %s. %v", dir, name, err)
			logger.Error(msg)
			sum.Error("", name, msg)
			continue
		}

		stale = keepStale(stale, outputRoot, name, dir)
		dirs = append(dirs, models.PartDirectory{Part: part, Dir: dir})
	}

	for _, name := range stale {
		path := filepath.Join(outputRoot, name)
		logger.Debug("removing stale part directory", "path", path)

		if err := os.RemoveAll(path); err != nil {
			msg := fmt.Sprintf("Unable to remove directory %s. %v", path, err)
			logger.Error(msg)
			sum.Error("", "", msg)
		}
	}

	return dirs, sum, nil
}

// keepStale drops from stale the entry that is the part directory dir.
//
// Names equal up to case only count when they resolve to the same directory, which happens on case-insensitive file systems.
// Elsewhere a differently cased directory is a leftover and stays stale.
func keepStale(stale []string, root, name, dir string) []string {
	out := stale[:0]
	for _, s := range stale {
		if s == name || (strings.EqualFold(s, name) && sameDir(filepath.Join(root, s), dir)) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func sameDir(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}
