// package tasks implements the part indexer.
//
// The core abstraction is Indexer, which loads the index, prepares the output tree and copies each song's part files.
// Operations emit progress updates via channels for non-blocking status reporting to the CLI layer.
package tasks

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pdfparts/internal/catalog"
	"github.com/desertthunder/pdfparts/internal/fileutil"
	"github.com/desertthunder/pdfparts/internal/matcher"
	"github.com/desertthunder/pdfparts/internal/models"
	"github.com/desertthunder/pdfparts/internal/shared"
)

// Options configures an [Indexer].
type Options struct {
	IndexPath  string   // Index file (JSON or YAML)
	BackupDir  string   // Root for timestamped backups; empty disables backups
	PartsDir   string   // Output root holding one directory per part
	SongsDir   string   // Source root holding one directory per song title
	Workers    int      // Songs processed concurrently (default: 1)
	VerifyCopy bool     // Verify copies by size and SHA-256
	VerifyPDF  bool     // Reject sources that do not open as PDF
	Ignore     []string // Doublestar patterns of source file names to skip
}

// OptionsFromConfig maps the [shared.Config] sections a run needs.
func OptionsFromConfig(c *shared.Config) Options {
	return Options{
		IndexPath:  c.Paths.Index,
		BackupDir:  c.Paths.Backup,
		PartsDir:   c.Paths.Parts,
		SongsDir:   c.Paths.Songs,
		Workers:    c.Run.Workers,
		VerifyCopy: c.Run.VerifyCopy,
		VerifyPDF:  c.Run.VerifyPDF,
		Ignore:     c.Run.Ignore,
	}
}

// RunResult contains all data from a full run.
type RunResult struct {
	Catalog     *models.Catalog        // Index used for the run
	Directories []models.PartDirectory // Part to output directory mapping
	BackupPath  string                 // Backup taken before reconciliation, if any
	Summary     Summary                // Events and copies of every step
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Duration is the wall time of the run.
func (r *RunResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Indexer sorts song PDFs into per-part directories.
type Indexer struct {
	opts    Options
	logger  *log.Logger
	matcher *matcher.Matcher
	now     func() time.Time
}

// NewIndexer creates an Indexer. A nil logger discards log output.
func NewIndexer(opts Options, logger *log.Logger) (*Indexer, error) {
	if opts.IndexPath == "" || opts.PartsDir == "" || opts.SongsDir == "" {
		return nil, fmt.Errorf("%w: index, parts and songs paths are required", shared.ErrInvalidConfig)
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}

	m, err := matcher.New(opts.Ignore...)
	if err != nil {
		return nil, err
	}

	return &Indexer{
		opts:    opts,
		logger:  orDiscard(logger),
		matcher: m,
		now:     time.Now,
	}, nil
}

// Options returns the options in effect.
func (ix *Indexer) Options() Options {
	return ix.opts
}

// Run performs a full run: load the index, back up, reconcile the output tree, process songs.
//
// The returned error is non-nil only for fatal failures; everything recoverable is in [RunResult.Summary].
func (ix *Indexer) Run(ctx context.Context, progress chan<- ProgressUpdate) (*RunResult, error) {
	result := &RunResult{StartedAt: ix.now()}

	sendProgress(progress, loadCatalogUpdate(ix.opts.IndexPath))
	c, err := catalog.Load(ix.opts.IndexPath)
	if err != nil {
		return nil, err
	}
	result.Catalog = c
	ix.logger.Info("loaded index file", "parts", len(c.Parts), "songs", len(c.Songs))

	if !fileutil.IsDir(ix.opts.SongsDir) {
		return nil, fmt.Errorf("%w: %s", shared.ErrSongRootNotFound, ix.opts.SongsDir)
	}

	if ix.opts.BackupDir != "" {
		sendProgress(progress, backupUpdate(ix.opts.BackupDir))
		ix.logger.Debug("backing up existing output", "dest", ix.opts.BackupDir)

		path, err := Backup(ix.opts.PartsDir, ix.opts.BackupDir, ix.now())
		if err != nil {
			msg := fmt.Sprintf("Backup failed. %v", err)
			ix.logger.Warn(msg)
			result.Summary.Warn("", "", msg)
		} else if path != "" {
			ix.logger.Info("backed up output", "path", path)
		}
		result.BackupPath = path
	}

	dirs, sum, err := ReconcileOutput(c.Parts, ix.opts.PartsDir, ix.logger, progress)
	if err != nil {
		return nil, err
	}
	result.Directories = dirs
	result.Summary.Merge(sum)

	sum, err = ix.ProcessSongs(ctx, c, dirs, progress)
	if err != nil {
		return nil, err
	}
	result.Summary.Merge(sum)

	result.FinishedAt = ix.now()
	sendProgress(progress, doneUpdate(result.Summary))
	return result, nil
}

func orDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return log.New(io.Discard)
	}
	return l
}
