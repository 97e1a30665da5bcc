package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/desertthunder/pdfparts/internal/fileutil"
	"github.com/desertthunder/pdfparts/internal/tasks"
	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"
)

// Watch runs once, then runs again after the index file or anything under the songs directory changes.
//
// Runs are spaced at least watch.interval apart; changes arriving in between are folded into one run.
// Fatal run errors are logged and watching continues, so a half-saved index file does not end the session.
func (r *Runner) Watch(ctx context.Context, cmd *cli.Command) error {
	opts, err := r.runOptions(cmd)
	if err != nil {
		return err
	}

	interval := r.config.Watch.Interval.Duration
	if cmd.IsSet("interval") {
		interval = cmd.Duration("interval")
	}

	rec, err := openRecorder(r.config.Database, r.logger)
	if err != nil {
		return err
	}
	defer rec.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := r.watchPaths(watcher, opts); err != nil {
		return err
	}

	limiter := rate.NewLimiter(rate.Every(interval), 1)
	runOnce := func() {
		result, err := r.execute(ctx, opts, rec, cmd.Bool("progress"))
		if err != nil {
			if ctx.Err() == nil {
				r.logger.Error("run failed", "error", err)
			}
			return
		}
		if err := r.report(result, cmd.String("report"), cmd.Bool("events")); err != nil {
			r.logger.Error("failed to write report", "error", err)
		}
	}

	limiter.Allow()
	runOnce()
	r.logger.Info("watching for changes", "index", opts.IndexPath, "songs", opts.SongsDir, "interval", interval)

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("stopped watching")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !r.relevant(event, opts) {
				continue
			}
			r.logger.Debug("change detected", "path", event.Name, "op", event.Op.String())

			if event.Has(fsnotify.Create) && fileutil.IsDir(event.Name) {
				if err := watcher.Add(event.Name); err != nil {
					r.logger.Warn("failed to watch directory", "path", event.Name, "error", err)
				}
			}

			if fire == nil {
				fire = time.After(limiter.Reserve().Delay())
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("watcher error", "error", err)

		case <-fire:
			fire = nil
			runOnce()
		}
	}
}

// watchPaths adds the index file's directory, the songs directory and every song folder to watcher.
func (r *Runner) watchPaths(watcher *fsnotify.Watcher, opts tasks.Options) error {
	if err := watcher.Add(filepath.Dir(opts.IndexPath)); err != nil {
		return fmt.Errorf("failed to watch index directory: %w", err)
	}

	if err := watcher.Add(opts.SongsDir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn("songs directory does not exist yet", "path", opts.SongsDir)
			return nil
		}
		return fmt.Errorf("failed to watch songs directory: %w", err)
	}

	entries, err := os.ReadDir(opts.SongsDir)
	if err != nil {
		return fmt.Errorf("failed to read songs directory: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(opts.SongsDir, e.Name())
		if err := watcher.Add(dir); err != nil {
			r.logger.Warn("failed to watch song directory", "path", dir, "error", err)
		}
	}
	return nil
}

// relevant filters watcher events down to changes a run would see.
//
// Events for the index directory only count for the index file itself. Anything under the parts
// or backup directories is output of a run and never triggers another one.
func (r *Runner) relevant(event fsnotify.Event, opts tasks.Options) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}

	name := filepath.Clean(event.Name)
	for _, out := range []string{opts.PartsDir, opts.BackupDir, filepath.Clean(opts.PartsDir) + ".lock"} {
		if out != "" && fileutil.Within(filepath.Clean(out), name) {
			return false
		}
	}

	if name == filepath.Clean(opts.IndexPath) {
		return true
	}
	return fileutil.Within(filepath.Clean(opts.SongsDir), name)
}
