package tasks

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/desertthunder/pdfparts/internal/fileutil"
	"github.com/desertthunder/pdfparts/internal/models"
	"github.com/desertthunder/pdfparts/internal/shared"
	"golang.org/x/sync/errgroup"
)

// ProcessSongs copies, for every song and every mapped part, the matching source PDF into the part's directory.
//
// A missing songs root is fatal. Per song, a missing folder is a warning and the song is skipped. Per part, a required part
// without an unambiguous match, an audio part, or a failed copy is an error. Optional parts without a match are skipped silently.
func (ix *Indexer) ProcessSongs(ctx context.Context, c *models.Catalog, dirs []models.PartDirectory, progress chan<- ProgressUpdate) (Summary, error) {
	if !fileutil.IsDir(ix.opts.SongsDir) {
		return Summary{}, fmt.Errorf("%w: %s", shared.ErrSongRootNotFound, ix.opts.SongsDir)
	}

	ix.logger.Info("processing songs", "count", len(c.Songs), "workers", ix.opts.Workers)

	results := make([]Summary, len(c.Songs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.opts.Workers)
	for i, song := range c.Songs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sendProgress(progress, songUpdate(i+1, len(c.Songs), song))
			results[i] = ix.processSong(song, dirs, progress)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	var sum Summary
	for _, r := range results {
		sum.Merge(r)
	}
	return sum, nil
}

func (ix *Indexer) processSong(song models.Song, dirs []models.PartDirectory, progress chan<- ProgressUpdate) Summary {
	var sum Summary
	logger := ix.logger.With("song", song.String())
	logger.Debug("processing song")

	if err := fileutil.CheckName(song.Title); err != nil {
		msg := fmt.Sprintf("Song %s has an unusable title. Song could not be processed. %v", song.String(), err)
		logger.Warn(msg)
		sum.Warn(song.Title, "", msg)
		return sum
	}

	songDir := filepath.Join(ix.opts.SongsDir, song.Title)
	if !fileutil.IsDir(songDir) {
		msg := fmt.Sprintf("Unable to find directory %s. Song could not be processed.", songDir)
		logger.Warn(msg)
		sum.Warn(song.Title, "", msg)
		return sum
	}

	files, err := fileutil.ListFiles(songDir)
	if err != nil {
		msg := fmt.Sprintf("Unable to read directory %s. Song could not be processed. %v", songDir, err)
		logger.Warn(msg)
		sum.Warn(song.Title, "", msg)
		return sum
	}
	sum.Songs = 1

	for _, pd := range dirs {
		name := pd.Part.DisplayName()

		res, err := ix.matcher.Resolve(pd.Part, files)
		if err != nil {
			msg := fmt.Sprintf("Error copying part %s from %s. %v", name, song.Title, err)
			logger.Error(msg, "part", name)
			sum.Error(song.Title, name, msg)
			continue
		}

		if !res.Matched() {
			if pd.Part.Optional {
				continue
			}
			msg := fmt.Sprintf("Unable to load part %s for %s. %s.", name, song.Title, res.Reason())
			logger.Error(msg, "part", name)
			sum.Error(song.Title, name, msg)
			continue
		}

		cp, err := ix.copyPart(res.Path, filepath.Join(pd.Dir, song.FileName(pd.Part)))
		if err != nil {
			msg := fmt.Sprintf("Error copying part %s from %s. %v", name, song.Title, err)
			logger.Error(msg, "part", name)
			sum.Error(song.Title, name, msg)
			continue
		}

		cp.Song, cp.Part = song.Title, name
		logger.Debug("copied part", "part", name, "term", res.Term, "source", filepath.Base(res.Path))
		sendProgress(progress, copyUpdate(cp))
		sum.Copies = append(sum.Copies, cp)
	}

	return sum
}

// copyPart copies src over dst, checking the PDF and verifying the copy when configured.
func (ix *Indexer) copyPart(src, dst string) (Copy, error) {
	cp := Copy{Source: src, Destination: dst}

	if ix.opts.VerifyPDF {
		pages, err := fileutil.CheckPDF(src)
		if err != nil {
			return cp, fmt.Errorf("%w: %v", errInvalidPDF, err)
		}
		cp.Pages = pages
	}

	copyFn := fileutil.CopyFile
	if ix.opts.VerifyCopy {
		copyFn = fileutil.CopyFileVerified
	}

	n, err := copyFn(src, dst)
	if err != nil {
		return cp, err
	}
	cp.Bytes = n
	return cp, nil
}

var errInvalidPDF = errors.New("source is not a readable PDF")
