package tasks

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/desertthunder/pdfparts/internal/catalog"
	"github.com/desertthunder/pdfparts/internal/fileutil"
	"github.com/desertthunder/pdfparts/internal/models"
	"github.com/desertthunder/pdfparts/internal/shared"
)

// PlanStatus is the predicted outcome for one song and part.
type PlanStatus string

const (
	PlanMatched     PlanStatus = "matched"
	PlanMissing     PlanStatus = "missing"     // required part, would be an error
	PlanOptional    PlanStatus = "optional"    // optional part without a match, skipped silently
	PlanUnsupported PlanStatus = "unsupported" // audio part, would be an error
	PlanNoFolder    PlanStatus = "no-folder"   // song folder missing, would be a warning
)

// PlanEntry is the predicted resolution of one part for one song.
type PlanEntry struct {
	Song        models.Song `json:"song"`
	Part        string      `json:"part"`
	Status      PlanStatus  `json:"status"`
	Source      string      `json:"source,omitempty"`
	Term        string      `json:"term,omitempty"`
	Destination string      `json:"destination,omitempty"`
	Reason      string      `json:"reason,omitempty"`
}

// PlanResult lists the predicted outcome of a run.
type PlanResult struct {
	Catalog *models.Catalog `json:"-"`
	Entries []PlanEntry     `json:"entries"`
}

// Count returns how many entries have status s.
func (p *PlanResult) Count(s PlanStatus) int {
	n := 0
	for _, e := range p.Entries {
		if e.Status == s {
			n++
		}
	}
	return n
}

// Plan resolves every song and part like [Indexer.Run] would, without writing anything.
func (ix *Indexer) Plan(ctx context.Context) (*PlanResult, error) {
	c, err := catalog.Load(ix.opts.IndexPath)
	if err != nil {
		return nil, err
	}
	if !fileutil.IsDir(ix.opts.SongsDir) {
		return nil, fmt.Errorf("%w: %s", shared.ErrSongRootNotFound, ix.opts.SongsDir)
	}

	plan := &PlanResult{Catalog: c}
	for _, song := range c.Songs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := fileutil.CheckName(song.Title); err != nil {
			plan.Entries = append(plan.Entries, PlanEntry{Song: song, Status: PlanNoFolder, Reason: err.Error()})
			continue
		}

		songDir := filepath.Join(ix.opts.SongsDir, song.Title)
		files, err := fileutil.ListFiles(songDir)
		if err != nil {
			plan.Entries = append(plan.Entries, PlanEntry{Song: song, Status: PlanNoFolder, Reason: err.Error()})
			continue
		}

		for _, part := range c.Parts {
			entry := PlanEntry{Song: song, Part: part.DisplayName()}

			res, err := ix.matcher.Resolve(part, files)
			switch {
			case err != nil:
				entry.Status, entry.Reason = PlanUnsupported, err.Error()
			case res.Matched():
				entry.Status = PlanMatched
				entry.Source, entry.Term = res.Path, res.Term
				entry.Destination = filepath.Join(ix.opts.PartsDir, part.DisplayName(), song.FileName(part))
			case part.Optional:
				entry.Status, entry.Reason = PlanOptional, res.Reason()
			default:
				entry.Status, entry.Reason = PlanMissing, res.Reason()
			}

			plan.Entries = append(plan.Entries, entry)
		}
	}

	return plan, nil
}
