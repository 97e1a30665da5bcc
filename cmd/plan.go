package main

import (
	"context"

	"github.com/desertthunder/pdfparts/internal/tasks"
	"github.com/desertthunder/pdfparts/internal/ui"
	"github.com/urfave/cli/v3"
)

// Plan prints how every part of every song would resolve, without touching the parts directory.
func (r *Runner) Plan(ctx context.Context, cmd *cli.Command) error {
	opts, err := r.runOptions(cmd)
	if err != nil {
		return err
	}

	ix, err := tasks.NewIndexer(opts, r.logger)
	if err != nil {
		return err
	}

	plan, err := ix.Plan(ctx)
	if err != nil {
		return err
	}

	entries := plan.Entries
	if cmd.Bool("problems") {
		entries = problems(entries)
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, cmd.Bool("pretty"))
	}

	r.writePlain("%s\n", ui.RenderPlan(r.palette, entries))
	r.writePlain("%d matched, %d missing, %d optional, %d unsupported, %d song folder(s) not found\n",
		plan.Count(tasks.PlanMatched),
		plan.Count(tasks.PlanMissing),
		plan.Count(tasks.PlanOptional),
		plan.Count(tasks.PlanUnsupported),
		plan.Count(tasks.PlanNoFolder))
	return nil
}

func problems(entries []tasks.PlanEntry) []tasks.PlanEntry {
	out := []tasks.PlanEntry{}
	for _, e := range entries {
		if e.Status == tasks.PlanMissing || e.Status == tasks.PlanUnsupported || e.Status == tasks.PlanNoFolder {
			out = append(out, e)
		}
	}
	return out
}
