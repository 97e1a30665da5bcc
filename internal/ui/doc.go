// Package ui renders run output for the terminal.
//
// A [Palette] colors the end-of-run summary (green when a run finished without errors, yellow warning count, red error count)
// and falls back to plain text when the output is not a terminal. [RenderPlan] and [RenderRuns] draw the plan and history listings.
package ui
