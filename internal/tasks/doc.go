// Package tasks runs the part indexer: it sorts the PDFs of every song into one directory per part.
//
// # Core Operations
//
// [Indexer.Run] sequences a full run:
//
//  1. Load and validate the index file ([catalog.Load])
//  2. Back up the current output tree to a timestamped directory ([Backup])
//  3. Reconcile the output root so it holds exactly one directory per part ([ReconcileOutput])
//  4. Process every song: match each part's source PDF and copy it under its normalized name ([Indexer.ProcessSongs])
//
// [Indexer.Plan] performs the matching of step 4 without touching the file system.
//
// # Failure Isolation
//
// Only a missing or malformed index, an empty part list, a missing songs directory or an unusable output root abort a run.
// Everything else (a missing song folder, a part without an unambiguous source file, an audio part, a failed copy)
// becomes one [Event] in the run's [Summary] and processing continues with the next part or song.
//
// # Progress Reporting
//
// Operations accept an optional channel of [ProgressUpdate]. Updates are sent without blocking, so a slow or absent reader never stalls a run.
//
// # Concurrency
//
// With [Options.Workers] above one, songs are processed concurrently. Reconciliation always completes first,
// destination paths are unique per song and part, and per-song summaries are merged in catalog order.
package tasks
