// Package models defines the domain entities of the part indexer.
//
// The package contains two categories of types:
//
// 1. Catalog records: the in-memory shape of the index file
//   - [Part] : an instrument part with optional number and abbreviations
//   - [Song] : a song whose source folder holds the loosely named PDFs
//   - [Catalog] : the ordered parts and songs of one run
//   - [PartDirectory] : one entry of the part to output directory mapping
//
// 2. Persistent entities: database-backed run history
//   - [Run] : one indexing run with its outcome counters
//   - [RunEvent] : a warning or error recorded during a run
//
// [Run] implements the [Model] interface providing ID, timestamps and validation.
// The [Repository] interface defines standard CRUD operations for database access.
package models
