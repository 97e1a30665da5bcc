package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/pdfparts/internal/models"
)

// EventRepository stores the warnings and errors of a run.
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new EventRepository with the given database connection
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// CreateBatch appends events to runID in one transaction, numbering them after any already stored.
func (r *EventRepository) CreateBatch(runID string, events []models.RunEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var next int
	if err := tx.QueryRow(`SELECT COALESCE(MAX(position), 0) FROM run_events WHERE run_id = ?`, runID).Scan(&next); err != nil {
		return fmt.Errorf("failed to read event position: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO run_events (run_id, position, level, song, part, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, e := range events {
		next++
		if _, err := stmt.Exec(runID, next, string(e.Level), e.Song, e.Part, e.Message, now); err != nil {
			return fmt.Errorf("failed to insert event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit events: %w", err)
	}
	return nil
}

// ListByRun retrieves the events of runID in the order they were recorded. An optional level filters them.
func (r *EventRepository) ListByRun(runID string, level models.EventLevel) ([]models.RunEvent, error) {
	query := `SELECT level, song, part, message FROM run_events WHERE run_id = ?`
	args := []any{runID}

	if level != "" {
		query += " AND level = ?"
		args = append(args, string(level))
	}
	query += " ORDER BY position ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []models.RunEvent
	for rows.Next() {
		var (
			e   models.RunEvent
			lvl string
		)
		if err := rows.Scan(&lvl, &e.Song, &e.Part, &e.Message); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.Level = models.EventLevel(lvl)
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return events, nil
}
