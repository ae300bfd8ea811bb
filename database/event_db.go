package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/camden-git/camerahub/models"
)

// DefaultEventLimit bounds GetEvents queries when the caller passes no limit
const DefaultEventLimit = 100

// EventDB provides append-only access to the events table
type EventDB struct {
	DB *sql.DB
}

func NewEventDB(db *sql.DB) *EventDB {
	return &EventDB{DB: db}
}

// LogEvent appends one event with the current UTC timestamp
func (e *EventDB) LogEvent(label string, isKnown bool) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	known := 0
	if isKnown {
		known = 1
	}

	queryBuilder := psql.Insert("events").
		Columns("timestamp", "label", "is_known").
		Values(timestamp, label, known)

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build SQL query for LogEvent: %w", err)
	}

	_, err = e.DB.Exec(sqlStr, args...)
	if err != nil {
		return fmt.Errorf("failed to insert event for label '%s': %w", label, err)
	}
	return nil
}

// GetEvents returns the most recent events, newest first. Recency ties are
// broken by insertion order (higher id = more recent). A non-positive limit
// falls back to DefaultEventLimit.
func (e *EventDB) GetEvents(limit int) ([]models.DetectionEvent, error) {
	if limit <= 0 {
		limit = DefaultEventLimit
	}

	queryBuilder := psql.Select("id", "timestamp", "label", "is_known").
		From("events").
		OrderBy("id DESC").
		Limit(uint64(limit))

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL query for GetEvents: %w", err)
	}

	rows, err := e.DB.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []models.DetectionEvent
	for rows.Next() {
		var (
			event        models.DetectionEvent
			timestampStr string
			knownInt     int
		)
		if err := rows.Scan(&event.ID, &timestampStr, &event.Label, &knownInt); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, timestampStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse event timestamp '%s': %w", timestampStr, err)
		}
		event.Timestamp = ts
		event.IsKnown = knownInt != 0
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating event rows: %w", err)
	}

	return events, nil
}

// CountEvents returns the total number of logged events
func (e *EventDB) CountEvents() (int64, error) {
	queryBuilder := psql.Select("COUNT(*)").From("events")

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build SQL query for CountEvents: %w", err)
	}

	var count int64
	if err := e.DB.QueryRow(sqlStr, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}
