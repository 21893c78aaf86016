package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"pumpbank/internal/models"

	"github.com/google/uuid"
)

// Event timestamps are stored in SQLite's TIMESTAMP text form.
const eventTimeLayout = "2006-01-02 15:04:05"

const (
	insertEventSQL = `
		INSERT INTO pump_events (id, occurred_at, type, message, meta)
		VALUES (?, ?, ?, ?, ?)
	`

	selectEventsSQL = `SELECT id, occurred_at, type, message, meta FROM pump_events`
)

type EventSQLite struct {
	db *sql.DB
}

func NewEventSQLite(db *sql.DB) *EventSQLite { return &EventSQLite{db: db} }

var _ EventRepo = (*EventSQLite)(nil)

// Append writes one event row. A missing EventID gets a fresh UUID, a zero
// OccurredAt becomes now; timestamps are stored as UTC.
func (r *EventSQLite) Append(ctx context.Context, e models.PumpEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}

	var meta *string
	if e.Metadata != nil {
		if b, err := json.Marshal(e.Metadata); err == nil {
			s := string(b)
			meta = &s
		}
	}

	_, err := r.db.ExecContext(ctx, insertEventSQL,
		e.EventID,
		e.OccurredAt.UTC().Format(eventTimeLayout),
		normalizeType(e.Type),
		e.Description,
		meta,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// List returns events inside the inclusive [from, to] range, optionally
// restricted to one type, oldest first. Zero bounds leave that end open.
func (r *EventSQLite) List(ctx context.Context, from, to time.Time, typ string) ([]models.PumpEvent, error) {
	var (
		conds []string
		args  []any
	)
	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, to.UTC())
	}
	if typ = normalizeType(typ); typ != "" {
		conds = append(conds, "type = ?")
		args = append(args, typ)
	}

	q := selectEventsSQL
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY occurred_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}
	defer rows.Close()

	out := make([]models.PumpEvent, 0, 16)
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanEvent(rows *sql.Rows) (models.PumpEvent, error) {
	var (
		ev   models.PumpEvent
		meta sql.NullString
	)
	if err := rows.Scan(&ev.EventID, &ev.OccurredAt, &ev.Type, &ev.Description, &meta); err != nil {
		return models.PumpEvent{}, fmt.Errorf("scan event: %w", err)
	}
	ev.OccurredAt = ev.OccurredAt.UTC()

	if meta.Valid && meta.String != "" {
		var v any
		if err := json.Unmarshal([]byte(meta.String), &v); err == nil {
			ev.Metadata = v
		} else {
			// Malformed metadata stays visible as the raw string.
			ev.Metadata = meta.String
		}
	}
	return ev, nil
}

func normalizeType(t string) string {
	return strings.ToUpper(strings.TrimSpace(t))
}
