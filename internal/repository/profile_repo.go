package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pumpbank/internal/models"
)

type ProfileSQLite struct {
	db *sql.DB
}

func NewProfileSQLite(db *sql.DB) *ProfileSQLite {
	return &ProfileSQLite{db: db}
}

// The profile is one whole record at a fixed row id; saving overwrites every
// field in a single statement so partial updates cannot exist.
const (
	profileRowID = 1

	upsertProfileSQL = `
		INSERT INTO pump_profile (id, active_cycles, overflows, cycle_time_ms, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			active_cycles=excluded.active_cycles,
			overflows=excluded.overflows,
			cycle_time_ms=excluded.cycle_time_ms,
			updated_at=excluded.updated_at
	`

	selectProfileSQL = `
		SELECT active_cycles, overflows, cycle_time_ms, updated_at
		FROM pump_profile WHERE id=?
	`
)

// Save writes the whole record into the pump_profile row (id always 1).
func (r *ProfileSQLite) Save(ctx context.Context, rec models.ConfigRecord) error {
	// ensure UpdatedAt is always persisted as UTC; set if zero
	tsUTC := rec.UpdatedAt
	if tsUTC.IsZero() {
		tsUTC = time.Now().UTC()
	} else {
		tsUTC = tsUTC.UTC()
	}

	_, err := r.db.ExecContext(ctx, upsertProfileSQL,
		profileRowID,
		rec.ActiveCycles,
		rec.Overflows,
		rec.CycleTimeMs,
		tsUTC,
	)
	return err
}

// Load fetches the single pump_profile row. found is false when the bank
// has never checkpointed.
func (r *ProfileSQLite) Load(ctx context.Context) (models.ConfigRecord, bool, error) {
	row := r.db.QueryRowContext(ctx, selectProfileSQL, profileRowID)

	var rec models.ConfigRecord
	if err := row.Scan(
		&rec.ActiveCycles,
		&rec.Overflows,
		&rec.CycleTimeMs,
		&rec.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ConfigRecord{}, false, nil
		}
		return models.ConfigRecord{}, false, err
	}
	rec.UpdatedAt = rec.UpdatedAt.UTC()

	return rec, true, nil
}
