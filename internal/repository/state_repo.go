package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"thermostat_dashboard/internal/models"
)

type StateSQLite struct {
	db *sql.DB
}

func NewStateSQLite(db *sql.DB) *StateSQLite {
	return &StateSQLite{db: db}
}

const (
	thermostatStateRowID = 1

	upsertStateSQL = `
		INSERT INTO thermostat_state (id, temp_c, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			temp_c=excluded.temp_c,
			updated_at=excluded.updated_at
	`

	selectStateSQL = `
		SELECT id, temp_c, updated_at
		FROM thermostat_state WHERE id=?
	`
)

// Save upserts the thermostat_state row (id always 1). A zero UpdatedAt is
// replaced with the current time; timestamps are stored in UTC.
func (r *StateSQLite) Save(ctx context.Context, state models.ThermostatState) error {
	ts := state.UpdatedAt
	if ts.IsZero() {
		ts = time.Now()
	}

	if _, err := r.db.ExecContext(ctx, upsertStateSQL,
		thermostatStateRowID,
		state.TempC,
		ts.UTC(),
	); err != nil {
		return fmt.Errorf("save thermostat state: %w", err)
	}
	return nil
}

// Load returns the thermostat_state row, or a zero value (ID 0) when the
// thermostat was never adjusted.
func (r *StateSQLite) Load(ctx context.Context) (models.ThermostatState, error) {
	var s models.ThermostatState
	err := r.db.QueryRowContext(ctx, selectStateSQL, thermostatStateRowID).
		Scan(&s.ID, &s.TempC, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ThermostatState{}, nil
		}
		return models.ThermostatState{}, fmt.Errorf("load thermostat state: %w", err)
	}
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}
