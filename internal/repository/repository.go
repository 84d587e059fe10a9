package repository

import (
	"context"
	"database/sql"
	"time"

	"thermostat_dashboard/internal/models"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

// StateRepo persists the thermostat setpoint (single row).
type StateRepo interface {
	Save(ctx context.Context, s models.ThermostatState) error
	Load(ctx context.Context) (models.ThermostatState, error)
}

// EventRepo is the append-only thermostat log.
type EventRepo interface {
	Append(ctx context.Context, e models.ThermostatEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.ThermostatEvent, error)
}

type Repository struct {
	StateRepo StateRepo
	EventRepo EventRepo
	Auth      Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		StateRepo: NewStateSQLite(db),
		EventRepo: NewEventSQLite(db),
		Auth:      NewUserRepository(db),
	}
}
