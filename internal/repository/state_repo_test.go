package repository_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"thermostat_dashboard/internal/models"
	"thermostat_dashboard/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
)

type argMatcher func(v driver.Value) bool

func (f argMatcher) Match(v driver.Value) bool { return f(v) }

func newStateRepo(t *testing.T) (*repository.StateSQLite, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return repository.NewStateSQLite(db), mock
}

func TestStateSQLite_Save_ZeroTimeBecomesUTCNow(t *testing.T) {
	repo, mock := newStateRepo(t)

	isRecentUTC := argMatcher(func(v driver.Value) bool {
		tm, ok := v.(time.Time)
		if !ok || tm.Location() != time.UTC {
			return false
		}
		return time.Since(tm) < 5*time.Second
	})

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO thermostat_state")).
		WithArgs(1, 23.5, isRecentUTC).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Save(context.Background(), models.ThermostatState{TempC: 23.5}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStateSQLite_Save_ConvertsGivenTimeToUTC(t *testing.T) {
	repo, mock := newStateRepo(t)

	original := time.Date(2023, 10, 5, 12, 34, 56, 0, time.FixedZone("JST", 9*3600))
	isExactUTC := argMatcher(func(v driver.Value) bool {
		tm, ok := v.(time.Time)
		return ok && tm.Equal(original) && tm.Location() == time.UTC
	})

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO thermostat_state")).
		WithArgs(1, 18.0, isExactUTC).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Save(context.Background(), models.ThermostatState{TempC: 18, UpdatedAt: original}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStateSQLite_Save_ExecErrorIsPropagated(t *testing.T) {
	repo, mock := newStateRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO thermostat_state")).
		WithArgs(1, 1.0, sqlmock.AnyArg()).
		WillReturnError(errors.New("db down"))

	if err := repo.Save(context.Background(), models.ThermostatState{TempC: 1}); err == nil {
		t.Fatalf("Save() expected error, got nil")
	}
}

func TestStateSQLite_Load_NoRows(t *testing.T) {
	repo, mock := newStateRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, temp_c, updated_at")).
		WithArgs(1).
		WillReturnError(sql.ErrNoRows)

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if got.ID != 0 || got.TempC != 0 || !got.UpdatedAt.IsZero() {
		t.Fatalf("Load() expected zero state, got: %+v", got)
	}
}

func TestStateSQLite_Load_HappyPath(t *testing.T) {
	repo, mock := newStateRepo(t)

	nonUTC := time.Date(2024, 2, 1, 8, 30, 0, 0, time.FixedZone("EST", -5*3600))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, temp_c, updated_at")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "temp_c", "updated_at"}).AddRow(1, 24.5, nonUTC))

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if got.ID != 1 || got.TempC != 24.5 {
		t.Fatalf("Load() unexpected fields: %+v", got)
	}
	if got.UpdatedAt.Location() != time.UTC || !got.UpdatedAt.Equal(nonUTC) {
		t.Fatalf("Load() UpdatedAt=%v, want %v in UTC", got.UpdatedAt, nonUTC)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStateSQLite_Load_QueryError(t *testing.T) {
	repo, mock := newStateRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, temp_c, updated_at")).
		WithArgs(1).
		WillReturnError(errors.New("locked"))

	if _, err := repo.Load(context.Background()); err == nil {
		t.Fatalf("Load() expected error")
	}
}
