package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"thermostat_dashboard/internal/models"
	"thermostat_dashboard/internal/repository"
)

// EventLogService reads the append-only thermostat event log.
type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

// ErrInvalidFilter wraps every rejected LogFilter.
var ErrInvalidFilter = errors.New("invalid log filter")

var eventTypes = []string{
	models.EventAdjust,
	models.EventCooling,
	models.EventHeating,
	models.EventSyncing,
	models.EventPress,
	models.EventError,
	models.EventTelemetry,
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

func knownEventType(typ string) bool {
	for _, t := range eventTypes {
		if t == typ {
			return true
		}
	}
	return false
}

// normalize returns f with UTC bounds and an uppercased type, or an
// ErrInvalidFilter error.
func (f LogFilter) normalize() (LogFilter, error) {
	f.From, f.To = normalizeToUTC(f.From), normalizeToUTC(f.To)
	f.Type = strings.ToUpper(strings.TrimSpace(f.Type))

	switch {
	case !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To):
		return f, fmt.Errorf("%w: from %s is after to %s", ErrInvalidFilter, f.From.Format(time.RFC3339), f.To.Format(time.RFC3339))
	case f.Type != "" && !knownEventType(f.Type):
		return f, fmt.Errorf("%w: unknown type %q, want one of %s", ErrInvalidFilter, f.Type, strings.Join(eventTypes, ", "))
	case f.Limit < 0:
		return f, fmt.Errorf("%w: negative limit %d", ErrInvalidFilter, f.Limit)
	}
	return f, nil
}

// List returns matching events oldest first. With a Limit only the newest
// Limit events are kept.
func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.ThermostatEvent, error) {
	f, err := f.normalize()
	if err != nil {
		return nil, err
	}
	events, err := s.eventRepo.List(ctx, f.From, f.To, f.Type)
	if err != nil {
		return nil, err
	}
	if f.Limit > 0 && len(events) > f.Limit {
		events = events[len(events)-f.Limit:]
	}
	return events, nil
}

// IsFilterError reports whether err comes from an invalid LogFilter.
func IsFilterError(err error) bool {
	return errors.Is(err, ErrInvalidFilter)
}
