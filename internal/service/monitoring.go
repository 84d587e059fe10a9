package service

import "thermostat_dashboard/internal/display"

type MonitoringService struct {
	state StateReader
}

func NewMonitoringService(state StateReader) *MonitoringService {
	return &MonitoringService{state: state}
}

// Snapshot returns the reconciler state with its rendered panel.
func (s *MonitoringService) Snapshot() Snapshot {
	st := s.state.State()
	st.UpdatedAt = normalizeToUTC(st.UpdatedAt)
	return Snapshot{
		ThermalState: st,
		Panel:        display.NewPanel(st.CurrentTempC, st.OutsideTempC),
	}
}
