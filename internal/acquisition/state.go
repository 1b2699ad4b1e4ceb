package acquisition

import "time"

// StreamStatus is the lifecycle status of the live stream connection.
type StreamStatus string

const (
	StatusIdle       StreamStatus = "idle"
	StatusConnecting StreamStatus = "connecting"
	StatusOpen       StreamStatus = "open"
	StatusClosed     StreamStatus = "closed"
	StatusError      StreamStatus = "error"
)

// LiveMetrics is the scalar snapshot of the latest data frame.
type LiveMetrics struct {
	FatigueScore float64   `json:"fatigue_score"`
	Quality      float64   `json:"quality"`
	Timestamp    time.Time `json:"timestamp"`
	T0           float64   `json:"t0"`
	SFreq        float64   `json:"sfreq"`
}

// State is an immutable snapshot of the acquisition store handed to readers
// and listeners. Version grows by one on every change.
type State struct {
	Version              uint64             `json:"version"`
	SelectedElectrodes   []string           `json:"selected_electrodes"`
	LastClickedElectrode string             `json:"last_clicked_electrode"`
	SessionID            string             `json:"session_id"`
	IsRunning            bool               `json:"is_running"`
	StreamStatus         StreamStatus       `json:"stream_status"`
	LiveMetrics          *LiveMetrics       `json:"live_metrics"`
	LastAlerts           []string           `json:"last_alerts"`
	QualityByElectrode   map[string]float64 `json:"quality_by_electrode"`
}

// state is the mutable block shared by the session manager and the engine.
type state struct {
	selection Selection
	sessionID string
	running   bool
	starting  bool
	status    StreamStatus
	live      *LiveMetrics
	alerts    []string
	quality   map[string]float64
	version   uint64
}

func newState() state {
	return state{
		status:  StatusIdle,
		quality: make(map[string]float64),
	}
}

// syncQuality makes the quality key set equal to the selection: new
// electrodes start at zero, deselected ones are dropped.
func (st *state) syncQuality() {
	keep := make(map[string]struct{}, len(st.selection.ids))
	for _, id := range st.selection.ids {
		keep[id] = struct{}{}
		if _, ok := st.quality[id]; !ok {
			st.quality[id] = 0
		}
	}
	for id := range st.quality {
		if _, ok := keep[id]; !ok {
			delete(st.quality, id)
		}
	}
}

func (st *state) snapshot() State {
	quality := make(map[string]float64, len(st.quality))
	for k, v := range st.quality {
		quality[k] = v
	}
	var live *LiveMetrics
	if st.live != nil {
		cp := *st.live
		live = &cp
	}
	alerts := make([]string, len(st.alerts))
	copy(alerts, st.alerts)
	return State{
		Version:              st.version,
		SelectedElectrodes:   st.selection.IDs(),
		LastClickedElectrode: st.selection.LastClicked(),
		SessionID:            st.sessionID,
		IsRunning:            st.running,
		StreamStatus:         st.status,
		LiveMetrics:          live,
		LastAlerts:           alerts,
		QualityByElectrode:   quality,
	}
}
