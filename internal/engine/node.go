package engine

import "time"

// Health states a node can report.
const (
	HealthOnline   = "online"
	HealthDegraded = "degraded"
	HealthOffline  = "offline"
)

// ValidHealth reports whether h is a recognized health state.
func ValidHealth(h string) bool {
	switch h {
	case HealthOnline, HealthDegraded, HealthOffline:
		return true
	}
	return false
}

// Node is one worker in the fixed topology. Name is unique and immutable
// after registration; phase is always held in [0, 360) and amplitude in
// [0, 1] — out-of-range writes are normalized, never rejected.
type Node struct {
	Name       string    `json:"name"`
	Phase      float64   `json:"phase"`     // degrees, [0, 360)
	Amplitude  float64   `json:"amplitude"` // load share, [0, 1]
	Frequency  float64   `json:"frequency"` // Hz, informational
	Health     string    `json:"health"`
	LastUpdate time.Time `json:"last_update"`
}

// Anchor is the floating reference frame all node phases are compared
// against. It is not owned by any node; only the engine mutates it.
type Anchor struct {
	Phase                float64   `json:"phase"`
	Coherence            float64   `json:"coherence"`             // [0, 1]
	AngularMomentum      float64   `json:"angular_momentum"`      // [0, 1]
	TorqueRedistribution float64   `json:"torque_redistribution"` // amplitude borrowed in the last pass
	Timestamp            time.Time `json:"timestamp"`
}
