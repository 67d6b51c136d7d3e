package engine

import (
	"math"

	"github.com/phaselock/phaselock/internal/angle"
)

// Wobble is the result of one drift-detection pass.
type Wobble struct {
	// Detected is true when the aggregate magnitude exceeds the system
	// threshold of 30 degrees.
	Detected bool `json:"detected"`

	// Magnitude is the RMS deviation of node phases from their circular
	// mean, in degrees.
	Magnitude float64 `json:"magnitude"`

	// Affected lists nodes individually deviating more than 45 degrees
	// from the mean direction. A node can be flagged while the aggregate
	// is below threshold, and vice versa.
	Affected []string `json:"affected_nodes,omitempty"`
}

// DetectWobble measures phase spread across the topology against the
// fixed system and per-node thresholds.
func (e *Engine) DetectWobble() Wobble {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.detectWobble()
}

// detectWobble is DetectWobble without locking. Callers must hold e.mu.
func (e *Engine) detectWobble() Wobble {
	phases := make([]float64, 0, len(e.order))
	for _, name := range e.order {
		phases = append(phases, e.nodes[name].Phase)
	}
	mean := angle.Mean(phases)

	var varSum float64
	var affected []string
	for _, name := range e.order {
		d := angle.Difference(e.nodes[name].Phase, mean)
		varSum += d * d
		if math.Abs(d) > nodeDriftThreshold {
			affected = append(affected, name)
		}
	}
	magnitude := math.Sqrt(varSum / float64(len(e.order)))

	return Wobble{
		Detected:  magnitude > wobbleThreshold,
		Magnitude: magnitude,
		Affected:  affected,
	}
}
