package engine

import (
	"log/slog"

	"github.com/phaselock/phaselock/internal/angle"
)

// SelfCorrect runs one damped correction pass: if the topology is
// wobbling, every affected node is nudged a tenth of the way toward the
// corrective target (anchor phase plus a quarter turn), then coherence
// is recomputed. Repeated calls converge geometrically and never snap —
// the target is approached asymptotically.
//
// The wobble measurement that drove the pass is returned so callers can
// log or export it without a second detection.
func (e *Engine) SelfCorrect() Wobble {
	e.mu.Lock()
	defer e.mu.Unlock()

	w := e.detectWobble()
	if !w.Detected {
		e.correcting = false
		return w
	}

	target := angle.Normalize(e.anchor.Phase + correctionOffset)
	for _, name := range w.Affected {
		n := e.nodes[name]
		n.Phase = angle.Normalize(n.Phase + angle.Difference(target, n.Phase)*correctionGain)
	}
	e.correcting = len(w.Affected) > 0
	e.recompute()

	slog.Info("engine: self-correction applied",
		"magnitude", w.Magnitude,
		"affected", len(w.Affected),
		"target_phase", target,
	)
	return w
}

// SelfCorrectionActive reports whether the most recent SelfCorrect pass
// applied any nudges.
func (e *Engine) SelfCorrectionActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.correcting
}
