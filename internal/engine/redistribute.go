package engine

import "log/slog"

// Redistribute shifts amplitude from non-online nodes to online ones and
// recomputes coherence. With every node online it is a no-op that clears
// the anchor's torque figure. The transfer is damped: each call applies
// only a tenth of the even split, so repeated passes cannot overshoot.
func (e *Engine) Redistribute() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.redistribute()
	e.recompute()
}

// redistribute is Redistribute without locking or the trailing
// recompute. Callers must hold e.mu.
func (e *Engine) redistribute() {
	var online []*Node
	var degradedLoad float64
	for _, name := range e.order {
		n := e.nodes[name]
		if n.Health == HealthOnline {
			online = append(online, n)
		} else {
			degradedLoad += n.Amplitude
		}
	}

	if len(online) == len(e.nodes) {
		e.anchor.TorqueRedistribution = 0
		return
	}

	// Zero online nodes: nowhere to shift load, but the borrowed total is
	// still recorded. Defined as a no-op rather than a division by zero.
	if len(online) > 0 {
		perNode := degradedLoad / float64(len(online))
		for _, n := range online {
			n.Amplitude = clamp01(n.Amplitude + perNode*redistributionGain)
		}
	}
	e.anchor.TorqueRedistribution = degradedLoad

	slog.Debug("engine: redistributed load",
		"degraded_load", degradedLoad,
		"online_nodes", len(online),
	)
}
