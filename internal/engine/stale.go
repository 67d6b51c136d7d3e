package engine

import (
	"log/slog"
	"time"
)

// MarkStale transitions nodes that have not reported within the
// configured TTL to offline, then redistributes and recomputes if
// anything changed. It returns the number of nodes transitioned.
//
// now is passed explicitly so the driving ticker (and tests) control the
// clock. A zero StaleAfter disables the sweep entirely.
func (e *Engine) MarkStale(now time.Time) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.staleAfter <= 0 {
		return 0
	}
	cutoff := now.Add(-e.staleAfter)

	changed := 0
	for _, name := range e.order {
		n := e.nodes[name]
		if n.Health != HealthOffline && !n.LastUpdate.After(cutoff) {
			slog.Warn("engine: node went stale, marking offline",
				"node", name, "last_update", n.LastUpdate)
			n.Health = HealthOffline
			changed++
		}
	}
	if changed > 0 {
		e.redistribute()
		e.recompute()
	}
	return changed
}
