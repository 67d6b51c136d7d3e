package engine

// Aggregate system health levels derived from the online node count.
const (
	SystemOptimal  = "optimal"
	SystemDegraded = "degraded"
	SystemCritical = "critical"
)

// Report is a plain, serializable snapshot of engine state. Collaborators
// persist or transmit it without coupling to internal representation.
type Report struct {
	Anchor               Anchor  `json:"anchor"`
	Nodes                []Node  `json:"nodes"`
	SystemHealth         string  `json:"system_health"`
	CoherenceScore       float64 `json:"coherence_score"`
	CoherenceAvg         float64 `json:"coherence_avg"` // rolling mean of the history ring
	Wobble               Wobble  `json:"wobble"`
	SelfCorrectionActive bool    `json:"self_correction_active"`
	OnlineCount          int     `json:"online_count"`
	TotalCount           int     `json:"total_count"`
}

// Report assembles the full snapshot in one critical section, so the
// node table, anchor, and wobble measurement are mutually consistent.
func (e *Engine) Report() Report {
	e.mu.Lock()
	defer e.mu.Unlock()

	online := 0
	for _, n := range e.nodes {
		if n.Health == HealthOnline {
			online++
		}
	}
	return Report{
		Anchor:               e.anchor,
		Nodes:                e.nodesLocked(),
		SystemHealth:         systemHealthFor(online, len(e.nodes)),
		CoherenceScore:       e.anchor.Coherence,
		CoherenceAvg:         e.history.avg(),
		Wobble:               e.detectWobble(),
		SelfCorrectionActive: e.correcting,
		OnlineCount:          online,
		TotalCount:           len(e.nodes),
	}
}

// systemHealthFor derives the aggregate health level from the online
// count, parameterized by topology size: all nodes online is optimal,
// at least half is degraded, fewer is critical.
func systemHealthFor(online, total int) string {
	switch {
	case online == total:
		return SystemOptimal
	case online*2 >= total:
		return SystemDegraded
	default:
		return SystemCritical
	}
}
