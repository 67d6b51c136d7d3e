package engine

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/phaselock/phaselock/internal/angle"
)

// Fixed control parameters of the synchronization loop.
const (
	// wobbleThreshold is the aggregate drift magnitude in degrees above
	// which the topology counts as wobbling.
	wobbleThreshold = 30.0

	// nodeDriftThreshold flags an individual node as drifting. Evaluated
	// independently of the aggregate test.
	nodeDriftThreshold = 45.0

	// correctionGain is the fraction of the remaining phase error removed
	// per self-correction pass. Repeated passes converge geometrically
	// without overshoot.
	correctionGain = 0.1

	// correctionOffset is the corrective target's offset from the anchor
	// phase, in degrees — a quarter turn, inherited from the four-node
	// topology convention.
	correctionOffset = 90.0

	// redistributionGain damps each redistribution pass: only this
	// fraction of the theoretical transfer is applied per call.
	redistributionGain = 0.1
)

// DefaultHistorySize bounds the coherence history ring when Options
// does not override it.
const DefaultHistorySize = 100

// NodeSpec describes one node of the fixed topology at construction time.
type NodeSpec struct {
	Name      string
	Phase     float64 // degrees
	Amplitude float64 // [0, 1]
	Frequency float64 // Hz, informational
}

// DefaultTopology returns n nodes named node-1..node-n, evenly offset
// around the circle at full amplitude.
func DefaultTopology(n int) []NodeSpec {
	specs := make([]NodeSpec, 0, n)
	for i := 0; i < n; i++ {
		specs = append(specs, NodeSpec{
			Name:      fmt.Sprintf("node-%d", i+1),
			Phase:     float64(i) * 360 / float64(n),
			Amplitude: 1,
			Frequency: 1,
		})
	}
	return specs
}

// Options configure a new Engine beyond its topology.
type Options struct {
	// AnchorPhase is the anchor's initial phase in degrees.
	AnchorPhase float64

	// HistorySize bounds the coherence ring; 0 means DefaultHistorySize.
	HistorySize int

	// StaleAfter is how long a node may go without an update before
	// MarkStale transitions it to offline. 0 disables the sweep.
	StaleAfter time.Duration
}

// Engine owns the node table, the anchor, and the coherence history.
//
// All exported methods are safe for concurrent use. Every mutation and
// the recompute it triggers happen inside one critical section, so a
// reader never observes a node update without its coherence recompute.
type Engine struct {
	mu         sync.Mutex
	nodes      map[string]*Node
	order      []string // registration order, for deterministic snapshots
	anchor     Anchor
	history    *history
	staleAfter time.Duration
	correcting bool
	now        func() time.Time // injectable for deterministic tests
}

// New constructs an Engine with the given fixed topology. Nodes are
// registered once here and never removed; initial phases and amplitudes
// are normalized the same way UpdateNode normalizes them. The initial
// coherence is computed immediately.
func New(topology []NodeSpec, opts Options) (*Engine, error) {
	if len(topology) == 0 {
		return nil, fmt.Errorf("engine: topology must contain at least one node")
	}
	size := opts.HistorySize
	if size <= 0 {
		size = DefaultHistorySize
	}
	e := &Engine{
		nodes:      make(map[string]*Node, len(topology)),
		anchor:     Anchor{Phase: angle.Normalize(opts.AnchorPhase)},
		history:    newHistory(size),
		staleAfter: opts.StaleAfter,
		now:        time.Now,
	}
	for _, spec := range topology {
		if spec.Name == "" {
			return nil, fmt.Errorf("engine: node name must not be empty")
		}
		if _, dup := e.nodes[spec.Name]; dup {
			return nil, fmt.Errorf("engine: duplicate node %q", spec.Name)
		}
		e.nodes[spec.Name] = &Node{
			Name:       spec.Name,
			Phase:      angle.Normalize(spec.Phase),
			Amplitude:  clamp01(spec.Amplitude),
			Frequency:  spec.Frequency,
			Health:     HealthOnline,
			LastUpdate: e.now(),
		}
		e.order = append(e.order, spec.Name)
	}
	e.recompute()
	return e, nil
}

// UpdateNode applies an observed node state. Phase is normalized into
// [0, 360) and amplitude clamped to [0, 1] rather than rejected; only an
// unregistered name is an error (ErrUnknownNode). A health transition
// triggers a redistribution pass, and every update ends with a coherence
// recompute — all within one critical section.
func (e *Engine) UpdateNode(name string, phase, amplitude float64, health string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	n, ok := e.nodes[name]
	if !ok {
		return fmt.Errorf("engine: update %q: %w", name, ErrUnknownNode)
	}
	if !ValidHealth(health) {
		slog.Warn("engine: unrecognized health state, treating as offline",
			"node", name, "health", health)
		health = HealthOffline
	}

	prev := n.Health
	n.Phase = angle.Normalize(phase)
	n.Amplitude = clamp01(amplitude)
	n.Health = health
	n.LastUpdate = e.now()

	if prev != health {
		slog.Info("engine: node health changed",
			"node", name, "from", prev, "to", health)
		e.redistribute()
	}
	e.recompute()
	return nil
}

// Nodes returns a copy of all node values in registration order.
// Callers own the returned slice.
func (e *Engine) Nodes() []Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.nodesLocked()
}

func (e *Engine) nodesLocked() []Node {
	out := make([]Node, 0, len(e.order))
	for _, name := range e.order {
		out = append(out, *e.nodes[name])
	}
	return out
}

// Anchor returns the current anchor value.
func (e *Engine) Anchor() Anchor {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.anchor
}

// History returns a copy of the coherence history ring, oldest first.
func (e *Engine) History() []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.snapshot()
}

// recompute derives coherence and angular momentum from the current node
// table, stamps the anchor, and appends the coherence value to the
// history ring. Callers must hold e.mu.
func (e *Engine) recompute() {
	var devSum, onlineAmp float64
	for _, n := range e.nodes {
		devSum += math.Abs(angle.Difference(n.Phase, e.anchor.Phase))
		if n.Health == HealthOnline {
			onlineAmp += n.Amplitude
		}
	}
	total := float64(len(e.nodes))

	// Perfect alignment gives 1; the maximum possible mean deviation of
	// 180 degrees gives 0.
	coherence := 1 - devSum/total/180
	if coherence < 0 {
		coherence = 0
	}

	e.anchor.Coherence = coherence
	e.anchor.AngularMomentum = onlineAmp / total
	e.anchor.Timestamp = e.now()
	e.history.push(coherence)
}

// clamp01 restricts v to the range [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
