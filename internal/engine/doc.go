// Package engine tracks the phase state of a fixed topology of worker
// nodes and derives a coherence score from their alignment with a
// floating reference phase (the anchor).
//
// The engine owns three pieces of state: the node table, the anchor,
// and a bounded ring of recent coherence values. All mutation goes
// through exported methods guarded by one mutex, so an update and the
// coherence recompute it triggers are observed atomically by readers.
//
// Operations:
//   - UpdateNode — apply an observed node state; recomputes coherence
//   - DetectWobble — RMS phase drift across nodes vs. fixed thresholds
//   - Redistribute — shift load from degraded nodes to healthy ones
//   - SelfCorrect — damped proportional nudge of drifting nodes toward
//     the anchor's corrective target
//   - MarkStale — transition silent nodes to offline after a TTL
//   - Report — plain serializable snapshot for external collaborators
//
// Nothing in this package performs I/O or schedules work; periodic
// polling and self-correction are driven by the caller.
package engine
