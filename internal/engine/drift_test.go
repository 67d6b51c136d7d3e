package engine

import (
	"testing"
	"time"
)

func TestDetectWobble_DefaultTopologySpread(t *testing.T) {
	// Four nodes at 0/90/180/270 around an anchor at 45 are maximally
	// spread; RMS deviation from the mean direction far exceeds 30.
	e := newTestEngine(t, Options{AnchorPhase: 45})

	w := e.DetectWobble()
	if !w.Detected {
		t.Errorf("wobble not detected, magnitude = %v", w.Magnitude)
	}
	if w.Magnitude <= wobbleThreshold {
		t.Errorf("magnitude = %v, want > %v", w.Magnitude, wobbleThreshold)
	}
}

func TestDetectWobble_TightCluster(t *testing.T) {
	e := newTestEngine(t, Options{AnchorPhase: 45})
	for _, n := range e.Nodes() {
		_ = e.UpdateNode(n.Name, 45, 1, HealthOnline)
	}
	w := e.DetectWobble()
	if w.Detected {
		t.Errorf("wobble detected for aligned nodes, magnitude = %v", w.Magnitude)
	}
	if len(w.Affected) != 0 {
		t.Errorf("affected = %v, want none", w.Affected)
	}
}

func TestDetectWobble_NodeFlaggedBelowSystemThreshold(t *testing.T) {
	// Eight tightly clustered nodes and one 60-degree outlier: the
	// aggregate RMS stays below 30, yet the outlier individually exceeds
	// the 45-degree per-node threshold. The two tests are independent.
	specs := make([]NodeSpec, 0, 9)
	for i := 0; i < 8; i++ {
		specs = append(specs, NodeSpec{Name: nodeName(i), Phase: 0, Amplitude: 1})
	}
	specs = append(specs, NodeSpec{Name: "outlier", Phase: 60, Amplitude: 1})

	e, err := New(specs, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	w := e.DetectWobble()
	if w.Detected {
		t.Errorf("aggregate wobble detected, magnitude = %v, want below %v",
			w.Magnitude, wobbleThreshold)
	}
	if len(w.Affected) != 1 || w.Affected[0] != "outlier" {
		t.Errorf("affected = %v, want [outlier]", w.Affected)
	}
}

func TestDetectWobble_SystemThresholdWithoutIndividuals(t *testing.T) {
	// Two pairs at ±44 degrees: every node is within the 45-degree
	// per-node threshold, but the aggregate RMS of 44 exceeds 30.
	specs := []NodeSpec{
		{Name: "a", Phase: 44, Amplitude: 1},
		{Name: "b", Phase: 316, Amplitude: 1},
		{Name: "c", Phase: 44, Amplitude: 1},
		{Name: "d", Phase: 316, Amplitude: 1},
	}
	e, err := New(specs, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	w := e.DetectWobble()
	if !w.Detected {
		t.Errorf("wobble not detected, magnitude = %v", w.Magnitude)
	}
	if !almostEqual(w.Magnitude, 44, 0.01) {
		t.Errorf("magnitude = %v, want ~44", w.Magnitude)
	}
	if len(w.Affected) != 0 {
		t.Errorf("affected = %v, want none", w.Affected)
	}
}

func nodeName(i int) string {
	return "node-" + string(rune('a'+i))
}

func TestMarkStale(t *testing.T) {
	e, err := New(DefaultTopology(4), Options{AnchorPhase: 45, StaleAfter: 90 * time.Second})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	e.now = func() time.Time { return baseTime }
	// Re-stamp every node at baseTime through the normal update path.
	for _, n := range e.Nodes() {
		_ = e.UpdateNode(n.Name, n.Phase, n.Amplitude, HealthOnline)
	}

	// One node reports again a minute later.
	e.now = func() time.Time { return baseTime.Add(time.Minute) }
	_ = e.UpdateNode("node-1", 0, 1, HealthOnline)

	// Just inside the TTL: nothing expires.
	if n := e.MarkStale(baseTime.Add(89 * time.Second)); n != 0 {
		t.Fatalf("MarkStale before TTL = %d, want 0", n)
	}

	// Past the TTL for the three silent nodes.
	if n := e.MarkStale(baseTime.Add(91 * time.Second)); n != 3 {
		t.Fatalf("MarkStale = %d, want 3", n)
	}
	rep := e.Report()
	if rep.OnlineCount != 1 {
		t.Errorf("online count = %d, want 1", rep.OnlineCount)
	}
	// The sweep observed a health change, so load was redistributed.
	if rep.Anchor.TorqueRedistribution == 0 {
		t.Error("torque redistribution = 0, want borrowed load recorded")
	}

	// Idempotent: already-offline nodes are not transitioned again.
	if n := e.MarkStale(baseTime.Add(3 * time.Minute)); n != 1 {
		t.Errorf("second MarkStale = %d, want 1 (only node-1 newly stale)", n)
	}
}

func TestMarkStale_DisabledByZeroTTL(t *testing.T) {
	e := newTestEngine(t, Options{AnchorPhase: 45})
	if n := e.MarkStale(baseTime.Add(24 * time.Hour)); n != 0 {
		t.Errorf("MarkStale with zero TTL = %d, want 0", n)
	}
}
