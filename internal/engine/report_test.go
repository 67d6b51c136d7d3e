package engine

import (
	"encoding/json"
	"testing"
)

func TestSystemHealthFor(t *testing.T) {
	tests := []struct {
		online, total int
		want          string
	}{
		{4, 4, SystemOptimal},
		{3, 4, SystemDegraded},
		{2, 4, SystemDegraded},
		{1, 4, SystemCritical},
		{0, 4, SystemCritical},
		{3, 3, SystemOptimal},
		{2, 3, SystemDegraded},
		{1, 3, SystemCritical},
		{7, 7, SystemOptimal},
		{4, 7, SystemDegraded},
		{3, 7, SystemCritical},
	}
	for _, tt := range tests {
		if got := systemHealthFor(tt.online, tt.total); got != tt.want {
			t.Errorf("systemHealthFor(%d, %d) = %q, want %q",
				tt.online, tt.total, got, tt.want)
		}
	}
}

func TestReport_ConsistentSnapshot(t *testing.T) {
	e := newTestEngine(t, Options{AnchorPhase: 45})
	_ = e.UpdateNode("node-3", 180, 0.9, HealthDegraded)

	rep := e.Report()

	if rep.TotalCount != 4 || rep.OnlineCount != 3 {
		t.Errorf("counts = %d/%d, want 3/4 online", rep.OnlineCount, rep.TotalCount)
	}
	if rep.SystemHealth != SystemDegraded {
		t.Errorf("system health = %q, want degraded", rep.SystemHealth)
	}
	if rep.CoherenceScore != rep.Anchor.Coherence {
		t.Errorf("coherence score %v disagrees with anchor %v",
			rep.CoherenceScore, rep.Anchor.Coherence)
	}
	if len(rep.Nodes) != 4 {
		t.Fatalf("nodes = %d, want 4", len(rep.Nodes))
	}
	// Snapshot is a copy: mutating it must not touch engine state.
	rep.Nodes[0].Phase = 999
	if e.Nodes()[0].Phase == 999 {
		t.Error("report shares node storage with the engine")
	}
}

func TestReport_Serializable(t *testing.T) {
	e := newTestEngine(t, Options{AnchorPhase: 45})

	data, err := json.Marshal(e.Report())
	if err != nil {
		t.Fatalf("marshal report: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal report: %v", err)
	}
	for _, key := range []string{
		"anchor", "nodes", "system_health", "coherence_score",
		"wobble", "self_correction_active",
	} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("report JSON missing %q", key)
		}
	}
}
