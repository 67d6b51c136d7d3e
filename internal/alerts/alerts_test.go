package alerts

import (
	"testing"
	"time"

	"github.com/phaselock/phaselock/internal/config"
	"github.com/phaselock/phaselock/internal/engine"
)

var baseTime = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// report builds a minimal engine report with the given coherence and
// wobble magnitude.
func report(coherence, magnitude float64) engine.Report {
	return engine.Report{
		Anchor:         engine.Anchor{Coherence: coherence, AngularMomentum: 0.5},
		SystemHealth:   engine.SystemDegraded,
		CoherenceScore: coherence,
		Wobble:         engine.Wobble{Detected: magnitude > 30, Magnitude: magnitude},
		OnlineCount:    2,
		TotalCount:     4,
	}
}

func TestEvalCondition(t *testing.T) {
	rep := report(0.42, 55)

	tests := []struct {
		cond      string
		wantFires bool
		wantValue float64
	}{
		{"coherence < 0.5", true, 0.42},
		{"coherence > 0.5", false, 0.42},
		{"wobble_magnitude > 30", true, 55},
		{"wobble_magnitude >= 55", true, 55},
		{"online_nodes < 3", true, 2},
		{"online_nodes <= 1", false, 2},
		{"angular_momentum == 0.5", true, 0.5},
		{"health == degraded", true, 0},
		{"health == critical", false, 0},
		{"health < degraded", false, 0},       // only == on health
		{"nonsense_field > 1", false, 0},      // unknown field never fires
		{"coherence <", false, 0},             // malformed expression
		{"coherence < notanumber", false, 0},  // unparseable threshold
	}
	for _, tt := range tests {
		t.Run(tt.cond, func(t *testing.T) {
			fires, value := evalCondition(tt.cond, rep)
			if fires != tt.wantFires {
				t.Errorf("fires = %v, want %v", fires, tt.wantFires)
			}
			if value != tt.wantValue {
				t.Errorf("value = %v, want %v", value, tt.wantValue)
			}
		})
	}
}

func TestEvaluate_FireAndResolve(t *testing.T) {
	e := New(config.AlertsConfig{
		Rules: []config.AlertRule{{
			Name:      "low-coherence",
			Condition: "coherence < 0.5",
			Severity:  "critical",
			Cooldown:  time.Minute,
		}},
	})
	e.now = func() time.Time { return baseTime }

	e.Evaluate(report(0.3, 10))

	active := e.Active()
	if len(active) != 1 {
		t.Fatalf("active = %d, want 1", len(active))
	}
	if a := active[0]; a.State != "firing" || a.RuleName != "low-coherence" || a.Value != 0.3 {
		t.Errorf("alert = %+v", a)
	}

	// Condition clears: the alert resolves and moves to recent history.
	e.now = func() time.Time { return baseTime.Add(10 * time.Second) }
	e.Evaluate(report(0.9, 10))

	active = e.Active()
	if len(active) != 1 {
		t.Fatalf("after resolve: active = %d, want 1 recently-resolved entry", len(active))
	}
	if a := active[0]; a.State != "resolved" || a.ResolvedAt == nil {
		t.Errorf("resolved alert = %+v", a)
	}
}

func TestEvaluate_CooldownSuppressesRefires(t *testing.T) {
	e := New(config.AlertsConfig{
		Rules: []config.AlertRule{{
			Name:      "wobbling",
			Condition: "wobble_magnitude > 30",
			Cooldown:  time.Minute,
		}},
	})
	e.now = func() time.Time { return baseTime }
	e.Evaluate(report(0.9, 80))

	first := e.Active()
	if len(first) != 1 {
		t.Fatalf("active = %d, want 1", len(first))
	}

	// Still firing 30s later — within cooldown, no second alert.
	e.now = func() time.Time { return baseTime.Add(30 * time.Second) }
	e.Evaluate(report(0.9, 80))
	if active := e.Active(); len(active) != 1 || !active[0].FiredAt.Equal(baseTime) {
		t.Errorf("cooldown violated: %+v", active)
	}

	// Past the cooldown the rule may fire again.
	e.now = func() time.Time { return baseTime.Add(2 * time.Minute) }
	e.Evaluate(report(0.9, 80))
	if active := e.Active(); len(active) != 1 || !active[0].FiredAt.Equal(baseTime.Add(2*time.Minute)) {
		t.Errorf("expected refire after cooldown: %+v", active)
	}
}

func TestEvaluate_NoRulesIsNoOp(t *testing.T) {
	e := New(config.AlertsConfig{})
	e.Evaluate(report(0, 100))
	if active := e.Active(); len(active) != 0 {
		t.Errorf("active = %v, want none", active)
	}
}

func TestSetRules_SwapsRuleSet(t *testing.T) {
	e := New(config.AlertsConfig{})
	e.now = func() time.Time { return baseTime }

	e.SetRules(config.AlertsConfig{
		Rules: []config.AlertRule{{Name: "critical-health", Condition: "health == degraded"}},
	})
	e.Evaluate(report(0.9, 0))
	if active := e.Active(); len(active) != 1 {
		t.Errorf("active = %d, want 1 after rule swap", len(active))
	}
}
