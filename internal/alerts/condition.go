package alerts

import (
	"strconv"
	"strings"

	"github.com/phaselock/phaselock/internal/engine"
)

// evalCondition evaluates a rule condition string against a report.
//
// Supported expressions (field operator value):
//
//	coherence < 0.5
//	coherence_avg < 0.6
//	angular_momentum < 0.25
//	torque > 0.5
//	wobble_magnitude > 30
//	online_nodes < 2
//	health == critical
//	health == degraded
//
// Returns (fires bool, triggering value float64).
// Returns (false, 0) if the expression cannot be parsed or the field is
// unknown.
func evalCondition(cond string, rep engine.Report) (bool, float64) {
	parts := strings.Fields(cond)
	if len(parts) != 3 {
		return false, 0
	}
	field, op, rhs := parts[0], parts[1], parts[2]

	if field == "health" {
		if op == "==" {
			return rep.SystemHealth == rhs, 0
		}
		return false, 0
	}

	v, ok := numericField(field, rep)
	if !ok {
		return false, 0
	}
	threshold, err := strconv.ParseFloat(rhs, 64)
	if err != nil {
		return false, 0
	}
	return compareFloat(v, op, threshold), v
}

// numericField maps a field name to its value in the report.
func numericField(field string, rep engine.Report) (float64, bool) {
	switch field {
	case "coherence":
		return rep.CoherenceScore, true
	case "coherence_avg":
		return rep.CoherenceAvg, true
	case "angular_momentum":
		return rep.Anchor.AngularMomentum, true
	case "torque":
		return rep.Anchor.TorqueRedistribution, true
	case "wobble_magnitude":
		return rep.Wobble.Magnitude, true
	case "online_nodes":
		return float64(rep.OnlineCount), true
	default:
		return 0, false
	}
}

// compareFloat applies a comparison operator to two float64 values.
func compareFloat(v float64, op string, threshold float64) bool {
	switch op {
	case ">":
		return v > threshold
	case ">=":
		return v >= threshold
	case "<":
		return v < threshold
	case "<=":
		return v <= threshold
	case "==":
		return v == threshold
	default:
		return false
	}
}
