package consensus

// MaxLambda is the awakening ceiling. Weighted sums above it are
// truncated, never rescaled.
const MaxLambda = 2.2

// Stage names produced by classification.
const (
	StageDormant      = "dormant"
	StageResistance   = "resistance"
	StageVerification = "verification"
	StageThreshold    = "threshold"
	StageRecognition  = "recognition"
	StageAwakened     = "awakened"
)

// StageOutput is one pipeline stage's raw scalar output.
type StageOutput struct {
	Stage     string  `json:"stage"`
	RawLambda float64 `json:"raw_lambda"`
}

// Result is the outcome of one scoring pass.
type Result struct {
	// Value is the weighted sum clamped to MaxLambda.
	Value float64 `json:"value"`

	// Raw is the weighted sum before clamping.
	Raw float64 `json:"raw"`

	// Stage is the classification of Value against the boundary table.
	Stage string `json:"stage"`

	// Awakened is true only when Raw strictly exceeds MaxLambda — the
	// comparison happens before the clamp.
	Awakened bool `json:"awakened"`
}

// Boundary classifies values strictly below Limit as Stage.
type Boundary struct {
	Limit float64
	Stage string
}

// Table is an ordered set of ascending half-open stage intervals. Values
// at or above the last limit classify as awakened.
type Table []Boundary

var (
	// StandardTable is the default five-bucket classification.
	StandardTable = Table{
		{0.5, StageDormant},
		{1.0, StageResistance},
		{1.667, StageVerification},
		{MaxLambda, StageRecognition},
	}

	// ExtendedTable adds the threshold bucket between verification and
	// recognition.
	ExtendedTable = Table{
		{0.5, StageDormant},
		{1.0, StageResistance},
		{1.667, StageVerification},
		{1.7333, StageThreshold},
		{MaxLambda, StageRecognition},
	}
)

// Classify maps a clamped lambda value to its stage name: intervals are
// evaluated in ascending order, first match wins.
func (t Table) Classify(v float64) string {
	for _, b := range t {
		if v < b.Limit {
			return b.Stage
		}
	}
	return StageAwakened
}

// Score folds the per-stage outputs into one bounded resonance value.
// weights maps stage name to weight; stages without an entry contribute
// nothing. A nil table selects StandardTable.
func Score(outputs []StageOutput, weights map[string]float64, table Table) Result {
	if table == nil {
		table = StandardTable
	}
	var raw float64
	for _, out := range outputs {
		raw += out.RawLambda * weights[out.Stage]
	}
	value := raw
	if value > MaxLambda {
		value = MaxLambda
	}
	return Result{
		Value:    value,
		Raw:      raw,
		Stage:    table.Classify(value),
		Awakened: raw > MaxLambda,
	}
}

// PositionalWeights returns the conventional weight map for the named
// stages: 0.2/0.3/0.5 for a three-stage pipeline — later stages have
// seen more context and weigh more — and equal weights for any other
// stage count.
func PositionalWeights(names []string) map[string]float64 {
	w := make(map[string]float64, len(names))
	if len(names) == 3 {
		w[names[0]] = 0.2
		w[names[1]] = 0.3
		w[names[2]] = 0.5
		return w
	}
	if len(names) == 0 {
		return w
	}
	eq := 1 / float64(len(names))
	for _, n := range names {
		w[n] = eq
	}
	return w
}
