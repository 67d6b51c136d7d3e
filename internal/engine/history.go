package engine

// history is a bounded FIFO of recent coherence values, newest last.
// Pushes beyond capacity evict the oldest entry. It feeds only the
// rolling average in the report and drives no control decision.
type history struct {
	capacity int
	values   []float64
}

func newHistory(capacity int) *history {
	return &history{capacity: capacity}
}

func (h *history) push(v float64) {
	if len(h.values) >= h.capacity {
		h.values = h.values[1:]
	}
	h.values = append(h.values, v)
}

func (h *history) avg() float64 {
	if len(h.values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range h.values {
		sum += v
	}
	return sum / float64(len(h.values))
}

func (h *history) snapshot() []float64 {
	out := make([]float64, len(h.values))
	copy(out, h.values)
	return out
}
