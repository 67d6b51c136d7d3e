package poller

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/phaselock/phaselock/internal/engine"
)

const defaultPollTimeout = 10 * time.Second

// Gauge names nodes are expected to expose.
const (
	// Current phase of the node's work cycle, degrees.
	metricPhase = "phaselock_node_phase_degrees"

	// Current signal strength / load share, [0, 1].
	metricAmplitude = "phaselock_node_amplitude"

	// Nominal work frequency, Hz. Informational.
	metricFrequency = "phaselock_node_frequency_hz"

	// Non-zero when the node considers itself degraded.
	metricDegraded = "phaselock_node_degraded"
)

// Sample is the normalized result of polling one node endpoint. A failed
// scrape yields Health offline and a non-nil Err; the remaining fields
// are then zero and must not be applied to the engine.
type Sample struct {
	Node      string
	Phase     float64
	Amplitude float64
	Frequency float64
	Health    string
	Err       error
}

// Target names one node endpoint to poll.
type Target struct {
	Node     string
	Endpoint string
}

// Poller fetches node gauges over HTTP. The client is built once and
// reused across poll cycles.
type Poller struct {
	targets []Target
	client  *http.Client
}

// New creates a Poller for the given targets. timeout bounds one scrape
// request; 0 selects the default.
func New(targets []Target, timeout time.Duration) *Poller {
	if timeout <= 0 {
		timeout = defaultPollTimeout
	}
	return &Poller{
		targets: targets,
		client:  &http.Client{Timeout: timeout},
	}
}

// Poll scrapes every target once. One failing endpoint does not abort
// the pass — its sample carries the error and an offline health.
func (p *Poller) Poll(ctx context.Context) []Sample {
	out := make([]Sample, 0, len(p.targets))
	for _, t := range p.targets {
		out = append(out, p.poll(ctx, t))
	}
	return out
}

func (p *Poller) poll(ctx context.Context, t Target) Sample {
	s := Sample{Node: t.Node, Health: engine.HealthOffline}

	mfs, err := fetchMetrics(ctx, p.client, t.Endpoint)
	if err != nil {
		s.Err = fmt.Errorf("poller: %q: %w", t.Node, err)
		slog.Warn("poller: scrape failed", "node", t.Node, "err", err)
		return s
	}

	s.Phase = gaugeOf(mfs[metricPhase])
	s.Amplitude = gaugeOf(mfs[metricAmplitude])
	s.Frequency = gaugeOf(mfs[metricFrequency])
	if gaugeOf(mfs[metricDegraded]) > 0 {
		s.Health = engine.HealthDegraded
	} else {
		s.Health = engine.HealthOnline
	}
	return s
}

// fetchMetrics performs an HTTP GET to url and returns parsed metric
// families.
func fetchMetrics(ctx context.Context, client *http.Client, url string) (map[string]*dto.MetricFamily, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", string(expfmt.NewFormat(expfmt.TypeTextPlain)))

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return parseMetrics(resp.Body)
}

// parseMetrics decodes a Prometheus text exposition from r into metric
// families. A partial result with a non-fatal parse warning is still
// returned successfully.
func parseMetrics(r io.Reader) (map[string]*dto.MetricFamily, error) {
	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(r)
	if err != nil && len(mfs) == 0 {
		return nil, fmt.Errorf("parse prometheus text: %w", err)
	}
	return mfs, nil
}

// gaugeOf returns the first gauge, counter, or untyped value in mf, or 0
// if mf is nil. Node gauges are single-series, so the first sample is
// the value.
func gaugeOf(mf *dto.MetricFamily) float64 {
	if mf == nil {
		return 0
	}
	for _, m := range mf.GetMetric() {
		switch {
		case m.Gauge != nil:
			return m.Gauge.GetValue()
		case m.Counter != nil:
			return m.Counter.GetValue()
		case m.Untyped != nil:
			return m.Untyped.GetValue()
		}
	}
	return 0
}
