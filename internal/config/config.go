package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/phaselock/phaselock/internal/consensus"
	"github.com/phaselock/phaselock/internal/engine"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultAnchorPhase     = 45.0
	DefaultHistorySize     = 100
	DefaultStaleAfter      = 90 * time.Second
	DefaultPollInterval    = 30 * time.Second
	DefaultCorrectInterval = 30 * time.Second
	DefaultPollTimeout     = 10 * time.Second
	DefaultMetricsListen   = ":9464"
	DefaultTopologySize    = 4
)

// Config is the top-level configuration for the phaselock daemon.
type Config struct {
	Engine    EngineConfig    `yaml:"engine"`
	Consensus ConsensusConfig `yaml:"consensus"`
	Poll      PollConfig      `yaml:"poll"`
	Alerts    AlertsConfig    `yaml:"alerts"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// EngineConfig describes the fixed node topology and engine tuning.
type EngineConfig struct {
	// AnchorPhase is the anchor's initial phase in degrees.
	AnchorPhase float64 `yaml:"anchor_phase"`

	// HistorySize bounds the coherence history ring.
	HistorySize int `yaml:"history_size"`

	// StaleAfter is how long a node may stay silent before the staleness
	// sweep marks it offline. Zero disables the sweep.
	StaleAfter time.Duration `yaml:"stale_after"`

	// Nodes is the fixed topology. Omitting it yields four nodes evenly
	// offset around the circle.
	Nodes []NodeConfig `yaml:"nodes"`
}

// NodeConfig describes one registered node.
type NodeConfig struct {
	// Name is the unique, immutable node identifier.
	Name string `yaml:"name"`

	// Phase is the node's initial phase in degrees.
	Phase float64 `yaml:"phase"`

	// Amplitude is the node's initial load share in [0, 1].
	Amplitude float64 `yaml:"amplitude"`

	// Frequency is informational, in Hz.
	Frequency float64 `yaml:"frequency"`

	// Endpoint is the node's Prometheus metrics URL polled for phase and
	// amplitude gauges. Empty disables polling for this node.
	Endpoint string `yaml:"endpoint"`
}

// ConsensusConfig selects the stage boundary table and scoring weights.
type ConsensusConfig struct {
	// StageTable is "standard" (five buckets, default) or "extended"
	// (six buckets, inserting threshold between verification and
	// recognition).
	StageTable string `yaml:"stage_table"`

	// Weights overrides the per-stage scoring weights. Empty falls back
	// to the positional 0.2/0.3/0.5 convention.
	Weights map[string]float64 `yaml:"weights"`
}

// Table resolves the configured boundary table.
func (c ConsensusConfig) Table() consensus.Table {
	if c.StageTable == "extended" {
		return consensus.ExtendedTable
	}
	return consensus.StandardTable
}

// PollConfig controls the daemon's tickers.
type PollConfig struct {
	// Interval is how often node endpoints are polled.
	Interval time.Duration `yaml:"interval"`

	// CorrectInterval is how often a self-correction pass runs.
	CorrectInterval time.Duration `yaml:"correct_interval"`

	// Timeout bounds one scrape request.
	Timeout time.Duration `yaml:"timeout"`
}

// AlertsConfig holds all alerting rules and webhook targets.
type AlertsConfig struct {
	Rules    []AlertRule     `yaml:"rules"`
	Webhooks []WebhookConfig `yaml:"webhooks"`
}

// AlertRule defines a threshold-based alert condition over the engine
// report.
type AlertRule struct {
	// Name is the human-readable alert identifier.
	Name string `yaml:"name"`

	// Condition is an expression like "coherence < 0.5" or
	// "wobble_magnitude > 30".
	Condition string `yaml:"condition"`

	// Severity is one of: critical | warning | info.
	Severity string `yaml:"severity"`

	// Cooldown suppresses re-fires for this duration after firing.
	Cooldown time.Duration `yaml:"cooldown"`
}

// WebhookConfig defines one webhook delivery target.
type WebhookConfig struct {
	// Type is one of: slack | teams | http.
	Type string `yaml:"type"`

	// URLEnv is the name of the environment variable holding the webhook
	// URL, so the URL itself never lives in the config file.
	URLEnv string `yaml:"url_env"`
}

// URL returns the webhook URL resolved from the environment.
func (w WebhookConfig) URL() string {
	if w.URLEnv == "" {
		return ""
	}
	return os.Getenv(w.URLEnv)
}

// MetricsConfig configures the Prometheus exposition endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// Topology converts the configured nodes into engine specs.
func (c EngineConfig) Topology() []engine.NodeSpec {
	specs := make([]engine.NodeSpec, 0, len(c.Nodes))
	for _, n := range c.Nodes {
		specs = append(specs, engine.NodeSpec{
			Name:      n.Name,
			Phase:     n.Phase,
			Amplitude: n.Amplitude,
			Frequency: n.Frequency,
		})
	}
	return specs
}

// Options converts the engine tuning fields into engine options.
func (c EngineConfig) Options() engine.Options {
	return engine.Options{
		AnchorPhase: c.AnchorPhase,
		HistorySize: c.HistorySize,
		StaleAfter:  c.StaleAfter,
	}
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with sensible defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// defaults returns a Config pre-populated with default values, including
// the default four-node topology.
func defaults() *Config {
	cfg := &Config{
		Engine: EngineConfig{
			AnchorPhase: DefaultAnchorPhase,
			HistorySize: DefaultHistorySize,
			StaleAfter:  DefaultStaleAfter,
		},
		Poll: PollConfig{
			Interval:        DefaultPollInterval,
			CorrectInterval: DefaultCorrectInterval,
			Timeout:         DefaultPollTimeout,
		},
		Metrics: MetricsConfig{
			Listen: DefaultMetricsListen,
		},
	}
	for _, spec := range engine.DefaultTopology(DefaultTopologySize) {
		cfg.Engine.Nodes = append(cfg.Engine.Nodes, NodeConfig{
			Name:      spec.Name,
			Phase:     spec.Phase,
			Amplitude: spec.Amplitude,
			Frequency: spec.Frequency,
		})
	}
	return cfg
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	if cfg.Engine.HistorySize <= 0 {
		return fmt.Errorf("engine.history_size must be positive")
	}
	if cfg.Engine.StaleAfter < 0 {
		return fmt.Errorf("engine.stale_after must not be negative")
	}
	if len(cfg.Engine.Nodes) == 0 {
		return fmt.Errorf("engine.nodes must contain at least one node")
	}
	seen := make(map[string]bool, len(cfg.Engine.Nodes))
	for i, n := range cfg.Engine.Nodes {
		if n.Name == "" {
			return fmt.Errorf("engine.nodes[%d]: name is required", i)
		}
		if seen[n.Name] {
			return fmt.Errorf("engine.nodes[%d]: duplicate name %q", i, n.Name)
		}
		seen[n.Name] = true
		if n.Amplitude < 0 || n.Amplitude > 1 {
			return fmt.Errorf("engine.nodes[%d] %q: amplitude must be in [0, 1]", i, n.Name)
		}
	}

	switch cfg.Consensus.StageTable {
	case "", "standard", "extended":
	default:
		return fmt.Errorf("consensus.stage_table: unknown table %q", cfg.Consensus.StageTable)
	}
	for stage, w := range cfg.Consensus.Weights {
		if w < 0 {
			return fmt.Errorf("consensus.weights[%s]: must not be negative", stage)
		}
	}

	if cfg.Poll.Interval <= 0 {
		return fmt.Errorf("poll.interval must be positive")
	}
	if cfg.Poll.CorrectInterval <= 0 {
		return fmt.Errorf("poll.correct_interval must be positive")
	}
	if cfg.Poll.Timeout <= 0 {
		return fmt.Errorf("poll.timeout must be positive")
	}

	for i, r := range cfg.Alerts.Rules {
		if r.Name == "" {
			return fmt.Errorf("alerts.rules[%d]: name is required", i)
		}
		if r.Condition == "" {
			return fmt.Errorf("alerts.rules[%d] %q: condition is required", i, r.Name)
		}
		switch r.Severity {
		case "", "critical", "warning", "info":
		default:
			return fmt.Errorf("alerts.rules[%d] %q: unknown severity %q", i, r.Name, r.Severity)
		}
	}
	for i, w := range cfg.Alerts.Webhooks {
		switch w.Type {
		case "slack", "teams", "http":
		default:
			return fmt.Errorf("alerts.webhooks[%d]: unknown type %q", i, w.Type)
		}
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Listen == "" {
		return fmt.Errorf("metrics.listen is required when metrics are enabled")
	}
	return nil
}
