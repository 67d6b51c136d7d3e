// Package config loads and watches the phaselock configuration file.
//
// Top-level types:
//   - Config{Engine, Consensus, Poll, Alerts, Metrics} — full tree
//     parsed from YAML
//   - EngineConfig — anchor_phase, history_size, stale_after and the
//     fixed node topology (name, phase, amplitude, frequency, endpoint)
//   - ConsensusConfig — stage_table (standard|extended) and optional
//     per-stage weight overrides
//   - PollConfig — poll/correction intervals and scrape timeout
//   - AlertsConfig — threshold rules and webhook targets
//   - MetricsConfig — Prometheus exposition listener
//
// Load(path) reads the YAML file, applies defaults (four evenly offset
// nodes, anchor 45, history 100, 30s intervals), then validates required
// fields and enums.
//
// Watch(ctx, path, onChange) uses fsnotify to detect file changes and
// calls onChange with the newly parsed Config, re-adding the watch after
// the rename→create pattern used by atomic-save editors. A failed reload
// keeps the previous config active.
package config
