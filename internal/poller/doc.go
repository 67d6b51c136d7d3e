// Package poller observes node liveness by scraping each node's
// Prometheus text exposition and extracting its phase, amplitude,
// frequency, and degraded gauges. A failed scrape maps to an offline
// sample; the engine's staleness sweep handles nodes that stop exposing
// metrics entirely.
package poller
