// Package telemetry exports engine state as Prometheus metrics.
package telemetry
