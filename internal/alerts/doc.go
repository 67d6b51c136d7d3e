// Package alerts evaluates threshold rules against engine reports and
// delivers webhook notifications when rules fire or resolve. Rules are
// simple "field operator value" expressions over report fields such as
// coherence, wobble_magnitude, or online_nodes, with a per-rule cooldown
// suppressing re-fires.
package alerts
