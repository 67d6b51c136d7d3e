// Package angle provides arithmetic on the 0–360 degree circle: shortest
// signed differences and circular means. Plain averaging is wrong across
// the 0/360 wrap, so every phase computation in the engine goes through
// this package.
package angle
