// Package preflight validates the environment (directory permissions,
// required external tools) before recording or building starts.
package preflight
