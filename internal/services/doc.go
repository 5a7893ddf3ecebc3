// Package services holds shared plumbing for external tool integrations:
// sentinel error markers and context-preserving wrapping.
package services
