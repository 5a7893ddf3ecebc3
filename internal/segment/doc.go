// Package segment converts a continuous mono audio stream into discrete
// silence-bounded WAV chunks named by their millisecond offset from session
// start.
package segment
