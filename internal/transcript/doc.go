// Package transcript turns a session's ordered audio chunks into a single
// word-level transcript on the session timeline, split into paragraphs at
// long pauses.
package transcript
