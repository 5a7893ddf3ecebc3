// Package whisperx wraps the WhisperX CLI (run via uvx) to produce
// word-level transcriptions of chunk WAV files.
package whisperx
