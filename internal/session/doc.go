// Package session persists the index of recorded sessions in SQLite so the
// CLI can list, transcribe, and rebuild sessions after the recorder exits.
package session
