// Package logging wires log/slog with the console and JSON handlers used
// across lectern, plus shared attribute helpers and field names.
package logging
