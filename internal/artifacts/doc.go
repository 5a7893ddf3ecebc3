// Package artifacts implements the offset-keyed filename scheme shared by
// audio chunks and screenshots, and directory scanning with defensive
// filtering of unparsable or undersized files.
package artifacts
