// Package snapshot selects and persists screenshots by comparing successive
// video frames and keeping only frames that differ enough from the previous
// one.
package snapshot
