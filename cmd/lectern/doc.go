// Package main hosts the lectern CLI entrypoint and command graph.
//
// The Cobra-based command tree covers the full session lifecycle: recording
// a capture into silence-bounded chunks and screenshots, building the
// illustrated lecture document from a recorded session, listing the session
// index, and configuration scaffolding.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
