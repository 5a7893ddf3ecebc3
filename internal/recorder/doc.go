// Package recorder coordinates a recording session: it feeds audio frames
// through the silence-based segmenter, video frames through the screenshot
// selector, and guards against concurrent sessions with a lock file.
package recorder
