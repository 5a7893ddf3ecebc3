// Package language normalizes language hints (ISO 639-1/639-2 codes and
// full word forms) into the 2-letter codes the transcription engine expects.
package language
