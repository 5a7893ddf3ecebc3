package transcript

import "context"

// Word is one recognized word positioned on the session timeline.
type Word struct {
	Text string
	// EndOffsetMS is when the word finished, in milliseconds since the
	// session started.
	EndOffsetMS int64
	// ConfidencePercent is the recognizer's confidence, 0-100.
	ConfidencePercent float64
}

// Paragraph groups consecutive words separated by short pauses.
type Paragraph []Word

// Transcriber produces word-level transcriptions for a single audio chunk.
// Returned word offsets are relative to the start of the chunk.
type Transcriber interface {
	Transcribe(ctx context.Context, path, language string) ([]Word, error)
}

// SplitParagraphs breaks a session-ordered word stream into paragraphs
// wherever the gap between consecutive word end times meets or exceeds the
// threshold.
func SplitParagraphs(words []Word, gapThresholdMS int64) []Paragraph {
	if len(words) == 0 {
		return nil
	}

	var paragraphs []Paragraph
	current := Paragraph{words[0]}
	for _, word := range words[1:] {
		if word.EndOffsetMS-current[len(current)-1].EndOffsetMS >= gapThresholdMS {
			paragraphs = append(paragraphs, current)
			current = Paragraph{word}
			continue
		}
		current = append(current, word)
	}
	return append(paragraphs, current)
}
