package lecture

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"lectern/internal/artifacts"
	"lectern/internal/transcript"
)

// Sink receives ordered document blocks. Implementations own the output
// format; the assembler only decides ordering and styling.
type Sink interface {
	Heading(title string) error
	ParagraphBreak() error
	WordRun(text, color string) error
	Picture(path string, widthInches float64) error
	Close() error
}

// Options controls paragraph splitting and word styling.
type Options struct {
	Title                         string
	ParagraphGapThresholdMS       int64
	LowConfidenceThresholdPercent float64
	PictureWidthInches            float64
	DefaultTextColor              string
	LowConfidenceTextColor        string
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Assemble interleaves transcript paragraphs with the session's screenshots
// in timeline order and streams the result into the sink. Screenshots are
// consumed as a queue: each appears exactly once, emitted before the
// paragraph whose first word's end offset passes it, with leftovers flushed
// after the last paragraph.
func Assemble(words []transcript.Word, screenshots []artifacts.File, opts Options, sink Sink) error {
	if err := sink.Heading(opts.Title); err != nil {
		return fmt.Errorf("emit heading: %w", err)
	}

	defaultColor := opts.DefaultTextColor
	if !hexColor.MatchString(defaultColor) {
		defaultColor = "#000000"
	}
	lowColor := opts.LowConfidenceTextColor
	if !hexColor.MatchString(lowColor) {
		lowColor = defaultColor
	}

	queue := screenshots
	for _, paragraph := range transcript.SplitParagraphs(words, opts.ParagraphGapThresholdMS) {
		for len(queue) > 0 && queue[0].OffsetMS <= paragraph[0].EndOffsetMS {
			if err := sink.Picture(queue[0].Path, opts.PictureWidthInches); err != nil {
				return fmt.Errorf("emit picture: %w", err)
			}
			queue = queue[1:]
		}

		if err := sink.ParagraphBreak(); err != nil {
			return fmt.Errorf("emit paragraph break: %w", err)
		}
		for _, word := range paragraph {
			color := defaultColor
			if word.ConfidencePercent <= opts.LowConfidenceThresholdPercent {
				color = lowColor
			}
			if err := sink.WordRun(word.Text, color); err != nil {
				return fmt.Errorf("emit word: %w", err)
			}
		}
	}

	for _, shot := range queue {
		if err := sink.Picture(shot.Path, opts.PictureWidthInches); err != nil {
			return fmt.Errorf("emit trailing picture: %w", err)
		}
	}
	return sink.Close()
}

// Title derives a display heading from a session identifier: separators
// become spaces and words are title-cased.
func Title(sessionID string) string {
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range sessionID {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		title = "Untitled Lecture"
	}
	return cases.Title(language.Und).String(title)
}
