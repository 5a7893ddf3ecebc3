package lecture

import (
	"bufio"
	"fmt"
	"html"
	"os"
)

// HTMLSink writes the assembled lecture as a single self-contained HTML
// document. Word runs are buffered per paragraph; pictures become standalone
// figures referencing the screenshot files on disk.
type HTMLSink struct {
	path        string
	file        *os.File
	w           *bufio.Writer
	fontSizePt  float64
	inParagraph bool
	closed      bool
}

// NewHTMLSink creates the document file and writes the page preamble once
// the heading arrives.
func NewHTMLSink(path string, fontSizePt float64) (*HTMLSink, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create lecture document: %w", err)
	}
	if fontSizePt <= 0 {
		fontSizePt = 11
	}
	return &HTMLSink{
		path:       path,
		file:       file,
		w:          bufio.NewWriter(file),
		fontSizePt: fontSizePt,
	}, nil
}

// Path returns the document location.
func (s *HTMLSink) Path() string {
	return s.path
}

func (s *HTMLSink) Heading(title string) error {
	_, err := fmt.Fprintf(s.w,
		`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>body { font-family: serif; font-size: %gpt; margin: 2em auto; max-width: 50em; }</style>
</head>
<body>
<h1>%s</h1>
`, html.EscapeString(title), s.fontSizePt, html.EscapeString(title))
	return err
}

func (s *HTMLSink) ParagraphBreak() error {
	if err := s.closeParagraph(); err != nil {
		return err
	}
	if _, err := s.w.WriteString("<p>"); err != nil {
		return err
	}
	s.inParagraph = true
	return nil
}

func (s *HTMLSink) WordRun(text, color string) error {
	if !s.inParagraph {
		if err := s.ParagraphBreak(); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(s.w, `<span style="color: %s">%s</span> `,
		html.EscapeString(color), html.EscapeString(text))
	return err
}

func (s *HTMLSink) Picture(path string, widthInches float64) error {
	if err := s.closeParagraph(); err != nil {
		return err
	}
	if widthInches <= 0 {
		widthInches = 5
	}
	_, err := fmt.Fprintf(s.w, `<figure><img src="%s" style="width: %gin"></figure>`+"\n",
		html.EscapeString(path), widthInches)
	return err
}

func (s *HTMLSink) closeParagraph() error {
	if !s.inParagraph {
		return nil
	}
	s.inParagraph = false
	_, err := s.w.WriteString("</p>\n")
	return err
}

// Close finishes the document and flushes it to disk.
func (s *HTMLSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.closeParagraph(); err != nil {
		return err
	}
	if _, err := s.w.WriteString("</body>\n</html>\n"); err != nil {
		return err
	}
	if err := s.w.Flush(); err != nil {
		return err
	}
	return s.file.Close()
}
