// Package report builds the text replies of the bot.
//
// A Report is an ordered list of lines made of styled spans. The same report is
// rendered as Telegram (legacy) Markdown or as plain text for platforms without
// rich text, so renderers never deal with escaping.
package report

import (
	"strings"
	"unicode/utf8"
)

// Style selects the output markup.
type Style int

// Output styles.
const (
	StylePlain Style = iota
	StyleMarkdown
)

// Span is a run of text with one emphasis.
type Span struct {
	Text   string
	Bold   bool
	Italic bool
	Code   bool
}

// Line is one output line. An empty Line renders as a blank line.
type Line []Span

// Report is an ordered sequence of lines.
type Report struct {
	Lines []Line
}

// Plain returns an unstyled span.
func Plain(s string) Span { return Span{Text: s} }

// Bold returns a bold span.
func Bold(s string) Span { return Span{Text: s, Bold: true} }

// Italic returns an italic span.
func Italic(s string) Span { return Span{Text: s, Italic: true} }

// Code returns an inline-code span.
func Code(s string) Span { return Span{Text: s, Code: true} }

// Add appends a line built from spans.
func (r *Report) Add(spans ...Span) {
	r.Lines = append(r.Lines, Line(spans))
}

// Blank appends an empty line.
func (r *Report) Blank() {
	r.Lines = append(r.Lines, nil)
}

// Text renders the report in the given style.
func (r Report) Text(style Style) string {
	out := make([]string, len(r.Lines))
	for i, line := range r.Lines {
		out[i] = line.Text(style)
	}
	return strings.Join(out, "\n")
}

// String renders the report as plain text.
func (r Report) String() string {
	return r.Text(StylePlain)
}

// Text renders a single line.
func (l Line) Text(style Style) string {
	var b strings.Builder
	for _, s := range l {
		if style == StyleMarkdown {
			b.WriteString(s.markdown())
		} else {
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

var markdownEscaper = strings.NewReplacer("_", `\_`, "*", `\*`, "`", "\\`", "[", `\[`)

// markdown renders a span in Telegram legacy Markdown. Entity content cannot be
// escaped there, so the entity's own delimiter is dropped from it instead.
func (s Span) markdown() string {
	switch {
	case s.Text == "":
		return ""
	case s.Code:
		return "`" + strings.ReplaceAll(s.Text, "`", "'") + "`"
	case s.Bold:
		return "*" + strings.ReplaceAll(s.Text, "*", "") + "*"
	case s.Italic:
		return "_" + strings.ReplaceAll(s.Text, "_", " ") + "_"
	default:
		return markdownEscaper.Replace(s.Text)
	}
}

// Truncate shortens s to at most limit runes, marking the cut with an ellipsis.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}
