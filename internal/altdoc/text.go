package altdoc

import (
	"context"
	"iter"
	"regexp"
	"strings"

	"github.com/zugzugs/nbflat/internal/notebook"
)

// textMarkerRe matches a text-dialect cell marker line:
//
//	<comment-prefix>%% vscode.cell [id=<id>] [language=<lang>]
//
// Both attributes are optional; the comment prefix may be empty.
var textMarkerRe = regexp.MustCompile(
	`^\s*\S*?%%\s*vscode\.cell(?:\s+\[id=([^\]]*)\])?(?:\s+\[language=([^\]]*)\])?\s*$`)

// TextDialect renders each cell behind a one-line comment marker. Markup
// cells additionally wrap their source in the notebook default language's
// block comment delimiters so the flattened text parses as one syntactically
// consistent document.
type TextDialect struct{}

// NewTextDialect returns the text dialect.
func NewTextDialect() *TextDialect { return &TextDialect{} }

// Name returns "text".
func (d *TextDialect) Name() string { return "text" }

// markerLine renders the marker for one cell.
func (d *TextDialect) markerLine(nb notebook.Notebook, c notebook.Cell) string {
	var b strings.Builder
	b.WriteString(notebook.StyleFor(nb.DefaultLanguage()).Line)
	b.WriteString("%% vscode.cell")
	if id := c.ID(); id != "" {
		b.WriteString(" [id=")
		b.WriteString(id)
		b.WriteString("]")
	}
	b.WriteString(" [language=")
	b.WriteString(c.Language())
	b.WriteString("]")
	return b.String()
}

func (d *TextDialect) renderCell(nb notebook.Notebook, c notebook.Cell) renderedCell {
	eol := c.EOL()
	marker := d.markerLine(nb, c)
	src := c.Text()

	var b strings.Builder
	b.WriteString(marker)
	b.WriteString(eol)
	header := b.Len()
	if c.Kind() == notebook.KindMarkup {
		style := notebook.StyleFor(nb.DefaultLanguage())
		b.WriteString(style.BlockStart)
		b.WriteString(eol)
		header = b.Len()
		b.WriteString(src)
		b.WriteString(eol)
		b.WriteString(style.BlockEnd)
		b.WriteString(eol)
	} else {
		b.WriteString(src)
		b.WriteString(eol)
	}
	return renderedCell{text: b.String(), headerLen: header, sourceLen: len(src)}
}

// textParseState enumerates the streaming parser's states.
type textParseState uint8

const (
	textBeforeFirstCell textParseState = iota
	textInCodeCell
	textInMarkupOutsideBlock
	textInMarkupInsideBlock
)

// Parse reconstructs cell-boundary events from a streamed flattened text.
// Lines before the first marker are dropped; block comment delimiters around
// markup cell source are consumed, not re-emitted. An open cell at end of
// stream gets a synthesized end event; cancellation stops emission without
// one.
func (d *TextDialect) Parse(ctx context.Context, nb notebook.Notebook, lines iter.Seq[string]) iter.Seq2[ParseEvent, error] {
	return func(yield func(ParseEvent, error) bool) {
		style := notebook.StyleFor(nb.DefaultLanguage())
		identity := newMarkerIdentity(nb)
		state := textBeforeFirstCell
		index := -1

		for line := range lines {
			if ctx.Err() != nil {
				return
			}
			if m := textMarkerRe.FindStringSubmatch(line); m != nil {
				if state != textBeforeFirstCell {
					if !yield(ParseEvent{Type: EventCellEnd, Index: index}, nil) {
						return
					}
				}
				index++
				id, language, kind := identity.resolve(m[1], m[2])
				if !yield(ParseEvent{Type: EventCellStart, Index: index, ID: id, Language: language, Kind: kind}, nil) {
					return
				}
				if kind == notebook.KindMarkup {
					state = textInMarkupOutsideBlock
				} else {
					state = textInCodeCell
				}
				continue
			}

			switch state {
			case textBeforeFirstCell:
				// Dropped.
			case textInCodeCell:
				if !yield(ParseEvent{Type: EventCellLine, Index: index, Line: line}, nil) {
					return
				}
			case textInMarkupOutsideBlock:
				if strings.TrimSpace(line) == style.BlockStart {
					state = textInMarkupInsideBlock
					continue
				}
				if !yield(ParseEvent{Type: EventCellLine, Index: index, Line: line}, nil) {
					return
				}
			case textInMarkupInsideBlock:
				if strings.TrimSpace(line) == style.BlockEnd {
					state = textInMarkupOutsideBlock
					continue
				}
				if !yield(ParseEvent{Type: EventCellLine, Index: index, Line: line}, nil) {
					return
				}
			}
		}

		if state != textBeforeFirstCell && ctx.Err() == nil {
			yield(ParseEvent{Type: EventCellEnd, Index: index}, nil)
		}
	}
}

// SummarizeStructure renders the structural skeleton of a notebook.
func (d *TextDialect) SummarizeStructure(nb notebook.Notebook, include func(notebook.Cell) bool, elisionMarker string) string {
	var b strings.Builder
	lastWasElision := false
	writeLine := func(line string) {
		b.WriteString(line)
		b.WriteString("\n")
	}
	for _, cell := range nb.Cells() {
		if include != nil && !include(cell) {
			if !lastWasElision {
				writeLine(elisionMarker)
				lastWasElision = true
			}
			continue
		}
		writeLine(d.markerLine(nb, cell))
		if first := firstSignificantLine(cell); first != "" {
			writeLine(first)
		}
		writeLine(elisionMarker)
		lastWasElision = true
	}
	return b.String()
}

// StripCellMarkers removes a single leading marker line if present.
func (d *TextDialect) StripCellMarkers(text string) string {
	return stripLeadingLine(text, textMarkerRe)
}

// stripLeadingLine drops the first line and its terminator when it matches.
func stripLeadingLine(text string, re *regexp.Regexp) string {
	line, rest, ok := cutFirstLine(text)
	if ok && re.MatchString(line) {
		return rest
	}
	if !ok && re.MatchString(text) {
		return ""
	}
	return text
}

// cutFirstLine splits off the first line and its terminator.
// ok is false when the text has no line terminator.
func cutFirstLine(text string) (line, rest string, ok bool) {
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			return text[:i], text[i+1:], true
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				return text[:i], text[i+2:], true
			}
			return text[:i], text[i+1:], true
		}
	}
	return text, "", false
}
