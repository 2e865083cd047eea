package altdoc

import (
	"context"
	"fmt"
	"iter"
	"regexp"
	"strings"

	"github.com/zugzugs/nbflat/internal/notebook"
)

// xmlOpenRe matches an XML-dialect opening cell tag:
//
//	<VSCode.Cell id="<id>" language="<lang>">
//
// Both attributes are optional at parse time; a missing language falls back
// to the notebook default and is a hard error when there is none.
var (
	xmlOpenRe  = regexp.MustCompile(`^\s*<VSCode\.Cell(?:\s+id="([^"]*)")?(?:\s+language="([^"]*)")?\s*>\s*$`)
	xmlCloseRe = regexp.MustCompile(`^\s*</VSCode\.Cell>\s*$`)
)

// XMLDialect wraps each cell in <VSCode.Cell> tags. Unlike the text dialect
// the flattened document is not syntactically valid in the notebook's
// language, but cell boundaries are unambiguous for any cell content that
// does not itself contain the tags.
type XMLDialect struct{}

// NewXMLDialect returns the XML dialect.
func NewXMLDialect() *XMLDialect { return &XMLDialect{} }

// Name returns "xml".
func (d *XMLDialect) Name() string { return "xml" }

// openTag renders the opening tag for one cell.
func (d *XMLDialect) openTag(c notebook.Cell) string {
	var b strings.Builder
	b.WriteString("<VSCode.Cell")
	if id := c.ID(); id != "" {
		fmt.Fprintf(&b, " id=%q", id)
	}
	fmt.Fprintf(&b, " language=%q", c.Language())
	b.WriteString(">")
	return b.String()
}

const xmlCloseTag = "</VSCode.Cell>"

func (d *XMLDialect) renderCell(nb notebook.Notebook, c notebook.Cell) renderedCell {
	eol := c.EOL()
	src := c.Text()

	var b strings.Builder
	b.WriteString(d.openTag(c))
	b.WriteString(eol)
	header := b.Len()
	b.WriteString(src)
	b.WriteString(eol)
	b.WriteString(xmlCloseTag)
	b.WriteString(eol)
	return renderedCell{text: b.String(), headerLen: header, sourceLen: len(src)}
}

// Parse reconstructs cell-boundary events from a streamed flattened text.
// Closing tags end the open cell; an opening tag while a cell is open ends
// it implicitly. An opening tag with no language attribute and no notebook
// default language is a hard parse error, because skipping it would
// desynchronize cell indices.
func (d *XMLDialect) Parse(ctx context.Context, nb notebook.Notebook, lines iter.Seq[string]) iter.Seq2[ParseEvent, error] {
	return func(yield func(ParseEvent, error) bool) {
		identity := newMarkerIdentity(nb)
		open := false
		index := -1

		for line := range lines {
			if ctx.Err() != nil {
				return
			}
			if m := xmlOpenRe.FindStringSubmatch(line); m != nil {
				if m[2] == "" && nb.DefaultLanguage() == "" {
					yield(ParseEvent{}, fmt.Errorf("cell %d: no language attribute and no default language: %w", index+1, ErrMalformedMarker))
					return
				}
				if open {
					if !yield(ParseEvent{Type: EventCellEnd, Index: index}, nil) {
						return
					}
				}
				index++
				id, language, kind := identity.resolve(m[1], m[2])
				if !yield(ParseEvent{Type: EventCellStart, Index: index, ID: id, Language: language, Kind: kind}, nil) {
					return
				}
				open = true
				continue
			}
			if xmlCloseRe.MatchString(line) {
				if open {
					if !yield(ParseEvent{Type: EventCellEnd, Index: index}, nil) {
						return
					}
					open = false
				}
				continue
			}
			if !open {
				// Before the first cell, or between cells: dropped.
				continue
			}
			if !yield(ParseEvent{Type: EventCellLine, Index: index, Line: line}, nil) {
				return
			}
		}

		if open && ctx.Err() == nil {
			yield(ParseEvent{Type: EventCellEnd, Index: index}, nil)
		}
	}
}

// SummarizeStructure renders the structural skeleton of a notebook.
func (d *XMLDialect) SummarizeStructure(nb notebook.Notebook, include func(notebook.Cell) bool, elisionMarker string) string {
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
		writeLine(d.openTag(cell))
		if first := firstSignificantLine(cell); first != "" {
			writeLine(first)
		}
		writeLine(elisionMarker)
		writeLine(xmlCloseTag)
		lastWasElision = false
	}
	return b.String()
}

// StripCellMarkers removes a single leading opening tag line and a single
// trailing closing tag line if present.
func (d *XMLDialect) StripCellMarkers(text string) string {
	text = stripLeadingLine(text, xmlOpenRe)
	return stripTrailingLine(text, xmlCloseRe)
}

// stripTrailingLine drops the last non-empty line and its preceding
// terminator when it matches.
func stripTrailingLine(text string, re *regexp.Regexp) string {
	end := len(text)
	// Step back over one trailing terminator.
	if strings.HasSuffix(text[:end], "\r\n") {
		end -= 2
	} else if end > 0 && (text[end-1] == '\n' || text[end-1] == '\r') {
		end--
	}
	start := end
	for start > 0 && text[start-1] != '\n' && text[start-1] != '\r' {
		start--
	}
	if !re.MatchString(text[start:end]) {
		return text
	}
	// Drop the line's own leading terminator too.
	cut := start
	if cut > 0 && text[cut-1] == '\n' {
		cut--
		if cut > 0 && text[cut-1] == '\r' {
			cut--
		}
	} else if cut > 0 && text[cut-1] == '\r' {
		cut--
	}
	return text[:cut]
}
