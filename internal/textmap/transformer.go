package textmap

import (
	"sort"

	"github.com/zugzugs/nbflat/internal/notebook"
)

// Transformer converts between (line, character) positions and flat byte
// offsets for one immutable text snapshot. Character columns are UTF-16 code
// units, matching the host protocol; offsets index bytes of the Go string.
//
// A Transformer never mutates. Applying edits produces a new Transformer
// over the new text, so callers may retain prior snapshots safely.
type Transformer struct {
	text  string
	lines []lineInfo
}

// lineInfo indexes one line for fast position conversion.
type lineInfo struct {
	start      int // byte offset of line start
	contentLen int // bytes of line content, excluding terminator
	termLen    int // bytes of line terminator (0 for the last line)
	utf16Len   int // line content length in UTF-16 code units
}

// New builds a transformer for the given text.
func New(text string) *Transformer {
	return &Transformer{text: text, lines: buildLineIndex(text)}
}

// buildLineIndex scans the text once, recording line boundaries.
// "\n", "\r\n" and "\r" all terminate lines. The index always contains at
// least one (possibly empty) trailing line.
func buildLineIndex(text string) []lineInfo {
	var lines []lineInfo
	start := 0
	i := 0
	for i < len(text) {
		switch text[i] {
		case '\n':
			lines = append(lines, makeLineInfo(text, start, i, 1))
			i++
			start = i
		case '\r':
			term := 1
			if i+1 < len(text) && text[i+1] == '\n' {
				term = 2
			}
			lines = append(lines, makeLineInfo(text, start, i, term))
			i += term
			start = i
		default:
			i++
		}
	}
	return append(lines, makeLineInfo(text, start, len(text), 0))
}

func makeLineInfo(text string, start, end, term int) lineInfo {
	return lineInfo{
		start:      start,
		contentLen: end - start,
		termLen:    term,
		utf16Len:   utf16Length(text[start:end]),
	}
}

// Text returns the full text of the snapshot.
func (t *Transformer) Text() string { return t.text }

// LineCount returns the number of lines, always at least 1.
func (t *Transformer) LineCount() int { return len(t.lines) }

// LineText returns the content of the given line without its terminator.
// Out-of-range lines are clamped.
func (t *Transformer) LineText(line int) string {
	li := t.lines[clampInt(line, 0, len(t.lines)-1)]
	return t.text[li.start : li.start+li.contentLen]
}

// LineLength returns the length of the given line in UTF-16 code units.
// Out-of-range lines are clamped.
func (t *Transformer) LineLength(line int) int {
	return t.lines[clampInt(line, 0, len(t.lines)-1)].utf16Len
}

// Offset converts a position to a flat byte offset. Out-of-range positions
// are clamped per ValidatePosition rather than erroring.
func (t *Transformer) Offset(p notebook.Position) int {
	p = t.ValidatePosition(p)
	li := t.lines[p.Line]
	content := t.text[li.start : li.start+li.contentLen]
	return li.start + utf16ColumnToByte(content, p.Character)
}

// Position converts a flat byte offset to a position. Offsets are clamped to
// [0, len(text)]; offsets inside a line terminator map to the line's end.
func (t *Transformer) Position(offset int) notebook.Position {
	offset = clampInt(offset, 0, len(t.text))
	line := sort.Search(len(t.lines), func(i int) bool {
		return t.lines[i].start > offset
	}) - 1
	if line < 0 {
		line = 0
	}
	li := t.lines[line]
	rel := offset - li.start
	if rel > li.contentLen {
		rel = li.contentLen
	}
	content := t.text[li.start : li.start+li.contentLen]
	return notebook.Position{Line: line, Character: byteToUTF16Column(content, rel)}
}

// ToOffsetRange converts a position range to a flat offset range.
func (t *Transformer) ToOffsetRange(r notebook.Range) OffsetRange {
	return OffsetRange{Start: t.Offset(r.Start), End: t.Offset(r.End)}
}

// ToRange converts a flat offset range back to a position range.
// ToRange and ToOffsetRange are structural inverses for valid inputs.
func (t *Transformer) ToRange(r OffsetRange) notebook.Range {
	return notebook.Range{Start: t.Position(r.Start), End: t.Position(r.End)}
}

// ValidatePosition clamps a position into the document: the line into
// [0, LineCount-1] and the character into [0, line length]. A line past the
// end of the document clamps to the last line at its end character.
// Never errors for any input.
func (t *Transformer) ValidatePosition(p notebook.Position) notebook.Position {
	if p.Line < 0 {
		p.Line = 0
	}
	if p.Line >= len(t.lines) {
		last := len(t.lines) - 1
		return notebook.Position{Line: last, Character: t.lines[last].utf16Len}
	}
	p.Character = clampInt(p.Character, 0, t.lines[p.Line].utf16Len)
	return p
}

// ValidateRange validates both endpoints of a range independently.
func (t *Transformer) ValidateRange(r notebook.Range) notebook.Range {
	return notebook.Range{
		Start: t.ValidatePosition(r.Start),
		End:   t.ValidatePosition(r.End),
	}
}

// ToOffsetEdits converts position-ranged edits to offset edits against the
// current snapshot.
func (t *Transformer) ToOffsetEdits(edits []Edit) []OffsetEdit {
	out := make([]OffsetEdit, len(edits))
	for i, e := range edits {
		out[i] = OffsetEdit{Range: t.ToOffsetRange(e.Range), NewText: e.NewText}
	}
	return out
}

// ApplyOffsetEdits applies a batch of edits and returns a transformer over
// the resulting text. Overlapping ranges within one batch are a caller
// error; edits are applied in increasing-offset order regardless of input
// order. Line endings in both kept and inserted text are preserved verbatim.
func (t *Transformer) ApplyOffsetEdits(edits []OffsetEdit) *Transformer {
	return New(ApplyEdits(t.text, edits))
}

// utf16Length returns the UTF-16 code unit length of s.
func utf16Length(s string) int {
	n := 0
	for _, r := range s {
		n++
		if r > 0xFFFF {
			n++
		}
	}
	return n
}

// utf16ColumnToByte converts a UTF-16 column within a line to a byte offset,
// clamping past-end columns to the line length.
func utf16ColumnToByte(line string, col int) int {
	if col <= 0 {
		return 0
	}
	units := 0
	for i, r := range line {
		if units >= col {
			return i
		}
		units++
		if r > 0xFFFF {
			units++
		}
	}
	return len(line)
}

// byteToUTF16Column converts a byte offset within a line to a UTF-16 column.
func byteToUTF16Column(line string, b int) int {
	if b > len(line) {
		b = len(line)
	}
	return utf16Length(line[:b])
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
