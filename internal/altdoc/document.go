package altdoc

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zugzugs/nbflat/internal/notebook"
	"github.com/zugzugs/nbflat/internal/textmap"
)

// CellOffsetEntry records where one cell lives in the flattened text.
// Entries are ordered and strictly increasing in both offset fields; the
// cell blocks partition the flattened text with no gaps, so a block spans
// from its Offset to the next entry's Offset (or the end of the text).
type CellOffsetEntry struct {
	// Offset is the byte offset of the cell's marker line.
	Offset int

	// SourceOffset is the byte offset of the cell's first source byte.
	SourceOffset int

	// SourceEnd is the exclusive end of the cell's source bytes.
	SourceEnd int

	// Cell is the host cell rendered at this entry.
	Cell notebook.Cell
}

// String returns a human-readable representation of the entry.
func (e CellOffsetEntry) String() string {
	return fmt.Sprintf("cell %q @%d src[%d:%d)", e.Cell.ID(), e.Offset, e.SourceOffset, e.SourceEnd)
}

// Document is a flattened textual projection of a notebook. The notebook is
// the source of truth; the document is a derived, disposable view. Documents
// are immutable once built: incremental updates return new documents.
type Document struct {
	dialect Dialect
	text    string
	entries []CellOffsetEntry

	// tx is built lazily on the first positional query.
	tx *textmap.Transformer
}

// NewDocument renders a notebook into a flattened document in the given
// dialect, recording one offset entry per cell.
func NewDocument(d Dialect, nb notebook.Notebook) *Document {
	var b strings.Builder
	entries := make([]CellOffsetEntry, 0, nb.CellCount())
	off := 0
	for _, cell := range nb.Cells() {
		rc := d.renderCell(nb, cell)
		entries = append(entries, CellOffsetEntry{
			Offset:       off,
			SourceOffset: off + rc.headerLen,
			SourceEnd:    off + rc.headerLen + rc.sourceLen,
			Cell:         cell,
		})
		b.WriteString(rc.text)
		off += len(rc.text)
	}
	return &Document{dialect: d, text: b.String(), entries: entries}
}

// Dialect returns the dialect the document was rendered with.
func (d *Document) Dialect() Dialect { return d.dialect }

// Text returns the full flattened text.
func (d *Document) Text() string { return d.text }

// Entries returns a copy of the cell offset table.
func (d *Document) Entries() []CellOffsetEntry {
	out := make([]CellOffsetEntry, len(d.entries))
	copy(out, d.entries)
	return out
}

// transformer builds the position transformer on first use.
func (d *Document) transformer() *textmap.Transformer {
	if d.tx == nil {
		d.tx = textmap.New(d.text)
	}
	return d.tx
}

// LineCount returns the number of lines in the flattened text.
func (d *Document) LineCount() int { return d.transformer().LineCount() }

// Line is one line of the flattened document.
type Line struct {
	Number int
	Text   string
	Range  notebook.Range
}

// LineAt returns the line at the given number, clamped into range.
func (d *Document) LineAt(line int) Line {
	tx := d.transformer()
	if line < 0 {
		line = 0
	}
	if line >= tx.LineCount() {
		line = tx.LineCount() - 1
	}
	text := tx.LineText(line)
	return Line{
		Number: line,
		Text:   text,
		Range:  notebook.NewRange(line, 0, line, tx.LineLength(line)),
	}
}

// GetText returns the text within a range, or the whole text for nil.
func (d *Document) GetText(r *notebook.Range) string {
	if r == nil {
		return d.text
	}
	or := d.transformer().ToOffsetRange(d.transformer().ValidateRange(*r))
	return d.text[or.Start:or.End]
}

// OffsetAt converts a position to a flat byte offset, clamping like
// ValidatePosition.
func (d *Document) OffsetAt(p notebook.Position) int {
	return d.transformer().Offset(p)
}

// PositionAt converts a flat byte offset to a position.
func (d *Document) PositionAt(offset int) notebook.Position {
	return d.transformer().Position(offset)
}

// ValidatePosition clamps a position into the document bounds.
func (d *Document) ValidatePosition(p notebook.Position) notebook.Position {
	return d.transformer().ValidatePosition(p)
}

// ValidateRange clamps both endpoints of a range into the document bounds.
func (d *Document) ValidateRange(r notebook.Range) notebook.Range {
	return d.transformer().ValidateRange(r)
}

// WordRangeAtPosition returns the range of the word containing the position.
// A word is a maximal run of [0-9A-Za-z_] bytes. Returns false if the
// position touches no word character.
func (d *Document) WordRangeAtPosition(p notebook.Position) (notebook.Range, bool) {
	tx := d.transformer()
	p = tx.ValidatePosition(p)
	line := tx.LineText(p.Line)
	byteCol := tx.Offset(p) - tx.Offset(notebook.Position{Line: p.Line})

	start := byteCol
	for start > 0 && isWordByte(line[start-1]) {
		start--
	}
	end := byteCol
	for end < len(line) && isWordByte(line[end]) {
		end++
	}
	if start == end {
		return notebook.Range{}, false
	}
	lineStart := tx.Offset(notebook.Position{Line: p.Line})
	return notebook.Range{
		Start: tx.Position(lineStart + start),
		End:   tx.Position(lineStart + end),
	}, true
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z')
}

// CellPosition pairs a cell with a position in its own coordinate space.
type CellPosition struct {
	Cell     notebook.Cell
	Position notebook.Position
}

// FromCellPosition maps a position local to a cell's document into the
// flattened document's coordinate space.
func (d *Document) FromCellPosition(cell notebook.Cell, p notebook.Position) (notebook.Position, error) {
	idx, err := d.entryIndexFor(cell)
	if err != nil {
		return notebook.Position{}, err
	}
	entry := d.entries[idx]
	cellOff := textmap.New(cell.Text()).Offset(p)
	return d.transformer().Position(entry.SourceOffset + cellOff), nil
}

// ToCellPosition maps a flattened-document position into the owning cell's
// coordinate space. Returns false only if the document is empty or the
// position precedes all cell content.
func (d *Document) ToCellPosition(p notebook.Position) (CellPosition, bool) {
	if len(d.entries) == 0 {
		return CellPosition{}, false
	}
	off := d.transformer().Offset(p)
	idx := sort.Search(len(d.entries), func(i int) bool {
		return d.entries[i].SourceOffset > off
	}) - 1
	if idx < 0 {
		return CellPosition{}, false
	}
	entry := d.entries[idx]
	rel := off - entry.SourceOffset
	if srcLen := entry.SourceEnd - entry.SourceOffset; rel > srcLen {
		rel = srcLen
	}
	return CellPosition{
		Cell:     entry.Cell,
		Position: textmap.New(entry.Cell.Text()).Position(rel),
	}, true
}

// entryIndexFor locates a cell's offset entry, matching by object first and
// then by id so identity of host objects is never required across renders.
func (d *Document) entryIndexFor(cell notebook.Cell) (int, error) {
	id := cell.ID()
	for i, e := range d.entries {
		if e.Cell == cell {
			return i, nil
		}
		if id != "" && e.Cell.ID() == id {
			return i, nil
		}
	}
	return 0, fmt.Errorf("cell %q: %w", id, ErrCellNotFound)
}

// blockEnd returns the exclusive end offset of the i-th cell's block.
func (d *Document) blockEnd(i int) int {
	if i+1 < len(d.entries) {
		return d.entries[i+1].Offset
	}
	return len(d.text)
}
