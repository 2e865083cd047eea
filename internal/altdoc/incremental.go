package altdoc

import (
	"fmt"

	"github.com/zugzugs/nbflat/internal/notebook"
	"github.com/zugzugs/nbflat/internal/textmap"
)

// ApplyCellTextChange patches the flattened projection for one cell's text
// change event without re-rendering. It returns the updated document plus
// the equivalent batch of edits against the previous flattened text:
// applying the edits to the old text yields exactly the new document's text.
//
// Each host change carries a cell-local range/offset/replacement; all
// changes in one event are expressed against the cell text before any of
// them applied and must not overlap (host contract).
func ApplyCellTextChange(doc *Document, cell notebook.Cell, changes []notebook.TextChange) (*Document, []textmap.OffsetEdit, error) {
	idx, err := doc.entryIndexFor(cell)
	if err != nil {
		return nil, nil, err
	}
	entry := doc.entries[idx]

	edits := make([]textmap.OffsetEdit, 0, len(changes))
	delta := 0
	for _, ch := range changes {
		start := entry.SourceOffset + ch.RangeOffset
		end := start + ch.RangeLength
		if ch.RangeOffset < 0 || end > entry.SourceEnd {
			return nil, nil, fmt.Errorf("change %d+%d outside cell source span %d: %w",
				ch.RangeOffset, ch.RangeLength, entry.SourceEnd-entry.SourceOffset, ErrProjectionDesync)
		}
		edits = append(edits, textmap.OffsetEdit{
			Range:   textmap.OffsetRange{Start: start, End: end},
			NewText: ch.Text,
		})
		delta += len(ch.Text) - ch.RangeLength
	}

	newText := textmap.ApplyEdits(doc.text, edits)

	entries := make([]CellOffsetEntry, len(doc.entries))
	copy(entries, doc.entries)
	entries[idx].SourceEnd += delta
	for i := idx + 1; i < len(entries); i++ {
		entries[i].Offset += delta
		entries[i].SourceOffset += delta
		entries[i].SourceEnd += delta
	}

	return &Document{dialect: doc.dialect, text: newText, entries: entries}, edits, nil
}

// workEntry models one cell block while a structural change is replayed.
// origOffset is where the block's content anchors in the OLD flattened text,
// so every produced edit is expressed against the previous text.
type workEntry struct {
	cell       notebook.Cell
	origOffset int
	blockLen   int
	headerLen  int
	sourceLen  int
	added      bool
	editPos    int // index of the insert edit for added entries, else -1
}

// ApplyStructuralChange patches the flattened projection for a notebook
// structural change event (cells added and/or removed). It returns the
// updated document and the equivalent edit batch against the previous text.
//
// ok is false when the change cannot be expressed incrementally (a pure
// rename/reorder with no survivable anchor, or a removal of a cell added in
// the same batch); the caller must fall back to a full re-render. A removal
// whose marker cannot be located is an ErrProjectionDesync.
func ApplyStructuralChange(doc *Document, nb notebook.Notebook, changes []notebook.StructuralChange) (*Document, []textmap.OffsetEdit, bool, error) {
	for _, ch := range changes {
		if isRenameOrReorder(ch) {
			return nil, nil, false, nil
		}
	}

	working := make([]workEntry, len(doc.entries))
	for i, e := range doc.entries {
		working[i] = workEntry{
			cell:       e.Cell,
			origOffset: e.Offset,
			blockLen:   doc.blockEnd(i) - e.Offset,
			headerLen:  e.SourceOffset - e.Offset,
			sourceLen:  e.SourceEnd - e.SourceOffset,
			editPos:    -1,
		}
	}

	var edits []textmap.OffsetEdit

	// insertEditAt places an edit at list position pos (or appends for -1).
	// ApplyEdits sorts stably, so list order decides how same-offset
	// insertions stack; inserting before an added entry's own edit keeps
	// notebook order for cells sharing an anchor offset.
	insertEditAt := func(pos int, e textmap.OffsetEdit) int {
		if pos < 0 || pos >= len(edits) {
			edits = append(edits, e)
			return len(edits) - 1
		}
		edits = append(edits[:pos], append([]textmap.OffsetEdit{e}, edits[pos:]...)...)
		for j := range working {
			if working[j].editPos >= pos {
				working[j].editPos++
			}
		}
		return pos
	}
	for _, ch := range changes {
		for _, removed := range ch.Removed {
			idx := workingIndexFor(working, removed)
			if idx < 0 {
				return nil, nil, false, fmt.Errorf("removed cell %q has no marker: %w", removed.ID(), ErrProjectionDesync)
			}
			w := working[idx]
			if w.added {
				// Removing a cell inserted earlier in the same batch;
				// the anchor arithmetic no longer holds.
				return nil, nil, false, nil
			}
			edits = append(edits, textmap.OffsetEdit{
				Range: textmap.OffsetRange{Start: w.origOffset, End: w.origOffset + w.blockLen},
			})
			working = append(working[:idx], working[idx+1:]...)
		}

		for i, cell := range ch.Added {
			target := ch.Start + i
			if target < 0 {
				target = 0
			}
			if target > len(working) {
				target = len(working)
			}
			// Re-derive the anchor per edit from the current table: insert
			// before the cell now at the target index, or append when the
			// index is at or past the end.
			anchor := len(doc.text)
			pos := -1
			if target < len(working) {
				anchor = working[target].origOffset
				if working[target].added {
					pos = working[target].editPos
				}
			}
			rc := doc.dialect.renderCell(nb, cell)
			editPos := insertEditAt(pos, textmap.OffsetEdit{
				Range:   textmap.OffsetRange{Start: anchor, End: anchor},
				NewText: rc.text,
			})
			w := workEntry{
				cell:       cell,
				origOffset: anchor,
				blockLen:   len(rc.text),
				headerLen:  rc.headerLen,
				sourceLen:  rc.sourceLen,
				added:      true,
				editPos:    editPos,
			}
			working = append(working[:target], append([]workEntry{w}, working[target:]...)...)
		}
	}

	newText := textmap.ApplyEdits(doc.text, edits)

	entries := make([]CellOffsetEntry, len(working))
	off := 0
	for i, w := range working {
		entries[i] = CellOffsetEntry{
			Offset:       off,
			SourceOffset: off + w.headerLen,
			SourceEnd:    off + w.headerLen + w.sourceLen,
			Cell:         w.cell,
		}
		off += w.blockLen
	}
	if off != len(newText) {
		return nil, nil, false, fmt.Errorf("patched length %d != expected %d: %w", len(newText), off, ErrProjectionDesync)
	}

	return &Document{dialect: doc.dialect, text: newText, entries: entries}, edits, true, nil
}

// isRenameOrReorder reports whether a change removes and re-adds cells with
// overlapping ids, i.e. a pure rename/reorder with no survivable anchor.
func isRenameOrReorder(ch notebook.StructuralChange) bool {
	if len(ch.Removed) == 0 || len(ch.Added) == 0 {
		return false
	}
	removed := make(map[string]bool, len(ch.Removed))
	for _, c := range ch.Removed {
		if id := c.ID(); id != "" {
			removed[id] = true
		}
	}
	for _, c := range ch.Added {
		if removed[c.ID()] {
			return true
		}
	}
	return false
}

// workingIndexFor locates a cell in the working table, by object and then
// by id.
func workingIndexFor(working []workEntry, cell notebook.Cell) int {
	id := cell.ID()
	for i, w := range working {
		if w.cell == cell {
			return i
		}
		if id != "" && w.cell.ID() == id {
			return i
		}
	}
	return -1
}
