// Package celldiff computes cell-level structural diffs between two
// notebook states. A diff is an ordered sequence of per-cell operations
// (unchanged, inserted, deleted); a content change in one slot decomposes
// into a delete followed by an insert, never a bare "modify".
package celldiff

import (
	"fmt"

	"github.com/zugzugs/nbflat/internal/notebook"
)

// EntryKind identifies the operation a diff entry represents.
type EntryKind uint8

const (
	// EntryUnchanged pairs an original cell with an identical modified cell.
	EntryUnchanged EntryKind = iota

	// EntryInsert introduces a modified cell with no original counterpart.
	EntryInsert

	// EntryDelete removes an original cell with no modified counterpart.
	EntryDelete
)

// String returns a human-readable representation of the entry kind.
func (k EntryKind) String() string {
	switch k {
	case EntryUnchanged:
		return "unchanged"
	case EntryInsert:
		return "insert"
	case EntryDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Entry is one operation of a structural diff. OriginalIndex is -1 for
// inserts; ModifiedIndex is -1 for deletes.
type Entry struct {
	Kind          EntryKind
	OriginalIndex int
	ModifiedIndex int
}

// String returns a human-readable representation of the entry.
func (e Entry) String() string {
	switch e.Kind {
	case EntryUnchanged:
		return fmt.Sprintf("Unchanged(%d,%d)", e.OriginalIndex, e.ModifiedIndex)
	case EntryInsert:
		return fmt.Sprintf("Insert(%d)", e.ModifiedIndex)
	case EntryDelete:
		return fmt.Sprintf("Delete(%d)", e.OriginalIndex)
	default:
		return "Entry(?)"
	}
}

// LineRangeMapping is one correspondence between a run of original cell
// indices and a run of modified cell indices, as produced by a line diff
// over the serialized cell sequences. Ranges are half-open [Start, End) and
// mappings are disjoint and ascending.
type LineRangeMapping struct {
	OriginalStart int
	OriginalEnd   int
	ModifiedStart int
	ModifiedEnd   int
}

// String returns a human-readable representation of the mapping.
func (m LineRangeMapping) String() string {
	return fmt.Sprintf("[%d,%d)->[%d,%d)", m.OriginalStart, m.OriginalEnd, m.ModifiedStart, m.ModifiedEnd)
}

// Compute turns two cell-snapshot sequences plus their line-range
// correspondences into an ordered diff. Every original index appears in
// exactly one Unchanged or Delete entry and every modified index in exactly
// one Unchanged or Insert entry.
//
// Within a changed region cells are paired at corresponding relative
// positions: equal pairs emit Unchanged, unequal pairs emit a Delete with
// the matching Insert deferred until the next Unchanged entry or the end of
// the region, so consecutive changed slots group their deletes ahead of
// their inserts.
func Compute(original, modified []notebook.CellSnapshot, mappings []LineRangeMapping) []Entry {
	var out []Entry
	var pendingInserts []Entry

	flush := func() {
		out = append(out, pendingInserts...)
		pendingInserts = pendingInserts[:0]
	}

	origIdx, modIdx := 0, 0
	for _, m := range mappings {
		for origIdx < m.OriginalStart && modIdx < m.ModifiedStart {
			out = append(out, Entry{Kind: EntryUnchanged, OriginalIndex: origIdx, ModifiedIndex: modIdx})
			origIdx++
			modIdx++
		}

		origLen := m.OriginalEnd - m.OriginalStart
		modLen := m.ModifiedEnd - m.ModifiedStart
		paired := min(origLen, modLen)
		for i := 0; i < paired; i++ {
			o := m.OriginalStart + i
			md := m.ModifiedStart + i
			if original[o].Equal(modified[md]) {
				flush()
				out = append(out, Entry{Kind: EntryUnchanged, OriginalIndex: o, ModifiedIndex: md})
				continue
			}
			out = append(out, Entry{Kind: EntryDelete, OriginalIndex: o, ModifiedIndex: -1})
			pendingInserts = append(pendingInserts, Entry{Kind: EntryInsert, OriginalIndex: -1, ModifiedIndex: md})
		}
		for i := paired; i < origLen; i++ {
			out = append(out, Entry{Kind: EntryDelete, OriginalIndex: m.OriginalStart + i, ModifiedIndex: -1})
		}
		for i := paired; i < modLen; i++ {
			pendingInserts = append(pendingInserts, Entry{Kind: EntryInsert, OriginalIndex: -1, ModifiedIndex: m.ModifiedStart + i})
		}
		flush()

		origIdx = m.OriginalEnd
		modIdx = m.ModifiedEnd
	}

	for origIdx < len(original) && modIdx < len(modified) {
		out = append(out, Entry{Kind: EntryUnchanged, OriginalIndex: origIdx, ModifiedIndex: modIdx})
		origIdx++
		modIdx++
	}
	for origIdx < len(original) {
		out = append(out, Entry{Kind: EntryDelete, OriginalIndex: origIdx, ModifiedIndex: -1})
		origIdx++
	}
	for modIdx < len(modified) {
		out = append(out, Entry{Kind: EntryInsert, OriginalIndex: -1, ModifiedIndex: modIdx})
		modIdx++
	}
	return out
}

// Diff computes the structural diff between two snapshot sequences,
// deriving the line-range mappings itself.
func Diff(original, modified []notebook.CellSnapshot) []Entry {
	return Compute(original, modified, LineMappings(original, modified))
}
