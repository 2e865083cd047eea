package notebook

import (
	"hash/fnv"
	"strconv"
)

// CellSnapshot is an immutable, comparison-friendly extract of a cell's
// essential content. Two snapshots are content-equal iff id, language, kind
// and source lines are equal; host cell object identity never matters.
type CellSnapshot struct {
	ID       string
	Language string
	Kind     CellKind
	Source   []string // source split into lines, terminators removed
}

// Summarize extracts a snapshot from a cell. The snapshot holds no reference
// to the cell, so two calls on an unchanged cell produce structurally equal
// snapshots.
func Summarize(c Cell) CellSnapshot {
	return CellSnapshot{
		ID:       c.ID(),
		Language: c.Language(),
		Kind:     c.Kind(),
		Source:   SplitLines(c.Text()),
	}
}

// Equal reports whether two snapshots have the same content.
func (s CellSnapshot) Equal(other CellSnapshot) bool {
	if s.ID != other.ID || s.Language != other.Language || s.Kind != other.Kind {
		return false
	}
	if len(s.Source) != len(other.Source) {
		return false
	}
	for i, line := range s.Source {
		if line != other.Source[i] {
			return false
		}
	}
	return true
}

// Fingerprint returns a stable content hash of the snapshot, usable as a
// synthetic diff line. Snapshots with equal content have equal fingerprints.
func (s CellSnapshot) Fingerprint() string {
	h := fnv.New64a()
	h.Write([]byte(s.ID))
	h.Write([]byte{0})
	h.Write([]byte(s.Language))
	h.Write([]byte{0, byte(s.Kind), 0})
	for _, line := range s.Source {
		h.Write([]byte(line))
		h.Write([]byte{0})
	}
	return strconv.FormatUint(h.Sum64(), 16)
}

// SplitLines splits text into lines on "\r\n", "\r", or "\n", removing the
// terminators. The result always contains at least one (possibly empty) line.
func SplitLines(text string) []string {
	var lines []string
	start := 0
	i := 0
	for i < len(text) {
		switch text[i] {
		case '\n':
			lines = append(lines, text[start:i])
			i++
			start = i
		case '\r':
			lines = append(lines, text[start:i])
			i++
			if i < len(text) && text[i] == '\n' {
				i++
			}
			start = i
		default:
			i++
		}
	}
	return append(lines, text[start:])
}
