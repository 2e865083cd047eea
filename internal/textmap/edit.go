package textmap

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/zugzugs/nbflat/internal/notebook"
)

// OffsetRange is a byte span over a flat text.
// Start is inclusive, End is exclusive: [Start, End).
type OffsetRange struct {
	Start int
	End   int
}

// String returns a human-readable representation of the range.
func (r OffsetRange) String() string {
	return fmt.Sprintf("[%d:%d)", r.Start, r.End)
}

// Len returns the length of the range in bytes.
func (r OffsetRange) Len() int { return r.End - r.Start }

// IsEmpty returns true if the range has zero length.
func (r OffsetRange) IsEmpty() bool { return r.Start == r.End }

// Contains returns true if the given offset is within the range.
func (r OffsetRange) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// Translate returns the range shifted by delta.
func (r OffsetRange) Translate(delta int) OffsetRange {
	return OffsetRange{Start: r.Start + delta, End: r.End + delta}
}

// Edit is a position-ranged text edit.
type Edit struct {
	Range   notebook.Range
	NewText string
}

// OffsetEdit is an offset-ranged text edit.
type OffsetEdit struct {
	Range   OffsetRange
	NewText string
}

// String returns a human-readable representation of the edit.
func (e OffsetEdit) String() string {
	if e.Range.IsEmpty() {
		return fmt.Sprintf("Insert(%d, %q)", e.Range.Start, e.NewText)
	}
	if e.NewText == "" {
		return fmt.Sprintf("Delete%s", e.Range)
	}
	return fmt.Sprintf("Replace%s with %q", e.Range, e.NewText)
}

// Delta returns the change in text length caused by this edit.
func (e OffsetEdit) Delta() int {
	return len(e.NewText) - e.Range.Len()
}

// ApplyEdits applies a batch of edits to text as one atomic step.
// Edits are sorted by start offset (stably, so same-offset insertions keep
// input order) and all ranges refer to the text before any edit applied.
// Overlapping ranges are a caller error with undefined result.
func ApplyEdits(text string, edits []OffsetEdit) string {
	if len(edits) == 0 {
		return text
	}
	sorted := slices.Clone(edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Range.Start < sorted[j].Range.Start
	})

	var b strings.Builder
	last := 0
	for _, e := range sorted {
		start := clampInt(e.Range.Start, last, len(text))
		end := clampInt(e.Range.End, start, len(text))
		b.WriteString(text[last:start])
		b.WriteString(e.NewText)
		last = end
	}
	b.WriteString(text[last:])
	return b.String()
}
