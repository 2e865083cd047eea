package notebook

import "fmt"

// Position represents a line and column position in a text document.
// Both Line and Character are 0-indexed. Character is measured in UTF-16
// code units within the line, matching the host editor protocol.
type Position struct {
	Line      int // 0-indexed line number
	Character int // 0-indexed column in UTF-16 code units
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Character)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Position) Compare(other Position) int {
	if p.Line < other.Line {
		return -1
	}
	if p.Line > other.Line {
		return 1
	}
	if p.Character < other.Character {
		return -1
	}
	if p.Character > other.Character {
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Position) Before(other Position) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Position) After(other Position) bool {
	return p.Compare(other) > 0
}

// IsZero returns true if this is the zero position (0:0).
func (p Position) IsZero() bool {
	return p.Line == 0 && p.Character == 0
}

// Range represents a span between two positions.
// Start is inclusive, End is exclusive. Start <= End lexicographically.
type Range struct {
	Start Position
	End   Position
}

// NewRange creates a Range from start and end line/character pairs.
func NewRange(startLine, startChar, endLine, endChar int) Range {
	return Range{
		Start: Position{Line: startLine, Character: startChar},
		End:   Position{Line: endLine, Character: endChar},
	}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%s-%s)", r.Start, r.End)
}

// IsEmpty returns true if the range has zero length.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// IsValid returns true if Start does not come after End.
func (r Range) IsValid() bool {
	return !r.Start.After(r.End)
}

// Contains returns true if the given position is within the range.
func (r Range) Contains(p Position) bool {
	return !p.Before(r.Start) && p.Before(r.End)
}

// CellKind identifies the type of a notebook cell.
type CellKind uint8

const (
	// KindCode is an executable code cell.
	KindCode CellKind = iota

	// KindMarkup is a markup (documentation) cell.
	KindMarkup
)

// String returns a human-readable representation of the cell kind.
func (k CellKind) String() string {
	switch k {
	case KindCode:
		return "code"
	case KindMarkup:
		return "markup"
	default:
		return "unknown"
	}
}
