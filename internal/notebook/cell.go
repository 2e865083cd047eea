package notebook

// Cell is the host-provided view of a single notebook cell.
// Implementations are live objects owned by the editor host; the engine never
// retains them beyond the lifetime of one projection and never compares them
// by identity (see CellSnapshot).
type Cell interface {
	// ID returns the cell's stable identifier, or "" if unassigned.
	ID() string

	// Language returns the language id of the cell's document.
	Language() string

	// Kind returns whether the cell holds code or markup.
	Kind() CellKind

	// Text returns the full text of the cell's document.
	Text() string

	// EOL returns the line terminator used by the cell's document
	// ("\n" or "\r\n").
	EOL() string
}

// Notebook is the host-provided view of a notebook document.
type Notebook interface {
	// URI identifies the notebook document.
	URI() string

	// DefaultLanguage returns the notebook's primary language id
	// (e.g. "python"). May be empty if the notebook has no kernel.
	DefaultLanguage() string

	// CellCount returns the number of cells.
	CellCount() int

	// CellAt returns the cell at the given index.
	// Index must be in [0, CellCount()).
	CellAt(index int) Cell

	// Cells returns the ordered cell list.
	Cells() []Cell
}

// TextChange describes one contiguous edit to a cell document, as delivered
// by a host change notification. Offsets are byte offsets into the cell's
// text before the change.
type TextChange struct {
	// Range is the replaced span in the cell's own coordinates.
	Range Range

	// RangeOffset is the byte offset of Range.Start in the cell's text.
	RangeOffset int

	// RangeLength is the byte length of the replaced span.
	RangeLength int

	// Text is the replacement text.
	Text string
}

// StructuralChange describes cells added and removed at one point of a
// notebook, as delivered by a host structural change notification.
// Multiple changes in one event apply in order.
type StructuralChange struct {
	// Start is the cell index the change applies at, in the notebook's
	// post-change coordinates.
	Start int

	// Removed lists the cells deleted from the notebook.
	Removed []Cell

	// Added lists the cells inserted at Start, in order.
	Added []Cell
}
