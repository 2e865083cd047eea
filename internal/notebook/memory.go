package notebook

// DataCell is a plain in-memory cell. It satisfies Cell and is used by the
// ipynb bridge, the CLI, and tests as a stand-in for host cell objects.
type DataCell struct {
	CellID     string
	Lang       string
	CellKind   CellKind
	Source     string
	LineEnding string // defaults to "\n" if empty
}

// ID returns the cell's identifier.
func (c *DataCell) ID() string { return c.CellID }

// Language returns the cell's language id.
func (c *DataCell) Language() string { return c.Lang }

// Kind returns the cell's kind.
func (c *DataCell) Kind() CellKind { return c.CellKind }

// Text returns the cell's source text.
func (c *DataCell) Text() string { return c.Source }

// EOL returns the cell's line terminator.
func (c *DataCell) EOL() string {
	if c.LineEnding == "" {
		return "\n"
	}
	return c.LineEnding
}

// Data is a plain in-memory notebook satisfying Notebook.
type Data struct {
	DocURI   string
	Language string
	CellList []*DataCell
}

// URI identifies the notebook.
func (d *Data) URI() string { return d.DocURI }

// DefaultLanguage returns the notebook's primary language.
func (d *Data) DefaultLanguage() string { return d.Language }

// CellCount returns the number of cells.
func (d *Data) CellCount() int { return len(d.CellList) }

// CellAt returns the cell at index.
func (d *Data) CellAt(index int) Cell { return d.CellList[index] }

// Cells returns the ordered cell list.
func (d *Data) Cells() []Cell {
	cells := make([]Cell, len(d.CellList))
	for i, c := range d.CellList {
		cells[i] = c
	}
	return cells
}

// Snapshots summarizes every cell in order.
func (d *Data) Snapshots() []CellSnapshot {
	snaps := make([]CellSnapshot, len(d.CellList))
	for i, c := range d.CellList {
		snaps[i] = Summarize(c)
	}
	return snaps
}
