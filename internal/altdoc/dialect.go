package altdoc

import (
	"context"
	"iter"
	"strings"

	"github.com/zugzugs/nbflat/internal/notebook"
)

// ParseEventType identifies a cell-boundary event emitted by a streaming parse.
type ParseEventType uint8

const (
	// EventCellStart opens a new cell. Carries ID, Language and Kind.
	EventCellStart ParseEventType = iota

	// EventCellLine re-emits one source line of the open cell.
	EventCellLine

	// EventCellEnd closes the open cell.
	EventCellEnd
)

// String returns a human-readable representation of the event type.
func (t ParseEventType) String() string {
	switch t {
	case EventCellStart:
		return "start"
	case EventCellLine:
		return "line"
	case EventCellEnd:
		return "end"
	default:
		return "unknown"
	}
}

// ParseEvent is one cell-boundary event of a streaming parse. Index counts
// cells from 0 in stream order. ID may be empty for unidentified cells.
type ParseEvent struct {
	Type     ParseEventType
	Index    int
	ID       string
	Language string
	Kind     notebook.CellKind
	Line     string // set for EventCellLine only
}

// renderedCell is one cell's contribution to the flattened text.
// headerLen covers the marker line (and, for markup, the opening block
// comment line); sourceLen covers the cell source verbatim. The block ends
// with the cell's EOL, so blocks concatenate with no separator.
type renderedCell struct {
	text      string
	headerLen int
	sourceLen int
}

// Dialect is a concrete rendering and parsing strategy for the flattened
// document. Position translation between cell and flat coordinates is
// dialect-independent given the offset-entry table and lives on Document.
type Dialect interface {
	// Name returns the dialect identifier ("text" or "xml").
	Name() string

	// Parse consumes a stream of flattened-document lines and lazily emits
	// cell-boundary events. The stream may be unbounded; cancellation is
	// checked at each line boundary and stops emission immediately without
	// a synthesized end event. Re-invoke with a fresh stream to restart.
	Parse(ctx context.Context, nb notebook.Notebook, lines iter.Seq[string]) iter.Seq2[ParseEvent, error]

	// SummarizeStructure renders a compact structural skeleton. Cells for
	// which include returns true render their marker and first non-blank
	// source line plus elisionMarker; excluded runs collapse to a single
	// elisionMarker line, never duplicated back-to-back. A nil include
	// keeps every cell.
	SummarizeStructure(nb notebook.Notebook, include func(notebook.Cell) bool, elisionMarker string) string

	// StripCellMarkers removes a single leading (and, for XML, trailing)
	// cell-delimiter line if present.
	StripCellMarkers(text string) string

	renderCell(nb notebook.Notebook, c notebook.Cell) renderedCell
}

// Render produces the full flattened text for a notebook in the given
// dialect. Rendering the same unmodified notebook twice is byte-identical.
func Render(d Dialect, nb notebook.Notebook) string {
	return NewDocument(d, nb).Text()
}

// markerIdentity tracks ids consumed so far in one parse stream and applies
// the duplicate/mismatch downgrade rules: a marker id that collides with an
// existing cell of a different language, or that repeats within the stream,
// is cleared so the parsed cell is treated as fresh and unidentified.
type markerIdentity struct {
	nb   notebook.Notebook
	seen map[string]bool
}

func newMarkerIdentity(nb notebook.Notebook) *markerIdentity {
	return &markerIdentity{nb: nb, seen: make(map[string]bool)}
}

// resolve normalizes a raw marker id/language pair into the id, language and
// kind to emit. A missing language falls back to the notebook default.
func (mi *markerIdentity) resolve(id, language string) (string, string, notebook.CellKind) {
	if language == "" {
		language = mi.nb.DefaultLanguage()
	}
	kind := notebook.KindCode
	if language == "markdown" {
		kind = notebook.KindMarkup
	}

	if id == "" {
		return "", language, kind
	}
	if existing := cellByID(mi.nb, id); existing != nil {
		if existing.Language() != language {
			return "", language, kind
		}
		kind = existing.Kind()
	}
	if mi.seen[id] {
		return "", language, kind
	}
	mi.seen[id] = true
	return id, language, kind
}

// cellByID finds a notebook cell by id, or nil.
func cellByID(nb notebook.Notebook, id string) notebook.Cell {
	for i := 0; i < nb.CellCount(); i++ {
		if c := nb.CellAt(i); c.ID() == id {
			return c
		}
	}
	return nil
}

// firstSignificantLine returns a cell's first non-blank source line, or "".
func firstSignificantLine(c notebook.Cell) string {
	for _, line := range notebook.SplitLines(c.Text()) {
		if strings.TrimSpace(line) != "" {
			return line
		}
	}
	return ""
}
