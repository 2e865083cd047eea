package altdoc

import (
	"context"
	"iter"
	"slices"
	"testing"

	"github.com/zugzugs/nbflat/internal/notebook"
)

// pyNotebook builds an in-memory python notebook from cells.
func pyNotebook(cells ...*notebook.DataCell) *notebook.Data {
	return &notebook.Data{DocURI: "mem:test.ipynb", Language: "python", CellList: cells}
}

// streamLines yields the text's lines without terminators, dropping the
// empty line a trailing terminator would produce (scanner semantics).
func streamLines(text string) iter.Seq[string] {
	lines := notebook.SplitLines(text)
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return slices.Values(lines)
}

// parsedCell is one reconstructed cell from a parse stream.
type parsedCell struct {
	id       string
	language string
	kind     notebook.CellKind
	lines    []string
}

// parseCells runs a full parse and groups events per cell, asserting the
// event grammar (start, line*, end) along the way.
func parseCells(t *testing.T, d Dialect, nb notebook.Notebook, text string) []parsedCell {
	t.Helper()
	var cells []parsedCell
	open := false
	for event, err := range d.Parse(context.Background(), nb, streamLines(text)) {
		if err != nil {
			t.Fatalf("parse error: %v", err)
		}
		switch event.Type {
		case EventCellStart:
			if open {
				t.Fatalf("start event while cell %d open", len(cells)-1)
			}
			if event.Index != len(cells) {
				t.Fatalf("start index = %d, want %d", event.Index, len(cells))
			}
			cells = append(cells, parsedCell{id: event.ID, language: event.Language, kind: event.Kind})
			open = true
		case EventCellLine:
			if !open {
				t.Fatal("line event with no open cell")
			}
			cells[len(cells)-1].lines = append(cells[len(cells)-1].lines, event.Line)
		case EventCellEnd:
			if !open {
				t.Fatal("end event with no open cell")
			}
			open = false
		}
	}
	if open {
		t.Fatal("stream ended with cell still open")
	}
	return cells
}

// assertRoundTrip checks that parsing the rendered notebook reproduces one
// event group per original cell with matching id, language, kind and lines.
func assertRoundTrip(t *testing.T, d Dialect, nb *notebook.Data) {
	t.Helper()
	cells := parseCells(t, d, nb, Render(d, nb))
	if len(cells) != nb.CellCount() {
		t.Fatalf("parsed %d cells, want %d", len(cells), nb.CellCount())
	}
	for i, got := range cells {
		want := nb.CellList[i]
		if got.id != want.ID() {
			t.Errorf("cell %d id = %q, want %q", i, got.id, want.ID())
		}
		if got.language != want.Language() {
			t.Errorf("cell %d language = %q, want %q", i, got.language, want.Language())
		}
		if got.kind != want.Kind() {
			t.Errorf("cell %d kind = %s, want %s", i, got.kind, want.Kind())
		}
		wantLines := notebook.SplitLines(want.Text())
		if !slices.Equal(got.lines, wantLines) {
			t.Errorf("cell %d lines = %q, want %q", i, got.lines, wantLines)
		}
	}
}
