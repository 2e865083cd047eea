package altdoc

import (
	"errors"
	"testing"

	"github.com/zugzugs/nbflat/internal/notebook"
	"github.com/zugzugs/nbflat/internal/textmap"
)

// checkPatched asserts the two incremental-update postconditions: the edit
// batch replays the old text into the new one, and the patched document is
// byte-identical to a full re-render of the notebook's current state.
func checkPatched(t *testing.T, oldText string, newDoc *Document, edits []textmap.OffsetEdit, nb notebook.Notebook) {
	t.Helper()
	if got := textmap.ApplyEdits(oldText, edits); got != newDoc.Text() {
		t.Errorf("replaying edits gives %q, want %q", got, newDoc.Text())
	}
	full := NewDocument(newDoc.Dialect(), nb)
	if full.Text() != newDoc.Text() {
		t.Errorf("patched text %q != full re-render %q", newDoc.Text(), full.Text())
	}
	gotEntries, wantEntries := newDoc.Entries(), full.Entries()
	if len(gotEntries) != len(wantEntries) {
		t.Fatalf("%d entries after patch, want %d", len(gotEntries), len(wantEntries))
	}
	for i := range gotEntries {
		g, w := gotEntries[i], wantEntries[i]
		if g.Offset != w.Offset || g.SourceOffset != w.SourceOffset || g.SourceEnd != w.SourceEnd {
			t.Errorf("entry %d = %s, want %s", i, g, w)
		}
	}
}

func TestCellTextChange(t *testing.T) {
	a := &notebook.DataCell{CellID: "a", Lang: "python", Source: "x = 1"}
	b := &notebook.DataCell{CellID: "b", Lang: "python", Source: "y = 2"}
	nb := pyNotebook(a, b)
	doc := NewDocument(NewTextDialect(), nb)
	oldText := doc.Text()

	// Host replaces "1" with "42" and reports the change against the
	// pre-change cell text.
	a.Source = "x = 42"
	newDoc, edits, err := ApplyCellTextChange(doc, a, []notebook.TextChange{
		{RangeOffset: 4, RangeLength: 1, Text: "42"},
	})
	if err != nil {
		t.Fatalf("ApplyCellTextChange: %v", err)
	}
	if len(edits) != 1 {
		t.Fatalf("%d edits, want 1", len(edits))
	}
	checkPatched(t, oldText, newDoc, edits, nb)
}

func TestCellTextChangeMultiLineExpansion(t *testing.T) {
	a := &notebook.DataCell{CellID: "a", Lang: "python", Source: `print("Hello World")`}
	b := &notebook.DataCell{CellID: "b", Lang: "python", Source: "pass"}
	nb := pyNotebook(a, b)
	doc := NewDocument(NewTextDialect(), nb)
	oldText := doc.Text()
	oldLines := doc.LineCount()

	replacement := "Foo Bar\")\nprint(\"Another line\")\nprint(\"Yet another line"
	a.Source = "print(\"Foo Bar\")\nprint(\"Another line\")\nprint(\"Yet another line\")"
	newDoc, edits, err := ApplyCellTextChange(doc, a, []notebook.TextChange{
		{RangeOffset: 7, RangeLength: 11, Text: replacement},
	})
	if err != nil {
		t.Fatalf("ApplyCellTextChange: %v", err)
	}
	if got := newDoc.LineCount(); got != oldLines+2 {
		t.Errorf("LineCount = %d, want %d (two inserted lines)", got, oldLines+2)
	}
	checkPatched(t, oldText, newDoc, edits, nb)
}

func TestCellTextChangeMultiple(t *testing.T) {
	a := &notebook.DataCell{CellID: "a", Lang: "python", Source: "alpha\nbeta\ngamma"}
	nb := pyNotebook(a)
	doc := NewDocument(NewTextDialect(), nb)
	oldText := doc.Text()

	// Two non-overlapping replacements, both against the pre-change text:
	// "alpha" -> "a" and "gamma" -> "gggg".
	a.Source = "a\nbeta\ngggg"
	newDoc, edits, err := ApplyCellTextChange(doc, a, []notebook.TextChange{
		{RangeOffset: 0, RangeLength: 5, Text: "a"},
		{RangeOffset: 11, RangeLength: 5, Text: "gggg"},
	})
	if err != nil {
		t.Fatalf("ApplyCellTextChange: %v", err)
	}
	checkPatched(t, oldText, newDoc, edits, nb)
}

func TestCellTextChangeCRLF(t *testing.T) {
	a := &notebook.DataCell{CellID: "a", Lang: "python", Source: "x = 1\r\ny = 2", LineEnding: "\r\n"}
	b := &notebook.DataCell{CellID: "b", Lang: "python", Source: "z = 3"}
	nb := pyNotebook(a, b)
	doc := NewDocument(NewTextDialect(), nb)
	oldText := doc.Text()

	a.Source = "x = 1\r\ny = 2\r\nw = 4"
	newDoc, edits, err := ApplyCellTextChange(doc, a, []notebook.TextChange{
		{RangeOffset: 12, RangeLength: 0, Text: "\r\nw = 4"},
	})
	if err != nil {
		t.Fatalf("ApplyCellTextChange: %v", err)
	}
	checkPatched(t, oldText, newDoc, edits, nb)
}

func TestCellTextChangeOutOfSpan(t *testing.T) {
	a := &notebook.DataCell{CellID: "a", Lang: "python", Source: "x = 1"}
	doc := NewDocument(NewTextDialect(), pyNotebook(a))
	_, _, err := ApplyCellTextChange(doc, a, []notebook.TextChange{
		{RangeOffset: 3, RangeLength: 10, Text: ""},
	})
	if !errors.Is(err, ErrProjectionDesync) {
		t.Fatalf("err = %v, want ErrProjectionDesync", err)
	}
}

func TestCellTextChangeUnknownCell(t *testing.T) {
	doc := NewDocument(NewTextDialect(), pyNotebook(
		&notebook.DataCell{CellID: "a", Lang: "python", Source: "x = 1"},
	))
	stranger := &notebook.DataCell{CellID: "zz", Lang: "python", Source: "q"}
	_, _, err := ApplyCellTextChange(doc, stranger, nil)
	if !errors.Is(err, ErrCellNotFound) {
		t.Fatalf("err = %v, want ErrCellNotFound", err)
	}
}

func TestStructuralInsertIntoEmpty(t *testing.T) {
	nb := pyNotebook()
	doc := NewDocument(NewTextDialect(), nb)

	a := &notebook.DataCell{CellID: "a", Lang: "python", Source: "x = 1"}
	nb.CellList = []*notebook.DataCell{a}
	newDoc, edits, ok, err := ApplyStructuralChange(doc, nb, []notebook.StructuralChange{
		{Start: 0, Added: []notebook.Cell{a}},
	})
	if err != nil || !ok {
		t.Fatalf("ApplyStructuralChange: ok=%v err=%v", ok, err)
	}
	if len(edits) != 1 {
		t.Fatalf("%d edits, want 1 pure insertion", len(edits))
	}
	if e := edits[0]; e.Range.Start != 0 || !e.Range.IsEmpty() || e.NewText != newDoc.Text() {
		t.Errorf("edit = %s, want insertion of the whole block at offset 0", e)
	}
	checkPatched(t, "", newDoc, edits, nb)
}

func TestStructuralInsertBetween(t *testing.T) {
	a := &notebook.DataCell{CellID: "a", Lang: "python", Source: "x = 1"}
	c := &notebook.DataCell{CellID: "c", Lang: "python", Source: "z = 3"}
	nb := pyNotebook(a, c)
	doc := NewDocument(NewTextDialect(), nb)
	oldText := doc.Text()

	b := &notebook.DataCell{CellID: "b", Lang: "python", Source: "y = 2"}
	nb.CellList = []*notebook.DataCell{a, b, c}
	newDoc, edits, ok, err := ApplyStructuralChange(doc, nb, []notebook.StructuralChange{
		{Start: 1, Added: []notebook.Cell{b}},
	})
	if err != nil || !ok {
		t.Fatalf("ApplyStructuralChange: ok=%v err=%v", ok, err)
	}
	checkPatched(t, oldText, newDoc, edits, nb)
}

func TestStructuralInsertManyAtOneAnchor(t *testing.T) {
	a := &notebook.DataCell{CellID: "a", Lang: "python", Source: "x = 1"}
	d := &notebook.DataCell{CellID: "d", Lang: "python", Source: "w = 4"}
	nb := pyNotebook(a, d)
	doc := NewDocument(NewTextDialect(), nb)
	oldText := doc.Text()

	b := &notebook.DataCell{CellID: "b", Lang: "python", Source: "y = 2"}
	c := &notebook.DataCell{CellID: "c", Lang: "python", Source: "z = 3"}
	nb.CellList = []*notebook.DataCell{a, b, c, d}
	newDoc, edits, ok, err := ApplyStructuralChange(doc, nb, []notebook.StructuralChange{
		{Start: 1, Added: []notebook.Cell{b, c}},
	})
	if err != nil || !ok {
		t.Fatalf("ApplyStructuralChange: ok=%v err=%v", ok, err)
	}
	checkPatched(t, oldText, newDoc, edits, nb)
}

func TestStructuralInsertBeforeEarlierInsert(t *testing.T) {
	a := &notebook.DataCell{CellID: "a", Lang: "python", Source: "x = 1"}
	nb := pyNotebook(a)
	doc := NewDocument(NewTextDialect(), nb)
	oldText := doc.Text()

	// Two change records in one event: first append c at the end, then
	// insert b before it. Both land at the same old-text offset, so list
	// order of the produced edits must keep notebook order.
	b := &notebook.DataCell{CellID: "b", Lang: "python", Source: "y = 2"}
	c := &notebook.DataCell{CellID: "c", Lang: "python", Source: "z = 3"}
	nb.CellList = []*notebook.DataCell{a, b, c}
	newDoc, edits, ok, err := ApplyStructuralChange(doc, nb, []notebook.StructuralChange{
		{Start: 1, Added: []notebook.Cell{c}},
		{Start: 1, Added: []notebook.Cell{b}},
	})
	if err != nil || !ok {
		t.Fatalf("ApplyStructuralChange: ok=%v err=%v", ok, err)
	}
	checkPatched(t, oldText, newDoc, edits, nb)
}

func TestStructuralRemoveMiddle(t *testing.T) {
	a := &notebook.DataCell{CellID: "a", Lang: "python", Source: "x = 1"}
	b := &notebook.DataCell{CellID: "b", Lang: "python", Source: "y = 2"}
	c := &notebook.DataCell{CellID: "c", Lang: "python", Source: "z = 3"}
	nb := pyNotebook(a, b, c)
	doc := NewDocument(NewTextDialect(), nb)
	oldText := doc.Text()

	nb.CellList = []*notebook.DataCell{a, c}
	newDoc, edits, ok, err := ApplyStructuralChange(doc, nb, []notebook.StructuralChange{
		{Start: 1, Removed: []notebook.Cell{b}},
	})
	if err != nil || !ok {
		t.Fatalf("ApplyStructuralChange: ok=%v err=%v", ok, err)
	}
	if len(edits) != 1 || edits[0].NewText != "" {
		t.Fatalf("edits = %v, want 1 pure deletion", edits)
	}
	checkPatched(t, oldText, newDoc, edits, nb)
}

func TestStructuralRemoveAll(t *testing.T) {
	a := &notebook.DataCell{CellID: "a", Lang: "python", Source: "x = 1"}
	b := &notebook.DataCell{CellID: "b", Lang: "python", Source: "y = 2"}
	nb := pyNotebook(a, b)
	doc := NewDocument(NewTextDialect(), nb)
	oldText := doc.Text()

	nb.CellList = nil
	newDoc, edits, ok, err := ApplyStructuralChange(doc, nb, []notebook.StructuralChange{
		{Start: 0, Removed: []notebook.Cell{a, b}},
	})
	if err != nil || !ok {
		t.Fatalf("ApplyStructuralChange: ok=%v err=%v", ok, err)
	}
	if newDoc.Text() != "" {
		t.Errorf("text after removing every cell = %q, want empty", newDoc.Text())
	}
	checkPatched(t, oldText, newDoc, edits, nb)
}

func TestStructuralReplaceMiddle(t *testing.T) {
	a := &notebook.DataCell{CellID: "a", Lang: "python", Source: "x = 1"}
	b := &notebook.DataCell{CellID: "b", Lang: "python", Source: "y = 2"}
	c := &notebook.DataCell{CellID: "c", Lang: "python", Source: "z = 3"}
	nb := pyNotebook(a, b, c)
	doc := NewDocument(NewTextDialect(), nb)
	oldText := doc.Text()

	r := &notebook.DataCell{CellID: "r", Lang: "markdown", CellKind: notebook.KindMarkup, Source: "note"}
	nb.CellList = []*notebook.DataCell{a, r, c}
	newDoc, edits, ok, err := ApplyStructuralChange(doc, nb, []notebook.StructuralChange{
		{Start: 1, Removed: []notebook.Cell{b}, Added: []notebook.Cell{r}},
	})
	if err != nil || !ok {
		t.Fatalf("ApplyStructuralChange: ok=%v err=%v", ok, err)
	}
	checkPatched(t, oldText, newDoc, edits, nb)
}

func TestStructuralRenameFallsBack(t *testing.T) {
	a := &notebook.DataCell{CellID: "a", Lang: "python", Source: "x = 1"}
	nb := pyNotebook(a)
	doc := NewDocument(NewTextDialect(), nb)

	renamed := &notebook.DataCell{CellID: "a", Lang: "python", Source: "x = 1"}
	_, _, ok, err := ApplyStructuralChange(doc, nb, []notebook.StructuralChange{
		{Start: 0, Removed: []notebook.Cell{a}, Added: []notebook.Cell{renamed}},
	})
	if err != nil {
		t.Fatalf("ApplyStructuralChange: %v", err)
	}
	if ok {
		t.Fatal("remove+re-add of the same id must fall back to full re-render")
	}
}

func TestStructuralRemoveUnknown(t *testing.T) {
	a := &notebook.DataCell{CellID: "a", Lang: "python", Source: "x = 1"}
	nb := pyNotebook(a)
	doc := NewDocument(NewTextDialect(), nb)

	stranger := &notebook.DataCell{CellID: "zz", Lang: "python", Source: "q"}
	_, _, _, err := ApplyStructuralChange(doc, nb, []notebook.StructuralChange{
		{Start: 0, Removed: []notebook.Cell{stranger}},
	})
	if !errors.Is(err, ErrProjectionDesync) {
		t.Fatalf("err = %v, want ErrProjectionDesync", err)
	}
}

func TestStructuralXMLDialect(t *testing.T) {
	a := &notebook.DataCell{CellID: "a", Lang: "python", Source: "x = 1"}
	c := &notebook.DataCell{CellID: "c", Lang: "python", Source: "z = 3"}
	nb := pyNotebook(a, c)
	doc := NewDocument(NewXMLDialect(), nb)
	oldText := doc.Text()

	b := &notebook.DataCell{CellID: "b", Lang: "markdown", CellKind: notebook.KindMarkup, Source: "# note"}
	nb.CellList = []*notebook.DataCell{a, b, c}
	newDoc, edits, ok, err := ApplyStructuralChange(doc, nb, []notebook.StructuralChange{
		{Start: 1, Added: []notebook.Cell{b}},
	})
	if err != nil || !ok {
		t.Fatalf("ApplyStructuralChange: ok=%v err=%v", ok, err)
	}
	checkPatched(t, oldText, newDoc, edits, nb)
}
