package celldiff

import (
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/zugzugs/nbflat/internal/notebook"
)

// LineMappings derives the line-range correspondences between two snapshot
// sequences. Each cell serializes to one synthetic line (its content
// fingerprint), the two serializations are line-diffed, and each maximal run
// of non-equal hunks becomes one mapping.
func LineMappings(original, modified []notebook.CellSnapshot) []LineRangeMapping {
	if len(original) == 0 && len(modified) == 0 {
		return nil
	}

	// Mappings only need line counts, not the line text, so the lookup
	// array from line mode goes unused.
	dmp := diffmatchpatch.New()
	c1, c2, _ := dmp.DiffLinesToChars(serializeCells(original), serializeCells(modified))
	diffs := dmp.DiffMain(c1, c2, false)

	var mappings []LineRangeMapping
	origLine, modLine := 0, 0
	inRegion := false
	var region LineRangeMapping

	for _, d := range diffs {
		// After DiffLinesToChars each rune stands for one whole line.
		n := utf8.RuneCountInString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			if inRegion {
				region.OriginalEnd = origLine
				region.ModifiedEnd = modLine
				mappings = append(mappings, region)
				inRegion = false
			}
			origLine += n
			modLine += n
		case diffmatchpatch.DiffDelete:
			if !inRegion {
				region = LineRangeMapping{OriginalStart: origLine, ModifiedStart: modLine}
				inRegion = true
			}
			origLine += n
		case diffmatchpatch.DiffInsert:
			if !inRegion {
				region = LineRangeMapping{OriginalStart: origLine, ModifiedStart: modLine}
				inRegion = true
			}
			modLine += n
		}
	}
	if inRegion {
		region.OriginalEnd = origLine
		region.ModifiedEnd = modLine
		mappings = append(mappings, region)
	}
	return mappings
}

// serializeCells renders one synthetic line per cell.
func serializeCells(cells []notebook.CellSnapshot) string {
	var b strings.Builder
	for _, c := range cells {
		b.WriteString(c.Fingerprint())
		b.WriteByte('\n')
	}
	return b.String()
}
