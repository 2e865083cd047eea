package altdoc

import "errors"

// Standard errors returned by the alternative-content engine.
var (
	// ErrProjectionDesync indicates the flattened projection no longer
	// matches the notebook, e.g. an expected marker could not be located.
	// Fatal to the incremental path; callers recover with a full re-render.
	ErrProjectionDesync = errors.New("flattened projection out of sync with notebook")

	// ErrCellNotFound indicates a cell has no entry in the projection.
	ErrCellNotFound = errors.New("cell not present in flattened projection")

	// ErrMalformedMarker indicates a delimiter line that cannot be resolved
	// to a cell, e.g. an XML marker with no language attribute and no
	// notebook default language to fall back to.
	ErrMalformedMarker = errors.New("malformed cell marker")
)
