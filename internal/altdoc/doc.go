// Package altdoc projects a multi-cell notebook into a single flattened
// text document that a text-oriented language model can read and write,
// while maintaining an exact invertible mapping between flattened positions
// and per-cell positions.
//
// The package provides:
//
//   - Two serialization dialects (text markers and XML tags) behind the
//     Dialect interface
//   - Document, the immutable flattened projection with line, position and
//     range queries plus cell<->flat position translation
//   - A streaming parser that reconstructs cell-boundary events from
//     flattened text as a model emits it line by line
//   - Incremental updaters that patch the projection for cell text changes
//     and notebook structural changes without a full re-render, returning
//     the equivalent edit batch against the previous text
//
// The notebook is always the source of truth; a Document is a derived,
// disposable view. Every incremental path has NewDocument as its semantic
// reference: applying the returned edits to the old text must equal the
// freshly rendered text, and tests pin that equivalence.
//
// Operations are synchronous and documents immutable, so there is no
// locking; callers serialize change events per notebook (host contract).
package altdoc
