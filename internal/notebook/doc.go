// Package notebook defines the boundary types shared with the editor host:
// positions and ranges, cell and notebook views, change notification shapes,
// and content snapshots used for identity-free cell comparison.
//
// The engine treats host cell and notebook objects as opaque. All comparison
// goes through CellSnapshot, which captures id, language, kind and source
// lines by value, so nothing depends on reference equality of host objects
// across render passes.
package notebook
