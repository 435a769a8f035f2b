// Package formatting renders API responses for terminal display.
//
// Two presentations are supported: pretty-printed JSON with syntax
// highlighting, and fixed-column tables with semantic coloring of status
// values. Color is purely cosmetic; with highlighting disabled the JSON
// output remains valid indented JSON and table cells carry the plain
// value text.
package formatting
