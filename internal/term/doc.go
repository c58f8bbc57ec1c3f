// Package term renders the debug overlay into a terminal.
//
// It implements the overlay backend interfaces on the CPU: buffers are
// plain byte slices, and each draw decodes the uploaded instances and
// writes them to a tcell.Screen. Glyph quads become runes, rectangle
// quads fill cell backgrounds and lines are rasterized cell by cell.
//
// The terminal preview is used by cmd/overlaydemo and by tests that want
// to see what a frame contains without a GPU.
package term
