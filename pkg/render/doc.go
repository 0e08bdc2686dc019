// Package render interprets the annotations of markup blocks: font
// selection, foreground and background colours, and box edges. Frontends
// draw the resulting segments without looking at annotation stacks.
package render
