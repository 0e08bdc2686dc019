// Package markup turns a status line written in clubar's tag markup into an
// ordered list of text blocks.
//
// A status line mixes literal text with tags:
//
//	<Fg=#ff0000>warn</Fg> <BtnL:Shift=pavucontrol><Fn=1>vol</Fn></BtnL>
//
// Every tag kind owns a stack. Opening a tag pushes its value, closing it pops
// the most recent value of the same kind. Each maximal run of literal text is
// emitted as a Block carrying a copy of all stacks as they were when the run
// ended, so a renderer can style it (Fn, Fg, Bg, Box) or bind actions to it
// (BtnL, BtnM, BtnR, ScrlU, ScrlD) without tracking nesting itself.
//
// Malformed tags, unknown kind names, invalid modifiers and closing tags
// without a matching open tag are not errors: they are kept as literal text.
// The only failures are the representation limits in Limits.
//
// Stack nodes are recycled through a NodePool. A Segmenter owns one pool and
// is not safe for concurrent use; independent inputs should use independent
// segmenters.
package markup
