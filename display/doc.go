// Package display turns decoded measurements into what the meter window shows.
//
// A [Board] remembers the last trustworthy update so that undecodable frames
// hold the previous display instead of showing garbage, and produces the
// "N/C" / "Check RS232" state while the serial line is silent. Updates are
// handed to a [Renderer]; [TextRenderer] draws them on a terminal and
// [ChanRenderer] forwards them, in order, to another goroutine.
package display
