// Package bk390a decodes the serial telemetry of the BK Precision 390A
// handheld multimeter.
//
// # Frame Format
//
// The meter emits one fixed-size frame per measurement cycle: nine payload
// bytes followed by a line-feed (0x0A) terminator.
//
//	offset  field     meaning
//	0       range     low nibble: range index
//	1..4    digits    low nibble of each byte: one decimal digit, MSD first
//	5       function  measurement mode (see the Function constants)
//	6       status    OL, low battery, sign and "judge" flags
//	7       option1   VA/Hz, min-hold and max-hold flags
//	8       option2   auto-power-off, auto-range, AC and DC flags
//
// The judge flag is a mode dependent selector: it distinguishes Frequency from
// RPM and Celsius from Fahrenheit.
//
// # Pipeline
//
// The package is split in three independent stages:
//
//   - [FrameReader] synchronizes on the terminator and assembles [RawFrame]
//     values from a [Port], reporting [ErrNoConnection], [ErrOverrun] and
//     [ErrShortFrame].
//   - [Decode] turns a RawFrame into a [Measurement] using fixed lookup tables
//     keyed by function, range index and judge flag. Function codes outside the
//     documented set yield [ErrUnknownFunction]; range indexes outside a
//     function's table yield [ErrInvalidRange].
//   - [Format] renders a Measurement into the value and mode display lines.
//
// Decode and Format are pure functions. FrameReader keeps no state between calls.
package bk390a
