package bk390a

import (
	"strconv"
	"strings"
)

// OverloadText replaces the value line while the meter reports overload.
const OverloadText = "O.L."

// Lines holds the two display lines produced for one measurement.
type Lines struct {
	Value string
	Mode  string
}

// Format renders m as display text.
//
// The value line is a sign character (space or '-'), the reading with exactly
// DecimalPlaces fractional digits, then the prefix symbol and the unit with no
// separator, e.g. " 2.5mV". The mode line is the mode label when showMode is
// true and empty otherwise. Padding to a display width is left to the renderer.
func Format(m Measurement, showMode bool) Lines {
	var lines Lines
	if showMode {
		lines.Mode = m.Mode.String()
	}

	if m.Overload {
		lines.Value = OverloadText
		return lines
	}

	lines.Value = formatValue(m)

	return lines
}

func formatValue(m Measurement) string {
	dps := clampDecimalPlaces(m.DecimalPlaces)
	scale := pow10[dps]
	raw := int(m.RawValue)

	var sb strings.Builder
	if m.Negative {
		sb.WriteByte('-')
	} else {
		sb.WriteByte(' ')
	}

	sb.WriteString(strconv.Itoa(raw / scale))
	if dps > 0 {
		frac := strconv.Itoa(raw % scale)
		sb.WriteByte('.')
		sb.WriteString(strings.Repeat("0", int(dps)-len(frac)))
		sb.WriteString(frac)
	}

	sb.WriteString(m.Prefix.Symbol())
	sb.WriteString(m.Unit)

	return sb.String()
}
