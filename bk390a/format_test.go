package bk390a

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat_Value(t *testing.T) {
	tests := []struct {
		name string
		m    Measurement
		want string
	}{
		{
			name: "millivolts",
			m:    Measurement{Mode: ModeVolts, Unit: UnitVolt, Prefix: PrefixMilli, DecimalPlaces: 1, RawValue: 25},
			want: " 2.5mV",
		},
		{
			name: "no prefix three places",
			m:    Measurement{Mode: ModeVolts, Unit: UnitVolt, DecimalPlaces: 3, RawValue: 1234},
			want: " 1.234V",
		},
		{
			name: "leading fractional zeros",
			m:    Measurement{Mode: ModeCapacitance, Unit: UnitFarad, Prefix: PrefixNano, DecimalPlaces: 3, RawValue: 7},
			want: " 0.007nF",
		},
		{
			name: "zero places",
			m:    Measurement{Mode: ModeRPM, Unit: UnitRPM, Prefix: PrefixMega, DecimalPlaces: 0, RawValue: 9999},
			want: " 9999Mrpm",
		},
		{
			name: "negative",
			m:    Measurement{Mode: ModeAmps, Unit: UnitAmp, Prefix: PrefixMicro, DecimalPlaces: 1, RawValue: 1000, Negative: true},
			want: "-100.0µA",
		},
		{
			name: "negative zero keeps sign",
			m:    Measurement{Mode: ModeVolts, Unit: UnitVolt, DecimalPlaces: 2, RawValue: 0, Negative: true},
			want: "-0.00V",
		},
		{
			name: "ohms",
			m:    Measurement{Mode: ModeResistance, Unit: UnitOhm, Prefix: PrefixKilo, DecimalPlaces: 2, RawValue: 470},
			want: " 4.70kΩ",
		},
		{
			name: "temperature",
			m:    Measurement{Mode: ModeTemperature, Unit: UnitCelsius, RawValue: 23},
			want: " 23°C",
		},
		{
			name: "decimal places clamped",
			m:    Measurement{Mode: ModeVolts, Unit: UnitVolt, DecimalPlaces: 7, RawValue: 1234},
			want: " 1.234V",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.m, false).Value)
		})
	}
}

func TestFormat_Overload(t *testing.T) {
	m := Measurement{Mode: ModeResistance, Unit: UnitOhm, Prefix: PrefixMega, DecimalPlaces: 2, RawValue: 9999, Negative: true, Overload: true}

	lines := Format(m, true)
	assert.Equal(t, "O.L.", lines.Value)
	assert.Equal(t, "Resistance", lines.Mode)
}

func TestFormat_ModeLine(t *testing.T) {
	m := Measurement{Mode: ModeFrequency, Unit: UnitHertz, Prefix: PrefixKilo, DecimalPlaces: 3, RawValue: 1000}

	assert.Equal(t, Lines{Value: " 1.000kHz", Mode: "Frequency"}, Format(m, true))
	assert.Equal(t, Lines{Value: " 1.000kHz"}, Format(m, false))
}

func TestMeasurement_Value(t *testing.T) {
	m := Measurement{Prefix: PrefixKilo, DecimalPlaces: 2, RawValue: 470}
	assert.InDelta(t, 4.70, m.Value(), 1e-9)
	assert.InDelta(t, 4700, m.Scaled(), 1e-6)

	m.Negative = true
	assert.InDelta(t, -4700, m.Scaled(), 1e-6)
}

func TestPrefix(t *testing.T) {
	assert.Equal(t, "", PrefixNone.Symbol())
	assert.Equal(t, "µ", PrefixMicro.Symbol())
	assert.Equal(t, "milli", PrefixMilli.String())
	assert.InDelta(t, 1e6, PrefixMega.Multiplier(), 0)
	assert.Equal(t, "invalid", Prefix(42).String())
	assert.InDelta(t, 1, Prefix(-1).Multiplier(), 0)
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "Volts", ModeVolts.String())
	assert.Equal(t, "RPM", ModeRPM.String())
	assert.Equal(t, "Unknown", Mode(0).String())
}
