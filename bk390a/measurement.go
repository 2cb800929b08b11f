package bk390a

// Mode is the measurement mode label shown on the second display line.
type Mode int

const (
	ModeVolts Mode = iota + 1
	ModeAmps
	ModeResistance
	ModeContinuity
	ModeDiode
	ModeFrequency
	ModeRPM
	ModeCapacitance
	ModeTemperature
	ModeADP
)

var modeLabels = map[Mode]string{
	ModeVolts:       "Volts",
	ModeAmps:        "Amps",
	ModeResistance:  "Resistance",
	ModeContinuity:  "Continuity",
	ModeDiode:       "Diode",
	ModeFrequency:   "Frequency",
	ModeRPM:         "RPM",
	ModeCapacitance: "Capacitance",
	ModeTemperature: "Temperature",
	ModeADP:         "ADP",
}

// String returns the display label of the mode.
func (m Mode) String() string {
	if label, ok := modeLabels[m]; ok {
		return label
	}

	return "Unknown"
}

// Unit symbols.
const (
	UnitVolt       = "V"
	UnitAmp        = "A"
	UnitOhm        = "Ω"
	UnitFarad      = "F"
	UnitHertz      = "Hz"
	UnitRPM        = "rpm"
	UnitCelsius    = "°C"
	UnitFahrenheit = "°F"
)

// Prefix is a metric magnitude prefix.
type Prefix int

const (
	PrefixNone Prefix = iota
	PrefixNano
	PrefixMicro
	PrefixMilli
	PrefixKilo
	PrefixMega
)

var prefixInfo = [...]struct {
	name       string
	symbol     string
	multiplier float64
}{
	PrefixNone:  {"none", "", 1},
	PrefixNano:  {"nano", "n", 1e-9},
	PrefixMicro: {"micro", "µ", 1e-6},
	PrefixMilli: {"milli", "m", 1e-3},
	PrefixKilo:  {"kilo", "k", 1e3},
	PrefixMega:  {"mega", "M", 1e6},
}

func (p Prefix) valid() bool { return p >= PrefixNone && int(p) < len(prefixInfo) }

// Symbol returns the prefix symbol, empty for PrefixNone.
func (p Prefix) Symbol() string {
	if !p.valid() {
		return ""
	}

	return prefixInfo[p].symbol
}

// Multiplier returns the scale factor of the prefix.
func (p Prefix) Multiplier() float64 {
	if !p.valid() {
		return 1
	}

	return prefixInfo[p].multiplier
}

// String returns the prefix name, e.g. "milli".
func (p Prefix) String() string {
	if !p.valid() {
		return "invalid"
	}

	return prefixInfo[p].name
}

// MaxDecimalPlaces is the largest number of fractional digits a reading can have.
const MaxDecimalPlaces = 3

// Measurement is one decoded reading. It is produced once per frame and never
// modified afterwards.
type Measurement struct {
	Function Function
	Range    uint8

	Mode          Mode
	Unit          string
	Prefix        Prefix
	DecimalPlaces uint8  // always within [0, MaxDecimalPlaces]
	RawValue      uint16 // 0..9999
	Negative      bool
	// Overload means the reading exceeds the selected range; RawValue and
	// DecimalPlaces are not meaningful for display.
	Overload bool

	AutoRange    bool
	AC           bool
	DC           bool
	MinHold      bool
	MaxHold      bool
	LowBattery   bool
	AutoPowerOff bool
	VAHz         bool
}

var pow10 = [MaxDecimalPlaces + 1]int{1, 10, 100, 1000}

// Value returns the signed reading in units of Prefix, e.g. 2.5 for " 2.5mV".
func (m Measurement) Value() float64 {
	v := float64(m.RawValue) / float64(pow10[clampDecimalPlaces(m.DecimalPlaces)])
	if m.Negative {
		v = -v
	}

	return v
}

// Scaled returns the signed reading in base units, e.g. 0.0025 for " 2.5mV".
func (m Measurement) Scaled() float64 {
	return m.Value() * m.Prefix.Multiplier()
}

func clampDecimalPlaces(dps uint8) uint8 {
	if dps > MaxDecimalPlaces {
		return MaxDecimalPlaces
	}

	return dps
}
