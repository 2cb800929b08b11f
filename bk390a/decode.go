package bk390a

import (
	"fmt"
	"slices"
)

// rangeSpec is the outcome of one (function, range index) table cell.
type rangeSpec struct {
	dps    uint8
	prefix Prefix
}

// modeSpec describes one decoded mode. Functions whose scale depends on the
// range index carry a ranges table; the others use the fixed dps and prefix.
type modeSpec struct {
	mode   Mode
	unit   string
	dps    uint8
	prefix Prefix
	ranges []rangeSpec
}

// functionSpec selects a modeSpec by the status judge flag.
type functionSpec struct {
	judgeSet   modeSpec
	judgeClear modeSpec
}

func judgeIndependent(m modeSpec) functionSpec {
	return functionSpec{judgeSet: m, judgeClear: m}
}

// Device defaults for the functions the meter reports with a single scale.
const (
	currentADecimalPlaces    = 2
	continuityDecimalPlaces  = 1
	diodeDecimalPlaces       = 3
	temperatureDecimalPlaces = 0
	adpDecimalPlaces         = 0
)

var (
	none  = PrefixNone
	nano  = PrefixNano
	micro = PrefixMicro
	milli = PrefixMilli
	kilo  = PrefixKilo
	mega  = PrefixMega
)

var frequencySpec = modeSpec{
	mode: ModeFrequency,
	unit: UnitHertz,
	ranges: []rangeSpec{
		{3, kilo}, {2, kilo}, {1, kilo},
		{3, mega}, {2, mega}, {1, mega},
	},
}

var rpmSpec = modeSpec{
	mode: ModeRPM,
	unit: UnitRPM,
	ranges: []rangeSpec{
		{2, kilo}, {1, kilo},
		{3, mega}, {2, mega}, {1, mega}, {0, mega},
	},
}

var adpSpec = modeSpec{mode: ModeADP, dps: adpDecimalPlaces}

// decodeTable is the device's function x range x judge decode matrix.
var decodeTable = map[Function]functionSpec{
	FunctionVoltage: judgeIndependent(modeSpec{
		mode: ModeVolts,
		unit: UnitVolt,
		ranges: []rangeSpec{
			{1, milli}, {3, none}, {2, none}, {1, none}, {0, none},
		},
	}),
	FunctionCurrentUA: judgeIndependent(modeSpec{
		mode:   ModeAmps,
		unit:   UnitAmp,
		ranges: []rangeSpec{{2, milli}, {1, milli}},
	}),
	FunctionCurrentMA: judgeIndependent(modeSpec{
		mode:   ModeAmps,
		unit:   UnitAmp,
		ranges: []rangeSpec{{1, micro}, {0, micro}},
	}),
	FunctionCurrentA: judgeIndependent(modeSpec{
		mode: ModeAmps,
		unit: UnitAmp,
		dps:  currentADecimalPlaces,
	}),
	FunctionOhms: judgeIndependent(modeSpec{
		mode: ModeResistance,
		unit: UnitOhm,
		ranges: []rangeSpec{
			{1, none},
			{3, kilo}, {2, kilo}, {1, kilo},
			{3, mega}, {2, mega},
		},
	}),
	FunctionContinuity: judgeIndependent(modeSpec{
		mode: ModeContinuity,
		unit: UnitOhm,
		dps:  continuityDecimalPlaces,
	}),
	FunctionDiode: judgeIndependent(modeSpec{
		mode: ModeDiode,
		unit: UnitVolt,
		dps:  diodeDecimalPlaces,
	}),
	FunctionFreqRPM: {
		judgeSet:   frequencySpec,
		judgeClear: rpmSpec,
	},
	FunctionCapacitance: judgeIndependent(modeSpec{
		mode: ModeCapacitance,
		unit: UnitFarad,
		ranges: []rangeSpec{
			{3, nano}, {2, nano}, {1, nano},
			{3, micro}, {2, micro}, {1, micro},
			{3, milli}, {2, milli},
		},
	}),
	FunctionTemperature: {
		judgeSet:   modeSpec{mode: ModeTemperature, unit: UnitCelsius, dps: temperatureDecimalPlaces},
		judgeClear: modeSpec{mode: ModeTemperature, unit: UnitFahrenheit, dps: temperatureDecimalPlaces},
	},
	FunctionADP0: judgeIndependent(adpSpec),
	FunctionADP1: judgeIndependent(adpSpec),
	FunctionADP2: judgeIndependent(adpSpec),
	FunctionADP3: judgeIndependent(adpSpec),
}

// lookup resolves one cell of the decode matrix. An overloaded reading does
// not need a scale, so a range outside the table is accepted when overload is set.
func lookup(fn Function, judge bool, overload bool, rng uint8) (modeSpec, rangeSpec, error) {
	spec, ok := decodeTable[fn]
	if !ok {
		return modeSpec{}, rangeSpec{}, fmt.Errorf("%w: 0x%02X", ErrUnknownFunction, byte(fn))
	}

	ms := spec.judgeClear
	if judge {
		ms = spec.judgeSet
	}

	if ms.ranges == nil {
		return ms, rangeSpec{dps: ms.dps, prefix: ms.prefix}, nil
	}

	if int(rng) >= len(ms.ranges) {
		if overload {
			return ms, rangeSpec{prefix: none}, nil
		}

		return modeSpec{}, rangeSpec{}, fmt.Errorf("%w: %s range %d", ErrInvalidRange, ms.mode, rng)
	}

	return ms, ms.ranges[rng], nil
}

// Decode interprets a frame. It is a pure function: an error result carries no
// partially decoded measurement.
//
// The OL status flag is reported for every recognised function, whatever the
// range nibble; when it is set, RawValue and DecimalPlaces should not be
// displayed.
func Decode(f RawFrame) (Measurement, error) {
	ms, rs, err := lookup(f.Function(), f.Judge(), f.Overload(), f.Range())
	if err != nil {
		return Measurement{}, err
	}

	return Measurement{
		Function:      f.Function(),
		Range:         f.Range(),
		Mode:          ms.mode,
		Unit:          ms.unit,
		Prefix:        rs.prefix,
		DecimalPlaces: clampDecimalPlaces(rs.dps),
		RawValue:      f.RawValue(),
		Negative:      f.Negative(),
		Overload:      f.Overload(),
		AutoRange:     f.AutoRange(),
		AC:            f.AC(),
		DC:            f.DC(),
		MinHold:       f.MinHold(),
		MaxHold:       f.MaxHold(),
		LowBattery:    f.LowBattery(),
		AutoPowerOff:  f.AutoPowerOff(),
		VAHz:          f.VAHz(),
	}, nil
}

// Functions returns the documented function codes in ascending order.
func Functions() []Function {
	fns := make([]Function, 0, len(decodeTable))
	for fn := range decodeTable {
		fns = append(fns, fn)
	}
	slices.Sort(fns)

	return fns
}
