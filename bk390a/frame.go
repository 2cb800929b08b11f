package bk390a

import (
	"fmt"
)

// FrameSize is the number of payload bytes in a frame, excluding the terminator.
const FrameSize = 9

// Terminator marks the end of every frame on the wire.
const Terminator byte = 0x0A

// Byte offsets within a RawFrame.
const (
	OffsetRange    = 0
	OffsetDigit3   = 1
	OffsetDigit2   = 2
	OffsetDigit1   = 3
	OffsetDigit0   = 4
	OffsetFunction = 5
	OffsetStatus   = 6
	OffsetOption1  = 7
	OffsetOption2  = 8
)

// Status byte flags.
const (
	StatusOverload   byte = 0x01
	StatusLowBattery byte = 0x02
	StatusSign       byte = 0x04
	StatusJudge      byte = 0x08
)

// Option1 byte flags.
const (
	Option1VAHz    byte = 0x01
	Option1MinHold byte = 0x04
	Option1MaxHold byte = 0x08
)

// Option2 byte flags.
const (
	Option2AutoPowerOff byte = 0x01
	Option2AutoRange    byte = 0x02
	Option2AC           byte = 0x04
	Option2DC           byte = 0x08
)

// Function identifies the measurement mode selected on the meter's dial.
type Function byte

// Function codes as transmitted in the function byte.
const (
	FunctionVoltage     Function = 0x3B
	FunctionCurrentUA   Function = 0x3D
	FunctionCurrentMA   Function = 0x39
	FunctionCurrentA    Function = 0x3F
	FunctionOhms        Function = 0x33
	FunctionContinuity  Function = 0x35
	FunctionDiode       Function = 0x31
	FunctionFreqRPM     Function = 0x32
	FunctionCapacitance Function = 0x36
	FunctionTemperature Function = 0x34
	FunctionADP0        Function = 0x3E
	FunctionADP1        Function = 0x3C
	FunctionADP2        Function = 0x38
	FunctionADP3        Function = 0x3A
)

var functionNames = map[Function]string{
	FunctionVoltage:     "voltage",
	FunctionCurrentUA:   "current-uA",
	FunctionCurrentMA:   "current-mA",
	FunctionCurrentA:    "current-A",
	FunctionOhms:        "ohms",
	FunctionContinuity:  "continuity",
	FunctionDiode:       "diode",
	FunctionFreqRPM:     "frequency-rpm",
	FunctionCapacitance: "capacitance",
	FunctionTemperature: "temperature",
	FunctionADP0:        "adp0",
	FunctionADP1:        "adp1",
	FunctionADP2:        "adp2",
	FunctionADP3:        "adp3",
}

// String returns the function name, or its hex code if it is not documented.
func (f Function) String() string {
	if name, ok := functionNames[f]; ok {
		return name
	}

	return fmt.Sprintf("0x%02X", byte(f))
}

// Known reports whether f is in the documented function set.
func (f Function) Known() bool {
	_, ok := functionNames[f]
	return ok
}

// RawFrame holds the nine payload bytes of one frame.
//
// A RawFrame is a value; once assembled it is never modified.
type RawFrame [FrameSize]byte

// NewRawFrame copies exactly FrameSize bytes into a RawFrame.
func NewRawFrame(b []byte) (RawFrame, error) {
	var f RawFrame
	if len(b) != FrameSize {
		return f, fmt.Errorf("%w: got %d", ErrFrameSize, len(b))
	}
	copy(f[:], b)

	return f, nil
}

// --- Field accessors ---

// Range returns the range index, the low nibble of the range byte.
func (f RawFrame) Range() uint8 {
	return f[OffsetRange] & 0x0F
}

// Digits returns the four display digits, most significant first.
func (f RawFrame) Digits() [4]uint8 {
	return [4]uint8{
		f[OffsetDigit3] & 0x0F,
		f[OffsetDigit2] & 0x0F,
		f[OffsetDigit1] & 0x0F,
		f[OffsetDigit0] & 0x0F,
	}
}

// RawValue reconstructs the unsigned reading from the digit nibbles.
//
// Nibbles above 9 are not produced by the meter; they are combined as-is.
func (f RawFrame) RawValue() uint16 {
	d := f.Digits()
	return uint16(d[0])*1000 + uint16(d[1])*100 + uint16(d[2])*10 + uint16(d[3])
}

// Function returns the function byte.
func (f RawFrame) Function() Function {
	return Function(f[OffsetFunction])
}

// Status returns the raw status byte.
func (f RawFrame) Status() byte { return f[OffsetStatus] }

// Option1 returns the raw option1 byte.
func (f RawFrame) Option1() byte { return f[OffsetOption1] }

// Option2 returns the raw option2 byte.
func (f RawFrame) Option2() byte { return f[OffsetOption2] }

// Overload reports the OL status bit: the input exceeds the selected range.
func (f RawFrame) Overload() bool { return f[OffsetStatus]&StatusOverload != 0 }

// LowBattery reports the BATT status bit.
func (f RawFrame) LowBattery() bool { return f[OffsetStatus]&StatusLowBattery != 0 }

// Negative reports the SIGN status bit: the displayed value is negative.
func (f RawFrame) Negative() bool { return f[OffsetStatus]&StatusSign != 0 }

// Judge reports the JUDGE status bit, which selects between the two
// interpretations of some functions (°C/°F, Frequency/RPM).
func (f RawFrame) Judge() bool { return f[OffsetStatus]&StatusJudge != 0 }

// VAHz reports the VAHZ option1 bit.
func (f RawFrame) VAHz() bool { return f[OffsetOption1]&Option1VAHz != 0 }

// MinHold reports the PMIN option1 bit: the minimum hold is active.
func (f RawFrame) MinHold() bool { return f[OffsetOption1]&Option1MinHold != 0 }

// MaxHold reports the PMAX option1 bit: the maximum hold is active.
func (f RawFrame) MaxHold() bool { return f[OffsetOption1]&Option1MaxHold != 0 }

// AutoPowerOff reports the APO option2 bit.
func (f RawFrame) AutoPowerOff() bool { return f[OffsetOption2]&Option2AutoPowerOff != 0 }

// AutoRange reports the AUTO option2 bit: the meter selects the range itself.
func (f RawFrame) AutoRange() bool { return f[OffsetOption2]&Option2AutoRange != 0 }

// AC reports the AC option2 bit.
func (f RawFrame) AC() bool { return f[OffsetOption2]&Option2AC != 0 }

// DC reports the DC option2 bit.
func (f RawFrame) DC() bool { return f[OffsetOption2]&Option2DC != 0 }

// Pack returns the wire encoding: the payload followed by the terminator.
func (f RawFrame) Pack() []byte {
	buf := make([]byte, FrameSize+1)
	copy(buf, f[:])
	buf[FrameSize] = Terminator

	return buf
}

// String returns the payload as space separated hex bytes.
func (f RawFrame) String() string {
	return fmt.Sprintf("% x", f[:])
}
