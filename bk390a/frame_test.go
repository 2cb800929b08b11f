package bk390a

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRawFrame(t *testing.T) {
	f, err := NewRawFrame([]byte{0x00, 0x30, 0x30, 0x32, 0x35, 0x3B, 0x00, 0x00, 0x00})
	require.NoError(t, err)
	assert.Equal(t, FunctionVoltage, f.Function())

	_, err = NewRawFrame(make([]byte, 8))
	require.ErrorIs(t, err, ErrFrameSize)

	_, err = NewRawFrame(make([]byte, 10))
	require.ErrorIs(t, err, ErrFrameSize)
}

func TestRawFrame_NewCopiesInput(t *testing.T) {
	src := []byte{0x00, 0x31, 0x32, 0x33, 0x34, 0x3B, 0x00, 0x00, 0x00}
	f, err := NewRawFrame(src)
	require.NoError(t, err)

	src[1] = 0x39
	assert.Equal(t, uint16(1234), f.RawValue())
}

func TestRawFrame_Digits(t *testing.T) {
	f := makeFrame(t, 0x00, "0000", FunctionVoltage, 0, 0, 0)
	assert.Equal(t, uint16(0), f.RawValue())

	f = makeFrame(t, 0x00, "9999", FunctionVoltage, 0, 0, 0)
	assert.Equal(t, uint16(9999), f.RawValue())
	assert.Equal(t, [4]uint8{9, 9, 9, 9}, f.Digits())

	// High nibbles are ignored.
	f = RawFrame{0x30, 0xF1, 0x72, 0x03, 0x44, byte(FunctionVoltage), 0, 0, 0}
	assert.Equal(t, uint16(1234), f.RawValue())
}

func TestRawFrame_Range(t *testing.T) {
	f := makeFrame(t, 0x35, "0000", FunctionOhms, 0, 0, 0)
	assert.Equal(t, uint8(5), f.Range())
}

func TestRawFrame_Flags(t *testing.T) {
	var f RawFrame
	assert.False(t, f.Overload())
	assert.False(t, f.LowBattery())
	assert.False(t, f.Negative())
	assert.False(t, f.Judge())

	f[OffsetStatus] = StatusOverload | StatusLowBattery | StatusSign | StatusJudge
	f[OffsetOption1] = Option1VAHz | Option1MinHold | Option1MaxHold
	f[OffsetOption2] = Option2AutoPowerOff | Option2AutoRange | Option2AC | Option2DC

	assert.True(t, f.Overload())
	assert.True(t, f.LowBattery())
	assert.True(t, f.Negative())
	assert.True(t, f.Judge())
	assert.True(t, f.VAHz())
	assert.True(t, f.MinHold())
	assert.True(t, f.MaxHold())
	assert.True(t, f.AutoPowerOff())
	assert.True(t, f.AutoRange())
	assert.True(t, f.AC())
	assert.True(t, f.DC())

	f[OffsetStatus] = StatusSign
	assert.False(t, f.Overload())
	assert.True(t, f.Negative())
}

func TestRawFrame_Pack(t *testing.T) {
	f := makeFrame(t, 0x00, "0025", FunctionVoltage, 0, 0, 0)
	wire := f.Pack()

	require.Len(t, wire, FrameSize+1)
	assert.Equal(t, Terminator, wire[FrameSize])
	assert.Equal(t, f[:], wire[:FrameSize])
	assert.Equal(t, "00 30 30 32 35 3b 00 00 00", f.String())
}

func TestFunction_String(t *testing.T) {
	assert.Equal(t, "voltage", FunctionVoltage.String())
	assert.Equal(t, "frequency-rpm", FunctionFreqRPM.String())
	assert.Equal(t, "0x00", Function(0x00).String())
	assert.True(t, FunctionADP3.Known())
	assert.False(t, Function(0x30).Known())
}
