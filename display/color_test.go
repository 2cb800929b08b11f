package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#10ff10")
	require.NoError(t, err)
	assert.Equal(t, DefaultForeground, c)
	assert.Equal(t, "#10ff10", c.String())

	c, err = ParseColor("#A0B0C0")
	require.NoError(t, err)
	assert.Equal(t, Color{R: 0xA0, G: 0xB0, B: 0xC0}, c)

	for _, bad := range []string{"", "10ff10", "#10ff1", "#10ff100", "#gg0000", "#-10000"} {
		_, err := ParseColor(bad)
		assert.ErrorIs(t, err, ErrInvalidColor, bad)
	}
}

func TestColor_UnmarshalText(t *testing.T) {
	var c Color
	require.NoError(t, c.UnmarshalText([]byte("#000000")))
	assert.Equal(t, DefaultBackground, c)

	assert.Error(t, c.UnmarshalText([]byte("black")))

	text, err := Color{R: 1, G: 2, B: 3}.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "#010203", string(text))
}
