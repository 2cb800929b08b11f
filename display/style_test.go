package display

import (
	"bytes"
	"testing"

	"github.com/arloliu/go-bk390a/bk390a"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampFontSize(t *testing.T) {
	assert.Equal(t, MinFontSize, ClampFontSize(0))
	assert.Equal(t, MinFontSize, ClampFontSize(-5))
	assert.Equal(t, 72, ClampFontSize(72))
	assert.Equal(t, MaxFontSize, ClampFontSize(1000))
}

func TestStyle_TextOptions(t *testing.T) {
	s := DefaultStyle()
	assert.Equal(t, "Andale", s.FontName)

	var buf bytes.Buffer
	r := NewTextRenderer(&buf, append(s.TextOptions(), WithWidth(2))...)
	require.NoError(t, r.Render(Update{Lines: bk390a.Lines{Value: "1V"}}))
	assert.Contains(t, buf.String(), "\x1b[1m\x1b[38;2;16;255;16m\x1b[48;2;0;0;0m1V\x1b[0m")

	s.FontWeight = 400
	buf.Reset()
	r = NewTextRenderer(&buf, append(s.TextOptions(), WithWidth(2))...)
	require.NoError(t, r.Render(Update{Lines: bk390a.Lines{Value: "1V"}}))
	assert.NotContains(t, buf.String(), "\x1b[1m")
}
