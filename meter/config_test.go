package meter

import (
	"testing"
	"time"

	"github.com/arloliu/go-bk390a/bk390a"
	"github.com/arloliu/go-bk390a/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, DefaultReadTimeout, cfg.ReadTimeout())
	assert.Equal(t, bk390a.DefaultInterByteTimeout, cfg.InterByteTimeout())
	assert.Equal(t, DefaultRetryInterval, cfg.RetryInterval())
	assert.Equal(t, bk390a.DefaultMaxDrain, cfg.MaxDrain())
	assert.True(t, cfg.ShowMode())
	assert.NotNil(t, cfg.GetLogger())
}

func TestNewConfig_Options(t *testing.T) {
	l := logger.NewMockLogger()
	cfg, err := NewConfig(
		WithReadTimeout(5*time.Second),
		WithInterByteTimeout(50*time.Millisecond),
		WithRetryInterval(3*time.Second),
		WithMaxDrain(0),
		WithShowMode(false),
		WithLogger(l),
	)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.ReadTimeout())
	assert.Equal(t, 50*time.Millisecond, cfg.InterByteTimeout())
	assert.Equal(t, 3*time.Second, cfg.RetryInterval())
	assert.Equal(t, 0, cfg.MaxDrain())
	assert.False(t, cfg.ShowMode())
	assert.Same(t, l, cfg.GetLogger())
}

func TestNewConfig_OutOfRange(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"read timeout too short", WithReadTimeout(MinReadTimeout - time.Millisecond)},
		{"read timeout too long", WithReadTimeout(MaxReadTimeout + time.Second)},
		{"inter-byte too short", WithInterByteTimeout(time.Millisecond)},
		{"inter-byte too long", WithInterByteTimeout(MaxInterByteTimeout + time.Second)},
		{"retry zero", WithRetryInterval(0)},
		{"retry too long", WithRetryInterval(MaxRetryInterval + time.Second)},
		{"negative drain", WithMaxDrain(-1)},
		{"huge drain", WithMaxDrain(MaxDrainLimit + 1)},
		{"nil logger", WithLogger(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewConfig(tt.opt)
			require.ErrorIs(t, err, ErrInvalidOption)
			assert.Nil(t, cfg)
		})
	}
}
