package display

import (
	"time"

	"github.com/arloliu/go-bk390a/bk390a"
)

// Text shown while no serial activity is observed.
const (
	DisconnectedValue = "N/C"
	DisconnectedMode  = "Check RS232"
)

// Status tells a renderer where an update came from.
type Status int

const (
	// StatusLive is a freshly decoded measurement.
	StatusLive Status = iota
	// StatusHeld repeats the last live update because the current frame
	// could not be decoded.
	StatusHeld
	// StatusDisconnected reports that the meter is not sending.
	StatusDisconnected
)

func (s Status) String() string {
	switch s {
	case StatusLive:
		return "live"
	case StatusHeld:
		return "held"
	case StatusDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Update is one display refresh: the two text lines plus their origin.
type Update struct {
	Lines  bk390a.Lines
	Status Status
	// Measurement is the decoded reading behind Lines; zero for disconnected updates.
	Measurement bk390a.Measurement
	At          time.Time
}

// Board builds Updates and remembers the last live one.
//
// It is owned by the single decode cycle and is not goroutine-safe.
type Board struct {
	showMode bool
	now      func() time.Time
	last     Update
	hasLast  bool
}

// NewBoard creates a Board. showMode enables the mode line.
func NewBoard(showMode bool) *Board {
	return &Board{showMode: showMode, now: time.Now}
}

// ShowMode reports whether the mode line is enabled.
func (b *Board) ShowMode() bool { return b.showMode }

// Show formats m and records it as the last live update.
func (b *Board) Show(m bk390a.Measurement) Update {
	u := Update{
		Lines:       bk390a.Format(m, b.showMode),
		Status:      StatusLive,
		Measurement: m,
		At:          b.now(),
	}
	b.last = u
	b.hasLast = true

	return u
}

// Hold returns the last live update marked as held. The lines and measurement
// are exactly those previously shown. It reports false before the first
// live update.
func (b *Board) Hold() (Update, bool) {
	if !b.hasLast {
		return Update{}, false
	}

	u := b.last
	u.Status = StatusHeld

	return u, true
}

// Disconnected returns the no-connection update. The mode line is always
// shown so the hint is visible regardless of the mode line setting.
func (b *Board) Disconnected() Update {
	return Update{
		Lines:  bk390a.Lines{Value: DisconnectedValue, Mode: DisconnectedMode},
		Status: StatusDisconnected,
		At:     b.now(),
	}
}

// Last returns the last live update.
func (b *Board) Last() (Update, bool) {
	return b.last, b.hasLast
}
