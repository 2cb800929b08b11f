package display

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"
)

// ErrRendererClosed is returned by Render after Close.
var ErrRendererClosed = errors.New("display: renderer closed")

// DefaultWidth is the fixed width, in characters, of each rendered line.
const DefaultWidth = 40

// Renderer consumes display updates. Render is called once per cycle from the
// decode loop, in frame order.
type Renderer interface {
	Render(u Update) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(u Update) error

// Render calls f(u).
func (f RendererFunc) Render(u Update) error { return f(u) }

// TextRendererOption configures a TextRenderer.
type TextRendererOption func(*TextRenderer)

// WithWidth sets the line width; lines are padded or truncated to it.
func WithWidth(width int) TextRendererOption {
	return func(r *TextRenderer) {
		if width > 0 {
			r.width = width
		}
	}
}

// WithColors draws lines with 24-bit ANSI foreground and background colors.
func WithColors(fg Color, bg Color) TextRendererOption {
	return func(r *TextRenderer) {
		r.colored = true
		r.fg = fg
		r.bg = bg
	}
}

// WithBold draws lines in bold.
func WithBold(enable bool) TextRendererOption {
	return func(r *TextRenderer) { r.bold = enable }
}

// WithHeight sets the number of rows drawn per update. Rows beyond the value
// and mode lines are blank. Heights below 2 are ignored.
func WithHeight(rows int) TextRendererOption {
	return func(r *TextRenderer) {
		if rows >= 2 {
			r.height = rows
		}
	}
}

// WithInPlace redraws over the previous update instead of scrolling.
// Only meaningful on a terminal.
func WithInPlace(enable bool) TextRendererOption {
	return func(r *TextRenderer) { r.inPlace = enable }
}

// TextRenderer writes updates as fixed-width text lines: the value line, the
// mode line and optional blank rows.
type TextRenderer struct {
	w       io.Writer
	width   int
	height  int
	bold    bool
	colored bool
	fg, bg  Color
	inPlace bool
	drawn   bool
}

// NewTextRenderer creates a TextRenderer writing to w.
func NewTextRenderer(w io.Writer, opts ...TextRendererOption) *TextRenderer {
	r := &TextRenderer{w: w, width: DefaultWidth, height: 2}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Render writes the value line and the mode line.
func (r *TextRenderer) Render(u Update) error {
	var sb strings.Builder
	if r.inPlace && r.drawn {
		fmt.Fprintf(&sb, "\x1b[%dA", r.height)
	}

	r.writeLine(&sb, u.Lines.Value)
	r.writeLine(&sb, u.Lines.Mode)
	for i := 0; i < r.height-2; i++ {
		r.writeLine(&sb, "")
	}

	if _, err := io.WriteString(r.w, sb.String()); err != nil {
		return fmt.Errorf("display: write: %w", err)
	}
	r.drawn = true

	return nil
}

func (r *TextRenderer) writeLine(sb *strings.Builder, s string) {
	if r.inPlace {
		sb.WriteString("\r\x1b[2K")
	}
	styled := r.colored || r.bold
	if r.bold {
		sb.WriteString("\x1b[1m")
	}
	if r.colored {
		sb.WriteString(r.fg.fgEscape())
		sb.WriteString(r.bg.bgEscape())
	}
	sb.WriteString(Fit(s, r.width))
	if styled {
		sb.WriteString("\x1b[0m")
	}
	sb.WriteByte('\n')
}

// Fit pads s with spaces or truncates it to exactly width runes.
func Fit(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n == width {
		return s
	}
	if n < width {
		return s + strings.Repeat(" ", width-n)
	}

	runes := []rune(s)

	return string(runes[:width])
}

// ChanRenderer forwards updates over a channel, preserving their order. It is
// the hand-off point between the decode goroutine (single producer) and a
// rendering goroutine (single consumer).
type ChanRenderer struct {
	ch        chan Update
	done      chan struct{}
	closeOnce sync.Once
}

// NewChanRenderer creates a ChanRenderer buffering up to size updates.
func NewChanRenderer(size int) *ChanRenderer {
	if size < 0 {
		size = 0
	}

	return &ChanRenderer{
		ch:   make(chan Update, size),
		done: make(chan struct{}),
	}
}

// Render blocks until the update is queued or the renderer is closed.
func (r *ChanRenderer) Render(u Update) error {
	select {
	case <-r.done:
		return ErrRendererClosed
	default:
	}

	select {
	case r.ch <- u:
		return nil
	case <-r.done:
		return ErrRendererClosed
	}
}

// Updates returns the receive side. It is closed by Close.
func (r *ChanRenderer) Updates() <-chan Update {
	return r.ch
}

// Close stops accepting updates and closes the Updates channel; buffered
// updates remain readable. It must be called by the producer after its last
// Render.
func (r *ChanRenderer) Close() error {
	r.closeOnce.Do(func() {
		close(r.done)
		close(r.ch)
	})

	return nil
}
