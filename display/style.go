package display

// Font defaults of the meter display.
const (
	DefaultFontName   = "Andale"
	DefaultFontSize   = 72
	DefaultFontWeight = 600

	MinFontSize = 10
	MaxFontSize = 256

	// BoldWeight is the lowest font weight drawn in bold on a terminal.
	BoldWeight = 600
)

// Style is the look of the meter display.
//
// A text terminal cannot change its font, so TextRenderer honors only the
// colors and the weight; name and size are kept for graphical renderers.
type Style struct {
	FontName   string
	FontSize   int
	FontWeight int
	Foreground Color
	Background Color
}

// DefaultStyle returns green on black, 72pt semi-bold Andale.
func DefaultStyle() Style {
	return Style{
		FontName:   DefaultFontName,
		FontSize:   DefaultFontSize,
		FontWeight: DefaultFontWeight,
		Foreground: DefaultForeground,
		Background: DefaultBackground,
	}
}

// ClampFontSize limits size to [MinFontSize, MaxFontSize].
func ClampFontSize(size int) int {
	return min(max(size, MinFontSize), MaxFontSize)
}

// TextOptions returns the TextRenderer options that render s.
func (s Style) TextOptions() []TextRendererOption {
	return []TextRendererOption{
		WithColors(s.Foreground, s.Background),
		WithBold(s.FontWeight >= BoldWeight),
	}
}
