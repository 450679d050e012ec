// Package term provides color state and ANSI styling for terminal output.
//
// The active profile is package-level because multiple packages (logging,
// display) need it for output formatting. [Configure] sets it once during
// startup; with colors disabled [Paint] returns its input unchanged.
package term

import (
	"os"

	"github.com/muesli/termenv"

	"github.com/backmassage/lorarenamer/internal/config"
)

// Color names the palette shared by the logger and the banner.
type Color string

// ANSI palette (bright variants, orange from the 256-color cube).
const (
	Red     Color = "9"
	Green   Color = "10"
	Yellow  Color = "11"
	Blue    Color = "12"
	Magenta Color = "13"
	Cyan    Color = "14"
	Orange  Color = "208"
)

var profile = termenv.Ascii

// Configure resolves the color mode and sets the package-level profile.
// Call once during startup (from [logging.NewLogger]).
func Configure(mode config.ColorMode) {
	profile = resolve(mode)
}

// Enabled reports whether ANSI colors are currently active.
func Enabled() bool { return profile != termenv.Ascii }

// Paint renders s bold in color c, or returns s when colors are off.
func Paint(c Color, s string) string {
	if !Enabled() {
		return s
	}
	return profile.String(s).Foreground(profile.Color(string(c))).Bold().String()
}

// resolve determines the color profile from the configured mode. Auto mode
// defers to termenv, which honors TTY detection, TERM=dumb, and NO_COLOR
// (https://no-color.org).
func resolve(mode config.ColorMode) termenv.Profile {
	switch mode {
	case config.ColorAlways:
		return termenv.ANSI256
	case config.ColorNever:
		return termenv.Ascii
	default: // ColorAuto
		return termenv.NewOutput(os.Stdout).EnvColorProfile()
	}
}
