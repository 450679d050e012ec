package display

import (
	"fmt"
	"io"

	"github.com/backmassage/lorarenamer/internal/term"
)

const banner = ` _                 ____
| |    ___  _ __ __|  _ \ ___ _ __   __ _ _ __ ___   ___ _ __
| |   / _ \| '__/ _| |_) / _ \ '_ \ / _' | '_ ' _ \ / _ \ '__|
| |__| (_) | | | (_|  _ <  __/ | | | (_| | | | | | |  __/ |
|_____\___/|_|  \__|_| \_\___|_| |_|\__,_|_| |_| |_|\___|_|`

// PrintBanner writes the ASCII art banner to w; magenta when colors are enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprintln(w, term.Paint(term.Magenta, banner))
}
