package console

import (
	"io"
	"os"

	"babynames/internal/config"

	"github.com/labstack/gommon/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Stdout returns a writer for f that understands ANSI escapes on every
// platform, plus a palette whose colors are on only when mode allows.
func Stdout(f *os.File, mode config.ColorMode) (io.Writer, *color.Color) {
	w := colorable.NewColorable(f)
	p := color.New()
	p.SetOutput(w)
	if Enabled(f, mode) {
		p.Enable()
	} else {
		p.Disable()
	}
	return w, p
}

func Enabled(f *os.File, mode config.ColorMode) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Plain is a palette that never emits escapes; used for tests and pipes.
func Plain() *color.Color {
	p := color.New()
	p.Disable()
	return p
}
