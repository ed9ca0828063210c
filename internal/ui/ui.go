// Package ui renders scan progress and catalog listings for the
// terminal.
package ui

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Config configures a renderer.
type Config struct {
	Output  io.Writer
	NoColor bool
}

// DefaultConfig returns stdout-backed settings, with color disabled when
// stdout is not a terminal.
func DefaultConfig() Config {
	return Config{
		Output:  os.Stdout,
		NoColor: !isTerminal(os.Stdout),
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ANSI colors used by the plain renderer when the output is a terminal.
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorDim    = "\033[2m"
)

func (c Config) paint(color, s string) string {
	if c.NoColor {
		return s
	}
	return color + s + colorReset
}
