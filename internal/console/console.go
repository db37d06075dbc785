// Package console prints operator-facing status lines.
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen, color.Bold)
	cyan   = color.New(color.FgCyan)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
)

// Console writes emoji-prefixed, coloured lines to an output stream.
// Colour is dropped automatically when the stream is not a terminal or NO_COLOR is set.
type Console struct {
	out io.Writer
}

// New returns a Console writing to out, or stdout when out is nil.
func New(out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{out: out}
}

func (c *Console) Success(format string, a ...any) {
	_, _ = green.Fprintf(c.out, "✅ "+format+"\n", a...)
}

func (c *Console) Info(emoji, format string, a ...any) {
	_, _ = cyan.Fprintf(c.out, emoji+" "+format+"\n", a...)
}

func (c *Console) Warn(format string, a ...any) {
	_, _ = yellow.Fprintf(c.out, "⚠️  "+format+"\n", a...)
}

func (c *Console) Error(format string, a ...any) {
	_, _ = red.Fprintf(c.out, "❌ "+format+"\n", a...)
}

// Plain writes an uncoloured line.
func (c *Console) Plain(format string, a ...any) {
	_, _ = fmt.Fprintf(c.out, format+"\n", a...)
}
