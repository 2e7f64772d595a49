package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"

	"github.com/sprout-sh/sprout/pkg/types"
)

// Console is the types.UserOutput implementation handed to plugin hooks
// and the orchestration layer. In terminal format it prints through
// pterm's prefix printers; in text format it prints bare lines with word
// prefixes; in JSON format it prints nothing, since the command layer
// emits the machine-readable result itself.
type Console struct {
	w      io.Writer
	format Format

	info    *pterm.PrefixPrinter
	success *pterm.PrefixPrinter
	warning *pterm.PrefixPrinter
	failure *pterm.PrefixPrinter
	step    *pterm.PrefixPrinter
}

var _ types.UserOutput = (*Console)(nil)

// NewConsole creates a console writing to w. FormatAuto is resolved from
// w when it is a file, and falls back to plain text otherwise.
func NewConsole(w io.Writer, format Format) *Console {
	if format == FormatAuto {
		if f, ok := w.(*os.File); ok {
			format = DetectFormat(f)
		} else {
			format = FormatText
		}
	}

	c := &Console{w: w, format: format}
	if format == FormatTerminal {
		c.info = pterm.Info.WithWriter(w)
		c.success = pterm.Success.WithWriter(w)
		c.warning = pterm.Warning.WithWriter(w)
		c.failure = pterm.Error.WithWriter(w)
		c.step = pterm.Info.
			WithPrefix(pterm.Prefix{Text: " ➜ ", Style: pterm.NewStyle(pterm.FgCyan)}).
			WithWriter(w)
	}
	return c
}

// Format returns the resolved output format.
func (c *Console) Format() Format {
	return c.format
}

func (c *Console) Info(format string, args ...interface{}) {
	c.print(c.info, "", format, args)
}

func (c *Console) Success(format string, args ...interface{}) {
	c.print(c.success, "ok: ", format, args)
}

func (c *Console) Warning(format string, args ...interface{}) {
	c.print(c.warning, "warning: ", format, args)
}

func (c *Console) Error(format string, args ...interface{}) {
	c.print(c.failure, "error: ", format, args)
}

func (c *Console) Step(format string, args ...interface{}) {
	c.print(c.step, "-> ", format, args)
}

func (c *Console) Blank() {
	if c.format == FormatJSON {
		return
	}
	fmt.Fprintln(c.w)
}

func (c *Console) print(p *pterm.PrefixPrinter, textPrefix, format string, args []interface{}) {
	switch c.format {
	case FormatJSON:
		return
	case FormatTerminal:
		p.Printfln(format, args...)
	default:
		fmt.Fprintf(c.w, textPrefix+format+"\n", args...)
	}
}
