package console

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
)

var (
	// Color printers
	infoColor    = color.New(color.FgBlue).SprintFunc()
	successColor = color.New(color.FgGreen).SprintFunc()
	warningColor = color.New(color.FgYellow).SprintFunc()
	errorColor   = color.New(color.FgRed).SprintFunc()
	alertColor   = color.New(color.FgRed, color.Bold).SprintFunc()
)

// Printer writes tagged status lines for the user
type Printer struct {
	out io.Writer
}

// NewPrinter creates a printer writing to out (stdout when nil)
func NewPrinter(out io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	return &Printer{out: out}
}

// Writer returns the underlying writer
func (p *Printer) Writer() io.Writer {
	return p.out
}

func (p *Printer) line(tag string, format string, args ...interface{}) {
	fmt.Fprintf(p.out, "%s %s\n", tag, fmt.Sprintf(format, args...))
}

func (p *Printer) Info(format string, args ...interface{}) {
	p.line(infoColor("[*]"), format, args...)
}

func (p *Printer) Success(format string, args ...interface{}) {
	p.line(successColor("[+]"), format, args...)
}

func (p *Printer) Warning(format string, args ...interface{}) {
	p.line(warningColor("[!]"), format, args...)
}

func (p *Printer) Error(format string, args ...interface{}) {
	p.line(errorColor("[-]"), format, args...)
}

func (p *Printer) Alert(format string, args ...interface{}) {
	p.line(alertColor("[!!!]"), format, args...)
}

// SetColor turns ANSI colouring on or off for all printers
func SetColor(enabled bool) {
	color.NoColor = !enabled
}

// NewLogger returns the diagnostic logger. Debug output is enabled by debug.
func NewLogger(w io.Writer, debug bool) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          "pngprobe",
		ReportTimestamp: true,
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}
