package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// printer writes colored status lines. Commands pass stderr so that stdout only carries
// tables.
type printer struct {
	w io.Writer

	infoColor    *color.Color
	successColor *color.Color
	warnColor    *color.Color
	errorColor   *color.Color

	mu sync.Mutex
}

func newPrinter(w io.Writer) *printer {
	return &printer{
		w:            w,
		infoColor:    color.New(color.FgCyan),
		successColor: color.New(color.FgGreen, color.Bold),
		warnColor:    color.New(color.FgYellow),
		errorColor:   color.New(color.FgRed, color.Bold),
	}
}

func (p *printer) println(c *color.Color, msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = c.Fprintln(p.w, msg)
}

// Infof prints a formatted message in cyan
func (p *printer) Infof(format string, args ...interface{}) {
	p.println(p.infoColor, fmt.Sprintf(format, args...))
}

// Successf prints a formatted message in green
func (p *printer) Successf(format string, args ...interface{}) {
	p.println(p.successColor, fmt.Sprintf(format, args...))
}

// Warnf prints a formatted message in yellow
func (p *printer) Warnf(format string, args ...interface{}) {
	p.println(p.warnColor, fmt.Sprintf(format, args...))
}

// Errorf prints a formatted message in red
func (p *printer) Errorf(format string, args ...interface{}) {
	p.println(p.errorColor, fmt.Sprintf(format, args...))
}
