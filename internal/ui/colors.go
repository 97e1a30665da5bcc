package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// interface Painter defines coloring text with [lipgloss] styles
type Painter interface {
	On(string, lipgloss.Color) string // Sets background color
	As(string, lipgloss.Color) string // Sets foreground color
}

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
	plain bool
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

// DefaultPalette returns the standard colors, or a palette that leaves text untouched when colorize is false.
func DefaultPalette(colorize bool) *Palette {
	p := NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")
	p.plain = !colorize
	return p
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

func (p *Palette) render(s lipgloss.Style, text string) string {
	if p.plain {
		return text
	}
	return s.Render(text)
}

func (p *Palette) Title(text string) string { return p.render(p.title, text) }
func (p *Palette) OK(text string) string    { return p.render(p.ok, text) }
func (p *Palette) Error(text string) string { return p.render(p.err, text) }
func (p *Palette) Warn(text string) string  { return p.render(p.warn, text) }
func (p *Palette) Help(text string) string  { return p.render(p.help, text) }

// On implements [Painter].
func (p *Palette) On(text string, c lipgloss.Color) string {
	return p.render(lipgloss.NewStyle().Background(c), text)
}

// As implements [Painter].
func (p *Palette) As(text string, c lipgloss.Color) string {
	return p.render(lipgloss.NewStyle().Foreground(c), text)
}

// ColorEnabled reports whether w is a terminal that should receive colors. NO_COLOR disables colors everywhere.
func ColorEnabled(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
