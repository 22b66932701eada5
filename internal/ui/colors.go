// Package ui styles CLI output for the qloudsound admin commands.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mikelobato/qloudsound-api/internal/models"
)

// DefaultPalette is the stylesheet used by the CLI listings.
var DefaultPalette = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

// Title renders a section heading.
func (p *Palette) Title(s string) string {
	return p.title.Render(s)
}

// Help renders secondary hint text.
func (p *Palette) Help(s string) string {
	return p.help.Render(s)
}

// Error renders failure text.
func (p *Palette) Error(s string) string {
	return p.err.Render(s)
}

// CatalogStatus colors a catalog status: published green, requested amber.
func (p *Palette) CatalogStatus(status models.CatalogStatus) string {
	if status == models.CatalogPublished {
		return p.ok.Render(string(status))
	}
	return p.warn.Render(string(status))
}

// SubmissionStatus colors a submission status: completed green,
// everything in flight amber.
func (p *Palette) SubmissionStatus(status models.SubmissionStatus) string {
	if status == models.StatusCompleted {
		return p.ok.Render(string(status))
	}
	return p.warn.Render(string(status))
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
