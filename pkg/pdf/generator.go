// Package pdf lays out résumé documents: text metrics, greedy line wrapping, a page
// cursor, titled sections and atomic cards drawn onto a gofpdf canvas.
package pdf

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// Canvas is the drawing surface used by the layout engine. Coordinates are in points with
// the origin at the top-left corner of the page; text is positioned by its baseline.
type Canvas interface {
	Metrics

	AddPage()
	PageSize() (width, height float64)

	SetFont(font Font)
	SetTextColor(c Color)
	SetFillColor(c Color)
	SetDrawColor(c Color)
	SetLineWidth(w float64)

	Text(x, y float64, text string)
	Line(x1, y1, x2, y2 float64)
	RoundedRect(x, y, w, h, r float64)
	Image(data []byte, format string, x, y, w, h float64) error

	Output(w io.Writer) error
}

// FpdfCanvas draws onto a gofpdf document. A second, never-output document is kept for
// measuring so that metrics never disturb the drawing font state.
type FpdfCanvas struct {
	pdf       *gofpdf.Fpdf
	measure   *gofpdf.Fpdf
	translate func(string) string
	images    int
}

// NewFpdfCanvas creates a portrait canvas in points for the named page size (A4, Letter,
// Legal).
func NewFpdfCanvas(pageSize string) *FpdfCanvas {
	pdf := gofpdf.New("P", "pt", pageSize, "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	measure := gofpdf.New("P", "pt", pageSize, "")

	return &FpdfCanvas{
		pdf:       pdf,
		measure:   measure,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (c *FpdfCanvas) AddPage() { c.pdf.AddPage() }

func (c *FpdfCanvas) PageSize() (float64, float64) { return c.pdf.GetPageSize() }

func (c *FpdfCanvas) SetFont(font Font) {
	c.pdf.SetFont(font.Family, font.Style, font.Size)
}

func (c *FpdfCanvas) SetTextColor(col Color) { c.pdf.SetTextColor(col.R, col.G, col.B) }

func (c *FpdfCanvas) SetFillColor(col Color) { c.pdf.SetFillColor(col.R, col.G, col.B) }

func (c *FpdfCanvas) SetDrawColor(col Color) { c.pdf.SetDrawColor(col.R, col.G, col.B) }

func (c *FpdfCanvas) SetLineWidth(w float64) { c.pdf.SetLineWidth(w) }

func (c *FpdfCanvas) Text(x, y float64, text string) {
	c.pdf.Text(x, y, c.translate(text))
}

func (c *FpdfCanvas) Line(x1, y1, x2, y2 float64) { c.pdf.Line(x1, y1, x2, y2) }

// RoundedRect draws a filled and stroked rectangle with all four corners rounded.
func (c *FpdfCanvas) RoundedRect(x, y, w, h, r float64) {
	c.pdf.RoundedRect(x, y, w, h, r, "1234", "FD")
}

// StringWidth measures text in the same core font and encoding used by Text.
func (c *FpdfCanvas) StringWidth(text string, font Font) float64 {
	c.measure.SetFont(font.Family, font.Style, font.Size)
	return c.measure.GetStringWidth(c.translate(text))
}

// Image embeds a PNG or JPEG. A rejected image leaves the document usable.
func (c *FpdfCanvas) Image(data []byte, format string, x, y, w, h float64) error {
	c.images++
	name := fmt.Sprintf("img%d", c.images)
	opts := gofpdf.ImageOptions{ImageType: format}

	info := c.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if err := c.pdf.Error(); err != nil {
		c.pdf.ClearError()
		return fmt.Errorf("register image: %w", err)
	}
	if info == nil {
		return fmt.Errorf("register image: no image info")
	}

	c.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	return nil
}

// Output writes the finished document.
func (c *FpdfCanvas) Output(w io.Writer) error {
	return c.pdf.Output(w)
}
