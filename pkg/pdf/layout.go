package pdf

import (
	"math"
	"strings"
)

// Layout holds the fixed page geometry and typographic constants of a render pass.
type Layout struct {
	MarginX      float64
	MarginTop    float64
	MarginBottom float64
	// LineReserve is the space that must remain before a heading or text line is drawn.
	LineReserve float64

	HeadingFont  Font
	HeadingColor Color

	TextFont    Font
	TextLeading float64
	TextColor   Color

	Card CardStyle
}

// CardStyle holds the card box constants.
type CardStyle struct {
	Padding float64
	Leading float64
	Radius  float64
	Gap     float64

	// Box height contributions.
	TitleRow      float64
	SubtitleRow   float64
	BottomPadding float64

	// Baseline positions inside the box.
	TitleBaseline   float64
	TitleAdvance    float64
	SubtitleAdvance float64

	TitleFont    Font
	SubtitleFont Font
	BodyFont     Font

	Fill          Color
	Border        Color
	TitleColor    Color
	SubtitleColor Color
	BodyColor     Color
}

// DefaultLayout reproduces the résumé look: 2cm margins, 12pt section headings, 10pt
// body text and rounded grey cards.
func DefaultLayout() Layout {
	return Layout{
		MarginX:      2 * CM,
		MarginTop:    2 * CM,
		MarginBottom: 2 * CM,
		LineReserve:  1 * CM,

		HeadingFont:  Helvetica(12).Bold(),
		HeadingColor: Hex("#1f2937"),

		TextFont:    Helvetica(10),
		TextLeading: 16,
		TextColor:   Black,

		Card: CardStyle{
			Padding: 12,
			Leading: 12,
			Radius:  10,
			Gap:     14,

			TitleRow:      26,
			SubtitleRow:   13,
			BottomPadding: 14,

			TitleBaseline:   20,
			TitleAdvance:    14,
			SubtitleAdvance: 12,

			TitleFont:    Helvetica(11).Bold(),
			SubtitleFont: Helvetica(9),
			BodyFont:     Helvetica(9),

			Fill:          Hex("#F3F4F6"),
			Border:        Hex("#D1D5DB"),
			TitleColor:    Hex("#111827"),
			SubtitleColor: Hex("#374151"),
			BodyColor:     Black,
		},
	}
}

// RenderContext owns the mutable state of one render pass: the canvas, the cursor and the
// page geometry. It is not safe for concurrent use; every document gets its own.
type RenderContext struct {
	Canvas Canvas
	Cursor *Cursor
	Layout Layout

	width  float64
	height float64
	pages  int
}

// NewRenderContext opens the first page of c and positions the cursor at the top margin.
func NewRenderContext(c Canvas, l Layout) *RenderContext {
	rc := &RenderContext{Canvas: c, Layout: l}
	rc.width, rc.height = c.PageSize()
	rc.Cursor = NewCursor(rc.height, l.MarginTop, l.MarginBottom, rc.addPage)
	rc.addPage()
	return rc
}

func (rc *RenderContext) addPage() {
	rc.Canvas.AddPage()
	rc.pages++
}

// Pages reports how many pages have been opened.
func (rc *RenderContext) Pages() int { return rc.pages }

// PageWidth returns the page width.
func (rc *RenderContext) PageWidth() float64 { return rc.width }

// PageHeight returns the page height.
func (rc *RenderContext) PageHeight() float64 { return rc.height }

// Left is the x of the left content edge.
func (rc *RenderContext) Left() float64 { return rc.Layout.MarginX }

// Right is the x of the right content edge.
func (rc *RenderContext) Right() float64 { return rc.width - rc.Layout.MarginX }

// ContentWidth is the distance between the left and right content edges.
func (rc *RenderContext) ContentWidth() float64 { return rc.Right() - rc.Left() }

// NewPage forces a page break.
func (rc *RenderContext) NewPage() { rc.Cursor.Break() }

// Section describes a titled block of the document.
type Section struct {
	Title string
	// Rule draws a horizontal line under the title.
	Rule bool
}

// DrawSection draws the heading of s and then body, which draws the section contents with
// the same context.
func (rc *RenderContext) DrawSection(s Section, body func(rc *RenderContext)) {
	l := rc.Layout
	rc.Cursor.EnsureSpace(l.LineReserve)
	rc.Cursor.Advance(0.15 * CM)

	rc.Canvas.SetTextColor(l.HeadingColor)
	rc.Canvas.SetFont(l.HeadingFont)
	rc.Canvas.Text(rc.Left(), rc.Cursor.Y(), strings.ToUpper(s.Title))
	rc.Cursor.Advance(0.55 * CM)

	if s.Rule {
		rc.Canvas.SetDrawColor(l.HeadingColor)
		rc.Canvas.SetLineWidth(1)
		rc.Canvas.Line(rc.Left(), rc.Cursor.Y(), rc.Right(), rc.Cursor.Y())
	}
	rc.Cursor.Advance(0.45 * CM)

	if body != nil {
		body(rc)
	}
}

// DrawWrappedText draws text wrapped to the content width in the body font, breaking pages
// between lines as needed.
func (rc *RenderContext) DrawWrappedText(text string) int {
	l := rc.Layout
	lines := Wrap(rc.Canvas, text, l.TextFont, rc.ContentWidth())
	if len(lines) == 0 {
		return 0
	}

	rc.Canvas.SetFont(l.TextFont)
	rc.Canvas.SetTextColor(l.TextColor)
	for _, line := range lines {
		rc.Cursor.EnsureSpace(l.LineReserve)
		rc.Canvas.Text(rc.Left(), rc.Cursor.Y(), line)
		rc.Cursor.Advance(l.TextLeading)
	}
	rc.Cursor.Advance(4)
	return len(lines)
}

// Card is a boxed record: a bold title, an optional subtitle and an optional wrapped body.
type Card struct {
	Title    string
	Subtitle string
	Body     string
}

// CardInnerWidth is the width available to card text.
func (rc *RenderContext) CardInnerWidth() float64 {
	return rc.ContentWidth() - 2*rc.Layout.Card.Padding
}

// CardLines wraps the card body exactly as DrawCard draws it.
func (rc *RenderContext) CardLines(card Card) []string {
	return Wrap(rc.Canvas, card.Body, rc.Layout.Card.BodyFont, rc.CardInnerWidth())
}

// CardHeight is the box height for a card whose body wraps to lines.
func CardHeight(s CardStyle, hasSubtitle bool, lines int) float64 {
	h := s.TitleRow
	if hasSubtitle {
		h += s.SubtitleRow
	}
	h += float64(lines) * s.Leading
	h += s.BottomPadding
	return h
}

// DrawCard draws card as one unit: when it does not fit in the remaining space the whole
// card moves to the next page. It returns the height of the box.
func (rc *RenderContext) DrawCard(card Card) float64 {
	s := rc.Layout.Card
	lines := rc.CardLines(card)
	height := CardHeight(s, card.Subtitle != "", len(lines))

	rc.Cursor.EnsureSpace(height)
	top := rc.Cursor.Y()
	x := rc.Left() + s.Padding

	rc.Canvas.SetFillColor(s.Fill)
	rc.Canvas.SetDrawColor(s.Border)
	rc.Canvas.SetLineWidth(1)
	rc.Canvas.RoundedRect(rc.Left(), top, rc.ContentWidth(), height, s.Radius)

	textY := top + s.TitleBaseline
	rc.Canvas.SetTextColor(s.TitleColor)
	rc.Canvas.SetFont(s.TitleFont)
	rc.Canvas.Text(x, textY, card.Title)
	textY += s.TitleAdvance

	if card.Subtitle != "" {
		rc.Canvas.SetTextColor(s.SubtitleColor)
		rc.Canvas.SetFont(s.SubtitleFont)
		rc.Canvas.Text(x, textY, card.Subtitle)
		textY += s.SubtitleAdvance
	}

	if len(lines) > 0 {
		rc.Canvas.SetTextColor(s.BodyColor)
		rc.Canvas.SetFont(s.BodyFont)
		for _, line := range lines {
			rc.Canvas.Text(x, textY, line)
			textY += s.Leading
		}
	}

	rc.Cursor.Advance(height + s.Gap)
	return height
}

// FitImage scales a w×h image uniformly so that it fits inside maxW×maxH.
func FitImage(w, h, maxW, maxH float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	s := math.Min(maxW/w, maxH/h)
	return w * s, h * s
}
