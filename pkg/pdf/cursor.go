package pdf

// Cursor tracks the vertical write position on the current page, measured from the top
// edge. Page breaks only move forward.
type Cursor struct {
	y            float64
	pageHeight   float64
	topMargin    float64
	bottomMargin float64
	breaks       int
	onBreak      func()
}

// NewCursor returns a cursor positioned at the top margin. onBreak is invoked on every page
// break to finalize the current page and start the next one.
func NewCursor(pageHeight, topMargin, bottomMargin float64, onBreak func()) *Cursor {
	return &Cursor{
		y:            topMargin,
		pageHeight:   pageHeight,
		topMargin:    topMargin,
		bottomMargin: bottomMargin,
		onBreak:      onBreak,
	}
}

// Y returns the current offset from the top of the page.
func (c *Cursor) Y() float64 { return c.y }

// Advance moves the cursor down by dy.
func (c *Cursor) Advance(dy float64) { c.y += dy }

// Remaining returns the vertical space left above the bottom margin.
func (c *Cursor) Remaining() float64 {
	return c.pageHeight - c.bottomMargin - c.y
}

// ContentHeight is the usable height of a full page.
func (c *Cursor) ContentHeight() float64 {
	return c.pageHeight - c.bottomMargin - c.topMargin
}

// Breaks reports how many page breaks the cursor has emitted.
func (c *Cursor) Breaks() int { return c.breaks }

// EnsureSpace breaks the page when less than min remains. It reports whether a break
// happened.
func (c *Cursor) EnsureSpace(min float64) bool {
	if c.Remaining() >= min {
		return false
	}
	c.Break()
	return true
}

// Break unconditionally starts a new page and resets the cursor to the top margin.
func (c *Cursor) Break() {
	if c.onBreak != nil {
		c.onBreak()
	}
	c.breaks++
	c.y = c.topMargin
}
