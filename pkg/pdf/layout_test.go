package pdf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func longBody(words int) string {
	parts := make([]string, words)
	for i := range parts {
		parts[i] = "lorem"
	}
	return strings.Join(parts, " ")
}

func TestNewRenderContextOpensFirstPage(t *testing.T) {
	rec := newRecorder()
	rc := NewRenderContext(rec, DefaultLayout())

	assert.Equal(t, 1, rec.page)
	assert.Equal(t, 1, rc.Pages())
	assert.InDelta(t, 2*CM, rc.Cursor.Y(), 1e-9)
	assert.InDelta(t, 612-4*CM, rc.ContentWidth(), 1e-9)
}

func TestDrawSectionRule(t *testing.T) {
	rec := newRecorder()
	rc := NewRenderContext(rec, DefaultLayout())

	rc.DrawSection(Section{Title: "Courses", Rule: true}, nil)
	assert.Equal(t, 1, rec.lines)
	require.Len(t, rec.texts, 1)
	assert.Equal(t, "COURSES", rec.texts[0].text)
	assert.Equal(t, "B", rec.texts[0].font.Style)

	rc.DrawSection(Section{Title: "Personal data", Rule: false}, nil)
	assert.Equal(t, 1, rec.lines)
}

func TestDrawSectionRunsBodyAfterHeading(t *testing.T) {
	rec := newRecorder()
	rc := NewRenderContext(rec, DefaultLayout())

	var headingY, bodyY float64
	rc.DrawSection(Section{Title: "Awards", Rule: true}, func(rc *RenderContext) {
		headingY = rec.texts[0].y
		bodyY = rc.Cursor.Y()
	})

	assert.InDelta(t, 2*CM+0.15*CM, headingY, 1e-9)
	assert.InDelta(t, 2*CM+1.15*CM, bodyY, 1e-9)
}

func TestDrawCardHeightMatchesDrawnLines(t *testing.T) {
	rec := newRecorder()
	rc := NewRenderContext(rec, DefaultLayout())

	card := Card{Title: "Go course", Subtitle: "2023-01-01 - 2023-02-01", Body: longBody(120)}
	lines := rc.CardLines(card)
	require.Greater(t, len(lines), 1)

	height := rc.DrawCard(card)

	assert.Equal(t, CardHeight(rc.Layout.Card, true, len(lines)), height)
	assert.Equal(t, 26.0+13+float64(len(lines))*12+14, height)
	// title + subtitle + one Text per body line
	assert.Len(t, rec.texts, 2+len(lines))
	require.Len(t, rec.rects, 1)
	assert.Equal(t, height, rec.rects[0].h)
}

func TestDrawCardWithoutSubtitleOrBody(t *testing.T) {
	rec := newRecorder()
	rc := NewRenderContext(rec, DefaultLayout())

	height := rc.DrawCard(Card{Title: "No courses registered."})

	assert.Equal(t, 40.0, height)
	assert.Len(t, rec.texts, 1)
}

func TestDrawCardNeverSplitsAcrossPages(t *testing.T) {
	rec := newRecorder()
	rc := NewRenderContext(rec, DefaultLayout())
	bottom := rc.PageHeight() - rc.Layout.MarginBottom

	for i := 0; i < 40; i++ {
		rc.DrawCard(Card{Title: "card", Subtitle: "sub", Body: longBody(10 + i*7)})
	}

	require.Greater(t, rec.page, 1)
	assert.Equal(t, rec.page, 1+rc.Cursor.Breaks())
	for _, r := range rec.rects {
		assert.GreaterOrEqual(t, r.y, rc.Layout.MarginTop-1e-9)
		assert.LessOrEqual(t, r.y+r.h, bottom+1e-9)
	}
	for _, tx := range rec.texts {
		assert.Less(t, tx.y, bottom)
	}
}

func TestDrawCardMovesToNextPageWhenItDoesNotFit(t *testing.T) {
	rec := newRecorder()
	rc := NewRenderContext(rec, DefaultLayout())

	rc.Cursor.Advance(rc.Cursor.Remaining() - 30)
	rc.DrawCard(Card{Title: "tall", Subtitle: "sub"})

	assert.Equal(t, 2, rec.page)
	require.Len(t, rec.rects, 1)
	assert.Equal(t, 2, rec.rects[0].page)
	assert.InDelta(t, rc.Layout.MarginTop, rec.rects[0].y, 1e-9)
}

func TestDrawWrappedTextBreaksBetweenLines(t *testing.T) {
	rec := newRecorder()
	rc := NewRenderContext(rec, DefaultLayout())

	n := rc.DrawWrappedText(longBody(2000))

	assert.Equal(t, len(rec.texts), n)
	assert.Greater(t, rec.page, 1)
	for _, tx := range rec.texts {
		assert.LessOrEqual(t, tx.y, rc.PageHeight()-rc.Layout.MarginBottom-rc.Layout.LineReserve+1e-9)
	}
}

func TestDrawWrappedTextEmpty(t *testing.T) {
	rec := newRecorder()
	rc := NewRenderContext(rec, DefaultLayout())
	y := rc.Cursor.Y()

	assert.Equal(t, 0, rc.DrawWrappedText(""))
	assert.Equal(t, y, rc.Cursor.Y())
}

func TestFitImagePreservesAspectRatio(t *testing.T) {
	cases := []struct {
		w, h, maxW, maxH float64
		wantW, wantH     float64
	}{
		{1000, 500, 500, 600, 500, 250},
		{500, 1000, 500, 600, 300, 600},
		{100, 100, 500, 600, 500, 500},
	}
	for _, tc := range cases {
		w, h := FitImage(tc.w, tc.h, tc.maxW, tc.maxH)
		assert.InDelta(t, tc.wantW, w, 1e-9)
		assert.InDelta(t, tc.wantH, h, 1e-9)
		assert.InDelta(t, tc.w/tc.h, w/h, 1e-9)
	}

	w, h := FitImage(0, 10, 100, 100)
	assert.Zero(t, w)
	assert.Zero(t, h)
}

func TestHex(t *testing.T) {
	assert.Equal(t, Color{31, 41, 55}, Hex("#1f2937"))
	assert.Equal(t, Color{243, 244, 246}, Hex("F3F4F6"))
	assert.Equal(t, Black, Hex("nope"))
}
