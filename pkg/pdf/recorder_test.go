package pdf

import (
	"io"
	"strings"
)

// fixedMetrics measures every rune as half the font size wide.
type fixedMetrics struct{}

func (fixedMetrics) StringWidth(text string, font Font) float64 {
	return float64(len([]rune(text))) * font.Size * 0.5
}

type textOp struct {
	page int
	x, y float64
	text string
	font Font
}

type rectOp struct {
	page       int
	x, y, w, h float64
}

// recorder is a Canvas that remembers what was drawn.
type recorder struct {
	fixedMetrics
	width, height float64
	page          int
	font          Font
	texts         []textOp
	rects         []rectOp
	lines         int
	images        []rectOp
	imageErr      error
}

func newRecorder() *recorder {
	return &recorder{width: 612, height: 792}
}

func (r *recorder) AddPage() { r.page++ }
func (r *recorder) PageSize() (float64, float64) { return r.width, r.height }
func (r *recorder) SetFont(f Font) { r.font = f }
func (r *recorder) SetTextColor(Color) {}
func (r *recorder) SetFillColor(Color) {}
func (r *recorder) SetDrawColor(Color) {}
func (r *recorder) SetLineWidth(float64) {}
func (r *recorder) Line(x1, y1, x2, y2 float64) { r.lines++ }
func (r *recorder) Output(w io.Writer) error {
	_, err := io.WriteString(w, "%PDF-rec")
	return err
}

func (r *recorder) Text(x, y float64, text string) {
	r.texts = append(r.texts, textOp{page: r.page, x: x, y: y, text: text, font: r.font})
}

func (r *recorder) RoundedRect(x, y, w, h, rad float64) {
	r.rects = append(r.rects, rectOp{page: r.page, x: x, y: y, w: w, h: h})
}

func (r *recorder) Image(data []byte, format string, x, y, w, h float64) error {
	if r.imageErr != nil {
		return r.imageErr
	}
	r.images = append(r.images, rectOp{page: r.page, x: x, y: y, w: w, h: h})
	return nil
}

func (r *recorder) textsContaining(s string) []textOp {
	var out []textOp
	for _, t := range r.texts {
		if strings.Contains(t.text, s) {
			out = append(out, t)
		}
	}
	return out
}
