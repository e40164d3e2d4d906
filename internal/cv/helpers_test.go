package cv

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/fabrii324/Hojadevida-Fabricio/pkg/media"
	"github.com/fabrii324/Hojadevida-Fabricio/pkg/pdf"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindActiveProfile(ctx context.Context) (*Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Profile), args.Error(1)
}

func (m *MockRepository) ListWorkExperience(ctx context.Context, profileID int64) ([]*WorkExperience, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*WorkExperience), args.Error(1)
}

func (m *MockRepository) ListCourses(ctx context.Context, profileID int64) ([]*Course, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Course), args.Error(1)
}

func (m *MockRepository) ListAwards(ctx context.Context, profileID int64) ([]*Award, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Award), args.Error(1)
}

func (m *MockRepository) ListAcademicOutputs(ctx context.Context, profileID int64) ([]*AcademicOutput, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*AcademicOutput), args.Error(1)
}

func (m *MockRepository) ListLaborOutputs(ctx context.Context, profileID int64) ([]*LaborOutput, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*LaborOutput), args.Error(1)
}

func (m *MockRepository) ListGarageItems(ctx context.Context, profileID int64) ([]*GarageItem, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*GarageItem), args.Error(1)
}

func (m *MockRepository) GetCourse(ctx context.Context, profileID, id int64) (*Course, error) {
	args := m.Called(ctx, profileID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Course), args.Error(1)
}

func (m *MockRepository) GetAward(ctx context.Context, profileID, id int64) (*Award, error) {
	args := m.Called(ctx, profileID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Award), args.Error(1)
}

func (m *MockRepository) GetAcademicOutput(ctx context.Context, profileID, id int64) (*AcademicOutput, error) {
	args := m.Called(ctx, profileID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*AcademicOutput), args.Error(1)
}

func (m *MockRepository) GetLaborOutput(ctx context.Context, profileID, id int64) (*LaborOutput, error) {
	args := m.Called(ctx, profileID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*LaborOutput), args.Error(1)
}

// expectPortfolio wires the calls GetPortfolio makes.
func expectPortfolio(m *MockRepository, p *Portfolio) {
	m.On("FindActiveProfile", mock.Anything).Return(p.Profile, nil)
	if p.Profile == nil {
		return
	}
	id := p.Profile.ID
	m.On("ListWorkExperience", mock.Anything, id).Return(p.WorkExperience, nil)
	m.On("ListCourses", mock.Anything, id).Return(p.Courses, nil)
	m.On("ListAwards", mock.Anything, id).Return(p.Awards, nil)
	m.On("ListAcademicOutputs", mock.Anything, id).Return(p.AcademicOutputs, nil)
	m.On("ListLaborOutputs", mock.Anything, id).Return(p.LaborOutputs, nil)
}

func strPtr(s string) *string { return &s }

// fakeFetcher serves images by URL, or any URL when fallback is set, and fails otherwise.
type fakeFetcher struct {
	mu       sync.Mutex
	images   map[string]*media.Image
	fallback *media.Image
	calls    []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{images: map[string]*media.Image{}}
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (*media.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	if img, ok := f.images[url]; ok {
		return img, nil
	}
	if f.fallback != nil {
		return f.fallback, nil
	}
	return nil, &media.FetchError{Kind: media.FailureStatus, URL: url, Status: 404}
}

type textOp struct {
	page  int
	x, y  float64
	text  string
	font  pdf.Font
	color pdf.Color
}

type rectOp struct {
	page       int
	x, y, w, h float64
}

// recorder is a Canvas that remembers what was drawn. Every rune is half the font size wide.
type recorder struct {
	page   int
	font   pdf.Font
	color  pdf.Color
	texts  []textOp
	rects  []rectOp
	images []rectOp
}

func (r *recorder) StringWidth(text string, font pdf.Font) float64 {
	return float64(len([]rune(text))) * font.Size * 0.5
}

func (r *recorder) AddPage()                     { r.page++ }
func (r *recorder) PageSize() (float64, float64) { return 612, 792 }
func (r *recorder) SetFont(f pdf.Font)           { r.font = f }
func (r *recorder) SetTextColor(c pdf.Color)     { r.color = c }
func (r *recorder) SetFillColor(pdf.Color)       {}
func (r *recorder) SetDrawColor(pdf.Color)       {}
func (r *recorder) SetLineWidth(float64)         {}
func (r *recorder) Line(x1, y1, x2, y2 float64)  {}

func (r *recorder) Output(w io.Writer) error {
	_, err := io.WriteString(w, "%PDF-rec")
	return err
}

func (r *recorder) Text(x, y float64, text string) {
	r.texts = append(r.texts, textOp{page: r.page, x: x, y: y, text: text, font: r.font, color: r.color})
}

func (r *recorder) RoundedRect(x, y, w, h, rad float64) {
	r.rects = append(r.rects, rectOp{page: r.page, x: x, y: y, w: w, h: h})
}

func (r *recorder) Image(data []byte, format string, x, y, w, h float64) error {
	r.images = append(r.images, rectOp{page: r.page, x: x, y: y, w: w, h: h})
	return nil
}

func (r *recorder) find(s string) []textOp {
	var out []textOp
	for _, t := range r.texts {
		if strings.Contains(t.text, s) {
			out = append(out, t)
		}
	}
	return out
}

func (r *recorder) indexOf(s string) int {
	for i, t := range r.texts {
		if t.text == s {
			return i
		}
	}
	return -1
}
