package cv

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fabrii324/Hojadevida-Fabricio/pkg/media"
	"github.com/fabrii324/Hojadevida-Fabricio/pkg/pdf"
	"github.com/fabrii324/Hojadevida-Fabricio/pkg/storage"
)

// SectionKey names a résumé section in a render request.
type SectionKey string

const (
	SectionPersonalData    SectionKey = "datos"
	SectionWorkExperience  SectionKey = "experiencia"
	SectionCourses         SectionKey = "cursos"
	SectionAwards          SectionKey = "reconocimientos"
	SectionAcademicOutputs SectionKey = "prod_academicos"
	SectionLaborOutputs    SectionKey = "prod_laborales"
)

// RenderRequest selects the sections and certificate annexes of a document. Section order
// is irrelevant; certificate order is the annex order.
type RenderRequest struct {
	Sections     []string
	Certificates []string
}

func (r RenderRequest) wants(key SectionKey) bool {
	for _, s := range r.Sections {
		if SectionKey(strings.TrimSpace(s)) == key {
			return true
		}
	}
	return false
}

// RenderResult summarizes a finished render.
type RenderResult struct {
	Pages    int
	Sections []SectionKey
	Annexes  int
}

type sectionRenderer struct {
	key     SectionKey
	section pdf.Section
	draw    func(rc *pdf.RenderContext, p *Portfolio)
}

// canonicalSections is the fixed drawing order.
var canonicalSections = []sectionRenderer{
	{SectionPersonalData, pdf.Section{Title: "Personal Data"}, drawPersonalData},
	{SectionWorkExperience, pdf.Section{Title: "Work Experience", Rule: true}, drawWorkExperience},
	{SectionCourses, pdf.Section{Title: "Courses", Rule: true}, drawCourses},
	{SectionAwards, pdf.Section{Title: "Awards", Rule: true}, drawAwards},
	{SectionAcademicOutputs, pdf.Section{Title: "Academic Outputs", Rule: true}, drawAcademicOutputs},
	{SectionLaborOutputs, pdf.Section{Title: "Labor Outputs", Rule: true}, drawLaborOutputs},
}

var (
	headerNameColor = pdf.Hex("#111827")
	headerMuted     = pdf.Hex("#4b5563")
)

const (
	photoSize   = 3.6 * pdf.CM
	photoInset  = 0.6 * pdf.CM
	photoBottom = 5.0 * pdf.CM
)

// Composer renders portfolios into PDF documents.
type Composer struct {
	repo     Repository
	fetcher  media.Fetcher
	resolver storage.URLResolver
	cache    *media.ImageCache
	layout   pdf.Layout
	pageSize string
	logger   *zap.Logger
}

// NewComposer creates a composer. repo resolves annex tokens; fetcher and resolver load the
// profile photo and certificate images. cache may be nil, which disables image reuse.
func NewComposer(repo Repository, fetcher media.Fetcher, resolver storage.URLResolver, cache *media.ImageCache, pageSize string, logger *zap.Logger) *Composer {
	if pageSize == "" {
		pageSize = "Letter"
	}
	return &Composer{
		repo:     repo,
		fetcher:  fetcher,
		resolver: resolver,
		cache:    cache,
		layout:   pdf.DefaultLayout(),
		pageSize: pageSize,
		logger:   logger,
	}
}

// Compose renders p onto a fresh gofpdf document and writes it to w.
func (c *Composer) Compose(ctx context.Context, w io.Writer, p *Portfolio, req RenderRequest) (*RenderResult, error) {
	canvas := pdf.NewFpdfCanvas(c.pageSize)
	result := c.Render(ctx, canvas, p, req)
	if err := canvas.Output(w); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return result, nil
}

// Render draws the whole document onto canvas. Problems with individual images are drawn
// into the document instead of being returned.
func (c *Composer) Render(ctx context.Context, canvas pdf.Canvas, p *Portfolio, req RenderRequest) *RenderResult {
	rc := pdf.NewRenderContext(canvas, c.layout)
	result := &RenderResult{}

	if p == nil || p.Profile == nil {
		canvas.SetTextColor(pdf.Black)
		canvas.SetFont(pdf.Helvetica(14).Bold())
		canvas.Text(rc.Left(), rc.Cursor.Y(), "No active profile exists.")
		result.Pages = rc.Pages()
		return result
	}

	c.drawHeader(ctx, rc, p.Profile)

	for _, s := range canonicalSections {
		if !req.wants(s.key) {
			continue
		}
		rc.DrawSection(s.section, func(rc *pdf.RenderContext) { s.draw(rc, p) })
		result.Sections = append(result.Sections, s.key)
	}

	result.Annexes = c.drawAnnexes(ctx, rc, p.Profile.ID, req.Certificates)
	result.Pages = rc.Pages()
	return result
}

func (c *Composer) drawHeader(ctx context.Context, rc *pdf.RenderContext, profile *Profile) {
	canvas := rc.Canvas

	if ref := deref(profile.PhotoURL); ref != "" {
		x := rc.Right() - photoSize - photoInset
		y := photoBottom - photoSize

		img, err := c.loadImage(ctx, ref)
		if err == nil {
			err = canvas.Image(img.Data, img.Format, x, y, photoSize, photoSize)
		}
		if err != nil {
			loggerFrom(ctx, c.logger).Warn("Failed to load profile photo",
				zap.String("ref", ref),
				zap.String("kind", string(media.KindOf(err))),
				zap.Error(err))
			canvas.SetTextColor(pdf.Red)
			canvas.SetFont(pdf.Helvetica(8))
			canvas.Text(x, y+photoSize/2, "Photo unavailable")
		}
	}

	canvas.SetTextColor(headerNameColor)
	canvas.SetFont(pdf.Helvetica(18).Bold())
	canvas.Text(rc.Left(), rc.Cursor.Y(), profile.FullName())
	rc.Cursor.Advance(22)

	canvas.SetTextColor(headerMuted)
	canvas.SetFont(pdf.Helvetica(11))
	canvas.Text(rc.Left(), rc.Cursor.Y(), profile.Summary)
	rc.Cursor.Advance(25)
}

// loadImage resolves a stored reference and fetches the image behind it. Images are cached
// by reference because resolved URLs may be presigned and differ on every call.
func (c *Composer) loadImage(ctx context.Context, ref string) (*media.Image, error) {
	if c.cache != nil {
		if img, ok := c.cache.Get(ref); ok {
			return img, nil
		}
	}

	url, err := c.resolver.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	img, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.Set(ref, img)
	}
	return img, nil
}

// =====================================================
// Sections
// =====================================================

func drawPersonalData(rc *pdf.RenderContext, p *Portfolio) {
	rc.DrawWrappedText("ID Number: " + p.Profile.IDNumber)
	rc.DrawWrappedText("Nationality: " + p.Profile.Nationality)
	rc.DrawWrappedText("Address: " + p.Profile.HomeAddress)
}

func drawWorkExperience(rc *pdf.RenderContext, p *Portfolio) {
	if len(p.WorkExperience) == 0 {
		rc.DrawCard(pdf.Card{Title: "No work experience registered."})
		return
	}
	for _, e := range p.WorkExperience {
		rc.DrawCard(pdf.Card{
			Title:    e.Role + " - " + e.Company,
			Subtitle: e.Location,
			Body:     e.Description,
		})
	}
}

func drawCourses(rc *pdf.RenderContext, p *Portfolio) {
	if len(p.Courses) == 0 {
		rc.DrawCard(pdf.Card{Title: "No courses registered."})
		return
	}
	for _, c := range p.Courses {
		rc.DrawCard(pdf.Card{
			Title:    fmt.Sprintf("%s (%d hours)", c.Name, c.TotalHours),
			Subtitle: dateRange(c.StartDate, c.EndDate),
			Body:     c.Description,
		})
	}
}

func drawAwards(rc *pdf.RenderContext, p *Portfolio) {
	if len(p.Awards) == 0 {
		rc.DrawCard(pdf.Card{Title: "No awards registered."})
		return
	}
	for _, a := range p.Awards {
		rc.DrawCard(pdf.Card{
			Title:    fmt.Sprintf("%s: %s", a.Type, a.Description),
			Subtitle: a.Sponsor,
		})
	}
}

func drawAcademicOutputs(rc *pdf.RenderContext, p *Portfolio) {
	if len(p.AcademicOutputs) == 0 {
		rc.DrawCard(pdf.Card{Title: "No academic outputs registered."})
		return
	}
	for _, o := range p.AcademicOutputs {
		rc.DrawCard(pdf.Card{Title: o.Name, Subtitle: o.Classifier, Body: o.Description})
	}
}

func drawLaborOutputs(rc *pdf.RenderContext, p *Portfolio) {
	if len(p.LaborOutputs) == 0 {
		rc.DrawCard(pdf.Card{Title: "No labor outputs registered."})
		return
	}
	for _, o := range p.LaborOutputs {
		rc.DrawCard(pdf.Card{Title: o.Name, Subtitle: formatDate(o.Date), Body: o.Description})
	}
}

const dateLayout = "2006-01-02"

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func dateRange(start time.Time, end *time.Time) string {
	s := formatDate(&start)
	e := formatDate(end)
	switch {
	case s == "":
		return e
	case e == "":
		return s
	default:
		return s + " - " + e
	}
}
