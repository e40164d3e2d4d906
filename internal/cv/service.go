package cv

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/fabrii324/Hojadevida-Fabricio/pkg/storage"
)

// Exporter writes a portfolio in a downloadable format.
type Exporter interface {
	Export(w io.Writer, p *Portfolio) error
}

// Export formats
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// Exporters maps an export format to the exporter producing it.
type Exporters map[string]Exporter

type loggerKey struct{}

// ContextWithLogger returns a copy of ctx whose operations log through logger.
func ContextWithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

func loggerFrom(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok && l != nil {
		return l
	}
	return fallback
}

// Service provides the read side of the portfolio: the projections behind the HTML view,
// the JSON API and the generated documents.
type Service struct {
	repo      Repository
	composer  *Composer
	resolver  storage.URLResolver
	exporters Exporters
	whatsApp  string
	logger    *zap.Logger
}

// NewService creates a new portfolio service
func NewService(repo Repository, composer *Composer, resolver storage.URLResolver, exporters Exporters, whatsApp string, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		composer:  composer,
		resolver:  resolver,
		exporters: exporters,
		whatsApp:  whatsApp,
		logger:    logger,
	}
}

// GetPortfolio loads the active profile with its visible records and certificate
// catalogue. A missing profile yields an empty portfolio, not an error.
func (s *Service) GetPortfolio(ctx context.Context) (*Portfolio, error) {
	profile, err := s.repo.FindActiveProfile(ctx)
	if err != nil {
		return nil, err
	}

	p := &Portfolio{Profile: profile}
	if profile == nil {
		return p, nil
	}
	p.PhotoURL = s.resolveURL(ctx, profile.PhotoURL)

	if p.WorkExperience, err = s.repo.ListWorkExperience(ctx, profile.ID); err != nil {
		return nil, err
	}
	if p.Courses, err = s.repo.ListCourses(ctx, profile.ID); err != nil {
		return nil, err
	}
	if p.Awards, err = s.repo.ListAwards(ctx, profile.ID); err != nil {
		return nil, err
	}
	if p.AcademicOutputs, err = s.repo.ListAcademicOutputs(ctx, profile.ID); err != nil {
		return nil, err
	}
	if p.LaborOutputs, err = s.repo.ListLaborOutputs(ctx, profile.ID); err != nil {
		return nil, err
	}

	p.Certificates = BuildCatalogue(p)
	return p, nil
}

// ListCertificates returns the certificate catalogue of the active profile.
func (s *Service) ListCertificates(ctx context.Context) ([]CertificateEntry, error) {
	p, err := s.GetPortfolio(ctx)
	if err != nil {
		return nil, err
	}
	if p.Certificates == nil {
		return []CertificateEntry{}, nil
	}
	return p.Certificates, nil
}

// GetGarage returns the garage sale listing of the active profile.
func (s *Service) GetGarage(ctx context.Context) (*GarageListing, error) {
	profile, err := s.repo.FindActiveProfile(ctx)
	if err != nil {
		return nil, err
	}

	listing := &GarageListing{
		Profile:  profile,
		Items:    []*GarageItem{},
		Photos:   map[int64]string{},
		WhatsApp: s.whatsApp,
	}
	if profile == nil {
		return listing, nil
	}

	items, err := s.repo.ListGarageItems(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if url := s.resolveURL(ctx, item.PhotoURL); url != "" {
			listing.Photos[item.ID] = url
		}
	}
	if items != nil {
		listing.Items = items
	}
	return listing, nil
}

// resolveURL turns a stored media reference into a browser-fetchable URL. A reference that
// cannot be resolved is logged and left out.
func (s *Service) resolveURL(ctx context.Context, ref *string) string {
	if deref(ref) == "" || s.resolver == nil {
		return ""
	}
	url, err := s.resolver.Resolve(ctx, *ref)
	if err != nil {
		loggerFrom(ctx, s.logger).Warn("Failed to resolve media reference", zap.String("ref", *ref), zap.Error(err))
		return ""
	}
	return url
}

// RenderPDF writes the requested document to w. Only failing to load the portfolio is an
// error; image problems are drawn into the document.
func (s *Service) RenderPDF(ctx context.Context, w io.Writer, req RenderRequest) (*RenderResult, error) {
	p, err := s.GetPortfolio(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.composer.Compose(ctx, w, p, req)
	if err != nil {
		return nil, err
	}

	loggerFrom(ctx, s.logger).Info("Rendered document",
		zap.Int("pages", result.Pages),
		zap.Int("sections", len(result.Sections)),
		zap.Int("annexes", result.Annexes))
	return result, nil
}

// ExportPortfolio writes the portfolio in the given format.
func (s *Service) ExportPortfolio(ctx context.Context, format string, w io.Writer) error {
	exporter, ok := s.exporters[format]
	if !ok || exporter == nil {
		return fmt.Errorf("no exporter configured for format %q", format)
	}
	p, err := s.GetPortfolio(ctx)
	if err != nil {
		return err
	}
	return exporter.Export(w, p)
}
