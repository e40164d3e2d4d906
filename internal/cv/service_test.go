package cv

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fabrii324/Hojadevida-Fabricio/pkg/storage"
)

type stubExporter struct {
	got *Portfolio
}

func (e *stubExporter) Export(w io.Writer, p *Portfolio) error {
	e.got = p
	_, err := io.WriteString(w, "xlsx")
	return err
}

func newTestService(repo Repository, exporter Exporter) *Service {
	composer := newTestComposer(repo, newFakeFetcher())
	var exporters Exporters
	if exporter != nil {
		exporters = Exporters{FormatXLSX: exporter, FormatCSV: exporter}
	}
	return NewService(repo, composer, storage.NewPublicResolver("https://media.example.com/"), exporters, "593999999999", zap.NewNop())
}

func TestGetPortfolio(t *testing.T) {
	repo := new(MockRepository)
	p := &Portfolio{
		Profile: testProfile(),
		Courses: []*Course{{ID: 4, Name: "Go", CertificateURL: strPtr("go.png")}},
	}
	expectPortfolio(repo, p)

	got, err := newTestService(repo, nil).GetPortfolio(context.Background())
	require.NoError(t, err)

	assert.Equal(t, p.Profile, got.Profile)
	require.Len(t, got.Courses, 1)
	require.Len(t, got.Certificates, 1)
	assert.Equal(t, "CUR-4", got.Certificates[0].Value)
	repo.AssertExpectations(t)
}

func TestGetPortfolioWithoutProfile(t *testing.T) {
	repo := new(MockRepository)
	repo.On("FindActiveProfile", mock.Anything).Return(nil, nil)

	got, err := newTestService(repo, nil).GetPortfolio(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got.Profile)
	repo.AssertNotCalled(t, "ListCourses", mock.Anything, mock.Anything)

	certs, err := newTestService(repo, nil).ListCertificates(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, certs)
	assert.Empty(t, certs)
}

func TestGetPortfolioRepositoryError(t *testing.T) {
	repo := new(MockRepository)
	repo.On("FindActiveProfile", mock.Anything).Return(testProfile(), nil)
	repo.On("ListWorkExperience", mock.Anything, int64(1)).Return(nil, errors.New("connection refused"))

	_, err := newTestService(repo, nil).GetPortfolio(context.Background())
	assert.Error(t, err)
}

func TestGetGarage(t *testing.T) {
	repo := new(MockRepository)
	repo.On("FindActiveProfile", mock.Anything).Return(testProfile(), nil)
	repo.On("ListGarageItems", mock.Anything, int64(1)).Return([]*GarageItem{{ID: 1, Name: "Bike", Price: 120}}, nil)

	listing, err := newTestService(repo, nil).GetGarage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "593999999999", listing.WhatsApp)
	require.Len(t, listing.Items, 1)
	assert.Equal(t, "Bike", listing.Items[0].Name)
}

func TestProjectionsResolvePhotoReferences(t *testing.T) {
	repo := new(MockRepository)
	profile := testProfile()
	profile.PhotoURL = strPtr("photos/me.jpg")
	expectPortfolio(repo, &Portfolio{Profile: profile})
	repo.On("ListGarageItems", mock.Anything, int64(1)).Return([]*GarageItem{
		{ID: 1, Name: "Bike", PhotoURL: strPtr("garage/bike.webp")},
		{ID: 2, Name: "Lamp"},
	}, nil)

	service := newTestService(repo, nil)

	p, err := service.GetPortfolio(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://media.example.com/photos/me.jpg", p.PhotoURL)
	assert.Equal(t, "photos/me.jpg", *p.Profile.PhotoURL)

	listing, err := service.GetGarage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[int64]string{1: "https://media.example.com/garage/bike.webp"}, listing.Photos)
}

func TestGetGarageWithoutProfile(t *testing.T) {
	repo := new(MockRepository)
	repo.On("FindActiveProfile", mock.Anything).Return(nil, nil)

	listing, err := newTestService(repo, nil).GetGarage(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, listing.Items)
	assert.Empty(t, listing.Items)
}

func TestRenderPDF(t *testing.T) {
	repo := new(MockRepository)
	expectPortfolio(repo, &Portfolio{Profile: testProfile()})

	var buf bytes.Buffer
	result, err := newTestService(repo, nil).RenderPDF(context.Background(), &buf,
		RenderRequest{Sections: []string{"datos", "cursos"}})
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Equal(t, []SectionKey{SectionPersonalData, SectionCourses}, result.Sections)
}

func TestRenderPDFRepositoryError(t *testing.T) {
	repo := new(MockRepository)
	repo.On("FindActiveProfile", mock.Anything).Return(nil, errors.New("connection refused"))

	var buf bytes.Buffer
	_, err := newTestService(repo, nil).RenderPDF(context.Background(), &buf, RenderRequest{})
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestExportPortfolio(t *testing.T) {
	repo := new(MockRepository)
	expectPortfolio(repo, &Portfolio{Profile: testProfile()})
	exporter := &stubExporter{}

	var buf bytes.Buffer
	require.NoError(t, newTestService(repo, exporter).ExportPortfolio(context.Background(), FormatXLSX, &buf))
	assert.Equal(t, "xlsx", buf.String())
	require.NotNil(t, exporter.got)
	assert.Equal(t, int64(1), exporter.got.Profile.ID)

	assert.Error(t, newTestService(repo, nil).ExportPortfolio(context.Background(), FormatXLSX, &buf))
	assert.Error(t, newTestService(repo, exporter).ExportPortfolio(context.Background(), "ods", &buf))
}
