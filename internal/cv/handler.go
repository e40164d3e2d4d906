package cv

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// RequestIDKey is the gin context key holding the request ID.
const RequestIDKey = "request_id"

// Handler handles HTTP requests for the portfolio
type Handler struct {
	service  *Service
	fileName string
	logger   *zap.Logger
}

// NewHandler creates a new portfolio handler. fileName is announced in the
// Content-Disposition of generated documents.
func NewHandler(service *Service, fileName string, logger *zap.Logger) *Handler {
	if fileName == "" {
		fileName = "hoja_vida.pdf"
	}
	return &Handler{
		service:  service,
		fileName: fileName,
		logger:   logger,
	}
}

// RegisterPages registers the HTML pages and the document download
func (h *Handler) RegisterPages(router gin.IRoutes) {
	router.GET("/", h.cvPage)
	router.GET("/garage", h.garagePage)
	router.GET("/pdf", h.renderPDF)
}

// RegisterRoutes registers the JSON API routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	cv := router.Group("/cv")
	{
		cv.GET("", h.getPortfolio)
		cv.GET("/pdf", h.renderPDF)
		cv.GET("/export.xlsx", h.exportXLSX)
	}
	router.GET("/certificates", h.listCertificates)
	router.GET("/certificates.csv", h.exportCSV)
	router.GET("/garage", h.getGarage)
}

func (h *Handler) log(c *gin.Context) *zap.Logger {
	if id := c.GetString(RequestIDKey); id != "" {
		return h.logger.With(zap.String("request_id", id))
	}
	return h.logger
}

// requestContext returns the request context carrying the request-scoped logger.
func (h *Handler) requestContext(c *gin.Context) context.Context {
	return ContextWithLogger(c.Request.Context(), h.log(c))
}

// =====================================================
// Pages
// =====================================================

// cvPage handles GET /
func (h *Handler) cvPage(c *gin.Context) {
	p, err := h.service.GetPortfolio(h.requestContext(c))
	if err != nil {
		h.log(c).Error("Failed to load portfolio", zap.Error(err))
		c.String(http.StatusInternalServerError, "failed to load portfolio")
		return
	}
	c.Render(http.StatusOK, render.HTML{Template: pages, Name: "cv.html", Data: p})
}

// garagePage handles GET /garage
func (h *Handler) garagePage(c *gin.Context) {
	listing, err := h.service.GetGarage(h.requestContext(c))
	if err != nil {
		h.log(c).Error("Failed to load garage listing", zap.Error(err))
		c.String(http.StatusInternalServerError, "failed to load garage listing")
		return
	}
	c.Render(http.StatusOK, render.HTML{Template: pages, Name: "garage.html", Data: listing})
}

// renderPDF handles GET /pdf and GET /api/v1/cv/pdf. Sections come from "sections" or its
// alias "sec"; certificate tokens from "cert", in order.
func (h *Handler) renderPDF(c *gin.Context) {
	req := RenderRequest{
		Sections:     append(c.QueryArray("sections"), c.QueryArray("sec")...),
		Certificates: c.QueryArray("cert"),
	}

	var buf bytes.Buffer
	if _, err := h.service.RenderPDF(h.requestContext(c), &buf, req); err != nil {
		h.log(c).Error("Failed to render document", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, h.fileName))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// =====================================================
// API
// =====================================================

// getPortfolio handles GET /api/v1/cv
func (h *Handler) getPortfolio(c *gin.Context) {
	p, err := h.service.GetPortfolio(h.requestContext(c))
	if err != nil {
		h.log(c).Error("Failed to load portfolio", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

// listCertificates handles GET /api/v1/certificates
func (h *Handler) listCertificates(c *gin.Context) {
	entries, err := h.service.ListCertificates(h.requestContext(c))
	if err != nil {
		h.log(c).Error("Failed to list certificates", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"certificates": entries})
}

// getGarage handles GET /api/v1/garage
func (h *Handler) getGarage(c *gin.Context) {
	listing, err := h.service.GetGarage(h.requestContext(c))
	if err != nil {
		h.log(c).Error("Failed to load garage listing", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, listing)
}

// exportXLSX handles GET /api/v1/cv/export.xlsx
func (h *Handler) exportXLSX(c *gin.Context) {
	h.export(c, FormatXLSX, "hoja_vida.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
}

// exportCSV handles GET /api/v1/certificates.csv
func (h *Handler) exportCSV(c *gin.Context) {
	h.export(c, FormatCSV, "certificados.csv", "text/csv; charset=utf-8")
}

func (h *Handler) export(c *gin.Context, format, fileName, contentType string) {
	var buf bytes.Buffer
	if err := h.service.ExportPortfolio(h.requestContext(c), format, &buf); err != nil {
		h.log(c).Error("Failed to export portfolio", zap.String("format", format), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
