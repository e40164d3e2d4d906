package cv

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/fabrii324/Hojadevida-Fabricio/pkg/media"
	"github.com/fabrii324/Hojadevida-Fabricio/pkg/pdf"
)

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

var annexTitleColor = pdf.Hex("#111827")

const (
	annexHeadingY = 2.0 * pdf.CM
	annexNameY    = 2.7 * pdf.CM
	annexMessageY = 4.0 * pdf.CM

	// The image box leaves 2cm at each side and 3cm above and below.
	annexHorizontalMargin = 4.0 * pdf.CM
	annexVerticalMargin   = 6.0 * pdf.CM
	annexImageDrop        = 0.8 * pdf.CM
)

// certificateExt returns the lower-cased extension of the path of ref, ignoring any query
// string.
func certificateExt(ref string) string {
	p := ref
	if u, err := url.Parse(ref); err == nil && u.Path != "" {
		p = u.Path
	}
	return strings.ToLower(path.Ext(p))
}

// drawAnnexes appends one page per certificate token that resolves, in token order. The
// returned count numbers the annexes drawn.
func (c *Composer) drawAnnexes(ctx context.Context, rc *pdf.RenderContext, profileID int64, tokens []string) int {
	log := loggerFrom(ctx, c.logger)
	count := 0
	for _, raw := range tokens {
		token, ok := ParseCertificateToken(raw)
		if !ok {
			log.Debug("Skipping malformed certificate token", zap.String("token", raw))
			continue
		}

		cert, err := ResolveCertificate(ctx, c.repo, profileID, token)
		if err != nil {
			log.Warn("Failed to resolve certificate", zap.String("token", raw), zap.Error(err))
			continue
		}
		if cert == nil {
			log.Debug("Skipping unresolved certificate token", zap.String("token", raw))
			continue
		}

		count++
		c.drawAnnex(ctx, rc, count, cert)
	}
	return count
}

func (c *Composer) drawAnnex(ctx context.Context, rc *pdf.RenderContext, n int, cert *ResolvedCertificate) {
	canvas := rc.Canvas
	rc.NewPage()

	canvas.SetTextColor(annexTitleColor)
	canvas.SetFont(pdf.Helvetica(14).Bold())
	canvas.Text(rc.Left(), annexHeadingY, fmt.Sprintf("ANNEX %d: CERTIFICATE", n))

	canvas.SetTextColor(headerMuted)
	canvas.SetFont(pdf.Helvetica(10))
	canvas.Text(rc.Left(), annexNameY, cert.Name)

	if !imageExtensions[certificateExt(cert.Ref)] {
		canvas.SetTextColor(pdf.Red)
		canvas.SetFont(pdf.Helvetica(11).Bold())
		canvas.Text(rc.Left(), annexMessageY, "This certificate format cannot be embedded in the document.")
		canvas.SetTextColor(pdf.Black)
		canvas.SetFont(pdf.Helvetica(10))
		canvas.Text(rc.Left(), annexMessageY+18, "Convert it to PNG or JPG so that it can be printed.")
		return
	}

	if err := c.drawCertificateImage(ctx, rc, cert.Ref); err != nil {
		loggerFrom(ctx, c.logger).Warn("Failed to load certificate",
			zap.String("token", cert.Token.String()),
			zap.String("kind", string(media.KindOf(err))),
			zap.Error(err))
		canvas.SetTextColor(pdf.Red)
		canvas.SetFont(pdf.Helvetica(11).Bold())
		canvas.Text(rc.Left(), annexMessageY, "Error loading certificate.")
	}
}

// drawCertificateImage scales the image uniformly into the page box and centres it, shifted
// down to clear the heading.
func (c *Composer) drawCertificateImage(ctx context.Context, rc *pdf.RenderContext, ref string) error {
	img, err := c.loadImage(ctx, ref)
	if err != nil {
		return err
	}

	pw, ph := rc.PageWidth(), rc.PageHeight()
	w, h := pdf.FitImage(float64(img.Width), float64(img.Height), pw-annexHorizontalMargin, ph-annexVerticalMargin)
	if w <= 0 || h <= 0 {
		return fmt.Errorf("image has no size")
	}

	x := (pw - w) / 2
	y := (ph-h)/2 + annexImageDrop
	return rc.Canvas.Image(img.Data, img.Format, x, y, w, h)
}
