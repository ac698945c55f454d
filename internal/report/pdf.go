// Package report renders the downloadable consultation report as a PDF.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/signintech/gopdf"
	"github.com/sirupsen/logrus"

	"github.com/sehha-plus/triage-server/internal/domain"
)

const (
	fontName  = "DejaVu"
	lineWidth = 500
)

// defaultFontPaths cover the usual DejaVuSans locations on Debian and
// Alpine images. DejaVu carries the accented glyphs the French report
// needs.
var defaultFontPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
}

// Generator renders consultation reports.
type Generator struct {
	fontPaths []string
	logger    *logrus.Logger
}

// NewGenerator creates a report generator. Configured font paths are
// tried before the built-in defaults.
func NewGenerator(cfg domain.ReportConfig, logger *logrus.Logger) *Generator {
	paths := append(append([]string(nil), cfg.FontPaths...), defaultFontPaths...)
	return &Generator{fontPaths: paths, logger: logger}
}

// Generate renders the consultation as a PDF document.
func (g *Generator) Generate(c *domain.Consultation) ([]byte, error) {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	var fontErr error
	fontLoaded := false
	for _, path := range g.fontPaths {
		if err := pdf.AddTTFFont(fontName, path); err == nil {
			fontLoaded = true
			break
		} else {
			fontErr = err
		}
	}
	if !fontLoaded {
		return nil, fmt.Errorf("loading report font (is DejaVuSans installed?): %w", fontErr)
	}

	w := &writer{pdf: &pdf}

	w.heading(20, "Sehha+")
	w.space(8)
	w.heading(14, "Rapport de Consultation Médicale IA")
	w.line(10, fmt.Sprintf("Généré le: %s", time.Now().Format("02/01/2006")))
	w.space(14)

	w.heading(13, "Symptômes Rapportés")
	w.paragraph(11, c.Symptoms)
	if c.Duration != "" {
		w.line(11, fmt.Sprintf("Durée: %s", c.Duration))
	}
	if c.MedicalHistory != "" {
		w.line(11, fmt.Sprintf("Historique médical: %s", c.MedicalHistory))
	}
	w.space(14)

	w.heading(13, "Pré-diagnostic IA")
	w.paragraph(11, c.PreDiagnosis)
	w.space(6)
	w.line(11, fmt.Sprintf("Niveau d'urgence: %s", urgencyHeadline(c.Urgency)))
	w.space(14)

	w.heading(13, "Recommandations")
	w.paragraph(11, c.Recommendations)
	w.space(6)
	w.line(11, fmt.Sprintf("Niveau d'anxiété estimé: %s", c.AnxietyTier))
	if c.SupportMessage != "" {
		w.space(6)
		w.paragraph(10, c.SupportMessage)
	}
	w.space(18)

	w.paragraph(9, "IMPORTANT: Ce rapport est généré par une intelligence artificielle à des fins éducatives et ne remplace en aucun cas l'avis d'un professionnel de santé qualifié. Consultez toujours un médecin pour un diagnostic et un traitement appropriés.")
	w.space(10)
	w.line(9, "Sehha+ - L'IA au service de votre santé")
	w.line(9, "Chez Sehha+, votre santé est notre priorité. Chaque consultation compte.")

	if w.err != nil {
		return nil, fmt.Errorf("rendering report: %w", w.err)
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("writing report: %w", err)
	}

	g.logger.WithFields(logrus.Fields{
		"consultation_id": c.ID,
		"size_bytes":      buf.Len(),
	}).Info("Consultation report generated")

	return buf.Bytes(), nil
}

// urgencyHeadline is the report wording for each urgency level.
func urgencyHeadline(u domain.Urgency) string {
	switch u {
	case domain.UrgencyUrgent:
		return "URGENT - Consultation immédiate recommandée"
	case domain.UrgencyHigh:
		return "PRIORITAIRE - Consultation sous 24-48h"
	case domain.UrgencyMedium:
		return "À PRÉVOIR - Consultation dans les prochains jours"
	default:
		return "RECOMMANDÉ - Consultation de routine"
	}
}

// writer wraps the page cursor so rendering errors can be checked once
// at the end instead of after every cell.
type writer struct {
	pdf *gopdf.GoPdf
	err error
}

func (w *writer) heading(size float64, text string) {
	w.setFont(size)
	w.cell(text)
	w.pdf.Br(size + 6)
}

func (w *writer) line(size float64, text string) {
	w.setFont(size)
	w.cell(text)
	w.pdf.Br(size + 4)
}

func (w *writer) paragraph(size float64, text string) {
	w.setFont(size)
	lines, err := w.pdf.SplitText(text, lineWidth)
	if err != nil {
		// SplitText fails on words wider than the line; fall back to one
		// unwrapped cell.
		lines = []string{text}
	}
	for _, l := range lines {
		w.cell(l)
		w.pdf.Br(size + 3)
	}
}

func (w *writer) space(h float64) {
	w.pdf.Br(h)
}

func (w *writer) setFont(size float64) {
	if err := w.pdf.SetFont(fontName, "", size); err != nil && w.err == nil {
		w.err = err
	}
}

func (w *writer) cell(text string) {
	if err := w.pdf.Cell(nil, text); err != nil && w.err == nil {
		w.err = err
	}
}
