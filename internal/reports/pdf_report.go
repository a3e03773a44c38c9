package reports

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"github.com/spacesedan/swotflow/internal/models"
)

const (
	PDF_FONT        = "Arial"
	PDF_LINE_HEIGHT = 10
	PDF_CELL_WIDTH  = 200
	CHART_X         = 30
	CHART_WIDTH     = 150
)

// PDFReport lays an analysis record out as a single A4 document.
type PDFReport struct {
	Compress bool
}

func NewPDFReport() *PDFReport {
	return &PDFReport{Compress: true}
}

// Write renders the record into path, creating parent directories as needed.
func (p *PDFReport) Write(record *models.AnalysisRecord, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("[PDFReport] failed to create report dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("[PDFReport] failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := p.Render(record, f); err != nil {
		return err
	}

	slog.Info("[PDFReport] Report written",
		slog.String("product", record.Product),
		slog.String("path", path))
	return nil
}

func (p *PDFReport) Render(record *models.AnalysisRecord, w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(p.Compress)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(s string) string { return tr(Transliterate(s)) }

	pdf.AddPage()

	pdf.SetFont(PDF_FONT, "B", 16)
	pdf.CellFormat(PDF_CELL_WIDTH, PDF_LINE_HEIGHT, "SWOT Analysis Report", "", 1, "C", false, 0, "")

	pdf.SetFont(PDF_FONT, "B", 14)
	pdf.CellFormat(PDF_CELL_WIDTH, PDF_LINE_HEIGHT, text("Product: "+record.Product), "", 1, "", false, 0, "")
	pdf.SetFont(PDF_FONT, "", 12)

	if s := record.Summary; s != nil {
		pdf.Ln(5)
		pdf.CellFormat(PDF_CELL_WIDTH, PDF_LINE_HEIGHT, "Summary:", "", 1, "", false, 0, "")
		for _, line := range []string{
			fmt.Sprintf("Total Reviews: %d", s.TotalReviews),
			fmt.Sprintf("Positive: %d", s.Positive),
			fmt.Sprintf("Negative: %d", s.Negative),
			fmt.Sprintf("Positive Percentage: %.1f", s.PositivePercentage),
		} {
			pdf.CellFormat(PDF_CELL_WIDTH, PDF_LINE_HEIGHT, line, "", 1, "", false, 0, "")
		}
	}

	for _, category := range record.Analysis.Categories() {
		pdf.Ln(5)
		pdf.SetFont(PDF_FONT, "B", 12)
		pdf.CellFormat(PDF_CELL_WIDTH, PDF_LINE_HEIGHT, category.Name+":", "", 1, "", false, 0, "")
		pdf.SetFont(PDF_FONT, "", 11)
		for _, item := range category.Items {
			pdf.MultiCell(0, PDF_LINE_HEIGHT, text("- "+item), "", "", false)
		}
	}

	if len(record.Chart) > 0 {
		opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
		pdf.RegisterImageOptionsReader("chart", opts, bytes.NewReader(record.Chart))
		pdf.ImageOptions("chart", CHART_X, 0, CHART_WIDTH, 0, true, opts, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("[PDFReport] failed to render report for %s: %w", record.Product, err)
	}
	return nil
}
