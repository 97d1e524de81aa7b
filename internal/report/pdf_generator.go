package report

import (
	"bytes"
	"fmt"
	"image/png"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/user/somplot/internal/parser"
)

const (
	inchToMm               = 25.4
	pdfPageWidthLandscape  = 11 * inchToMm // Letter landscape
	pdfPageHeightLandscape = 8.5 * inchToMm
	pdfMargin              = 0.5 * inchToMm
	pdfContentWidth        = pdfPageWidthLandscape - (2 * pdfMargin)
)

// ReportInput is everything that goes into one PDF report.
type ReportInput struct {
	Title string
	// Optional; when both are set a training summary table is added.
	Topological  *parser.Series
	Quantization *parser.Series
	Images       []Output
}

// pdfStyler holds reusable styling and state for PDF generation
type pdfStyler struct {
	pdf         *gofpdf.Fpdf
	styles      map[string]func()
	lineHeight  float64
	currentY    float64 // To manually track Y position for flowing content
	pageBottom  float64
	contentTopY float64
}

func newPDFStyler(pdf *gofpdf.Fpdf) *pdfStyler {
	s := &pdfStyler{
		pdf:         pdf,
		styles:      make(map[string]func()),
		lineHeight:  6, // mm
		pageBottom:  pdfPageHeightLandscape - pdfMargin,
		contentTopY: pdfMargin,
	}
	s.currentY = s.contentTopY
	s.defineStyles()
	return s
}

func (s *pdfStyler) defineStyles() {
	s.styles["h1"] = func() {
		s.pdf.SetFont("Arial", "B", 16)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["h2"] = func() {
		s.pdf.SetFont("Arial", "B", 14)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["normal"] = func() {
		s.pdf.SetFont("Arial", "", 10)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableHeader"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetFillColor(200, 200, 200) // Light grey
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableCell"] = func() {
		s.pdf.SetFont("Arial", "", 9)
		s.pdf.SetTextColor(50, 50, 50)
	}
}

func (s *pdfStyler) applyStyle(styleName string) {
	if fn, ok := s.styles[styleName]; ok {
		fn()
	} else {
		s.styles["normal"]()
	}
}

func (s *pdfStyler) newPage() {
	s.pdf.AddPage()
	s.currentY = s.contentTopY
}

func (s *pdfStyler) checkAddPage(neededHeight float64) {
	if s.currentY+neededHeight > s.pageBottom {
		s.newPage()
	}
}

func (s *pdfStyler) writeParagraph(text string, styleName string, align string) {
	s.applyStyle(styleName)
	s.checkAddPage(s.lineHeight)
	s.pdf.SetXY(pdfMargin, s.currentY)
	s.pdf.MultiCell(pdfContentWidth, s.lineHeight, text, "", align, false)
	s.currentY = s.pdf.GetY() + 1
}

func (s *pdfStyler) addSpacer(height float64) {
	s.checkAddPage(height)
	s.currentY += height
}

func (s *pdfStyler) writeTable(headers []string, colWidthsRel []float64, rows [][]string) {
	colWidths := make([]float64, len(colWidthsRel))
	for i, rel := range colWidthsRel {
		colWidths[i] = rel * pdfContentWidth
	}
	writeRow := func(cells []string, fill bool) {
		s.checkAddPage(s.lineHeight)
		x := pdfMargin
		for i, cell := range cells {
			s.pdf.SetXY(x, s.currentY)
			s.pdf.CellFormat(colWidths[i], s.lineHeight, cell, "1", 0, "C", fill, 0, "")
			x += colWidths[i]
		}
		s.currentY += s.lineHeight
	}

	s.applyStyle("tableHeader")
	writeRow(headers, true)
	s.applyStyle("tableCell")
	for _, row := range rows {
		writeRow(row, false)
	}
}

// addImage places a PNG at most maxWidth wide, keeping its aspect ratio and
// shrinking it to fit the rest of the page.
func (s *pdfStyler) addImage(key string, data []byte, maxWidth float64, caption string) error {
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to read image %s: %w", caption, err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return fmt.Errorf("%w: image %s is empty", ErrInvalidOptions, caption)
	}

	captionHeight := s.lineHeight + 2
	width := maxWidth
	height := width * float64(cfg.Height) / float64(cfg.Width)
	if avail := s.pageBottom - s.currentY - captionHeight; height > avail {
		height = avail
		width = height * float64(cfg.Width) / float64(cfg.Height)
	}

	s.pdf.RegisterImageReader(key, "PNG", bytes.NewReader(data))
	s.pdf.Image(key, pdfMargin+(pdfContentWidth-width)/2, s.currentY, width, height, false, "PNG", 0, "")
	s.currentY += height
	s.addSpacer(1)
	s.writeParagraph(caption, "normal", "C")
	return s.pdf.Error()
}

func summaryRow(s *parser.Series) []string {
	lo, hi := s.Range()
	return []string{
		s.Name,
		fmt.Sprintf("%d", s.Len()),
		fmt.Sprintf("%.4f", s.Values[0]),
		fmt.Sprintf("%.4f", s.Values[s.Len()-1]),
		fmt.Sprintf("%.4f", lo),
		fmt.Sprintf("%.4f", hi),
	}
}

// BuildPDFReport writes a Letter landscape PDF with a title page, an
// optional training summary and one page per image.
func BuildPDFReport(w io.Writer, in ReportInput) error {
	if len(in.Images) == 0 {
		return fmt.Errorf("%w: report needs at least one image", ErrInvalidOptions)
	}
	title := in.Title
	if title == "" {
		title = "Self-Organizing Map Training Report"
	}

	pdf := gofpdf.New("L", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	styler := newPDFStyler(pdf)
	styler.newPage()

	styler.writeParagraph(title, "h1", "C")
	styler.addSpacer(5)
	styler.writeParagraph(fmt.Sprintf("%d plot(s) included.", len(in.Images)), "normal", "L")
	styler.addSpacer(5)

	if in.Topological != nil && in.Quantization != nil {
		styler.writeParagraph("Training Summary", "h2", "L")
		styler.writeTable(
			[]string{"Series", "Epochs", "First", "Final", "Min", "Max"},
			[]float64{0.3, 0.1, 0.15, 0.15, 0.15, 0.15},
			[][]string{summaryRow(in.Topological), summaryRow(in.Quantization)},
		)
	}

	for i, img := range in.Images {
		styler.newPage()
		styler.writeParagraph(img.Name, "h2", "L")
		styler.addSpacer(2)
		if err := styler.addImage(fmt.Sprintf("plot%d", i), img.Data, pdfContentWidth*0.9, img.Name); err != nil {
			return err
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}
