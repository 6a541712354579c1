package report

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
)

const (
	inchToMm               = 25.4
	pdfPageWidthLandscape  = 11 * inchToMm // Letter landscape
	pdfPageHeightLandscape = 8.5 * inchToMm
	pdfMargin              = 0.5 * inchToMm
	pdfContentWidth        = pdfPageWidthLandscape - (2 * pdfMargin)
)

// ReportEntry is one processed data file as listed in the PDF report.
type ReportEntry struct {
	Name   string
	Label  string
	Result *Result // nil when rendering failed
	Err    error
}

// pdfStyler holds reusable styling and the flowing Y position for PDF generation
type pdfStyler struct {
	pdf         *gofpdf.Fpdf
	styles      map[string]func()
	lineHeight  float64
	currentY    float64
	pageHeight  float64
	contentTopY float64
}

func newPDFStyler(pdf *gofpdf.Fpdf) *pdfStyler {
	s := &pdfStyler{
		pdf:         pdf,
		styles:      make(map[string]func()),
		lineHeight:  6, // mm
		pageHeight:  pdfPageHeightLandscape - pdfMargin,
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
		s.pdf.SetFillColor(200, 200, 200)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableCell"] = func() {
		s.pdf.SetFont("Arial", "", 9)
		s.pdf.SetTextColor(50, 50, 50)
	}
	s.styles["tableCellRed"] = func() { // failed files
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetTextColor(200, 0, 0)
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
	if s.currentY+neededHeight > s.pageHeight {
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

func (s *pdfStyler) addImage(imageBytes []byte, imageName string, width, height float64, caption string) {
	s.pdf.RegisterImageReader(imageName, "PNG", bytes.NewReader(imageBytes))
	if width > pdfContentWidth {
		height *= pdfContentWidth / width
		width = pdfContentWidth
	}
	captionHeight := 0.0
	if caption != "" {
		captionHeight = s.lineHeight + 1
	}
	s.checkAddPage(height + captionHeight)

	x := pdfMargin + (pdfContentWidth-width)/2
	s.pdf.Image(imageName, x, s.currentY, width, height, false, "PNG", 0, "")
	s.currentY += height
	if caption != "" {
		s.addSpacer(1)
		s.writeParagraph(caption, "normal", "C")
	}
	s.addSpacer(2)
}

func (s *pdfStyler) tableRow(cells []string, widths []float64, style string, fill bool) {
	s.checkAddPage(s.lineHeight)
	s.applyStyle(style)
	x := pdfMargin
	for i, cell := range cells {
		s.pdf.SetXY(x, s.currentY)
		s.pdf.CellFormat(widths[i], s.lineHeight, cell, "1", 0, "C", fill, 0, "")
		x += widths[i]
	}
	s.currentY += s.lineHeight
}

func formatEER(r *Result) (string, string) {
	if r == nil || r.EER == nil {
		return "-", "-"
	}
	return fmt.Sprintf("%.3f", r.EER.Rate), fmt.Sprintf("%.3f", r.EER.Threshold)
}

// BuildPDFReport writes a batch summary: one table row per data file followed by every
// rendered chart. Failed files are listed with their error.
func BuildPDFReport(path string, title string, entries []ReportEntry) error {
	pdf := gofpdf.New("L", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	styler := newPDFStyler(pdf)
	styler.newPage()

	rendered, failed := 0, 0
	for _, e := range entries {
		if e.Err != nil || e.Result == nil {
			failed++
		} else {
			rendered++
		}
	}

	styler.writeParagraph(title, "h1", "C")
	styler.addSpacer(3)
	styler.writeParagraph(fmt.Sprintf("Files: %d   Rendered: %d   Failed: %d", len(entries), rendered, failed), "normal", "L")
	styler.addSpacer(3)

	if len(entries) == 0 {
		styler.writeParagraph("No data files were found.", "normal", "L")
		return writePDF(pdf, path)
	}

	headers := []string{"File", "Label", "Title", "Points", "EER", "Threshold", "Status"}
	colWidthsRel := []float64{0.24, 0.1, 0.18, 0.08, 0.1, 0.1, 0.2}
	colWidths := make([]float64, len(colWidthsRel))
	for i, rel := range colWidthsRel {
		colWidths[i] = rel * pdfContentWidth
	}

	styler.tableRow(headers, colWidths, "tableHeader", true)
	for _, e := range entries {
		if e.Err != nil || e.Result == nil {
			status := "failed"
			if e.Err != nil {
				status = truncate(e.Err.Error(), 40)
			}
			styler.tableRow([]string{e.Name, e.Label, "-", "-", "-", "-", status}, colWidths, "tableCellRed", false)
			continue
		}
		rate, threshold := formatEER(e.Result)
		row := []string{e.Name, e.Label, e.Result.Title, fmt.Sprintf("%d", e.Result.Points), rate, threshold, "ok"}
		styler.tableRow(row, colWidths, "tableCell", false)
	}

	imgWidth := pdfContentWidth * 0.8
	imgHeight := imgWidth / 2
	first := true
	for i, e := range entries {
		if e.Result == nil || len(e.Result.Image) == 0 {
			continue
		}
		if first {
			styler.newPage()
			styler.writeParagraph("Charts", "h1", "C")
			styler.addSpacer(3)
			first = false
		}
		caption := filepath.Base(e.Result.OutputPath)
		if e.Label != "" {
			caption = fmt.Sprintf("%s (%s)", caption, e.Label)
		}
		styler.addImage(e.Result.Image, fmt.Sprintf("chart_%d", i), imgWidth, imgHeight, caption)
	}

	return writePDF(pdf, path)
}

func writePDF(pdf *gofpdf.Fpdf, path string) error {
	if err := pdf.OutputFileAndClose(path); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
