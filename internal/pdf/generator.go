package pdf

import (
	"bytes"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/nurpe/billing-reports/internal/report"
)

const (
	pageWidth   = 297.0
	pageMargin  = 15.0
	contentSize = pageWidth - 2*pageMargin
)

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Arial"}
}

func (g *Generator) Generate(doc report.Document) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, tr(doc.Title), "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 10)
	for _, field := range doc.Filters {
		pdf.CellFormat(0, 6, tr(field.Label+": "+safeValue(field.Value)), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	for _, section := range doc.Sections {
		if section.PageBreakBefore {
			pdf.AddPage()
		}
		g.drawSection(pdf, tr, section)
		pdf.Ln(4)
	}

	if err := pdf.Error(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) drawSection(pdf *gofpdf.Fpdf, tr func(string) string, section report.Section) {
	if section.Heading != "" {
		pdf.SetFont(g.fontName, "B", 12)
		pdf.CellFormat(0, 8, tr(section.Heading), "", 1, "L", false, 0, "")
	}

	pdf.SetFont(g.fontName, "", 10)
	for _, field := range section.Fields {
		pdf.CellFormat(0, 6, tr(field.Label+": "+safeValue(field.Value)), "", 1, "L", false, 0, "")
	}

	if table := section.Table; table != nil && len(table.Columns) > 0 {
		if len(section.Fields) > 0 {
			pdf.Ln(2)
		}
		widths := columnWidths(len(table.Columns))
		drawTableRow(pdf, g.fontName, tr, table.Columns, widths, true)
		for _, row := range table.Rows {
			drawTableRow(pdf, g.fontName, tr, row, widths, false)
		}
		if len(table.Totals) > 0 {
			drawTableRow(pdf, g.fontName, tr, table.Totals, widths, true)
		}
	}

	if section.Dump != "" {
		pdf.SetFont("Courier", "", 8)
		pdf.MultiCell(0, 4, tr(section.Dump), "", "L", false)
	}
}

func columnWidths(count int) []float64 {
	widths := make([]float64, count)
	for i := range widths {
		widths[i] = contentSize / float64(count)
	}
	return widths
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, tr func(string) string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	size := 10.0
	if len(widths) > 8 {
		size = 7
	}
	pdf.SetFont(fontName, style, size)
	for i, width := range widths {
		value := ""
		if i < len(cols) {
			value = fitText(pdf, tr(cols[i]), width-2)
		}
		align := "L"
		if i > 0 && !header {
			align = "R"
		}
		pdf.CellFormat(width, 7, value, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

// fitText trims value until it fits in width, marking the cut with "..".
func fitText(pdf *gofpdf.Fpdf, value string, width float64) string {
	if pdf.GetStringWidth(value) <= width {
		return value
	}
	runes := []rune(value)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"..") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + ".."
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
