package excel

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/billing-reports/internal/report"
)

const summarySheet = "Summary"

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate writes the title and filter block to a summary sheet and every
// section to a sheet of its own.
func (g *Generator) Generate(doc report.Document) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if err := g.writeSummary(file, doc); err != nil {
		return nil, err
	}

	// Keys are lower-cased: excelize matches sheet names case-insensitively.
	usedNames := map[string]struct{}{strings.ToLower(summarySheet): {}}
	for i, section := range doc.Sections {
		sheetName := buildSheetName(sectionName(doc, section, i), usedNames)
		usedNames[strings.ToLower(sheetName)] = struct{}{}

		if _, err := file.NewSheet(sheetName); err != nil {
			return nil, err
		}
		if err := g.writeSection(file, sheetName, section); err != nil {
			return nil, err
		}
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, doc report.Document) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(summarySheet, cell, value)
	}

	set("A1", doc.Title)
	row := 3
	for _, field := range doc.Filters {
		set(fmt.Sprintf("A%d", row), field.Label)
		set(fmt.Sprintf("B%d", row), field.Value)
		row++
	}
	row++
	set(fmt.Sprintf("A%d", row), "Sections")
	set(fmt.Sprintf("B%d", row), len(doc.Sections))

	bold, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err == nil {
		_ = file.SetCellStyle(summarySheet, "A1", "A1", bold)
	}
	_ = file.SetColWidth(summarySheet, "A", "A", 24)
	_ = file.SetColWidth(summarySheet, "B", "B", 45)
	return nil
}

func (g *Generator) writeSection(file *excelize.File, sheet string, section report.Section) error {
	set := func(col, row int, value interface{}) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = file.SetCellValue(sheet, cell, value)
	}

	row := 1
	if section.Heading != "" {
		set(1, row, section.Heading)
		row += 2
	}
	for _, field := range section.Fields {
		set(1, row, field.Label)
		set(2, row, field.Value)
		row++
	}
	if len(section.Fields) > 0 {
		row++
	}

	if table := section.Table; table != nil {
		for i, header := range table.Columns {
			set(i+1, row, header)
		}
		row++
		for _, cells := range table.Rows {
			for i, value := range cells {
				set(i+1, row, value)
			}
			row++
		}
		if len(table.Totals) > 0 {
			for i, value := range table.Totals {
				set(i+1, row, value)
			}
			row++
		}
		last, _ := excelize.ColumnNumberToName(max(len(table.Columns), 2))
		_ = file.SetColWidth(sheet, "A", last, 18)
	}

	if section.Dump != "" {
		for _, line := range strings.Split(section.Dump, "\n") {
			set(1, row, line)
			row++
		}
		_ = file.SetColWidth(sheet, "A", "A", 60)
	}
	return nil
}

func sectionName(doc report.Document, section report.Section, index int) string {
	if strings.TrimSpace(section.Heading) != "" {
		return section.Heading
	}
	if len(doc.Sections) == 1 {
		return doc.Title
	}
	return fmt.Sprintf("Section %d", index+1)
}

func buildSheetName(name string, used map[string]struct{}) string {
	base := sanitizeSheetName(name)
	if len([]rune(base)) > 31 {
		base = string([]rune(base)[:31])
	}

	nameCandidate := base
	counter := 2
	for {
		if _, exists := used[strings.ToLower(nameCandidate)]; !exists {
			return nameCandidate
		}
		suffix := fmt.Sprintf("-%d", counter)
		trimmed := []rune(base)
		if len(trimmed)+len(suffix) > 31 {
			trimmed = trimmed[:31-len(suffix)]
		}
		nameCandidate = string(trimmed) + suffix
		counter++
	}
}

func sanitizeSheetName(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "Sheet"
	}

	replacer := strings.NewReplacer(
		"[", "-",
		"]", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"/", "-",
		"\\", "-",
	)
	value = replacer.Replace(value)
	value = strings.TrimSpace(value)
	if value == "" {
		return "Sheet"
	}
	return value
}
