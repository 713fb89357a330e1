package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExcelExporter renders one or more datasets into an XLSX workbook.
type ExcelExporter struct{}

// NewExcelExporter constructs an Excel exporter.
func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

// Sheet pairs a dataset with its worksheet name.
type Sheet struct {
	Name string
	Data Dataset
}

// Render produces an XLSX workbook with one worksheet per sheet.
func (e *ExcelExporter) Render(sheets []Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx requires at least one sheet")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		name := sheet.Name
		if name == "" {
			name = fmt.Sprintf("Sheet%d", i+1)
		}
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return nil, fmt.Errorf("add sheet %s: %w", name, err)
			}
		}

		for col, header := range sheet.Data.Headers {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				return nil, fmt.Errorf("header cell: %w", err)
			}
			if err := f.SetCellValue(name, cell, header); err != nil {
				return nil, fmt.Errorf("write header: %w", err)
			}
		}
		for rowIdx, row := range sheet.Data.Rows {
			for col, header := range sheet.Data.Headers {
				cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
				if err != nil {
					return nil, fmt.Errorf("row cell: %w", err)
				}
				if err := f.SetCellValue(name, cell, row[header]); err != nil {
					return nil, fmt.Errorf("write row: %w", err)
				}
			}
		}
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
