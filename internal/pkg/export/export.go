// Package export renders consolidated sheets as downloadable files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"github.com/yigit/placement/internal/app/models"
)

// Format is a download file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// WorksheetName is the name of the single worksheet in XLSX exports
const WorksheetName = "Consolidated"

// ParseFormat parses a format name. An empty name means CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ContentType returns the MIME type for format
func ContentType(f Format) string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// FileName returns the download name, e.g. "placement-2024-25.csv"
func FileName(sheet *models.Sheet, f Format) string {
	return fmt.Sprintf("%s-%s.%s", sheet.Type, sheet.AcademicYear, f)
}

// Write renders sheet to w in format
func Write(w io.Writer, f Format, sheet *models.Sheet) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, sheet)
	case FormatXLSX:
		return WriteXLSX(w, sheet)
	default:
		return fmt.Errorf("unsupported export format %q", f)
	}
}

// WriteCSV writes a header row of column labels followed by one row per student
func WriteCSV(w io.Writer, sheet *models.Sheet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(sheet.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range sheet.Students {
		if err := cw.Write(row.Values()); err != nil {
			return fmt.Errorf("write row %d: %w", row.SerialNumber, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the sheet as a workbook with a bold header row
func WriteXLSX(w io.Writer, sheet *models.Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", WorksheetName); err != nil {
		return fmt.Errorf("rename worksheet: %w", err)
	}

	header := make([]interface{}, len(sheet.Columns))
	for i, c := range sheet.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(WorksheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(max(len(sheet.Columns), 1))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(WorksheetName, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	if err := f.SetColWidth(WorksheetName, "A", lastCol, 18); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	for i, row := range sheet.Students {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row.Values()
		out := make([]interface{}, len(values))
		for j, v := range values {
			out[j] = v
		}
		if err := f.SetSheetRow(WorksheetName, cell, &out); err != nil {
			return fmt.Errorf("write row %d: %w", row.SerialNumber, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
