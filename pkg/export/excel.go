package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"sitemap-audit/pkg/models"
)

const sheetName = "Results"

// WriteProbeExcel writes probe results to an .xlsx workbook at path.
func WriteProbeExcel(path string, results []models.SeoProbeResult) error {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, probeRow(r))
	}
	return writeExcel(path, probeHeader, rows)
}

// WriteLeafExcel writes leaf URL records to an .xlsx workbook at path.
func WriteLeafExcel(path string, records []models.LeafURLRecord) error {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{rec.URL, rec.SourceSitemap})
	}
	return writeExcel(path, leafHeader, rows)
}

func writeExcel(path string, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}

	if err := setRow(f, 1, header); err != nil {
		return err
	}
	for i, row := range rows {
		if err := setRow(f, i+2, row); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

func setRow(f *excelize.File, row int, values []string) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, v); err != nil {
			return fmt.Errorf("writing cell %s: %w", cell, err)
		}
	}
	return nil
}
