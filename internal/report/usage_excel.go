// Package report builds the XLSX export of per-day usage reports.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/models"
)

// UsageReportHeader column order of the usage export.
var UsageReportHeader = []string{
	"Date",
	"Consumed (L)",
	"Topped Up (L)",
	"Consumed (%)",
	"Topped Up (%)",
	"Generator (h)",
	"ZESA (h)",
	"Offline (h)",
	"Elapsed (h)",
}

const usageSheetName = "Usage"

// BuildUsageWorkbook renders one device's day-by-day usage into a
// spreadsheet and returns the raw file bytes.
func BuildUsageWorkbook(reports []models.DayUsageReport) ([]byte, error) {
	f := excelize.NewFile()
	// Don't defer Close: WriteToBuffer needs the file open.

	index, err := f.NewSheet(usageSheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range UsageReportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to resolve header cell: %w", err)
		}
		if err := f.SetCellValue(usageSheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
		if err := f.SetCellStyle(usageSheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to style header: %w", err)
		}
	}

	for row, r := range reports {
		values := []any{
			r.Date,
			r.Fuel.ConsumedVolume,
			r.Fuel.ToppedVolume,
			r.Fuel.ConsumedPercent,
			r.Fuel.ToppedPercent,
			r.Power.GeneratorHours,
			r.Power.GridHours,
			r.Power.OfflineHours,
			r.Power.ElapsedHours,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to resolve cell: %w", err)
			}
			if err := f.SetCellValue(usageSheetName, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	if err := f.SetColWidth(usageSheetName, "A", "I", 14); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	f.Close()

	return buf.Bytes(), nil
}
