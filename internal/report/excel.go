package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX writes the summary to an Excel workbook at path, one sheet per
// report section. The workbook is meant for the analysts who consume the
// cleaned dataset and prefer a spreadsheet over terminal tables.
func WriteXLSX(path string, s *Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSheet(f, "Maxima",
		[]string{"metric", "value"},
		[][]any{
			{"max total_laid_off", s.MaxTotalLaidOff},
			{"max percentage_laid_off", s.MaxPercentage},
		}); err != nil {
		return err
	}

	fullLoss := make([][]any, 0, len(s.FullLoss))
	for _, e := range s.FullLoss {
		row := []any{e.Company, e.Location, e.Industry, nil, e.PercentageLaidOff, nil, e.Stage, e.Country, nil}
		if e.HasTotal {
			row[3] = e.TotalLaidOff
		}
		if e.HasDate {
			row[5] = e.Date.Format("2006-01-02")
		}
		if e.HasFunds {
			row[8] = e.FundsRaised
		}
		fullLoss = append(fullLoss, row)
	}
	if err := writeSheet(f, "Full loss",
		[]string{"company", "location", "industry", "total_laid_off", "percentage_laid_off", "date", "stage", "country", "funds_raised_millions"},
		fullLoss); err != nil {
		return err
	}

	for _, sec := range []struct {
		sheet string
		key   string
		rows  []GroupTotal
	}{
		{"By company", "company", s.ByCompany},
		{"By industry", "industry", s.ByIndustry},
		{"By country", "country", s.ByCountry},
		{"By stage", "stage", s.ByStage},
	} {
		rows := make([][]any, 0, len(sec.rows))
		for _, g := range sec.rows {
			rows = append(rows, []any{g.Key, g.Total})
		}
		if err := writeSheet(f, sec.sheet, []string{sec.key, "total_laid_off"}, rows); err != nil {
			return err
		}
	}

	years := make([][]any, 0, len(s.ByYear))
	for _, y := range s.ByYear {
		years = append(years, []any{y.Year, y.Total})
	}
	if err := writeSheet(f, "By year", []string{"year", "total_laid_off"}, years); err != nil {
		return err
	}

	months := make([][]any, 0, len(s.Monthly))
	for _, m := range s.Monthly {
		months = append(months, []any{m.Month, m.Total, m.Rolling})
	}
	if err := writeSheet(f, "Monthly", []string{"month", "total", "rolling"}, months); err != nil {
		return err
	}

	top := make([][]any, 0, len(s.TopCompanies))
	for _, r := range s.TopCompanies {
		top = append(top, []any{r.Year, r.Rank, r.Company, r.Total})
	}
	if err := writeSheet(f, "Top companies", []string{"year", "rank", "company", "total_laid_off"}, top); err != nil {
		return err
	}

	// Drop the default sheet excelize creates.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]any) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("sheet %s: %w", sheet, err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("sheet %s: %w", sheet, err)
		}
	}
	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("sheet %s: %w", sheet, err)
			}
		}
	}
	return nil
}
