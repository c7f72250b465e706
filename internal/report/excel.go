package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/tourism-intel/internal/domain"
)

// Workbook sheet names.
const (
	SheetSummary  = "Summary"
	SheetArrivals = "Arrivals"
	SheetRevenue  = "Revenue"
	SheetHotels   = "Hotels"
)

// Dataset is everything the workbook export needs.
type Dataset struct {
	Points   []domain.MonthPoint
	Hotels   []domain.Hotel
	Bookings []domain.Booking
}

// BuildWorkbook lays the dataset out as a workbook: KPIs and per-city totals,
// a month-by-city grid for each series, and hotels with booking revenue.
func BuildWorkbook(ds Dataset) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, err
	}
	for _, name := range []string{SheetArrivals, SheetRevenue, SheetHotels} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("new sheet %s: %w", name, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DCE6F1"}},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	steps := []func(*excelize.File, int, Dataset) error{
		writeSummary,
		func(f *excelize.File, h int, ds Dataset) error {
			return writeGrid(f, h, SheetArrivals, ds.Points, func(p domain.MonthPoint) any { return p.Arrivals })
		},
		func(f *excelize.File, h int, ds Dataset) error {
			return writeGrid(f, h, SheetRevenue, ds.Points, func(p domain.MonthPoint) any { return p.Revenue })
		},
		writeHotels,
	}
	for _, step := range steps {
		if err := step(f, header, ds); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// WriteWorkbook builds the workbook and writes it as .xlsx to w.
func WriteWorkbook(w io.Writer, ds Dataset) error {
	f, err := BuildWorkbook(ds)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func writeRow(f *excelize.File, sheet string, row int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func styleHeader(f *excelize.File, sheet string, style, row, cols int) error {
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(cols, row)
	return f.SetCellStyle(sheet, first, last, style)
}

func writeSummary(f *excelize.File, header int, ds Dataset) error {
	k := ComputeKPIs(ds.Points, ds.Hotels)
	rows := [][]any{
		{"Metric", "Value"},
		{"Total Arrivals", k.TotalArrivals},
		{"Total Revenue", k.TotalRevenue},
		{"Avg Occupancy (%)", k.AvgOccupancy},
		{},
		{"Destination", "Revenue"},
	}
	for _, t := range RevenueByDestination(ds.Points) {
		rows = append(rows, []any{t.City, t.Revenue})
	}

	for i, r := range rows {
		if err := writeRow(f, SheetSummary, i+1, r...); err != nil {
			return fmt.Errorf("summary: %w", err)
		}
	}
	if err := styleHeader(f, SheetSummary, header, 1, 2); err != nil {
		return err
	}
	if err := styleHeader(f, SheetSummary, header, 6, 2); err != nil {
		return err
	}
	return f.SetColWidth(SheetSummary, "A", "B", 20)
}

// writeGrid writes one row per month and one column per city.
func writeGrid(f *excelize.File, header int, sheet string, points []domain.MonthPoint, value func(domain.MonthPoint) any) error {
	series := SeriesByCity(points)
	head := []any{"Month"}
	months := 0
	for _, s := range series {
		head = append(head, s.City)
		months = max(months, len(s.Points))
	}
	if err := writeRow(f, sheet, 1, head...); err != nil {
		return fmt.Errorf("%s: %w", sheet, err)
	}

	for m := range months {
		row := make([]any, 1, len(head))
		for _, s := range series {
			if m < len(s.Points) {
				if row[0] == nil {
					row[0] = s.Points[m].Label()
				}
				row = append(row, value(s.Points[m]))
			} else {
				row = append(row, nil)
			}
		}
		if err := writeRow(f, sheet, m+2, row...); err != nil {
			return fmt.Errorf("%s: %w", sheet, err)
		}
	}
	if err := styleHeader(f, sheet, header, 1, len(head)); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", "A", 12)
}

func writeHotels(f *excelize.File, header int, ds Dataset) error {
	if err := writeRow(f, SheetHotels, 1,
		"Hotel ID", "Name", "Destination", "Stars", "Rooms", "Price/Night", "Occupancy (%)", "Booking Revenue"); err != nil {
		return fmt.Errorf("hotels: %w", err)
	}
	for i, t := range RevenueByHotel(ds.Hotels, ds.Bookings) {
		h := t.Hotel
		if err := writeRow(f, SheetHotels, i+2,
			h.ID, h.Name, h.Destination, h.StarRating, h.TotalRooms, h.PricePerNight, h.OccupancyRate, t.Revenue); err != nil {
			return fmt.Errorf("hotels: %w", err)
		}
	}
	if err := styleHeader(f, SheetHotels, header, 1, 8); err != nil {
		return err
	}
	return f.SetColWidth(SheetHotels, "B", "B", 24)
}
