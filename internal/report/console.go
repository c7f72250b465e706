package report

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/couchcryptid/tourism-intel/internal/domain"
)

const menu = `
Menu:
1. Show KPIs
2. Arrivals trend chart
3. Revenue trend chart
4. Show hotels data
5. Exit
6. Show revenue by destination/hotel
`

// Console is the interactive menu-driven report over a seeded store.
type Console struct {
	store    domain.Store
	charts   *Charts
	chartDir string
	in       *bufio.Scanner
	out      io.Writer
	logger   *slog.Logger

	heading *color.Color
	warn    *color.Color
}

// NewConsole reads choices from in and writes the report to out. Charts are
// written as PNG files under chartDir.
func NewConsole(store domain.Store, charts *Charts, chartDir string, in io.Reader, out io.Writer, logger *slog.Logger) *Console {
	return &Console{
		store:    store,
		charts:   charts,
		chartDir: chartDir,
		in:       bufio.NewScanner(in),
		out:      out,
		logger:   logger,
		heading:  color.New(color.FgCyan, color.Bold),
		warn:     color.New(color.FgYellow),
	}
}

// Run prints the banner and serves menu choices until the user exits or
// input ends. Store failures abort the session.
func (c *Console) Run(ctx context.Context, cities []string) error {
	c.heading.Fprintf(c.out, "==== Tourism Intelligence (%s) ====\n", strings.Join(cities, ", "))
	for {
		fmt.Fprint(c.out, menu)
		choice, ok := c.prompt("Enter your choice: ")
		if !ok {
			return nil
		}

		var err error
		switch choice {
		case "1":
			err = c.showKPIs(ctx)
		case "2":
			err = c.trendChart(ctx, "arrivals")
		case "3":
			err = c.trendChart(ctx, "revenue")
		case "4":
			err = c.showHotels(ctx)
		case "5":
			fmt.Fprintln(c.out, "Goodbye!")
			return nil
		case "6":
			err = c.revenueBreakdown(ctx)
		default:
			c.warn.Fprintln(c.out, "Invalid.")
		}
		if err != nil {
			return err
		}
	}
}

func (c *Console) prompt(label string) (string, bool) {
	fmt.Fprint(c.out, label)
	if !c.in.Scan() {
		fmt.Fprintln(c.out)
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

func (c *Console) showKPIs(ctx context.Context) error {
	points, err := c.store.Points(ctx, domain.PointFilter{})
	if err != nil {
		return err
	}
	hotels, err := c.store.Hotels(ctx, "")
	if err != nil {
		return err
	}
	k := ComputeKPIs(points, hotels)

	c.heading.Fprintln(c.out, "\n==== Tourism KPIs ====")
	fmt.Fprintf(c.out, "Total Arrivals: %s\n", Count(k.TotalArrivals))
	fmt.Fprintf(c.out, "Total Revenue: %s\n", Rupees(k.TotalRevenue))
	fmt.Fprintf(c.out, "Avg Occupancy (%%): %.1f\n", k.AvgOccupancy)
	return nil
}

func (c *Console) trendChart(ctx context.Context, metric string) error {
	points, err := c.store.Points(ctx, domain.PointFilter{})
	if err != nil {
		return err
	}
	if len(points) == 0 {
		fmt.Fprintln(c.out, "No data.")
		return nil
	}

	path := filepath.Join(c.chartDir, metric+"_trend.png")
	if metric == "arrivals" {
		err = c.charts.SaveArrivalsTrend(points, path)
	} else {
		err = c.charts.SaveRevenueTrend(points, path)
	}
	if err != nil {
		c.logger.Error("chart render failed", "chart", metric, "error", err)
		c.warn.Fprintf(c.out, "Could not render chart: %v\n", err)
		return nil
	}
	fmt.Fprintf(c.out, "Chart saved to %s\n", path)
	return nil
}

func (c *Console) showHotels(ctx context.Context) error {
	hotels, err := c.store.Hotels(ctx, "")
	if err != nil {
		return err
	}
	if len(hotels) == 0 {
		fmt.Fprintln(c.out, "No data.")
		return nil
	}

	c.heading.Fprintln(c.out, "\n-- Hotels Data --")
	table := tablewriter.NewWriter(c.out)
	table.SetHeader([]string{"Name", "Destination", "Star Rating", "Occupancy Rate", "Price Per Night"})
	for _, h := range hotels {
		table.Append([]string{
			h.Name,
			h.Destination,
			strconv.Itoa(h.StarRating),
			strconv.FormatFloat(h.OccupancyRate, 'f', -1, 64),
			Count(h.PricePerNight),
		})
	}
	table.Render()
	return nil
}

func (c *Console) revenueBreakdown(ctx context.Context) error {
	fmt.Fprintln(c.out, "a) Revenue by destination")
	fmt.Fprintln(c.out, "b) Revenue by hotel")
	sub, ok := c.prompt("Choose [a/b]: ")
	if !ok {
		return nil
	}

	switch strings.ToLower(sub) {
	case "a":
		return c.revenueByDestination(ctx)
	case "b":
		return c.revenueByHotel(ctx)
	default:
		c.warn.Fprintln(c.out, "Invalid subchoice.")
		return nil
	}
}

func (c *Console) revenueByDestination(ctx context.Context) error {
	points, err := c.store.Points(ctx, domain.PointFilter{})
	if err != nil {
		return err
	}
	c.heading.Fprintln(c.out, "\n--- Total Revenue by Destination ---")
	totals := RevenueByDestination(points)
	if len(totals) == 0 {
		fmt.Fprintln(c.out, "No data.")
		return nil
	}
	for _, t := range totals {
		fmt.Fprintf(c.out, "%s: %s\n", t.City, Rupees(t.Revenue))
	}
	return nil
}

func (c *Console) revenueByHotel(ctx context.Context) error {
	hotels, err := c.store.Hotels(ctx, "")
	if err != nil {
		return err
	}
	bookings, err := c.store.Bookings(ctx)
	if err != nil {
		return err
	}
	c.heading.Fprintln(c.out, "\n--- Revenue by Hotel ---")
	if len(hotels) == 0 || len(bookings) == 0 {
		fmt.Fprintln(c.out, "No hotel or booking data available.")
		return nil
	}
	for _, t := range RevenueByHotel(hotels, bookings) {
		fmt.Fprintf(c.out, "%s (%s): %s\n", t.Hotel.Name, t.Hotel.Destination, Rupees(t.Revenue))
	}
	return nil
}
