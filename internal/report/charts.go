package report

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/tourism-intel/internal/domain"
)

// Chart palette.
var (
	colorDomestic      = color.RGBA{R: 0x22, G: 0xb5, B: 0x73, A: 0xff}
	colorInternational = color.RGBA{R: 0xf4, G: 0x43, B: 0x36, A: 0xff}
	colorArrivals      = color.RGBA{R: 0x2c, G: 0xee, B: 0xf2, A: 0x99}
	colorOccupancy     = color.RGBA{R: 0xf7, G: 0xa5, B: 0x41, A: 0xff}
	colorOccupancyEdge = color.RGBA{R: 0x27, G: 0x8a, B: 0xea, A: 0xff}
	colorRevenue       = color.RGBA{R: 0x40, G: 0x59, B: 0xd1, A: 0xff}
)

// Charts renders report and dashboard charts with gonum/plot.
type Charts struct {
	Width  vg.Length
	Height vg.Length
}

// NewCharts returns a renderer producing 10x6 inch images.
func NewCharts() *Charts {
	return &Charts{Width: 10 * vg.Inch, Height: 6 * vg.Inch}
}

// ArrivalsTrend plots monthly arrivals, one line per city.
func (c *Charts) ArrivalsTrend(points []domain.MonthPoint) (*plot.Plot, error) {
	return trendPlot(points, "Monthly Tourist Arrivals", "Arrivals",
		func(p domain.MonthPoint) float64 { return float64(p.Arrivals) })
}

// RevenueTrend plots monthly revenue, one line per city.
func (c *Charts) RevenueTrend(points []domain.MonthPoint) (*plot.Plot, error) {
	return trendPlot(points, "Monthly Revenue", "Revenue (₹)",
		func(p domain.MonthPoint) float64 { return p.Revenue })
}

func (c *Charts) SaveArrivalsTrend(points []domain.MonthPoint, path string) error {
	p, err := c.ArrivalsTrend(points)
	if err != nil {
		return err
	}
	return c.save(p, path)
}

func (c *Charts) SaveRevenueTrend(points []domain.MonthPoint, path string) error {
	p, err := c.RevenueTrend(points)
	if err != nil {
		return err
	}
	return c.save(p, path)
}

func (c *Charts) SaveRevenueByDestination(totals []CityTotal, path string) error {
	p, err := c.RevenueByDestination(totals)
	if err != nil {
		return err
	}
	return c.save(p, path)
}

func trendPlot(points []domain.MonthPoint, title, ylabel string, value func(domain.MonthPoint) float64) (*plot.Plot, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("%s: no points", title)
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Month"
	p.Y.Label.Text = ylabel
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	var lines []any
	var labels []string
	for _, s := range SeriesByCity(points) {
		xys := make(plotter.XYs, len(s.Points))
		for i, pt := range s.Points {
			xys[i] = plotter.XY{X: float64(pt.MonthIndex), Y: value(pt)}
		}
		lines = append(lines, s.City, xys)
		if len(s.Points) > len(labels) {
			labels = labels[:0]
			for _, pt := range s.Points {
				labels = append(labels, pt.Date().Format("Jan 06"))
			}
		}
	}
	if err := plotutil.AddLinePoints(p, lines...); err != nil {
		return nil, fmt.Errorf("%s: %w", title, err)
	}
	p.NominalX(labels...)
	return p, nil
}

// RevenueByDestination plots total revenue per city as vertical bars.
func (c *Charts) RevenueByDestination(totals []CityTotal) (*plot.Plot, error) {
	if len(totals) == 0 {
		return nil, fmt.Errorf("revenue by destination: no data")
	}
	values := make(plotter.Values, len(totals))
	names := make([]string, len(totals))
	for i, t := range totals {
		values[i] = t.Revenue
		names[i] = t.City
	}

	p := plot.New()
	p.Title.Text = "Total Revenue by Destination"
	p.Y.Label.Text = "Revenue (₹)"
	bars, err := plotter.NewBarChart(values, vg.Points(40))
	if err != nil {
		return nil, fmt.Errorf("revenue by destination: %w", err)
	}
	bars.Color = colorRevenue
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(names...)
	p.Y.Min = 0
	return p, nil
}

// HotelOccupancy plots hotel occupancy as horizontal bars on a 0-100 scale.
func (c *Charts) HotelOccupancy(hotels []domain.Hotel) (*plot.Plot, error) {
	if len(hotels) == 0 {
		return nil, fmt.Errorf("hotel occupancy: no hotels")
	}
	values := make(plotter.Values, len(hotels))
	names := make([]string, len(hotels))
	for i, h := range hotels {
		values[i] = h.OccupancyRate
		names[i] = h.Name
	}

	p := plot.New()
	p.Title.Text = "Hotel Occupancy Comparison"
	p.X.Label.Text = "Occupancy (%)"
	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return nil, fmt.Errorf("hotel occupancy: %w", err)
	}
	bars.Horizontal = true
	bars.Color = colorOccupancy
	bars.LineStyle.Color = colorOccupancyEdge
	p.Add(bars)
	p.NominalY(names...)
	p.X.Min = 0
	p.X.Max = 100

	labels := make([]string, len(hotels))
	xys := make([]plotter.XY, len(hotels))
	for i, h := range hotels {
		labels[i] = fmt.Sprintf("%.0f%%", h.OccupancyRate)
		xys[i] = plotter.XY{X: math.Min(h.OccupancyRate+1, 95), Y: float64(i)}
	}
	l, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, fmt.Errorf("hotel occupancy: %w", err)
	}
	p.Add(l)
	return p, nil
}

// TouristMix draws the domestic/international split as a donut.
func (c *Charts) TouristMix(kpi domain.KPI) (*plot.Plot, error) {
	total := float64(kpi.Domestic + kpi.International)
	if total <= 0 {
		return nil, fmt.Errorf("tourist mix: no tourists")
	}

	p := plot.New()
	p.Title.Text = "Tourist Mix"
	p.HideAxes()
	d := &donut{
		values: []float64{float64(kpi.Domestic), float64(kpi.International)},
		colors: []color.Color{colorDomestic, colorInternational},
		hole:   0.65,
	}
	p.Add(d)
	p.Legend.Top = true
	p.Legend.Add(fmt.Sprintf("Domestic %.1f%%", 100*float64(kpi.Domestic)/total), swatch{colorDomestic})
	p.Legend.Add(fmt.Sprintf("International %.1f%%", 100*float64(kpi.International)/total), swatch{colorInternational})
	return p, nil
}

// KPITrend draws six-month arrivals as bars with domestic and international lines.
func (c *Charts) KPITrend(t domain.Trends) (*plot.Plot, error) {
	n := t.Len()
	if n <= 0 {
		return nil, fmt.Errorf("kpi trend: no trend data")
	}

	p := plot.New()
	p.Title.Text = "KPI Trends - Last 6 Months"
	p.Y.Label.Text = "Number"
	p.Legend.Top = true

	arrivals := make(plotter.Values, n)
	domestic := make(plotter.XYs, n)
	international := make(plotter.XYs, n)
	names := make([]string, n)
	for i := range n {
		arrivals[i] = float64(t.Arrivals[i])
		domestic[i] = plotter.XY{X: float64(i), Y: float64(t.Domestic[i])}
		international[i] = plotter.XY{X: float64(i), Y: float64(t.International[i])}
		names[i] = time.Month(t.Months[i]).String()
	}

	bars, err := plotter.NewBarChart(arrivals, vg.Points(30))
	if err != nil {
		return nil, fmt.Errorf("kpi trend: %w", err)
	}
	bars.Color = colorArrivals
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.Legend.Add("Arrivals", bars)

	for _, s := range []struct {
		name string
		xys  plotter.XYs
		c    color.Color
	}{
		{"Domestic", domestic, colorDomestic},
		{"International", international, colorInternational},
	} {
		line, pts, err := plotter.NewLinePoints(s.xys)
		if err != nil {
			return nil, fmt.Errorf("kpi trend: %w", err)
		}
		line.Color = s.c
		pts.Color = s.c
		pts.Shape = draw.CircleGlyph{}
		p.Add(line, pts)
		p.Legend.Add(s.name, line, pts)
	}

	p.NominalX(names...)
	p.Y.Min = 0
	return p, nil
}

// WritePNG renders p as PNG to w.
func (c *Charts) WritePNG(w io.Writer, p *plot.Plot) error {
	wt, err := p.WriterTo(c.Width, c.Height, "png")
	if err != nil {
		return fmt.Errorf("render png: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}

func (c *Charts) save(p *plot.Plot, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create chart dir: %w", err)
	}
	return p.Save(c.Width, c.Height, path)
}

// donut is a pie chart with a hollow centre. It fills the data area.
type donut struct {
	values []float64
	colors []color.Color
	hole   float64 // inner radius as a fraction of the outer radius
}

func (d *donut) Plot(c draw.Canvas, _ *plot.Plot) {
	var total float64
	for _, v := range d.values {
		total += v
	}
	if total <= 0 {
		return
	}

	center := c.Center()
	radius := 0.45 * math.Min(float64(c.Max.X-c.Min.X), float64(c.Max.Y-c.Min.Y))
	r := vg.Length(radius)

	// Start at 140 degrees and sweep clockwise.
	start := 140 * math.Pi / 180
	for i, v := range d.values {
		sweep := -2 * math.Pi * v / total
		var path vg.Path
		path.Move(center)
		path.Arc(center, r, start, sweep)
		path.Close()
		c.SetColor(d.colors[i%len(d.colors)])
		c.Fill(path)
		start += sweep
	}

	var hole vg.Path
	inner := vg.Length(radius * d.hole)
	hole.Move(vg.Point{X: center.X + inner, Y: center.Y})
	hole.Arc(center, inner, 0, 2*math.Pi)
	hole.Close()
	c.SetColor(color.White)
	c.Fill(hole)
}

// swatch is a solid legend thumbnail.
type swatch struct {
	c color.Color
}

func (s swatch) Thumbnail(c *draw.Canvas) {
	c.SetColor(s.c)
	c.Fill(c.Rectangle.Path())
}
