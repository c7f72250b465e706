package dashboard

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/couchcryptid/tourism-intel/internal/domain"
	"github.com/couchcryptid/tourism-intel/internal/report"
)

// Selector bounds.
const (
	MinYear      = 2022
	MaxYear      = 2100
	DefaultMonth = 10
)

// Selection is the city and period chosen on the page.
type Selection struct {
	City  string `json:"city"`
	Month int    `json:"month"`
	Year  int    `json:"year"`
}

// RevenueRow is one line of the revenue breakdown table.
type RevenueRow struct {
	Type     string
	Tourists int
	Revenue  int
}

// View is everything the page template renders for one selection.
type View struct {
	Selection
	Cities      []string
	Snapshot    domain.CitySnapshot
	Revenue     []RevenueRow
	HasTrends   bool
	MonthName   string
	Status      string
	Fallback    bool
	ChartPrefix string
}

func newView(sel Selection, cities []string, snap domain.CitySnapshot, status string, fallback bool) View {
	dom, intl := snap.KPI.RevenueSplit()
	return View{
		Selection: sel,
		Cities:    cities,
		Snapshot:  snap,
		Revenue: []RevenueRow{
			{Type: "Domestic", Tourists: snap.KPI.Domestic, Revenue: dom},
			{Type: "International", Tourists: snap.KPI.International, Revenue: intl},
		},
		HasTrends:   snap.Trends.Len() > 0,
		MonthName:   time.Month(sel.Month).String(),
		Status:      status,
		Fallback:    fallback,
		ChartPrefix: "/charts/" + snap.City,
	}
}

var funcs = template.FuncMap{
	"rupees": report.Rupees,
	"count":  func(v int) string { return report.Count(float64(v)) },
	"pct":    func(v float64) string { return fmt.Sprintf("%g%%", v) },
}

var templates = template.Must(template.New("page").Funcs(funcs).Parse(pageTemplate))

func init() {
	template.Must(templates.New("content").Parse(contentTemplate))
}

func renderPage(w io.Writer, v View) error {
	return templates.ExecuteTemplate(w, "page", v)
}

func renderContent(w io.Writer, v View) error {
	return templates.ExecuteTemplate(w, "content", v)
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Tourism Intelligence Dashboard</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.5/bundles/datastar.js"></script>
<style>
body{font-family:system-ui,sans-serif;background:#f4f7fb;color:#1d2a44;margin:0;padding:24px}
.dashboard-title{font-size:28px;font-weight:700;color:#133b8a}
.controls{display:flex;gap:12px;align-items:end;margin:16px 0}
.grid{display:grid;grid-template-columns:1fr 1.6fr;gap:24px}
.card{background:#fff;border-radius:10px;padding:16px;box-shadow:0 1px 4px rgba(0,0,0,.08);margin-bottom:16px}
.kpi span{color:#133b8a;font-weight:700}
.attractions{columns:2}
table{border-collapse:collapse;width:100%}
th,td{padding:6px 8px;border-bottom:1px solid #e3e8f0;text-align:left}
.charts img{max-width:100%}
.status.ok{color:#22b573}.status.warn{color:#f44336}
</style>
</head>
<body data-signals='{"city":"{{.City}}","month":{{.Month}},"year":{{.Year}}}'>
<div class="dashboard-title">🌍 Tourism Intelligence Dashboard</div>
<form class="controls" data-on:submit__prevent="@get('/sse/dashboard')">
<label>Choose Destination:
<select data-bind:city>
{{range .Cities}}<option value="{{.}}"{{if eq . $.City}} selected{{end}}>{{.}}</option>
{{end}}</select></label>
<label>Month: <input type="number" min="1" max="12" step="1" data-bind:month value="{{.Month}}"></label>
<label>Year: <input type="number" min="2022" max="2100" step="1" data-bind:year value="{{.Year}}"></label>
<button type="submit">UPDATE</button>
</form>
{{template "content" .}}
</body>
</html>`

const contentTemplate = `<div id="dashboard-content">
<div class="grid">
<div>
<div class="card kpi">
<p>Total Arrivals: <span>{{count .Snapshot.KPI.Arrivals}}</span></p>
<p>Total Revenue: <span>{{rupees .Snapshot.KPI.Revenue}}</span></p>
<p>Avg. Hotel Occupancy: <span>{{pct .Snapshot.KPI.Occupancy}}</span></p>
</div>
<div class="card">
<h3>Top Attractions in {{.City}}</h3>
{{if .Snapshot.Attractions}}<ul class="attractions">
{{range .Snapshot.Attractions}}<li>{{.}}</li>
{{end}}</ul>{{else}}<p>No attractions data.</p>{{end}}
</div>
</div>
<div>
<div class="card">
<h3>Hotels in {{.City}}</h3>
<table>
<thead><tr><th>Name</th><th>Stars</th><th>Rooms</th><th>Price/Night (₹)</th><th>Occupancy (%)</th></tr></thead>
<tbody>
{{range .Snapshot.Hotels}}<tr><td>{{.Name}}</td><td>{{.StarRating}}</td><td>{{.TotalRooms}}</td><td>{{printf "%.0f" .PricePerNight}}</td><td>{{printf "%g" .OccupancyRate}}</td></tr>
{{end}}</tbody>
</table>
</div>
<div class="card">
<h3>Revenue Breakdown</h3>
<table>
<thead><tr><th>Type</th><th>Tourists</th><th>Revenue (₹)</th></tr></thead>
<tbody>
{{range .Revenue}}<tr><td>{{.Type}}</td><td>{{count .Tourists}}</td><td>{{count .Revenue}}</td></tr>
{{end}}</tbody>
</table>
</div>
</div>
</div>
<div class="grid charts">
<div class="card"><h3>Tourist Mix</h3><img alt="Tourist Mix" src="{{.ChartPrefix}}/mix.png"></div>
<div class="card"><h3>KPI Trends - Last 6 Months</h3>
{{if .HasTrends}}<img alt="KPI Trends" src="{{.ChartPrefix}}/trend.png">{{else}}<p>No trend data available for this city.</p>{{end}}
</div>
</div>
<div class="card charts"><h3>Hotel Occupancy Comparison</h3>
{{if .Snapshot.Hotels}}<img alt="Hotel Occupancy" src="{{.ChartPrefix}}/occupancy.png">{{else}}<p>No hotels data to display.</p>{{end}}
</div>
<p>Data for: {{.MonthName}}, {{.Year}}</p>
<p class="status {{if .Fallback}}warn{{else}}ok{{end}}">{{.Status}}</p>
</div>`
