package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/starfederation/datastar-go/datastar"
	"gonum.org/v1/plot"

	httpadapter "github.com/couchcryptid/tourism-intel/internal/adapter/http"
	"github.com/couchcryptid/tourism-intel/internal/domain"
)

// Router is the subset of a mux the dashboard mounts its routes on.
type Router interface {
	Handle(pattern string, h http.Handler)
}

// Mount registers the page, SSE, API and chart routes.
func (d *Dashboard) Mount(r Router) {
	r.Handle("GET /{$}", http.HandlerFunc(d.handlePage))
	r.Handle("GET /sse/dashboard", http.HandlerFunc(d.handleSSE))
	r.Handle("GET /api/cities", http.HandlerFunc(d.handleCities))
	r.Handle("GET /api/cities/{city}", http.HandlerFunc(d.handleCity))
	r.Handle("GET /charts/{city}/{file}", http.HandlerFunc(d.handleChart))
}

// signalsParam is the query parameter datastar uses for signals on GET.
const signalsParam = "datastar"

// requestError carries the HTTP status for a rejected selection.
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{status: http.StatusBadRequest, msg: fmt.Sprintf(format, args...)}
}

func (d *Dashboard) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var re *requestError
	var unknown *domain.UnknownCityError
	switch {
	case errors.As(err, &re):
		httpadapter.WriteError(w, r, re.status, re.msg)
	case errors.As(err, &unknown):
		httpadapter.WriteError(w, r, http.StatusNotFound, unknown.Error())
	default:
		d.logger.Error("dashboard request failed", "path", r.URL.Path, "error", err)
		httpadapter.WriteError(w, r, http.StatusInternalServerError, "internal error")
	}
}

// selection resolves city, month and year from query parameters, or from the
// datastar signals when the request carries them. Missing values default to
// the first city, October and the current year.
func (d *Dashboard) selection(r *http.Request) (Selection, error) {
	raw := map[string]string{}
	q := r.URL.Query()
	if q.Has(signalsParam) {
		signals := map[string]any{}
		if err := datastar.ReadSignals(r, &signals); err != nil {
			return Selection{}, badRequest("invalid signals: %v", err)
		}
		for _, k := range []string{"city", "month", "year"} {
			if v, ok := signals[k]; ok && v != nil {
				raw[k] = fmt.Sprint(v)
			}
		}
	} else {
		for _, k := range []string{"city", "month", "year"} {
			raw[k] = q.Get(k)
		}
	}

	sel := Selection{City: raw["city"], Month: DefaultMonth, Year: d.clock.Now().Year()}
	if sel.City == "" {
		sel.City = d.defaultCity()
	}
	if s := raw["month"]; s != "" {
		m, err := strconv.Atoi(s)
		if err != nil || m < 1 || m > 12 {
			return Selection{}, badRequest("month must be between 1 and 12, got %q", s)
		}
		sel.Month = m
	}
	if s := raw["year"]; s != "" {
		y, err := strconv.Atoi(s)
		if err != nil || y < MinYear || y > MaxYear {
			return Selection{}, badRequest("year must be between %d and %d, got %q", MinYear, MaxYear, s)
		}
		sel.Year = y
	}
	return sel, nil
}

func (d *Dashboard) view(r *http.Request) (View, error) {
	if err := d.CheckReadiness(r.Context()); err != nil {
		return View{}, &requestError{status: http.StatusServiceUnavailable, msg: err.Error()}
	}
	sel, err := d.selection(r)
	if err != nil {
		return View{}, err
	}
	snap, err := d.Snapshot(sel.City)
	if err != nil {
		return View{}, err
	}
	status, fallback := d.statusLine()
	return newView(sel, d.Cities(), snap, status, fallback), nil
}

func (d *Dashboard) handlePage(w http.ResponseWriter, r *http.Request) {
	v, err := d.view(r)
	if err != nil {
		d.writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := renderPage(&buf, v); err != nil {
		d.writeError(w, r, fmt.Errorf("render page: %w", err))
		return
	}
	d.metrics.DashboardRenders.WithLabelValues("page").Inc()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes()) //nolint:errcheck // best-effort response
}

func (d *Dashboard) handleSSE(w http.ResponseWriter, r *http.Request) {
	v, err := d.view(r)
	if err != nil {
		d.writeError(w, r, err)
		return
	}
	var buf strings.Builder
	if err := renderContent(&buf, v); err != nil {
		d.writeError(w, r, fmt.Errorf("render content: %w", err))
		return
	}
	signals, err := json.Marshal(v.Selection)
	if err != nil {
		d.writeError(w, r, fmt.Errorf("marshal signals: %w", err))
		return
	}

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElements(buf.String()); err != nil {
		d.logger.Warn("patch dashboard content", "error", err)
		return
	}
	if err := sse.PatchSignals(signals); err != nil {
		d.logger.Warn("patch dashboard signals", "error", err)
		return
	}
	d.metrics.DashboardRenders.WithLabelValues("sse").Inc()
}

// CityResponse is the JSON shape of /api/cities/{city}.
type CityResponse struct {
	domain.CitySnapshot
	RevenueDomestic      int `json:"revenue_domestic"`
	RevenueInternational int `json:"revenue_international"`
}

// requireReady writes 503 and reports false until the first Load completes.
func (d *Dashboard) requireReady(w http.ResponseWriter, r *http.Request) bool {
	if err := d.CheckReadiness(r.Context()); err != nil {
		d.writeError(w, r, &requestError{status: http.StatusServiceUnavailable, msg: err.Error()})
		return false
	}
	return true
}

func (d *Dashboard) handleCities(w http.ResponseWriter, r *http.Request) {
	if !d.requireReady(w, r) {
		return
	}
	d.metrics.DashboardRenders.WithLabelValues("api").Inc()
	httpadapter.WriteJSON(w, http.StatusOK, map[string]any{
		"cities":   d.Cities(),
		"fallback": d.Fallback(),
	})
}

func (d *Dashboard) handleCity(w http.ResponseWriter, r *http.Request) {
	if !d.requireReady(w, r) {
		return
	}
	snap, err := d.Snapshot(r.PathValue("city"))
	if err != nil {
		d.writeError(w, r, err)
		return
	}
	dom, intl := snap.KPI.RevenueSplit()
	d.metrics.DashboardRenders.WithLabelValues("api").Inc()
	httpadapter.WriteJSON(w, http.StatusOK, CityResponse{
		CitySnapshot:         snap,
		RevenueDomestic:      dom,
		RevenueInternational: intl,
	})
}

// Chart names served under /charts/{city}/.
const (
	ChartMix       = "mix"
	ChartTrend     = "trend"
	ChartOccupancy = "occupancy"
)

func (d *Dashboard) handleChart(w http.ResponseWriter, r *http.Request) {
	name, ok := strings.CutSuffix(r.PathValue("file"), ".png")
	if !ok {
		httpadapter.WriteError(w, r, http.StatusNotFound, "chart not found")
		return
	}
	if !d.requireReady(w, r) {
		return
	}
	snap, gen, err := d.snapshotAt(r.PathValue("city"))
	if err != nil {
		d.writeError(w, r, err)
		return
	}

	key := snap.City + "/" + name
	png, ok := d.pngs.get(key)
	if !ok {
		png, err = d.renderChart(snap, name)
		if err != nil {
			d.writeError(w, r, err)
			return
		}
		d.pngs.put(gen, key, png)
	}

	d.metrics.DashboardRenders.WithLabelValues("chart").Inc()
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "max-age=300")
	w.Write(png) //nolint:errcheck // best-effort response
}

func (d *Dashboard) renderChart(snap domain.CitySnapshot, name string) ([]byte, error) {
	var (
		p   *plot.Plot
		err error
	)
	switch name {
	case ChartMix:
		p, err = d.charts.TouristMix(snap.KPI)
	case ChartTrend:
		p, err = d.charts.KPITrend(snap.Trends)
	case ChartOccupancy:
		p, err = d.charts.HotelOccupancy(snap.Hotels)
	default:
		return nil, &requestError{status: http.StatusNotFound, msg: "chart not found"}
	}
	if err != nil {
		return nil, &requestError{status: http.StatusNotFound, msg: err.Error()}
	}

	var buf bytes.Buffer
	if err := d.charts.WritePNG(&buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
