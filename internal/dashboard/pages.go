package dashboard

import (
	"bytes"
	"encoding/base64"
	"errors"
	"html/template"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/KaramelBytes/datalens-cli/internal/analysis"
	"github.com/KaramelBytes/datalens-cli/internal/render"
	"github.com/KaramelBytes/datalens-cli/internal/table"
)

var funcs = template.FuncMap{
	"num": func(v float64) string {
		if math.IsNaN(v) {
			return "NaN"
		}
		return table.FormatFloat(v)
	},
	"kinds": func() []analysis.ChartKind { return analysis.ChartKinds },
}

type tableView struct {
	Header []string
	Rows   [][]string
}

func newTableView(t *table.Table) *tableView {
	v := &tableView{Header: t.Schema().Names()}
	for i := 0; i < t.Rows(); i++ {
		v.Rows = append(v.Rows, t.Row(i))
	}
	return v
}

// Page holds the fields every view shares.
type Page struct {
	Title  string
	Active string
	File   string
}

type indexPage struct {
	Page
	Description string
	Report      *analysis.Report
	Head        *tableView
}

type dataPage struct {
	Page
	Columns []string
	Numeric []string
	Table   *tableView

	StatsColumn string
	Stats       *analysis.Summary
	StatsError  string

	SortColumn string
	Order      string
	Sorted     *tableView
	SortError  string

	FilterColumn string
	Min, Max     string
	Bounds       *analysis.Range
	Filtered     *tableView
	FilterError  string
	ExportURL    string
}

type chartsPage struct {
	Page
	Columns     []string
	Numeric     []string
	Kind        string
	X, Y        string
	Image       template.URL
	DownloadURL string
	Error       string
}

func (s *Server) newPage(active string, t *table.Table) Page {
	return Page{Title: s.opt.Title, Active: active, File: t.Name()}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	t, ok := s.dataset(w, r)
	if !ok {
		return
	}
	s.render(w, r, "index", indexPage{
		Page:        s.newPage("index", t),
		Description: s.opt.Description,
		Report:      analysis.NewReport(t, s.opt.SampleRows),
		Head:        newTableView(t.Head(s.opt.SampleRows)),
	})
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	t, ok := s.dataset(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	schema := t.Schema()
	p := dataPage{
		Page:    s.newPage("data", t),
		Columns: schema.Names(),
		Numeric: schema.Numeric(),
		Table:   newTableView(t),
	}
	log := requestLogger(r.Context(), s.logger)
	message := func(section string, err error) string {
		if !table.IsRecoverable(err) {
			log.Error(section+" failed", "error", err)
		} else {
			log.Debug(section+" rejected", "error", err)
		}
		return err.Error()
	}

	p.StatsColumn = firstOr(q.Get("stats"), p.Numeric)
	if p.StatsColumn != "" {
		if sum, err := analysis.Describe(t, p.StatsColumn); err != nil {
			p.StatsError = message("stats", err)
		} else {
			p.Stats = &sum
		}
	}

	p.SortColumn = firstOr(q.Get("sort"), p.Columns)
	p.Order = "asc"
	if q.Get("order") == "desc" {
		p.Order = "desc"
	}
	if p.SortColumn != "" {
		if sorted, err := analysis.Sort(t, analysis.SortSpec{Column: p.SortColumn, Ascending: p.Order == "asc"}); err != nil {
			p.SortError = message("sort", err)
		} else {
			p.Sorted = newTableView(sorted)
		}
	}

	p.FilterColumn = firstOr(q.Get("filter"), p.Numeric)
	p.Min, p.Max = q.Get("min"), q.Get("max")
	if p.FilterColumn != "" {
		filtered, bounds, err := filterFromQuery(t, p.FilterColumn, p.Min, p.Max)
		if bounds != nil {
			p.Bounds = bounds
			if p.Min == "" {
				p.Min = table.FormatFloat(bounds.Min)
			}
			if p.Max == "" {
				p.Max = table.FormatFloat(bounds.Max)
			}
		}
		if err != nil {
			p.FilterError = message("filter", err)
		} else {
			p.Filtered = newTableView(filtered)
			p.ExportURL = "/data/export.csv?" + url.Values{"filter": {p.FilterColumn}, "min": {p.Min}, "max": {p.Max}}.Encode()
		}
	}
	s.render(w, r, "data", p)
}

// filterFromQuery applies the range given as raw query strings. An empty
// bound defaults to the column's own bound.
func filterFromQuery(t *table.Table, column, rawMin, rawMax string) (*table.Table, *analysis.Range, error) {
	bounds, err := analysis.Bounds(t, column)
	if err != nil {
		return nil, nil, err
	}
	rng := bounds
	parse := func(raw string, dst *float64) error {
		if strings.TrimSpace(raw) == "" {
			return nil
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return &table.InvalidRangeError{Column: column, Min: math.NaN(), Max: math.NaN(), Reason: "bounds must be numbers"}
		}
		*dst = v
		return nil
	}
	if err := parse(rawMin, &rng.Min); err != nil {
		return nil, &bounds, err
	}
	if err := parse(rawMax, &rng.Max); err != nil {
		return nil, &bounds, err
	}
	out, err := analysis.Filter(t, column, rng)
	return out, &bounds, err
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	t, ok := s.dataset(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	filtered, _, err := filterFromQuery(t, q.Get("filter"), q.Get("min"), q.Get("max"))
	if err != nil {
		s.badRequest(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := table.WriteCSV(&buf, filtered); err != nil {
		s.badRequest(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=filtered_data.csv")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) chartFromQuery(t *table.Table, q url.Values) (*analysis.ChartData, []byte, error) {
	kind, err := analysis.ParseChartKind(q.Get("kind"))
	if err != nil {
		return nil, nil, err
	}
	data, err := analysis.BuildChart(t, analysis.ChartSpec{Kind: kind, X: q.Get("x"), Y: q.Get("y")})
	if err != nil {
		return nil, nil, err
	}
	var buf bytes.Buffer
	opt := render.Options{Width: s.opt.ChartWidth, Height: s.opt.ChartHeight, Title: q.Get("y") + " by " + q.Get("x")}
	if err := render.PNG(&buf, data, opt); err != nil {
		return nil, nil, err
	}
	return data, buf.Bytes(), nil
}

func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	t, ok := s.dataset(w, r)
	if !ok {
		return
	}
	schema := t.Schema()
	q := r.URL.Query()
	p := chartsPage{
		Page:    s.newPage("charts", t),
		Columns: schema.Names(),
		Numeric: schema.Numeric(),
		Kind:    q.Get("kind"),
		X:       q.Get("x"),
		Y:       q.Get("y"),
	}
	if p.Kind == "" {
		p.Kind = string(analysis.Bar)
	}
	if p.X == "" {
		p.X = firstOr("", p.Numeric)
	}
	if p.Y == "" {
		p.Y = p.X
		if len(p.Numeric) > 1 {
			p.Y = p.Numeric[1]
		}
	}
	q = url.Values{"kind": {p.Kind}, "x": {p.X}, "y": {p.Y}}
	if p.X == "" {
		p.Error = "the dataset has no numeric columns to plot"
	} else if _, png, err := s.chartFromQuery(t, q); err != nil {
		if !table.IsRecoverable(err) && !errors.Is(err, render.ErrEmptyChart) {
			requestLogger(r.Context(), s.logger).Error("chart failed", "error", err)
		}
		p.Error = err.Error()
	} else {
		p.Image = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
		q.Set("download", "1")
		p.DownloadURL = "/charts/image.png?" + q.Encode()
	}
	s.render(w, r, "charts", p)
}

func (s *Server) handleChartImage(w http.ResponseWriter, r *http.Request) {
	t, ok := s.dataset(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	_, png, err := s.chartFromQuery(t, q)
	if err != nil {
		s.badRequest(w, r, err)
		return
	}
	disposition := "inline"
	if q.Get("download") == "1" {
		disposition = "attachment"
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", disposition+"; filename=chart.png")
	_, _ = w.Write(png)
}

func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	requestLogger(r.Context(), s.logger).Warn("bad request", "error", err)
	http.Error(w, err.Error(), http.StatusBadRequest)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := s.pages[name].ExecuteTemplate(&buf, "layout.html", data); err != nil {
		requestLogger(r.Context(), s.logger).Error("render page", "page", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// firstOr returns want, or the first option when want is empty.
func firstOr(want string, options []string) string {
	if want != "" {
		return want
	}
	if len(options) > 0 {
		return options[0]
	}
	return ""
}
