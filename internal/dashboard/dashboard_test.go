package dashboard

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/datalens-cli/internal/loader"
)

const countriesCSV = `country,region,population,gdp
Argentina,Sur,45.8,487.2
Brazil,Este,214.3,1608.9
Chile,Sur,19.5,317.1
Peru,Oeste,33.7,223.3
Uruguay,Sur,3.4,56.5
`

func newTestServer(t *testing.T, logs io.Writer) *Server {
	t.Helper()
	p := filepath.Join(t.TempDir(), "paises.csv")
	require.NoError(t, os.WriteFile(p, []byte(countriesCSV), 0o644))
	if logs == nil {
		logs = io.Discard
	}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(Options{DataFile: p, Title: "Países", Description: "Datos de países.", SampleRows: 2},
		loader.NewCache(loader.DefaultOptions(), logger), logger)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestIndexPage(t *testing.T) {
	var logs bytes.Buffer
	s := newTestServer(t, &logs)
	rec := get(t, s, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	body := rec.Body.String()
	require.Contains(t, body, "Project Description")
	require.Contains(t, body, "Datos de países.")
	require.Contains(t, body, "<td>Brazil</td>")
	// only the head rows are shown
	require.NotContains(t, body, "<td>Chile</td>")
	require.Contains(t, body, "paises.csv")

	require.Contains(t, logs.String(), "request_id="+rec.Header().Get("X-Request-ID"))
	require.Contains(t, logs.String(), "status=200")

	require.Equal(t, http.StatusNotFound, get(t, s, "/nope").Code)
}

func TestDataPageDefaults(t *testing.T) {
	s := newTestServer(t, nil)
	rec := get(t, s, "/data")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "Mean:")
	require.Contains(t, body, "Column range: 3.4 to 214.3")
	require.Contains(t, body, "5 rows match.")
	require.NotContains(t, body, `class="message"`)
}

func TestDataPageFilterAndMessages(t *testing.T) {
	s := newTestServer(t, nil)

	body := get(t, s, "/data?filter=population&min=10&max=50").Body.String()
	require.Contains(t, body, "3 rows match.")
	require.Contains(t, body, "/data/export.csv?filter=population&amp;max=50&amp;min=10")

	body = get(t, s, "/data?filter=population&min=1&max=50").Body.String()
	require.Contains(t, body, "bounds outside column range 3.4 to 214.3")
	require.NotContains(t, body, "rows match.")

	body = get(t, s, "/data?filter=population&min=50&max=10").Body.String()
	require.Contains(t, body, "min is greater than max")

	body = get(t, s, "/data?filter=population&min=abc").Body.String()
	require.Contains(t, body, "bounds must be numbers")

	rec := get(t, s, "/data?stats=country&sort=area")
	require.Equal(t, http.StatusOK, rec.Code)
	body = rec.Body.String()
	require.Contains(t, body, "not numeric")
	require.Contains(t, body, "not found")
	// the filter section still renders
	require.Contains(t, body, "5 rows match.")
}

func TestDataPageSortDescending(t *testing.T) {
	s := newTestServer(t, nil)
	body := get(t, s, "/data?sort=population&order=desc").Body.String()
	sorted := body[strings.Index(body, "Sort Data"):]
	require.Less(t, strings.Index(sorted, "<td>Brazil</td>"), strings.Index(sorted, "<td>Argentina</td>"))
	require.Less(t, strings.Index(sorted, "<td>Peru</td>"), strings.Index(sorted, "<td>Chile</td>"))
}

func TestExportCSV(t *testing.T) {
	s := newTestServer(t, nil)
	rec := get(t, s, "/data/export.csv?filter=population&min=10&max=50")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "attachment; filename=filtered_data.csv", rec.Header().Get("Content-Disposition"))
	require.Equal(t, "country,region,population,gdp\nArgentina,Sur,45.8,487.2\nChile,Sur,19.5,317.1\nPeru,Oeste,33.7,223.3\n", rec.Body.String())

	require.Equal(t, http.StatusBadRequest, get(t, s, "/data/export.csv?filter=population&min=0&max=50").Code)
	require.Equal(t, http.StatusBadRequest, get(t, s, "/data/export.csv?filter=country").Code)
}

func TestChartsPage(t *testing.T) {
	s := newTestServer(t, nil)
	body := get(t, s, "/charts").Body.String()
	require.Contains(t, body, "data:image/png;base64,")
	require.Contains(t, body, "/charts/image.png?download=1&amp;kind=bar&amp;x=population&amp;y=gdp")

	body = get(t, s, "/charts?kind=pie&x=region&y=population").Body.String()
	require.Contains(t, body, "data:image/png;base64,")

	body = get(t, s, "/charts?kind=radar&x=population&y=gdp").Body.String()
	require.Contains(t, body, "unknown chart kind")
	require.NotContains(t, body, "data:image/png")

	body = get(t, s, "/charts?kind=scatter&x=country&y=gdp").Body.String()
	require.Contains(t, body, "is not numeric")
}

func TestChartImage(t *testing.T) {
	s := newTestServer(t, nil)
	rec := get(t, s, "/charts/image.png?kind=pie&x=region&y=population&download=1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	require.Equal(t, "attachment; filename=chart.png", rec.Header().Get("Content-Disposition"))
	require.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	rec = get(t, s, "/charts/image.png?kind=line&x=population&y=gdp")
	require.Equal(t, "inline; filename=chart.png", rec.Header().Get("Content-Disposition"))

	require.Equal(t, http.StatusBadRequest, get(t, s, "/charts/image.png?kind=bar&x=population&y=region").Code)
}

func TestMissingDatasetIs500(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := New(Options{DataFile: filepath.Join(t.TempDir(), "gone.xlsx")}, loader.NewCache(loader.DefaultOptions(), logger), logger)
	rec := get(t, s, "/")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "load dataset")
}
