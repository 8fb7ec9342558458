package dashboard

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ecosocial/dashboard/indicator"
	"github.com/ecosocial/dashboard/store"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubLoader struct {
	loads int
	fail  bool
}

func (l *stubLoader) Load() (*indicator.Dataset, error) {
	l.loads++
	if l.fail {
		return nil, store.ErrSourceUnreachable
	}
	return indicator.NewDataset([]indicator.Record{
		{Year: 2017, CO2Emissions: 440.0, DietUnaffordability: 60.8},
		{Year: 2018, CO2Emissions: 434.6, DietUnaffordability: 60.2},
		{Year: 2019, CO2Emissions: 464.1, DietUnaffordability: 60.2},
		{Year: 2020, CO2Emissions: 434.1, DietUnaffordability: 61.8},
		{Year: 2021, CO2Emissions: 425.9, DietUnaffordability: 61.1},
		{Year: 2022, CO2Emissions: 405.3, DietUnaffordability: 61.0},
		{Year: 2023, CO2Emissions: 401.9, DietUnaffordability: 61.7},
	})
}

func (l *stubLoader) Source() string {
	return "stub://indicators"
}

func newTestServer(t *testing.T) (*Server, *stubLoader) {
	t.Helper()
	loader := &stubLoader{}
	return NewServer(store.NewCache(loader), zap.NewNop().Sugar()), loader
}

func TestDashboardPage(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?from=2019&to=2021", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Key Insights")
	assert.Contains(t, body, "CO2 Emissions Trend")
	assert.Contains(t, body, "Diet Affordability Trend")
	assert.Contains(t, body, "2019 - 2021")
	// table restricted to the filtered years
	assert.NotContains(t, body, "<td>2017</td>")
	assert.Contains(t, body, "<td>2020</td>")
}

func TestSummary(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/summary?from=2019&to=2021", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp summaryResponse
	require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "stub://indicators", resp.Source)
	assert.Equal(t, indicator.YearRange{Min: 2019, Max: 2021}, resp.Range)
	assert.Equal(t, 3, resp.Result.Count)
	require.True(t, resp.Result.MeanCO2.Valid)
	assert.InDelta(t, 441.37, resp.Result.MeanCO2.Value, 0.01)
	assert.InDelta(t, 61.03, resp.Result.MeanDietUnaffordability.Value, 0.01)
}

func TestSummaryClampsOutOfBoundsRange(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/summary?from=1990&to=2050", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp summaryResponse
	require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, indicator.YearRange{Min: 2017, Max: 2023}, resp.Range)
	assert.Equal(t, 7, resp.Result.Count)
}

func TestSummaryClampsRangeEntirelyOutsideDataset(t *testing.T) {
	srv, _ := newTestServer(t)

	// collapses onto the nearest dataset bound rather than failing
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/summary?from=2050&to=2060", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp summaryResponse
	require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, indicator.YearRange{Min: 2023, Max: 2023}, resp.Range)
	assert.Equal(t, 1, resp.Result.Count)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/summary?from=1990&to=2000", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, indicator.YearRange{Min: 2017, Max: 2017}, resp.Range)
	assert.Equal(t, 1, resp.Result.Count)
}

func TestSummaryRejectsNonNumericRange(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/summary?from=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecords(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/records?from=2022&to=2023", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var records []indicator.Record
	require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 2)
	assert.Equal(t, 2022, records[0].Year)
	assert.Equal(t, 2023, records[1].Year)
}

func TestReload(t *testing.T) {
	srv, loader := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/summary", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, loader.loads)

	// repeated reads stay cached
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/summary", nil))
	require.Equal(t, 1, loader.loads)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/reload", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, loader.loads)
	assert.True(t, strings.Contains(rec.Body.String(), "7"))
}

func TestLoadFailureIsServerError(t *testing.T) {
	loader := &stubLoader{fail: true}
	srv := NewServer(store.NewCache(loader), zap.NewNop().Sugar())

	for _, target := range []string{"/", "/api/summary", "/api/records"} {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code, target)
	}
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
