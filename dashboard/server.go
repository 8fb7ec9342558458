// Package dashboard renders the indicator analytics as an interactive web
// page and serves it over HTTP. Each request recomputes the filtered view
// and its statistics from the cached dataset; the only state is the cache,
// which is invalidated solely through the explicit reload endpoint.
package dashboard

import (
	"net/http"
	"strconv"

	"github.com/ecosocial/dashboard/analysis"
	"github.com/ecosocial/dashboard/indicator"
	"github.com/ecosocial/dashboard/store"
	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Server serves the dashboard page and its JSON API.
type Server struct {
	cache  *store.Cache
	logger *zap.SugaredLogger
	router *mux.Router
}

func NewServer(cache *store.Cache, logger *zap.SugaredLogger) *Server {
	s := &Server{
		cache:  cache,
		logger: logger,
		router: mux.NewRouter(),
	}

	s.router.HandleFunc("/", s.handleDashboard).Methods(http.MethodGet)
	s.router.HandleFunc("/api/summary", s.handleSummary).Methods(http.MethodGet)
	s.router.HandleFunc("/api/records", s.handleRecords).Methods(http.MethodGet)
	s.router.HandleFunc("/api/reload", s.handleReload).Methods(http.MethodPost)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.router.ServeHTTP(w, req)
}

// dataset fetches the cached dataset, answering 500 on a load failure. A
// source failure is a server-side condition, unlike the bad-input errors
// the handlers report as 400.
func (s *Server) dataset(w http.ResponseWriter) (*indicator.Dataset, bool) {
	ds, err := s.cache.Dataset()
	if err != nil {
		s.logger.Errorw("dataset load failed", "source", s.cache.Source(), "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return ds, true
}

// selectView resolves the from/to query parameters against the dataset.
// User input is clamped to the dataset bounds, mirroring a range widget
// that cannot move outside them; only non-numeric input is rejected.
func selectView(ds *indicator.Dataset, req *http.Request) (indicator.YearRange, indicator.View, error) {
	r := indicator.FullRange(ds)
	if v := req.URL.Query().Get("from"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return indicator.YearRange{}, nil, err
		}
		r.Min = year
	}
	if v := req.URL.Query().Get("to"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return indicator.YearRange{}, nil, err
		}
		r.Max = year
	}
	r = r.Clamp(ds)

	view, err := indicator.Filter(ds, r)
	if err != nil {
		return indicator.YearRange{}, nil, err
	}
	return r, view, nil
}

func (s *Server) handleDashboard(w http.ResponseWriter, req *http.Request) {
	ds, ok := s.dataset(w)
	if !ok {
		return
	}
	r, view, err := selectView(ds, req)
	if err != nil {
		s.logger.Errorw("dashboard request failed", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res := analysis.Analyze(view)
	data := BuildPage(ds, r, view, res)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := RenderPage(w, data); err != nil {
		s.logger.Errorw("render failed", "error", err)
	}
	s.logger.Infow("dashboard served", "from", r.Min, "to", r.Max, "count", res.Count)
}

// summaryResponse is the JSON shape of one analysis snapshot.
type summaryResponse struct {
	Source string              `json:"source"`
	Range  indicator.YearRange `json:"range"`
	Result analysis.Result     `json:"result"`
}

func (s *Server) handleSummary(w http.ResponseWriter, req *http.Request) {
	ds, ok := s.dataset(w)
	if !ok {
		return
	}
	r, view, err := selectView(ds, req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, summaryResponse{
		Source: s.cache.Source(),
		Range:  r,
		Result: analysis.Analyze(view),
	})
}

func (s *Server) handleRecords(w http.ResponseWriter, req *http.Request) {
	ds, ok := s.dataset(w)
	if !ok {
		return
	}
	_, view, err := selectView(ds, req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, view)
}

func (s *Server) handleReload(w http.ResponseWriter, _ *http.Request) {
	ds, err := s.cache.Reload()
	if err != nil {
		s.logger.Errorw("reload failed", "source", s.cache.Source(), "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.logger.Infow("dataset reloaded", "source", s.cache.Source(), "records", ds.Len())
	s.writeJSON(w, map[string]int{"records": ds.Len()})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Errorw("encode response failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.logger.Errorw("request failed", "error", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
