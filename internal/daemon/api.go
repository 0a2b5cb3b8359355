package daemon

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/theirongolddev/cfohelper/internal/model"
	"github.com/theirongolddev/cfohelper/internal/pipeline"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/shopspring/decimal"
)

// ErrorDetail is the body of every API error.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps ErrorDetail.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// SimulateRequest is the body of POST /v1/simulate.
type SimulateRequest struct {
	AddHires       int64           `json:"add_hires"`
	DeltaMarketing decimal.Decimal `json:"delta_marketing"`
	PriceChangePct decimal.Decimal `json:"price_change_pct"`
}

// Delta converts the request to scenario engine input.
func (r SimulateRequest) Delta() model.Delta {
	return model.Delta{
		AddHires:       r.AddHires,
		DeltaMarketing: r.DeltaMarketing,
		PriceChangePct: r.PriceChangePct,
	}
}

// SimulateResponse is returned by POST /v1/simulate.
type SimulateResponse struct {
	ID      string            `json:"id"`
	Input   model.Delta       `json:"input"`
	Result  model.Result      `json:"result"`
	Summary string            `json:"summary"`
	Report  []model.ReportRow `json:"report"`
}

// Field is one baseline key as served by GET /v1/baseline.
type Field struct {
	Key   string      `json:"key"`
	Value model.Value `json:"value"`
}

// BaselineResponse is returned by GET /v1/baseline.
type BaselineResponse struct {
	Source           string          `json:"source"`
	Cash             decimal.Decimal `json:"cash"`
	MonthlyBurn      decimal.Decimal `json:"monthly_burn"`
	Runway           model.Runway    `json:"runway"`
	Revenue          decimal.Decimal `json:"revenue"`
	Expenses         decimal.Decimal `json:"expenses"`
	MonthlyMarketing decimal.Decimal `json:"monthly_marketing"`
	CurrentHires     int64           `json:"current_hires"`
	AvgCostPerHire   decimal.Decimal `json:"avg_cost_per_hire"`
	BaselinePrice    decimal.Decimal `json:"baseline_price"`
	UnitsSold        int64           `json:"units_sold"`
	Fields           []Field         `json:"fields"`
}

// Handler returns the HTTP API: a gin router behind CORS handling.
func (s *Service) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.GET("/healthz", s.handleHealth)

	v1 := router.Group("/v1")
	{
		v1.GET("/status", s.handleStatus)
		v1.GET("/baseline", s.handleBaseline)
		v1.POST("/simulate", s.handleSimulate)
		v1.GET("/report.csv", s.handleReport)
		v1.POST("/reload", s.handleReload)
		v1.GET("/events", s.handleEvents)
		v1.GET("/stream", s.handleStream)
	}

	origins := s.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(router)
}

func abortError(c *gin.Context, status int, code string, err error) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorDetail{Code: code, Message: err.Error()},
	})
}

var errNoBaseline = errors.New("baseline not loaded yet")

func (s *Service) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "ok\n")
}

func (s *Service) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleBaseline(c *gin.Context) {
	f := s.current()
	if f == nil {
		abortError(c, http.StatusServiceUnavailable, "NO_BASELINE", errNoBaseline)
		return
	}

	resp := BaselineResponse{
		Source:           f.Source,
		Cash:             f.Cash,
		MonthlyBurn:      f.MonthlyBurn,
		Runway:           f.Runway,
		Revenue:          f.Revenue,
		Expenses:         f.Expenses,
		MonthlyMarketing: f.MonthlyMarketing,
		CurrentHires:     f.CurrentHires,
		AvgCostPerHire:   f.AvgCostPerHire,
		BaselinePrice:    f.BaselinePrice,
		UnitsSold:        f.UnitsSold,
		Fields:           make([]Field, 0, len(f.Keys)),
	}
	for _, k := range f.Keys {
		resp.Fields = append(resp.Fields, Field{Key: k, Value: f.Fields[k]})
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Service) handleSimulate(c *gin.Context) {
	var req SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}
	s.runScenario(c, req.Delta(), func(d model.Delta, r model.Result) {
		c.JSON(http.StatusOK, SimulateResponse{
			ID:      uuid.NewString(),
			Input:   d,
			Result:  r,
			Summary: pipeline.FormatSummary(r, s.cfg.Currency),
			Report:  r.Report(),
		})
	})
}

func (s *Service) handleReport(c *gin.Context) {
	d, err := deltaFromQuery(c)
	if err != nil {
		abortError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}
	s.runScenario(c, d, func(_ model.Delta, r model.Result) {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", pipeline.ReportFileName))
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Status(http.StatusOK)
		if err := pipeline.WriteReportCSV(c.Writer, r); err != nil {
			_ = c.Error(err)
		}
	})
}

// runScenario checks d against the configured limits, simulates it against
// the current baseline and hands the result to write.
func (s *Service) runScenario(c *gin.Context, d model.Delta, write func(model.Delta, model.Result)) {
	if err := s.cfg.Limits.Check(d); err != nil {
		abortError(c, http.StatusUnprocessableEntity, "OUT_OF_RANGE", err)
		return
	}
	r, ok := s.simulate(d)
	if !ok {
		abortError(c, http.StatusServiceUnavailable, "NO_BASELINE", errNoBaseline)
		return
	}
	write(d, r)
}

func deltaFromQuery(c *gin.Context) (model.Delta, error) {
	var d model.Delta
	if v := c.Query("add_hires"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return d, fmt.Errorf("add_hires: %w", err)
		}
		d.AddHires = n
	}
	var err error
	if d.DeltaMarketing, err = queryDecimal(c, "delta_marketing"); err != nil {
		return d, err
	}
	if d.PriceChangePct, err = queryDecimal(c, "price_change_pct"); err != nil {
		return d, err
	}
	return d, nil
}

func queryDecimal(c *gin.Context, key string) (decimal.Decimal, error) {
	v := c.Query(key)
	if v == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func (s *Service) handleReload(c *gin.Context) {
	s.pollOnce(true)
	st := s.snapshotStatus()
	if st.LastError != "" {
		abortError(c, http.StatusBadGateway, "RELOAD_FAILED", errors.New(st.LastError))
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Service) handleEvents(c *gin.Context) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	c.JSON(http.StatusOK, events)
}

func (s *Service) handleStream(c *gin.Context) {
	w := c.Writer
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	current := Event{
		Type:      EventSnapshot,
		Timestamp: time.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	}
	writeSSE(w, current)
	w.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			w.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}
