// Package daemon provides the long-running baseline monitor and scenario API.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/theirongolddev/cfohelper/internal/config"
	"github.com/theirongolddev/cfohelper/internal/model"
	"github.com/theirongolddev/cfohelper/internal/pipeline"
	"github.com/theirongolddev/cfohelper/internal/source"

	"github.com/shopspring/decimal"
)

// Event types.
const (
	EventSnapshot       = "snapshot"
	EventBaselineUpdate = "baseline_update"
)

// Config controls the daemon runtime behavior.
type Config struct {
	DataFile     string
	Cache        pipeline.BaselineCache // nil disables caching
	Currency     string
	Limits       config.LimitsConfig
	Interval     time.Duration
	Addr         string
	EventsBuffer int
	CORSOrigins  []string
}

// Snapshot is the compact baseline state carried by status and events.
type Snapshot struct {
	At          time.Time       `json:"at"`
	Source      string          `json:"source"`
	Cash        decimal.Decimal `json:"cash"`
	MonthlyBurn decimal.Decimal `json:"monthly_burn"`
	Revenue     decimal.Decimal `json:"revenue"`
	Expenses    decimal.Decimal `json:"expenses"`
	Runway      model.Runway    `json:"runway"`
}

// Delta captures snapshot changes between polls.
type Delta struct {
	Cash        decimal.Decimal `json:"cash"`
	MonthlyBurn decimal.Decimal `json:"monthly_burn"`
	Revenue     decimal.Decimal `json:"revenue"`
	Expenses    decimal.Decimal `json:"expenses"`
}

func (d Delta) isZero() bool {
	return d.Cash.IsZero() &&
		d.MonthlyBurn.IsZero() &&
		d.Revenue.IsZero() &&
		d.Expenses.IsZero()
}

// Event is emitted whenever the baseline is first loaded or changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	ReloadCount     int64     `json:"reload_count"`
	Simulations     int64     `json:"simulations"`
	DataFile        string    `json:"data_file"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg Config

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	reloadCount int64
	simulations int64
	lastError   string
	identity    source.Identity
	baseline    *model.Finances
	snapshot    Snapshot
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service with the provided config.
func New(cfg Config) *Service {
	if cfg.Interval < time.Second {
		cfg.Interval = 5 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8765"
	}
	if cfg.Currency == "" {
		cfg.Currency = pipeline.DefaultCurrency
	}
	if cfg.Limits == (config.LimitsConfig{}) {
		cfg.Limits = config.DefaultConfig().Limits
	}

	return &Service{
		cfg:       cfg,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Seed initial baseline so status is useful immediately.
	s.pollOnce(false)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce(false)
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

// pollOnce reloads the baseline when the source file changed since the last
// successful load, or unconditionally when force is set.
func (s *Service) pollOnce(force bool) {
	now := time.Now()

	id, statErr := source.Stat(s.cfg.DataFile)

	s.mu.Lock()
	s.lastPollAt = now
	s.pollCount++
	unchanged := statErr == nil && s.baseline != nil && s.identity.Same(id)
	s.mu.Unlock()

	if unchanged && !force {
		return
	}

	res, err := pipeline.LoadBaseline(s.cfg.DataFile, s.cfg.Cache)
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.mu.Unlock()
		log.Printf("cfohelper daemon: poll error: %v", err)
		return
	}

	snap := snapshotFromFinances(res.Finances, now)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.baseline != nil

	s.baseline = res.Finances
	s.identity = res.Identity
	s.snapshot = snap
	s.reloadCount++
	s.lastError = ""

	if !prevExists {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      EventSnapshot,
			Timestamp: now,
			Snapshot:  snap,
		}
		publish = true
	} else if delta := diffSnapshots(prev, snap); !delta.isZero() {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      EventBaselineUpdate,
			Timestamp: now,
			Snapshot:  snap,
			Delta:     delta,
		}
		publish = true
	}
	s.mu.Unlock()

	if publish {
		log.Printf("cfohelper daemon: %s from %s (runway %s)", ev.Type, snap.Source, snap.Runway)
		s.publishEvent(ev)
	}
}

func snapshotFromFinances(f *model.Finances, at time.Time) Snapshot {
	return Snapshot{
		At:          at,
		Source:      f.Source,
		Cash:        f.Cash,
		MonthlyBurn: f.MonthlyBurn,
		Revenue:     f.Revenue,
		Expenses:    f.Expenses,
		Runway:      f.Runway,
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Cash:        curr.Cash.Sub(prev.Cash),
		MonthlyBurn: curr.MonthlyBurn.Sub(prev.MonthlyBurn),
		Revenue:     curr.Revenue.Sub(prev.Revenue),
		Expenses:    curr.Expenses.Sub(prev.Expenses),
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

// current returns the loaded baseline, or nil before the first good load.
func (s *Service) current() *model.Finances {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baseline
}

// simulate runs d against the current baseline and counts it.
func (s *Service) simulate(d model.Delta) (model.Result, bool) {
	base := s.current()
	if base == nil {
		return model.Result{}, false
	}
	r := pipeline.Simulate(base, d)

	s.mu.Lock()
	s.simulations++
	s.mu.Unlock()
	return r, true
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		ReloadCount:     s.reloadCount,
		Simulations:     s.simulations,
		DataFile:        s.cfg.DataFile,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
