// Package daemon provides the long-running budget monitor service.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"smsledger/internal/model"
	"smsledger/internal/pipeline"
	"smsledger/internal/source"
	"smsledger/internal/store"
)

// Config controls the daemon runtime behavior.
type Config struct {
	ArchivePath  string
	Month        time.Time // zero = current month at each poll
	Interval     time.Duration
	Addr         string
	EventsBuffer int
}

// Snapshot is a compact budget state for status/event payloads.
type Snapshot struct {
	At                time.Time `json:"at"`
	Month             string    `json:"month"`
	Transactions      int       `json:"transactions"`
	EstimatedBudget   float64   `json:"estimated_budget"`
	FirstWeekIncome   float64   `json:"first_week_income"`
	CumulativeExpense float64   `json:"cumulative_expense"`
	RemainingBudget   float64   `json:"remaining_budget"`
	AlertCount        int       `json:"alert_count"`
	ExceededCount     int       `json:"exceeded_count"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	Transactions      int     `json:"transactions"`
	CumulativeExpense float64 `json:"cumulative_expense"`
	RemainingBudget   float64 `json:"remaining_budget"`
	ExceededCount     int     `json:"exceeded_count"`
}

func (d Delta) isZero() bool {
	return d.Transactions == 0 &&
		d.CumulativeExpense == 0 &&
		d.RemainingBudget == 0 &&
		d.ExceededCount == 0
}

// Event is emitted whenever the budget snapshot changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
	Alerts    []string  `json:"alerts,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	ArchivePath     string    `json:"archive_path"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service recomputes the forecast on a poll interval and serves it over HTTP.
type Service struct {
	cfg Config
	p   *pipeline.Pipeline

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	report      model.Report
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service with the provided config and pipeline.
func New(cfg Config, p *pipeline.Pipeline) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 30 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}

	return &Service{
		cfg:       cfg,
		p:         p,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/report", s.handleReport)
	mux.HandleFunc("/v1/stream", s.handleStream)

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce()
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

func (s *Service) targetMonth() time.Time {
	if !s.cfg.Month.IsZero() {
		return s.cfg.Month
	}
	return pipeline.MonthOf(time.Now())
}

func (s *Service) pollOnce() {
	msgs, err := s.loadMessages()
	if err == nil && len(msgs) == 0 {
		err = pipeline.ErrNoMessages
	}

	var result *pipeline.Result
	if err == nil {
		result, err = s.p.Run(msgs, s.targetMonth(), nil)
	}

	now := time.Now()
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		log.Printf("smsledger daemon poll error: %v", err)
		return
	}

	snap := snapshotFromResult(result, now)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.report = pipeline.BuildReport(result)
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      "snapshot",
			Timestamp: now,
			Snapshot:  snap,
			Alerts:    exceededMessages(result.Alerts),
		}
		publish = true
	} else {
		delta := diffSnapshots(prev, snap)
		if !delta.isZero() {
			s.nextEventID++
			ev = Event{
				ID:        s.nextEventID,
				Type:      "budget_delta",
				Timestamp: now,
				Snapshot:  snap,
				Delta:     delta,
				Alerts:    exceededMessages(result.Alerts),
			}
			publish = true
		}
	}
	s.mu.Unlock()

	if publish {
		s.publishEvent(ev)
	}
}

func (s *Service) loadMessages() ([]source.RawMessage, error) {
	archive, err := store.Open(s.cfg.ArchivePath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = archive.Close() }()
	return archive.LoadMessages()
}

func snapshotFromResult(r *pipeline.Result, at time.Time) Snapshot {
	snap := Snapshot{
		At:              at,
		Month:           r.TargetMonth.Format("2006-01"),
		Transactions:    len(r.Transactions),
		EstimatedBudget: r.Forecast.EstimatedBudget,
		FirstWeekIncome: r.Forecast.FirstWeekIncome,
		RemainingBudget: r.Forecast.EstimatedBudget,
		AlertCount:      len(r.Alerts),
	}
	if n := len(r.Weeks); n > 0 {
		last := r.Weeks[n-1]
		snap.CumulativeExpense = last.CumulativeExpense
		snap.RemainingBudget = last.RemainingBudget
	}
	for _, a := range r.Alerts {
		if a.Exceeded {
			snap.ExceededCount++
		}
	}
	return snap
}

func exceededMessages(alerts []model.Alert) []string {
	var out []string
	for _, a := range alerts {
		if a.Exceeded {
			out = append(out, a.Message)
		}
	}
	return out
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Transactions:      curr.Transactions - prev.Transactions,
		CumulativeExpense: curr.CumulativeExpense - prev.CumulativeExpense,
		RemainingBudget:   curr.RemainingBudget - prev.RemainingBudget,
		ExceededCount:     curr.ExceededCount - prev.ExceededCount,
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

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		ArchivePath:     s.cfg.ArchivePath,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.snapshotStatus())
}

func (s *Service) handleReport(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	rep := s.report
	has := s.hasSnapshot
	s.mu.RUnlock()

	if !has {
		http.Error(w, "no report yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rep)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	current := Event{
		Type:      "snapshot",
		Timestamp: time.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
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
