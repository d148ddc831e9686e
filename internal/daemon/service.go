// Package daemon runs the background budget monitor: it re-reads the
// data file on an interval, publishes budget snapshots and deltas over
// HTTP and SSE, and takes scheduled JSON backups.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/fintrack/internal/export"
	"github.com/theirongolddev/fintrack/internal/ledger"
	flog "github.com/theirongolddev/fintrack/internal/log"
	"github.com/theirongolddev/fintrack/internal/model"
)

// Config controls the daemon runtime.
type Config struct {
	Store ledger.Store
	// Period overrides the period stored with the data when set.
	Period       model.Period
	Interval     time.Duration
	Addr         string
	EventsBuffer int
	// BackupSchedule is a standard five-field cron expression. Empty
	// disables scheduled backups.
	BackupSchedule string
	BackupDir      string
	Now            func() time.Time
	Logger         *slog.Logger
}

// Snapshot is the headline budget state at a point in time.
type Snapshot struct {
	At               time.Time       `json:"at"`
	Period           model.Period    `json:"period"`
	Income           decimal.Decimal `json:"income"`
	Spent            decimal.Decimal `json:"spent"`
	Remaining        decimal.Decimal `json:"remaining"`
	AvailableSavings decimal.Decimal `json:"available_savings"`
	GoalsSaved       decimal.Decimal `json:"goals_saved"`
	DebtRemaining    decimal.Decimal `json:"debt_remaining"`
	FixedPending     decimal.Decimal `json:"fixed_pending"`
	Balanced         bool            `json:"balanced"`
}

// Delta captures the change between two snapshots.
type Delta struct {
	Income           decimal.Decimal `json:"income"`
	Spent            decimal.Decimal `json:"spent"`
	AvailableSavings decimal.Decimal `json:"available_savings"`
	GoalsSaved       decimal.Decimal `json:"goals_saved"`
	DebtRemaining    decimal.Decimal `json:"debt_remaining"`
	FixedPending     decimal.Decimal `json:"fixed_pending"`
	PeriodChanged    bool            `json:"period_changed,omitempty"`
}

func (d Delta) isZero() bool {
	return d.Income.IsZero() &&
		d.Spent.IsZero() &&
		d.AvailableSavings.IsZero() &&
		d.GoalsSaved.IsZero() &&
		d.DebtRemaining.IsZero() &&
		d.FixedPending.IsZero() &&
		!d.PeriodChanged
}

// Event types.
const (
	EventSnapshot    = "snapshot"
	EventBudgetDelta = "budget_delta"
	EventBackup      = "backup"
)

// Event is emitted whenever the daemon detects a change or completes a
// backup.
type Event struct {
	ID         int64     `json:"id"`
	Type       string    `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	Snapshot   Snapshot  `json:"snapshot"`
	Delta      Delta     `json:"delta"`
	BackupPath string    `json:"backup_path,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int       `json:"poll_count"`
	LastError       string    `json:"last_error,omitempty"`
	LastBackup      string    `json:"last_backup,omitempty"`
	EventCount      int       `json:"event_count"`
	Subscribers     int       `json:"subscribers"`
	Summary         Snapshot  `json:"summary"`
}

// Service provides the daemon behavior.
type Service struct {
	cfg      Config
	schedule cron.Schedule
	log      *slog.Logger
	backLog  *slog.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int
	lastError   string
	lastBackup  string
	hasSnapshot bool
	snapshot    Snapshot
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a daemon service. It fails when the backup schedule does
// not parse.
func New(cfg Config) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("daemon: no store")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 15 * time.Second
	}
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 2 * time.Second
	}
	if cfg.EventsBuffer <= 0 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	s := &Service{
		cfg:       cfg,
		startedAt: cfg.Now(),
		subs:      make(map[int]chan Event),
	}
	if cfg.Logger != nil {
		s.log = cfg.Logger
		s.backLog = cfg.Logger.With(flog.FieldComponent, flog.ComponentBackup)
	} else {
		s.log = flog.For(flog.ComponentDaemon)
		s.backLog = flog.For(flog.ComponentBackup)
	}

	if cfg.BackupSchedule != "" {
		if cfg.BackupDir == "" {
			return nil, errors.New("daemon: backup schedule set without a backup dir")
		}
		sched, err := cron.ParseStandard(cfg.BackupSchedule)
		if err != nil {
			return nil, fmt.Errorf("parsing backup schedule %q: %w", cfg.BackupSchedule, err)
		}
		s.schedule = sched
	}
	return s, nil
}

// Run starts HTTP endpoints, the polling loop and the backup scheduler,
// and blocks until ctx is canceled or one of them fails.
func (s *Service) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("daemon listen %s: %w", s.cfg.Addr, err)
	}
	s.log.Info("listening", "addr", s.cfg.Addr, "interval", s.cfg.Interval)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("daemon http: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		s.pollOnce(gctx)
		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				s.pollOnce(gctx)
			}
		}
	})

	if s.schedule != nil {
		g.Go(func() error {
			c := cron.New()
			c.Schedule(s.schedule, cron.FuncJob(func() { s.backupOnce(gctx) }))
			c.Start()
			s.backLog.Info("backups scheduled", "schedule", s.cfg.BackupSchedule, "dir", s.cfg.BackupDir)
			<-gctx.Done()
			<-c.Stop().Done()
			return nil
		})
	}

	return g.Wait()
}

func (s *Service) pollOnce(ctx context.Context) {
	led, err := ledger.Open(ctx, s.cfg.Store, ledger.WithClock(s.cfg.Now), ledger.WithLogger(flog.Discard()))
	now := s.cfg.Now()

	s.mu.Lock()
	s.lastPollAt = now
	s.pollCount++
	if err != nil {
		s.lastError = err.Error()
		s.mu.Unlock()
		s.log.Warn("poll failed", flog.Err(err))
		return
	}
	s.lastError = ""
	s.mu.Unlock()

	period := s.cfg.Period
	if period == "" {
		period = led.Period()
	}
	snap := snapshotOf(led.BudgetFor(period), now)

	s.mu.Lock()
	prev := s.snapshot
	had := s.hasSnapshot
	s.snapshot = snap
	s.hasSnapshot = true
	s.mu.Unlock()

	if !had {
		s.publishEvent(Event{
			Type:      EventSnapshot,
			Timestamp: now,
			Snapshot:  snap,
		})
		return
	}

	delta := diffSnapshots(prev, snap)
	if delta.isZero() {
		return
	}
	s.log.Debug("budget changed", "spent", snap.Spent.StringFixed(2), "available_savings", snap.AvailableSavings.StringFixed(2))
	s.publishEvent(Event{
		Type:      EventBudgetDelta,
		Timestamp: now,
		Snapshot:  snap,
		Delta:     delta,
	})
}

// backupOnce writes a JSON backup of the current document.
func (s *Service) backupOnce(ctx context.Context) {
	doc, err := s.cfg.Store.Load(ctx)
	if err != nil {
		s.backLog.Error("backup load failed", flog.Err(err))
		return
	}
	now := s.cfg.Now()
	path, err := export.WriteBackup(s.cfg.BackupDir, doc, now)
	if err != nil {
		s.backLog.Error("backup failed", flog.Err(err))
		return
	}
	s.backLog.Info("backup written", "path", path)

	s.mu.Lock()
	s.lastBackup = path
	snap := s.snapshot
	s.mu.Unlock()

	s.publishEvent(Event{
		Type:       EventBackup,
		Timestamp:  now,
		Snapshot:   snap,
		BackupPath: path,
	})
}

func snapshotOf(b model.Budget, at time.Time) Snapshot {
	saved := decimal.Zero
	for _, g := range b.Goals {
		saved = saved.Add(g.Goal.SavedAmount)
	}
	return Snapshot{
		At:               at,
		Period:           b.Period,
		Income:           b.Allocation.TotalIncome,
		Spent:            b.Allocation.Total.Spent,
		Remaining:        b.Allocation.Total.Remaining,
		AvailableSavings: b.AvailableSavings,
		GoalsSaved:       saved,
		DebtRemaining:    b.Debts.Remaining,
		FixedPending:     b.Fixed.Pending,
		Balanced:         b.Allocation.Balanced,
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Income:           curr.Income.Sub(prev.Income),
		Spent:            curr.Spent.Sub(prev.Spent),
		AvailableSavings: curr.AvailableSavings.Sub(prev.AvailableSavings),
		GoalsSaved:       curr.GoalsSaved.Sub(prev.GoalsSaved),
		DebtRemaining:    curr.DebtRemaining.Sub(prev.DebtRemaining),
		FixedPending:     curr.FixedPending.Sub(prev.FixedPending),
		PeriodChanged:    curr.Period != prev.Period,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.nextEventID++
	ev.ID = s.nextEventID

	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	subs := make([]chan Event, 0, len(s.subs))
	for _, ch := range s.subs {
		subs = append(subs, ch)
	}
	s.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		LastError:       s.lastError,
		LastBackup:      s.lastBackup,
		EventCount:      len(s.events),
		Subscribers:     len(s.subs),
		Summary:         s.snapshot,
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if q := r.URL.Query().Get("limit"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}

	s.mu.RLock()
	n := min(len(s.events), limit)
	out := make([]Event, n)
	copy(out, s.events[len(s.events)-n:])
	s.mu.RUnlock()

	writeJSON(w, out)
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

	id, ch := s.addSubscriber()
	defer s.removeSubscriber(id)

	// Send latest event immediately when available.
	s.mu.RLock()
	if len(s.events) > 0 {
		last := s.events[len(s.events)-1]
		s.mu.RUnlock()
		writeSSE(w, last)
		flusher.Flush()
	} else {
		s.mu.RUnlock()
	}

	keepAlive := time.NewTicker(20 * time.Second)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		case <-keepAlive.C:
			_, _ = fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "id: %d\n", ev.ID)
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber() (int, chan Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	ch := make(chan Event, 16)
	s.subs[id] = ch
	return id, ch
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// The channel is left open: publishEvent may still hold it.
	delete(s.subs, id)
}
