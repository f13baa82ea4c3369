package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/playok/telemon/internal/model"
	"github.com/playok/telemon/internal/store"
)

// BroadcastFunc is called with collected samples for real-time streaming.
type BroadcastFunc func(samples []model.MetricSample)

// AlertBroadcastFunc is called with alerts generated from metric analysis.
type AlertBroadcastFunc func(alerts []model.Alert)

// Scheduler runs enabled collectors at a fixed interval. The store and
// exporter are optional.
type Scheduler struct {
	registry       *Registry
	store          *store.Store
	exporter       *Exporter
	interval       time.Duration
	broadcast      BroadcastFunc
	alertBroadcast AlertBroadcastFunc
	alertEngine    *AlertEngine
	now            func() time.Time
	mu             sync.Mutex
	cancel         context.CancelFunc
	done           chan struct{}
	intervalCh     chan time.Duration // signals the loop to reset the ticker
	latest         map[string]model.MetricSample
	logger         zerolog.Logger
}

// NewScheduler creates a new scheduler.
func NewScheduler(registry *Registry, s *store.Store, exporter *Exporter, intervalSec int) *Scheduler {
	return &Scheduler{
		registry:    registry,
		store:       s,
		exporter:    exporter,
		interval:    clampInterval(intervalSec),
		alertEngine: NewAlertEngine(),
		now:         time.Now,
		intervalCh:  make(chan time.Duration, 1),
		latest:      make(map[string]model.MetricSample),
		logger:      log.With().Str("component", "scheduler").Logger(),
	}
}

func clampInterval(sec int) time.Duration {
	if sec < 1 {
		sec = 1
	}
	return time.Duration(sec) * time.Second
}

// SetBroadcast sets the function called with each batch of samples.
func (s *Scheduler) SetBroadcast(fn BroadcastFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcast = fn
}

// SetAlertBroadcast sets the function called with alerts after each collection.
func (s *Scheduler) SetAlertBroadcast(fn AlertBroadcastFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alertBroadcast = fn
}

// AlertEngine returns the scheduler's alert engine for API access.
func (s *Scheduler) AlertEngine() *AlertEngine {
	return s.alertEngine
}

// Interval returns the current collection interval.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// Start begins the collection loop.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.mu.Lock()
	s.cancel = cancel
	s.done = done
	interval := s.interval
	s.mu.Unlock()

	go func() {
		defer close(done)
		s.loop(ctx, interval)
	}()
}

// Stop halts the scheduler and waits for an in-flight tick to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()
	if cancel != nil {
		cancel()
		<-done
	}
}

// UpdateInterval changes the collection interval at runtime.
func (s *Scheduler) UpdateInterval(sec int) {
	d := clampInterval(sec)
	s.mu.Lock()
	s.interval = d
	s.mu.Unlock()

	// Non-blocking send to notify the loop
	select {
	case s.intervalCh <- d:
	default:
	}
	s.logger.Info().Dur("interval", d).Msg("interval updated")
}

// loop primes every rate baseline, then collects on each tick. The first
// collected values therefore cover one full interval.
func (s *Scheduler) loop(ctx context.Context, interval time.Duration) {
	s.registry.Prime(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case newInterval := <-s.intervalCh:
			ticker.Reset(newInterval)
		case <-ticker.C:
			s.CollectOnce(ctx)
		}
	}
}

// CollectOnce runs every enabled collector once, then stores, exports,
// broadcasts and evaluates the combined samples. Collector failures are
// logged together and never stop the tick.
func (s *Scheduler) CollectOnce(ctx context.Context) []model.MetricSample {
	if s.exporter != nil {
		s.exporter.Tick()
	}

	var allSamples []model.MetricSample
	var errs *multierror.Error
	for _, c := range s.registry.EnabledCollectors() {
		samples, err := c.Collect(ctx)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", c.ID(), err))
			if s.exporter != nil {
				s.exporter.CollectFailed(c.ID())
			}
		}
		allSamples = append(allSamples, samples...)
	}
	if err := errs.ErrorOrNil(); err != nil {
		s.logger.Warn().Err(err).Msg("collector errors")
	}

	// A metric absent from this tick shows as no data, not its last value.
	latest := LatestByMetric(allSamples)
	s.mu.Lock()
	s.latest = latest
	fn := s.broadcast
	alertFn := s.alertBroadcast
	s.mu.Unlock()

	if s.exporter != nil {
		s.exporter.Observe(allSamples)
	}
	if len(allSamples) == 0 {
		return nil
	}

	if s.store != nil {
		if err := s.store.InsertSamples(allSamples); err != nil {
			s.logger.Error().Err(err).Msg("store error")
		}
	}

	// Broadcast to WebSocket clients
	if fn != nil {
		fn(allSamples)
	}

	// Evaluate alert rules
	alerts := s.alertEngine.Evaluate(allSamples)
	if len(alerts) > 0 && alertFn != nil {
		alertFn(alerts)
	}
	return allSamples
}

// Snapshot formats the samples of the most recent tick.
func (s *Scheduler) Snapshot() model.Snapshot {
	s.mu.Lock()
	latest := make(map[string]model.MetricSample, len(s.latest))
	for k, v := range s.latest {
		latest[k] = v
	}
	s.mu.Unlock()
	return BuildSnapshot(s.now().Unix(), latest)
}
