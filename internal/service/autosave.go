package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// AutoSaver periodically flushes in-progress sessions that have answers
type AutoSaver struct {
	sessions *AssessmentService
	log      *zap.Logger
	idle     time.Duration

	mu       sync.Mutex
	interval time.Duration
	reset    chan struct{}
}

// NewAutoSaver creates an autosaver; sessions untouched for idle are
// dropped from memory after their last flush
func NewAutoSaver(sessions *AssessmentService, interval, idle time.Duration, log *zap.Logger) *AutoSaver {
	if log == nil {
		log = zap.NewNop()
	}
	return &AutoSaver{
		sessions: sessions,
		log:      log,
		idle:     idle,
		interval: interval,
		reset:    make(chan struct{}, 1),
	}
}

// SetInterval changes the period; the running loop picks it up at once
func (a *AutoSaver) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	a.mu.Lock()
	a.interval = d
	a.mu.Unlock()
	select {
	case a.reset <- struct{}{}:
	default:
	}
}

func (a *AutoSaver) Interval() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.interval
}

// Run flushes on every tick until ctx is done, then flushes once more
func (a *AutoSaver) Run(ctx context.Context) {
	ticker := time.NewTicker(a.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.Flush(context.WithoutCancel(ctx))
			return
		case <-a.reset:
			ticker.Reset(a.Interval())
		case <-ticker.C:
			a.Flush(ctx)
		}
	}
}

// Flush saves once and reports how many sessions were written
func (a *AutoSaver) Flush(ctx context.Context) int {
	saved, err := a.sessions.FlushInProgress(ctx, a.idle)
	if err != nil {
		a.log.Error("Autosave failed", zap.Error(err))
	}
	if saved > 0 {
		a.log.Debug("Autosaved sessions", zap.Int("count", saved))
	}
	return saved
}
