// Package poller keeps the canonical collection of the active view fresh.
//
// Only one kind is polled at a time. Each kind allows at most one refresh in flight: a
// refresh requested while another one runs is dropped, not queued.
package poller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lthibault/jitterbug/v2"
	"github.com/supplydesk/desk/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

type Kind string

const (
	KindRequests Kind = "requests"
	KindTasks    Kind = "tasks"
)

// Refresher re-reads one canonical collection.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefresherFunc adapts a function to Refresher.
type RefresherFunc func(ctx context.Context) error

func (f RefresherFunc) Refresh(ctx context.Context) error {
	return f(ctx)
}

type Poller struct {
	refreshers map[Kind]Refresher
	inflight   map[Kind]*semaphore.Weighted
	jitter     time.Duration

	kind    Kind
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
	lock    sync.Mutex
}

func New(refreshers map[Kind]Refresher, jitter time.Duration) *Poller {
	inflight := make(map[Kind]*semaphore.Weighted, len(refreshers))
	for kind := range refreshers {
		inflight[kind] = semaphore.NewWeighted(1)
	}
	return &Poller{
		refreshers: refreshers,
		inflight:   inflight,
		jitter:     jitter,
	}
}

// Start refreshes kind now and then every interval until Stop or ctx is done.
// Starting the running kind again does nothing. Starting another kind stops the current one first.
func (p *Poller) Start(ctx context.Context, kind Kind, interval time.Duration) error {
	if _, found := p.refreshers[kind]; !found {
		return fmt.Errorf("no refresher registered for %q", kind)
	}
	if interval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", interval)
	}

	p.lock.Lock()
	defer p.lock.Unlock()

	if p.active() {
		if p.kind == kind {
			return nil
		}
		p.stop()
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	p.kind = kind
	p.running = true
	p.cancel = cancel
	p.done = done

	zap.S().Named("poller").Debugw("polling started", "kind", kind, "interval", interval)
	go p.loop(ctx, kind, interval, done)
	return nil
}

// Stop cancels the loop and waits until it exited.
func (p *Poller) Stop() {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.stop()
}

func (p *Poller) stop() {
	if !p.running {
		return
	}
	p.cancel()
	<-p.done
	zap.S().Named("poller").Debugw("polling stopped", "kind", p.kind)
	p.clear()
}

// active reports whether the loop is still alive. A loop that exited because the
// parent context ended is cleared here. Must be called with the lock held.
func (p *Poller) active() bool {
	if !p.running {
		return false
	}
	select {
	case <-p.done:
		p.cancel()
		zap.S().Named("poller").Debugw("polling ended with its parent context", "kind", p.kind)
		p.clear()
		return false
	default:
		return true
	}
}

func (p *Poller) clear() {
	p.running = false
	p.cancel = nil
	p.done = nil
}

// Running returns the kind being polled.
func (p *Poller) Running() (Kind, bool) {
	p.lock.Lock()
	defer p.lock.Unlock()
	if !p.active() {
		return "", false
	}
	return p.kind, true
}

// Refresh runs one out-of-band refresh of the running kind. It returns false when
// nothing is polled or a refresh of that kind is already in flight.
func (p *Poller) Refresh(ctx context.Context) bool {
	kind, running := p.Running()
	if !running {
		return false
	}
	return p.refresh(ctx, kind)
}

// RefreshKind runs one refresh of kind, polled or not, unless one is already in flight.
func (p *Poller) RefreshKind(ctx context.Context, kind Kind) bool {
	if _, found := p.refreshers[kind]; !found {
		return false
	}
	return p.refresh(ctx, kind)
}

func (p *Poller) loop(ctx context.Context, kind Kind, interval time.Duration, done chan struct{}) {
	defer close(done)

	ticker := jitterbug.New(interval, &jitterbug.Norm{Stdev: p.jitter, Mean: 0})
	defer ticker.Stop()

	p.refresh(ctx, kind)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.refresh(ctx, kind)
		}
	}
}

func (p *Poller) refresh(ctx context.Context, kind Kind) (ran bool) {
	sem := p.inflight[kind]
	if !sem.TryAcquire(1) {
		metrics.IncreaseRefreshTotalMetric(string(kind), metrics.ResultDropped)
		zap.S().Named("poller").Debugw("refresh already in flight, dropping", "kind", kind)
		return false
	}
	defer sem.Release(1)

	defer func() {
		if r := recover(); r != nil {
			zap.S().Named("poller").Errorw("refresh panicked", "kind", kind, "panic", r)
		}
	}()

	ran = true
	if err := p.refreshers[kind].Refresh(ctx); err != nil && ctx.Err() == nil {
		zap.S().Named("poller").Warnw("refresh failed", "kind", kind, "error", err)
	}
	return ran
}
