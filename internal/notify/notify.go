// Package notify shows transient error and success messages.
//
// Each kind has one slot. A message clears itself after the TTL; a newer message in the
// same slot stops the pending clear of the previous one first.
package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/supplydesk/desk/pkg/metrics"
	"k8s.io/utils/clock"
)

const DefaultTTL = 5 * time.Second

type Kind string

const (
	KindError   Kind = "error"
	KindSuccess Kind = "success"
)

// Snapshot is what is shown right now. Empty strings mean nothing is shown.
type Snapshot struct {
	Error   string
	Success string
}

// Sink receives every change of the shown messages.
type Sink func(Snapshot)

type slot struct {
	text  string
	seq   uint64
	timer clock.Timer
}

type Center struct {
	clock  clock.WithDelayedExecution
	ttl    time.Duration
	sink   Sink
	slots  map[Kind]*slot
	closed bool
	// version counts changes; published is the newest version handed to the sink.
	version   uint64
	published uint64
	mu        sync.Mutex
	publishMu sync.Mutex
}

func NewCenter(clk clock.WithDelayedExecution, ttl time.Duration, sink Sink) *Center {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{
		clock: clk,
		ttl:   ttl,
		sink:  sink,
		slots: map[Kind]*slot{
			KindError:   {},
			KindSuccess: {},
		},
	}
}

func (c *Center) Error(msg string) {
	c.set(KindError, msg)
}

func (c *Center) Errorf(format string, args ...any) {
	c.set(KindError, fmt.Sprintf(format, args...))
}

func (c *Center) Success(msg string) {
	c.set(KindSuccess, msg)
}

func (c *Center) Successf(format string, args ...any) {
	c.set(KindSuccess, fmt.Sprintf(format, args...))
}

func (c *Center) Current() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Dismiss clears kind right away.
func (c *Center) Dismiss(kind Kind) {
	c.mu.Lock()
	s, found := c.slots[kind]
	if !found || s.text == "" {
		c.mu.Unlock()
		return
	}
	c.stopTimer(s)
	s.seq++
	s.text = ""
	snap, version := c.change()
	c.mu.Unlock()

	c.publish(snap, version)
}

// Close stops every pending clear. Messages set afterwards are ignored.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.slots {
		c.stopTimer(s)
	}
	c.closed = true
}

func (c *Center) set(kind Kind, msg string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	s := c.slots[kind]
	c.stopTimer(s)
	s.seq++
	s.text = msg
	seq := s.seq
	s.timer = c.clock.AfterFunc(c.ttl, func() { c.expire(kind, seq) })
	snap, version := c.change()
	c.mu.Unlock()

	metrics.IncreaseNotificationsTotalMetric(string(kind))
	c.publish(snap, version)
}

func (c *Center) expire(kind Kind, seq uint64) {
	c.mu.Lock()
	s := c.slots[kind]
	if s.seq != seq {
		c.mu.Unlock()
		return
	}
	s.text = ""
	s.timer = nil
	snap, version := c.change()
	c.mu.Unlock()

	c.publish(snap, version)
}

func (c *Center) stopTimer(s *slot) {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (c *Center) snapshot() Snapshot {
	return Snapshot{
		Error:   c.slots[KindError].text,
		Success: c.slots[KindSuccess].text,
	}
}

// change records a new state. Must be called with mu held.
func (c *Center) change() (Snapshot, uint64) {
	c.version++
	return c.snapshot(), c.version
}

// publish hands snap to the sink unless a newer state already reached it.
// The sink runs without mu held, one call at a time.
func (c *Center) publish(snap Snapshot, version uint64) {
	if c.sink == nil {
		return
	}
	c.publishMu.Lock()
	defer c.publishMu.Unlock()
	if version <= c.published {
		return
	}
	c.published = version
	c.sink(snap)
}
