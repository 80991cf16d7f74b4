// Package suppliers resolves line items to supplier candidates.
//
// The cache is keyed by the position number of a line item and is filled lazily by expand
// actions only. Polling never touches it.
package suppliers

import (
	"context"
	"strconv"
	"sync"

	v1 "github.com/supplydesk/desk/api/v1"
	"github.com/supplydesk/desk/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type State int

const (
	// Unfetched means no search was made for the key.
	Unfetched State = iota
	// Fetched holds a non empty ranked result.
	Fetched
	// Empty is a search that found nothing or failed. It is never retried on expand.
	Empty
)

func (s State) String() string {
	switch s {
	case Fetched:
		return "fetched"
	case Empty:
		return "empty"
	default:
		return "unfetched"
	}
}

type Entry struct {
	State     State
	Suppliers []v1.Supplier
}

// Searcher runs a supplier search by keyword.
type Searcher interface {
	SearchSuppliers(ctx context.Context, query string) ([]v1.Supplier, error)
}

// Expander owns the set of expanded keys. Toggle flips key and returns its new membership.
type Expander interface {
	Toggle(key int) bool
}

type Cache struct {
	searcher Searcher
	entries  map[int]Entry
	// epoch moves on every Reset so a search started before it is not stored after it.
	epoch uint64
	group singleflight.Group
	log   *zap.SugaredLogger
	mu    sync.Mutex
}

func NewCache(searcher Searcher) *Cache {
	return &Cache{
		searcher: searcher,
		entries:  make(map[int]Entry),
		log:      zap.S().Named("suppliers"),
	}
}

// ToggleExpand flips key in set. Expanding a key without entry searches name once and
// stores the result. A failed search is stored as empty and its error returned.
func (c *Cache) ToggleExpand(ctx context.Context, set Expander, key int, name string) (bool, error) {
	if !set.Toggle(key) {
		return false, nil
	}
	if entry := c.Entry(key); entry.State != Unfetched {
		return true, nil
	}
	_, err := c.lookup(ctx, key, name)
	return true, err
}

// Entry returns the cached entry of key, Unfetched when there is none.
func (c *Cache) Entry(key int) Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, found := c.entries[key]
	if !found {
		return Entry{State: Unfetched}
	}
	return entry
}

// Invalidate forgets key so the next expand searches again.
func (c *Cache) Invalidate(key int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Reset forgets every entry.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[int]Entry)
	c.epoch++
}

func (c *Cache) lookup(ctx context.Context, key int, name string) (Entry, error) {
	c.mu.Lock()
	epoch := c.epoch
	c.mu.Unlock()

	v, err, _ := c.group.Do(strconv.FormatUint(epoch, 10)+"/"+strconv.Itoa(key), func() (any, error) {
		if entry := c.Entry(key); entry.State != Unfetched {
			return entry, nil
		}

		found, err := c.searcher.SearchSuppliers(ctx, name)
		entry := Entry{State: Fetched, Suppliers: found}
		switch {
		case err != nil:
			c.log.Warnw("supplier search failed", "pos", key, "query", name, "error", err)
			metrics.IncreaseSupplierSearchTotalMetric(metrics.ResultError)
			entry = Entry{State: Empty}
		case len(found) == 0:
			metrics.IncreaseSupplierSearchTotalMetric(metrics.ResultEmpty)
			entry = Entry{State: Empty}
		default:
			metrics.IncreaseSupplierSearchTotalMetric(metrics.ResultSuccess)
		}

		c.mu.Lock()
		if c.epoch == epoch {
			c.entries[key] = entry
		}
		c.mu.Unlock()
		return entry, err
	})
	if v == nil {
		return Entry{State: Empty}, err
	}
	return v.(Entry), err
}
