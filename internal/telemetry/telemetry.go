// Package telemetry collects local query statistics for tuning search
// weights. Everything stays on disk next to the corpus; nothing is
// reported externally.
package telemetry

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/atelierhq/folio/internal/search"
)

// Mode classifies which ranking path served a query.
type Mode string

const (
	ModeHybrid     Mode = "hybrid"
	ModeMultimodal Mode = "multimodal"
	ModeText       Mode = "text"
	ModeImage      Mode = "image"
	ModeSuggest    Mode = "suggest"
)

// Bucket is a latency histogram bucket.
type Bucket string

const (
	BucketUnder10  Bucket = "<10ms"
	BucketUnder50  Bucket = "<50ms"
	BucketUnder100 Bucket = "<100ms"
	BucketUnder500 Bucket = "<500ms"
	BucketOver500  Bucket = ">=500ms"
)

// bucketFor converts a duration to its histogram bucket.
func bucketFor(d time.Duration) Bucket {
	ms := d.Milliseconds()
	switch {
	case ms < 10:
		return BucketUnder10
	case ms < 50:
		return BucketUnder50
	case ms < 100:
		return BucketUnder100
	case ms < 500:
		return BucketUnder500
	default:
		return BucketOver500
	}
}

// Event is one served query.
type Event struct {
	Query       string
	Mode        Mode
	ResultCount int
	Latency     time.Duration
}

// TermCount pairs a query term with its frequency.
type TermCount struct {
	Term  string `json:"term"`
	Count int64  `json:"count"`
}

// Snapshot is an immutable view of the collected metrics.
type Snapshot struct {
	ModeCounts        map[Mode]int64   `json:"modeCounts"`
	TopTerms          []TermCount      `json:"topTerms"`
	ZeroResultQueries []string         `json:"zeroResultQueries"`
	Latency           map[Bucket]int64 `json:"latency"`
	TotalQueries      int64            `json:"totalQueries"`
	ZeroResultCount   int64            `json:"zeroResultCount"`
	Since             time.Time        `json:"since"`
}

// Collector aggregates events in memory and periodically flushes them to
// a Store. Safe for concurrent use; Record never blocks on the database.
type Collector struct {
	mu sync.RWMutex

	modes       map[Mode]int64
	terms       *lru.Cache[string, int64]
	zeroResults []string
	zeroFlushed int
	latency     map[Bucket]int64
	total       int64
	zeroCount   int64
	start       time.Time

	store  *Store
	ticker *time.Ticker
	stop   chan struct{}
	closed bool
}

const (
	topTermsCapacity    = 100
	zeroResultsCapacity = 100
)

// NewCollector creates a collector. A nil store keeps metrics in memory
// only. flushInterval <= 0 disables the background flush.
func NewCollector(store *Store, flushInterval time.Duration) *Collector {
	terms, _ := lru.New[string, int64](topTermsCapacity)
	c := &Collector{
		modes:   make(map[Mode]int64),
		terms:   terms,
		latency: make(map[Bucket]int64),
		start:   time.Now(),
		store:   store,
		stop:    make(chan struct{}),
	}

	if flushInterval > 0 && store != nil {
		c.ticker = time.NewTicker(flushInterval)
		go c.flushLoop()
	}
	return c
}

func (c *Collector) flushLoop() {
	for {
		select {
		case <-c.ticker.C:
			_ = c.Flush()
		case <-c.stop:
			return
		}
	}
}

// Record captures one served query.
func (c *Collector) Record(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.modes[ev.Mode]++
	c.total++

	for _, term := range search.Tokenize(ev.Query) {
		count, _ := c.terms.Get(term)
		c.terms.Add(term, count+1)
	}

	if ev.ResultCount == 0 {
		c.zeroCount++
		c.zeroResults = append(c.zeroResults, ev.Query)
		if len(c.zeroResults) > zeroResultsCapacity {
			drop := len(c.zeroResults) - zeroResultsCapacity
			c.zeroResults = c.zeroResults[drop:]
			if c.zeroFlushed -= drop; c.zeroFlushed < 0 {
				c.zeroFlushed = 0
			}
		}
	}

	c.latency[bucketFor(ev.Latency)]++
}

// Snapshot returns the current metrics.
func (c *Collector) Snapshot() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	modes := make(map[Mode]int64, len(c.modes))
	for k, v := range c.modes {
		modes[k] = v
	}

	var terms []TermCount
	for _, key := range c.terms.Keys() {
		if count, ok := c.terms.Peek(key); ok {
			terms = append(terms, TermCount{Term: key, Count: count})
		}
	}
	for i := 0; i < len(terms); i++ {
		for j := i + 1; j < len(terms); j++ {
			if terms[j].Count > terms[i].Count {
				terms[i], terms[j] = terms[j], terms[i]
			}
		}
	}

	zero := make([]string, len(c.zeroResults))
	copy(zero, c.zeroResults)

	latency := make(map[Bucket]int64, len(c.latency))
	for k, v := range c.latency {
		latency[k] = v
	}

	return &Snapshot{
		ModeCounts:        modes,
		TopTerms:          terms,
		ZeroResultQueries: zero,
		Latency:           latency,
		TotalQueries:      c.total,
		ZeroResultCount:   c.zeroCount,
		Since:             c.start,
	}
}

// Flush persists the aggregates. Counts are written as replacements for
// today's row, so flushing repeatedly is idempotent; only zero-result
// queries not yet persisted are appended.
func (c *Collector) Flush() error {
	if c.store == nil {
		return nil
	}

	snap := c.Snapshot()
	today := time.Now().Format("2006-01-02")

	if err := c.store.SaveModeCounts(today, snap.ModeCounts); err != nil {
		return err
	}

	termCounts := make(map[string]int64, len(snap.TopTerms))
	for _, tc := range snap.TopTerms {
		termCounts[tc.Term] = tc.Count
	}
	if err := c.store.UpsertTermCounts(termCounts); err != nil {
		return err
	}

	if err := c.store.SaveLatencyCounts(today, snap.Latency); err != nil {
		return err
	}

	c.mu.Lock()
	pending := c.zeroResults[c.zeroFlushed:]
	c.mu.Unlock()

	for _, q := range pending {
		if err := c.store.AddZeroResultQuery(q, time.Now()); err != nil {
			return err
		}
	}

	c.mu.Lock()
	c.zeroFlushed = len(c.zeroResults)
	c.mu.Unlock()

	return nil
}

// Close stops the flush loop and performs a final flush.
func (c *Collector) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	if c.ticker != nil {
		c.ticker.Stop()
		close(c.stop)
	}
	return c.Flush()
}
