package acquire

import (
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jmylchreest/surrogate/internal/record"
)

// Collector accumulates one run's records in arrival order.
type Collector struct {
	RunID   string
	Started time.Time

	mu       sync.Mutex
	rows     []record.SearchRow
	cases    []record.CaseDetail
	failures map[string]int
}

// NewCollector starts a collector for a new run.
func NewCollector() *Collector {
	return &Collector{
		RunID:    uuid.NewString(),
		Started:  time.Now().UTC(),
		failures: make(map[string]int),
	}
}

// AddRows records listing rows.
func (c *Collector) AddRows(rows []record.SearchRow) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = append(c.rows, rows...)
}

// AddCase records one harvested case.
func (c *Collector) AddCase(cd record.CaseDetail) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cases = append(c.cases, cd)
}

// Fail counts a failed search against jurisdiction.
func (c *Collector) Fail(jurisdiction string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures[jurisdiction]++
}

// Rows returns the rows collected so far.
func (c *Collector) Rows() []record.SearchRow {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]record.SearchRow(nil), c.rows...)
}

// Cases returns the cases collected so far.
func (c *Collector) Cases() []record.CaseDetail {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]record.CaseDetail(nil), c.cases...)
}

// Failures returns failed search counts by jurisdiction.
func (c *Collector) Failures() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return maps.Clone(c.failures)
}
