package harvest

import (
	"sync"

	"github.com/jmylchreest/surrogate/internal/record"
)

// RowQueue hands out listing rows in order, each at most once.
type RowQueue struct {
	mu      sync.Mutex
	queue   []record.SearchRow
	visited map[string]bool
}

// NewRowQueue creates a new row queue.
func NewRowQueue() *RowQueue {
	return &RowQueue{
		queue:   make([]record.SearchRow, 0),
		visited: make(map[string]bool),
	}
}

// Add queues row unless it cannot be followed or its token was seen before.
func (q *RowQueue) Add(row record.SearchRow) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !row.Followable() || q.visited[row.RowToken] {
		return false
	}

	q.visited[row.RowToken] = true
	q.queue = append(q.queue, row)
	return true
}

// Pop removes and returns the next row.
func (q *RowQueue) Pop() (record.SearchRow, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.queue) == 0 {
		return record.SearchRow{}, false
	}

	row := q.queue[0]
	q.queue = q.queue[1:]
	return row, true
}

// Len returns the number of rows still queued.
func (q *RowQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queue)
}

// IsVisited reports whether a row with token has been queued.
func (q *RowQueue) IsVisited(token string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.visited[token]
}
