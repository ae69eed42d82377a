package join

import "relcore/pkg/tuple"

// matchBuffer queues the output rows produced for one left row so Next can
// hand them out one at a time. pos < 0 means nothing is queued.
type matchBuffer struct {
	rows []*tuple.Tuple
	pos  int
}

func newMatchBuffer() *matchBuffer {
	return &matchBuffer{pos: -1}
}

func (b *matchBuffer) HasNext() bool {
	return b.pos >= 0 && b.pos < len(b.rows)
}

// Next pops the next queued row, or nil when the queue is drained.
func (b *matchBuffer) Next() *tuple.Tuple {
	if !b.HasNext() {
		return nil
	}
	row := b.rows[b.pos]
	b.pos++
	return row
}

// Reset drops the queue and its storage.
func (b *matchBuffer) Reset() {
	b.rows = nil
	b.pos = -1
}

// StartNew begins a new queue for the next left row, reusing storage.
func (b *matchBuffer) StartNew() {
	b.rows = b.rows[:0]
	b.pos = 0
}

func (b *matchBuffer) Add(row *tuple.Tuple) {
	b.rows = append(b.rows, row)
}

func (b *matchBuffer) Len() int {
	return len(b.rows)
}
