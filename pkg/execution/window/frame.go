package window

import (
	"fmt"

	dberror "relcore/pkg/error"
)

// FrameMode selects how frame offsets are measured.
type FrameMode int

const (
	// Rows counts physical rows from the current row.
	Rows FrameMode = iota
	// Range treats all ORDER BY peers of the current row as one position.
	Range
)

func (m FrameMode) String() string {
	if m == Range {
		return "RANGE"
	}
	return "ROWS"
}

// BoundKind is the kind of one end of a frame.
type BoundKind int

const (
	UnboundedPreceding BoundKind = iota
	Preceding
	CurrentRow
	Following
	UnboundedFollowing
)

// Bound is one end of a frame. Offset is used by Preceding and Following.
type Bound struct {
	Kind   BoundKind
	Offset int
}

func (b Bound) String() string {
	switch b.Kind {
	case UnboundedPreceding:
		return "UNBOUNDED PRECEDING"
	case Preceding:
		return fmt.Sprintf("%d PRECEDING", b.Offset)
	case CurrentRow:
		return "CURRENT ROW"
	case Following:
		return fmt.Sprintf("%d FOLLOWING", b.Offset)
	case UnboundedFollowing:
		return "UNBOUNDED FOLLOWING"
	default:
		return fmt.Sprintf("Bound(%d)", int(b.Kind))
	}
}

// Frame is the sub-range of the ordered partition a function reads for
// each row.
type Frame struct {
	Mode       FrameMode
	Start, End Bound
}

// RowsBetween builds a ROWS frame.
func RowsBetween(start, end Bound) *Frame {
	return &Frame{Mode: Rows, Start: start, End: end}
}

// RangeBetween builds a RANGE frame.
func RangeBetween(start, end Bound) *Frame {
	return &Frame{Mode: Range, Start: start, End: end}
}

func (f *Frame) String() string {
	return fmt.Sprintf("%s BETWEEN %s AND %s", f.Mode, f.Start, f.End)
}

func (f *Frame) validate() error {
	if f.Start.Kind == UnboundedFollowing {
		return dberror.NewInvalidPlan("frame start cannot be UNBOUNDED FOLLOWING")
	}
	if f.End.Kind == UnboundedPreceding {
		return dberror.NewInvalidPlan("frame end cannot be UNBOUNDED PRECEDING")
	}
	for _, b := range []Bound{f.Start, f.End} {
		if b.Kind < UnboundedPreceding || b.Kind > UnboundedFollowing {
			return dberror.NewInvalidPlan("unknown frame bound %s", b)
		}
		if b.Offset < 0 {
			return dberror.NewInvalidPlan("frame offset must be non-negative, got %d", b.Offset)
		}
		if f.Mode == Range && (b.Kind == Preceding || b.Kind == Following) {
			return dberror.NewInvalidPlan("RANGE frames support only UNBOUNDED and CURRENT ROW bounds, got %s", b)
		}
	}
	return nil
}

// defaultFrame is RANGE UNBOUNDED PRECEDING .. CURRENT ROW. Without ORDER
// BY every row is a peer, so it covers the whole partition.
func defaultFrame() *Frame {
	return RangeBetween(Bound{Kind: UnboundedPreceding}, Bound{Kind: CurrentRow})
}

// span returns the half-open range [start, end) of the frame for the row at
// pos in a partition of n rows whose peer group is [peerStart, peerEnd).
// The range is empty when start >= end.
func (f *Frame) span(pos, n, peerStart, peerEnd int) (start, end int) {
	start = f.position(f.Start, pos, n, peerStart, peerEnd, true)
	end = f.position(f.End, pos, n, peerStart, peerEnd, false) + 1
	start = max(start, 0)
	end = min(end, n)
	return start, end
}

func (f *Frame) position(b Bound, pos, n, peerStart, peerEnd int, isStart bool) int {
	switch b.Kind {
	case UnboundedPreceding:
		return 0
	case Preceding:
		return pos - b.Offset
	case Following:
		return pos + b.Offset
	case UnboundedFollowing:
		return n - 1
	}
	if f.Mode == Range {
		if isStart {
			return peerStart
		}
		return peerEnd - 1
	}
	return pos
}
