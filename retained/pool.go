package retained

import (
	"sync"

	"github.com/agiangrant/twinscreen/internal/flex"
)

// ============================================================================
// Slice Pooling
// ============================================================================
//
// Layout sync and hit testing build short-lived id slices every frame. The
// pools below keep those off the heap.
//
// Usage:
//   kids := acquireHandles()
//   kids = append(kids, ...)
//   releaseHandles(kids)

var handleSlicePool = sync.Pool{
	New: func() any {
		s := make([]flex.NodeID, 0, 16)
		return &s
	},
}

// acquireHandles returns an empty solver handle slice.
func acquireHandles() []flex.NodeID {
	return (*handleSlicePool.Get().(*[]flex.NodeID))[:0]
}

// releaseHandles returns a slice obtained from acquireHandles.
func releaseHandles(s []flex.NodeID) {
	if s == nil || cap(s) > 256 {
		return
	}
	s = s[:0]
	handleSlicePool.Put(&s)
}

var nodeSlicePool = sync.Pool{
	New: func() any {
		s := make([]NodeID, 0, 32)
		return &s
	},
}

// acquireNodes returns an empty node id slice.
func acquireNodes() []NodeID {
	return (*nodeSlicePool.Get().(*[]NodeID))[:0]
}

// releaseNodes returns a slice obtained from acquireNodes.
func releaseNodes(s []NodeID) {
	if s == nil || cap(s) > 1024 {
		return
	}
	s = s[:0]
	nodeSlicePool.Put(&s)
}
