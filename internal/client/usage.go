package client

import (
	"context"
	"errors"
	"sync"

	"tracklet-backend/internal/logger"
)

// UsageResult is one delivered part usage lookup.
type UsageResult struct {
	Part  int32
	Count int
	Err   error
}

// UsageWatcher looks up how often the currently selected part is assigned.
// Each selection cancels the lookup in flight and only a result that is still
// current when its delivery starts reaches the callback. The callback may
// call Select or Close.
type UsageWatcher struct {
	client  *Client
	deliver func(UsageResult)

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	closed bool

	// serializes callbacks
	deliverMu sync.Mutex
}

func NewUsageWatcher(c *Client, deliver func(UsageResult)) *UsageWatcher {
	return &UsageWatcher{client: c, deliver: deliver}
}

// Select starts a lookup for part. A nil part clears the selection and
// nothing is delivered.
func (w *UsageWatcher) Select(ctx context.Context, part *int32) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	seq := w.supersede()
	if part == nil {
		w.mu.Unlock()
		return
	}
	lookupCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.mu.Unlock()

	partID := *part
	go func() {
		defer cancel()

		count, err := w.client.PartUsage(lookupCtx, partID)
		if errors.Is(err, context.Canceled) {
			return
		}

		w.deliverMu.Lock()
		defer w.deliverMu.Unlock()
		if !w.current(seq) {
			logger.DebugContext(ctx, "Dropping stale part usage", "part", partID)
			return
		}
		w.deliver(UsageResult{Part: partID, Count: count, Err: err})
	}()
}

// Close cancels any lookup in flight. Nothing is delivered afterwards.
func (w *UsageWatcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.supersede()
	w.closed = true
}

// supersede must be called with mu held.
func (w *UsageWatcher) supersede() uint64 {
	w.seq++
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	return w.seq
}

func (w *UsageWatcher) current(seq uint64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.closed && seq == w.seq
}
