package gpio

import (
	"context"
	"sync"
)

// notifier fans one line's edges out to every goroutine currently waiting.
type notifier struct {
	mu      sync.Mutex
	waiters map[*waiter]struct{}
	count   Mark
}

type waiter struct {
	edge Edge
	ch   chan struct{}
}

func (n *notifier) wait(ctx context.Context, edge Edge) error {
	return n.waitSince(ctx, edge, nil)
}

// Mark returns the edge count so far.
func (n *notifier) Mark() Mark {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.count
}

// waitSince checks since and registers the waiter under one lock, so no edge
// falls between the two.
func (n *notifier) waitSince(ctx context.Context, edge Edge, since *Mark) error {
	w := &waiter{edge: edge, ch: make(chan struct{}, 1)}

	n.mu.Lock()
	if since != nil && n.count.after(*since, edge) {
		n.mu.Unlock()
		return nil
	}
	if n.waiters == nil {
		n.waiters = make(map[*waiter]struct{})
	}
	n.waiters[w] = struct{}{}
	n.mu.Unlock()

	defer func() {
		n.mu.Lock()
		delete(n.waiters, w)
		n.mu.Unlock()
	}()

	select {
	case <-w.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// notify wakes every waiter interested in a transition to the given level.
// It never blocks.
func (n *notifier) notify(rising bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if rising {
		n.count.Rising++
	} else {
		n.count.Falling++
	}
	for w := range n.waiters {
		if !w.edge.matches(rising) {
			continue
		}
		select {
		case w.ch <- struct{}{}:
		default:
		}
	}
}

func (n *notifier) waiting() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.waiters)
}
