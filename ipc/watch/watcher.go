package watch

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/emukit/ps2ipc/ipc/client"
	"github.com/emukit/ps2ipc/ipc/common"
	"github.com/puzpuzpuz/xsync/v3"
)

var logger = common.PackageLogger("watch")

// ChangeFunc is invoked when a watched address changes between polls.
type ChangeFunc func(address uint32, old, new uint64)

// subscription is one watched address
type subscription struct {
	address uint32
	width   int
	fn      ChangeFunc

	seen bool
	last uint64
}

// Watcher polls a set of addresses through one batch per tick and fires
// callbacks on change. This is the external-tool side of the protocol's
// motivating use case: reacting to game memory without any logic inside
// the emulator.
type Watcher struct {
	client   *client.Client
	interval time.Duration

	nextID atomic.Uint64
	subs   *xsync.MapOf[uint64, *subscription]
}

// New creates a watcher polling at the given interval.
func New(c *client.Client, interval time.Duration) *Watcher {
	return &Watcher{
		client:   c,
		interval: interval,
		subs:     xsync.NewMapOf[uint64, *subscription](),
	}
}

// Watch registers a callback for changes of a value of the given width
// at address. It returns a cancel function that removes the
// subscription. Width must be 1, 2, 4 or 8 bytes.
func (w *Watcher) Watch(address uint32, width int, fn ChangeFunc) (func(), error) {
	if _, err := common.ReadOpcode(width); err != nil {
		return nil, fmt.Errorf("%w: watch of %d bytes", common.ErrInvalidWidth, width)
	}

	id := w.nextID.Add(1)
	w.subs.Store(id, &subscription{address: address, width: width, fn: fn})
	return func() { w.subs.Delete(id) }, nil
}

// Run polls until the context is cancelled. Poll errors are logged and
// the affected tick is skipped; the protocol offers no retry semantics
// and a later tick re-reads everything anyway.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.poll(ctx); err != nil {
				logger.Warn().Err(err).Msg("poll failed")
			}
		}
	}
}

// poll reads every watched address in one batch and dispatches changes.
func (w *Watcher) poll(ctx context.Context) error {
	// Snapshot the subscriptions so the batch and the decode loop see
	// the same set, in the same order.
	var ids []uint64
	w.subs.Range(func(id uint64, _ *subscription) bool {
		ids = append(ids, id)
		return true
	})
	if len(ids) == 0 {
		return nil
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	batch := w.client.InitializeBatch()
	polled := make([]*subscription, 0, len(ids))
	for _, id := range ids {
		sub, ok := w.subs.Load(id)
		if !ok {
			continue
		}
		var err error
		switch sub.width {
		case 1:
			err = batch.Read8(sub.address)
		case 2:
			err = batch.Read16(sub.address)
		case 4:
			err = batch.Read32(sub.address)
		case 8:
			err = batch.Read64(sub.address)
		}
		if err != nil {
			// the batch still has to be finalized to release the
			// client's buffers
			_, _ = batch.Finalize()
			return err
		}
		polled = append(polled, sub)
	}

	cmd, err := batch.Finalize()
	if err != nil {
		return err
	}
	if err := w.client.Send(ctx, cmd); err != nil {
		return err
	}

	for i, sub := range polled {
		value, err := cmd.Value(i, sub.width)
		if err != nil {
			return err
		}
		if sub.seen && value != sub.last {
			sub.fn(sub.address, sub.last, value)
		}
		sub.last, sub.seen = value, true
	}
	return nil
}
