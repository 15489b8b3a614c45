package syncclient

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/grove/pkg/core"
)

// Snapshot is the full current document list of a subscribed path.
type Snapshot struct {
	Path      core.Path
	Documents []core.Document
	// Seq increases with every snapshot of the subscription, starting at 1.
	Seq uint64
}

func (s Snapshot) String() string {
	return fmt.Sprintf("snapshot %s seq=%d docs=%d", s.Path, s.Seq, len(s.Documents))
}

// Subscription is a live binding between a path and its latest snapshot.
type Subscription struct {
	path   core.Path
	client *Client
	ch     chan Snapshot
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
	seq    uint64
}

// Path returns the subscribed collection.
func (s *Subscription) Path() core.Path {
	return s.path
}

// Snapshots delivers the latest snapshot. An unread snapshot is replaced by a
// newer one, so consumers only ever see current state. The channel is closed
// when the subscription ends.
func (s *Subscription) Snapshots() <-chan Snapshot {
	return s.ch
}

// Done is closed once the subscription has fully stopped.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Close stops the subscription and waits for its goroutine. It is idempotent.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.cancel()
		<-s.done
		s.client.config.Logger.Debug("unsubscribed", "path", s.path)
	})
}

func (s *Subscription) run(ctx context.Context, events <-chan core.Event) error {
	defer close(s.done)
	defer close(s.ch)
	defer s.client.untrack(s)

	s.emit(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-events:
			if !ok {
				return nil
			}
			// Coalesce the rest of the burst into one snapshot.
			for drained := false; !drained; {
				select {
				case _, ok := <-events:
					if !ok {
						s.emit(ctx)
						return nil
					}
				default:
					drained = true
				}
			}
			s.emit(ctx)
		}
	}
}

func (s *Subscription) emit(ctx context.Context) {
	docs, err := s.client.svc.List(ctx, s.path)
	if err != nil {
		if ctx.Err() == nil {
			s.client.config.Logger.Warn("snapshot failed", "path", s.path, "error", err)
		}
		return
	}

	s.seq++
	snap := Snapshot{Path: s.path, Documents: docs, Seq: s.seq}

	// Only this goroutine sends, so after dropping a stale snapshot the send
	// cannot block.
	select {
	case <-s.ch:
	default:
	}
	select {
	case s.ch <- snap:
	case <-ctx.Done():
	}
}
