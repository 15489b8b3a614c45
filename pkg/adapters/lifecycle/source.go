package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/grove/pkg/syncclient"
)

type snapshotSource struct {
	sub *syncclient.Subscription
	out chan lifecycle.Event
}

// NewSource exposes the snapshots of sub as a lifecycle.Source.
// Events closes when the subscription ends or the Start context is done.
func NewSource(sub *syncclient.Subscription) lifecycle.Source {
	return &snapshotSource{
		sub: sub,
		out: make(chan lifecycle.Event),
	}
}

func (s *snapshotSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *snapshotSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		snaps := s.sub.Snapshots()
		for {
			select {
			case <-ctx.Done():
				return nil
			case snap, ok := <-snaps:
				if !ok {
					return nil
				}
				select {
				case s.out <- snap:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
