// Package syncclient binds collection paths to live snapshots and exposes the
// write primitives used by the views.
//
// Writes are never applied locally: callers observe their own changes through
// the next snapshot pushed on their subscription.
package syncclient

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/lifecycle"
	"golang.org/x/sync/errgroup"

	"github.com/aretw0/grove/pkg/core"
	"github.com/aretw0/grove/pkg/tree"
)

// Config configures a Client.
type Config struct {
	// Cascade deletes every descendant document before the document itself.
	// Off by default: a plain delete leaves sub-collections behind.
	Cascade bool
	// CascadeParallelism bounds concurrent deletes per level. Default 4.
	CascadeParallelism int
	// Children lists the sub-collections a document of a collection may own.
	// Defaults to the category/topic/note hierarchy.
	Children func(core.Path) []string
	Logger   *slog.Logger
}

// Client is shared by every view.
type Client struct {
	svc    *core.Service
	config Config

	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

// New creates a Client over svc.
func New(svc *core.Service, config Config) *Client {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.CascadeParallelism <= 0 {
		config.CascadeParallelism = 4
	}
	if config.Children == nil {
		config.Children = tree.ChildCollections
	}
	return &Client{
		svc:    svc,
		config: config,
		subs:   make(map[*Subscription]struct{}),
	}
}

// Cascade reports whether Delete removes descendants.
func (c *Client) Cascade() bool {
	return c.config.Cascade
}

// Subscribe opens a live subscription on path. The first snapshot holds the
// current documents; a new one follows every burst of changes.
// Subscribing again after Unsubscribe opens a fresh channel.
func (c *Client) Subscribe(ctx context.Context, path core.Path) (*Subscription, error) {
	if err := path.Validate(); err != nil {
		return nil, err
	}

	subCtx, cancel := context.WithCancel(ctx)
	events, err := c.svc.Watch(subCtx, path)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", path, err)
	}

	sub := &Subscription{
		path:   path,
		client: c,
		ch:     make(chan Snapshot, 1),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	c.mu.Lock()
	c.subs[sub] = struct{}{}
	c.mu.Unlock()

	lifecycle.Go(subCtx, func(ctx context.Context) error {
		return sub.run(ctx, events)
	}, lifecycle.WithErrorHandler(func(err error) {
		c.config.Logger.Error("subscription stopped", "path", path, "error", err)
	}))

	c.config.Logger.Debug("subscribed", "path", path)
	return sub, nil
}

// Unsubscribe releases the subscription. No snapshot is delivered afterwards.
func (c *Client) Unsubscribe(sub *Subscription) {
	if sub != nil {
		sub.Close()
	}
}

func (c *Client) untrack(sub *Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.subs, sub)
}

// Active returns the number of open subscriptions.
func (c *Client) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

// Close releases every open subscription.
func (c *Client) Close() {
	c.mu.Lock()
	subs := make([]*Subscription, 0, len(c.subs))
	for sub := range c.subs {
		subs = append(subs, sub)
	}
	c.mu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}
}

// Create adds a document and returns its assigned ID.
func (c *Client) Create(ctx context.Context, path core.Path, fields core.Fields) (string, error) {
	id, err := c.svc.Add(ctx, path, fields)
	if err != nil {
		return "", &WriteError{Op: OpCreate, Path: path, Err: err}
	}
	return id, nil
}

// Update merges fields into document id.
func (c *Client) Update(ctx context.Context, path core.Path, id string, fields core.Fields) error {
	if err := c.svc.Patch(ctx, path, id, fields); err != nil {
		return &WriteError{Op: OpUpdate, Path: path, ID: id, Err: err}
	}
	return nil
}

// Delete removes document id, and its descendants when cascading is enabled.
func (c *Client) Delete(ctx context.Context, path core.Path, id string) error {
	var err error
	if c.config.Cascade {
		err = c.deleteTree(ctx, path, id)
	} else {
		err = c.svc.Delete(ctx, path, id)
	}
	if err != nil {
		return &WriteError{Op: OpDelete, Path: path, ID: id, Err: err}
	}
	return nil
}

// deleteTree removes descendants depth-first so a partial failure never
// leaves a visible parent without its children.
func (c *Client) deleteTree(ctx context.Context, path core.Path, id string) error {
	for _, name := range c.config.Children(path) {
		child := path.Child(id, name)
		docs, err := c.svc.List(ctx, child)
		if err != nil {
			return fmt.Errorf("failed to list %s: %w", child, err)
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(c.config.CascadeParallelism)
		for _, doc := range docs {
			docID := doc.ID
			g.Go(func() error {
				return c.deleteTree(gctx, child, docID)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}

	if err := c.svc.Delete(ctx, path, id); err != nil {
		return err
	}
	c.config.Logger.Debug("deleted", "path", path, "id", id, "cascade", true)
	return nil
}
