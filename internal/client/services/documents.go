package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/fishlog/internal/client/autherr"
	"github.com/dmitrijs2005/fishlog/internal/client/client"
	"github.com/dmitrijs2005/fishlog/internal/client/notify"
	"github.com/dmitrijs2005/fishlog/internal/client/storage"
	"github.com/dmitrijs2005/fishlog/internal/logging"
)

// listLimit caps one page of any collection listing.
const listLimit = 100

const photoWorkers = 4

// collection is the part every document-backed service shares: where the
// documents live and how outcomes reach the user.
type collection struct {
	docs     client.Documents
	name     string
	notifier notify.Notifier
	logger   logging.Logger
	now      func() time.Time
}

func newCollection(docs client.Documents, name, module string, o options) collection {
	return collection{
		docs:     docs,
		name:     name,
		notifier: o.notifier,
		logger:   o.logger.With("module", module),
		now:      o.now,
	}
}

// list fetches one page into out, a pointer to a slice.
func (c collection) list(ctx context.Context, action string, out any, queries ...client.Query) error {
	queries = append(queries, client.Limit(listLimit))
	if _, err := c.docs.ListDocuments(ctx, c.name, queries, out); err != nil {
		return c.fail(ctx, action, err)
	}
	return nil
}

// fail reports "Failed to <action>: <message>" and returns the classified
// error wrapped with action.
func (c collection) fail(ctx context.Context, action string, err error) error {
	ae := autherr.Classify(err, true)
	c.logger.Error(ctx, action+" failed", "collection", c.name, "error", err)
	c.notifier.Failure(ctx, fmt.Sprintf("Failed to %s: %s", action, ae.Message))
	return fmt.Errorf("%s: %w", action, ae)
}

// removeObjects deletes keys from store in parallel. Failures are logged
// only.
func removeObjects(ctx context.Context, store storage.PhotoStore, logger logging.Logger, keys []string) {
	var g errgroup.Group
	g.SetLimit(photoWorkers)

	for _, key := range keys {
		if key == "" {
			continue
		}
		g.Go(func() error {
			if err := store.Delete(ctx, key); err != nil {
				logger.Warn(ctx, "failed to delete object", "key", key, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// docCache is the in-memory copy of the last listed page of a collection,
// kept current by local creates, edits and deletes.
type docCache[T any] struct {
	id func(T) string

	mu    sync.RWMutex
	items []T
}

func newDocCache[T any](id func(T) string) *docCache[T] {
	return &docCache[T]{id: id}
}

func (c *docCache[T]) reset(items []T) {
	c.mu.Lock()
	c.items = append([]T(nil), items...)
	c.mu.Unlock()
}

func (c *docCache[T]) prepend(item T) {
	c.mu.Lock()
	c.items = append([]T{item}, c.items...)
	c.mu.Unlock()
}

func (c *docCache[T]) push(item T) {
	c.mu.Lock()
	c.items = append(c.items, item)
	c.mu.Unlock()
}

func (c *docCache[T]) replace(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.id(item)
	for i := range c.items {
		if c.id(c.items[i]) == id {
			c.items[i] = item
			return
		}
	}
}

func (c *docCache[T]) remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := make([]T, 0, len(c.items))
	for _, it := range c.items {
		if c.id(it) != id {
			kept = append(kept, it)
		}
	}
	c.items = kept
}

func (c *docCache[T]) get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.items {
		if c.id(it) == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func (c *docCache[T]) snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]T(nil), c.items...)
}
