package lastfm

import (
	"context"
	"fmt"
	"strings"
)

// entity is the machinery shared by every catalog type: the client used
// for requests, the hydration options, a private response cache and the
// loaded flag that makes full info fetches idempotent.
//
// An entity is owned by one caller. The cache is safe for concurrent use;
// the loaded flag and the hydrated fields are not.
type entity struct {
	client *Client
	opts   Options
	cache  *responseCache
	loaded bool
}

func newEntity(c *Client, opts Options) *entity {
	return &entity{
		client: c,
		opts:   opts,
		cache:  newResponseCache(c.cacheKeying),
	}
}

// Loaded reports whether the full info (or profile) fetch has completed.
func (e *entity) Loaded() bool {
	return e.loaded
}

// Invalidate drops every cached collection of this entity. The next call
// of each accessor fetches again.
func (e *entity) Invalidate() {
	e.cache.invalidate()
}

// hydrateFunc builds one entity from one response item. It returns nil
// without error when the item has no usable display name.
type hydrateFunc[T any] func(c *Client, n *Node, opts Options) (*T, error)

// fetchCollection invokes method with params and hydrates every itemTag
// child of rootTag, routing through the entity's cache under cacheKey.
func fetchCollection[T any](ctx context.Context, e *entity, method, cacheKey, rootTag, itemTag string, params map[string]string, force bool, hydrate hydrateFunc[T]) ([]*T, error) {
	v, err := e.cache.get(ctx, cacheKey, params, force, func(ctx context.Context) (any, error) {
		doc, err := e.client.request(ctx, method, params)
		if err != nil {
			return nil, err
		}
		return collect(e.client, doc, rootTag, itemTag, e.opts, hydrate)
	})
	if err != nil {
		return nil, err
	}
	return v.([]*T), nil
}

// fetchPathCollection is fetchCollection for legacy feeds addressed by
// path instead of method name.
func fetchPathCollection[T any](ctx context.Context, e *entity, path, cacheKey, rootTag, itemTag string, force bool, hydrate hydrateFunc[T]) ([]*T, error) {
	v, err := e.cache.get(ctx, cacheKey, map[string]string{"path": path}, force, func(ctx context.Context) (any, error) {
		doc, err := e.client.requestPath(ctx, path)
		if err != nil {
			return nil, err
		}
		return collect(e.client, doc, rootTag, itemTag, e.opts, hydrate)
	})
	if err != nil {
		return nil, err
	}
	return v.([]*T), nil
}

// collect hydrates the itemTag children of rootTag in document order.
// Items without a display name are skipped; any hydration error fails the
// whole collection.
func collect[T any](c *Client, doc *Node, rootTag, itemTag string, opts Options, hydrate hydrateFunc[T]) ([]*T, error) {
	root := findRoot(doc, rootTag)
	if root == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingRoot, rootTag)
	}

	nodes := root.ChildrenNamed(itemTag)
	items := make([]*T, 0, len(nodes))
	for _, n := range nodes {
		item, err := hydrate(c, n, opts)
		if err != nil {
			return nil, err
		}
		if item == nil {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// fetchSingle fetches method once per entity and hands the rootTag element
// to apply. Once apply succeeds, later calls are no-ops.
func (e *entity) fetchSingle(ctx context.Context, method string, params map[string]string, rootTag string, apply func(*Node) error) error {
	if e.loaded {
		return nil
	}

	doc, err := e.client.request(ctx, method, params)
	if err != nil {
		return err
	}

	root := findRoot(doc, rootTag)
	if root == nil {
		return fmt.Errorf("%w: %s", ErrMissingRoot, rootTag)
	}

	if err := apply(root); err != nil {
		return err
	}
	e.loaded = true
	return nil
}

// findRoot locates the payload element. Method responses wrap it in <lfm>;
// legacy feeds are rooted at it directly.
func findRoot(doc *Node, tag string) *Node {
	if doc == nil {
		return nil
	}
	if doc.Name == tag {
		return doc
	}
	return doc.Child(tag)
}

// requireIdentity rejects blank identity values.
func requireIdentity(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return argumentError(field, "is required")
	}
	return nil
}
