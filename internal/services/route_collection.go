package services

import (
	"bus-route-service/internal/domain"
	"bus-route-service/internal/platform/obs"
	"bus-route-service/internal/ports"
	"context"
	"errors"
	"fmt"
)

// RouteCollection holds every route of the network and tracks which one is
// open in the editor. It enforces unique names among committed routes.
//
// Each route gets an id when it joins the collection. Ids are never reused,
// so removing a route does not renumber the others.
//
// RouteCollection is not safe for concurrent use; callers serialize access.
type RouteCollection struct {
	graph   *domain.StopGraph
	ids     []int
	routes  []*domain.Route
	nextID  int
	current int
}

func NewRouteCollection(g *domain.StopGraph) *RouteCollection {
	return &RouteCollection{graph: g, current: -1}
}

// LoadRouteCollection restores every stored route with ids in storage order.
// The first route, if any, becomes current.
func LoadRouteCollection(
	ctx context.Context,
	g *domain.StopGraph,
	repo ports.RouteRepository,
) (*RouteCollection, error) {
	if repo == nil {
		return nil, errors.New("load routes: repository must be non-nil")
	}

	records, err := repo.ListRoutes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load routes: list routes: %w", err)
	}

	c := NewRouteCollection(g)
	seen := make(map[string]struct{}, len(records))
	for i, rec := range records {
		if _, ok := seen[rec.Params.Name]; ok {
			return nil, fmt.Errorf("load routes: route #%d %q: %w", i+1, rec.Params.Name, domain.ErrNameConflict)
		}
		seen[rec.Params.Name] = struct{}{}

		r, err := domain.RestoreRoute(g, rec)
		if err != nil {
			return nil, fmt.Errorf("load routes: route #%d: %w", i+1, err)
		}
		c.add(r)
	}

	if len(c.routes) > 0 {
		c.current = 0
	}

	return c, nil
}

func (c *RouteCollection) Graph() *domain.StopGraph { return c.graph }

func (c *RouteCollection) Len() int { return len(c.routes) }

// IDs lists route ids in collection order, matching Routes.
func (c *RouteCollection) IDs() []int {
	out := make([]int, len(c.ids))
	copy(out, c.ids)
	return out
}

func (c *RouteCollection) Routes() []*domain.Route {
	out := make([]*domain.Route, len(c.routes))
	copy(out, c.routes)
	return out
}

// NewRoute appends an empty route, selects it and returns its id.
func (c *RouteCollection) NewRoute() (int, *domain.Route) {
	r := domain.NewRoute(c.graph)
	id := c.add(r)
	c.current = len(c.routes) - 1
	return id, r
}

func (c *RouteCollection) Route(id int) (*domain.Route, error) {
	pos, err := c.position(id)
	if err != nil {
		return nil, err
	}
	return c.routes[pos], nil
}

func (c *RouteCollection) Select(id int) error {
	pos, err := c.position(id)
	if err != nil {
		return fmt.Errorf("select: %w", err)
	}
	c.current = pos
	return nil
}

// Current returns the selected route and its id.
func (c *RouteCollection) Current() (int, *domain.Route, error) {
	if c.current < 0 {
		return -1, nil, domain.ErrNoRouteSelected
	}
	return c.ids[c.current], c.routes[c.current], nil
}

// Remove drops a route. Removing the current route selects the one before it,
// or the new first route.
func (c *RouteCollection) Remove(id int) error {
	pos, err := c.position(id)
	if err != nil {
		return fmt.Errorf("remove: %w", err)
	}

	c.ids = append(c.ids[:pos], c.ids[pos+1:]...)
	c.routes = append(c.routes[:pos], c.routes[pos+1:]...)

	switch {
	case len(c.routes) == 0:
		c.current = -1
	case c.current > pos:
		c.current--
	case c.current == pos && pos > 0:
		c.current = pos - 1
	}

	return nil
}

// RemoveAndSave persists the committed routes without the removed one and
// only then drops it from the collection. A failed write changes nothing.
func (c *RouteCollection) RemoveAndSave(ctx context.Context, repo ports.RouteRepository, id int) error {
	pos, err := c.position(id)
	if err != nil {
		return fmt.Errorf("remove: %w", err)
	}

	records := c.recordsWith(func(i int, r *domain.Route) (domain.RouteRecord, bool) {
		return r.Record(), i != pos && r.IsCommitted()
	})
	if err := c.write(ctx, repo, records); err != nil {
		return fmt.Errorf("remove route %d: %w", id, err)
	}

	return c.Remove(id)
}

// Commit applies a route's pending edits, refusing a name that another
// committed route already uses.
func (c *RouteCollection) Commit(id int) (bool, error) {
	r, err := c.Route(id)
	if err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}

	committed, err := r.Commit(func(name string) bool { return c.nameTaken(name, r) })
	if err != nil {
		return false, fmt.Errorf("commit route %d: %w", id, err)
	}

	return committed, nil
}

// CommitAndSave persists the committed routes as they will look after the
// commit and only then applies the route's pending edits. When the write
// fails the route keeps its pending edits and undo history, so the commit can
// be retried.
func (c *RouteCollection) CommitAndSave(ctx context.Context, repo ports.RouteRepository, id int) (bool, error) {
	pos, err := c.position(id)
	if err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}

	r := c.routes[pos]
	if !r.IsDirty() {
		return false, nil
	}

	pending := r.PendingRecord()
	if c.nameTaken(pending.Params.Name, r) {
		return false, fmt.Errorf("commit route %d %q: %w", id, pending.Params.Name, domain.ErrNameConflict)
	}

	records := c.recordsWith(func(i int, r *domain.Route) (domain.RouteRecord, bool) {
		if i == pos {
			return pending, true
		}
		return r.Record(), r.IsCommitted()
	})
	if err := c.write(ctx, repo, records); err != nil {
		return false, fmt.Errorf("commit route %d: %w", id, err)
	}

	return c.Commit(id)
}

func (c *RouteCollection) Discard(id int) error {
	r, err := c.Route(id)
	if err != nil {
		return fmt.Errorf("discard: %w", err)
	}
	r.Discard()
	return nil
}

// Records returns the persisted form of every committed route.
func (c *RouteCollection) Records() []domain.RouteRecord {
	return c.recordsWith(func(_ int, r *domain.Route) (domain.RouteRecord, bool) {
		return r.Record(), r.IsCommitted()
	})
}

// Save writes every committed route to repo.
func (c *RouteCollection) Save(ctx context.Context, repo ports.RouteRepository) error {
	if err := c.write(ctx, repo, c.Records()); err != nil {
		return fmt.Errorf("save routes: %w", err)
	}
	return nil
}

func (c *RouteCollection) write(ctx context.Context, repo ports.RouteRepository, records []domain.RouteRecord) (err error) {
	defer obs.Time(ctx, "routes.Save")(&err)

	if repo == nil {
		return errors.New("repository must be non-nil")
	}
	return repo.ReplaceRoutes(ctx, records)
}

func (c *RouteCollection) recordsWith(pick func(i int, r *domain.Route) (domain.RouteRecord, bool)) []domain.RouteRecord {
	out := make([]domain.RouteRecord, 0, len(c.routes))
	for i, r := range c.routes {
		if rec, ok := pick(i, r); ok {
			out = append(out, rec)
		}
	}
	return out
}

func (c *RouteCollection) add(r *domain.Route) int {
	id := c.nextID
	c.nextID++
	c.ids = append(c.ids, id)
	c.routes = append(c.routes, r)
	return id
}

func (c *RouteCollection) position(id int) (int, error) {
	for pos, have := range c.ids {
		if have == id {
			return pos, nil
		}
	}
	return -1, fmt.Errorf("route %d: %w", id, domain.ErrNoRouteSelected)
}

func (c *RouteCollection) nameTaken(name string, self *domain.Route) bool {
	for _, other := range c.routes {
		if other == self || !other.IsCommitted() {
			continue
		}
		if other.Name() == name {
			return true
		}
	}
	return false
}
