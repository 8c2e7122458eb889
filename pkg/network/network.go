package network

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrInvalidRouteID is returned by [New] when a route has an empty id.
	ErrInvalidRouteID = errors.New("route ID must not be empty")

	// ErrDuplicateRouteID is returned by [New] when two routes share an id.
	ErrDuplicateRouteID = errors.New("duplicate route ID")

	// ErrInvalidStopName is returned by [New] when a stop has an empty name.
	ErrInvalidStopName = errors.New("stop name must not be empty")
)

// Route types used by the GTFS route_type field.
const (
	RouteTypeLightRail = 0
	RouteTypeSubway    = 1
	RouteTypeRail      = 2
	RouteTypeBus       = 3
	RouteTypeFerry     = 4
)

// Stop is a named location served by one or more routes.
type Stop struct {
	Name       string `json:"name"`
	Accessible bool   `json:"accessible,omitempty"` // wheelchair boarding available
}

// Route is a transit line and the stops it serves, in the order received.
// The order carries no meaning for path resolution.
type Route struct {
	ID       string `json:"id"`
	LongName string `json:"long_name,omitempty"`
	Type     int    `json:"type"`
	Stops    []Stop `json:"stops"`
}

// DisplayName returns the long name, falling back to the id.
func (r Route) DisplayName() string {
	if r.LongName != "" {
		return r.LongName
	}
	return r.ID
}

// Network is an immutable transit network.
//
// The zero value is not usable; build one with [New].
type Network struct {
	routes  []Route
	byID    map[string]int
	catalog *Catalog
	index   *Index
}

// New builds a Network from routes.
//
// Route order is preserved by [Network.Routes]. Stops listed more than once
// on a route are collapsed. A stop is accessible if any route reports it
// accessible. Returns [ErrInvalidRouteID], [ErrDuplicateRouteID] or
// [ErrInvalidStopName] for malformed input.
func New(routes []Route) (*Network, error) {
	n := &Network{
		routes:  make([]Route, 0, len(routes)),
		byID:    make(map[string]int, len(routes)),
		catalog: &Catalog{stops: make(map[string]Stop)},
		index:   &Index{routes: make(map[string]StopSet, len(routes))},
	}

	for _, r := range routes {
		if r.ID == "" {
			return nil, ErrInvalidRouteID
		}
		if _, exists := n.byID[r.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRouteID, r.ID)
		}

		set := make(StopSet, len(r.Stops))
		for _, s := range r.Stops {
			if s.Name == "" {
				return nil, fmt.Errorf("%w (route %s)", ErrInvalidStopName, r.ID)
			}
			set.Add(s.Name)
			n.catalog.add(s)
		}

		r.Stops = slices.Clone(r.Stops)
		n.byID[r.ID] = len(n.routes)
		n.routes = append(n.routes, r)
		n.index.routes[r.ID] = set
	}

	n.index.ids = make([]string, 0, len(n.index.routes))
	for _, r := range n.routes {
		n.index.ids = append(n.index.ids, r.ID)
	}
	slices.Sort(n.index.ids)

	return n, nil
}

// Routes returns the routes in load order. The slice is a copy.
func (n *Network) Routes() []Route { return slices.Clone(n.routes) }

// Route returns the route with the given id.
func (n *Network) Route(id string) (Route, bool) {
	i, ok := n.byID[id]
	if !ok {
		return Route{}, false
	}
	return n.routes[i], true
}

// Catalog returns the stop catalog.
func (n *Network) Catalog() *Catalog { return n.catalog }

// Index returns the route index.
func (n *Network) Index() *Index { return n.index }

// Catalog is the set of known stops.
type Catalog struct {
	stops map[string]Stop
}

func (c *Catalog) add(s Stop) {
	prev, ok := c.stops[s.Name]
	if ok {
		s.Accessible = s.Accessible || prev.Accessible
	}
	c.stops[s.Name] = s
}

// Contains reports whether name is a known stop.
func (c *Catalog) Contains(name string) bool {
	_, ok := c.stops[name]
	return ok
}

// Stop returns the stop with the given name.
func (c *Catalog) Stop(name string) (Stop, bool) {
	s, ok := c.stops[name]
	return s, ok
}

// Len returns the number of unique stops.
func (c *Catalog) Len() int { return len(c.stops) }

// Names returns all stop names in ascending order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.stops))
	for name := range c.stops {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Index maps route ids to the stops they serve.
type Index struct {
	routes map[string]StopSet
	ids    []string // sorted
}

// RouteIDs returns all route ids in ascending order.
func (ix *Index) RouteIDs() []string { return slices.Clone(ix.ids) }

// Len returns the number of routes.
func (ix *Index) Len() int { return len(ix.ids) }

// StopsOf returns the stops served by routeID.
// An unknown route yields an empty set. Callers must not modify the result.
func (ix *Index) StopsOf(routeID string) StopSet {
	return ix.routes[routeID]
}

// RoutesContaining returns, in ascending order, the routes whose available
// stops include stop. A stop in unavailable is served by no route.
// An unknown stop yields an empty result.
func (ix *Index) RoutesContaining(stop string, unavailable StopSet) []string {
	if unavailable.Has(stop) {
		return nil
	}
	var out []string
	for _, id := range ix.ids {
		if ix.routes[id].Has(stop) {
			out = append(out, id)
		}
	}
	return out
}
