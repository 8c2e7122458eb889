package routing

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/matzehuels/transitroute/pkg/errors"
	"github.com/matzehuels/transitroute/pkg/network"
)

func route(id string, names ...string) network.Route {
	stops := make([]network.Stop, len(names))
	for i, n := range names {
		stops[i] = network.Stop{Name: n}
	}
	return network.Route{ID: id, Stops: stops}
}

func buildNetwork(t *testing.T, routes ...network.Route) *network.Network {
	t.Helper()
	n, err := network.New(routes)
	require.NoError(t, err)
	return n
}

// bostonNetwork is a three-line excerpt of the MBTA subway.
func bostonNetwork(t *testing.T) *network.Network {
	return buildNetwork(t,
		route("Red", "Alewife", "Davis", "Porter", "Harvard", "Central"),
		route("Mattapan", "Central", "Kendall/MIT", "Charles/MGH", "Park Street"),
		route("Orange", "Park Street", "Downtown Crossing", "South Station"),
	)
}

func TestResolveBoston(t *testing.T) {
	r := NewResolver(bostonNetwork(t), NewGraphCache(0))
	closed := network.NewStopSet("Alewife", "Central")

	tests := []struct {
		name        string
		source      string
		dest        string
		unavailable network.StopSet
		want        []string
		strategy    Strategy
	}{
		{"direct", "Alewife", "Central", nil, []string{"Red"}, StrategyDirect},
		{"two routes", "Kendall/MIT", "Downtown Crossing", nil, []string{"Mattapan", "Orange"}, StrategyTwoHop},
		{"three routes", "Alewife", "Downtown Crossing", nil, []string{"Red", "Mattapan", "Orange"}, StrategySearch},
		{"closed endpoints", "Alewife", "Central", closed, nil, ""},
		{"direct with closures", "Davis", "Harvard", closed, []string{"Red"}, StrategyDirect},
		{"two routes with closures", "Kendall/MIT", "Downtown Crossing", closed, []string{"Mattapan", "Orange"}, StrategyTwoHop},
		{"closed source", "Alewife", "Downtown Crossing", closed, nil, ""},
		{"transfer closed", "Davis", "Park Street", closed, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := r.Resolve(tt.source, tt.dest, tt.unavailable)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Routes)
			assert.Equal(t, tt.strategy, p.Strategy)
			if tt.want == nil {
				assert.False(t, p.Found())
				assert.NotEmpty(t, p.Reason)
			} else {
				assert.True(t, p.Valid(r.Network().Index(), tt.source, tt.dest, tt.unavailable))
			}
		})
	}
}

func TestResolveNoPathReasons(t *testing.T) {
	r := NewResolver(bostonNetwork(t), nil)
	closed := network.NewStopSet("Alewife", "Central")

	p, err := r.Resolve("Alewife", "Downtown Crossing", closed)
	require.NoError(t, err)
	assert.Equal(t, ReasonUnserved, p.Reason)

	p, err = r.Resolve("Davis", "Park Street", closed)
	require.NoError(t, err)
	assert.Equal(t, ReasonDisconnected, p.Reason)
}

func TestResolveInvalidStop(t *testing.T) {
	r := NewResolver(bostonNetwork(t), nil)

	tests := []struct {
		name   string
		source string
		dest   string
		role   StopRole
	}{
		{"source", "Wonderland", "Alewife", RoleSource},
		{"destination", "Alewife", "Wonderland", RoleDestination},
		{"both reports source", "Nowhere", "Wonderland", RoleSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(tt.source, tt.dest, nil)
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.ErrCodeInvalidStop))

			var ise *InvalidStopError
			require.True(t, errors.As(err, &ise))
			assert.Equal(t, tt.role, ise.Role)
		})
	}
}

func TestResolveInvalidStopBeforeAvailability(t *testing.T) {
	// A closed but known stop is not an input error.
	r := NewResolver(bostonNetwork(t), nil)
	p, err := r.Resolve("Alewife", "Davis", network.NewStopSet("Alewife"))
	require.NoError(t, err)
	assert.False(t, p.Found())
}

func TestResolveSameStop(t *testing.T) {
	r := NewResolver(bostonNetwork(t), nil)

	p, err := r.Resolve("Central", "Central", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Mattapan"}, p.Routes, "smallest serving route wins")

	p, err = r.Resolve("Central", "Central", network.NewStopSet("Central"))
	require.NoError(t, err)
	assert.False(t, p.Found())

	for _, stop := range r.Network().Catalog().Names() {
		p, err := r.Resolve(stop, stop, nil)
		require.NoError(t, err)
		require.Len(t, p.Routes, 1, stop)
		assert.Equal(t, r.Network().Index().RoutesContaining(stop, nil)[0], p.Routes[0])
	}
}

func TestResolveDirectTieBreak(t *testing.T) {
	n := buildNetwork(t,
		route("Z", "a", "b"),
		route("M", "a", "b"),
		route("B", "a", "b"),
	)
	p, err := NewResolver(n, nil).Resolve("a", "b", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, p.Routes)
}

func TestResolveTwoHopTieBreak(t *testing.T) {
	n := buildNetwork(t,
		route("S2", "src", "x"),
		route("S1", "src", "y"),
		route("D2", "x", "y", "dst"),
		route("D1", "y", "dst"),
	)
	p, err := NewResolver(n, nil).Resolve("src", "dst", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"S1", "D1"}, p.Routes)
}

func TestResolvePrefersShortestPath(t *testing.T) {
	// A long chain A-B-C-D-E and a shortcut A-X-E.
	n := buildNetwork(t,
		route("A", "src", "ab", "ax"),
		route("B", "ab", "bc"),
		route("C", "bc", "cd"),
		route("D", "cd", "de"),
		route("E", "de", "xe", "dst"),
		route("X", "ax", "xm"),
		route("Y", "xm", "xe"),
	)
	p, err := NewResolver(n, nil).Resolve("src", "dst", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "X", "Y", "E"}, p.Routes)
	assert.Equal(t, StrategySearch, p.Strategy)
}

func TestResolveLexicographicAmongShortest(t *testing.T) {
	n := buildNetwork(t,
		route("S", "src", "p", "q"),
		route("Q", "q", "q2"),
		route("P", "p", "p2"),
		route("P2", "p2", "m"),
		route("Q2", "q2", "m"),
		route("D", "m", "dst"),
	)
	p, err := NewResolver(n, nil).Resolve("src", "dst", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"S", "P", "P2", "D"}, p.Routes)
}

func TestResolveTerminatesOnCycles(t *testing.T) {
	// A ring of routes with no connection to the destination route.
	n := buildNetwork(t,
		route("R1", "src", "a"),
		route("R2", "a", "b"),
		route("R3", "b", "c"),
		route("R4", "c", "src"),
		route("Island", "dst", "z"),
	)
	p, err := NewResolver(n, nil).Resolve("src", "dst", nil)
	require.NoError(t, err)
	assert.False(t, p.Found())
	assert.Equal(t, ReasonDisconnected, p.Reason)
}

func TestResolveCycleWithExit(t *testing.T) {
	n := buildNetwork(t,
		route("R1", "src", "a", "d"),
		route("R2", "a", "b"),
		route("R3", "b", "c"),
		route("R4", "c", "d", "e"),
		route("Out", "e", "f"),
		route("Dst", "f", "dst"),
	)
	p, err := NewResolver(n, nil).Resolve("src", "dst", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"R1", "R4", "Out", "Dst"}, p.Routes)
}

func TestResolveMonotonic(t *testing.T) {
	n := bostonNetwork(t)
	r := NewResolver(n, NewGraphCache(0))
	names := n.Catalog().Names()

	for _, closedStop := range names {
		u2 := network.NewStopSet(closedStop)
		for _, src := range names {
			for _, dst := range names {
				p1, err := r.Resolve(src, dst, nil)
				require.NoError(t, err)
				p2, err := r.Resolve(src, dst, u2)
				require.NoError(t, err)

				if p2.Found() {
					assert.True(t, p1.Found(), "closing %s created path %s -> %s", closedStop, src, dst)
					assert.True(t, p2.Valid(n.Index(), src, dst, u2))
				}
				if p1.Found() && p1.Valid(n.Index(), src, dst, u2) {
					assert.True(t, p2.Found(), "path %v %s -> %s lost after closing %s", p1.Routes, src, dst, closedStop)
				}
			}
		}
	}
}

func TestResolveAllPairsValid(t *testing.T) {
	n := buildNetwork(t,
		route("1", "a", "b", "c"),
		route("2", "c", "d", "e"),
		route("3", "e", "f", "a"),
		route("4", "f", "g"),
		route("5", "g", "h", "b"),
	)
	r := NewResolver(n, nil)
	for _, src := range n.Catalog().Names() {
		for _, dst := range n.Catalog().Names() {
			t.Run(fmt.Sprintf("%s-%s", src, dst), func(t *testing.T) {
				p, err := r.Resolve(src, dst, nil)
				require.NoError(t, err)
				require.True(t, p.Found())
				assert.True(t, p.Valid(n.Index(), src, dst, nil))
			})
		}
	}
}

func TestResolveDeterministic(t *testing.T) {
	n := buildNetwork(t,
		route("A", "src", "x", "y"),
		route("B", "x", "m"),
		route("C", "y", "m"),
		route("D", "m", "dst"),
	)
	r := NewResolver(n, nil)
	first, err := r.Resolve("src", "dst", nil)
	require.NoError(t, err)
	for range 20 {
		p, err := r.Resolve("src", "dst", nil)
		require.NoError(t, err)
		assert.Equal(t, first.Routes, p.Routes)
	}
	assert.Equal(t, []string{"A", "B", "D"}, first.Routes)
}

func TestPathValid(t *testing.T) {
	ix := bostonNetwork(t).Index()

	tests := []struct {
		name        string
		path        Path
		src, dst    string
		unavailable network.StopSet
		want        bool
	}{
		{"valid chain", Path{Routes: []string{"Red", "Mattapan", "Orange"}}, "Alewife", "South Station", nil, true},
		{"not found", Path{}, "Alewife", "Central", nil, false},
		{"wrong first route", Path{Routes: []string{"Orange"}}, "Alewife", "South Station", nil, false},
		{"transfer closed", Path{Routes: []string{"Red", "Mattapan"}}, "Alewife", "Park Street", network.NewStopSet("Central"), false},
		{"source closed", Path{Routes: []string{"Red"}}, "Alewife", "Davis", network.NewStopSet("Alewife"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.path.Valid(ix, tt.src, tt.dst, tt.unavailable))
		})
	}
}
