package network

import "slices"

// Stats summarises a network.
type Stats struct {
	UniqueStops int      `json:"unique_stops"`
	MostStops   string   `json:"most_stops,omitempty"`   // route id with the most stops
	FewestStops string   `json:"fewest_stops,omitempty"` // route id with the fewest stops
	Accessible  []string `json:"accessible"`             // wheelchair-accessible stops, sorted
}

// ComputeStats derives aggregate figures from n.
// Ties between routes of equal size go to the smallest route id.
// MostStops and FewestStops are empty for a network without routes.
func ComputeStats(n *Network) Stats {
	st := Stats{
		UniqueStops: n.catalog.Len(),
		Accessible:  []string{},
	}

	most, fewest := -1, -1
	for _, id := range n.index.ids {
		count := n.index.routes[id].Len()
		if most < 0 || count > most {
			most, st.MostStops = count, id
		}
		if fewest < 0 || count < fewest {
			fewest, st.FewestStops = count, id
		}
	}

	for name, s := range n.catalog.stops {
		if s.Accessible {
			st.Accessible = append(st.Accessible, name)
		}
	}
	slices.Sort(st.Accessible)
	return st
}
