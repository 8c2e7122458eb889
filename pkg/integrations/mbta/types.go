package mbta

// routesResponse is the JSON:API document returned by /routes.
type routesResponse struct {
	Data []routeResource `json:"data"`
}

type routeResource struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Attributes struct {
		LongName  string `json:"long_name"`
		ShortName string `json:"short_name"`
		Type      int    `json:"type"`
	} `json:"attributes"`
}

// stopsResponse is the JSON:API document returned by /stops.
type stopsResponse struct {
	Data     []stopResource `json:"data"`
	Included []resourceRef  `json:"included"`
}

type stopResource struct {
	ID         string `json:"id"`
	Attributes struct {
		Name               string `json:"name"`
		WheelchairBoarding int    `json:"wheelchair_boarding"`
	} `json:"attributes"`
}

type resourceRef struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// wheelchairAccessible is the GTFS wheelchair_boarding value for stops with
// accessible boarding. 0 means no information and 2 means inaccessible.
const wheelchairAccessible = 1
