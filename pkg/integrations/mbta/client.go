package mbta

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/transitroute/pkg/cache"
	"github.com/matzehuels/transitroute/pkg/integrations"
	"github.com/matzehuels/transitroute/pkg/network"
)

// DefaultBaseURL is the public MBTA v3 API.
const DefaultBaseURL = "https://api-v3.mbta.com"

// DefaultRouteTypes selects light and heavy rail, the subway network.
var DefaultRouteTypes = []int{network.RouteTypeLightRail, network.RouteTypeSubway}

// RouteInfo is a route as listed by /routes, before its stops are known.
type RouteInfo struct {
	ID       string
	LongName string
	Type     int
}

// Client provides access to the MBTA v3 API.
// All methods are safe for concurrent use.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates an MBTA client. An empty baseURL means
// [DefaultBaseURL]; an empty apiKey sends anonymous requests.
func NewClient(backend cache.Cache, baseURL, apiKey string, cacheTTL time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	headers := map[string]string{
		"Accept":     "application/vnd.api+json",
		"User-Agent": "transitroute/1.0 (https://github.com/matzehuels/transitroute)",
	}
	if apiKey != "" {
		headers["x-api-key"] = apiKey
	}
	return &Client{
		Client:  integrations.NewClient(backend, "mbta:", cacheTTL, headers),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchRoutes lists the routes of the given route types in API order.
// Responses are cached under the full request URL, base URL included.
// An empty routeTypes means [DefaultRouteTypes].
func (c *Client) FetchRoutes(ctx context.Context, routeTypes []int, refresh bool) ([]RouteInfo, error) {
	if len(routeTypes) == 0 {
		routeTypes = DefaultRouteTypes
	}
	q := url.Values{}
	q.Set("filter[type]", joinInts(routeTypes))
	endpoint := integrations.JoinURL(c.baseURL, "routes") + "?" + q.Encode()

	var resp routesResponse
	err := c.Cached(ctx, endpoint, refresh, &resp, func() error {
		return c.Get(ctx, endpoint, &resp)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch routes: %w", err)
	}

	routes := make([]RouteInfo, 0, len(resp.Data))
	for _, r := range resp.Data {
		if r.ID == "" {
			continue
		}
		routes = append(routes, RouteInfo{
			ID:       r.ID,
			LongName: r.Attributes.LongName,
			Type:     r.Attributes.Type,
		})
	}
	return routes, nil
}

// FetchStops lists the stops served by routeID. The second result is the
// route id echoed in the response's included resources, empty when absent.
func (c *Client) FetchStops(ctx context.Context, routeID string, refresh bool) ([]network.Stop, string, error) {
	q := url.Values{}
	q.Set("filter[route]", routeID)
	q.Set("include", "route")
	endpoint := integrations.JoinURL(c.baseURL, "stops") + "?" + q.Encode()

	var resp stopsResponse
	err := c.Cached(ctx, endpoint, refresh, &resp, func() error {
		return c.Get(ctx, endpoint, &resp)
	})
	if err != nil {
		return nil, "", fmt.Errorf("fetch stops for %s: %w", routeID, err)
	}

	stops := make([]network.Stop, 0, len(resp.Data))
	for _, s := range resp.Data {
		if s.Attributes.Name == "" {
			continue
		}
		stops = append(stops, network.Stop{
			Name:       s.Attributes.Name,
			Accessible: s.Attributes.WheelchairBoarding == wheelchairAccessible,
		})
	}

	var included string
	if len(resp.Included) > 0 {
		included = resp.Included[0].ID
	}
	return stops, included, nil
}

func joinInts(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
