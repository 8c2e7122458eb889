// Package mbta provides a client for the MBTA v3 API (https://api-v3.mbta.com).
//
// Two endpoints are used, both JSON:API:
//
//	GET /routes?filter[type]=0,1
//	GET /stops?filter[route]=Red&include=route
//
// [Client.FetchRoutes] lists routes of the requested GTFS route types
// (0 light rail, 1 heavy rail by default). [Client.FetchStops] lists the
// stops one route serves. [Loader] combines both into a
// [network.Network], fetching stop lists concurrently.
//
// An API key is optional. Without one the MBTA limits clients to 20
// requests per minute, which is enough for the subway but not for buses.
//
// [network.Network]: github.com/matzehuels/transitroute/pkg/network.Network
package mbta
