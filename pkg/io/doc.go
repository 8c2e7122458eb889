// Package io reads and writes transit network snapshots as JSON.
//
// A snapshot is everything the path resolver needs, so commands can run
// offline against a file instead of the live API:
//
//	{
//	  "version": 1,
//	  "source": "https://api-v3.mbta.com",
//	  "fetched_at": "2026-10-19T08:30:00Z",
//	  "routes": [
//	    {
//	      "id": "Red",
//	      "long_name": "Red Line",
//	      "type": 1,
//	      "stops": [{"name": "Alewife", "accessible": true}, {"name": "Davis"}]
//	    }
//	  ]
//	}
//
// Routes keep the order they were loaded in. Reading a snapshot rebuilds the
// network with [network.New], so malformed files (empty ids, duplicate ids,
// empty stop names) fail with the same errors as a bad API response.
//
// Use [ExportJSON] and [ImportJSON] for files, [WriteJSON] and [ReadJSON]
// for streams.
//
// [network.New]: github.com/matzehuels/transitroute/pkg/network.New
package io
