package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/matzehuels/transitroute/pkg/network"
)

// FormatVersion is the snapshot format written by this package.
const FormatVersion = 1

// Snapshot is a network together with where and when it was loaded.
type Snapshot struct {
	Version   int             `json:"version"`
	Source    string          `json:"source,omitempty"`
	FetchedAt time.Time       `json:"fetched_at,omitzero"`
	Routes    []network.Route `json:"routes"`
}

// NewSnapshot captures n, recording source and the current time.
func NewSnapshot(n *network.Network, source string) Snapshot {
	return Snapshot{
		Version:   FormatVersion,
		Source:    source,
		FetchedAt: time.Now().UTC().Truncate(time.Second),
		Routes:    n.Routes(),
	}
}

// Network rebuilds the network described by the snapshot.
func (s Snapshot) Network() (*network.Network, error) {
	return network.New(s.Routes)
}

// WriteJSON encodes s as indented JSON to w.
func WriteJSON(s Snapshot, w io.Writer) error {
	if s.Version == 0 {
		s.Version = FormatVersion
	}
	if s.Routes == nil {
		s.Routes = []network.Route{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a snapshot of n to the file at path.
func ExportJSON(n *network.Network, source, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(NewSnapshot(n, source), f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
