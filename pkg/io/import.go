package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/transitroute/pkg/network"
)

// ErrUnsupportedVersion is returned for snapshots written by a newer format.
var ErrUnsupportedVersion = errors.New("unsupported snapshot version")

// ReadJSON decodes a snapshot from r. It does not build the network; call
// [Snapshot.Network] for that. ReadJSON does not close r.
func ReadJSON(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("decode: %w", err)
	}
	if s.Version > FormatVersion {
		return Snapshot{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, s.Version)
	}
	return s, nil
}

// ImportJSON reads the snapshot file at path and builds its network.
func ImportJSON(path string) (*network.Network, Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Snapshot{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	s, err := ReadJSON(f)
	if err != nil {
		return nil, Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}
	n, err := s.Network()
	if err != nil {
		return nil, Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}
	return n, s, nil
}
