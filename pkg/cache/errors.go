package cache

import (
	"errors"
	"fmt"
	"strings"
)

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

var (
	// ErrUnknownBackend is returned by [Open] for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown cache backend")

	// ErrMissingAddress is returned when a remote backend has no address.
	ErrMissingAddress = errors.New("cache backend address not set")
)

// Backends returns the supported backend names.
func Backends() []string {
	return []string{BackendFile, BackendRedis, BackendMongo, BackendNone}
}

func unknownBackend(name string) error {
	return fmt.Errorf("%w %q (want one of %s)", ErrUnknownBackend, name, strings.Join(Backends(), ", "))
}
