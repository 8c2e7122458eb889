package cache

import (
	"context"
	"strings"
)

// Options selects and configures a backend for [Open].
type Options struct {
	Backend       string // file, redis, mongo or none; empty means file
	Dir           string // file backend directory
	RedisAddr     string
	MongoURI      string
	MongoDatabase string
}

// Open creates the backend named by opts.Backend.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendFile:
		if opts.Dir == "" {
			return nil, ErrMissingAddress
		}
		c, err := NewFileCache(opts.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, opts.RedisAddr)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendMongo:
		c, err := NewMongoCache(ctx, opts.MongoURI, opts.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendNone:
		return NewNullCache(), nil
	default:
		return nil, unknownBackend(opts.Backend)
	}
}
