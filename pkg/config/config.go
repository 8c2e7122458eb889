// Package config loads transitroute settings.
//
// Settings come from three layers, later layers winning:
//
//  1. [Default]
//  2. a TOML file, by default $XDG_CONFIG_HOME/transitroute/config.toml
//  3. environment variables, optionally seeded from a .env file
//
// A complete file looks like:
//
//	[api]
//	base_url = "https://api-v3.mbta.com"
//	api_key = ""
//	timeout = "10s"
//	concurrency = 4
//	route_types = [0, 1]
//
//	[cache]
//	backend = "file"          # file, redis, mongo or none
//	ttl = "24h"
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//	allowed_origins = ["*"]
//
//	[closures]
//	mode = "normal"           # normal or covid19
//	stops = ["Park Street"]
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/matzehuels/transitroute/pkg/cache"
	apperr "github.com/matzehuels/transitroute/pkg/errors"
	"github.com/matzehuels/transitroute/pkg/integrations/mbta"
	"github.com/matzehuels/transitroute/pkg/network"
)

// AppName names the config and cache directories.
const AppName = "transitroute"

// Config is the full application configuration.
type Config struct {
	API      APIConfig      `toml:"api"`
	Cache    CacheConfig    `toml:"cache"`
	Server   ServerConfig   `toml:"server"`
	Closures ClosuresConfig `toml:"closures"`
}

// APIConfig configures the MBTA API client.
type APIConfig struct {
	BaseURL     string        `toml:"base_url" validate:"required,url"`
	APIKey      string        `toml:"api_key"`
	Timeout     time.Duration `toml:"timeout" validate:"gt=0"`
	Concurrency int           `toml:"concurrency" validate:"gte=1,lte=32"`
	RouteTypes  []int         `toml:"route_types" validate:"min=1,dive,gte=0,lte=4"`
}

// CacheConfig selects the response cache backend.
type CacheConfig struct {
	Backend       string        `toml:"backend" validate:"oneof=file redis mongo none"`
	Dir           string        `toml:"dir"`
	TTL           time.Duration `toml:"ttl" validate:"gte=0"`
	KeyPrefix     string        `toml:"key_prefix"`
	RedisAddr     string        `toml:"redis_addr" validate:"required_if=Backend redis"`
	MongoURI      string        `toml:"mongo_uri" validate:"required_if=Backend mongo"`
	MongoDatabase string        `toml:"mongo_database"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr           string   `toml:"addr" validate:"required"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// ClosuresConfig sets the default closure policy.
type ClosuresConfig struct {
	Mode  string   `toml:"mode" validate:"oneof=normal covid19"`
	Stops []string `toml:"stops" validate:"dive,required"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL:     mbta.DefaultBaseURL,
			Timeout:     10 * time.Second,
			Concurrency: mbta.DefaultConcurrency,
			RouteTypes:  []int{network.RouteTypeLightRail, network.RouteTypeSubway},
		},
		Cache: CacheConfig{
			Backend:       cache.BackendFile,
			TTL:           cache.TTLHTTP,
			MongoDatabase: AppName,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
		},
		Closures: ClosuresConfig{
			Mode: network.ModeNormal,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/transitroute/config.toml (or the
// platform equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName, "config.toml"), nil
}

// DefaultCacheDir returns the directory used by the file cache backend.
func DefaultCacheDir() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}

// Load reads the configuration file at path over the defaults, applies
// environment overrides and validates the result.
//
// An empty path means [DefaultPath], which may be missing. An explicit path
// must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return Config{}, apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "read config %s", path)
			}
		}
	}

	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDotEnv loads environment variables from the given .env files (or
// ".env" when none are given). Missing files are ignored and variables
// already set are kept.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Environment variables read by [Config.ApplyEnv].
const (
	EnvAPIKey       = "MBTA_API_KEY"
	EnvBaseURL      = "MBTA_BASE_URL"
	EnvCacheBackend = "TRANSITROUTE_CACHE_BACKEND"
	EnvCacheDir     = "TRANSITROUTE_CACHE_DIR"
	EnvMode         = "TRANSITROUTE_MODE"
	EnvRedisAddr    = "REDIS_ADDR"
	EnvMongoURI     = "MONGO_URI"
	EnvPort         = "PORT"
)

// ApplyEnv overrides settings from environment variables looked up with
// getenv. Empty values are ignored.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.API.APIKey, EnvAPIKey)
	set(&c.API.BaseURL, EnvBaseURL)
	set(&c.Cache.Backend, EnvCacheBackend)
	set(&c.Cache.Dir, EnvCacheDir)
	set(&c.Cache.RedisAddr, EnvRedisAddr)
	set(&c.Cache.MongoURI, EnvMongoURI)
	set(&c.Closures.Mode, EnvMode)
	if port := getenv(EnvPort); port != "" {
		c.Server.Addr = ":" + port
	}
}

var validate = validator.New()

// Validate checks every field against its constraints. Failures carry the
// INVALID_CONFIG code.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return apperr.Wrap(apperr.ErrCodeInvalidConfig, err,
				"invalid config: %s fails %q", fe.Namespace(), fe.Tag())
		}
		return apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "invalid config")
	}
	return nil
}

// CacheOptions converts the cache section for [cache.Open], filling in the
// default directory for the file backend.
func (c *Config) CacheOptions() (cache.Options, error) {
	dir := c.Cache.Dir
	if dir == "" && (c.Cache.Backend == cache.BackendFile || c.Cache.Backend == "") {
		d, err := DefaultCacheDir()
		if err != nil {
			return cache.Options{}, err
		}
		dir = d
	}
	return cache.Options{
		Backend:       c.Cache.Backend,
		Dir:           dir,
		RedisAddr:     c.Cache.RedisAddr,
		MongoURI:      c.Cache.MongoURI,
		MongoDatabase: c.Cache.MongoDatabase,
	}, nil
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
