// Package config loads depsync settings from a .env file and the
// environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/matzehuels/depsync/pkg/repository"
)

const appName = "depsync"

// Defaults.
const (
	DefaultCacheTTL = 7 * 24 * time.Hour
	DefaultMongoDB  = "depsync"
	DefaultAddr     = ":8080"
)

// Config holds settings shared by CLI commands.
type Config struct {
	CacheDir       string        // DEPSYNC_CACHE_DIR, default $XDG_CACHE_HOME/depsync
	CacheTTL       time.Duration // DEPSYNC_CACHE_TTL
	RedisURL       string        // DEPSYNC_REDIS_URL; empty keeps the file cache
	MongoURI       string        // DEPSYNC_MONGO_URI; empty stores reports as files
	MongoDB        string        // DEPSYNC_MONGO_DB
	RepoRoots      []string      // DEPSYNC_MAVEN_REPO, path-list separated
	RemoteMetadata bool          // DEPSYNC_REMOTE_METADATA
	MavenURL       string        // DEPSYNC_MAVEN_URL
	MaxStores      int           // DEPSYNC_MAX_STORES; 0 uses the engine default
	Addr           string        // DEPSYNC_ADDR
}

// Load reads .env from the working directory when present, then the
// environment. Malformed numeric or duration values fall back to defaults.
func Load() *Config {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) *Config {
	get := func(key string) string { return strings.TrimSpace(getenv(key)) }

	cfg := &Config{
		CacheDir:       get("DEPSYNC_CACHE_DIR"),
		CacheTTL:       DefaultCacheTTL,
		RedisURL:       get("DEPSYNC_REDIS_URL"),
		MongoURI:       get("DEPSYNC_MONGO_URI"),
		MongoDB:        firstNonEmpty(get("DEPSYNC_MONGO_DB"), DefaultMongoDB),
		RemoteMetadata: parseBool(get("DEPSYNC_REMOTE_METADATA")),
		MavenURL:       get("DEPSYNC_MAVEN_URL"),
		Addr:           firstNonEmpty(get("DEPSYNC_ADDR"), DefaultAddr),
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = cacheDir(get("XDG_CACHE_HOME"))
	}
	if v := get("DEPSYNC_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.CacheTTL = d
		}
	}
	if v := get("DEPSYNC_MAX_STORES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxStores = n
		}
	}
	if v := get("DEPSYNC_MAVEN_REPO"); v != "" {
		for _, root := range filepath.SplitList(v) {
			if root = strings.TrimSpace(root); root != "" {
				cfg.RepoRoots = append(cfg.RepoRoots, root)
			}
		}
	}
	if len(cfg.RepoRoots) == 0 {
		cfg.RepoRoots = repository.DefaultRoots()
	}
	return cfg
}

// ReportDir is where file-backed reports are kept.
func (c *Config) ReportDir() string {
	return filepath.Join(c.CacheDir, "reports")
}

// HTTPCacheDir is where the file cache keeps metadata responses.
func (c *Config) HTTPCacheDir() string {
	return filepath.Join(c.CacheDir, "http")
}

// cacheDir follows the XDG rule: $XDG_CACHE_HOME/depsync or ~/.cache/depsync.
func cacheDir(xdg string) string {
	if xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(home, ".cache", appName)
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
