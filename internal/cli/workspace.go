package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depsync/pkg/cache"
	"github.com/matzehuels/depsync/pkg/errors"
	"github.com/matzehuels/depsync/pkg/integrations/maven"
	"github.com/matzehuels/depsync/pkg/project"
	"github.com/matzehuels/depsync/pkg/reconcile"
	"github.com/matzehuels/depsync/pkg/repository"
	"github.com/matzehuels/depsync/pkg/source/snapshot"
)

// redisPrefix scopes depsync keys in a shared Redis.
const redisPrefix = "depsync:"

// sourceFlags are the flags every snapshot-reading command accepts.
type sourceFlags struct {
	module  string
	remote  bool
	noCache bool
	refresh bool
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.module, "module", "m", "", "module path (default: first module in the snapshot)")
	cmd.Flags().BoolVar(&f.remote, "remote", false, "read missing package metadata from the Maven repository")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the metadata cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "refetch remote metadata")
}

// workspace is a loaded snapshot with an engine over it.
type workspace struct {
	path   string
	snap   *snapshot.Snapshot
	engine *reconcile.Engine
	cache  cache.Cache
	keyer  cache.Keyer
	remote *maven.Client // nil unless remote metadata is enabled
	status *Spinner      // metadata read progress
}

// openWorkspace loads the snapshot at path and builds an engine whose
// metadata comes from, in order: the snapshot's [[metadata]], the local
// Maven/Gradle repositories and, when enabled, the remote repository.
func (c *CLI) openWorkspace(ctx context.Context, path string, f sourceFlags) (*workspace, error) {
	snap, err := snapshot.Load(path)
	if err != nil {
		return nil, err
	}
	loggerFromContext(ctx).Debug("loaded snapshot", "path", path, "modules", len(snap.Modules()), "hash", snap.Hash()[:12])

	ch, keyer, err := c.newCache(ctx, f.noCache)
	if err != nil {
		return nil, err
	}

	var readers reconcile.ChainReaders
	if snap.HasMetadata() {
		readers = append(readers, snap)
	}
	readers = append(readers, repository.NewLocal(c.Config.RepoRoots...))
	var remote *maven.Client
	if f.remote || c.Config.RemoteMetadata {
		remote, err = c.newMavenClient(ch, keyer, f.refresh)
		if err != nil {
			ch.Close()
			return nil, err
		}
		readers = append(readers, reconcile.LenientReader{Reader: remote, Logger: c.Logger.Warnf})
	}

	status := newSpinner(c.out)
	engine, err := reconcile.New(reconcile.Config{
		Graph:    snap,
		Declared: snap,
		Metadata: readers,
		Modules:  snap,
	}, reconcile.Options{
		MaxStores: c.Config.MaxStores,
		Logger:    c.Logger.Warnf,
		Progress:  status.Progress,
	})
	if err != nil {
		ch.Close()
		return nil, err
	}
	return &workspace{path: path, snap: snap, engine: engine, cache: ch, keyer: keyer, remote: remote, status: status}, nil
}

// newMavenClient returns a client for the configured remote repository.
func (c *CLI) newMavenClient(ch cache.Cache, keyer cache.Keyer, refresh bool) (*maven.Client, error) {
	client := maven.NewClient(ch, c.Config.CacheTTL).WithRefresh(refresh)
	client.WithKeyer(keyer)
	if u := c.Config.MavenURL; u != "" {
		if err := errors.ValidateURL(u); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "DEPSYNC_MAVEN_URL")
		}
		client = client.WithRepository(u)
	}
	return client, nil
}

// newCache returns Redis when configured, else the file cache. Keys are
// scoped when Redis is shared.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, cache.Keyer, error) {
	if noCache {
		return cache.NewNullCache(), cache.NewDefaultKeyer(), nil
	}
	if c.Config.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, c.Config.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		return rc, cache.NewScopedKeyer(cache.NewDefaultKeyer(), redisPrefix), nil
	}
	fc, err := cache.NewFileCache(c.Config.HTTPCacheDir())
	if err != nil {
		c.Logger.Warn("file cache unavailable, continuing without", "err", err)
		return cache.NewNullCache(), cache.NewDefaultKeyer(), nil
	}
	return fc, cache.NewDefaultKeyer(), nil
}

func (w *workspace) Close() error {
	w.status.Stop()
	return w.cache.Close()
}

// module returns the module at path, or the first module when path is empty.
func (w *workspace) module(path string) (*snapshot.Module, error) {
	if path == "" {
		mods := w.snap.Modules()
		if len(mods) == 0 {
			return nil, fmt.Errorf("snapshot %s has no modules", w.path)
		}
		return mods[0], nil
	}
	m, ok := w.snap.Module(path)
	if !ok {
		return nil, fmt.Errorf("module %s not found in %s", path, w.path)
	}
	return m, nil
}

// lookup adapts the snapshot for the HTTP server.
func (w *workspace) lookup(path string) (project.Module, bool) {
	m, ok := w.snap.Module(path)
	if !ok {
		return nil, false
	}
	return m, true
}

func (w *workspace) modulePaths() []string {
	var out []string
	for _, m := range w.snap.Modules() {
		out = append(out, m.Path())
	}
	return out
}
