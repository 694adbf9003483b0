package reconcile

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/matzehuels/depsync/pkg/coord"
	"github.com/matzehuels/depsync/pkg/errors"
	"github.com/matzehuels/depsync/pkg/observability"
	"github.com/matzehuels/depsync/pkg/project"
	"github.com/matzehuels/depsync/pkg/version"
)

const (
	DefaultMaxStores = 64 // Default number of module stores kept resident
	DefaultWorkers   = 8  // Default concurrent metadata reads per build
)

// Config names the collaborators an Engine consumes.
type Config struct {
	Graph          project.ResolvedGraph   // required
	Declared       project.DeclaredIndex   // required
	Configurations project.Configurations  // default: project.GradleConfigurations
	Metadata       project.MetadataReader  // default: project.NoMetadata
	Modules        project.ModuleDirectory // optional; nil makes every module reference dangling
}

// Options tunes an Engine.
type Options struct {
	MaxStores int                  // Resident module stores before eviction (default: 64)
	Workers   int                  // Concurrent metadata reads per build (default: 8)
	Matcher   version.Matcher      // Version acceptance (default: version.Matches)
	Logger    func(string, ...any) // Skipped entries and dangling modules (optional)

	// Progress is called after each metadata read of a build with the
	// module path, reads finished and reads planned. Calls are serialized
	// and done reaches total once every read succeeded.
	Progress func(module string, done, total int)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.MaxStores <= 0 {
		opts.MaxStores = DefaultMaxStores
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Matcher == nil {
		opts.Matcher = version.Matches
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	if opts.Progress == nil {
		opts.Progress = func(string, int, int) {}
	}
	return opts
}

// Engine serves reconciliation queries for any number of modules. Each
// module's Store is built lazily on first use and kept until invalidated or
// evicted. Builds of different modules may run concurrently.
type Engine struct {
	cfg  Config
	opts Options

	mu     sync.Mutex
	stores *lru.Cache[string, *entry]
}

type entry struct {
	mu    sync.Mutex
	store *Store
}

// New creates an Engine.
func New(cfg Config, opts Options) (*Engine, error) {
	if cfg.Graph == nil || cfg.Declared == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "resolved graph and declared index are required")
	}
	if cfg.Configurations == nil {
		cfg.Configurations = project.GradleConfigurations{}
	}
	if cfg.Metadata == nil {
		cfg.Metadata = project.NoMetadata{}
	}
	opts = opts.WithDefaults()

	stores, err := lru.NewWithEvict(opts.MaxStores, func(path string, _ *entry) {
		observability.Reconcile().OnInvalidate(path)
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "create store cache")
	}
	return &Engine{cfg: cfg, opts: opts, stores: stores}, nil
}

func (e *Engine) entry(path string) *entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	if ent, ok := e.stores.Get(path); ok {
		return ent
	}
	ent := &entry{}
	e.stores.Add(path, ent)
	return ent
}

// Store returns m's store, building it when absent. A failed build leaves no
// store behind, so the next call retries.
func (e *Engine) Store(ctx context.Context, m project.Module) (*Store, error) {
	ent := e.entry(m.Path())
	ent.mu.Lock()
	defer ent.mu.Unlock()
	return e.ensure(ctx, ent, m)
}

func (e *Engine) ensure(ctx context.Context, ent *entry, m project.Module) (*Store, error) {
	if ent.store != nil {
		return ent.store, nil
	}
	s, err := e.build(ctx, m)
	if err != nil {
		return nil, err
	}
	ent.store = s
	return s, nil
}

func (e *Engine) build(ctx context.Context, m project.Module) (s *Store, err error) {
	hooks := observability.Reconcile()
	hooks.OnBuildStart(ctx, m.Path())
	start := time.Now()
	s = newStore(m)
	defer func() {
		s.stats.Duration = time.Since(start)
		s.count()
		hooks.OnBuildComplete(ctx, m.Path(), s.stats.Libraries, s.stats.Modules, s.stats.Duration, err)
	}()

	j := &joiner{
		store:    s,
		declared: e.cfg.Declared,
		configs:  e.cfg.Configurations,
		modules:  e.cfg.Modules,
		matches:  e.opts.Matcher,
		logf:     e.opts.Logger,
	}
	if err := Walk(ctx, e.cfg.Graph, m, j); err != nil {
		return s, err
	}
	progress := func(done, total int) { e.opts.Progress(m.Path(), done, total) }
	if err := s.readMetadata(ctx, e.cfg.Metadata, e.opts.Workers, progress); err != nil {
		return s, err
	}
	return s, nil
}

// Invalidate discards m's store; the next query rebuilds it.
func (e *Engine) Invalidate(m project.Module) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stores.Remove(m.Path())
}

// Resident returns the paths of the modules whose stores are built or being
// built, least recently used first.
func (e *Engine) Resident() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stores.Keys()
}

// Stats returns the statistics of m's last build, building the store if
// needed.
func (e *Engine) Stats(ctx context.Context, m project.Module) (BuildStats, error) {
	s, err := e.Store(ctx, m)
	if err != nil {
		return BuildStats{}, err
	}
	return s.Stats(), nil
}

// ForEachDependency calls fn for every node of m in creation order.
func (e *Engine) ForEachDependency(ctx context.Context, m project.Module, fn func(*Node)) error {
	s, err := e.Store(ctx, m)
	if err != nil {
		return err
	}
	for _, n := range s.Nodes() {
		fn(n)
	}
	return nil
}

// ForEachDeclaredDependency calls fn for every node of m that has at least
// one declared statement.
func (e *Engine) ForEachDeclaredDependency(ctx context.Context, m project.Module, fn func(*Node)) error {
	s, err := e.Store(ctx, m)
	if err != nil {
		return err
	}
	for _, n := range s.Declared() {
		fn(n)
	}
	return nil
}

// FindLibrary looks a library up by coordinate text or by "group:name".
// Unknown and ambiguous queries report false. A malformed query is an error.
func (e *Engine) FindLibrary(ctx context.Context, m project.Module, query string) (*Node, bool, error) {
	s, err := e.Store(ctx, m)
	if err != nil {
		return nil, false, err
	}
	n, err := s.LookupLibrary(query)
	switch {
	case err == nil:
		return n, true, nil
	case errors.Is(err, errors.ErrCodeAmbiguousFamily):
		e.opts.Logger("%v", err)
		return nil, false, nil
	case errors.Is(err, errors.ErrCodeNotFound):
		return nil, false, nil
	default:
		return nil, false, err
	}
}

// FindModule returns the module node for path.
func (e *Engine) FindModule(ctx context.Context, m project.Module, path string) (*Node, bool, error) {
	s, err := e.Store(ctx, m)
	if err != nil {
		return nil, false, err
	}
	n, ok := s.ModuleNode(path)
	return n, ok, nil
}

// TransitiveDependencies returns the nodes n's package metadata depends on.
func (e *Engine) TransitiveDependencies(ctx context.Context, m project.Module, n *Node) ([]*Node, error) {
	s, err := e.Store(ctx, m)
	if err != nil {
		return nil, err
	}
	return s.TransitiveDependencies(n), nil
}

// DeclareLibrary records a just-added declaration in m's store without a
// rebuild: the statement is bound to the node keyed by c, which is created
// when absent, and the containers are added. Creating a node with no
// container fails with ErrCodeInvalidInput. Calling it again with the same
// arguments changes nothing.
func (e *Engine) DeclareLibrary(ctx context.Context, m project.Module, c coord.Coordinate, containers []project.Container, d project.DeclaredDependency) (*Node, error) {
	ent := e.entry(m.Path())
	ent.mu.Lock()
	defer ent.mu.Unlock()

	s, err := e.ensure(ctx, ent, m)
	if err != nil {
		return nil, err
	}
	n, created, err := s.declareLibrary(c, containers, d)
	if err != nil {
		return nil, err
	}
	if created {
		if err := s.readNodeMetadata(ctx, e.cfg.Metadata, n); err != nil {
			e.opts.Logger("metadata for declared %s: %v", c, err)
		}
		s.count()
	}
	return n, nil
}

// DeclareModule is DeclareLibrary for a module dependency.
func (e *Engine) DeclareModule(ctx context.Context, m project.Module, path string, containers []project.Container, d project.DeclaredDependency) (*Node, error) {
	ent := e.entry(m.Path())
	ent.mu.Lock()
	defer ent.mu.Unlock()

	s, err := e.ensure(ctx, ent, m)
	if err != nil {
		return nil, err
	}
	var target project.TargetRef
	if e.cfg.Modules != nil {
		target = e.cfg.Modules.ResolveModuleByPath(path)
	}
	n, err := s.declareModule(path, target, containers, d)
	if err != nil {
		return nil, err
	}
	s.count()
	return n, nil
}
