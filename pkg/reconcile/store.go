package reconcile

import (
	"time"

	"github.com/matzehuels/depsync/pkg/coord"
	"github.com/matzehuels/depsync/pkg/errors"
	"github.com/matzehuels/depsync/pkg/project"
	"github.com/matzehuels/depsync/pkg/version"
)

// BuildStats summarizes one store build.
type BuildStats struct {
	Visits            int           `json:"visits"`
	Libraries         int           `json:"libraries"`
	Modules           int           `json:"modules"`
	Promotions        int           `json:"promotions"`
	SkippedMalformed  int           `json:"skipped_malformed"`
	UnmatchedVersions int           `json:"unmatched_versions"`
	DanglingModules   int           `json:"dangling_modules"`
	Duration          time.Duration `json:"duration"`
}

// Store is the reconciled view of one module: at most one library node per
// coordinate text and one module node per path. A Store is not safe for
// concurrent mutation; the Engine serializes builds and declarations per
// module.
type Store struct {
	module project.Module

	libraries map[string]*Node
	modules   map[string]*Node
	order     []*Node // libraries and modules in creation order

	stats BuildStats
}

func newStore(m project.Module) *Store {
	return &Store{
		module:    m,
		libraries: make(map[string]*Node),
		modules:   make(map[string]*Node),
	}
}

// Module returns the module the store describes.
func (s *Store) Module() project.Module { return s.module }

// Stats returns the statistics of the build that produced the store.
func (s *Store) Stats() BuildStats { return s.stats }

// Nodes returns every node in creation order.
func (s *Store) Nodes() []*Node {
	out := make([]*Node, len(s.order))
	copy(out, s.order)
	return out
}

// Libraries returns the library nodes in creation order.
func (s *Store) Libraries() []*Node { return s.filter(func(n *Node) bool { return n.kind == KindLibrary }) }

// Modules returns the module nodes in creation order.
func (s *Store) Modules() []*Node { return s.filter(func(n *Node) bool { return n.kind == KindModule }) }

// Declared returns the nodes with at least one bound statement.
func (s *Store) Declared() []*Node { return s.filter((*Node).IsDeclared) }

func (s *Store) filter(keep func(*Node) bool) []*Node {
	var out []*Node
	for _, n := range s.order {
		if keep(n) {
			out = append(out, n)
		}
	}
	return out
}

// Library returns the library node keyed by the coordinate text.
func (s *Store) Library(key string) (*Node, bool) {
	n, ok := s.libraries[key]
	return n, ok
}

// ModuleNode returns the module node for path.
func (s *Store) ModuleNode(path string) (*Node, bool) {
	n, ok := s.modules[path]
	return n, ok
}

// LookupLibrary finds a library by full coordinate text or by family. A
// family matching several resolved nodes is ambiguous and reported with
// errors.ErrCodeAmbiguousFamily; callers treat it as not found.
func (s *Store) LookupLibrary(query string) (*Node, error) {
	q, err := coord.ParseQuery(query)
	if err != nil {
		return nil, err
	}
	if q.HasVersion() {
		if n, ok := s.libraries[q.String()]; ok {
			return n, nil
		}
		return nil, errors.New(errors.ErrCodeNotFound, "library %s not found in %s", q, s.module.Path())
	}
	return s.lookupFamily(q)
}

func (s *Store) lookupFamily(q coord.Coordinate) (*Node, error) {
	var resolved, all []*Node
	for _, n := range s.order {
		if n.kind != KindLibrary || !n.coordinate.SameFamily(q) {
			continue
		}
		all = append(all, n)
		if n.resolved {
			resolved = append(resolved, n)
		}
	}
	candidates := resolved
	if len(candidates) == 0 {
		candidates = all
	}
	switch len(candidates) {
	case 0:
		return nil, errors.New(errors.ErrCodeNotFound, "library %s not found in %s", q.Family(), s.module.Path())
	case 1:
		return candidates[0], nil
	default:
		return nil, errors.New(errors.ErrCodeAmbiguousFamily,
			"%s matches %d libraries in %s", q.Family(), len(candidates), s.module.Path())
	}
}

func (s *Store) library(c coord.Coordinate) *Node {
	key := c.String()
	if n, ok := s.libraries[key]; ok {
		return n
	}
	n := newLibraryNode(c)
	s.libraries[key] = n
	s.order = append(s.order, n)
	return n
}

// joiner receives walker visits and joins them against declared statements.
type joiner struct {
	store    *Store
	declared project.DeclaredIndex
	configs  project.Configurations
	modules  project.ModuleDirectory
	matches  version.Matcher
	logf     func(string, ...any)
}

func (j *joiner) OnSkip(c project.Container, text string, err error) {
	j.store.stats.SkippedMalformed++
	j.logf("skipping %q in %s: %v", text, c, err)
}

func (j *joiner) OnLibrary(c project.Container, resolved coord.Coordinate) {
	s := j.store
	s.stats.Visits++

	applies := project.PredicateFor(j.configs, c)
	found := j.declared.FindLibraryMatches(s.module, resolved.Family(), applies)
	if len(found) == 0 {
		j.resolvedNode(c, resolved)
		return
	}

	for _, d := range found {
		requested, ok := d.VersionText()
		switch {
		case !ok || requested == "" || requested == resolved.Version || j.matches(requested, resolved.Version):
			j.resolvedNode(c, resolved).bind(d)
		case version.Relate(requested, resolved.Version) == version.Incomparable:
			// A range or qualified version has no order against the
			// resolved one, so the resolved node stays unmatched.
			s.stats.UnmatchedVersions++
			j.logf("%s: %s requests %q, resolved %s; not comparable", errors.ErrCodeMalformedVersion, resolved.Family(), requested, resolved.Version)
			j.resolvedNode(c, resolved)
		default:
			j.promote(c, d, resolved, requested)
		}
	}
}

// promote records a declaration whose version the resolver did not honor:
// one node for the request and one for what was resolved.
func (j *joiner) promote(c project.Container, d project.DeclaredDependency, resolved coord.Coordinate, requested string) {
	s := j.store
	req := s.library(declaredCoordinate(d, resolved, requested))
	if !req.promoted {
		req.promoted = true
		s.stats.Promotions++
	}
	if req.promotedTo == nil {
		r := resolved
		req.promotedTo = &r
	}
	req.bind(d)
	req.containers.Add(c)

	j.resolvedNode(c, resolved)
}

func (j *joiner) resolvedNode(c project.Container, resolved coord.Coordinate) *Node {
	n := j.store.library(resolved)
	n.resolved = true
	n.containers.Add(c)
	return n
}

// declaredCoordinate returns the coordinate a statement requests, falling
// back to the resolved family with the requested version when the statement
// text does not parse.
func declaredCoordinate(d project.DeclaredDependency, resolved coord.Coordinate, requested string) coord.Coordinate {
	if c, err := coord.Parse(d.CoordinateText()); err == nil && c.SameFamily(resolved) {
		return c
	}
	return coord.Coordinate{
		Group:      resolved.Group,
		Name:       resolved.Name,
		Version:    requested,
		Classifier: resolved.Classifier,
		Packaging:  resolved.Packaging,
	}
}

func (j *joiner) OnModule(c project.Container, path, targetVariant string) {
	s := j.store
	s.stats.Visits++

	n := j.moduleNode(path)
	if d := j.declared.FindModuleMatch(s.module, path, project.PredicateFor(j.configs, c)); d != nil {
		n.bind(d)
	}
	n.addTargetVariant(targetVariant)
	n.containers.Add(c)
}

func (j *joiner) moduleNode(path string) *Node {
	s := j.store
	if n, ok := s.modules[path]; ok {
		return n
	}
	var target project.TargetRef
	if j.modules != nil {
		target = j.modules.ResolveModuleByPath(path)
	}
	if target == nil {
		s.stats.DanglingModules++
		j.logf("%s: module %s referenced from %s has no project module", errors.ErrCodeUnresolvedModule, path, s.module.Path())
	}
	n := newModuleNode(path, target)
	s.modules[path] = n
	s.order = append(s.order, n)
	return n
}

// declareLibrary binds d to the node keyed by c, creating a declared-only
// node when none exists. It reports whether the node was created. A new
// node needs at least one container.
func (s *Store) declareLibrary(c coord.Coordinate, containers []project.Container, d project.DeclaredDependency) (*Node, bool, error) {
	_, existed := s.libraries[c.String()]
	if !existed && len(containers) == 0 {
		return nil, false, errors.New(errors.ErrCodeInvalidInput, "%s %s applies to no container", d.Configuration(), c)
	}
	n := s.library(c)
	n.bind(d)
	for _, ct := range containers {
		n.containers.Add(ct)
	}
	return n, !existed, nil
}

func (s *Store) declareModule(path string, target project.TargetRef, containers []project.Container, d project.DeclaredDependency) (*Node, error) {
	n, ok := s.modules[path]
	if !ok {
		if len(containers) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "%s %s applies to no container", d.Configuration(), path)
		}
		n = newModuleNode(path, target)
		s.modules[path] = n
		s.order = append(s.order, n)
	}
	n.bind(d)
	for _, ct := range containers {
		n.containers.Add(ct)
	}
	return n, nil
}

func (s *Store) count() {
	s.stats.Libraries = len(s.libraries)
	s.stats.Modules = len(s.modules)
}
