package reconcile

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/depsync/pkg/coord"
	"github.com/matzehuels/depsync/pkg/errors"
	"github.com/matzehuels/depsync/pkg/project"
)

type metadataJob struct {
	coordinate coord.Coordinate
	nodes      []*Node
}

// readMetadata loads the transitive specs of every library node. Each
// coordinate is read once per build even when several nodes share it.
func (s *Store) readMetadata(ctx context.Context, reader project.MetadataReader, workers int, progress func(done, total int)) error {
	byKey := make(map[string]*metadataJob)
	var jobs []*metadataJob
	for _, n := range s.order {
		if n.kind != KindLibrary {
			continue
		}
		c, ok := n.metadataCoordinate()
		if !ok {
			continue
		}
		key := c.Full()
		j, ok := byKey[key]
		if !ok {
			j = &metadataJob{coordinate: c}
			byKey[key] = j
			jobs = append(jobs, j)
		}
		j.nodes = append(j.nodes, n)
	}

	var (
		mu   sync.Mutex
		done int
	)
	results := make([][]coord.Coordinate, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, j := range jobs {
		g.Go(func() error {
			specs, err := readSpecs(gctx, reader, j.coordinate)
			if err != nil {
				return err
			}
			results[i] = specs
			mu.Lock()
			done++
			progress(done, len(jobs))
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, j := range jobs {
		for _, n := range j.nodes {
			n.specs = results[i]
		}
	}
	return nil
}

func (s *Store) readNodeMetadata(ctx context.Context, reader project.MetadataReader, n *Node) error {
	c, ok := n.metadataCoordinate()
	if !ok {
		return nil
	}
	specs, err := readSpecs(ctx, reader, c)
	if err != nil {
		return err
	}
	n.specs = specs
	return nil
}

func readSpecs(ctx context.Context, reader project.MetadataReader, c coord.Coordinate) ([]coord.Coordinate, error) {
	specs, err := reader.ReadTransitiveSpecs(ctx, c)
	if err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrCodeCollaborator, err, "read metadata for %s", c)
	}
	return dedupSpecs(specs), nil
}

func dedupSpecs(specs []coord.Coordinate) []coord.Coordinate {
	if len(specs) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(specs))
	out := make([]coord.Coordinate, 0, len(specs))
	for _, c := range specs {
		if key := c.String(); !seen[key] {
			seen[key] = true
			out = append(out, c)
		}
	}
	return out
}

// TransitiveDependencies returns the resolved library nodes that n's package
// metadata lists. A spec matches the node with the same coordinate text, or
// else the single resolved node of its family; specs whose family matches
// several nodes are dropped. The result excludes n and holds each node once.
//
// The answer is computed on every call from the settled node set.
func (s *Store) TransitiveDependencies(n *Node) []*Node {
	if n == nil || n.kind != KindLibrary {
		return nil
	}
	seen := map[*Node]bool{n: true}
	var out []*Node
	for _, spec := range n.specs {
		m := s.resolveSpec(spec)
		if m == nil || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}

func (s *Store) resolveSpec(spec coord.Coordinate) *Node {
	if spec.HasVersion() {
		if m, ok := s.libraries[spec.String()]; ok && m.resolved {
			return m
		}
	}
	var match *Node
	for _, m := range s.order {
		if m.kind != KindLibrary || !m.resolved || !m.coordinate.SameFamily(spec) {
			continue
		}
		if match != nil {
			return nil
		}
		match = m
	}
	return match
}
