package reconcile

import (
	"slices"

	"github.com/matzehuels/depsync/pkg/project"
)

// ContainerSet accumulates the containers that reference a node. Insertion is
// idempotent and iteration follows first insertion.
type ContainerSet struct {
	items []project.Container
	seen  map[project.Container]struct{}
}

// Add inserts c and reports whether it was new.
func (s *ContainerSet) Add(c project.Container) bool {
	if s.seen == nil {
		s.seen = make(map[project.Container]struct{})
	}
	if _, ok := s.seen[c]; ok {
		return false
	}
	s.seen[c] = struct{}{}
	s.items = append(s.items, c)
	return true
}

// Contains reports whether c is in the set.
func (s *ContainerSet) Contains(c project.Container) bool {
	_, ok := s.seen[c]
	return ok
}

// Len returns the number of containers.
func (s *ContainerSet) Len() int { return len(s.items) }

// Items returns a copy of the containers in insertion order.
func (s *ContainerSet) Items() []project.Container { return slices.Clone(s.items) }

// Variants returns the distinct variants in insertion order.
func (s *ContainerSet) Variants() []project.VariantRef {
	var out []project.VariantRef
	for _, c := range s.items {
		if !slices.Contains(out, c.Variant) {
			out = append(out, c.Variant)
		}
	}
	return out
}
