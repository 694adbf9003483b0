package reconcile

import (
	"context"

	"github.com/matzehuels/depsync/pkg/dag"
	"github.com/matzehuels/depsync/pkg/errors"
	"github.com/matzehuels/depsync/pkg/project"
)

// Graph exports m's reconciled dependencies as a DAG rooted at the module.
// The root has an edge to every declared node and every module dependency,
// a promoted request points to the node that replaced it, and each library
// points to its transitive dependencies.
func (e *Engine) Graph(ctx context.Context, m project.Module) (*dag.DAG, error) {
	s, err := e.Store(ctx, m)
	if err != nil {
		return nil, err
	}
	return s.Graph()
}

// Graph exports the store; see Engine.Graph. A promotion that points back
// at its own node adds no edge.
func (s *Store) Graph() (*dag.DAG, error) {
	g := dag.New(dag.Metadata{"module": s.module.Path()})
	root := s.module.Path()
	if err := g.AddNode(dag.Node{ID: root, Kind: dag.NodeKindRoot}); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "export %s", root)
	}
	for _, n := range s.order {
		if err := g.AddNode(dag.Node{ID: n.Key(), Kind: dagKind(n), Meta: nodeMeta(n)}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "export %s", n.Key())
		}
	}

	var edges []dag.Edge
	for _, n := range s.order {
		if n.IsDeclared() || n.kind == KindModule {
			edges = append(edges, dag.Edge{From: root, To: n.Key()})
		}
		if to, ok := n.PromotedTo(); ok && to.String() != n.Key() {
			edges = append(edges, dag.Edge{From: n.Key(), To: to.String(), Meta: dag.Metadata{"promotion": true}})
		}
		for _, dep := range s.TransitiveDependencies(n) {
			edges = append(edges, dag.Edge{From: n.Key(), To: dep.Key()})
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(e); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "export edge %s -> %s", e.From, e.To)
		}
	}
	return g, nil
}

func dagKind(n *Node) dag.NodeKind {
	if n.kind == KindModule {
		return dag.NodeKindModule
	}
	return dag.NodeKindLibrary
}

func nodeMeta(n *Node) dag.Metadata {
	containers := make([]string, 0, n.ContainerCount())
	for _, c := range n.Containers() {
		containers = append(containers, c.String())
	}
	meta := dag.Metadata{
		"containers": containers,
		"declared":   n.IsDeclared(),
	}
	if n.kind == KindModule {
		meta["dangling"] = n.IsDangling()
		if v := n.TargetVariants(); len(v) > 0 {
			meta["target_variants"] = v
		}
		return meta
	}
	meta["resolved"] = n.IsResolved()
	meta["promoted"] = n.IsPromoted()
	if v, ok := n.ResolvedVersion(); ok {
		meta["version"] = v
	}
	if v, ok := n.DeclaredVersion(); ok {
		meta["declared_version"] = v
	}
	if msg, ok := PromotionMessage(n); ok {
		meta["message"] = msg
	}
	return meta
}
