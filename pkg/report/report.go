// Package report captures the reconciled state of a module as a
// serializable document and persists it.
//
// A [Report] lists every node of a module store with its containers,
// declared and resolved versions, promotion message and transitive
// dependencies. Reports are stored through the [Store] interface:
//   - MemoryStore: in-process, for tests and the HTTP server
//   - FileStore: JSON files under the cache directory, for the CLI
//   - MongoStore: a MongoDB collection shared between machines
//
// Usage:
//
//	r, err := report.Build(ctx, engine, module, snap.Hash())
//	if err != nil {
//	    return err
//	}
//	err = store.Save(ctx, r)
package report

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/depsync/pkg/project"
	"github.com/matzehuels/depsync/pkg/reconcile"
)

// ErrNotFound is returned when a report does not exist.
var ErrNotFound = errors.New("report not found")

// Report is the reconciled state of one module at one point in time.
type Report struct {
	ID        string               `json:"id" bson:"_id"`
	Module    string               `json:"module" bson:"module"`
	Source    string               `json:"source,omitempty" bson:"source,omitempty"`
	CreatedAt time.Time            `json:"created_at" bson:"created_at"`
	Stats     reconcile.BuildStats `json:"stats" bson:"stats"`
	Nodes     []Node               `json:"nodes" bson:"nodes"`
}

// Node is one reconciled dependency.
type Node struct {
	Key             string   `json:"key" bson:"key"`
	Kind            string   `json:"kind" bson:"kind"`
	Containers      []string `json:"containers" bson:"containers"`
	Statements      []string `json:"statements,omitempty" bson:"statements,omitempty"`
	Declared        bool     `json:"declared" bson:"declared"`
	Resolved        bool     `json:"resolved" bson:"resolved"`
	Promoted        bool     `json:"promoted,omitempty" bson:"promoted,omitempty"`
	Dangling        bool     `json:"dangling,omitempty" bson:"dangling,omitempty"`
	DeclaredVersion string   `json:"declared_version,omitempty" bson:"declared_version,omitempty"`
	ResolvedVersion string   `json:"resolved_version,omitempty" bson:"resolved_version,omitempty"`
	Message         string   `json:"message,omitempty" bson:"message,omitempty"`
	Transitive      []string `json:"transitive,omitempty" bson:"transitive,omitempty"`
}

// Promotions returns the nodes whose declared version was promoted.
func (r *Report) Promotions() []Node {
	var out []Node
	for _, n := range r.Nodes {
		if n.Promoted {
			out = append(out, n)
		}
	}
	return out
}

// Filter narrows List results.
type Filter struct {
	Module string // exact module path; empty matches all
	Limit  int    // 0 means no limit
}

// Store persists reports. List returns the newest reports first.
type Store interface {
	Save(ctx context.Context, r *Report) error
	// Get returns ErrNotFound when id is unknown.
	Get(ctx context.Context, id string) (*Report, error)
	List(ctx context.Context, f Filter) ([]*Report, error)
	// Delete returns ErrNotFound when id is unknown.
	Delete(ctx context.Context, id string) error
	Close(ctx context.Context) error
}

// Build snapshots the reconciled state of m. source identifies the project
// model the engine was built from, typically the snapshot hash.
func Build(ctx context.Context, e *reconcile.Engine, m project.Module, source string) (*Report, error) {
	stats, err := e.Stats(ctx, m)
	if err != nil {
		return nil, err
	}

	r := &Report{
		ID:        uuid.NewString(),
		Module:    m.Path(),
		Source:    source,
		CreatedAt: time.Now().UTC(),
		Stats:     stats,
	}

	var nodes []*reconcile.Node
	if err := e.ForEachDependency(ctx, m, func(n *reconcile.Node) { nodes = append(nodes, n) }); err != nil {
		return nil, err
	}
	for _, n := range nodes {
		rn, err := NodeOf(ctx, e, m, n)
		if err != nil {
			return nil, err
		}
		r.Nodes = append(r.Nodes, rn)
	}
	return r, nil
}

// NodeOf describes n, including its transitive dependencies.
func NodeOf(ctx context.Context, e *reconcile.Engine, m project.Module, n *reconcile.Node) (Node, error) {
	out := Node{
		Key:      n.Key(),
		Kind:     n.Kind().String(),
		Declared: n.IsDeclared(),
		Resolved: n.IsResolved(),
		Promoted: n.IsPromoted(),
		Dangling: n.Kind() == reconcile.KindModule && n.IsDangling(),
	}
	for _, c := range n.Containers() {
		out.Containers = append(out.Containers, c.String())
	}
	for _, d := range n.Statements() {
		out.Statements = append(out.Statements, Statement(d))
	}
	out.DeclaredVersion, _ = n.DeclaredVersion()
	out.ResolvedVersion, _ = n.ResolvedVersion()
	out.Message, _ = reconcile.PromotionMessage(n)

	if n.Kind() == reconcile.KindLibrary {
		deps, err := e.TransitiveDependencies(ctx, m, n)
		if err != nil {
			return Node{}, err
		}
		for _, d := range deps {
			out.Transitive = append(out.Transitive, d.Key())
		}
	}
	return out, nil
}

// Statement renders a declared dependency as "configuration target".
func Statement(d project.DeclaredDependency) string {
	target := d.CoordinateText()
	if p := d.ModulePath(); p != "" {
		target = p
	}
	return d.Configuration() + " " + target
}
