// Package reconcile joins a module's resolved dependency graph with the
// dependencies declared in its build files.
//
// # Overview
//
// A build tool resolves dependencies per (variant, artifact) pair, called a
// container. Build files declare dependencies per configuration. The two
// views disagree in shape: one library appears in many containers, one
// declaration may produce zero or more resolved coordinates, and the resolver
// may pick a different version than the one requested. This package produces
// a single deduplicated [Node] per dependency that records:
//
//   - which declared statements produced it
//   - which containers pull it in
//   - whether the resolved version differs from the request (promotion)
//   - which other nodes its own package metadata depends on
//
// # Building
//
// An [Engine] owns one [Store] per module. The store is built lazily on the
// first query: [Walk] visits every resolved library and module dependency of
// every container, the store joins each visit against the declared index,
// and a closure pass reads every library's package metadata. Queries are then
// served from the store until [Engine.Invalidate] discards it.
//
//	eng, err := reconcile.New(reconcile.Config{
//	    Graph:          graph,
//	    Declared:       index,
//	    Configurations: project.GradleConfigurations{},
//	    Metadata:       reader,
//	    Modules:        dir,
//	}, reconcile.Options{})
//
//	node, ok, err := eng.FindLibrary(ctx, app, "com.example:util")
//	if ok && node.IsPromoted() {
//	    msg, _ := reconcile.PromotionMessage(node)
//	    fmt.Println(msg)
//	}
//
// # Tolerated Input
//
// Malformed coordinates from the resolved graph are skipped, module
// references without a project module produce dangling module nodes, and
// ambiguous family lookups answer "not found". Only failures of the resolved
// graph or the metadata reader abort a build; they are returned wrapped with
// [errors.ErrCodeCollaborator] and the next query retries the build.
//
// [errors.ErrCodeCollaborator]: github.com/matzehuels/depsync/pkg/errors.ErrCodeCollaborator
package reconcile
