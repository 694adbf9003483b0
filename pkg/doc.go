// Package pkg provides the libraries behind depsync, a dependency
// reconciliation engine for multi-module builds.
//
// # Overview
//
// A build file states what a module depends on; the build tool resolves what
// it actually gets, per variant and artifact. depsync joins the two views so
// tools can answer "which statement brought this library in", "why is the
// version different from the one I wrote" and "which module does :core point
// to". The pkg directory is organized into these areas:
//
//  1. [coord], [version] - Maven coordinates and version matching
//  2. [project] - The collaborator interfaces the engine consumes
//  3. [reconcile] - The engine: walker, joiner, metadata closure, stores
//  4. [source] - Project models ([source/snapshot], [source/catalog])
//  5. [pom], [repository], [integrations] - Package metadata readers
//  6. [dag], [io], [render] - Graph export and visualization
//  7. [report], [cache], [observability], [errors] - Supporting infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	Snapshot (resolved graph + declarations + metadata)
//	         ↓
//	    [reconcile] Walk → join → read metadata
//	         ↓
//	    per-module Store (nodes keyed by coordinate or module path)
//	         ↓
//	    queries, [dag] export, [report] persistence
//
// # Quick Start
//
//	snap, err := snapshot.Load("snapshot.toml")
//	if err != nil {
//	    return err
//	}
//	engine, err := reconcile.New(reconcile.Config{
//	    Graph:    snap,
//	    Declared: snap,
//	    Metadata: reconcile.ChainReaders{snap, repository.NewLocal(repository.DefaultRoots()...)},
//	    Modules:  snap,
//	}, reconcile.Options{})
//	if err != nil {
//	    return err
//	}
//	app, _ := snap.Module(":app")
//	err = engine.ForEachDeclaredDependency(ctx, app, func(n *reconcile.Node) {
//	    if msg, ok := reconcile.PromotionMessage(n); ok {
//	        fmt.Println(n.Key(), msg)
//	    }
//	})
//
// # Metadata Sources
//
// Transitive dependencies come from a chain of [project.MetadataReader]s:
// the snapshot's own [[metadata]] table, POM files in local Maven and Gradle
// caches ([repository]) and a remote Maven repository ([integrations/maven])
// backed by [cache]. Readers are tried in order; the first that knows a
// coordinate wins.
//
// [coord]: https://pkg.go.dev/github.com/matzehuels/depsync/pkg/coord
// [version]: https://pkg.go.dev/github.com/matzehuels/depsync/pkg/version
// [project]: https://pkg.go.dev/github.com/matzehuels/depsync/pkg/project
// [project.MetadataReader]: https://pkg.go.dev/github.com/matzehuels/depsync/pkg/project#MetadataReader
// [reconcile]: https://pkg.go.dev/github.com/matzehuels/depsync/pkg/reconcile
// [source]: https://pkg.go.dev/github.com/matzehuels/depsync/pkg/source
// [source/snapshot]: https://pkg.go.dev/github.com/matzehuels/depsync/pkg/source/snapshot
// [source/catalog]: https://pkg.go.dev/github.com/matzehuels/depsync/pkg/source/catalog
// [pom]: https://pkg.go.dev/github.com/matzehuels/depsync/pkg/pom
// [repository]: https://pkg.go.dev/github.com/matzehuels/depsync/pkg/repository
// [integrations]: https://pkg.go.dev/github.com/matzehuels/depsync/pkg/integrations
// [integrations/maven]: https://pkg.go.dev/github.com/matzehuels/depsync/pkg/integrations/maven
// [dag]: https://pkg.go.dev/github.com/matzehuels/depsync/pkg/dag
// [io]: https://pkg.go.dev/github.com/matzehuels/depsync/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/depsync/pkg/render
// [report]: https://pkg.go.dev/github.com/matzehuels/depsync/pkg/report
// [cache]: https://pkg.go.dev/github.com/matzehuels/depsync/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/depsync/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/depsync/pkg/errors
package pkg
