package reconcile

import (
	"context"

	"github.com/matzehuels/depsync/pkg/coord"
	"github.com/matzehuels/depsync/pkg/errors"
	"github.com/matzehuels/depsync/pkg/project"
)

// Visitor receives the resolved dependencies of each container.
type Visitor interface {
	// OnLibrary is called once per (container, library) pair.
	OnLibrary(c project.Container, lib coord.Coordinate)
	// OnModule is called once per (container, module path) pair.
	OnModule(c project.Container, path, targetVariant string)
	// OnSkip is called for resolved library text that does not parse.
	OnSkip(c project.Container, text string, err error)
}

// Walk visits every resolved dependency of every (variant, artifact) pair of
// m. A dependency reachable from several containers is delivered once per
// container; repeats within one container are dropped.
//
// Walk stops at the first ResolvedGraph error, returned wrapped with
// errors.ErrCodeCollaborator, or when ctx is done.
func Walk(ctx context.Context, graph project.ResolvedGraph, m project.Module, v Visitor) error {
	for _, variant := range m.Variants() {
		for _, artifact := range m.Artifacts(variant) {
			if err := ctx.Err(); err != nil {
				return err
			}
			c := project.Container{Variant: variant, Artifact: artifact}
			res, err := graph.Resolve(ctx, m, c)
			if err != nil {
				return errors.Wrap(errors.ErrCodeCollaborator, err, "resolve %s %s", m.Path(), c)
			}
			visitContainer(c, res, v)
		}
	}
	return nil
}

func visitContainer(c project.Container, res project.Resolved, v Visitor) {
	seen := make(map[string]bool, len(res.Libraries)+len(res.Modules))
	for _, text := range res.Libraries {
		lib, err := coord.Parse(text)
		if err != nil {
			v.OnSkip(c, text, err)
			continue
		}
		key := lib.Full()
		if seen[key] {
			continue
		}
		seen[key] = true
		v.OnLibrary(c, lib)
	}
	for _, dep := range res.Modules {
		key := "module " + dep.Path
		if seen[key] {
			continue
		}
		seen[key] = true
		v.OnModule(c, dep.Path, dep.Variant)
	}
}
