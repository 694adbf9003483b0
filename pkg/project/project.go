package project

import (
	"context"

	"github.com/matzehuels/depsync/pkg/coord"
)

// VariantRef names a build variant, e.g. "debug" or "freeRelease".
type VariantRef string

// ArtifactRef names an artifact within a variant.
type ArtifactRef string

// Well-known artifact names.
const (
	ArtifactMain        ArtifactRef = "main"
	ArtifactAndroidTest ArtifactRef = "android-test"
	ArtifactUnitTest    ArtifactRef = "unit-test"
)

// Container is a (variant, artifact) pair that references a dependency.
type Container struct {
	Variant  VariantRef  `json:"variant"`
	Artifact ArtifactRef `json:"artifact"`
}

// String returns "variant/artifact".
func (c Container) String() string {
	return string(c.Variant) + "/" + string(c.Artifact)
}

// Module is one build module.
type Module interface {
	// Path returns the module path, e.g. ":app".
	Path() string
	// Variants returns the module's variants in a stable order.
	Variants() []VariantRef
	// Artifacts returns the artifacts of a variant in a stable order.
	Artifacts(v VariantRef) []ArtifactRef
}

// ModuleDependency is a resolved dependency on another project module.
type ModuleDependency struct {
	Path    string // module path, e.g. ":lib"
	Variant string // variant of the target module that was selected
}

// Resolved lists what a build tool resolved for one container.
// Library entries are raw coordinate text; malformed entries are tolerated
// by the engine.
type Resolved struct {
	Libraries []string
	Modules   []ModuleDependency
}

// ResolvedGraph yields the resolved dependencies reachable from an artifact.
type ResolvedGraph interface {
	Resolve(ctx context.Context, module Module, c Container) (Resolved, error)
}

// DeclaredDependency is one build-script statement. Implementations are owned
// by the build-file model; the engine compares handles by identity.
type DeclaredDependency interface {
	// CoordinateText returns the declared coordinate text, or "" for module
	// dependencies.
	CoordinateText() string
	// ModulePath returns the referenced module path, or "" for libraries.
	ModulePath() string
	// Configuration returns the configuration name, e.g. "implementation".
	Configuration() string
	// VersionText returns the requested version expression, if any.
	VersionText() (string, bool)
}

// ContainerPredicate reports whether a configuration applies to the
// container the predicate was built for.
type ContainerPredicate func(configuration string) bool

// DeclaredIndex looks up declared statements.
type DeclaredIndex interface {
	// FindLibraryMatches returns statements whose coordinate family is
	// family ("group:name") and whose configuration satisfies applies.
	FindLibraryMatches(module Module, family string, applies ContainerPredicate) []DeclaredDependency
	// FindModuleMatch returns the statement referencing path whose
	// configuration satisfies applies, or nil.
	FindModuleMatch(module Module, path string, applies ContainerPredicate) DeclaredDependency
	// Declarations returns every statement of the module.
	Declarations(module Module) []DeclaredDependency
}

// Configurations decides whether a configuration name applies to a container.
type Configurations interface {
	AppliesTo(configuration string, c Container) bool
}

// PredicateFor binds a Configurations to a container.
func PredicateFor(cfg Configurations, c Container) ContainerPredicate {
	return func(configuration string) bool {
		return cfg.AppliesTo(configuration, c)
	}
}

// MetadataReader reads a library's own declared dependencies from its
// package metadata. A library without metadata yields an empty result and a
// nil error.
type MetadataReader interface {
	ReadTransitiveSpecs(ctx context.Context, c coord.Coordinate) ([]coord.Coordinate, error)
}

// TargetRef is an opaque reference to a resolved project module.
type TargetRef any

// ModuleDirectory resolves module paths to project modules.
type ModuleDirectory interface {
	// ResolveModuleByPath returns nil when the path has no module.
	ResolveModuleByPath(path string) TargetRef
}

// NoMetadata is a MetadataReader that knows nothing.
type NoMetadata struct{}

// ReadTransitiveSpecs returns no specs.
func (NoMetadata) ReadTransitiveSpecs(context.Context, coord.Coordinate) ([]coord.Coordinate, error) {
	return nil, nil
}
