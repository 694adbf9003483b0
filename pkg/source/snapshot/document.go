package snapshot

import (
	"github.com/matzehuels/depsync/pkg/source/catalog"
)

// Document is the on-disk snapshot format. The same shape is read from TOML,
// YAML and JSON.
type Document struct {
	Modules  []ModuleSpec   `toml:"modules" yaml:"modules" json:"modules"`
	Metadata []MetadataSpec `toml:"metadata,omitempty" yaml:"metadata,omitempty" json:"metadata,omitempty"`
	Catalog  *catalog.Raw   `toml:"catalog,omitempty" yaml:"catalog,omitempty" json:"catalog,omitempty"`
	// CatalogFile points to a libs.versions.toml, relative to the snapshot.
	CatalogFile string `toml:"catalog_file,omitempty" yaml:"catalog_file,omitempty" json:"catalog_file,omitempty"`
}

// ModuleSpec describes one build module.
type ModuleSpec struct {
	Path         string            `toml:"path" yaml:"path" json:"path"`
	Variants     []VariantSpec     `toml:"variants" yaml:"variants" json:"variants"`
	Declarations []DeclarationSpec `toml:"declarations,omitempty" yaml:"declarations,omitempty" json:"declarations,omitempty"`
}

// VariantSpec is a build variant and its artifacts.
type VariantSpec struct {
	Name      string         `toml:"name" yaml:"name" json:"name"`
	Artifacts []ArtifactSpec `toml:"artifacts" yaml:"artifacts" json:"artifacts"`
}

// ArtifactSpec lists what the resolver produced for one artifact.
type ArtifactSpec struct {
	Name      string          `toml:"name" yaml:"name" json:"name"`
	Libraries []string        `toml:"libraries,omitempty" yaml:"libraries,omitempty" json:"libraries,omitempty"`
	Modules   []ModuleRefSpec `toml:"modules,omitempty" yaml:"modules,omitempty" json:"modules,omitempty"`
}

// ModuleRefSpec is a resolved dependency on another module.
type ModuleRefSpec struct {
	Path    string `toml:"path" yaml:"path" json:"path"`
	Variant string `toml:"variant,omitempty" yaml:"variant,omitempty" json:"variant,omitempty"`
}

// DeclarationSpec is one build-script statement. Exactly one of Coordinate,
// Module and Catalog is set; Catalog holds an accessor such as "libs.okhttp"
// or "libs.bundles.network".
type DeclarationSpec struct {
	Configuration string `toml:"configuration" yaml:"configuration" json:"configuration"`
	Coordinate    string `toml:"coordinate,omitempty" yaml:"coordinate,omitempty" json:"coordinate,omitempty"`
	Module        string `toml:"module,omitempty" yaml:"module,omitempty" json:"module,omitempty"`
	Catalog       string `toml:"catalog,omitempty" yaml:"catalog,omitempty" json:"catalog,omitempty"`
}

// MetadataSpec lists a library's own dependencies, as its POM would.
type MetadataSpec struct {
	Coordinate   string   `toml:"coordinate" yaml:"coordinate" json:"coordinate"`
	Dependencies []string `toml:"dependencies" yaml:"dependencies" json:"dependencies"`
}
