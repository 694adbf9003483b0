// Package catalog reads Gradle version catalogs (gradle/libs.versions.toml).
//
// A catalog maps aliases to coordinates:
//
//	[versions]
//	okhttp = "4.12.0"
//
//	[libraries]
//	okhttp = { module = "com.squareup.okhttp3:okhttp", version.ref = "okhttp" }
//	junit = "junit:junit:4.13.2"
//
//	[bundles]
//	network = ["okhttp", "okhttp-logging"]
//
// Build scripts reference entries as libs.okhttp or libs.bundles.network.
// Alias separators '-', '_' and '.' are interchangeable.
package catalog

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/depsync/pkg/errors"
)

// Accessor is the prefix build scripts use for the default catalog.
const Accessor = "libs"

// Library is one [libraries] entry.
type Library struct {
	Group   string
	Name    string
	Version string // empty when the entry has no version
}

// Coordinate returns "group:name[:version]".
func (l Library) Coordinate() string {
	s := l.Group + ":" + l.Name
	if l.Version != "" {
		s += ":" + l.Version
	}
	return s
}

// Catalog is a parsed version catalog.
type Catalog struct {
	Versions  map[string]string
	Libraries map[string]Library
	Bundles   map[string][]string
}

// Raw mirrors the catalog file; values stay untyped because entries may be
// strings or tables.
type Raw struct {
	Versions  map[string]any      `toml:"versions" yaml:"versions"`
	Libraries map[string]any      `toml:"libraries" yaml:"libraries"`
	Bundles   map[string][]string `toml:"bundles" yaml:"bundles"`
}

// Parse decodes catalog TOML.
func Parse(data []byte) (*Catalog, error) {
	var raw Raw
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse version catalog")
	}
	return FromRaw(raw)
}

// Load reads a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "version catalog %s", path)
	}
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// FromRaw interprets an already decoded catalog.
func FromRaw(raw Raw) (*Catalog, error) {
	c := &Catalog{
		Versions:  make(map[string]string, len(raw.Versions)),
		Libraries: make(map[string]Library, len(raw.Libraries)),
		Bundles:   make(map[string][]string, len(raw.Bundles)),
	}
	for alias, v := range raw.Versions {
		version, err := versionValue(v)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "versions.%s", alias)
		}
		c.Versions[Normalize(alias)] = version
	}
	for alias, v := range raw.Libraries {
		lib, err := c.library(v)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "libraries.%s", alias)
		}
		c.Libraries[Normalize(alias)] = lib
	}
	for alias, members := range raw.Bundles {
		norm := make([]string, len(members))
		for i, m := range members {
			if _, ok := c.Libraries[Normalize(m)]; !ok {
				return nil, errors.New(errors.ErrCodeInvalidInput, "bundles.%s references unknown library %q", alias, m)
			}
			norm[i] = Normalize(m)
		}
		c.Bundles[Normalize(alias)] = norm
	}
	return c, nil
}

func versionValue(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case map[string]any:
		for _, key := range []string{"strictly", "require", "prefer"} {
			if s, ok := t[key].(string); ok && s != "" {
				return s, nil
			}
		}
		return "", fmt.Errorf("rich version without strictly, require or prefer")
	default:
		return "", fmt.Errorf("unsupported version value %T", v)
	}
}

func (c *Catalog) library(v any) (Library, error) {
	switch t := v.(type) {
	case string:
		parts := strings.Split(t, ":")
		switch len(parts) {
		case 2:
			return Library{Group: parts[0], Name: parts[1]}, nil
		case 3:
			return Library{Group: parts[0], Name: parts[1], Version: parts[2]}, nil
		}
		return Library{}, fmt.Errorf("malformed library notation %q", t)
	case map[string]any:
		var lib Library
		if module, ok := t["module"].(string); ok {
			g, n, found := strings.Cut(module, ":")
			if !found {
				return Library{}, fmt.Errorf("malformed module %q", module)
			}
			lib.Group, lib.Name = g, n
		} else {
			lib.Group, _ = t["group"].(string)
			lib.Name, _ = t["name"].(string)
		}
		if lib.Group == "" || lib.Name == "" {
			return Library{}, fmt.Errorf("library needs module or group and name")
		}
		switch ver := t["version"].(type) {
		case nil:
		case string:
			lib.Version = ver
		case map[string]any:
			if ref, ok := ver["ref"].(string); ok {
				resolved, ok := c.Versions[Normalize(ref)]
				if !ok {
					return Library{}, fmt.Errorf("unknown version.ref %q", ref)
				}
				lib.Version = resolved
				break
			}
			s, err := versionValue(ver)
			if err != nil {
				return Library{}, err
			}
			lib.Version = s
		default:
			return Library{}, fmt.Errorf("unsupported version value %T", ver)
		}
		return lib, nil
	default:
		return Library{}, fmt.Errorf("unsupported library value %T", v)
	}
}

// Normalize maps an alias or accessor path to its canonical form.
func Normalize(alias string) string {
	return strings.ToLower(strings.NewReplacer("-", ".", "_", ".").Replace(alias))
}

// IsReference reports whether text is a catalog accessor such as
// "libs.okhttp".
func IsReference(text string) bool {
	return strings.HasPrefix(text, Accessor+".")
}

// Resolve turns an accessor ("libs.okhttp" or "libs.bundles.network") into
// library coordinates. Bundles expand to one coordinate per member.
func (c *Catalog) Resolve(ref string) ([]string, error) {
	if !IsReference(ref) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%q is not a catalog reference", ref)
	}
	alias := Normalize(strings.TrimPrefix(ref, Accessor+"."))
	if bundle, ok := strings.CutPrefix(alias, "bundles."); ok {
		members, found := c.Bundles[bundle]
		if !found {
			return nil, errors.New(errors.ErrCodeNotFound, "unknown bundle %q", ref)
		}
		out := make([]string, len(members))
		for i, m := range members {
			out[i] = c.Libraries[m].Coordinate()
		}
		return out, nil
	}
	lib, ok := c.Libraries[alias]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "unknown catalog library %q", ref)
	}
	return []string{lib.Coordinate()}, nil
}

// Aliases returns the library aliases in sorted order.
func (c *Catalog) Aliases() []string {
	out := make([]string, 0, len(c.Libraries))
	for a := range c.Libraries {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}
