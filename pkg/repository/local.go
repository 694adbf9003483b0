// Package repository reads package metadata from local artifact caches.
//
// Two directory layouts are understood:
//
//	Maven    <root>/com/example/lib/1.0/lib-1.0.pom
//	Gradle   <root>/com.example/lib/1.0/<sha1>/lib-1.0.pom   (caches/modules-2/files-2.1)
//
// Roots are searched in order and the first POM found wins.
package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/depsync/pkg/coord"
	"github.com/matzehuels/depsync/pkg/errors"
	"github.com/matzehuels/depsync/pkg/pom"
)

// Local is a project.MetadataReader over local repository roots.
type Local struct {
	Roots []string
}

// NewLocal returns a reader over roots, skipping empty entries.
func NewLocal(roots ...string) *Local {
	var clean []string
	for _, r := range roots {
		if r = strings.TrimSpace(r); r != "" {
			clean = append(clean, r)
		}
	}
	return &Local{Roots: clean}
}

// DefaultRoots returns the conventional cache locations under the user's
// home directory: ~/.m2/repository and ~/.gradle/caches/modules-2/files-2.1.
// GRADLE_USER_HOME overrides ~/.gradle.
func DefaultRoots() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	gradleHome := os.Getenv("GRADLE_USER_HOME")
	if gradleHome == "" {
		gradleHome = filepath.Join(home, ".gradle")
	}
	return []string{
		filepath.Join(home, ".m2", "repository"),
		filepath.Join(gradleHome, "caches", "modules-2", "files-2.1"),
	}
}

// Locate returns the path of c's POM.
func (l *Local) Locate(c coord.Coordinate) (string, bool) {
	if c.Group == "" || c.Name == "" || !c.HasVersion() {
		return "", false
	}
	file := c.Name + "-" + c.Version + ".pom"
	for _, root := range l.Roots {
		maven := filepath.Join(root, filepath.FromSlash(strings.ReplaceAll(c.Group, ".", "/")), c.Name, c.Version, file)
		if isFile(maven) {
			return maven, true
		}
		matches, _ := filepath.Glob(filepath.Join(root, c.Group, c.Name, c.Version, "*", file))
		for _, m := range matches {
			if isFile(m) {
				return m, true
			}
		}
	}
	return "", false
}

// ReadTransitiveSpecs implements project.MetadataReader. A coordinate with
// no POM under any root yields no specs.
func (l *Local) ReadTransitiveSpecs(ctx context.Context, c coord.Coordinate) ([]coord.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, ok := l.Locate(c)
	if !ok {
		return nil, nil
	}
	p, err := pom.ParseFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return p.Dependencies(), nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
