package coord

import (
	"strings"
	"unicode"

	"github.com/matzehuels/depsync/pkg/errors"
)

// Coordinate identifies a library. Group and Version may be empty for
// coordinates that come from package metadata without a pinned version.
type Coordinate struct {
	Group      string
	Name       string
	Version    string
	Classifier string
	Packaging  string
}

// Parse parses the canonical group:name:version[:classifier][@packaging]
// layout.
func Parse(text string) (Coordinate, error) {
	s := strings.TrimSpace(text)
	if s == "" || strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return Coordinate{}, malformed(text)
	}

	var c Coordinate
	if i := strings.LastIndexByte(s, '@'); i >= 0 {
		c.Packaging = s[i+1:]
		s = s[:i]
		if c.Packaging == "" {
			return Coordinate{}, malformed(text)
		}
	}

	parts := strings.Split(s, ":")
	if len(parts) != 3 && len(parts) != 4 {
		return Coordinate{}, malformed(text)
	}
	for _, p := range parts {
		if p == "" {
			return Coordinate{}, malformed(text)
		}
	}

	c.Group, c.Name, c.Version = parts[0], parts[1], parts[2]
	if len(parts) == 4 {
		c.Classifier = parts[3]
	}
	return c, nil
}

// MustParse is like Parse but panics on malformed input.
func MustParse(text string) Coordinate {
	c, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseFamily parses "group:name" into a version-less coordinate.
func ParseFamily(text string) (Coordinate, error) {
	parts := strings.Split(strings.TrimSpace(text), ":")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Coordinate{}, malformed(text)
	}
	return Coordinate{Group: parts[0], Name: parts[1]}, nil
}

// ParseQuery accepts either a full coordinate or a family.
func ParseQuery(text string) (Coordinate, error) {
	if c, err := Parse(text); err == nil {
		return c, nil
	}
	return ParseFamily(text)
}

func malformed(text string) error {
	return errors.New(errors.ErrCodeMalformedCoordinate,
		"malformed coordinate %q (expected group:name:version[:classifier][@packaging])", text)
}

// String returns the identity text group:name:version, omitting empty fields.
func (c Coordinate) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{c.Group, c.Name, c.Version} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ":")
}

// Full returns the complete text including classifier and packaging.
func (c Coordinate) Full() string {
	s := c.String()
	if c.Classifier != "" {
		s += ":" + c.Classifier
	}
	if c.Packaging != "" {
		s += "@" + c.Packaging
	}
	return s
}

// Family returns "group:name".
func (c Coordinate) Family() string {
	if c.Group == "" {
		return c.Name
	}
	return c.Group + ":" + c.Name
}

// SameFamily reports whether group and name match.
func (c Coordinate) SameFamily(other Coordinate) bool {
	return c.Group == other.Group && c.Name == other.Name
}

// Equal compares identity text.
func (c Coordinate) Equal(other Coordinate) bool {
	return c.String() == other.String()
}

// HasVersion reports whether a version is present.
func (c Coordinate) HasVersion() bool { return c.Version != "" }

// WithVersion returns a copy of c with the version replaced.
func (c Coordinate) WithVersion(v string) Coordinate {
	c.Version = v
	return c
}

// NormalizeCoordinate converts filename-safe coordinates to the colon form.
// Colons are awkward in file names and some shells, so underscores may be
// used instead: "com.google.guava_guava" becomes "com.google.guava:guava".
// Input that already contains a colon is returned unchanged.
func NormalizeCoordinate(text string) string {
	if strings.Contains(text, ":") {
		return text
	}
	// group ids use reverse domain notation, so the last underscore splits
	if idx := strings.LastIndex(text, "_"); idx != -1 {
		return text[:idx] + ":" + text[idx+1:]
	}
	return text
}
