// Package version implements the wildcard-aware comparison between a version
// requested in a build script and the concrete version a resolver picked.
//
// Versions are dot-separated major[.minor[.micro]] integers with an optional
// preview suffix ("1.0.0-rc1", "2.1-alpha03"). A requested version may carry
// the build-script wildcard marker '+' on its last specified segment: "1.+",
// "1.2.+", "1.2+" or a bare "+".
//
// Ordering of concrete versions, including previews, is delegated to
// Masterminds/semver: "1.0.0-rc1" < "1.0.0" < "1.0.1".
package version

import (
	"strconv"
	"strings"

	mm "github.com/Masterminds/semver/v3"

	"github.com/matzehuels/depsync/pkg/errors"
)

// Segment indices.
const (
	Major = 0
	Minor = 1
	Micro = 2
)

// NoWildcard marks a Version without a '+' segment.
const NoWildcard = -1

// Version is a parsed version expression.
type Version struct {
	Segments []int  // specified numeric segments, at most three
	Wildcard int    // index of the wildcarded segment or NoWildcard
	Preview  string // text after the first '-'
	raw      string
	sv       *mm.Version
}

// Parse parses a requested or resolved version expression.
func Parse(text string) (Version, error) {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return Version{}, malformed(text)
	}

	v := Version{Wildcard: NoWildcard, raw: raw}
	body := raw
	if i := strings.IndexByte(raw, '-'); i >= 0 {
		body, v.Preview = raw[:i], raw[i+1:]
		if v.Preview == "" {
			return Version{}, malformed(text)
		}
	}

	parts := strings.Split(body, ".")
	if len(parts) > 3 {
		return Version{}, malformed(text)
	}
	for i, p := range parts {
		last := i == len(parts)-1
		switch {
		case p == "+":
			if !last {
				return Version{}, malformed(text)
			}
			v.Wildcard = i
		case strings.HasSuffix(p, "+"):
			if !last {
				return Version{}, malformed(text)
			}
			n, err := strconv.Atoi(strings.TrimSuffix(p, "+"))
			if err != nil || n < 0 {
				return Version{}, malformed(text)
			}
			v.Segments = append(v.Segments, n)
			v.Wildcard = i
		default:
			n, err := strconv.Atoi(p)
			if err != nil || n < 0 {
				return Version{}, malformed(text)
			}
			v.Segments = append(v.Segments, n)
		}
	}
	if v.Wildcard != NoWildcard && v.Preview != "" {
		return Version{}, malformed(text)
	}

	s := strconv.Itoa(v.Segment(Major)) + "." + strconv.Itoa(v.Segment(Minor)) + "." + strconv.Itoa(v.Segment(Micro))
	if v.Preview != "" {
		s += "-" + v.Preview
	}
	sv, err := mm.StrictNewVersion(s)
	if err != nil {
		return Version{}, errors.Wrap(errors.ErrCodeMalformedVersion, err, "malformed version %q", text)
	}
	v.sv = sv
	return v, nil
}

func malformed(text string) error {
	return errors.New(errors.ErrCodeMalformedVersion, "malformed version %q", text)
}

// Segment returns the numeric value at index i; unspecified segments are 0.
func (v Version) Segment(i int) int {
	if i < len(v.Segments) {
		return v.Segments[i]
	}
	return 0
}

// IsWildcard reports whether v carries a '+' marker.
func (v Version) IsWildcard() bool { return v.Wildcard != NoWildcard }

// String returns the text v was parsed from.
func (v Version) String() string { return v.raw }

// Compare orders a and b segment-wise with preview-aware ordering. Wildcard
// segments compare as 0. Returns -1, 0 or 1.
func Compare(a, b Version) int {
	if a.sv == nil || b.sv == nil {
		switch {
		case a.sv == nil && b.sv == nil:
			return 0
		case a.sv == nil:
			return -1
		default:
			return 1
		}
	}
	return a.sv.Compare(b.sv)
}

// Matches reports whether the resolved version satisfies the requested
// version expression. Unparseable text on either side never matches.
//
// A resolved version equal to the request matches. A greater resolved version
// matches only when the request wildcards a segment and every segment before
// it is equal. A lower resolved version never matches.
func Matches(requested, resolved string) bool {
	req, err := Parse(requested)
	if err != nil {
		return false
	}
	res, err := Parse(resolved)
	if err != nil || res.IsWildcard() {
		return false
	}
	return match(req, res)
}

func match(req, res Version) bool {
	switch c := Compare(res, req); {
	case c == 0:
		return true
	case c < 0:
		return false
	}
	switch req.Wildcard {
	case Major:
		return true
	case Minor:
		return res.Segment(Major) == req.Segment(Major)
	case Micro:
		return res.Segment(Major) == req.Segment(Major) && res.Segment(Minor) == req.Segment(Minor)
	default:
		return false
	}
}

// Matcher decides whether a resolved version satisfies a requested one.
type Matcher func(requested, resolved string) bool

// Relation classifies a requested/resolved pair.
type Relation int

const (
	// Incomparable means one side could not be parsed.
	Incomparable Relation = iota
	// Satisfied means the resolved version matches the request.
	Satisfied
	// Promoted means the resolver picked a higher, non-matching version.
	Promoted
	// Downgraded means the resolver picked a lower version.
	Downgraded
)

func (r Relation) String() string {
	switch r {
	case Satisfied:
		return "satisfied"
	case Promoted:
		return "promoted"
	case Downgraded:
		return "downgraded"
	default:
		return "incomparable"
	}
}

// Relate classifies the resolved version against the requested expression.
func Relate(requested, resolved string) Relation {
	req, err := Parse(requested)
	if err != nil {
		return Incomparable
	}
	res, err := Parse(resolved)
	if err != nil || res.IsWildcard() {
		return Incomparable
	}
	if match(req, res) {
		return Satisfied
	}
	if Compare(res, req) > 0 {
		return Promoted
	}
	return Downgraded
}
