// Package coord provides the Coordinate value type that identifies an external
// library dependency.
//
// # Layout
//
// The canonical text layout is
//
//	group:name:version[:classifier][@packaging]
//
// for example "com.google.guava:guava:32.1.3-jre" or
// "com.example:natives:1.0:linux-x86_64@aar". [Parse] accepts only this
// layout and fails with an error coded [errors.ErrCodeMalformedCoordinate]
// for anything else; callers walking a resolved graph skip such entries.
//
// # Identity
//
// The identity of a coordinate is its [Coordinate.String] text
// "group:name:version", with absent fields omitted. Classifier and packaging
// do not take part in identity. Two coordinates belong to the same family when
// their group and name match regardless of version (see [Coordinate.SameFamily]).
//
// [errors.ErrCodeMalformedCoordinate]: github.com/matzehuels/depsync/pkg/errors
package coord
