package reconcile

import (
	"context"

	"github.com/matzehuels/depsync/pkg/coord"
	"github.com/matzehuels/depsync/pkg/errors"
	"github.com/matzehuels/depsync/pkg/project"
)

// ChainReaders tries readers in order and returns the first non-empty
// answer. Not-found answers fall through to the next reader; any other error
// stops the chain.
type ChainReaders []project.MetadataReader

// ReadTransitiveSpecs implements project.MetadataReader.
func (r ChainReaders) ReadTransitiveSpecs(ctx context.Context, c coord.Coordinate) ([]coord.Coordinate, error) {
	for _, reader := range r {
		specs, err := reader.ReadTransitiveSpecs(ctx, c)
		if err != nil {
			if errors.Is(err, errors.ErrCodeNotFound) {
				continue
			}
			return nil, err
		}
		if len(specs) > 0 {
			return specs, nil
		}
	}
	return nil, nil
}

// LenientReader reports reader failures through Logger and answers with no
// specs, so a flaky metadata source never aborts a build.
type LenientReader struct {
	Reader project.MetadataReader
	Logger func(string, ...any)
}

// ReadTransitiveSpecs implements project.MetadataReader.
func (r LenientReader) ReadTransitiveSpecs(ctx context.Context, c coord.Coordinate) ([]coord.Coordinate, error) {
	specs, err := r.Reader.ReadTransitiveSpecs(ctx, c)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if r.Logger != nil {
			r.Logger("metadata for %s unavailable: %v", c, err)
		}
		return nil, nil
	}
	return specs, nil
}

// MapReader serves specs from memory, keyed by coordinate text.
type MapReader map[string][]coord.Coordinate

// ReadTransitiveSpecs implements project.MetadataReader.
func (r MapReader) ReadTransitiveSpecs(_ context.Context, c coord.Coordinate) ([]coord.Coordinate, error) {
	return r[c.String()], nil
}
