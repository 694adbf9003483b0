package maven

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/depsync/pkg/cache"
	"github.com/matzehuels/depsync/pkg/coord"
	"github.com/matzehuels/depsync/pkg/integrations"
	"github.com/matzehuels/depsync/pkg/pom"
)

const (
	// CentralURL is the Maven Central repository root.
	CentralURL = "https://repo1.maven.org/maven2"
	// SearchURL is the Maven Central search endpoint.
	SearchURL = "https://search.maven.org/solrsearch/select"
)

// Client fetches POM files from a Maven-layout repository and latest
// versions from the Maven Central search API.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	repoURL   string
	searchURL string
	refresh   bool
}

// NewClient creates a Maven Central client caching responses in c for ttl.
// A nil cache disables caching.
func NewClient(c cache.Cache, ttl time.Duration) *Client {
	return &Client{
		Client:    integrations.NewClient(c, "maven:", ttl, nil),
		repoURL:   CentralURL,
		searchURL: SearchURL,
	}
}

// WithRepository returns a copy of the client reading POMs from repoURL,
// e.g. "https://maven.google.com" or an internal mirror.
func (c *Client) WithRepository(repoURL string) *Client {
	cp := *c
	cp.repoURL = strings.TrimSuffix(repoURL, "/")
	return &cp
}

// WithRefresh returns a copy of the client that bypasses the cache.
func (c *Client) WithRefresh(refresh bool) *Client {
	cp := *c
	cp.refresh = refresh
	return &cp
}

// POMURL returns the repository URL of c's POM.
func (c *Client) POMURL(co coord.Coordinate) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s-%s.pom",
		c.repoURL, strings.ReplaceAll(co.Group, ".", "/"), co.Name, co.Version, co.Name, co.Version)
}

// FetchPOM retrieves and parses the POM of an exact version.
//
// Returns [integrations.ErrNotFound] if the repository has no such POM and
// [integrations.ErrNetwork] for HTTP failures.
func (c *Client) FetchPOM(ctx context.Context, co coord.Coordinate, refresh bool) (*pom.Project, error) {
	if co.Group == "" || co.Name == "" || !co.HasVersion() {
		return nil, fmt.Errorf("invalid maven coordinate %q (expected groupId:artifactId:version)", co)
	}

	var text string
	err := c.Cached(ctx, "pom:"+c.POMURL(co), refresh, &text, func() error {
		body, err := c.GetText(ctx, c.POMURL(co))
		if err != nil {
			return err
		}
		text = body
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pom.Parse([]byte(text))
}

// ReadTransitiveSpecs implements project.MetadataReader. A coordinate the
// repository does not know yields no specs. The parsed dependency list is
// cached under the keyer's metadata key so repeat builds skip POM parsing.
func (c *Client) ReadTransitiveSpecs(ctx context.Context, co coord.Coordinate) ([]coord.Coordinate, error) {
	var texts []string
	key := c.Keyer().MetadataKey(c.repoURL, co.Full())
	err := c.CachedKey(ctx, key, c.refresh, &texts, func() error {
		p, err := c.FetchPOM(ctx, co, c.refresh)
		if err != nil {
			return err
		}
		texts = texts[:0]
		for _, dep := range p.Dependencies() {
			texts = append(texts, dep.Full())
		}
		return nil
	})
	if errors.Is(err, integrations.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	specs := make([]coord.Coordinate, 0, len(texts))
	for _, t := range texts {
		if spec, err := coord.ParseQuery(t); err == nil {
			specs = append(specs, spec)
		}
	}
	return specs, nil
}

// LatestVersion asks the search API for the newest release of a family
// ("groupId:artifactId").
func (c *Client) LatestVersion(ctx context.Context, family string, refresh bool) (string, error) {
	f, err := coord.ParseFamily(family)
	if err != nil {
		return "", err
	}

	var version string
	err = c.Cached(ctx, "latest:"+f.Family(), refresh, &version, func() error {
		query := fmt.Sprintf("g:%q AND a:%q", f.Group, f.Name)
		url := fmt.Sprintf("%s?q=%s&rows=1&wt=json", c.searchURL, integrations.URLEncode(query))

		var resp searchResponse
		if err := c.Get(ctx, url, &resp); err != nil {
			return err
		}
		if resp.Response.NumFound == 0 || len(resp.Response.Docs) == 0 {
			return fmt.Errorf("%w: maven artifact %s", integrations.ErrNotFound, f.Family())
		}
		doc := resp.Response.Docs[0]
		version = doc.LatestVersion
		if version == "" {
			version = doc.Version
		}
		return nil
	})
	return version, err
}

type searchResponse struct {
	Response struct {
		NumFound int         `json:"numFound"`
		Docs     []searchDoc `json:"docs"`
	} `json:"response"`
}

type searchDoc struct {
	GroupID       string `json:"g"`
	ArtifactID    string `json:"a"`
	Version       string `json:"v"`
	LatestVersion string `json:"latestVersion"`
}
