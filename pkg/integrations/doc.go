// Package integrations provides the HTTP plumbing for remote package
// metadata.
//
// # Overview
//
// [Client] wraps an [http.Client] with a [cache.Cache], retries and default
// headers. Repository-specific clients embed it; [maven] fetches POM files
// from Maven Central or any Maven-layout repository.
//
// # Caching
//
// Responses are cached under the client's namespace with a fixed TTL:
//
//	c := integrations.NewClient(fileCache, "maven:", 24*time.Hour, nil)
//	err := c.Cached(ctx, key, false, &v, func() error { ... })
//
// Pass refresh=true to bypass the cache. Cache hits, misses and writes are
// reported to [observability.CacheHooks]; requests to
// [observability.HTTPHooks].
//
// # Errors
//
// 404 responses map to [ErrNotFound]. Transport failures and 5xx responses
// map to [ErrNetwork] wrapped in [cache.RetryableError], which
// [cache.RetryWithBackoff] retries up to three times.
//
// [maven]: github.com/matzehuels/depsync/pkg/integrations/maven
package integrations
