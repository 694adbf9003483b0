// Package maven fetches package metadata from Maven repositories.
//
// # Overview
//
// [Client.FetchPOM] downloads the POM of an exact version from Maven Central
// (or another Maven-layout repository set with [Client.WithRepository]) and
// parses it with package pom. [Client] implements project.MetadataReader so
// it can feed the reconciliation engine's closure pass directly:
//
//	client := maven.NewClient(fileCache, 24*time.Hour)
//	specs, err := client.ReadTransitiveSpecs(ctx, coord.MustParse("com.squareup.okhttp3:okhttp:4.12.0"))
//
// [Client.LatestVersion] queries the search API
// (https://search.maven.org) for the newest release of a family.
package maven
