// Package project defines the contracts between the reconciliation engine and
// the systems that own the build model.
//
// The engine never parses build scripts, never reads package archives and
// never models build variants itself. Instead it consumes:
//
//   - [Module]: one build module with its variants and their artifacts
//   - [ResolvedGraph]: the dependencies a build tool resolved per artifact
//   - [DeclaredIndex]: the dependency statements written in build files
//   - [MetadataReader]: a library's own dependencies from its package metadata
//   - [ModuleDirectory]: lookup of project modules by path
//
// A [Container] is a (variant, artifact) pair. Whether a declared
// configuration applies to a container is decided by the host through a
// [ContainerPredicate]; [GradleConfigurations] provides the conventional
// Gradle naming rules.
package project
