package project

import (
	"sort"
	"strings"
	"unicode"
)

// base configuration names that apply to every artifact
var mainConfigs = map[string]bool{
	"implementation":      true,
	"api":                 true,
	"compile":             true,
	"compileOnly":         true,
	"runtime":             true,
	"runtimeOnly":         true,
	"annotationProcessor": true,
	"kapt":                true,
	"ksp":                 true,
}

// GradleConfigurations applies Gradle's configuration naming conventions:
//
//	implementation, api, compileOnly, ...   every artifact of every variant
//	testImplementation, ...                 unit-test artifacts
//	androidTestImplementation, ...          android-test artifacts
//	debugImplementation, freeReleaseApi     variants containing that source set
//	debugTestImplementation, ...            unit-test artifact of those variants
//
// A source-set prefix applies when it is a contiguous run of the variant's
// camel-case components: "free", "debug" and "freeDebug" all apply to the
// variant "freeDebug". Unknown names apply nowhere.
type GradleConfigurations struct{}

// AppliesTo implements Configurations.
func (GradleConfigurations) AppliesTo(configuration string, c Container) bool {
	rest := configuration
	for _, prefix := range sourceSets(string(c.Variant)) {
		if stripped, ok := cutCamel(rest, prefix); ok {
			rest = stripped
			break
		}
	}

	scope := ""
	for _, prefix := range []string{"androidTest", "test"} {
		if stripped, ok := cutCamel(rest, prefix); ok {
			scope, rest = prefix, stripped
			break
		}
	}
	if !mainConfigs[rest] {
		return false
	}

	switch scope {
	case "test":
		return c.Artifact == ArtifactUnitTest
	case "androidTest":
		return c.Artifact == ArtifactAndroidTest
	default:
		return true
	}
}

// cutCamel removes prefix from s when it is followed by an upper-case letter
// and lower-cases the first letter of the remainder.
func cutCamel(s, prefix string) (string, bool) {
	if prefix == "" || len(s) <= len(prefix) || s[:len(prefix)] != prefix {
		return s, false
	}
	if !unicode.IsUpper(rune(s[len(prefix)])) {
		return s, false
	}
	rest := s[len(prefix):]
	return strings.ToLower(rest[:1]) + rest[1:], true
}

// sourceSets returns the source-set names of a variant, longest first.
func sourceSets(variant string) []string {
	parts := camelParts(variant)
	var sets []string
	for i := range parts {
		for j := i + 1; j <= len(parts); j++ {
			s := strings.Join(parts[i:j], "")
			sets = append(sets, strings.ToLower(s[:1])+s[1:])
		}
	}
	sort.SliceStable(sets, func(a, b int) bool { return len(sets[a]) > len(sets[b]) })
	return sets
}

func camelParts(s string) []string {
	var parts []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			parts = append(parts, s[start:i])
			start = i
		}
	}
	if start < len(s) {
		parts = append(parts, s[start:])
	}
	return parts
}
