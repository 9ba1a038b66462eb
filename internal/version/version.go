// Package version enables setting build-time version using ldflags.
package version

var (
	// Version specifies Semantic versioning increment (MAJOR.MINOR.PATCH).
	Version = "v0.0.0"
	// GitCommit specifies the git commit sha, set by the compiler.
	GitCommit = ""
	// BuildMeta specifies release type (dev,rc1,beta,etc)
	BuildMeta = ""
)

// FullVersion returns a version string.
func FullVersion() string {
	v := Version
	if BuildMeta != "" {
		v += "-" + BuildMeta
	}
	if GitCommit != "" {
		v += "+" + GitCommit
	}
	return v
}
