// Package version carries the build metadata set with -ldflags
// "-X github.com/parallel-finance/paractl/internal/version.Version=...".
package version

var (
	Version = "dev"
	Commit  = "unknown"
)

func GetVersion() string {
	return Version
}

func GetCommit() string {
	return Commit
}

func GetFullVersion() string {
	return Version + " (" + Commit + ")"
}
