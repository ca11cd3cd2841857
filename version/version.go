package version

// Version is set at build time through
// -ldflags "-X github.com/imagespy/freshness/version.Version=...".
var Version = "dev"

// UserAgent identifies freshness to registries.
func UserAgent() string {
	return "freshness/" + Version
}
