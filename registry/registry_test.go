package registry_test

import (
	"testing"

	"github.com/imagespy/freshness/registry"
	"github.com/stretchr/testify/assert"
)

func Test_ParseImageRef(t *testing.T) {
	testcases := []struct {
		image    string
		registry string
		path     string
		tag      string
		pinned   bool
	}{
		{
			image:    "debian",
			registry: "registry-1.docker.io",
			path:     "library/debian",
			tag:      "latest",
		},
		{
			image:    "postgres:15-alpine",
			registry: "registry-1.docker.io",
			path:     "library/postgres",
			tag:      "15-alpine",
		},
		{
			image:    "imagespy/freshness:1",
			registry: "registry-1.docker.io",
			path:     "imagespy/freshness",
			tag:      "1",
		},
		{
			image:    "ghcr.io/org/repo:v1",
			registry: "ghcr.io",
			path:     "org/repo",
			tag:      "v1",
		},
		{
			image:    "registry.private/myapp:1",
			registry: "registry.private",
			path:     "myapp",
			tag:      "1",
		},
		{
			image:    "localhost:5000/team/app",
			registry: "localhost:5000",
			path:     "team/app",
			tag:      "latest",
		},
		{
			image:    "localhost:5000/team/app:2.1",
			registry: "localhost:5000",
			path:     "team/app",
			tag:      "2.1",
		},
		{
			image:    "lscr.io/linuxserver/sonarr:4.0.0-r0-ls330",
			registry: "lscr.io",
			path:     "linuxserver/sonarr",
			tag:      "4.0.0-r0-ls330",
		},
		{
			image:  "imagespy/freshness@sha256:3b6aaa0901f2c9483c7757e343ec08d7ad3e4520089d0e92fe20db89101244ec",
			pinned: true,
		},
		{
			image:  "ghcr.io/org/repo:v1@sha256:3b6aaa0901f2c9483c7757e343ec08d7ad3e4520089d0e92fe20db89101244ec",
			pinned: true,
		},
	}

	for _, tc := range testcases {
		t.Run(tc.image, func(t *testing.T) {
			result := registry.ParseImageRef(tc.image)
			assert.Equal(t, tc.registry, result.Registry)
			assert.Equal(t, tc.path, result.Path)
			assert.Equal(t, tc.tag, result.Tag)
			assert.Equal(t, tc.pinned, result.DigestPinned)
		})
	}
}

func Test_ParseImageRef_Empty(t *testing.T) {
	assert.Equal(t, registry.ImageReference{}, registry.ParseImageRef(""))
	assert.Equal(t, registry.ImageReference{}, registry.ParseImageRef("   "))
}

func Test_ParseImageRef_LongSuffixIsNotATag(t *testing.T) {
	suffix := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	result := registry.ParseImageRef("example.com/app:" + suffix)
	assert.Equal(t, "latest", result.Tag)
	assert.Equal(t, "example.com", result.Registry)
	assert.Equal(t, "app:"+suffix, result.Path)
}

func Test_ParseImageRef_Normalized(t *testing.T) {
	assert.Equal(t, "registry-1.docker.io/library/nginx:1.25", registry.ParseImageRef("nginx:1.25").Normalized)
}

func TestNormalizeDigest(t *testing.T) {
	full := "sha256:3b6aaa0901f2c9483c7757e343ec08d7ad3e4520089d0e92fe20db89101244ec"
	assert.Equal(t, "abc", registry.NormalizeDigest("sha256:abc"))
	assert.Equal(t, "abc", registry.NormalizeDigest("abc"))
	assert.Equal(t, full[7:], registry.NormalizeDigest(full))
	assert.Equal(t, full[7:], registry.NormalizeDigest("imagespy/freshness@"+full))
	assert.Equal(t, "", registry.NormalizeDigest(""))
}

func TestClient_Host(t *testing.T) {
	c := registry.NewClient(registry.Opts{DockerHubHost: "mirror.local:5000", GHCRHost: "ghcr.mirror.local"})
	assert.Equal(t, "mirror.local:5000", c.Host(registry.DockerHubRegistry))
	assert.Equal(t, "mirror.local:5000", c.Host("docker.io"))
	assert.Equal(t, "ghcr.mirror.local", c.Host("ghcr.io"))
	assert.Equal(t, "quay.io", c.Host("quay.io"))
	assert.True(t, c.IsDockerHub("mirror.local:5000"))
	assert.True(t, c.IsGHCR("ghcr.mirror.local"))
	assert.False(t, c.IsGHCR("quay.io"))
}

func TestResults(t *testing.T) {
	assert.Equal(t, registry.ManifestResult{Digest: "sha256:abc"}, registry.NewManifestResult("sha256:abc", nil))
	assert.Equal(t, registry.ManifestResult{Error: "registry request timed out"}, registry.NewManifestResult("", registry.ErrTimeout))
	assert.Equal(t, registry.TagsResult{Tags: []string{}}, registry.NewTagsResult(nil, nil))
	assert.Equal(t, registry.TagsResult{Error: "registry response carried no tags"}, registry.NewTagsResult([]string{"1"}, registry.ErrNoTags))
}
