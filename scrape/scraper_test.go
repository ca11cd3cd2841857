package scrape

import (
	"context"
	"testing"
	"time"

	"github.com/imagespy/freshness/registry"
	"github.com/imagespy/freshness/registry/mock"
	"github.com/imagespy/freshness/store"
	"github.com/imagespy/freshness/store/fake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	digestA = "sha256:3b6aaa0901f2c9483c7757e343ec08d7ad3e4520089d0e92fe20db89101244ec"
	digestB = "sha256:4c1d4ba6f2f5d3b4a4b3c6bb1e1d5a4f5e3b2c1a0f9e8d7c6b5a4f3e2d1c0b9a"
)

func newTestScraper(opts registry.Opts, s store.Store) *async {
	return &async{
		reg:      registry.NewClient(opts),
		store:    s,
		timeFunc: func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func TestAsync_CheckUpdateAvailable(t *testing.T) {
	testcases := []struct {
		name            string
		imageRef        string
		localDigest     string
		updateAvailable bool
		err             bool
	}{
		{
			name:        "When the digests match no update is available",
			imageRef:    "nginx:1.25",
			localDigest: digestA,
		},
		{
			name:        "When the local digest has no algorithm prefix it still matches",
			imageRef:    "nginx:1.25",
			localDigest: digestA[len("sha256:"):],
		},
		{
			name:            "When the digests differ an update is available",
			imageRef:        "nginx:1.25",
			localDigest:     digestB,
			updateAvailable: true,
		},
		{
			name:        "When the tag is unknown it reports an error",
			imageRef:    "nginx:0.1",
			localDigest: digestA,
			err:         true,
		},
		{
			name:     "When the local digest is unknown it reports an error",
			imageRef: "nginx:1.25",
			err:      true,
		},
		{
			name:        "When the reference is empty it reports an error",
			localDigest: digestA,
			err:         true,
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			reg := mock.NewRegistry()
			defer reg.Close()
			reg.AddImage("library/nginx", "1.25", digestA)

			a := newTestScraper(reg.DockerHubOpts(), nil)
			v := a.CheckUpdateAvailable(context.Background(), tc.localDigest, tc.imageRef)
			assert.Equal(t, tc.updateAvailable, v.UpdateAvailable)
			if tc.err {
				assert.NotEmpty(t, v.Error)
				assert.Empty(t, v.RemoteDigest)
				return
			}

			assert.Empty(t, v.Error)
			assert.Equal(t, digestA, v.RemoteDigest)
		})
	}
}

func TestAsync_CheckUpdateAvailable_PinnedReference(t *testing.T) {
	reg := mock.NewRegistry()
	defer reg.Close()

	a := newTestScraper(reg.DockerHubOpts(), nil)
	v := a.CheckUpdateAvailable(context.Background(), digestB, "nginx@"+digestA)
	assert.Equal(t, Verdict{}, v)
	assert.Empty(t, reg.Requests())
}

func TestAsync_CheckUpdateAvailable_DockerHubFetchesTokenFirst(t *testing.T) {
	reg := mock.NewRegistry()
	defer reg.Close()
	reg.RequireToken = true
	reg.AddImage("library/nginx", "1.25", digestA)

	a := newTestScraper(reg.DockerHubOpts(), nil)
	v := a.CheckUpdateAvailable(context.Background(), digestA, "nginx:1.25")
	assert.Equal(t, Verdict{RemoteDigest: digestA}, v)
	assert.Equal(t, []string{
		"GET /token",
		"HEAD /v2/library/nginx/manifests/1.25",
	}, reg.Requests())
}

func TestAsync_CheckUpdateAvailable_GHCR(t *testing.T) {
	reg := mock.NewRegistry()
	defer reg.Close()
	reg.RequireToken = true
	reg.DigestOnGetOnly = true
	reg.AddImage("org/repo", "v1", digestA)

	a := newTestScraper(reg.GHCROpts(), nil)
	v := a.CheckUpdateAvailable(context.Background(), digestB, "ghcr.io/org/repo:v1")
	assert.Equal(t, Verdict{RemoteDigest: digestA, UpdateAvailable: true}, v)
	assert.Equal(t, "HEAD /v2/org/repo/manifests/v1", reg.Requests()[0])
	assert.Equal(t, 1, reg.CountRequests("GET /v2/org/repo/manifests/v1"))
}

func TestAsync_CheckUpdateAvailable_OtherRegistryGoesTokenless(t *testing.T) {
	reg := mock.NewRegistry()
	defer reg.Close()
	reg.AddImage("team/app", "2.1", digestA)

	a := newTestScraper(registry.Opts{Scheme: "http"}, nil)
	v := a.CheckUpdateAvailable(context.Background(), digestA, reg.Host()+"/team/app:2.1")
	assert.Equal(t, Verdict{RemoteDigest: digestA}, v)
	assert.Equal(t, 0, reg.CountRequests("GET /token"))
}

func TestAsync_LatestTag(t *testing.T) {
	reg := mock.NewRegistry()
	defer reg.Close()
	reg.AddTags("linuxserver/sonarr", "latest", "4.0.0-r0-ls100", "amd64-4.1.0-r0-ls330", "4.1.0-r0-ls330")
	reg.AddTags("library/debian", "latest", "bookworm")

	a := newTestScraper(reg.DockerHubOpts(), nil)
	latest, err := a.LatestTag(context.Background(), "linuxserver/sonarr:latest")
	require.NoError(t, err)
	assert.Equal(t, "4.1.0-r0-ls330", latest.Tag)

	_, err = a.LatestTag(context.Background(), "debian")
	assert.Equal(t, ErrNoVersionTag, err)

	_, err = a.LatestTag(context.Background(), "debian@"+digestA)
	assert.Equal(t, ErrDigestPinned, err)
}

func TestAsync_Scrape(t *testing.T) {
	reg := mock.NewRegistry()
	defer reg.Close()
	reg.AddImage("linuxserver/sonarr", "latest", digestA)
	reg.AddTags("linuxserver/sonarr", "4.0.0-r0-ls100", "amd64-4.1.0-r0-ls330", "4.1.0-r0-ls330")

	s := fake.NewStore()
	a := newTestScraper(reg.DockerHubOpts(), s)
	check, err := a.Scrape(context.Background(), Work{
		ContainerName: "sonarr",
		ImageRef:      "linuxserver/sonarr:latest",
		Labels:        map[string]string{"build_version": "Linuxserver.io version:- 4.0.0-r0-ls100 Build-date:- 2024-01-01T00:00:00+00:00"},
		LocalDigest:   digestB,
	})
	require.NoError(t, err)

	expected := &store.Check{
		Model:           store.Model{ID: 1},
		CheckedAt:       time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		ContainerName:   "sonarr",
		CurrentVersion:  "4.0.0-r0-ls100",
		ImageRef:        "linuxserver/sonarr:latest",
		LatestTag:       "4.1.0-r0-ls330",
		LocalDigest:     digestB,
		NewerVersion:    true,
		RemoteDigest:    digestA,
		Repository:      "registry-1.docker.io/linuxserver/sonarr",
		UpdateAvailable: true,
	}
	assert.Equal(t, expected, check)

	stored, err := s.Checks().Get(store.CheckGetOptions{ContainerName: "sonarr"})
	require.NoError(t, err)
	assert.Equal(t, expected, stored)
}

func TestAsync_Scrape_VersionFromTag(t *testing.T) {
	reg := mock.NewRegistry()
	defer reg.Close()
	reg.AddImage("linuxserver/sonarr", "4.1.0-r0-ls330", digestA)
	reg.AddTags("linuxserver/sonarr", "4.0.0-r0-ls100")

	a := newTestScraper(reg.DockerHubOpts(), nil)
	check, err := a.Scrape(context.Background(), Work{
		ContainerName: "sonarr",
		ImageRef:      "linuxserver/sonarr:4.1.0-r0-ls330",
		LocalDigest:   digestA,
	})
	require.NoError(t, err)
	assert.False(t, check.UpdateAvailable)
	assert.False(t, check.NewerVersion)
	assert.Equal(t, "4.1.0-r0-ls330", check.CurrentVersion)
	assert.Equal(t, "4.1.0-r0-ls330", check.LatestTag)
	assert.Zero(t, check.ID)
}

func TestAsync_Scrape_UnversionedImageSkipsTagListing(t *testing.T) {
	reg := mock.NewRegistry()
	defer reg.Close()
	reg.AddImage("library/postgres", "15-alpine", digestA)

	a := newTestScraper(reg.DockerHubOpts(), fake.NewStore())
	check, err := a.Scrape(context.Background(), Work{
		ContainerName: "db",
		ImageRef:      "postgres:15-alpine",
		LocalDigest:   digestA,
	})
	require.NoError(t, err)
	assert.Empty(t, check.CurrentVersion)
	assert.Empty(t, check.LatestTag)
	assert.Equal(t, 0, reg.CountRequests("GET /v2/library/postgres/tags/list"))
}
