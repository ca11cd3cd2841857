package scrape

import (
	"context"

	"github.com/imagespy/freshness/registry"
	"github.com/imagespy/freshness/versionparser"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var (
	ErrDigestPinned   = errors.New("image reference is pinned to a digest")
	ErrEmptyReference = errors.New("image reference is empty")
	ErrNoLocalDigest  = errors.New("local digest is unknown")
	ErrNoVersionTag   = errors.New("repository has no tag with a supported version")
)

// Verdict is the outcome of comparing a local digest with the registry.
// UpdateAvailable is never true when Error is set.
type Verdict struct {
	Error           string `json:"error,omitempty"`
	RemoteDigest    string `json:"remoteDigest,omitempty"`
	UpdateAvailable bool   `json:"updateAvailable"`
}

func errorVerdict(err error) Verdict {
	return Verdict{Error: err.Error()}
}

func (a *async) CheckUpdateAvailable(ctx context.Context, localDigest string, imageRef string) Verdict {
	ref := registry.ParseImageRef(imageRef)
	if ref.DigestPinned {
		return Verdict{}
	}

	if ref.Registry == "" {
		return errorVerdict(ErrEmptyReference)
	}

	if registry.NormalizeDigest(localDigest) == "" {
		return errorVerdict(errors.Wrap(ErrNoLocalDigest, ref.Normalized))
	}

	host := a.reg.Host(ref.Registry)
	token, err := a.proactiveToken(ctx, host, ref.Path)
	if err != nil {
		log.Debugf("fetching token for %s: %s", ref.Normalized, err)
		return errorVerdict(err)
	}

	remote, err := a.reg.ResolveDigest(ctx, host, ref.Path, ref.Tag, token)
	if err != nil {
		log.Debugf("resolving digest of %s: %s", ref.Normalized, err)
		return errorVerdict(err)
	}

	return Verdict{
		RemoteDigest:    remote,
		UpdateAvailable: registry.NormalizeDigest(localDigest) != registry.NormalizeDigest(remote),
	}
}

func (a *async) Tags(ctx context.Context, imageRef string) ([]string, error) {
	ref := registry.ParseImageRef(imageRef)
	if ref.DigestPinned {
		return nil, ErrDigestPinned
	}

	if ref.Registry == "" {
		return nil, ErrEmptyReference
	}

	host := a.reg.Host(ref.Registry)
	token, err := a.proactiveToken(ctx, host, ref.Path)
	if err != nil {
		return nil, err
	}

	return a.reg.ListTags(ctx, host, ref.Path, token)
}

func (a *async) LatestTag(ctx context.Context, imageRef string) (*versionparser.TaggedVersion, error) {
	tags, err := a.Tags(ctx, imageRef)
	if err != nil {
		return nil, err
	}

	latest := versionparser.NewestVersionTag(tags)
	if latest == nil {
		return nil, ErrNoVersionTag
	}

	return latest, nil
}

// proactiveToken returns a pull token for Docker Hub hosts and an empty token
// for every other registry.
func (a *async) proactiveToken(ctx context.Context, host string, path string) (string, error) {
	if !a.reg.IsDockerHub(host) {
		return "", nil
	}

	return a.reg.Token(ctx, host, path)
}
