package scrape

import (
	"context"
	"time"

	"github.com/imagespy/freshness/registry"
	"github.com/imagespy/freshness/store"
	"github.com/imagespy/freshness/versionparser"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Work describes a running container to check.
type Work struct {
	ContainerName string
	ImageRef      string
	Labels        map[string]string
	LocalDigest   string
}

type Scraper interface {
	CheckUpdateAvailable(ctx context.Context, localDigest string, imageRef string) Verdict
	LatestTag(ctx context.Context, imageRef string) (*versionparser.TaggedVersion, error)
	Scrape(ctx context.Context, w Work) (*store.Check, error)
	Tags(ctx context.Context, imageRef string) ([]string, error)
}

// NewScraper returns a Scraper. s may be nil in which case checks are not
// persisted.
func NewScraper(reg registry.Registry, s store.Store) Scraper {
	return &async{
		reg:      reg,
		store:    s,
		timeFunc: func() time.Time { return time.Now().UTC() },
	}
}

type async struct {
	reg      registry.Registry
	store    store.Store
	timeFunc func() time.Time
}

// Scrape checks a container for a new digest of its tag and for a newer
// version tag, and records the result.
func (a *async) Scrape(ctx context.Context, w Work) (*store.Check, error) {
	ref := registry.ParseImageRef(w.ImageRef)
	verdict := a.CheckUpdateAvailable(ctx, w.LocalDigest, w.ImageRef)
	check := &store.Check{
		CheckedAt:       a.timeFunc(),
		ContainerName:   w.ContainerName,
		Error:           verdict.Error,
		ImageRef:        w.ImageRef,
		LocalDigest:     w.LocalDigest,
		RemoteDigest:    verdict.RemoteDigest,
		UpdateAvailable: verdict.UpdateAvailable,
	}

	if !ref.DigestPinned && ref.Registry != "" {
		check.Repository = ref.Registry + "/" + ref.Path
		current := currentVersion(ref.Tag, w.Labels)
		if current != nil {
			check.CurrentVersion = current.String()
			a.scrapeLatestTag(ctx, check, current)
		}
	}

	if a.store == nil {
		return check, nil
	}

	err := a.store.Checks().Create(check)
	if err != nil {
		return nil, errors.Wrapf(err, "storing check of container %s", w.ContainerName)
	}

	return check, nil
}

func (a *async) scrapeLatestTag(ctx context.Context, check *store.Check, current *versionparser.Version) {
	latest, err := a.LatestTag(ctx, check.ImageRef)
	if err != nil {
		log.Debugf("unable to find latest tag of %s: %s", check.ImageRef, err)
		return
	}

	if !latest.Version.SameDialect(*current) && current.Dialect != versionparser.Plain {
		log.Debugf("latest tag %s of %s uses another version scheme than %s", latest.Tag, check.ImageRef, current)
		return
	}

	check.LatestTag = latest.Tag
	check.NewerVersion = latest.Version.IsGreaterThan(*current)
	if check.NewerVersion {
		log.Infof("newer version %s of %s available, running %s", latest.Tag, check.ImageRef, current)
	}
}

// currentVersion prefers the version from the image labels because floating
// tags such as "latest" carry none.
func currentVersion(tag string, labels map[string]string) *versionparser.Version {
	v, err := versionparser.FromLabels(labels)
	if err == nil {
		return v
	}

	v, err = versionparser.ParseTag(tag)
	if err == nil {
		return v
	}

	return nil
}
