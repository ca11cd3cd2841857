// Package docker lists running containers of a Docker Engine.
package docker

import (
	"context"
	"strings"

	"github.com/distribution/reference"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/imagespy/freshness/source"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// EnableLabel set to "false" on a container excludes it from checks.
const EnableLabel = "freshness.enabled"

// API is the part of the Docker Engine client used to list containers.
type API interface {
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
	ImageInspect(ctx context.Context, imageID string, inspectOpts ...client.ImageInspectOption) (image.InspectResponse, error)
}

type Source struct {
	api API
}

func New(api API) *Source {
	return &Source{api: api}
}

// NewFromEnv connects to the engine configured through DOCKER_HOST and the
// related environment variables.
func NewFromEnv() (*Source, error) {
	c, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, errors.Wrap(err, "creating docker client")
	}

	return New(c), nil
}

func (s *Source) Containers(ctx context.Context) ([]source.Container, error) {
	args := filters.NewArgs()
	args.Add("status", "running")
	summaries, err := s.api.ContainerList(ctx, container.ListOptions{Filters: args})
	if err != nil {
		return nil, errors.Wrap(err, "listing containers")
	}

	result := []source.Container{}
	for _, summary := range summaries {
		name := containerName(summary)
		clog := log.WithField("container", name)
		if strings.EqualFold(summary.Labels[EnableLabel], "false") {
			clog.Debug("skipping container with checks disabled")
			continue
		}

		img, err := s.api.ImageInspect(ctx, summary.ImageID)
		if err != nil {
			clog.WithError(err).Warn("unable to inspect image")
			continue
		}

		imageRef, digest := imageOf(summary.Image, img)
		if imageRef == "" {
			clog.Debugf("image %s has no repository, skipping", summary.ImageID)
			continue
		}

		if digest == "" {
			clog.Debugf("image %s has not been pulled from a registry", imageRef)
		}

		result = append(result, source.Container{
			ImageRef:    imageRef,
			Labels:      summary.Labels,
			LocalDigest: digest,
			Name:        name,
		})
	}

	return result, nil
}

func containerName(summary container.Summary) string {
	if len(summary.Names) == 0 {
		return summary.ID
	}

	return strings.TrimPrefix(summary.Names[0], "/")
}

// imageOf returns the reference a container was started from and the repo
// digest of its image in that repository. Containers started from an image ID
// are mapped to the first tag or repo digest of the image.
func imageOf(containerImage string, img image.InspectResponse) (string, string) {
	imageRef := containerImage
	named, err := reference.ParseNormalizedNamed(containerImage)
	if err != nil || strings.HasPrefix(containerImage, "sha256:") {
		named = nil
		imageRef = ""
		if len(img.RepoTags) > 0 {
			imageRef = img.RepoTags[0]
		} else if len(img.RepoDigests) > 0 {
			imageRef = img.RepoDigests[0]
		}

		if imageRef == "" {
			return "", ""
		}

		named, err = reference.ParseNormalizedNamed(imageRef)
		if err != nil {
			return "", ""
		}
	}

	for _, repoDigest := range img.RepoDigests {
		rd, err := reference.ParseNormalizedNamed(repoDigest)
		if err != nil {
			continue
		}

		canonical, ok := rd.(reference.Canonical)
		if !ok || rd.Name() != named.Name() {
			continue
		}

		return imageRef, canonical.Digest().String()
	}

	return imageRef, ""
}
