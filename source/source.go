// Package source lists the containers whose images are checked for updates.
package source

import (
	"context"

	"github.com/imagespy/freshness/scrape"
)

// Container is a running container as seen by a Source.
type Container struct {
	ImageRef    string            `mapstructure:"image" json:"image"`
	Labels      map[string]string `mapstructure:"labels" json:"labels,omitempty"`
	LocalDigest string            `mapstructure:"digest" json:"digest"`
	Name        string            `mapstructure:"name" json:"name"`
}

func (c Container) Work() scrape.Work {
	return scrape.Work{
		ContainerName: c.Name,
		ImageRef:      c.ImageRef,
		Labels:        c.Labels,
		LocalDigest:   c.LocalDigest,
	}
}

type Source interface {
	Containers(ctx context.Context) ([]Container, error)
}

// Static serves a fixed list of containers, usually read from the
// configuration file.
type Static []Container

func (s Static) Containers(ctx context.Context) ([]Container, error) {
	result := make([]Container, len(s))
	copy(result, s)
	return result, nil
}
