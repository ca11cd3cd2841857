package registry

import (
	"strings"

	digest "github.com/opencontainers/go-digest"
)

const maxTagLength = 64

// ImageReference is the result of splitting an image string into the parts
// needed to address it on a registry.
type ImageReference struct {
	Registry     string `json:"registry"`
	Path         string `json:"path"`
	Tag          string `json:"tag"`
	Normalized   string `json:"normalized"`
	DigestPinned bool   `json:"digest_pinned"`
}

// ParseImageRef never fails. Empty input yields the zero value and references
// pinned to a digest only set DigestPinned and Normalized, since they are never
// looked up remotely.
func ParseImageRef(ref string) ImageReference {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ImageReference{}
	}

	if strings.Contains(ref, "@") {
		return ImageReference{Normalized: ref, DigestPinned: true}
	}

	name := ref
	tag := "latest"
	if i := strings.LastIndex(ref, ":"); i >= 0 {
		candidate := ref[i+1:]
		if !strings.Contains(candidate, "/") && len(candidate) <= maxTagLength {
			name = ref[:i]
			if candidate != "" {
				tag = candidate
			}
		}
	}

	registry := DockerHubRegistry
	path := name
	segments := strings.Split(name, "/")
	switch {
	case len(segments) > 1 && strings.ContainsAny(segments[0], ".:"):
		registry = segments[0]
		path = strings.Join(segments[1:], "/")
	case len(segments) == 1 && !strings.Contains(segments[0], "."):
		path = "library/" + segments[0]
	}

	return ImageReference{
		Registry:   registry,
		Path:       path,
		Tag:        tag,
		Normalized: registry + "/" + path + ":" + tag,
	}
}

func IsDockerHub(host string) bool {
	switch host {
	case DockerHubRegistry, "docker.io", "index.docker.io":
		return true
	}

	return false
}

func IsGHCR(host string) bool {
	return host == GHCRRegistry
}

// NormalizeDigest returns the encoded part of a digest so that "sha256:abc"
// and "abc" compare equal.
func NormalizeDigest(d string) string {
	d = strings.TrimSpace(d)
	if i := strings.LastIndex(d, "@"); i >= 0 {
		d = d[i+1:]
	}

	if parsed, err := digest.Parse(d); err == nil {
		return parsed.Encoded()
	}

	return strings.TrimPrefix(d, string(digest.SHA256)+":")
}
