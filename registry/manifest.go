package registry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/docker/distribution/manifest/manifestlist"
	"github.com/docker/distribution/manifest/schema2"
	digest "github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/pkg/errors"
)

var manifestAccept = strings.Join([]string{
	ocispec.MediaTypeImageIndex,
	ocispec.MediaTypeImageManifest,
	manifestlist.MediaTypeManifestList,
	schema2.MediaTypeManifest,
}, ", ")

type manifestResponse struct {
	challenge string
	digest    string
	status    int
	statusMsg string
}

// ResolveDigest returns the content digest of path:tag on host. A missing
// token is negotiated once on a 401 challenge, and a HEAD response without a
// digest header is repeated as GET. No more than three manifest requests are
// sent.
func (c *Client) ResolveDigest(ctx context.Context, host string, path string, tag string, token string) (string, error) {
	manifestURL := c.url(host, fmt.Sprintf("/v2/%s/manifests/%s", path, tag))
	method := http.MethodHead
	refreshed := false
	for {
		resp, err := c.requestManifest(ctx, method, manifestURL, token)
		if err != nil {
			return "", err
		}

		switch {
		case resp.status == http.StatusUnauthorized && resp.challenge != "" && token == "" && !refreshed:
			log.Debugf("%s %s/%s:%s challenged, negotiating token", method, host, path, tag)
			token, err = c.tokenForHost(ctx, host, path, resp.challenge)
			if err != nil {
				return "", err
			}

			refreshed = true
			continue
		case resp.status == http.StatusUnauthorized || resp.status == http.StatusForbidden:
			return "", errors.Wrapf(ErrUnauthorized, "%s %s answered %s", method, manifestURL, resp.statusMsg)
		case resp.status == http.StatusNotFound:
			return "", errors.Wrapf(ErrNotFound, "%s/%s:%s", host, path, tag)
		case resp.status < 200 || resp.status > 299:
			return "", errors.Wrapf(ErrUnexpectedStatus, "%s %s answered %s", method, manifestURL, resp.statusMsg)
		}

		if resp.digest != "" {
			return validateDigest(resp.digest)
		}

		if method == http.MethodGet {
			return "", errors.Wrapf(ErrNoDigest, "%s/%s:%s", host, path, tag)
		}

		log.Debugf("HEAD %s/%s:%s carried no digest, retrying with GET", host, path, tag)
		method = http.MethodGet
	}
}

func (c *Client) requestManifest(ctx context.Context, method string, manifestURL string, token string) (*manifestResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, method, manifestURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating manifest request")
	}

	req.Header.Set("Accept", manifestAccept)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, requestError(err, "%s %s", method, manifestURL)
	}

	defer resp.Body.Close()
	// Drain so the connection can be reused; the body itself is never needed.
	_, err = io.Copy(io.Discard, resp.Body)
	if err != nil {
		return nil, requestError(err, "reading %s %s", method, manifestURL)
	}

	return &manifestResponse{
		challenge: resp.Header.Get(ChallengeHeader),
		digest:    resp.Header.Get(ContentDigestHeader),
		status:    resp.StatusCode,
		statusMsg: resp.Status,
	}, nil
}

// tokenForHost picks the issuer for a challenged request. Docker Hub and GHCR
// have fixed issuers; other registries are asked through the challenge realm.
func (c *Client) tokenForHost(ctx context.Context, host string, path string, challenge string) (string, error) {
	if c.IsDockerHub(host) || c.IsGHCR(host) {
		return c.Token(ctx, host, path)
	}

	return c.TokenForChallenge(ctx, challenge, path)
}

func validateDigest(d string) (string, error) {
	parsed, err := digest.Parse(strings.TrimSpace(d))
	if err != nil {
		return "", errors.Wrapf(ErrInvalidDigest, "%q: %s", d, err)
	}

	return parsed.String(), nil
}
