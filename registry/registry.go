package registry

import (
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

const (
	DockerHubRegistry   = "registry-1.docker.io"
	DockerHubTokenURL   = "https://auth.docker.io/token"
	DockerHubService    = "registry.docker.io"
	GHCRRegistry        = "ghcr.io"
	GHCRTokenURL        = "https://ghcr.io/token"
	GHCRService         = "ghcr.io"
	ContentDigestHeader = "Docker-Content-Digest"
	ChallengeHeader     = "WWW-Authenticate"

	DefaultTokenTimeout     = 10 * time.Second
	DefaultRequestTimeout   = 15 * time.Second
	DefaultFirstPageTimeout = 25 * time.Second
	DefaultPageSize         = 500
	DefaultMaxTags          = 5000
	DefaultMaxBodySize      = 8 << 20
)

// Opts configures a Client. Zero values fall back to the public Docker Hub and
// GHCR endpoints and the default timeouts. MaxBodySize caps the bytes read
// from a token or tag list response.
type Opts struct {
	HTTPClient        *http.Client
	Scheme            string
	DockerHubHost     string
	DockerHubTokenURL string
	GHCRHost          string
	GHCRTokenURL      string
	UserAgent         string
	TokenTimeout      time.Duration
	RequestTimeout    time.Duration
	FirstPageTimeout  time.Duration
	PageSize          int
	MaxTags           int
	MaxBodySize       int64
}

// Client talks to Docker Registry V2 compatible APIs anonymously. It keeps no
// state between calls and is safe for concurrent use.
type Client struct {
	dockerHubHost     string
	dockerHubTokenURL string
	firstPageTimeout  time.Duration
	ghcrHost          string
	ghcrTokenURL      string
	httpClient        *http.Client
	maxBodySize       int64
	maxTags           int
	pageSize          int
	requestTimeout    time.Duration
	scheme            string
	tokenTimeout      time.Duration
}

func NewClient(o Opts) *Client {
	c := &Client{
		dockerHubHost:     o.DockerHubHost,
		dockerHubTokenURL: o.DockerHubTokenURL,
		firstPageTimeout:  o.FirstPageTimeout,
		ghcrHost:          o.GHCRHost,
		ghcrTokenURL:      o.GHCRTokenURL,
		httpClient:        o.HTTPClient,
		maxBodySize:       o.MaxBodySize,
		maxTags:           o.MaxTags,
		pageSize:          o.PageSize,
		requestTimeout:    o.RequestTimeout,
		scheme:            o.Scheme,
		tokenTimeout:      o.TokenTimeout,
	}

	if c.dockerHubHost == "" {
		c.dockerHubHost = DockerHubRegistry
	}

	if c.dockerHubTokenURL == "" {
		c.dockerHubTokenURL = DockerHubTokenURL
	}

	if c.ghcrHost == "" {
		c.ghcrHost = GHCRRegistry
	}

	if c.ghcrTokenURL == "" {
		c.ghcrTokenURL = GHCRTokenURL
	}

	if c.scheme == "" {
		c.scheme = "https"
	}

	if c.tokenTimeout <= 0 {
		c.tokenTimeout = DefaultTokenTimeout
	}

	if c.requestTimeout <= 0 {
		c.requestTimeout = DefaultRequestTimeout
	}

	if c.firstPageTimeout <= 0 {
		c.firstPageTimeout = DefaultFirstPageTimeout
	}

	if c.pageSize <= 0 {
		c.pageSize = DefaultPageSize
	}

	if c.maxBodySize <= 0 {
		c.maxBodySize = DefaultMaxBodySize
	}

	if c.maxTags <= 0 {
		c.maxTags = DefaultMaxTags
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Transport: NewTransport(http.DefaultTransport, o.UserAgent),
		}
	}

	return c
}

// Host maps the canonical Docker Hub and GHCR hosts of a parsed reference to
// the hosts this client is configured to talk to.
func (c *Client) Host(registryHost string) string {
	switch registryHost {
	case DockerHubRegistry, "docker.io", "index.docker.io":
		return c.dockerHubHost
	case GHCRRegistry:
		return c.ghcrHost
	}

	return registryHost
}

func (c *Client) IsDockerHub(host string) bool {
	return host == c.dockerHubHost || host == DockerHubRegistry
}

func (c *Client) IsGHCR(host string) bool {
	return host == c.ghcrHost || host == GHCRRegistry
}

func (c *Client) url(host string, path string) string {
	return c.scheme + "://" + host + path
}

// readBody reads at most maxBodySize bytes of r. A larger body is rejected
// with ErrMalformedResponse.
func (c *Client) readBody(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, c.maxBodySize+1))
	if err != nil {
		return nil, err
	}

	if int64(len(body)) > c.maxBodySize {
		return nil, errors.Wrapf(ErrMalformedResponse, "response body exceeds %d bytes", c.maxBodySize)
	}

	return body, nil
}
