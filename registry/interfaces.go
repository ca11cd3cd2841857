package registry

import "context"

// Registry is the subset of Client used by callers that only need to look
// things up. It exists so those callers can be tested without a network.
type Registry interface {
	Host(registryHost string) string
	IsDockerHub(host string) bool
	IsGHCR(host string) bool
	ListTags(ctx context.Context, host string, path string, token string) ([]string, error)
	ResolveDigest(ctx context.Context, host string, path string, tag string, token string) (string, error)
	Token(ctx context.Context, host string, path string) (string, error)
}

var _ Registry = (*Client)(nil)
