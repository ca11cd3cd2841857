package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

type tokenResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"access_token"`
}

// Token fetches an anonymous pull token for path from the issuer that belongs
// to host: GHCR for GHCR hosts, Docker Hub for everything else.
func (c *Client) Token(ctx context.Context, host string, path string) (string, error) {
	issuer, service := c.dockerHubTokenURL, DockerHubService
	if c.IsGHCR(host) {
		issuer, service = c.ghcrTokenURL, GHCRService
	}

	return c.fetchToken(ctx, issuer, service, path)
}

// TokenForChallenge negotiates a token with the realm named in a Bearer
// WWW-Authenticate header. Used for registries other than Docker Hub and GHCR.
func (c *Client) TokenForChallenge(ctx context.Context, challenge string, path string) (string, error) {
	realm, service, err := parseChallenge(challenge)
	if err != nil {
		return "", err
	}

	return c.fetchToken(ctx, realm, service, path)
}

func (c *Client) fetchToken(ctx context.Context, issuer string, service string, path string) (string, error) {
	u, err := url.Parse(issuer)
	if err != nil {
		return "", errors.Wrapf(err, "parsing token issuer %s", issuer)
	}

	q := u.Query()
	q.Set("service", service)
	q.Set("scope", fmt.Sprintf("repository:%s:pull", path))
	u.RawQuery = q.Encode()

	ctx, cancel := context.WithTimeout(ctx, c.tokenTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", errors.Wrap(err, "creating token request")
	}

	log.Debugf("requesting pull token for %s from %s", path, u.Host)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", requestError(err, "requesting token for %s", path)
	}

	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", errors.Wrapf(ErrUnauthorized, "token issuer %s answered %s", u.Host, resp.Status)
	case resp.StatusCode != http.StatusOK:
		return "", errors.Wrapf(ErrUnexpectedStatus, "token issuer %s answered %s", u.Host, resp.Status)
	}

	body, err := c.readBody(resp.Body)
	if errors.Is(err, ErrMalformedResponse) {
		return "", errors.Wrap(err, "reading token response")
	}

	if err != nil {
		return "", requestError(err, "reading token response for %s", path)
	}

	tr := &tokenResponse{}
	err = json.Unmarshal(body, tr)
	if err != nil {
		return "", errors.Wrapf(ErrMalformedResponse, "decoding token response: %s", err)
	}

	token := tr.Token
	if token == "" {
		token = tr.AccessToken
	}

	if token == "" {
		return "", errors.Wrap(ErrMalformedResponse, "token response carried no token")
	}

	return token, nil
}

func parseChallenge(challenge string) (string, string, error) {
	scheme, params, _ := strings.Cut(strings.TrimSpace(challenge), " ")
	if !strings.EqualFold(scheme, "bearer") {
		return "", "", errors.Wrapf(ErrInvalidChallenge, "unsupported challenge scheme %q", scheme)
	}

	values := map[string]string{}
	for _, pair := range strings.Split(params, ",") {
		key, val, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if ok {
			values[strings.ToLower(key)] = strings.Trim(val, `"`)
		}
	}

	if values["realm"] == "" || values["service"] == "" {
		return "", "", ErrInvalidChallenge
	}

	return values["realm"], values["service"], nil
}
