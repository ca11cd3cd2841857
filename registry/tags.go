package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

type tagsPage struct {
	Name string    `json:"name"`
	Tags *[]string `json:"tags"`
}

// ListTags pages through the tag list of path on host in registry order.
// Listing stops at a short or empty page or once MaxTags tags are collected.
// On any failure the tags gathered so far are discarded.
func (c *Client) ListTags(ctx context.Context, host string, path string, token string) ([]string, error) {
	maxRequests := (c.maxTags+c.pageSize-1)/c.pageSize + 1
	refreshed := false
	tags := []string{}
	last := ""
	for requests := 0; requests < maxRequests; requests++ {
		timeout := c.requestTimeout
		if last == "" {
			timeout = c.firstPageTimeout
		}

		page, challenge, err := c.fetchTagsPage(ctx, host, path, last, token, timeout)
		if err != nil {
			return nil, err
		}

		if page == nil {
			if last != "" || refreshed || token != "" || challenge == "" {
				return nil, errors.Wrapf(ErrUnauthorized, "listing tags of %s/%s", host, path)
			}

			log.Debugf("tag list of %s/%s challenged, negotiating token", host, path)
			token, err = c.tokenForHost(ctx, host, path, challenge)
			if err != nil {
				return nil, err
			}

			refreshed = true
			// The restarted first page gets its own request budget.
			requests--
			continue
		}

		if page.Tags == nil {
			if last == "" {
				return nil, errors.Wrapf(ErrNoTags, "%s/%s", host, path)
			}

			break
		}

		pageTags := *page.Tags
		if len(pageTags) == 0 {
			break
		}

		tags = append(tags, pageTags...)
		if len(tags) >= c.maxTags {
			log.Debugf("tag list of %s/%s reached the cap of %d tags", host, path, c.maxTags)
			tags = tags[:c.maxTags]
			break
		}

		if len(pageTags) < c.pageSize {
			break
		}

		last = pageTags[len(pageTags)-1]
	}

	return tags, nil
}

// fetchTagsPage returns a nil page and the challenge header when the registry
// answers 401.
func (c *Client) fetchTagsPage(ctx context.Context, host string, path string, last string, token string, timeout time.Duration) (*tagsPage, string, error) {
	q := url.Values{}
	q.Set("n", fmt.Sprintf("%d", c.pageSize))
	if last != "" {
		q.Set("last", last)
	}

	tagsURL := c.url(host, fmt.Sprintf("/v2/%s/tags/list?%s", path, q.Encode()))
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tagsURL, nil)
	if err != nil {
		return nil, "", errors.Wrap(err, "creating tags request")
	}

	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", requestError(err, "GET %s", tagsURL)
	}

	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, resp.Header.Get(ChallengeHeader), nil
	case resp.StatusCode == http.StatusForbidden:
		return nil, "", errors.Wrapf(ErrUnauthorized, "GET %s answered %s", tagsURL, resp.Status)
	case resp.StatusCode == http.StatusNotFound:
		return nil, "", errors.Wrapf(ErrNotFound, "GET %s", tagsURL)
	case resp.StatusCode != http.StatusOK:
		return nil, "", errors.Wrapf(ErrUnexpectedStatus, "GET %s answered %s", tagsURL, resp.Status)
	}

	body, err := c.readBody(resp.Body)
	if errors.Is(err, ErrMalformedResponse) {
		return nil, "", errors.Wrapf(err, "reading tags of %s", path)
	}

	if err != nil {
		return nil, "", requestError(err, "reading %s", tagsURL)
	}

	page := &tagsPage{}
	err = json.Unmarshal(body, page)
	if err != nil {
		return nil, "", errors.Wrapf(ErrMalformedResponse, "decoding tags of %s: %s", path, err)
	}

	return page, "", nil
}
