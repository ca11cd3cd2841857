// Package mock serves a fake Docker Registry V2 API and token issuer for tests.
package mock

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/imagespy/freshness/registry"
)

const Token = "mock-token"

type repository struct {
	digests map[string]string
	tags    []string
}

type Registry struct {
	// Delay is applied before answering manifest and tag requests.
	Delay time.Duration
	// LaterPageDelay is applied before answering tag list requests that carry
	// a last parameter.
	LaterPageDelay time.Duration
	// DigestOnGetOnly omits the digest header from HEAD responses like GHCR does.
	DigestOnGetOnly bool
	// RequireToken makes manifest and tag requests without the mock token fail
	// with a bearer challenge.
	RequireToken bool
	// TagsStatus overrides the status of every tag list response when set.
	TagsStatus int

	mu           sync.Mutex
	repositories map[string]*repository
	requests     []string
	scopes       []string
	server       *httptest.Server
}

func NewRegistry() *Registry {
	r := &Registry{repositories: map[string]*repository{}}
	r.server = httptest.NewServer(http.HandlerFunc(r.serveHTTP))
	return r
}

func (r *Registry) Close() {
	r.server.Close()
}

func (r *Registry) Host() string {
	return strings.TrimPrefix(r.server.URL, "http://")
}

func (r *Registry) URL() string {
	return r.server.URL
}

// DockerHubOpts routes Docker Hub traffic of a registry.Client to this mock.
func (r *Registry) DockerHubOpts() registry.Opts {
	return registry.Opts{
		Scheme:            "http",
		DockerHubHost:     r.Host(),
		DockerHubTokenURL: r.server.URL + "/token",
	}
}

// GHCROpts routes GHCR traffic of a registry.Client to this mock.
func (r *Registry) GHCROpts() registry.Opts {
	return registry.Opts{
		Scheme:       "http",
		GHCRHost:     r.Host(),
		GHCRTokenURL: r.server.URL + "/token",
	}
}

func (r *Registry) AddImage(path string, tag string, digest string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	repo := r.repository(path)
	if _, ok := repo.digests[tag]; !ok {
		repo.tags = append(repo.tags, tag)
	}

	repo.digests[tag] = digest
}

func (r *Registry) AddTags(path string, tags ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	repo := r.repository(path)
	repo.tags = append(repo.tags, tags...)
}

// Requests returns "METHOD path" for every request received, token requests
// included.
func (r *Registry) Requests() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.requests...)
}

func (r *Registry) CountRequests(prefix string) int {
	count := 0
	for _, req := range r.Requests() {
		if strings.HasPrefix(req, prefix) {
			count++
		}
	}

	return count
}

// Scopes returns the scope parameter of every token request.
func (r *Registry) Scopes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.scopes...)
}

func (r *Registry) repository(path string) *repository {
	repo, ok := r.repositories[path]
	if !ok {
		repo = &repository{digests: map[string]string{}}
		r.repositories[path] = repo
	}

	return repo
}

func (r *Registry) serveHTTP(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	r.requests = append(r.requests, req.Method+" "+req.URL.Path)
	r.mu.Unlock()

	if req.URL.Path == "/token" {
		r.serveToken(w, req)
		return
	}

	if !strings.HasPrefix(req.URL.Path, "/v2/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	if r.Delay > 0 {
		time.Sleep(r.Delay)
	}

	rest := strings.TrimPrefix(req.URL.Path, "/v2/")
	if strings.HasSuffix(rest, "/tags/list") {
		path := strings.TrimSuffix(rest, "/tags/list")
		if !r.authorized(w, req, path) {
			return
		}

		r.serveTags(w, req, path)
		return
	}

	i := strings.LastIndex(rest, "/manifests/")
	if i < 0 {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	path, tag := rest[:i], rest[i+len("/manifests/"):]
	if !r.authorized(w, req, path) {
		return
	}

	r.serveManifest(w, req, path, tag)
}

func (r *Registry) authorized(w http.ResponseWriter, req *http.Request, path string) bool {
	if !r.RequireToken || req.Header.Get("Authorization") == "Bearer "+Token {
		return true
	}

	w.Header().Set(registry.ChallengeHeader, fmt.Sprintf(`Bearer realm="%s/token",service="mock-registry",scope="repository:%s:pull"`, r.server.URL, path))
	w.WriteHeader(http.StatusUnauthorized)
	return false
}

func (r *Registry) serveToken(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	r.scopes = append(r.scopes, req.URL.Query().Get("scope"))
	r.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"token": Token})
}

func (r *Registry) serveManifest(w http.ResponseWriter, req *http.Request, path string, tag string) {
	r.mu.Lock()
	repo, ok := r.repositories[path]
	var digest string
	if ok {
		digest, ok = repo.digests[tag]
	}
	r.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	if req.Method == http.MethodGet || !r.DigestOnGetOnly {
		w.Header().Set(registry.ContentDigestHeader, digest)
	}

	w.Header().Set("Content-Type", "application/vnd.oci.image.index.v1+json")
	w.WriteHeader(http.StatusOK)
	if req.Method == http.MethodGet {
		w.Write([]byte(`{"schemaVersion":2,"manifests":[]}`))
	}
}

func (r *Registry) serveTags(w http.ResponseWriter, req *http.Request, path string) {
	if r.LaterPageDelay > 0 && req.URL.Query().Get("last") != "" {
		time.Sleep(r.LaterPageDelay)
	}

	if r.TagsStatus != 0 {
		w.WriteHeader(r.TagsStatus)
		return
	}

	r.mu.Lock()
	repo, ok := r.repositories[path]
	var tags []string
	if ok {
		tags = append(tags, repo.tags...)
	}
	r.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	n := len(tags)
	if v := req.URL.Query().Get("n"); v != "" {
		n, _ = strconv.Atoi(v)
	}

	start := 0
	if last := req.URL.Query().Get("last"); last != "" {
		start = len(tags)
		for i, t := range tags {
			if t == last {
				start = i + 1
				break
			}
		}
	}

	end := start + n
	if end > len(tags) {
		end = len(tags)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"name": path,
		"tags": tags[start:end],
	})
}
