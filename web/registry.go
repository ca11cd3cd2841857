package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/docker/distribution/manifest/manifestlist"
	"github.com/docker/distribution/manifest/schema2"
	"github.com/docker/distribution/notifications"
	"github.com/imagespy/freshness/registry"
	"github.com/imagespy/freshness/scrape"
	"github.com/imagespy/freshness/store"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	log "github.com/sirupsen/logrus"
)

var manifestMediaTypes = map[string]struct{}{
	manifestlist.MediaTypeManifestList: {},
	ocispec.MediaTypeImageIndex:        {},
	ocispec.MediaTypeImageManifest:     {},
	schema2.MediaTypeManifest:          {},
}

// registryHandler re-checks stored containers when a registry reports a push
// to their repository. Only one re-check per repository runs at a time.
type registryHandler struct {
	eventDedup      map[string]struct{}
	eventDedupMutex *sync.RWMutex
	scraper         scrape.Scraper
	store           store.Store
	wg              sync.WaitGroup
}

func (rh *registryHandler) registryEvent(w http.ResponseWriter, r *http.Request) {
	log.Debug("processing docker registry event")
	if r.Header.Get("Content-Type") != notifications.EventsMediaType {
		log.Debug("docker registry event contains unsupported content type")
		w.WriteHeader(http.StatusOK)
		return
	}

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		log.Errorf("reading registry event payload: %s", err)
		w.WriteHeader(http.StatusOK)
		return
	}

	defer r.Body.Close()
	envelope := &notifications.Envelope{}
	err = json.Unmarshal(payload, envelope)
	if err != nil {
		log.Errorf("unmarshalling registry event payload: %s", err)
		w.WriteHeader(http.StatusOK)
		return
	}

	if rh.store == nil {
		log.Debug("ignoring registry event because no store is configured")
		w.WriteHeader(http.StatusOK)
		return
	}

	for _, event := range envelope.Events {
		if event.Action != notifications.EventActionPush {
			continue
		}

		if _, ok := manifestMediaTypes[event.Target.MediaType]; !ok {
			continue
		}

		targetURL, err := url.ParseRequestURI(event.Target.URL)
		if err != nil {
			log.Error(err)
			continue
		}

		port := ":" + targetURL.Port()
		if port == ":443" || port == ":80" || port == ":" {
			port = ""
		}

		ref := registry.ParseImageRef(fmt.Sprintf("%s%s/%s", targetURL.Hostname(), port, event.Target.Repository))
		repository := ref.Registry + "/" + ref.Path
		if !rh.claim(repository) {
			log.Debugf("re-check of %s already running", repository)
			continue
		}

		rh.wg.Add(1)
		go func() {
			defer func() {
				rh.eventDedupMutex.Lock()
				delete(rh.eventDedup, repository)
				rh.eventDedupMutex.Unlock()
				rh.wg.Done()
			}()

			rh.recheckRepository(context.Background(), repository)
		}()
	}

	w.WriteHeader(http.StatusOK)
}

// claim marks repository as being re-checked. It returns false if a re-check
// is already running.
func (rh *registryHandler) claim(repository string) bool {
	rh.eventDedupMutex.Lock()
	defer rh.eventDedupMutex.Unlock()
	if _, exists := rh.eventDedup[repository]; exists {
		return false
	}

	rh.eventDedup[repository] = struct{}{}
	return true
}

// recheckRepository scrapes every container whose newest check belongs to
// repository.
func (rh *registryHandler) recheckRepository(ctx context.Context, repository string) {
	checks, err := rh.store.Checks().List(store.CheckListOptions{Repository: repository})
	if err != nil {
		log.Errorf("listing checks of repository %s: %s", repository, err)
		return
	}

	seen := map[string]struct{}{}
	for _, c := range checks {
		if _, ok := seen[c.ContainerName]; ok {
			continue
		}

		seen[c.ContainerName] = struct{}{}
		log.Debugf("re-checking container %s after push to %s", c.ContainerName, repository)
		_, err := rh.scraper.Scrape(ctx, scrape.Work{
			ContainerName: c.ContainerName,
			ImageRef:      c.ImageRef,
			LocalDigest:   c.LocalDigest,
		})
		if err != nil {
			log.Errorf("re-checking container %s: %s", c.ContainerName, err)
		}
	}
}
