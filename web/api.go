package web

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	"github.com/imagespy/freshness/registry"
	"github.com/imagespy/freshness/scrape"
	"github.com/imagespy/freshness/store"
	"github.com/imagespy/freshness/versionparser"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	scraper scrape.Scraper
	store   store.Store
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	image := r.URL.Query().Get("image")
	if image == "" {
		writeError(w, http.StatusBadRequest, "query parameter image is required")
		return
	}

	v := h.scraper.CheckUpdateAvailable(r.Context(), r.URL.Query().Get("digest"), image)
	writeJSON(w, http.StatusOK, v)
}

func (h *Handler) tags(w http.ResponseWriter, r *http.Request) {
	image := r.URL.Query().Get("image")
	if image == "" {
		writeError(w, http.StatusBadRequest, "query parameter image is required")
		return
	}

	tags, err := h.scraper.Tags(r.Context(), image)
	if err != nil {
		log.Debugf("listing tags of %s: %s", image, err)
	}

	writeJSON(w, http.StatusOK, registry.NewTagsResult(tags, err))
}

func (h *Handler) latest(w http.ResponseWriter, r *http.Request) {
	image := r.URL.Query().Get("image")
	if image == "" {
		writeError(w, http.StatusBadRequest, "query parameter image is required")
		return
	}

	latest, err := h.scraper.LatestTag(r.Context(), image)
	if err != nil {
		if err == scrape.ErrNoVersionTag {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}

		log.Debugf("finding latest tag of %s: %s", image, err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, latest)
}

func (h *Handler) version(w http.ResponseWriter, r *http.Request) {
	v, err := versionparser.ParseTag(mux.Vars(r)["tag"])
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, v)
}

func (h *Handler) checks(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "no store configured")
		return
	}

	o := store.CheckListOptions{
		ContainerName: r.URL.Query().Get("container"),
		ImageRef:      r.URL.Query().Get("image"),
		Limit:         100,
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		l, err := strconv.Atoi(limit)
		if err != nil || l < 1 {
			writeError(w, http.StatusBadRequest, "query parameter limit must be a positive number")
			return
		}

		o.Limit = l
	}

	checks, err := h.store.Checks().List(o)
	if err != nil {
		log.Errorf("listing checks: %s", err)
		writeError(w, http.StatusInternalServerError, "unable to read checks")
		return
	}

	writeJSON(w, http.StatusOK, checks)
}

// Init returns the HTTP API. s may be nil, which disables the endpoints that
// read or re-run stored checks.
func Init(scraper scrape.Scraper, s store.Store) http.Handler {
	h := &Handler{
		scraper: scraper,
		store:   s,
	}
	rh := &registryHandler{
		eventDedup:      map[string]struct{}{},
		eventDedupMutex: &sync.RWMutex{},
		scraper:         scraper,
		store:           s,
	}

	r := mux.NewRouter()
	r.HandleFunc("/v1/check", h.check).Methods(http.MethodGet)
	r.HandleFunc("/v1/tags", h.tags).Methods(http.MethodGet)
	r.HandleFunc("/v1/latest", h.latest).Methods(http.MethodGet)
	r.HandleFunc("/v1/versions/{tag}", h.version).Methods(http.MethodGet)
	r.HandleFunc("/v1/checks", h.checks).Methods(http.MethodGet)
	r.HandleFunc("/v1/events", rh.registryEvent).Methods(http.MethodPost)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return r
}
