package updater

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Jeffail/tunny"
	"github.com/imagespy/freshness/scrape"
	"github.com/imagespy/freshness/source"
	"github.com/imagespy/freshness/store"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	log "github.com/sirupsen/logrus"
)

const (
	prometheusNamespace = "freshness_updater"
)

var (
	completionTime = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: prometheusNamespace,
		Name:      "last_completion_timestamp_seconds",
		Help:      "The timestamp of the last completion of a update run, successful or not.",
	})
	duration = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: prometheusNamespace,
		Name:      "duration_seconds",
		Help:      "The duration of the last update run in seconds.",
	})
	failCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: prometheusNamespace,
		Name:      "last_check_fails",
		Help:      "The number of failed checks during the last run.",
	})
	updateCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: prometheusNamespace,
		Name:      "updates_available",
		Help:      "The number of containers with an update available after the last run.",
	})
)

func init() {
	prometheus.MustRegister(completionTime, duration, failCount, updateCount)
}

type Updater interface {
	Run(ctx context.Context) (*Report, error)
}

// Report summarises one run. Checks are ordered by container name.
type Report struct {
	Checks           []*store.Check `json:"checks"`
	Duration         time.Duration  `json:"duration"`
	Failed           int            `json:"failed"`
	UpdatesAvailable int            `json:"updatesAvailable"`
}

func (r *Report) add(c *store.Check) {
	r.Checks = append(r.Checks, c)
	if c.Error != "" {
		r.Failed++
	}

	if c.UpdateAvailable {
		r.UpdatesAvailable++
	}
}

type payload struct {
	ctx        context.Context
	containers []source.Container
}

type containerUpdater struct {
	dispatchFunc func(ctx context.Context, groups map[string][]source.Container)
	mu           sync.Mutex
	promPusher   *push.Pusher
	report       *Report
	scraper      scrape.Scraper
	source       source.Source
}

func (u *containerUpdater) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	containers, err := u.source.Containers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing containers")
	}

	grouped := map[string][]source.Container{}
	for _, c := range containers {
		grouped[c.ImageRef] = append(grouped[c.ImageRef], c)
	}

	u.mu.Lock()
	u.report = &Report{Checks: []*store.Check{}}
	u.mu.Unlock()
	u.dispatchFunc(ctx, grouped)

	u.mu.Lock()
	report := u.report
	u.report = nil
	u.mu.Unlock()

	sort.SliceStable(report.Checks, func(i, j int) bool {
		return report.Checks[i].ContainerName < report.Checks[j].ContainerName
	})
	report.Duration = time.Since(start)
	duration.Set(report.Duration.Seconds())
	failCount.Set(float64(report.Failed))
	updateCount.Set(float64(report.UpdatesAvailable))
	completionTime.SetToCurrentTime()
	if u.promPusher != nil {
		err = u.promPusher.Add()
		if err != nil {
			return report, errors.Wrap(err, "pushing metrics")
		}
	}

	return report, nil
}

// processGroup checks containers that share an image reference.
func (u *containerUpdater) processGroup(ctx context.Context, containers []source.Container) {
	for _, c := range containers {
		log.Debugf("checking container %s running %s", c.Name, c.ImageRef)
		check, err := u.scraper.Scrape(ctx, c.Work())
		if err != nil {
			log.Errorf("unable to check container %s: %s", c.Name, err)
			check = &store.Check{ContainerName: c.Name, Error: err.Error(), ImageRef: c.ImageRef, LocalDigest: c.LocalDigest}
		}

		if check.Error != "" {
			log.Warnf("check of container %s failed: %s", c.Name, check.Error)
		} else if check.UpdateAvailable {
			log.Infof("update available for container %s running %s", c.Name, c.ImageRef)
		}

		u.mu.Lock()
		u.report.add(check)
		u.mu.Unlock()
	}
}

// NewUpdater returns an Updater that checks at most wc image references in
// parallel.
func NewUpdater(pushgatewayURL string, src source.Source, scraper scrape.Scraper, wc int) Updater {
	if wc < 1 {
		wc = 1
	}

	u := &containerUpdater{
		scraper: scraper,
		source:  src,
	}

	if pushgatewayURL != "" {
		registry := prometheus.NewRegistry()
		registry.MustRegister(completionTime, duration, failCount, updateCount)
		u.promPusher = push.New(pushgatewayURL, "freshness_updater").Gatherer(registry)
	}

	pool := tunny.NewFunc(wc, func(p interface{}) interface{} {
		work, ok := p.(payload)
		if !ok {
			log.Error("unable to cast payload to updater.payload")
			return nil
		}

		u.processGroup(work.ctx, work.containers)
		return nil
	})

	ap := asyncProcessor{pool: pool}
	u.dispatchFunc = ap.dispatch

	return u
}

type asyncProcessor struct {
	pool *tunny.Pool
}

func (ap *asyncProcessor) dispatch(ctx context.Context, groups map[string][]source.Container) {
	wg := &sync.WaitGroup{}
	wg.Add(len(groups))
	for _, group := range groups {
		p := payload{ctx: ctx, containers: group}
		go func() {
			ap.pool.Process(p)
			wg.Done()
		}()
	}

	wg.Wait()
}
