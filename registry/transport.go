package registry

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const defaultUserAgent = "freshness"

var requestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "freshness",
		Subsystem: "registry",
		Name:      "requests_total",
		Help:      "Requests sent to registries and token issuers, by method and response code.",
	},
	[]string{"method", "code"},
)

func init() {
	prometheus.MustRegister(requestsTotal)
}

// Transport identifies the client to registries and counts outgoing requests.
// It never stores credentials; every call attaches its own token.
type Transport struct {
	Transport http.RoundTripper
	UserAgent string
}

func NewTransport(rt http.RoundTripper, userAgent string) *Transport {
	if rt == nil {
		rt = http.DefaultTransport
	}

	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Transport{Transport: rt, UserAgent: userAgent}
}

// RoundTrip defines the round tripper for the instrumented transport.
func (t *Transport) RoundTrip(request *http.Request) (*http.Response, error) {
	if request.Header.Get("User-Agent") == "" {
		request = request.Clone(request.Context())
		request.Header.Set("User-Agent", t.UserAgent)
	}

	resp, err := t.Transport.RoundTrip(request)
	if err != nil {
		requestsTotal.WithLabelValues(request.Method, "error").Inc()
		return resp, err
	}

	requestsTotal.WithLabelValues(request.Method, strconv.Itoa(resp.StatusCode)).Inc()
	return resp, nil
}
