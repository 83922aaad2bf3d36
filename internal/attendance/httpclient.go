package attendance

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/clambin/go-common/http/metrics"
	"github.com/clambin/go-common/http/roundtripper"
	"github.com/prometheus/client_golang/prometheus"
)

// NewHTTPClient returns an http.Client that applies timeout to every request (0 means no timeout)
// and records each call in requestMetrics.
func NewHTTPClient(timeout time.Duration, requestMetrics metrics.RequestMetrics) *http.Client {
	return &http.Client{
		Transport: instrumentedRoundTripper(http.DefaultTransport, requestMetrics),
		Timeout:   timeout,
	}
}

func instrumentedRoundTripper(rt http.RoundTripper, requestMetrics metrics.RequestMetrics) http.RoundTripper {
	if requestMetrics == nil {
		return rt
	}
	return roundtripper.New(
		roundtripper.WithRequestMetrics(requestMetrics),
		roundtripper.WithRoundTripper(rt),
	)
}

// NewRequestMetrics records the calls to the attendance service, by method, endpoint and status code.
func NewRequestMetrics(namespace, subsystem string, labels prometheus.Labels) metrics.RequestMetrics {
	return metrics.NewRequestMetrics(metrics.Options{
		Namespace:   namespace,
		Subsystem:   subsystem,
		ConstLabels: labels,
		LabelValues: func(request *http.Request, code int) (string, string, string) {
			return request.Method, endpoint(request.URL.Path), strconv.Itoa(code)
		},
	})
}

func endpoint(path string) string {
	for _, known := range []string{loginPath, historyPath, hitPath} {
		if strings.HasSuffix(path, "/"+known) {
			return "/" + known
		}
	}
	return "/"
}
