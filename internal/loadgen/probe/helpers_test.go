package probe

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/armadaproject/loadgen/internal/loadgen/metrics"
)

var requestTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type recordedRequest struct {
	Path   string
	Params url.Values
}

// queryServer is a fake query api answering every request with a fixed status.
type queryServer struct {
	*httptest.Server
	mu       sync.Mutex
	status   int
	requests []recordedRequest
}

func newQueryServer(status int) *queryServer {
	s := &queryServer{status: status}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, recordedRequest{Path: r.URL.Path, Params: r.URL.Query()})
		status := s.status
		s.mu.Unlock()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"status":"success","data":{"resultType":"vector","result":[]}}`))
	}))
	return s
}

func (s *queryServer) setStatus(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

func (s *queryServer) recorded() []recordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]recordedRequest{}, s.requests...)
}

func (s *queryServer) baseUrl() string {
	return s.URL + "/api/v1"
}

func registerForTest(t *testing.T, registry *metrics.Registry) (*metrics.Registry, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	require.NoError(t, registry.Register(reg))
	return registry, reg
}

// metricValue returns the value of the counter or gauge name whose labels include all of want, or the sample count
// for histograms.
func metricValue(t *testing.T, reg *prometheus.Registry, name string, want map[string]string) float64 {
	families, err := reg.Gather()
	require.NoError(t, err)
	total := 0.0
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
	metrics:
		for _, m := range family.GetMetric() {
			labels := map[string]string{}
			for _, pair := range m.GetLabel() {
				labels[pair.GetName()] = pair.GetValue()
			}
			for k, v := range want {
				if labels[k] != v {
					continue metrics
				}
			}
			switch {
			case m.Counter != nil:
				total += m.GetCounter().GetValue()
			case m.Gauge != nil:
				total += m.GetGauge().GetValue()
			case m.Histogram != nil:
				total += float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return total
}

// captureLogs routes the standard logger into a test hook until the test ends.
func captureLogs(t *testing.T) *test.Hook {
	logger, hook := test.NewNullLogger()
	previousOut, previousHooks := logrus.StandardLogger().Out, logrus.StandardLogger().ReplaceHooks(logger.Hooks)
	logrus.SetOutput(logger.Out)
	t.Cleanup(func() {
		logrus.SetOutput(previousOut)
		logrus.StandardLogger().ReplaceHooks(previousHooks)
	})
	return hook
}
