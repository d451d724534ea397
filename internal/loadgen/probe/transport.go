package probe

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/api"

	"github.com/armadaproject/loadgen/internal/loadgen/configuration"
)

// QueryRequest is a single query against the query api. Start, End and Step are only used by range queries; Time
// pins an instant query to a fixed evaluation time and is ignored when zero.
type QueryRequest struct {
	Expr  string
	Type  string
	Start time.Time
	End   time.Time
	Step  string
	Time  time.Time
}

type QueryResponse struct {
	StatusCode int
	Size       int
}

// QueryTransport issues queries against one target. A non-nil error means no http response was received.
type QueryTransport interface {
	Query(ctx context.Context, req QueryRequest) (QueryResponse, error)
}

type HttpQueryTransport struct {
	client api.Client
}

func NewHttpQueryTransport(baseUrl string, roundTripper http.RoundTripper) (*HttpQueryTransport, error) {
	client, err := api.NewClient(api.Config{
		Address:      baseUrl,
		RoundTripper: roundTripper,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "creating query client for %s", baseUrl)
	}
	return &HttpQueryTransport{client: client}, nil
}

func (t *HttpQueryTransport) Query(ctx context.Context, req QueryRequest) (QueryResponse, error) {
	endpoint, params := "/query", url.Values{}
	params.Set("query", req.Expr)
	if req.Type == configuration.RangeQuery {
		endpoint = "/query_range"
		params.Set("start", formatTime(req.Start))
		params.Set("end", formatTime(req.End))
		params.Set("step", req.Step)
	} else if !req.Time.IsZero() {
		params.Set("time", formatTime(req.Time))
	}

	u := t.client.URL(endpoint, nil)
	u.RawQuery = params.Encode()
	httpReq, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		return QueryResponse{}, errors.WithStack(err)
	}

	resp, body, err := t.client.Do(ctx, httpReq)
	if err != nil {
		return QueryResponse{}, err
	}
	return QueryResponse{StatusCode: resp.StatusCode, Size: len(body)}, nil
}

func formatTime(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 10)
}
