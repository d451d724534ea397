package probe

import (
	"fmt"
	"net/http"

	"github.com/armadaproject/loadgen/internal/loadgen/metrics"
)

type Kind int

const (
	Success Kind = iota
	ClientError
	ServerError
	NotFound
	TransportError
	Unknown
)

var kindLabels = map[Kind]string{
	Success:        metrics.OutcomeSuccess,
	ClientError:    metrics.OutcomeClientError,
	ServerError:    metrics.OutcomeServerError,
	NotFound:       metrics.OutcomeNotFound,
	TransportError: metrics.OutcomeTransportError,
	Unknown:        metrics.OutcomeUnknown,
}

func (k Kind) String() string {
	if label, ok := kindLabels[k]; ok {
		return label
	}
	return metrics.OutcomeUnknown
}

// Outcome is the classified result of a single probe attempt.
type Outcome struct {
	Kind       Kind
	StatusCode int
	Err        error
}

// Classify maps the result of an http round trip to an Outcome. A non-nil err always wins over the status code.
func Classify(statusCode int, err error) Outcome {
	if err != nil {
		return Outcome{Kind: TransportError, Err: err}
	}
	outcome := Outcome{StatusCode: statusCode}
	switch {
	case statusCode == http.StatusNotFound:
		outcome.Kind = NotFound
	case statusCode >= 200 && statusCode <= 299:
		outcome.Kind = Success
	case statusCode >= 400 && statusCode <= 499:
		outcome.Kind = ClientError
	case statusCode >= 500 && statusCode <= 599:
		outcome.Kind = ServerError
	default:
		outcome.Kind = Unknown
	}
	return outcome
}

// Unreachable reports whether the outcome means the target could not be reached at all, as opposed to the target
// answering with an error.
func (o Outcome) Unreachable() bool {
	return o.Kind == NotFound || o.Kind == TransportError
}

func (o Outcome) String() string {
	if o.Err != nil {
		return fmt.Sprintf("%s: %s", o.Kind, o.Err)
	}
	return fmt.Sprintf("%s (%d)", o.Kind, o.StatusCode)
}
