// Package resilience guards outgoing HTTP calls with a circuit breaker.
// It never retries: a rejected or failed call is reported to the caller once.
package resilience

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/abgdnv/productctl/pkg/config"
	"github.com/sony/gobreaker/v2"
)

// serverFailure marks a 5xx answer so that the breaker counts it, while the
// response itself is still handed back to the caller.
type serverFailure struct {
	status int
}

func (e *serverFailure) Error() string {
	return fmt.Sprintf("server answered %d", e.status)
}

// NewCircuitBreaker creates a breaker that trips on consecutive failures or on an error rate
// above cfg.ErrorRatePercent. Transport errors and 5xx answers are failures; any other
// status, 404 included, is a normal outcome.
func NewCircuitBreaker(name string, cfg config.CircuitBreakerConfig) *gobreaker.CircuitBreaker[*http.Response] {
	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > cfg.ConsecutiveFailures ||
				(counts.Requests > cfg.ConsecutiveFailures &&
					float64(counts.TotalFailures)/float64(counts.Requests)*100 > float64(cfg.ErrorRatePercent))
		},
		IsSuccessful: func(err error) bool {
			return err == nil
		},
	}
	return gobreaker.NewCircuitBreaker[*http.Response](st)
}

// Transport is an http.RoundTripper passing every request through a circuit breaker.
// While the breaker is open, requests fail with gobreaker.ErrOpenState without reaching Base.
type Transport struct {
	Base    http.RoundTripper
	Breaker *gobreaker.CircuitBreaker[*http.Response]
}

// NewTransport wraps base, http.DefaultTransport when nil, with a breaker built from cfg.
func NewTransport(base http.RoundTripper, name string, cfg config.CircuitBreakerConfig) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{Base: base, Breaker: NewCircuitBreaker(name, cfg)}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.Breaker.Execute(func() (*http.Response, error) {
		resp, err := t.Base.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return resp, &serverFailure{status: resp.StatusCode}
		}
		return resp, nil
	})
	var sf *serverFailure
	if errors.As(err, &sf) {
		return resp, nil
	}
	return resp, err
}
