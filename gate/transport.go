package gate

import (
	"context"
	"errors"
	"net/http"
)

// Transport returns a RoundTripper that sends every request through the
// gate. Final non-2xx responses are handed back unchanged so SDK clients
// can decode their own error bodies. Requests with a body are replayed via
// GetBody on retry; a body without GetBody can only be sent once.
func (g *Gate) Transport(op string, base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &transport{gate: g, op: op, base: base}
}

type transport struct {
	gate *Gate
	op   string
	base http.RoundTripper
}

var errBodyNotReplayable = errors.New("gate: request body cannot be replayed for retry")

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	sent := false
	return t.gate.run(req.Context(), t.op, func(ctx context.Context) (*http.Response, error) {
		attempt := req.Clone(ctx)
		if req.Body != nil && req.Body != http.NoBody {
			switch {
			case req.GetBody != nil:
				body, err := req.GetBody()
				if err != nil {
					return nil, err
				}
				attempt.Body = body
			case sent:
				return nil, errBodyNotReplayable
			}
		}
		sent = true
		return t.base.RoundTrip(attempt)
	}, true)
}
