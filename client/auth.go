package client

import (
	"net/http"
	"net/url"
)

// TokenPlacement selects where the API token is sent.
type TokenPlacement string

const (
	// PlacementHeader sends "Authorization: Bearer <token>".
	PlacementHeader TokenPlacement = "header"
	// PlacementQuery sends ?token=<token>.
	PlacementQuery TokenPlacement = "query"
	// PlacementBody sends a "token" field in POST payloads. GET requests
	// fall back to the query string.
	PlacementBody TokenPlacement = "body"
)

// Auth carries the caller-supplied referrer and token. Neither is
// validated; they are passed through as given.
type Auth struct {
	Referrer  string
	Token     string
	Placement TokenPlacement
}

// override returns a copy with non-empty per-request values applied.
func (a Auth) override(referrer, token string) Auth {
	if referrer != "" {
		a.Referrer = referrer
	}
	if token != "" {
		a.Token = token
	}
	return a
}

// applyQuery decorates a GET request's query.
func (a Auth) applyQuery(q url.Values) {
	if a.Referrer != "" {
		q.Set("referrer", a.Referrer)
	}
	if a.Token != "" && a.Placement != PlacementHeader {
		q.Set("token", a.Token)
	}
}

// applyBody decorates a POST payload.
func (a Auth) applyBody(body map[string]any) {
	if a.Referrer != "" {
		body["referrer"] = a.Referrer
	}
	if a.Token != "" && a.Placement == PlacementBody {
		body["token"] = a.Token
	}
}

func (a Auth) applyHeader(h http.Header) {
	if a.Token != "" && a.Placement == PlacementHeader {
		h.Set("Authorization", "Bearer "+a.Token)
	}
}

// signURL adds referrer and token query parameters for URLs handed to
// third parties, where headers cannot be attached.
func (a Auth) signURL(q url.Values) {
	if a.Referrer != "" {
		q.Set("referrer", a.Referrer)
	}
	if a.Token != "" {
		q.Set("token", a.Token)
	}
}
