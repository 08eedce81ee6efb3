// Package cors decides which browser origins may read relay responses.
package cors

import "net/http"

const (
	// Wildcard is the Access-Control-Allow-Origin value used in allow-all mode.
	Wildcard = "*"

	HeaderAllowOrigin      = "Access-Control-Allow-Origin"
	HeaderAllowMethods     = "Access-Control-Allow-Methods"
	HeaderAllowHeaders     = "Access-Control-Allow-Headers"
	HeaderAllowCredentials = "Access-Control-Allow-Credentials"
	HeaderRequestMethod    = "Access-Control-Request-Method"
	HeaderRequestHeaders   = "Access-Control-Request-Headers"
	HeaderOrigin           = "Origin"
	HeaderVary             = "Vary"

	// PreflightMethods is advertised on successful preflights.
	PreflightMethods = "GET, POST, OPTIONS, PUT, DELETE, PATCH"
)

// Decision is the outcome of evaluating one request origin.
type Decision struct {
	Allowed bool
	// Origin is the Access-Control-Allow-Origin value; empty when not allowed.
	Origin string
	// Credentials is set only when Origin mirrors a concrete origin;
	// browsers reject credentials alongside the wildcard.
	Credentials bool
}

// Policy is built once at startup and never mutated, so it is safe to share
// between concurrent requests.
type Policy struct {
	allowAll  bool
	allowlist map[string]struct{}
}

func NewPolicy(allowAll bool, origins []string) *Policy {
	p := &Policy{
		allowAll:  allowAll,
		allowlist: make(map[string]struct{}, len(origins)),
	}
	for _, o := range origins {
		p.allowlist[o] = struct{}{}
	}
	return p
}

func (p *Policy) AllowAll() bool {
	return p.allowAll
}

// Evaluate matches origin exactly against the allowlist. An empty origin is
// never allowed outside allow-all mode.
func (p *Policy) Evaluate(origin string) Decision {
	if p.allowAll {
		return Decision{Allowed: true, Origin: Wildcard}
	}
	if origin == "" {
		return Decision{}
	}
	if _, ok := p.allowlist[origin]; !ok {
		return Decision{}
	}
	return Decision{Allowed: true, Origin: origin, Credentials: true}
}

// Apply writes the decision's response headers. It is a no-op for rejected
// origins.
func (d Decision) Apply(h http.Header) {
	if !d.Allowed {
		return
	}
	h.Set(HeaderAllowOrigin, d.Origin)
	if d.Credentials {
		h.Set(HeaderAllowCredentials, "true")
		h.Add(HeaderVary, HeaderOrigin)
	}
}

// PreflightHeaders returns the headers for an accepted preflight.
// requestedHeaders is echoed back; "*" is used when the browser sent none.
func (d Decision) PreflightHeaders(requestedHeaders string) http.Header {
	h := http.Header{}
	if !d.Allowed {
		return h
	}
	d.Apply(h)
	h.Set(HeaderAllowMethods, PreflightMethods)
	if requestedHeaders == "" {
		requestedHeaders = Wildcard
	}
	h.Set(HeaderAllowHeaders, requestedHeaders)
	return h
}
