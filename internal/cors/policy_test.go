package cors

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

var devOrigins = []string{"http://localhost:5173", "http://127.0.0.1:3000"}

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name     string
		allowAll bool
		origin   string
		want     Decision
	}{
		{name: "wildcard any origin", allowAll: true, origin: "http://evil.example", want: Decision{Allowed: true, Origin: "*"}},
		{name: "wildcard without origin", allowAll: true, origin: "", want: Decision{Allowed: true, Origin: "*"}},
		{name: "allowlisted origin mirrored", origin: "http://localhost:5173", want: Decision{Allowed: true, Origin: "http://localhost:5173", Credentials: true}},
		{name: "unknown origin", origin: "http://unknown.example", want: Decision{}},
		{name: "missing origin", origin: "", want: Decision{}},
		{name: "match is exact", origin: "http://localhost:5173/", want: Decision{}},
		{name: "match is case sensitive", origin: "HTTP://LOCALHOST:5173", want: Decision{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPolicy(tc.allowAll, devOrigins)
			require.Equal(t, tc.want, p.Evaluate(tc.origin))
		})
	}
}

func TestDecisionApply(t *testing.T) {
	t.Run("wildcard omits credentials", func(t *testing.T) {
		h := http.Header{}
		NewPolicy(true, nil).Evaluate("http://evil.example").Apply(h)
		require.Equal(t, "*", h.Get(HeaderAllowOrigin))
		require.Empty(t, h.Get(HeaderAllowCredentials))
		require.Empty(t, h.Get(HeaderVary))
	})

	t.Run("allowlisted sets credentials and vary", func(t *testing.T) {
		h := http.Header{}
		NewPolicy(false, devOrigins).Evaluate("http://127.0.0.1:3000").Apply(h)
		require.Equal(t, "http://127.0.0.1:3000", h.Get(HeaderAllowOrigin))
		require.Equal(t, "true", h.Get(HeaderAllowCredentials))
		require.Equal(t, "Origin", h.Get(HeaderVary))
	})

	t.Run("rejected writes nothing", func(t *testing.T) {
		h := http.Header{}
		NewPolicy(false, devOrigins).Evaluate("http://unknown.example").Apply(h)
		require.Empty(t, h)
	})
}

func TestDecisionPreflightHeaders(t *testing.T) {
	p := NewPolicy(false, devOrigins)

	h := p.Evaluate("http://localhost:5173").PreflightHeaders("content-type, x-session")
	require.Equal(t, PreflightMethods, h.Get(HeaderAllowMethods))
	require.Equal(t, "content-type, x-session", h.Get(HeaderAllowHeaders))
	require.Equal(t, "true", h.Get(HeaderAllowCredentials))

	h = p.Evaluate("http://localhost:5173").PreflightHeaders("")
	require.Equal(t, "*", h.Get(HeaderAllowHeaders))

	require.Empty(t, p.Evaluate("http://unknown.example").PreflightHeaders("content-type"))
}
