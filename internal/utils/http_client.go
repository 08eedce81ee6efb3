package utils

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// NewHTTPClient builds the outbound client. maxRedirects of 0 returns 3xx
// responses to the caller instead of following them.
func NewHTTPClient(timeout time.Duration, maxRedirects int) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: false,
			},
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
		CheckRedirect: redirectPolicy(maxRedirects),
	}
}

// ErrRedirectLimit is wrapped in the error returned when the redirect limit
// is exceeded. The response handed back with it has its body already closed.
var ErrRedirectLimit = errors.New("redirect limit exceeded")

func redirectPolicy(maxRedirects int) func(*http.Request, []*http.Request) error {
	return func(_ *http.Request, via []*http.Request) error {
		if maxRedirects <= 0 {
			return http.ErrUseLastResponse
		}
		if len(via) > maxRedirects {
			return fmt.Errorf("stopped after %d redirects: %w", maxRedirects, ErrRedirectLimit)
		}
		return nil
	}
}
