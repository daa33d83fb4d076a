package cloud

import (
	"net/http"
)

// UserAgentTransport wraps an http.RoundTripper and adds a User-Agent header.
type UserAgentTransport struct {
	http.RoundTripper
	UserAgent string
}

// RoundTrip executes a single HTTP transaction, adding the User-Agent header.
func (t *UserAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.RoundTripper
	if base == nil {
		base = http.DefaultTransport
	}
	// Clone the request to avoid modifying the original
	clonedReq := req.Clone(req.Context())
	clonedReq.Header.Set("User-Agent", t.UserAgent)
	return base.RoundTrip(clonedReq)
}

// NewHTTPClient returns a client that identifies itself as userAgent.
func NewHTTPClient(userAgent string) *http.Client {
	return &http.Client{
		Timeout:   DefaultTimeout,
		Transport: &UserAgentTransport{RoundTripper: http.DefaultTransport, UserAgent: userAgent},
	}
}
