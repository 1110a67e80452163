package http

import "net/http"

type authTransport struct {
	header    string
	value     string
	transport http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqCopy := req.Clone(req.Context())

	if t.value != "" {
		reqCopy.Header.Set(t.header, t.value)
	}

	return t.transport.RoundTrip(reqCopy)
}

// WithAuthToken adds a Bearer Authorization header to every request.
func WithAuthToken(token string) HttpOpts {
	return WithAuthHeader("Authorization", "Bearer "+token)
}

// WithAuthHeader adds an arbitrary credential header to every request,
// e.g. x-goog-api-key for Google APIs.
func WithAuthHeader(header, value string) HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &authTransport{
			header:    header,
			value:     value,
			transport: rt,
		}
	})
}
