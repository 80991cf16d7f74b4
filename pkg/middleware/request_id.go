package middleware

import (
	"net/http"

	"github.com/supplydesk/desk/pkg/requestid"
)

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// RequestID stamps every outgoing request with the request ID found in its context,
// generating one when the caller did not set any. The ID is also put back in the
// request context so the logger sees the same value.
func RequestID(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		if r.Header.Get(requestid.Header) != "" {
			return next.RoundTrip(r)
		}

		ctx, id := requestid.Ensure(r.Context())
		r = r.Clone(ctx)
		r.Header.Set(requestid.Header, id)

		return next.RoundTrip(r)
	})
}
