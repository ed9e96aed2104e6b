package http

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
)

// Request wraps *http.Request with input helpers.
type Request struct {
	raw *http.Request
}

// NewRequest wraps a standard *http.Request.
func NewRequest(r *http.Request) *Request {
	return &Request{raw: r}
}

// Raw returns the underlying *http.Request.
func (req *Request) Raw() *http.Request { return req.raw }

// ── Input helpers ────────────────────────────────────────────────────────────

// Query returns a query-string value.
func (req *Request) Query(key string, fallback ...string) string {
	v := req.raw.URL.Query().Get(key)
	if v == "" && len(fallback) > 0 {
		return fallback[0]
	}
	return v
}

// Queries returns the first value of each key present in the query string.
// Absent keys are left out, so the result can go straight to a validator.
func (req *Request) Queries(keys ...string) map[string]string {
	q := req.raw.URL.Query()
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if q.Has(k) {
			out[k] = q.Get(k)
		}
	}
	return out
}

// RouteParam returns a URL route parameter (chi), path-unescaped.
// "mail%2Fer" comes back as "mail/er".
func (req *Request) RouteParam(key string) (string, error) {
	return url.PathUnescape(chi.URLParam(req.raw, key))
}
