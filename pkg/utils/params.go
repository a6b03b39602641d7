package utils

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
)

// PathParam returns the decoded value of a chi URL parameter. chi matches on
// RawPath when the request has one, which leaves the segment escaped;
// otherwise it matches the already decoded Path and the value is returned
// as is.
func PathParam(r *http.Request, name string) (string, error) {
	value := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return value, nil
	}
	return url.PathUnescape(value)
}
