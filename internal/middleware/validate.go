package middleware

import (
	"net/http"
)

/*
HTTP REQUEST GUARD

The gateway never forwards inbound bodies, so there is no reason to
accept large ones. Bodies are capped with http.MaxBytesReader here;
requests declaring more than MaxRequestBodyBytes are rejected by the
gateway handler once the route is known, so an unmatched path is
still a 404.

No payload inspection, no content parsing.
*/

const (
	// Maximum allowed request body size in bytes.
	MaxRequestBodyBytes = 64 << 10 // 64 KiB
)

// DeclaredBodyTooLarge reports whether the request announces a body
// over MaxRequestBodyBytes.
func DeclaredBodyTooLarge(r *http.Request) bool {
	return r.ContentLength > MaxRequestBodyBytes
}

func ValidateRequestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodyBytes)
		}

		next.ServeHTTP(w, r)
	})
}
