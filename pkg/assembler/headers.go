package assembler

import "net/http"

// Policy governs how origin headers are copied onto the client response.
type Policy struct {
	// Exclude lists header names (case-insensitive) that are never copied.
	Exclude []string

	// Transform, when set, rewrites the values of each copied header.
	// Returning an empty slice drops the header.
	Transform func(name string, values []string) []string

	// Overwrite allows a copied header to replace one already present on
	// the client response. When false, existing headers win.
	Overwrite bool

	// MergeValues appends copied values to an existing header instead of
	// replacing it. Only meaningful together with Overwrite.
	MergeValues bool
}

// DefaultPolicy drops hop-by-hop and body-framing headers: the proxy
// re-frames and re-encodes the body, so the origin's values would lie.
func DefaultPolicy() Policy {
	return Policy{
		Exclude: []string{
			"Connection",
			"Keep-Alive",
			"Transfer-Encoding",
			"Content-Length",
			"Content-Encoding",
			"Proxy-Authenticate",
			"Proxy-Authorization",
			"Te",
			"Trailer",
			"Upgrade",
			"Set-Cookie",
		},
		Overwrite: true,
	}
}

// CopyHeaders returns the result of copying src onto dst under the given
// policy. It is a pure function: neither input is mutated, which keeps the
// copy rules table-testable without any live request or response object.
func CopyHeaders(src, dst http.Header, policy Policy) http.Header {
	result := make(http.Header, len(src)+len(dst))
	for name, values := range dst {
		result[name] = append([]string(nil), values...)
	}

	excluded := make(map[string]bool, len(policy.Exclude))
	for _, name := range policy.Exclude {
		excluded[http.CanonicalHeaderKey(name)] = true
	}

	for name, values := range src {
		canonical := http.CanonicalHeaderKey(name)
		if excluded[canonical] {
			continue
		}

		copied := append([]string(nil), values...)
		if policy.Transform != nil {
			copied = policy.Transform(canonical, copied)
			if len(copied) == 0 {
				continue
			}
		}

		if existing, present := result[canonical]; present {
			if !policy.Overwrite {
				continue
			}

			if policy.MergeValues {
				result[canonical] = append(existing, copied...)
				continue
			}
		}

		result[canonical] = copied
	}

	return result
}
