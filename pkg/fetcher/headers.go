package fetcher

import "net/http"

// UserAgent is the fixed user-agent presented to origins. Origins with
// anti-bot defenses reject obviously synthetic agents, so a current browser
// string is used instead of a proxy-identifying one.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/109.0.0.0 Safari/537.36"

// forwardedRequestHeaders is the allow-list of inbound client headers that
// may be forwarded to the origin.
var forwardedRequestHeaders = []string{
	"Cookie",
	"Referer",
	"User-Agent",
	"Accept",
	"Accept-Encoding",
	"Dnt",
	"Cache-Control",
	"X-Forwarded-For",
	"Connection",
}

// FilterRequestHeaders returns the allow-listed subset of the given inbound
// headers. The input is not mutated.
func FilterRequestHeaders(inbound http.Header) http.Header {
	filtered := make(http.Header, len(forwardedRequestHeaders))

	for _, name := range forwardedRequestHeaders {
		values, found := inbound[http.CanonicalHeaderKey(name)]
		if !found {
			continue
		}

		for _, value := range values {
			filtered.Add(name, value)
		}
	}

	return filtered
}

func applyRequestHeaders(request *http.Request, inbound http.Header) {
	for name, values := range FilterRequestHeaders(inbound) {
		request.Header[name] = values
	}

	request.Header.Set("User-Agent", UserAgent)
}
