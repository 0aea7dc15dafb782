package request

import "strings"

const (
	ClientTypeWeb    = "web"
	ClientTypeMobile = "mobile"
)

// ResolveClientType prefers the explicit X-Client-Type header and falls
// back to a user agent sniff.
func ResolveClientType(clientHeader, userAgent string) string {
	switch strings.ToLower(clientHeader) {
	case ClientTypeWeb, ClientTypeMobile:
		return strings.ToLower(clientHeader)
	}

	ua := strings.ToLower(userAgent)
	if strings.Contains(ua, "mozilla") || strings.Contains(ua, "chrome") || strings.Contains(ua, "safari") {
		return ClientTypeWeb
	}
	return ClientTypeMobile
}

func IsWebClient(clientType string) bool {
	return clientType == ClientTypeWeb
}
