package core

import (
	"net"
	"net/http"
	"strings"
)

// headers checked in order, first public address wins
var clientIPHeaders = []string{
	"Cf-Connecting-Ip",
	"True-Client-Ip",
	"X-Real-Ip",
	"X-Client-Ip",
	"Fastly-Client-Ip",
	"X-Forwarded-For",
	"Forwarded",
}

func isPublicIP(input string) bool {
	ip := net.ParseIP(input)
	return ip != nil && !ip.IsPrivate() && !ip.IsLoopback() && !ip.IsUnspecified()
}

func firstPublicIP(values string, extract func(part string) string) string {
	for part := range strings.SplitSeq(values, ",") {
		if ip := extract(strings.TrimSpace(part)); isPublicIP(ip) {
			return ip
		}
	}
	return ""
}

func stripPort(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return strings.Trim(addr, "[]")
}

// extracts `for=` from a RFC 7239 element, e.g. `for="[2001:db8::1]:4711";proto=https`
func forwardedFor(element string) string {
	for pair := range strings.SplitSeq(element, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if ok && strings.EqualFold(key, "for") {
			return stripPort(strings.Trim(value, `"`))
		}
	}
	return ""
}

// GetRequestIP returns the public address of the caller, or empty string
// when only private/loopback addresses are visible.
func GetRequestIP(r *http.Request) string {
	for _, header := range clientIPHeaders {
		value := r.Header.Get(header)
		if value == "" {
			continue
		}
		switch header {
		case "X-Forwarded-For":
			if ip := firstPublicIP(value, stripPort); ip != "" {
				return ip
			}
		case "Forwarded":
			if ip := firstPublicIP(value, forwardedFor); ip != "" {
				return ip
			}
		default:
			if ip := strings.TrimSpace(value); isPublicIP(ip) {
				return ip
			}
		}
	}

	if ip := stripPort(r.RemoteAddr); isPublicIP(ip) {
		return ip
	}
	return ""
}

// GetClientIP prefers an explicit `client_ip` query parameter, which lets a
// trusted proxy forward the address of the player.
func GetClientIP(r *http.Request) string {
	if ip := r.URL.Query().Get("client_ip"); isPublicIP(ip) {
		return ip
	}
	return GetRequestIP(r)
}
