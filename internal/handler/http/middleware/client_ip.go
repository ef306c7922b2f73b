package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/admission"
)

// ObservedAddresses returns every address the request presents, in
// forwarding order: the X-Forwarded-For entries when the header is set,
// otherwise the peer address.
func ObservedAddresses(r *http.Request) []string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return admission.NormalizeAll(parts)
	}

	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		host = h
	}
	return []string{admission.NormalizeAddress(host)}
}

// ClientIP is the first normalized observed address.
func ClientIP(r *http.Request) string {
	return admission.PrimaryAddress(ObservedAddresses(r))
}
