// Package admission decides whether a caller's observed network addresses
// may punch, based on the allow-lists held in the admin settings.
package admission

import (
	"slices"
	"strings"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/settings"
)

// LoopbackAddress is the canonical loopback literal. Any request presenting
// it among its observed addresses is admitted without consulting settings.
const LoopbackAddress = "127.0.0.1"

const (
	mappedIPv4Prefix = "::ffff:"
	ipv6Loopback     = "::1"
)

// Result is the decision plus the diagnostics reported on denial.
type Result struct {
	Allowed        bool   `json:"allowed"`
	MatchedAddress string `json:"client_ip"`
	IPAllowed      bool   `json:"ip_allowed"`
	DeviceAllowed  bool   `json:"device_allowed"`
}

// NormalizeAddress strips IPv4-mapped IPv6 notation, maps the IPv6 loopback
// to LoopbackAddress and trims whitespace.
func NormalizeAddress(addr string) string {
	addr = strings.TrimSpace(addr)
	addr = strings.TrimPrefix(addr, mappedIPv4Prefix)
	if addr == ipv6Loopback {
		return LoopbackAddress
	}
	return addr
}

// NormalizeAll normalizes every address, preserving order and blanks.
func NormalizeAll(addrs []string) []string {
	out := make([]string, len(addrs))
	for i, a := range addrs {
		out[i] = NormalizeAddress(a)
	}
	return out
}

// NormalizeList normalizes an allow-list and drops empty entries.
func NormalizeList(list []string) []string {
	out := make([]string, 0, len(list))
	for _, a := range list {
		if a = NormalizeAddress(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// PrimaryAddress is the first normalized observed address, or "" if none.
func PrimaryAddress(observed []string) string {
	if len(observed) == 0 {
		return ""
	}
	return NormalizeAddress(observed[0])
}

// HasLoopback reports whether any observed address normalizes to loopback.
func HasLoopback(observed []string) bool {
	for _, a := range observed {
		if NormalizeAddress(a) == LoopbackAddress {
			return true
		}
	}
	return false
}

// Check evaluates observed against the allow-lists in s. The reported
// address is always the first observed one, while each allow flag is set
// when any observed address is a member of the corresponding list.
// A nil s yields settings.ErrSettingsNotConfigured unless loopback is present.
func Check(observed []string, s *settings.AdminSettings) (Result, error) {
	normalized := NormalizeAll(observed)
	primary := ""
	if len(normalized) > 0 {
		primary = normalized[0]
	}

	if slices.Contains(normalized, LoopbackAddress) {
		return Result{Allowed: true, MatchedAddress: primary, IPAllowed: true, DeviceAllowed: true}, nil
	}

	if s == nil {
		return Result{}, settings.ErrSettingsNotConfigured
	}

	allowedIPs := NormalizeList(s.AllowedIPs)
	allowedDevices := NormalizeList(s.AllowedDevices)

	res := Result{
		MatchedAddress: primary,
		IPAllowed:      anyMember(normalized, allowedIPs),
		DeviceAllowed:  anyMember(normalized, allowedDevices),
	}
	res.Allowed = res.IPAllowed || res.DeviceAllowed
	return res, nil
}

func anyMember(observed, allowed []string) bool {
	for _, addr := range observed {
		if addr != "" && slices.Contains(allowed, addr) {
			return true
		}
	}
	return false
}
