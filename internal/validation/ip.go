package validation

import (
	"net/netip"
	"strings"
)

// nonPublicPrefixes are ranges that netip's predicates do not already cover
// and that never identify a visitor on the public internet.
var nonPublicPrefixes = []netip.Prefix{
	netip.MustParsePrefix("0.0.0.0/8"),       // "this" network
	netip.MustParsePrefix("100.64.0.0/10"),   // carrier-grade NAT
	netip.MustParsePrefix("192.0.0.0/24"),    // IETF protocol assignments
	netip.MustParsePrefix("192.0.2.0/24"),    // TEST-NET-1
	netip.MustParsePrefix("198.18.0.0/15"),   // benchmarking
	netip.MustParsePrefix("198.51.100.0/24"), // TEST-NET-2
	netip.MustParsePrefix("203.0.113.0/24"),  // TEST-NET-3
	netip.MustParsePrefix("240.0.0.0/4"),     // reserved, includes broadcast
	netip.MustParsePrefix("100::/64"),        // discard-only
	netip.MustParsePrefix("2001:db8::/32"),   // documentation
	netip.MustParsePrefix("3fff::/20"),       // documentation
}

// IPValidator classifies literal IP addresses. It is shared by strict URL
// validation and the geolocation client.
type IPValidator struct{}

func NewIPValidator() *IPValidator {
	return &IPValidator{}
}

// ValidateHost rejects a URL hostname that is a literal non-public address.
// Names are not resolved and always pass.
func (v *IPValidator) ValidateHost(hostname string) error {
	addr, err := netip.ParseAddr(strings.Trim(hostname, "[]"))
	if err != nil {
		return nil
	}
	if !v.isPublic(addr) {
		return ErrPrivateIPNotAllowed
	}
	return nil
}

// IsPublic reports whether ip is a literal address routable on the public
// internet. Hostnames and malformed input are not public.
func (v *IPValidator) IsPublic(ip string) bool {
	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil {
		return false
	}
	return v.isPublic(addr)
}

func (v *IPValidator) isPublic(addr netip.Addr) bool {
	addr = addr.Unmap().WithZone("")

	if addr.IsPrivate() ||
		addr.IsLoopback() ||
		addr.IsLinkLocalUnicast() ||
		addr.IsMulticast() ||
		addr.IsUnspecified() {
		return false
	}

	for _, prefix := range nonPublicPrefixes {
		if prefix.Contains(addr) {
			return false
		}
	}
	return true
}
