// Package gateway classifies next-hop tokens into the closed set of gateway
// kinds the command builder understands.
package gateway

import (
	"net"
	"strings"

	"github.com/routepilot/routepilot/internal/routing/types"
)

// interfacePrefixes are the name prefixes recognized as network interfaces:
// loopback, Ethernet, tunnels, point-to-point and the usual system devices.
var interfacePrefixes = []string{
	"lo", "en", "eth", "utun", "tun", "tap", "ppp",
	"bridge", "awdl", "gif", "stf", "ipsec", "wg",
}

// Classify maps a gateway token to its kind. It is pure and total: every
// token ends up in exactly one of the five kinds, first match wins.
// Note that "default" is deliberately not special here; only the wildcard
// token and kernel link references qualify.
func Classify(token string) types.GatewayType {
	if token == "" {
		return types.GatewayInvalid
	}

	if net.ParseIP(token) != nil {
		return types.GatewayIPAddress
	}

	for _, prefix := range interfacePrefixes {
		if strings.HasPrefix(token, prefix) {
			return types.GatewayInterface
		}
	}

	if isHardwareAddress(token) {
		return types.GatewayHardwareAddress
	}

	if token == "*" || strings.HasPrefix(token, "link#") {
		return types.GatewaySpecial
	}

	return types.GatewayInvalid
}

// isHardwareAddress matches exactly six colon-separated 2-hex-digit groups
func isHardwareAddress(token string) bool {
	groups := strings.Split(token, ":")
	if len(groups) != 6 {
		return false
	}
	for _, g := range groups {
		if len(g) != 2 {
			return false
		}
		for i := 0; i < 2; i++ {
			c := g[i]
			isHex := c >= '0' && c <= '9' ||
				c >= 'a' && c <= 'f' ||
				c >= 'A' && c <= 'F'
			if !isHex {
				return false
			}
		}
	}
	return true
}
