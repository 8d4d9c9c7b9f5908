// Package dest interprets ambiguous destination strings into the canonical
// network or host forms the route command expects.
//
// Abbreviated dotted addresses expand two ways, and the asymmetry matters:
// the network form pads missing octets on the right ("128.32" becomes
// 128.32.0.0/16) while the host form inserts zeros before the final octet
// ("128.32" becomes 128.0.0.32/32), matching the classic BSD address parser.
package dest

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/routepilot/routepilot/internal/routing/types"
)

// Interpretation is the derived reading of one destination string. Produced
// on demand, never stored or mutated.
type Interpretation struct {
	Valid       bool
	Type        types.RouteType
	NetworkForm string
	HostForm    string
	Err         string
}

// Interpret resolves a destination string into its canonical forms
func Interpret(raw string) Interpretation {
	if raw == "" {
		return invalid("destination cannot be empty")
	}

	if strings.EqualFold(raw, "default") || raw == "0.0.0.0/0" {
		return Interpretation{
			Valid:       true,
			Type:        types.RouteTypeNetwork,
			NetworkForm: "0.0.0.0/0",
		}
	}

	if strings.Contains(raw, "/") {
		return interpretCIDR(raw)
	}

	if strings.Contains(raw, ":") {
		if net.ParseIP(raw) == nil {
			return invalid("invalid IPv6 address format")
		}
		return Interpretation{
			Valid:    true,
			Type:     types.RouteTypeHost,
			HostForm: raw + "/128",
		}
	}

	return interpretShorthand(raw)
}

// EffectiveType resolves a stored type hint against a fresh interpretation:
// a non-auto hint wins outright.
func EffectiveType(r *types.Route) types.RouteType {
	if r.TypeHint != types.RouteTypeAuto {
		return r.TypeHint
	}
	interp := Interpret(r.Destination)
	if !interp.Valid {
		return types.RouteTypeAuto
	}
	return interp.Type
}

// CommandDestination picks the canonical form matching the route's effective
// type, falling back to the raw destination when the form is absent
func CommandDestination(r *types.Route) string {
	interp := Interpret(r.Destination)
	switch EffectiveType(r) {
	case types.RouteTypeNetwork:
		if interp.NetworkForm != "" {
			return interp.NetworkForm
		}
	case types.RouteTypeHost:
		if interp.HostForm != "" {
			return interp.HostForm
		}
	}
	return r.Destination
}

func interpretCIDR(raw string) Interpretation {
	parts := strings.SplitN(raw, "/", 2)
	octets, err := parseOctets(parts[0])
	if err != nil {
		return invalid(err.Error())
	}

	prefix, err := strconv.Atoi(parts[1])
	if err != nil {
		return invalid(fmt.Sprintf("invalid prefix length %q", parts[1]))
	}
	if prefix < 0 || prefix > 32 {
		return invalid(fmt.Sprintf("prefix length %d out of range 0-32", prefix))
	}

	expanded := padRight(octets)
	if prefix == 32 {
		return Interpretation{
			Valid:    true,
			Type:     types.RouteTypeHost,
			HostForm: expanded + "/32",
		}
	}
	return Interpretation{
		Valid:       true,
		Type:        types.RouteTypeNetwork,
		NetworkForm: fmt.Sprintf("%s/%d", expanded, prefix),
	}
}

func interpretShorthand(raw string) Interpretation {
	octets, err := parseOctets(raw)
	if err != nil {
		return invalid(err.Error())
	}

	if len(octets) == 4 {
		full := strings.Join(octets, ".") + "/32"
		return Interpretation{
			Valid:       true,
			Type:        types.RouteTypeHost,
			NetworkForm: full,
			HostForm:    full,
		}
	}

	return Interpretation{
		Valid:       true,
		Type:        types.RouteTypeNetwork,
		NetworkForm: fmt.Sprintf("%s/%d", padRight(octets), len(octets)*8),
		HostForm:    padHost(octets) + "/32",
	}
}

// parseOctets validates 1-4 dot-separated numeric octets, each 0-255
func parseOctets(addr string) ([]string, error) {
	parts := strings.Split(addr, ".")
	if len(parts) > 4 {
		return nil, fmt.Errorf("address %q has more than 4 octets", addr)
	}
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid octet %q in destination %q", part, addr)
		}
		if n < 0 || n > 255 {
			return nil, fmt.Errorf("octet %d out of range 0-255 in destination %q", n, addr)
		}
	}
	return parts, nil
}

// padRight appends zero octets, the network-form expansion
func padRight(octets []string) string {
	out := make([]string, 4)
	copy(out, octets)
	for i := len(octets); i < 4; i++ {
		out[i] = "0"
	}
	return strings.Join(out, ".")
}

// padHost inserts zero octets before the final octet, the host-form
// expansion. A single octet stays leading: "10" becomes 10.0.0.0.
func padHost(octets []string) string {
	switch len(octets) {
	case 1:
		return octets[0] + ".0.0.0"
	case 2:
		return octets[0] + ".0.0." + octets[1]
	case 3:
		return octets[0] + "." + octets[1] + ".0." + octets[2]
	default:
		return strings.Join(octets, ".")
	}
}

func invalid(msg string) Interpretation {
	return Interpretation{Err: msg}
}
