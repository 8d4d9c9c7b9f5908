// Package cidr implements the IPv4 network arithmetic used for route search,
// sorting and conflict detection.
package cidr

import (
	"fmt"
	"strconv"
	"strings"
)

// Info is a normalized IPv4 network: a complete dotted-quad network address
// plus a prefix length in [0,32]. Construct it through Parse only.
type Info struct {
	NetworkAddress string
	PrefixLength   int
}

// Parse normalizes a destination into an Info. Accepted notations are
// "default", full or shorthand CIDR ("10.1/16"), and bare 1-4 octet
// addresses, which get a prefix inferred from their octet count.
// Malformed input yields a nil Info, never a partially valid one.
func Parse(dest string) (*Info, error) {
	if dest == "" {
		return nil, fmt.Errorf("empty destination")
	}

	if strings.EqualFold(dest, "default") {
		return &Info{NetworkAddress: "0.0.0.0", PrefixLength: 0}, nil
	}

	addr := dest
	prefix := -1

	if idx := strings.IndexByte(dest, '/'); idx >= 0 {
		addr = dest[:idx]
		p, err := strconv.Atoi(dest[idx+1:])
		if err != nil {
			return nil, fmt.Errorf("invalid prefix length %q", dest[idx+1:])
		}
		if p < 0 || p > 32 {
			return nil, fmt.Errorf("prefix length %d out of range 0-32", p)
		}
		prefix = p
	}

	octets, err := parseOctets(addr)
	if err != nil {
		return nil, err
	}

	if prefix < 0 {
		// Bare address: infer the prefix from the octet count
		prefix = len(octets) * 8
	}

	full := expandRight(octets)
	info := &Info{NetworkAddress: full, PrefixLength: prefix}

	// Canonicalize: clear any host bits so the stored address is the
	// network address proper
	info.NetworkAddress = valueToAddr(info.addrValue() & info.mask())
	return info, nil
}

// Contains reports whether ip falls inside the network
func (i *Info) Contains(ip string) bool {
	octets, err := parseOctets(ip)
	if err != nil || len(octets) != 4 {
		return false
	}
	v := octetsToValue(octets)
	return v&i.mask() == i.addrValue()&i.mask()
}

// Overlaps reports whether two networks share addresses, judged at the
// stricter of the two prefix lengths. A /16 only counts as overlapping a /24
// when both agree on the first 24 bits.
func (i *Info) Overlaps(other *Info) bool {
	width := i.PrefixLength
	if other.PrefixLength > width {
		width = other.PrefixLength
	}
	m := maskForPrefix(width)
	return i.addrValue()&m == other.addrValue()&m
}

// SubnetMask returns the dotted-quad mask for the prefix length
func (i *Info) SubnetMask() string {
	return valueToAddr(i.mask())
}

// FirstIP returns the network address, all host bits zero
func (i *Info) FirstIP() string {
	return valueToAddr(i.addrValue() & i.mask())
}

// LastIP returns the broadcast-end address, all host bits one
func (i *Info) LastIP() string {
	return valueToAddr(i.addrValue()&i.mask() | ^i.mask())
}

// String returns the canonical CIDR form
func (i *Info) String() string {
	return fmt.Sprintf("%s/%d", i.NetworkAddress, i.PrefixLength)
}

// Less orders networks by numeric address, then by prefix length
func Less(a, b *Info) bool {
	av, bv := a.addrValue(), b.addrValue()
	if av != bv {
		return av < bv
	}
	return a.PrefixLength < b.PrefixLength
}

func (i *Info) addrValue() uint32 {
	octets, err := parseOctets(i.NetworkAddress)
	if err != nil || len(octets) != 4 {
		return 0
	}
	return octetsToValue(octets)
}

func (i *Info) mask() uint32 {
	return maskForPrefix(i.PrefixLength)
}

func maskForPrefix(prefix int) uint32 {
	if prefix <= 0 {
		return 0
	}
	if prefix >= 32 {
		return ^uint32(0)
	}
	return ^uint32(0) << (32 - uint(prefix))
}

// parseOctets validates 1-4 dot-separated numeric octets, each 0-255
func parseOctets(addr string) ([]int, error) {
	if addr == "" {
		return nil, fmt.Errorf("empty address")
	}
	parts := strings.Split(addr, ".")
	if len(parts) > 4 {
		return nil, fmt.Errorf("address %q has more than 4 octets", addr)
	}
	octets := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid octet %q in %q", part, addr)
		}
		if n < 0 || n > 255 {
			return nil, fmt.Errorf("octet %d out of range 0-255 in %q", n, addr)
		}
		octets = append(octets, n)
	}
	return octets, nil
}

// expandRight pads missing octets with zeros on the right, the network-form
// expansion used by the BSD listing for abbreviated networks
func expandRight(octets []int) string {
	full := [4]int{}
	copy(full[:], octets)
	return fmt.Sprintf("%d.%d.%d.%d", full[0], full[1], full[2], full[3])
}

func octetsToValue(octets []int) uint32 {
	return uint32(octets[0])<<24 | uint32(octets[1])<<16 |
		uint32(octets[2])<<8 | uint32(octets[3])
}

func valueToAddr(v uint32) string {
	return fmt.Sprintf("%d.%d.%d.%d", v>>24, v>>16&0xff, v>>8&0xff, v&0xff)
}
