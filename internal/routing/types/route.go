package types

import "strings"

// RouteType describes how a destination should be interpreted
type RouteType int

// Route type constants
const (
	// RouteTypeAuto lets the destination interpreter decide
	RouteTypeAuto RouteType = iota
	// RouteTypeNetwork forces network (-net) interpretation
	RouteTypeNetwork
	// RouteTypeHost forces host (-host) interpretation
	RouteTypeHost
)

// String returns a string representation of the route type
func (t RouteType) String() string {
	switch t {
	case RouteTypeNetwork:
		return "net"
	case RouteTypeHost:
		return "host"
	default:
		return "auto"
	}
}

// ParseRouteType converts a user-supplied type override into a RouteType
func ParseRouteType(s string) RouteType {
	switch strings.ToLower(s) {
	case "net", "network":
		return RouteTypeNetwork
	case "host":
		return RouteTypeHost
	default:
		return RouteTypeAuto
	}
}

// CommandKind is the route-table operation to perform
type CommandKind int

// Command kind constants
const (
	// CommandAdd adds a route to the system routing table
	CommandAdd CommandKind = iota
	// CommandDelete removes a route from the system routing table
	CommandDelete
	// CommandChange modifies an existing route in place
	CommandChange
)

// Verb returns the route(8) verb for this command kind
func (k CommandKind) Verb() string {
	switch k {
	case CommandDelete:
		return "delete"
	case CommandChange:
		return "change"
	default:
		return "add"
	}
}

// GatewayType classifies a gateway token
type GatewayType int

// Gateway type constants
const (
	// GatewayIPAddress is a plain IPv4 or IPv6 next hop
	GatewayIPAddress GatewayType = iota
	// GatewayInterface names a network interface (en0, utun2, ...)
	GatewayInterface
	// GatewayHardwareAddress is a link-level (MAC) address
	GatewayHardwareAddress
	// GatewaySpecial is the wildcard token or a kernel link reference
	GatewaySpecial
	// GatewayInvalid matches no known gateway kind
	GatewayInvalid
)

// String returns a string representation of the gateway type
func (t GatewayType) String() string {
	switch t {
	case GatewayIPAddress:
		return "ip-address"
	case GatewayInterface:
		return "interface"
	case GatewayHardwareAddress:
		return "hardware-address"
	case GatewaySpecial:
		return "special"
	default:
		return "invalid"
	}
}

// Behavior flag letters. The first four are user-controllable; the rest are
// observed from the kernel and only decide whether an entry is editable.
const (
	FlagStatic    = 'S'
	FlagReject    = 'R'
	FlagBlackhole = 'B'
	FlagLinkInfo  = 'L'

	FlagCloning = 'C'
	FlagCloned  = 'W'
	FlagIfscope = 'I'
)

// Metrics holds the advanced per-route metric options. Values stay textual on
// the wire; the command validator enforces per-field numeric ranges.
type Metrics struct {
	MTU      string
	HopCount string
	RTT      string
	RTTVar   string
	SendPipe string
	RecvPipe string
	SSThresh string
}

// MetricOption is one metric as a route(8) flag/value pair
type MetricOption struct {
	Flag  string
	Value string
}

// Options returns the metric options in their fixed command-line order
func (m Metrics) Options() []MetricOption {
	return []MetricOption{
		{"-mtu", m.MTU},
		{"-hopcount", m.HopCount},
		{"-rtt", m.RTT},
		{"-rttvar", m.RTTVar},
		{"-sendpipe", m.SendPipe},
		{"-recvpipe", m.RecvPipe},
		{"-ssthresh", m.SSThresh},
	}
}

// IsEmpty reports whether no metric option is set
func (m Metrics) IsEmpty() bool {
	for _, opt := range m.Options() {
		if opt.Value != "" {
			return false
		}
	}
	return true
}

// Route represents a system route table entry, or one under construction.
// Destination and gateway are kept raw; interpretation happens on demand.
type Route struct {
	Destination string
	Gateway     string
	Interface   string
	Flags       string // flag letters as shown in a listing, e.g. "UGSc"
	Expire      string // seconds as text, empty means permanent
	TypeHint    RouteType
	Metrics     Metrics
}

// HasFlag reports whether the route carries the given behavior flag letter
func (r *Route) HasFlag(flag byte) bool {
	return strings.IndexByte(r.Flags, flag) >= 0
}

// IsDropRoute reports whether the route has silent-drop semantics and will
// therefore be missing from the standard listing
func (r *Route) IsDropRoute() bool {
	return r.HasFlag(FlagReject) || r.HasFlag(FlagBlackhole)
}

// IsEditable reports whether the entry is user-controllable. Cloned and
// interface-scoped entries are kernel-managed and should not be changed.
func (r *Route) IsEditable() bool {
	return !r.HasFlag(FlagCloning) && !r.HasFlag(FlagCloned) && !r.HasFlag(FlagIfscope)
}
