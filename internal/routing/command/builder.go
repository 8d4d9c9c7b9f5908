// Package command assembles and validates route(8) argument sequences.
//
// The underlying tool is positional and order-sensitive, so assembly follows
// a fixed sequence: verb, metric options, gateway-kind modifier, -net/-host
// indicator, behavior switches, destination, gateway, and finally the
// interface scope. Validation always runs first; a route that fails it is
// never turned into a command line.
package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/routepilot/routepilot/internal/routing/cidr"
	"github.com/routepilot/routepilot/internal/routing/dest"
	"github.com/routepilot/routepilot/internal/routing/gateway"
	"github.com/routepilot/routepilot/internal/routing/types"
)

// metricRange is the legal numeric range for one metric flag
type metricRange struct {
	min, max int
}

var metricRanges = map[string]metricRange{
	"-mtu":      {68, 65535},
	"-hopcount": {0, 255},
	"-rtt":      {0, 65535},
	"-rttvar":   {0, 65535},
	"-sendpipe": {0, 65535},
	"-recvpipe": {0, 65535},
	"-ssthresh": {0, 65535},
}

// behaviorSwitches maps flag letters to their long-form route(8) switches.
// Letters outside this table are kernel-observed and silently skipped.
var behaviorSwitches = map[byte]string{
	types.FlagStatic:    "-static",
	types.FlagReject:    "-reject",
	types.FlagBlackhole: "-blackhole",
	types.FlagLinkInfo:  "-llinfo",
}

// Validate performs the pre-flight checks for a route and command kind.
// Nothing is ever handed to the executor once validation fails.
func Validate(r *types.Route, kind types.CommandKind) error {
	if r.Destination == "" {
		return &types.RouteOperationError{
			ErrorType: types.RouteErrMalformedInput,
			Cause:     fmt.Errorf("destination cannot be empty"),
		}
	}

	if r.HasFlag(types.FlagReject) && r.HasFlag(types.FlagBlackhole) {
		return &types.RouteOperationError{
			ErrorType:   types.RouteErrSemanticConflict,
			Destination: r.Destination,
			Cause:       fmt.Errorf("reject and blackhole are mutually exclusive"),
		}
	}

	if err := validateDestination(r.Destination); err != nil {
		return &types.RouteOperationError{
			ErrorType:   types.RouteErrMalformedInput,
			Destination: r.Destination,
			Cause:       err,
		}
	}

	if kind == types.CommandAdd {
		if r.Gateway == "" {
			return &types.RouteOperationError{
				ErrorType:   types.RouteErrMalformedInput,
				Destination: r.Destination,
				Cause:       fmt.Errorf("gateway is required for add"),
			}
		}
		if gateway.Classify(r.Gateway) == types.GatewayInvalid {
			return &types.RouteOperationError{
				ErrorType:   types.RouteErrClassification,
				Destination: r.Destination,
				Gateway:     r.Gateway,
				Cause:       fmt.Errorf("gateway %q matches no known kind", r.Gateway),
			}
		}
	}

	if strings.Contains(r.Gateway, ":") && gateway.Classify(r.Gateway) == types.GatewayIPAddress {
		if err := validateRoutableIPv6(r.Gateway); err != nil {
			return &types.RouteOperationError{
				ErrorType:   types.RouteErrMalformedInput,
				Destination: r.Destination,
				Gateway:     r.Gateway,
				Cause:       err,
			}
		}
	}

	for _, opt := range r.Metrics.Options() {
		if opt.Value == "" {
			continue
		}
		if err := ValidateMetric(opt.Flag, opt.Value); err != nil {
			return &types.RouteOperationError{
				ErrorType:   types.RouteErrMalformedInput,
				Destination: r.Destination,
				Cause:       err,
			}
		}
	}

	return nil
}

// ValidateMetric checks one metric value against its per-field range.
// An empty, non-numeric or out-of-range value is rejected.
func ValidateMetric(flag, value string) error {
	rng, ok := metricRanges[flag]
	if !ok {
		return fmt.Errorf("unknown metric option %q", flag)
	}
	if value == "" {
		return fmt.Errorf("metric %s requires a value", flag)
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("metric %s value %q is not a number", flag, value)
	}
	if n < rng.min || n > rng.max {
		return fmt.Errorf("metric %s value %d out of range %d-%d", flag, n, rng.min, rng.max)
	}
	return nil
}

// Build assembles the ordered argument sequence for the given command kind.
// Callers are expected to Validate first; Build itself stays best-effort so
// a display command can still be produced for lower-stakes kinds.
func Build(kind types.CommandKind, r *types.Route, opts types.Metrics) []string {
	args := []string{kind.Verb()}

	for _, opt := range opts.Options() {
		if opt.Value == "" {
			continue
		}
		args = append(args, opt.Flag, opt.Value)
	}

	switch gateway.Classify(r.Gateway) {
	case types.GatewayInterface:
		args = append(args, "-interface")
	case types.GatewayHardwareAddress:
		args = append(args, "-link")
	}

	args = append(args, typeIndicator(r))

	for i := 0; i < len(r.Flags); i++ {
		if sw, ok := behaviorSwitches[r.Flags[i]]; ok {
			args = append(args, sw)
		}
	}

	args = append(args,
		SanitizeIPv6(dest.CommandDestination(r)),
		SanitizeIPv6(r.Gateway))

	if r.Interface != "" && r.Interface != "*" {
		args = append(args, "-ifscope", r.Interface)
	}

	return args
}

// typeIndicator picks -net or -host from the route's effective type, falling
// back on the presence of a prefix when the type is unresolved
func typeIndicator(r *types.Route) string {
	switch dest.EffectiveType(r) {
	case types.RouteTypeNetwork:
		return "-net"
	case types.RouteTypeHost:
		return "-host"
	}
	if strings.Contains(r.Destination, "/") {
		return "-net"
	}
	return "-host"
}

// SanitizeIPv6 strips a trailing %zone suffix and then a trailing /prefix
// suffix from an address, non-destructively. IPv4 tokens without either
// suffix pass through unchanged.
func SanitizeIPv6(addr string) string {
	if !strings.Contains(addr, ":") {
		return addr
	}
	if idx := strings.IndexByte(addr, '%'); idx >= 0 {
		tail := addr[idx+1:]
		if slash := strings.IndexByte(tail, '/'); slash >= 0 {
			addr = addr[:idx] + tail[slash:]
		} else {
			addr = addr[:idx]
		}
	}
	if idx := strings.LastIndexByte(addr, '/'); idx >= 0 {
		addr = addr[:idx]
	}
	return addr
}

// validateDestination accepts a valid CIDR, a valid IP address, or a bare
// 1-4 octet network address
func validateDestination(d string) error {
	if strings.Contains(d, ":") {
		return validateRoutableIPv6(d)
	}
	if _, err := cidr.Parse(d); err == nil {
		return nil
	}
	return fmt.Errorf("invalid destination %q", d)
}

// validateRoutableIPv6 rejects addresses that parse but cannot be routed:
// the unspecified address and the bare link-local network prefix. More
// specific link-local addresses such as fe80::1 are allowed.
func validateRoutableIPv6(addr string) error {
	stripped := SanitizeIPv6(addr)
	if stripped == "::" {
		return fmt.Errorf("the unspecified address :: is not routable")
	}
	if stripped == "fe80::" {
		return fmt.Errorf("the bare link-local prefix fe80:: is not routable")
	}
	interp := dest.Interpret(stripped)
	if !interp.Valid {
		return fmt.Errorf("%s", interp.Err)
	}
	return nil
}
