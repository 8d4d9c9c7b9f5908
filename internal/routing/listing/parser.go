// Package listing parses the whitespace-tabular route listing produced by
// netstat -rn into route entries.
package listing

import (
	"strings"

	"github.com/routepilot/routepilot/internal/routing/types"
)

// headerMarkers start lines that belong to the listing frame, not to routes
var headerMarkers = []string{"Destination", "Kernel", "Internet", "Routing"}

// metric key=value tokens that may trail a listing line
var metricKeys = map[string]func(*types.Metrics, string){
	"mtu":      func(m *types.Metrics, v string) { m.MTU = v },
	"hop":      func(m *types.Metrics, v string) { m.HopCount = v },
	"rtt":      func(m *types.Metrics, v string) { m.RTT = v },
	"rttvar":   func(m *types.Metrics, v string) { m.RTTVar = v },
	"sendpipe": func(m *types.Metrics, v string) { m.SendPipe = v },
	"recvpipe": func(m *types.Metrics, v string) { m.RecvPipe = v },
	"ssthresh": func(m *types.Metrics, v string) { m.SSThresh = v },
}

// Parse reads a route listing, one route per line. Header and blank lines
// are skipped; a line needs at least destination, gateway, flags and
// interface fields to count. A fifth field is the expiration, and any
// key=value tokens populate the metric fields.
func Parse(output string) []*types.Route {
	var routes []*types.Route

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isHeader(line) {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}

		route := &types.Route{
			Destination: fields[0],
			Gateway:     fields[1],
			Flags:       fields[2],
			Interface:   fields[3],
		}

		for _, field := range fields[4:] {
			if key, value, ok := strings.Cut(field, "="); ok {
				if set, known := metricKeys[key]; known {
					set(&route.Metrics, value)
				}
				continue
			}
			if route.Expire == "" {
				route.Expire = field
			}
		}

		routes = append(routes, route)
	}

	return routes
}

func isHeader(line string) bool {
	for _, marker := range headerMarkers {
		if strings.HasPrefix(line, marker) {
			return true
		}
	}
	return false
}
