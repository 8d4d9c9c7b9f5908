// Package entities holds the in-memory route collection helpers: hash-keyed
// destination sets plus CIDR-based search, sort and conflict detection over
// a parsed table.
package entities

import (
	"sort"

	"github.com/routepilot/routepilot/internal/routing/cidr"
	"github.com/routepilot/routepilot/internal/routing/types"
)

// FilterOverlapping returns the routes whose destination network overlaps
// the query, judged at the stricter of the two prefix lengths
func FilterOverlapping(routes []*types.Route, query string) []*types.Route {
	q, err := cidr.Parse(query)
	if err != nil {
		return nil
	}

	var matched []*types.Route
	for _, route := range routes {
		info, err := cidr.Parse(route.Destination)
		if err != nil {
			continue // IPv6 and special destinations are not searchable
		}
		if info.Overlaps(q) {
			matched = append(matched, route)
		}
	}
	return matched
}

// FindConflicts returns the existing routes whose network overlaps the
// candidate's, excluding an exact same-destination match
func FindConflicts(routes []*types.Route, candidate *types.Route) []*types.Route {
	c, err := cidr.Parse(candidate.Destination)
	if err != nil {
		return nil
	}

	var conflicts []*types.Route
	for _, route := range routes {
		info, err := cidr.Parse(route.Destination)
		if err != nil {
			continue
		}
		if info.String() == c.String() {
			continue
		}
		if info.Overlaps(c) {
			conflicts = append(conflicts, route)
		}
	}
	return conflicts
}

// SortByNetwork orders routes by numeric network address, then prefix
// length; destinations that do not normalize sort last in raw-string order
func SortByNetwork(routes []*types.Route) {
	sort.SliceStable(routes, func(i, j int) bool {
		a, errA := cidr.Parse(routes[i].Destination)
		b, errB := cidr.Parse(routes[j].Destination)
		switch {
		case errA == nil && errB == nil:
			return cidr.Less(a, b)
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return routes[i].Destination < routes[j].Destination
		}
	})
}
