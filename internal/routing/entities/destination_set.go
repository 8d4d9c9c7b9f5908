package entities

import (
	"github.com/cespare/xxhash/v2"

	"github.com/routepilot/routepilot/internal/routing/cidr"
)

// DestinationSet is a hash-keyed set of route destinations. Members are
// stored under the hash of their canonical CIDR form, so the shorthand
// "10.1" and "10.1.0.0/16" land on the same key.
type DestinationSet struct {
	entries map[uint64]string
}

// NewDestinationSet creates a new DestinationSet
func NewDestinationSet() *DestinationSet {
	return &DestinationSet{
		entries: make(map[uint64]string),
	}
}

// Add adds a destination to the set, reporting whether it was new
func (s *DestinationSet) Add(destination string) bool {
	if destination == "" {
		return false
	}
	hash := hashDestination(destination)
	if _, exists := s.entries[hash]; exists {
		return false
	}
	s.entries[hash] = destination
	return true
}

// Remove deletes a destination from the set, reporting whether it was present
func (s *DestinationSet) Remove(destination string) bool {
	hash := hashDestination(destination)
	if _, exists := s.entries[hash]; !exists {
		return false
	}
	delete(s.entries, hash)
	return true
}

// Contains checks if the set contains a destination
func (s *DestinationSet) Contains(destination string) bool {
	_, exists := s.entries[hashDestination(destination)]
	return exists
}

// Size returns the number of destinations in the set
func (s *DestinationSet) Size() int {
	return len(s.entries)
}

// Values returns the stored destinations, order unspecified
func (s *DestinationSet) Values() []string {
	values := make([]string, 0, len(s.entries))
	for _, destination := range s.entries {
		values = append(values, destination)
	}
	return values
}

// hashDestination hashes the canonical CIDR form when one exists, otherwise
// the raw string, so IPv6 and special destinations still get stable keys
func hashDestination(destination string) uint64 {
	if info, err := cidr.Parse(destination); err == nil {
		return xxhash.Sum64String(info.String())
	}
	return xxhash.Sum64String(destination)
}
