// Package testutil provides common utility functions for testing.
package testutil

import "kpidash/internal/metrics"

// Float returns a pointer to v, for building optional metric values inline.
func Float(v float64) *float64 {
	return &v
}

// FindPerson finds a person record by name in the scoreboard slice.
// Returns a pointer to the record if found, nil otherwise.
func FindPerson(people []metrics.PersonRecord, name string) *metrics.PersonRecord {
	for i := range people {
		if people[i].Name == name {
			return &people[i]
		}
	}
	return nil
}
