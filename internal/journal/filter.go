package journal

import "time"

// Filter selects events for replay. Zero fields match everything.
type Filter struct {
	Kinds    []Kind
	Entities []Entity
	IDs      []int     // movie or type ids
	After    time.Time // exclusive
	Before   time.Time // exclusive
}

// Match returns true if e passes the filter.
func (f *Filter) Match(e Event) bool {
	if len(f.Kinds) > 0 && !contains(f.Kinds, e.Kind) {
		return false
	}
	if len(f.Entities) > 0 && !contains(f.Entities, e.Entity) {
		return false
	}
	if len(f.IDs) > 0 && !contains(f.IDs, e.SubjectID()) {
		return false
	}
	if !f.After.IsZero() && !e.Time.After(f.After) {
		return false
	}
	if !f.Before.IsZero() && !e.Time.Before(f.Before) {
		return false
	}
	return true
}

func contains[T comparable](ss []T, s T) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
