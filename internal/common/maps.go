package common

import (
	"cmp"
	"slices"
)

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[M ~map[K]V, K cmp.Ordered, V any](m M) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Contains reports whether the set contains key. A nil set contains nothing.
func Contains[K comparable](set map[K]struct{}, key K) bool {
	_, ok := set[key]
	return ok
}

// ToSet converts a slice into a membership set. A nil slice yields a nil set.
func ToSet[S ~[]K, K comparable](s S) map[K]struct{} {
	if s == nil {
		return nil
	}
	set := make(map[K]struct{}, len(s))
	for _, k := range s {
		set[k] = struct{}{}
	}
	return set
}
