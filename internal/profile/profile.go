// Package profile aggregates per-sample sparse feature counts into a
// feature-by-sample table and serializes it deterministically.
//
// A Profile maps sample IDs to sparse count maps keyed by Key. The table has
// one column per selected sample and one row per feature with a nonzero
// total, rows sorted by key, with optional Name, Rank and Lineage metadata
// columns. Two output shapes share the same aggregation: streamed
// tab-delimited text (WriteTable) and an in-memory dense form (Prep) for
// structured consumers.
package profile

import (
	"slices"
	"strings"

	"github.com/mataton/woltka/internal/common"
)

// Key identifies a table row: a feature, optionally qualified by a stratum.
// Keys order as (stratum, feature) tuples; a plain key has an empty stratum.
type Key struct {
	Stratum string
	Feature string
}

// PlainKey returns an unstratified key.
func PlainKey(feature string) Key {
	return Key{Feature: feature}
}

// StratKey returns a key qualified by a stratum.
func StratKey(stratum, feature string) Key {
	return Key{Stratum: stratum, Feature: feature}
}

// Stratified reports whether the key carries a stratum.
func (k Key) Stratified() bool { return k.Stratum != "" }

// Compare orders keys by stratum, then feature.
func (k Key) Compare(o Key) int {
	if c := strings.Compare(k.Stratum, o.Stratum); c != 0 {
		return c
	}
	return strings.Compare(k.Feature, o.Feature)
}

// String renders the printable form of the key: the feature ID, prefixed
// with "stratum|" when stratified.
func (k Key) String() string {
	if k.Stratum == "" {
		return k.Feature
	}
	return k.Stratum + "|" + k.Feature
}

// Counts is one sample's sparse feature count map. Absent keys count as
// zero; explicit zero entries behave identically to absent ones.
type Counts map[Key]uint64

// Profile maps sample IDs to their sparse count maps.
type Profile map[string]Counts

// AllKeys returns the union of keys across all samples, sorted.
func (p Profile) AllKeys() []Key {
	set := make(map[Key]struct{})
	for _, counts := range p {
		for k := range counts {
			set[k] = struct{}{}
		}
	}
	keys := make([]Key, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, Key.Compare)
	return keys
}

// Samples selects and orders the active sample set: a non-empty order is
// filtered to samples present in the profile, preserving caller order;
// otherwise all samples are used in ascending order.
func (p Profile) Samples(order []string) []string {
	if len(order) == 0 {
		return common.SortedKeys(p)
	}
	active := make([]string, 0, len(order))
	for _, s := range order {
		if _, ok := p[s]; ok {
			active = append(active, s)
		}
	}
	return active
}
