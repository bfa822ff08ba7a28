// Package taxon provides the taxonomic lookups consumed by table building:
// a child-to-parent tree with lineage rendering, and plain two-column TSV
// loaders for name, rank and parent maps.
package taxon

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/mataton/woltka/internal/readmap"
)

// Tree is a taxonomic hierarchy as a child-to-parent map. A root maps to
// itself.
type Tree map[string]string

// Lineage renders the ancestry of id from just below the self-mapped root
// down to id itself, joined by ";". Elements are substituted by their names
// when a non-nil name map knows them. An id absent from the tree renders
// as "".
func (t Tree) Lineage(id string, names map[string]string) string {
	if _, ok := t[id]; !ok {
		return ""
	}
	var lin []string
	seen := make(map[string]struct{}, len(t))
	cur := id
	for {
		if _, ok := seen[cur]; ok {
			break // malformed tree with a cycle
		}
		seen[cur] = struct{}{}
		parent, ok := t[cur]
		if !ok || parent == cur {
			break
		}
		lin = append(lin, cur)
		cur = parent
	}
	slices.Reverse(lin)
	var sb strings.Builder
	for i, node := range lin {
		if i > 0 {
			sb.WriteByte(';')
		}
		if name, ok := names[node]; ok {
			sb.WriteString(name)
		} else {
			sb.WriteString(node)
		}
	}
	return sb.String()
}

// ReadColumns loads a two-column TSV stream into a key-to-value map. Lines
// with one column are skipped and extra columns beyond the second are
// ignored; a repeated key keeps the last value.
func ReadColumns(r io.Reader) (map[string]string, error) {
	m := make(map[string]string)
	sc := readmap.NewScanner(r, readmap.Options{Mode: readmap.ModeFirst})
	for key, values := range sc.All() {
		m[key] = values[0].Feature
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}
	return m, nil
}

// ReadTree loads a child-to-parent TSV stream into a Tree.
func ReadTree(r io.Reader) (Tree, error) {
	m, err := ReadColumns(r)
	if err != nil {
		return nil, err
	}
	return Tree(m), nil
}
