package profile

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Lineager renders a formatted lineage string for a feature ID. The name map
// argument is non-nil only when names should substitute IDs inside the
// lineage; a feature without a lineage renders as "".
type Lineager func(feature string, names map[string]string) string

// Lookups carries the optional metadata collaborators for table building.
// Each metadata column appears only when its lookup is supplied.
type Lookups struct {
	// Names maps feature IDs to display names ("Name" column).
	Names map[string]string

	// Ranks maps feature IDs to ranks ("Rank" column).
	Ranks map[string]string

	// Lineage renders the "Lineage" column.
	Lineage Lineager

	// NameAsID replaces feature IDs with names in row headers (falling
	// back to the ID when no name is known), drops the separate "Name"
	// column, and passes the name map through to Lineage so headers and
	// lineages follow the same convention.
	NameAsID bool
}

func (lk Lookups) nameColumn() bool { return lk.Names != nil && !lk.NameAsID }

// lineageNames returns the name map to hand to the Lineage collaborator.
func (lk Lookups) lineageNames() map[string]string {
	if lk.NameAsID {
		return lk.Names
	}
	return nil
}

// row is one retained table row produced by the shared aggregation.
type row struct {
	label  string
	counts []uint64
	name   string // "" unless the Name column is active
	rank   string // "" unless the Rank column is active
	lin    string // "" unless the Lineage column is active
}

// eachRow runs the shared aggregation: union of keys in sorted order, counts
// pulled per active sample (zero when absent), all-zero rows dropped, and
// metadata computed for retained rows only. Sample columns are never
// dropped, even when entirely zero.
func eachRow(p Profile, samples []string, lk Lookups, fn func(row)) {
	for _, key := range p.AllKeys() {
		counts := make([]uint64, len(samples))
		nonzero := false
		for i, sample := range samples {
			c := p[sample][key]
			counts[i] = c
			nonzero = nonzero || c > 0
		}
		if !nonzero {
			continue
		}

		name := lk.Names[key.Feature]
		r := row{counts: counts}
		head := key.Feature
		if lk.NameAsID && name != "" {
			head = name
		}
		if key.Stratified() {
			r.label = key.Stratum + "|" + head
		} else {
			r.label = head
		}
		if lk.nameColumn() {
			r.name = name
		}
		if lk.Ranks != nil {
			r.rank = lk.Ranks[key.Feature]
		}
		if lk.Lineage != nil {
			r.lin = lk.Lineage(key.Feature, lk.lineageNames())
		}
		fn(r)
	}
}

// WriteTable serializes a profile as a tab-delimited table: a "#FeatureID"
// header naming the sample columns and any active metadata columns, then one
// row per retained feature. It returns the number of sample columns and of
// retained feature rows.
func WriteTable(w io.Writer, p Profile, order []string, lk Lookups) (nsamples, nfeatures int, err error) {
	samples := p.Samples(order)

	header := make([]string, 0, len(samples)+4)
	header = append(header, "#FeatureID")
	header = append(header, samples...)
	if lk.nameColumn() {
		header = append(header, "Name")
	}
	if lk.Ranks != nil {
		header = append(header, "Rank")
	}
	if lk.Lineage != nil {
		header = append(header, "Lineage")
	}

	bw := bufio.NewWriter(w)
	bw.WriteString(strings.Join(header, "\t"))
	bw.WriteByte('\n')

	nrows := 0
	eachRow(p, samples, lk, func(r row) {
		bw.WriteString(r.label)
		for _, c := range r.counts {
			bw.WriteByte('\t')
			bw.WriteString(strconv.FormatUint(c, 10))
		}
		if lk.nameColumn() {
			bw.WriteByte('\t')
			bw.WriteString(r.name)
		}
		if lk.Ranks != nil {
			bw.WriteByte('\t')
			bw.WriteString(r.rank)
		}
		if lk.Lineage != nil {
			bw.WriteByte('\t')
			bw.WriteString(r.lin)
		}
		bw.WriteByte('\n')
		nrows++
	})
	if err := bw.Flush(); err != nil {
		return 0, 0, err
	}
	return len(samples), nrows, nil
}

// Table is the structured form of a profile: a dense row-major count matrix
// with parallel feature and sample labels, plus per-feature metadata maps
// restricted to the active metadata columns.
type Table struct {
	Data     [][]uint64
	Features []string
	Samples  []string
	Metadata []map[string]string
}

// Prep converts a profile into its structured form, applying the same
// retention and ordering rules as WriteTable.
func Prep(p Profile, order []string, lk Lookups) *Table {
	samples := p.Samples(order)
	t := &Table{Samples: samples}
	eachRow(p, samples, lk, func(r row) {
		t.Data = append(t.Data, r.counts)
		t.Features = append(t.Features, r.label)
		md := make(map[string]string)
		if lk.nameColumn() {
			md["Name"] = r.name
		}
		if lk.Ranks != nil {
			md["Rank"] = r.rank
		}
		if lk.Lineage != nil {
			md["Lineage"] = r.lin
		}
		t.Metadata = append(t.Metadata, md)
	})
	return t
}
