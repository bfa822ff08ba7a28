package readmap

import (
	"bufio"
	"io"
	"sort"
	"strconv"

	"github.com/mataton/woltka/internal/common"
)

// Assignment is one read's classification result: either a single feature,
// or a weighted set of features with counts. A non-nil Weights map takes
// precedence over Feature.
type Assignment struct {
	Feature string
	Weights map[string]uint64
}

// WriteReadMap writes a read-to-feature(s) map as tab-delimited text, one
// read per line, reads in ascending order. A weighted assignment is written
// as "feature:count" entries sorted by descending count, ties broken by
// ascending feature ID. When a name map is given and contains a feature, the
// name substitutes the feature in output; sorting always happens on the
// pre-substitution ID so that name content never changes entry order.
func WriteReadMap(w io.Writer, rmap map[string]Assignment, names map[string]string) error {
	bw := bufio.NewWriter(w)
	for _, read := range common.SortedKeys(rmap) {
		writeAssignment(bw, read, rmap[read], names)
	}
	return bw.Flush()
}

func writeAssignment(bw *bufio.Writer, read string, a Assignment, names map[string]string) {
	bw.WriteString(read)
	if a.Weights == nil {
		bw.WriteByte('\t')
		bw.WriteString(display(a.Feature, names))
	} else {
		features := common.SortedKeys(a.Weights)
		sort.SliceStable(features, func(i, j int) bool {
			return a.Weights[features[i]] > a.Weights[features[j]]
		})
		for _, f := range features {
			bw.WriteByte('\t')
			bw.WriteString(display(f, names))
			bw.WriteByte(':')
			bw.WriteString(strconv.FormatUint(a.Weights[f], 10))
		}
	}
	bw.WriteByte('\n')
}

func display(feature string, names map[string]string) string {
	if name, ok := names[feature]; ok {
		return name
	}
	return feature
}
