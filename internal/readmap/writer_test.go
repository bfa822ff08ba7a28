package readmap_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mataton/woltka/internal/readmap"
)

func TestWriteReadMap(t *testing.T) {
	t.Parallel()

	t.Run("weighted sorted by count then ID", func(t *testing.T) {
		t.Parallel()
		rmap := map[string]readmap.Assignment{
			"read": {Weights: map[string]uint64{"a": 2, "b": 5, "c": 5}},
		}
		var sb strings.Builder
		require.NoError(t, readmap.WriteReadMap(&sb, rmap, nil))
		assert.Equal(t, "read\tb:5\tc:5\ta:2\n", sb.String())
	})

	t.Run("single target written as-is", func(t *testing.T) {
		t.Parallel()
		rmap := map[string]readmap.Assignment{"r1": {Feature: "taxonA"}}
		var sb strings.Builder
		require.NoError(t, readmap.WriteReadMap(&sb, rmap, nil))
		assert.Equal(t, "r1\ttaxonA\n", sb.String())
	})

	t.Run("name substitution after sorting", func(t *testing.T) {
		t.Parallel()
		// "a" renames to "zzz": order must still follow the original IDs.
		rmap := map[string]readmap.Assignment{
			"read": {Weights: map[string]uint64{"a": 5, "b": 5}},
		}
		names := map[string]string{"a": "zzz", "b": "Bacteroides"}
		var sb strings.Builder
		require.NoError(t, readmap.WriteReadMap(&sb, rmap, names))
		assert.Equal(t, "read\tzzz:5\tBacteroides:5\n", sb.String())
	})

	t.Run("single target name substitution", func(t *testing.T) {
		t.Parallel()
		rmap := map[string]readmap.Assignment{"r1": {Feature: "G1"}}
		var sb strings.Builder
		require.NoError(t, readmap.WriteReadMap(&sb, rmap, map[string]string{"G1": "Escherichia"}))
		assert.Equal(t, "r1\tEscherichia\n", sb.String())
	})

	t.Run("reads in ascending order", func(t *testing.T) {
		t.Parallel()
		rmap := map[string]readmap.Assignment{
			"r2": {Feature: "x"},
			"r1": {Feature: "y"},
		}
		var sb strings.Builder
		require.NoError(t, readmap.WriteReadMap(&sb, rmap, nil))
		assert.Equal(t, "r1\ty\nr2\tx\n", sb.String())
	})
}
