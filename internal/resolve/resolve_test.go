package resolve_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mataton/woltka/internal/resolve"
)

func TestReadIDs(t *testing.T) {
	t.Parallel()

	t.Run("first column, comments and blanks", func(t *testing.T) {
		t.Parallel()
		in := "#header\nS01\tfoo\nS02\n\n  \nS03\textra\tcolumns\n"
		ids, err := resolve.ReadIDs(strings.NewReader(in))
		require.NoError(t, err)
		assert.Equal(t, []string{"S01", "S02", "S03"}, ids)
	})

	t.Run("empty list", func(t *testing.T) {
		t.Parallel()
		_, err := resolve.ReadIDs(strings.NewReader("#only\n#comments\n"))
		assert.ErrorIs(t, err, resolve.ErrNoIDs)
	})

	t.Run("duplicate ID", func(t *testing.T) {
		t.Parallel()
		_, err := resolve.ReadIDs(strings.NewReader("S01\nS02\nS01\n"))
		require.ErrorIs(t, err, resolve.ErrDuplicateID)
		assert.Contains(t, err.Error(), "S01")
	})
}

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x\ty\n"), 0o644))
	}
}

func TestFromDir(t *testing.T) {
	t.Parallel()

	t.Run("stems and compression suffixes", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		touch(t, dir, "S01.tsv", "S02.tsv.gz", "S03.b6o.xz")
		require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.tsv"), 0o755))

		m, err := resolve.FromDir(dir, "", nil)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"S01": "S01.tsv",
			"S02": "S02.tsv.gz",
			"S03": "S03.b6o.xz",
		}, m)
	})

	t.Run("explicit extension excludes others", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		touch(t, dir, "S01.tsv", "S02.tsv", "skip.txt")

		m, err := resolve.FromDir(dir, ".tsv", nil)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"S01": "S01.tsv", "S02": "S02.tsv"}, m)
	})

	t.Run("allow-list filters candidates", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		touch(t, dir, "S01.tsv", "S02.tsv", "S03.tsv")

		m, err := resolve.FromDir(dir, "", []string{"S02", "S03"})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"S02": "S02.tsv", "S03": "S03.tsv"}, m)
	})

	t.Run("ambiguous stems", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		touch(t, dir, "S01.tsv", "S01.txt")

		_, err := resolve.FromDir(dir, "", nil)
		require.ErrorIs(t, err, resolve.ErrAmbiguousID)
		assert.Contains(t, err.Error(), "S01")
	})
}

// writeMap writes an ID-to-file mapping file with the given lines.
func writeMap(t *testing.T, dir string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, "map.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func TestFromMapFile(t *testing.T) {
	t.Parallel()

	t.Run("pairs in file order", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		touch(t, dir, "b.tsv", "a.tsv")
		mp := writeMap(t, dir,
			"# comment",
			"",
			"S2\tb.tsv",
			"S1\ta.tsv",
		)

		det, err := resolve.FromMapFile(mp)
		require.NoError(t, err)
		require.True(t, det.IsMap)
		assert.Equal(t, []resolve.IDFile{
			{ID: "S2", Path: filepath.Join(dir, "b.tsv")},
			{ID: "S1", Path: filepath.Join(dir, "a.tsv")},
		}, det.Pairs)
	})

	t.Run("absolute path preferred over map directory", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		touch(t, dir, "a.tsv")
		abs := filepath.Join(dir, "a.tsv")
		mp := writeMap(t, dir, "S1\t"+abs)

		det, err := resolve.FromMapFile(mp)
		require.NoError(t, err)
		require.True(t, det.IsMap)
		assert.Equal(t, abs, det.Pairs[0].Path)
	})

	t.Run("one column on first line is not a map", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		mp := writeMap(t, dir, "just-an-id", "more text")

		det, err := resolve.FromMapFile(mp)
		require.NoError(t, err)
		assert.False(t, det.IsMap)
		assert.Empty(t, det.Pairs)
	})

	t.Run("missing path on first line is not a map", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		mp := writeMap(t, dir, "S1\tnowhere.tsv")

		det, err := resolve.FromMapFile(mp)
		require.NoError(t, err)
		assert.False(t, det.IsMap)
	})

	t.Run("missing path after commit is an error", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		touch(t, dir, "a.tsv", "b.tsv")
		mp := writeMap(t, dir,
			"S1\ta.tsv",
			"S2\tb.tsv",
			"S3\tmissing.tsv",
		)

		_, err := resolve.FromMapFile(mp)
		require.ErrorIs(t, err, resolve.ErrMissingFile)
		assert.Contains(t, err.Error(), "missing.tsv")
	})

	t.Run("bad column count after commit is an error", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		touch(t, dir, "a.tsv")
		mp := writeMap(t, dir,
			"S1\ta.tsv",
			"S2\ta.tsv\textra",
		)

		_, err := resolve.FromMapFile(mp)
		require.ErrorIs(t, err, resolve.ErrBadMapLine)
	})

	t.Run("empty file is not a map", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		mp := writeMap(t, dir, "# nothing but comments")

		det, err := resolve.FromMapFile(mp)
		require.NoError(t, err)
		assert.False(t, det.IsMap)
	})
}
