// Package fileio opens plain or compressed text streams and derives sample
// identifiers from filenames.
//
// Compression is transparent: a file is read or written through the codec
// matching its extension (gzip, bzip2, xz, zstd), or verbatim when the
// extension is not recognized. The path "-" stands for stdin/stdout.
package fileio

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shenwei356/xopen"
)

// zipExts holds filename extensions recognized as compression suffixes.
// A stem never retains one of these: "sample.tsv.gz" stems to "sample".
var zipExts = map[string]struct{}{
	".gz":    {},
	".gzip":  {},
	".bz2":   {},
	".bzip2": {},
	".xz":    {},
	".lz":    {},
	".lzma":  {},
	".zst":   {},
}

// Open opens path for reading, decompressing on the fly when the extension
// calls for it. "-" opens stdin.
func Open(path string) (*xopen.Reader, error) {
	return xopen.Ropen(path)
}

// Create opens path for writing, compressing on the fly when the extension
// calls for it. "-" opens stdout. The caller must Close the writer to flush.
func Create(path string) (*xopen.Writer, error) {
	return xopen.Wopen(path)
}

// Stem extracts the stem of a filename.
//
// With a non-empty ext, fname must end with ext exactly and the stem is the
// remaining prefix; a mismatch is an error. With an empty ext, the last
// dot-extension is stripped, and when that extension is a compression suffix
// one more extension is stripped beneath it.
func Stem(fname, ext string) (string, error) {
	if ext != "" {
		if !strings.HasSuffix(fname, ext) {
			return "", fmt.Errorf("filename %q does not end with extension %q", fname, ext)
		}
		return fname[:len(fname)-len(ext)], nil
	}
	stem := fname
	if e := filepath.Ext(stem); e != "" {
		stem = stem[:len(stem)-len(e)]
		if _, ok := zipExts[e]; ok {
			stem = stem[:len(stem)-len(filepath.Ext(stem))]
		}
	}
	return stem, nil
}

// PathStem extracts the stem of the last element of a filepath.
func PathStem(path, ext string) (string, error) {
	return Stem(filepath.Base(path), ext)
}
