// Package resolve associates sample IDs with their source files.
//
// Two strategies are supported: scanning a directory where each file stems to
// one sample ID, and reading an explicit two-column ID-to-file mapping file.
// Mapping files are auto-detected: the first data line decides whether the
// file is a mapping file at all, and once committed every later line is held
// to strict format and existence checks.
package resolve

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mataton/woltka/internal/common"
	"github.com/mataton/woltka/internal/fileio"
)

var (
	// ErrNoIDs is returned when an ID list file contains no usable entries.
	ErrNoIDs = errors.New("no ID is read")

	// ErrDuplicateID is returned when an ID list contains a repeated entry.
	ErrDuplicateID = errors.New("duplicate ID")

	// ErrAmbiguousID is returned when two directory entries stem to the
	// same sample ID.
	ErrAmbiguousID = errors.New("ambiguous files for ID")

	// ErrMissingFile is returned when a committed mapping file references
	// a path that does not exist.
	ErrMissingFile = errors.New("file does not exist")

	// ErrBadMapLine is returned when a committed mapping file contains a
	// line without exactly two columns.
	ErrBadMapLine = errors.New("invalid mapping line")
)

// IDFile pairs a sample ID with the file it was resolved to.
type IDFile struct {
	ID   string
	Path string
}

// Detection is the outcome of probing a candidate ID-to-file mapping file.
// IsMap distinguishes "valid mapping file with these pairs" from "this is
// not a mapping file, try another interpretation"; the latter is not an
// error and never carries pairs.
type Detection struct {
	Pairs []IDFile
	IsMap bool
}

var notAMap = Detection{}

// ReadIDs reads a list of IDs from a text stream. Only the first tab-severed
// column of each line counts; lines starting with "#" are comments and
// entries blank after trimming are discarded. An empty result or a repeated
// ID is an error.
func ReadIDs(r io.Reader) ([]string, error) {
	var ids []string
	seen := make(map[string]struct{})
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		id, _, _ := strings.Cut(strings.TrimSpace(line), "\t")
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, id)
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, ErrNoIDs
	}
	return ids, nil
}

// FromDir builds an ID-to-filename map from the immediate regular files of a
// directory. Each filename stems to a candidate ID (see fileio.Stem); with a
// non-empty ext, files not ending in ext are skipped. A non-nil ids list
// restricts candidates to its members. Two files stemming to the same ID is
// an error: ambiguous sample identity is never resolved by "first wins".
//
// Map values are bare filenames, to be joined with dir by the caller.
func FromDir(dir, ext string, ids []string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	allow := common.ToSet(ids)
	res := make(map[string]string)
	for _, e := range entries {
		info, err := os.Stat(filepath.Join(dir, e.Name()))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		id, err := fileio.Stem(e.Name(), ext)
		if err != nil {
			continue
		}
		if allow != nil && !common.Contains(allow, id) {
			continue
		}
		if _, ok := res[id]; ok {
			return nil, fmt.Errorf("%w: %q", ErrAmbiguousID, id)
		}
		res[id] = e.Name()
	}
	return res, nil
}

// FromMapFile reads an ID-to-file mapping from a (possibly compressed) text
// file of the form "ID <tab> filepath". Blank lines and "#" comments are
// skipped. Each filepath is tried as given, then relative to the mapping
// file's own directory.
//
// The first data line decides the format: if it does not have exactly two
// columns, or its path resolves nowhere, the file is reported as not a
// mapping file (IsMap false, no error). After the first line commits the
// format, the same conditions become hard errors naming the offender.
// A file yielding zero pairs is likewise not a mapping file.
func FromMapFile(path string) (Detection, error) {
	fh, err := fileio.Open(path)
	if err != nil {
		return notAMap, err
	}
	defer fh.Close()

	dir := filepath.Dir(path)
	var pairs []IDFile
	sc := bufio.NewScanner(fh)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), " \t\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		id, file, ok := strings.Cut(line, "\t")
		if !ok || strings.Contains(file, "\t") {
			if len(pairs) == 0 {
				return notAMap, nil
			}
			return notAMap, fmt.Errorf("%w: %q", ErrBadMapLine, line)
		}

		// try the path as given, then relative to the map file
		if isFile(file) {
			pairs = append(pairs, IDFile{ID: id, Path: file})
			continue
		}
		if joined := filepath.Join(dir, file); isFile(joined) {
			pairs = append(pairs, IDFile{ID: id, Path: joined})
			continue
		}

		if len(pairs) == 0 {
			return notAMap, nil
		}
		return notAMap, fmt.Errorf("%w: %q", ErrMissingFile, file)
	}
	if err := sc.Err(); err != nil {
		return notAMap, err
	}
	if len(pairs) == 0 {
		return notAMap, nil
	}
	return Detection{Pairs: pairs, IsMap: true}, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
