package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/cheggaaa/pb/v3"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mataton/woltka/internal/fileio"
	"github.com/mataton/woltka/internal/profile"
	"github.com/mataton/woltka/internal/readmap"
	"github.com/mataton/woltka/internal/resolve"
	"github.com/mataton/woltka/internal/taxon"
)

var profileOpts options

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Build a feature-by-sample count table from mapping files",
	Long: `Build a feature-by-sample count table from mapping files.

The input may be a directory of per-sample mapping files (one sample per
file, sample ID derived from the filename stem), an ID-to-file mapping file
(two tab-separated columns: sample ID and filepath), or a single mapping
file treated as one sample. Compressed inputs (.gz, .bz2, .xz, .zst) are
read transparently.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := mergeConfig(cmd, profileOpts)
		if err != nil {
			return err
		}
		return runProfile(opts)
	},
}

func init() {
	f := profileCmd.Flags()
	f.StringVarP(&profileOpts.Input, "input", "i", "", "input directory, ID-to-file map, or mapping file")
	f.StringVarP(&profileOpts.Ext, "ext", "x", "", "filename extension following sample IDs")
	f.StringVarP(&profileOpts.Samples, "samples", "s", "", "sample ID list file (ordered, filters input)")
	f.StringVarP(&profileOpts.Output, "output", "o", "-", "output table file (\"-\" for stdout)")
	f.StringVarP(&profileOpts.Mode, "mode", "m", "unique", "record mode: unique, first or multi")
	f.BoolVar(&profileOpts.Counts, "count", false, "parse \"value:count\" suffixes on assignments")
	f.StringVar(&profileOpts.Names, "names", "", "feature name map (TSV) for the Name column")
	f.StringVar(&profileOpts.Ranks, "ranks", "", "feature rank map (TSV) for the Rank column")
	f.StringVar(&profileOpts.Nodes, "nodes", "", "child-to-parent map (TSV) for the Lineage column")
	f.BoolVar(&profileOpts.NameAsID, "name-as-id", false, "use feature names as row identifiers")
	f.StringVar(&profileOpts.OutMap, "outmap", "", "directory to write per-sample read maps into")
	f.StringVarP(&profileOpts.Config, "config", "c", "", "YAML file supplying defaults for these flags")
}

func runProfile(opts options) error {
	start := time.Now()
	if opts.Input == "" {
		return fmt.Errorf("an input directory or file is required")
	}
	mode, err := parseMode(opts.Mode)
	if err != nil {
		return err
	}

	var sampleIDs []string
	if opts.Samples != "" {
		if sampleIDs, err = readIDFile(opts.Samples); err != nil {
			return fmt.Errorf("reading sample list %s: %w", opts.Samples, err)
		}
		log.Debugf("sample list: %d IDs", len(sampleIDs))
	}

	pairs, err := resolveInput(opts.Input, opts.Ext, sampleIDs)
	if err != nil {
		return err
	}
	log.Debugf("resolved %d sample file(s)", len(pairs))

	scanOpts := readmap.Options{Mode: mode, Counts: opts.Counts}
	prof := make(profile.Profile, len(pairs))
	// the bar writes to stderr so it never interleaves with a table on stdout
	var bar *pb.ProgressBar
	if verbose {
		bar = pb.New(len(pairs)).SetWriter(os.Stderr).Start()
	}
	for _, pair := range pairs {
		counts, err := readSample(pair.Path, scanOpts, opts.OutMap, pair.ID)
		if err != nil {
			return fmt.Errorf("sample %q: %w", pair.ID, err)
		}
		prof[pair.ID] = counts
		if bar != nil {
			bar.Increment()
		}
	}
	if bar != nil {
		bar.Finish()
	}

	lookups, err := loadLookups(opts)
	if err != nil {
		return err
	}

	out, err := fileio.Create(opts.Output)
	if err != nil {
		return fmt.Errorf("creating output %s: %w", opts.Output, err)
	}
	nsamples, nfeatures, err := profile.WriteTable(out, prof, sampleIDs, lookups)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("writing table: %w", err)
	}

	log.Infof("wrote %d feature(s) x %d sample(s)", nfeatures, nsamples)
	if verbose {
		log.Infof("elapsed time: %s", time.Since(start))
	}
	return nil
}

// resolveInput turns the input argument into an ordered list of sample
// ID / file pairs. A directory is scanned for per-sample files; a regular
// file is first probed as an ID-to-file map, and otherwise treated as a
// single sample named by its filename stem.
func resolveInput(input, ext string, ids []string) ([]resolve.IDFile, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		m, err := resolve.FromDir(input, ext, ids)
		if err != nil {
			return nil, err
		}
		pairs := make([]resolve.IDFile, 0, len(m))
		for id, fname := range m {
			pairs = append(pairs, resolve.IDFile{ID: id, Path: filepath.Join(input, fname)})
		}
		sort.Slice(pairs, func(i, j int) bool { return pairs[i].ID < pairs[j].ID })
		return pairs, nil
	}

	det, err := resolve.FromMapFile(input)
	if err != nil {
		return nil, err
	}
	if det.IsMap {
		return filterPairs(det.Pairs, ids), nil
	}

	id, err := fileio.PathStem(input, ext)
	if err != nil {
		return nil, err
	}
	return filterPairs([]resolve.IDFile{{ID: id, Path: input}}, ids), nil
}

func filterPairs(pairs []resolve.IDFile, ids []string) []resolve.IDFile {
	if len(ids) == 0 {
		return pairs
	}
	allow := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		allow[id] = struct{}{}
	}
	kept := pairs[:0]
	for _, p := range pairs {
		if _, ok := allow[p.ID]; ok {
			kept = append(kept, p)
		}
	}
	return kept
}

// readSample parses one sample's mapping file into sparse feature counts.
// When outDir is non-empty, the per-read assignments are also written to
// <outDir>/<id>.txt.gz.
func readSample(path string, scanOpts readmap.Options, outDir, id string) (profile.Counts, error) {
	fh, err := fileio.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	var rmap map[string]readmap.Assignment
	if outDir != "" {
		rmap = make(map[string]readmap.Assignment)
	}

	counts := make(profile.Counts)
	sc := readmap.NewScanner(fh, scanOpts)
	for sc.Scan() {
		values := sc.Values()
		for _, v := range values {
			counts[profile.PlainKey(v.Feature)] += v.Count
		}
		if rmap != nil {
			rmap[sc.Key()] = assignment(values)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if rmap != nil {
		if err := writeSampleMap(outDir, id, rmap); err != nil {
			return nil, err
		}
	}
	return counts, nil
}

func assignment(values []readmap.Value) readmap.Assignment {
	if len(values) == 1 && values[0].Count == 1 {
		return readmap.Assignment{Feature: values[0].Feature}
	}
	weights := make(map[string]uint64, len(values))
	for _, v := range values {
		weights[v.Feature] += v.Count
	}
	return readmap.Assignment{Weights: weights}
}

func writeSampleMap(dir, id string, rmap map[string]readmap.Assignment) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	fh, err := fileio.Create(filepath.Join(dir, id+".txt.gz"))
	if err != nil {
		return err
	}
	err = readmap.WriteReadMap(fh, rmap, nil)
	if cerr := fh.Close(); err == nil {
		err = cerr
	}
	return err
}

func readIDFile(path string) ([]string, error) {
	fh, err := fileio.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return resolve.ReadIDs(fh)
}

func loadLookups(opts options) (profile.Lookups, error) {
	var lk profile.Lookups
	var err error
	if opts.Names != "" {
		if lk.Names, err = readColumnFile(opts.Names); err != nil {
			return lk, fmt.Errorf("reading names %s: %w", opts.Names, err)
		}
	}
	if opts.Ranks != "" {
		if lk.Ranks, err = readColumnFile(opts.Ranks); err != nil {
			return lk, fmt.Errorf("reading ranks %s: %w", opts.Ranks, err)
		}
	}
	if opts.Nodes != "" {
		m, err := readColumnFile(opts.Nodes)
		if err != nil {
			return lk, fmt.Errorf("reading nodes %s: %w", opts.Nodes, err)
		}
		lk.Lineage = taxon.Tree(m).Lineage
	}
	lk.NameAsID = opts.NameAsID
	return lk, nil
}

func readColumnFile(path string) (map[string]string, error) {
	fh, err := fileio.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return taxon.ReadColumns(fh)
}

func parseMode(s string) (readmap.Mode, error) {
	switch s {
	case "unique", "":
		return readmap.ModeUnique, nil
	case "first":
		return readmap.ModeFirst, nil
	case "multi":
		return readmap.ModeMulti, nil
	}
	return 0, fmt.Errorf("unknown record mode %q (want unique, first or multi)", s)
}
