// Package readmap parses and writes per-read feature assignment maps.
//
// A mapping file is a tab-delimited (or custom-separated) text file whose
// first column is a read identifier and whose remaining columns are assigned
// features, optionally carrying ":count" suffixes. Parsing is lazy: Scanner
// walks the stream once, line by line, without building intermediate
// containers, because this is the throughput bottleneck of the pipeline.
package readmap

import (
	"bufio"
	"io"
	"iter"
	"strconv"
	"strings"
)

//go:generate go tool stringer -type=Mode -output=mode_string.go

// Mode controls how records with more than two columns are handled.
type Mode int

const (
	// ModeUnique accepts only records with exactly two columns; records
	// with extra value columns are silently skipped.
	ModeUnique Mode = iota

	// ModeFirst takes the second column and ignores any further columns.
	ModeFirst

	// ModeMulti takes all columns from the second onward, in order.
	ModeMulti
)

// Value is one assigned feature, with its count when count parsing is
// enabled (1 otherwise, and 1 when a value carries no suffix).
type Value struct {
	Feature string
	Count   uint64
}

// Options configures a Scanner. The zero value scans tab-separated records
// in ModeUnique without count parsing.
type Options struct {
	// Sep is the column separator; tab when empty.
	Sep string

	// Mode selects how multi-column records are treated.
	Mode Mode

	// Counts enables ":count" suffix parsing on value columns.
	Counts bool
}

// Scanner reads accepted records from a mapping file one at a time. It is
// forward-only and single-pass: the underlying stream is consumed exactly
// once and the scanner cannot be rewound.
//
// The slice returned by Values is reused between calls to Scan; callers that
// retain values across records must copy them.
type Scanner struct {
	sc     *bufio.Scanner
	sep    string
	mode   Mode
	counts bool

	key    string
	values []Value
}

// initial and maximum line buffer sizes; alignment maps can carry very wide
// multi-assignment records.
const (
	scanBuf    = 64 * 1024
	scanBufMax = 16 * 1024 * 1024
)

// NewScanner returns a Scanner reading records from r.
func NewScanner(r io.Reader, opt Options) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, scanBuf), scanBufMax)
	sep := opt.Sep
	if sep == "" {
		sep = "\t"
	}
	return &Scanner{sc: sc, sep: sep, mode: opt.Mode, counts: opt.Counts}
}

// Scan advances to the next accepted record, skipping one-column lines and,
// in ModeUnique, lines with more than two columns. It returns false at end
// of stream or on read error.
func (s *Scanner) Scan() bool {
	for s.sc.Scan() {
		line := strings.TrimRight(s.sc.Text(), " \t\r\n")

		key, rest, ok := strings.Cut(line, s.sep)
		if !ok {
			continue // no value columns
		}

		s.values = s.values[:0]
		switch s.mode {
		case ModeUnique:
			value, _, extra := strings.Cut(rest, s.sep)
			if extra {
				continue
			}
			s.values = append(s.values, s.value(value))
		case ModeFirst:
			value, _, _ := strings.Cut(rest, s.sep)
			s.values = append(s.values, s.value(value))
		case ModeMulti:
			for {
				value, more, ok := strings.Cut(rest, s.sep)
				s.values = append(s.values, s.value(value))
				if !ok {
					break
				}
				rest = more
			}
		}
		s.key = key
		return true
	}
	return false
}

// All returns an iterator over the remaining records as (key, values)
// pairs. It consumes the same underlying stream as Scan and shares its
// single-pass semantics; check Err after the loop. The yielded values slice
// is reused between records, like the one returned by Values.
func (s *Scanner) All() iter.Seq2[string, []Value] {
	return func(yield func(string, []Value) bool) {
		for s.Scan() {
			if !yield(s.key, s.values) {
				return
			}
		}
	}
}

// Key returns the first column of the current record.
func (s *Scanner) Key() string { return s.key }

// Values returns the accepted value columns of the current record. The
// slice is only valid until the next call to Scan.
func (s *Scanner) Values() []Value { return s.values }

// Err returns the first error encountered while reading the stream.
func (s *Scanner) Err() error { return s.sc.Err() }

func (s *Scanner) value(raw string) Value {
	if s.counts {
		feature, count := ParseCount(raw)
		return Value{Feature: feature, Count: count}
	}
	return Value{Feature: raw, Count: 1}
}

// ParseCount splits a trailing ":<integer>" count suffix off a value
// string. A value without a parsable suffix counts as 1.
func ParseCount(s string) (string, uint64) {
	i := strings.LastIndexByte(s, ':')
	if i < 0 {
		return s, 1
	}
	n, err := strconv.ParseUint(s[i+1:], 10, 64)
	if err != nil {
		return s, 1
	}
	return s[:i], n
}
