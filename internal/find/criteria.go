// Package trawl implements the search engine behind the trawl command:
// optional match criteria, a sequential depth-first walker, and the
// print-or-exec action applied to every match.
package trawl

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// SizeMode selects how an entry's size is compared against the threshold.
type SizeMode int

const (
	SizeEqual SizeMode = iota
	SizeLess
	SizeGreater
)

// SizeSpec is a size criterion: a byte threshold and a comparison mode.
type SizeSpec struct {
	Bytes int64
	Mode  SizeMode
}

// ParseSizeSpec parses the textual form of a size criterion: an optional
// leading '=', '-' or '+' (equal, less-than, greater-than; equal when
// absent) followed by a non-negative decimal byte count.
func ParseSizeSpec(s string) (SizeSpec, error) {
	spec := SizeSpec{Mode: SizeEqual}

	if s == "" {
		return spec, fmt.Errorf("empty size value")
	}

	rest := s
	if c := s[0]; c < '0' || c > '9' {
		switch c {
		case '=':
			spec.Mode = SizeEqual
		case '-':
			spec.Mode = SizeLess
		case '+':
			spec.Mode = SizeGreater
		default:
			return spec, fmt.Errorf("unknown size prefix %q in %q", string(c), s)
		}
		rest = s[1:]
	}

	if rest == "" {
		return spec, fmt.Errorf("missing size value in %q", s)
	}
	if rest[0] == '-' {
		return spec, fmt.Errorf("negative size value in %q", s)
	}

	n, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return spec, fmt.Errorf("invalid size value %q: %w", s, err)
	}
	spec.Bytes = n
	return spec, nil
}

// Meta carries the platform metadata fields the criteria can test beyond
// what os.FileInfo exposes portably.
type Meta struct {
	Inode uint64
	Links uint64
}

// Criteria holds the optional match predicates. A nil field imposes no
// constraint; all set fields must hold for an entry to match.
type Criteria struct {
	Inode    *uint64   // exact inode number
	Name     *string   // exact byte-for-byte file name
	FoldName *string   // case-insensitive file name
	Size     *SizeSpec // size comparison
	Links    *uint64   // exact hard-link count
}

// Empty reports whether no criteria are set, in which case every
// non-directory entry matches.
func (c *Criteria) Empty() bool {
	return c.Inode == nil && c.Name == nil && c.FoldName == nil &&
		c.Size == nil && c.Links == nil
}

// needsMeta reports whether evaluation requires a metadata query for the
// candidate path.
func (c *Criteria) needsMeta() bool {
	return c.Inode != nil || c.Size != nil || c.Links != nil
}

// foldEqual compares two file names case-insensitively after NFC
// normalization, so names differing only in case or composed form compare
// equal.
func foldEqual(a, b string) bool {
	return strings.EqualFold(norm.NFC.String(a), norm.NFC.String(b))
}

// Matches evaluates a candidate entry against every set criterion. The
// name checks run first and touch no filesystem state; the inode, size and
// link-count checks share a single stat of path, issued only when one of
// them is set. A failed stat is returned to the caller, which reports it
// and treats the entry as non-matching.
func (c *Criteria) Matches(name, path string) (bool, error) {
	if c.Name != nil && *c.Name != name {
		return false, nil
	}
	if c.FoldName != nil && !foldEqual(*c.FoldName, name) {
		return false, nil
	}
	if !c.needsMeta() {
		return true, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	meta, ok := sysMeta(info)

	match := true
	if match && c.Inode != nil {
		match = ok && meta.Inode == *c.Inode
	}
	if match && c.Size != nil {
		switch c.Size.Mode {
		case SizeLess:
			match = info.Size() < c.Size.Bytes
		case SizeGreater:
			match = info.Size() > c.Size.Bytes
		default:
			match = info.Size() == c.Size.Bytes
		}
	}
	if match && c.Links != nil {
		match = ok && meta.Links == *c.Links
	}
	return match, nil
}
