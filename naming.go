package main

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// Canonical Names
// =============================================================================

const (
	// dateNameLayout formats a capture time as YYYY-MM-DD_HH-MM-SS.
	dateNameLayout = "2006-01-02_15-04-05"

	// sequenceDigits is the zero-padded width of sequential names.
	sequenceDigits = 7
)

// sequenceNamePattern matches names previously produced by the sequence counter.
var sequenceNamePattern = regexp.MustCompile(`^(\d{` + strconv.Itoa(sequenceDigits) + `})(?:\.[^.]*)?$`)

// namer assigns destination file names. It owns the sequence counter and the
// set of names already taken in the destination.
type namer struct {
	sequence int
	taken    map[string]bool // lowercased names
}

func newNamer() *namer {
	return &namer{taken: make(map[string]bool)}
}

// reserveExisting marks a name already present in the destination as taken and
// moves the sequence counter past it if it is a sequential name.
func (n *namer) reserveExisting(name string) {
	n.taken[strings.ToLower(name)] = true
	if m := sequenceNamePattern.FindStringSubmatch(name); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil && v > n.sequence {
			n.sequence = v
		}
	}
}

// dated returns the name for a photo captured at t. When the plain name is
// taken by another photo from the same second, the lowest free _N suffix is
// appended. The returned name is reserved.
func (n *namer) dated(t time.Time, ext string) string {
	base := t.Format(dateNameLayout)
	name := base + ext
	for counter := 1; n.taken[strings.ToLower(name)]; counter++ {
		name = fmt.Sprintf("%s_%d%s", base, counter, ext)
	}
	n.taken[strings.ToLower(name)] = true
	return name
}

// sequential returns the next zero-padded sequence name. Numbers never repeat
// within a run; a number whose name is already taken is skipped.
func (n *namer) sequential(ext string) string {
	for {
		n.sequence++
		name := fmt.Sprintf("%0*d%s", sequenceDigits, n.sequence, ext)
		if !n.taken[strings.ToLower(name)] {
			n.taken[strings.ToLower(name)] = true
			return name
		}
	}
}
