package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"

	"github.com/twmb/murmur3"
)

// =============================================================================
// Content Fingerprints
// =============================================================================

// Fingerprint is the hex digest of a file's full content. Two files with the
// same Fingerprint are duplicates regardless of name or location.
type Fingerprint string

// Supported fingerprint algorithms.
const (
	HashSHA256  = "sha256"
	HashMurmur3 = "murmur3"
)

// Fingerprinter computes Fingerprints with a fixed algorithm.
type Fingerprinter struct {
	algorithm string
	newHash   func() hash.Hash
}

// NewFingerprinter returns a Fingerprinter for the named algorithm.
// murmur3 is a 128-bit non-cryptographic hash, much faster on large RAW files.
func NewFingerprinter(algorithm string) (*Fingerprinter, error) {
	switch strings.ToLower(algorithm) {
	case "", HashSHA256:
		return &Fingerprinter{algorithm: HashSHA256, newHash: sha256.New}, nil
	case HashMurmur3:
		return &Fingerprinter{algorithm: HashMurmur3, newHash: func() hash.Hash { return murmur3.New128() }}, nil
	default:
		return nil, fmt.Errorf("%w: unknown hash algorithm %q", ErrInvalidConfig, algorithm)
	}
}

// Algorithm returns the algorithm name.
func (f *Fingerprinter) Algorithm() string {
	return f.algorithm
}

// Sum fingerprints data.
func (f *Fingerprinter) Sum(data []byte) Fingerprint {
	h := f.newHash()
	h.Write(data)
	return Fingerprint(hex.EncodeToString(h.Sum(nil)))
}

// Short returns the first 12 hex characters, for log lines.
func (fp Fingerprint) Short() string {
	if len(fp) <= 12 {
		return string(fp)
	}
	return string(fp[:12])
}
