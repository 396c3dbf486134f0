// Copyright 2017, Kerby Shedden and the Muscato contributors.
// Portions copyright the typeprint contributors.

// Package tokenset extracts uppercased printable-ASCII substrings from a
// byte buffer, the same family of fixed-alphabet scanning the muscato
// screening step uses to classify k-mers, applied here to header bytes
// instead of sequencing reads.
package tokenset

import (
	"github.com/golang-collections/go-datastructures/bitarray"
)

// MinLength and MaxLength bound every extracted token.
const (
	MinLength = 5
	MaxLength = 64
)

// printable is a 256-bit membership table for the printable subset:
// space, !#$+,-./, 0-9, <=>?, A-Z, _, a-z (76 characters). It is backed
// by a bitarray.BitArray rather than a [256]bool, mirroring the Bloom
// sketch bit storage muscato_screen builds per window.
var printable bitarray.BitArray

// upper maps each printable byte to its uppercased form; non-letters map
// to themselves.
var upper [256]byte

func init() {
	printable = bitarray.NewBitArray(256)
	const extra = " !#$+,-./<=>?_"
	for _, c := range []byte(extra) {
		mark(c)
	}
	for c := byte('0'); c <= '9'; c++ {
		mark(c)
	}
	for c := byte('A'); c <= 'Z'; c++ {
		mark(c)
		upper[c] = c
	}
	for c := byte('a'); c <= 'z'; c++ {
		mark(c)
		upper[c] = c - 'a' + 'A'
	}
	for i := 0; i < 256; i++ {
		if upper[i] == 0 {
			upper[i] = byte(i)
		}
	}
}

func mark(c byte) {
	if err := printable.SetBit(uint64(c)); err != nil {
		panic(err)
	}
}

// IsPrintable reports whether b belongs to the 76-character printable
// subset used for string extraction.
func IsPrintable(b byte) bool {
	ok, err := printable.GetBit(uint64(b))
	if err != nil {
		return false
	}
	return ok
}

// Upper returns the uppercased form of b, or b unchanged if it has none.
func Upper(b byte) byte {
	return upper[b]
}
