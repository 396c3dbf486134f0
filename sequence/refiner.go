// Package sequence refines a set of positional byte-sequence hypotheses
// against successive sample buffers, shrinking and splitting them to
// retain only positions that still match every sample seen so far.
package sequence

import "sort"

// MaxLen is the longest a single sequence's bytes may grow before it is
// cut and a fresh run started.
const MaxLen = 16

// MinLen is the shortest a sequence may be and still survive
// finalization.
const MinLen = 1

// Pair is a single (offset, bytes) hypothesis: buffer[offset:offset+len(bytes)]
// is expected to equal bytes.
type Pair struct {
	Offset uint64
	Bytes  []byte
}

// Seed returns the initial single-pair hypothesis for the first sample:
// the entire header, anchored at offset 0.
func Seed(header []byte) []Pair {
	if len(header) == 0 {
		return nil
	}
	cp := make([]byte, len(header))
	copy(cp, header)
	return []Pair{{Offset: 0, Bytes: cp}}
}

// Refine applies one new sample buffer to seed, returning the refined
// (and possibly split, possibly shrunk) hypothesis list. It does not
// drop short or all-zero results or sort the output; call Finalize once
// after the last sample for that.
func Refine(seed []Pair, buf []byte) []Pair {
	var out []Pair
	for _, p := range seed {
		if p.Offset > uint64(len(buf)) {
			continue
		}
		end := p.Offset + uint64(len(p.Bytes))
		if end > uint64(len(buf)) {
			end = uint64(len(buf))
		}
		n := end - p.Offset

		var runStart uint64
		var run []byte
		emit := func(startRel uint64, bytes []byte) {
			if len(bytes) == 0 {
				return
			}
			cp := make([]byte, len(bytes))
			copy(cp, bytes)
			out = append(out, Pair{Offset: p.Offset + startRel, Bytes: cp})
		}

		for i := uint64(0); i < n; i++ {
			if p.Bytes[i] == buf[p.Offset+i] {
				if len(run) == 0 {
					runStart = i
				}
				run = append(run, p.Bytes[i])
				if len(run) == MaxLen {
					emit(runStart, run)
					run = nil
				}
			} else if len(run) > 0 {
				emit(runStart, run)
				run = nil
			}
		}
		if len(run) > 0 {
			emit(runStart, run)
		}
	}
	return out
}

// Finalize drops pairs whose bytes are all zero or shorter than MinLen,
// then sorts the survivors by offset descending so high-offset (likely
// out-of-bounds on small files) entries are tested first at scoring
// time.
func Finalize(pairs []Pair) []Pair {
	out := make([]Pair, 0, len(pairs))
	for _, p := range pairs {
		if len(p.Bytes) < MinLen {
			continue
		}
		if AllZero(p.Bytes) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Offset > out[j].Offset
	})
	return out
}

// AllZero reports whether every byte in b is zero. An all-zero sequence
// carries no discriminating information and is rejected wherever
// sequences are validated.
func AllZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
