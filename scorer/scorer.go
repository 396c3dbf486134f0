// Package scorer evaluates a pattern against a candidate file's header,
// producing the non-negative integer point total spec.md §4.7
// describes.
package scorer

import (
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/willf/bloom"

	"github.com/coralbyte/typeprint/entropy"
	"github.com/coralbyte/typeprint/histogram"
	"github.com/coralbyte/typeprint/pattern"
	"github.com/coralbyte/typeprint/tokenset"
)

// regexCache memoizes compiled regexes by source, since the same band
// pattern is scored against many candidate files.
var regexCache sync.Map // map[string]*regexp.Regexp

func compiled(source string) *regexp.Regexp {
	if v, ok := regexCache.Load(source); ok {
		return v.(*regexp.Regexp)
	}
	re, err := regexp.Compile(source)
	if err != nil {
		return nil
	}
	actual, _ := regexCache.LoadOrStore(source, re)
	return actual.(*regexp.Regexp)
}

// StringFilter builds a Bloom filter over a pattern's known strings, to
// be computed once when a pattern is loaded (see package registry) and
// passed into Score as a fast pre-check ahead of the exact
// set-intersection the spec requires. A nil filter just skips the
// pre-check; the exact check still runs either way.
func StringFilter(p *pattern.Pattern) *bloom.BloomFilter {
	if len(p.Data.Strings) == 0 {
		return nil
	}
	f := bloom.NewWithEstimates(uint(len(p.Data.Strings)), 0.01)
	for s := range p.Data.Strings {
		f.Add([]byte(s))
	}
	return f
}

// Score evaluates p against buffer, the header bytes of the file at
// path. filter may be the Bloom filter from StringFilter, or nil.
func Score(p *pattern.Pattern, filter *bloom.BloomFilter, buffer []byte, path string) int {
	// Sequences: mandatory-if-present, all-or-nothing.
	var points float64
	for _, seq := range p.Data.Sequences {
		end := seq.Offset + uint64(len(seq.Bytes))
		if seq.Offset > uint64(len(buffer)) || end > uint64(len(buffer)) {
			return 0
		}
		if !bytesEqual(buffer[seq.Offset:end], seq.Bytes) {
			return 0
		}
		points += float64(len(seq.Bytes))
	}

	// Regexes: band variant only, mandatory-if-present.
	if p.Data.Composition.Variant == pattern.CompositionBand {
		for _, src := range p.Data.Composition.Regexes {
			re := compiled(src)
			if re == nil || !re.Match(buffer) {
				return 0
			}
			points += float64(pattern.RegexPoints(src))
		}
	}

	// Strings: optional, additive.
	if len(p.Data.Strings) > 0 {
		extracted := tokenset.Extract(buffer)
		for s := range extracted {
			if filter != nil && !filter.Test([]byte(s)) {
				continue
			}
			if _, ok := p.Data.Strings[s]; ok {
				points += float64(len(s))
			}
		}
	}

	// Composition: optional, additive.
	if p.Data.Composition.Enabled() {
		points += compositionPoints(p, buffer)
	}

	if p.Data.Composition.Variant == pattern.CompositionAverage {
		points *= p.Stats.ConfidenceFactor
	}

	// Extension bonus, applied after confidence scaling.
	ext := strings.ToUpper(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext != "" {
		if _, ok := p.Identity.Extensions[ext]; ok {
			points += pattern.ExtensionPoints
		}
	}

	return roundNonNegative(points)
}

func compositionPoints(p *pattern.Pattern, buffer []byte) float64 {
	hist := histogram.Count(buffer)
	e := entropy.Of(hist)

	if p.Data.Composition.Variant == pattern.CompositionBand {
		b := entropy.Band100(e)
		if b < p.Data.Composition.MinEntropy || b > p.Data.Composition.MaxEntropy {
			return 0
		}
		return pattern.MaxEntropyPoints
	}

	avg := p.Data.Composition.AverageEntropy
	if avg == 0 {
		return pattern.MaxEntropyPoints
	}
	delta := abs(e-avg) / avg * 100
	contribution := float64(pattern.MaxEntropyPoints) * (1 - delta/100)
	if contribution < 0 {
		return 0
	}
	return contribution
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func roundNonNegative(f float64) int {
	if f < 0 {
		return 0
	}
	return int(f + 0.5)
}
