// Package sieve computes the maximal set of strings that have some
// substring appearance in every one of several input sets — the
// operation PatternBuilder uses to reduce per-sample string sets down
// to the strings common to an entire training directory.
package sieve

import (
	"sort"
	"strings"
	"sync"

	"github.com/chmduquesne/rollinghash/buzhash32"
	"github.com/coregx/ahocorasick"
)

// MinCommon is the shortest common substring the sieve will accept.
const MinCommon = 5

// narrowConcurrency bounds the worker pool narrow uses to parallelize
// its outer loop over the working set, the same bounded-fan-out shape
// histogram.Count and registry.MatchAll use for their own mandated
// parallel regions.
const narrowConcurrency = 8

// Sieve returns a set of strings such that every element appears as a
// substring of at least one string in every set in sets, and no
// element is a proper substring of another element in the result.
func Sieve(sets []map[string]struct{}) map[string]struct{} {
	if len(sets) == 0 {
		return map[string]struct{}{}
	}

	order := make([]int, len(sets))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return len(sets[order[i]]) < len(sets[order[j]])
	})

	largest := order[len(order)-1]
	working := toSlice(sets[largest])

	for _, idx := range order[:len(order)-1] {
		s := toSlice(sets[idx])
		working = narrow(working, s)
		if len(working) == 0 {
			return map[string]struct{}{}
		}
	}

	return prune(working)
}

// narrow rebuilds the working set: for each w, keep the longest common
// substring between w and any string in s, or drop w if none reaches
// MinCommon. The outer loop over working runs on a bounded worker
// pool — each w is independent of every other, so this is the
// parallel-reduction region the spec calls out for SubstringSieve; the
// inner search against candidates in s stays sequential.
func narrow(working, s []string) []string {
	best := make([]string, len(working))

	jobs := make(chan int, len(working))
	var wg sync.WaitGroup
	workers := narrowConcurrency
	if workers > len(working) {
		workers = len(working)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				w := working[idx]
				var b string
				for _, cand := range s {
					lcs := largestCommonSubstring(w, cand)
					if len(lcs) > len(b) {
						b = lcs
					}
				}
				best[idx] = b
			}
		}()
	}
	for i := range working {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	out := make([]string, 0, len(working))
	for _, b := range best {
		if len(b) >= MinCommon {
			out = append(out, b)
		}
	}
	return out
}

// largestCommonSubstring returns the longest substring of a that
// occurs anywhere in b, trying window lengths from len(a) down to
// MinCommon and, within a length, windows in order of first occurrence
// in a. It returns "" if no shared substring of length >= MinCommon
// exists.
func largestCommonSubstring(a, b string) string {
	if a == b {
		return a
	}
	seen := make(map[uint32]bool)
	for length := len(a); length >= MinCommon; length-- {
		for start := 0; start+length <= len(a); start++ {
			window := a[start : start+length]
			if skipDuplicate(seen, window) {
				continue
			}
			if occursIn(window, b) {
				return window
			}
		}
	}
	return ""
}

// skipDuplicate reports whether window has already been tried (and
// failed) in this call, using a buzhash32 fingerprint to avoid
// re-running the expensive occurrence test on a repeated window (the
// same bytes appearing at more than one offset in a).
func skipDuplicate(seen map[uint32]bool, window string) bool {
	h := buzhash32.New()
	_, _ = h.Write([]byte(window))
	sum := h.Sum32()
	if seen[sum] {
		return true
	}
	seen[sum] = true
	return false
}

// occursIn reports whether window appears anywhere in b, via a
// single-pattern Aho-Corasick automaton.
func occursIn(window, b string) bool {
	builder := ahocorasick.NewBuilder()
	builder.AddPattern([]byte(window))
	auto, err := builder.Build()
	if err != nil {
		return strings.Contains(b, window)
	}
	return auto.IsMatch([]byte(b))
}

// prune drops any element that is a proper substring of another
// element.
func prune(in []string) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for i, w := range in {
		subsumed := false
		for j, other := range in {
			if i == j || len(other) <= len(w) {
				continue
			}
			if strings.Contains(other, w) {
				subsumed = true
				break
			}
		}
		if !subsumed {
			out[w] = struct{}{}
		}
	}
	return out
}

func toSlice(s map[string]struct{}) []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	return out
}
