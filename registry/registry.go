// Package registry holds the loaded pattern corpus and scores a
// candidate file against all of them in parallel, the same
// bounded-worker-pool shape muscato_screen uses to fan its per-window
// goroutines out over a semaphore channel.
package registry

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/willf/bloom"

	"github.com/coralbyte/typeprint/pattern"
	"github.com/coralbyte/typeprint/scorer"
	"github.com/coralbyte/typeprint/typeerr"
)

// concurrency bounds the worker pool used by MatchAll, mirroring the
// muscato_screen "concurrency" constant sized well above core count
// since each worker blocks on CPU-bound scoring, not I/O.
const concurrency = 32

// entry pairs a loaded pattern with its precomputed string Bloom
// filter.
type entry struct {
	pattern *pattern.Pattern
	filter  *bloom.BloomFilter
	file    string
}

// Registry holds a read-only, concurrency-safe set of loaded patterns.
type Registry struct {
	entries []entry
}

// Len reports how many patterns are loaded.
func (r *Registry) Len() int { return len(r.entries) }

// LoadDir loads every *.json and *.json.sz file directly under dir,
// optionally restricted to files whose base name contains nameFilter
// (case-insensitive substring match), matching the identify CLI's
// --target-pattern option. Per-pattern load errors are reported via
// onSkip and the pattern is omitted, rather than failing the whole
// load; a registry with zero usable patterns is returned without error
// (the caller decides that's fatal, per spec.md §7).
func LoadDir(dir, nameFilter string, onSkip func(path string, err error)) (*Registry, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, typeerr.Wrap(typeerr.IOFailed, err, "listing "+dir)
	}
	compressed, err := filepath.Glob(filepath.Join(dir, "*.json.sz"))
	if err != nil {
		return nil, typeerr.Wrap(typeerr.IOFailed, err, "listing "+dir)
	}
	matches = append(matches, compressed...)

	r := &Registry{}
	needle := strings.ToLower(nameFilter)
	for _, m := range matches {
		base := strings.ToLower(filepath.Base(m))
		if needle != "" && !strings.Contains(base, needle) {
			continue
		}
		p, err := pattern.Load(m)
		if err != nil {
			if onSkip != nil {
				onSkip(m, err)
			}
			continue
		}
		r.entries = append(r.entries, entry{
			pattern: p,
			filter:  scorer.StringFilter(p),
			file:    m,
		})
	}
	return r, nil
}

// Match is one pattern's non-zero result against a candidate file.
type Match struct {
	PatternID   string
	PatternName string
	Points      int
	MaxPoints   int
	Percentage  float64
}

// MatchAll scores buffer (the candidate file's header, from the file at
// path) against every loaded pattern, in parallel over a bounded worker
// pool, dropping zero-score results. The returned slice is ranked: see
// package-level Rank.
func (r *Registry) MatchAll(buffer []byte, path string) []Match {
	results := make([]Match, len(r.entries))
	valid := make([]bool, len(r.entries))

	jobs := make(chan int, len(r.entries))
	var wg sync.WaitGroup
	workers := concurrency
	if workers > len(r.entries) {
		workers = len(r.entries)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				e := r.entries[i]
				points := scorer.Score(e.pattern, e.filter, buffer, path)
				if points == 0 {
					continue
				}
				results[i] = Match{
					PatternID:   e.pattern.Identity.ID,
					PatternName: e.pattern.Identity.Name,
					Points:      points,
					MaxPoints:   e.pattern.Stats.MaxPoints,
					Percentage:  percentage(points, e.pattern.Stats.MaxPoints),
				}
				valid[i] = true
			}
		}()
	}
	for i := range r.entries {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	out := make([]Match, 0, len(results))
	for i, ok := range valid {
		if ok {
			out = append(out, results[i])
		}
	}
	return Rank(out)
}

func percentage(points, maxPoints int) float64 {
	if maxPoints == 0 {
		return 0
	}
	p := float64(points) / float64(maxPoints) * 100
	return roundTo1DP(p)
}

func roundTo1DP(f float64) float64 {
	return float64(int(f*10+0.5)) / 10
}
