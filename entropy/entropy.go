// Package entropy computes Shannon entropy from byte histograms and
// tracks the two composition descriptors a pattern may store: the
// average variant's entropy of one combined histogram pooled across
// every sample, or the band variant's observed [min, max] range of
// per-sample entropy values. Band aggregation uses gonum's floats
// package rather than hand-rolled min/max, the same numerical-utility
// library github.com/kortschak/loopy pulls in for its own statistics.
package entropy

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/coralbyte/typeprint/histogram"
)

// Of returns the Shannon entropy, in bits, of a 256-bin histogram.
// The result lies in [0, 8].
func Of(h [histogram.Size]uint64) float64 {
	n := histogram.Sum(h)
	if n == 0 {
		return 0
	}
	probs := make([]float64, 0, histogram.Size)
	for _, c := range h {
		if c == 0 {
			continue
		}
		probs = append(probs, float64(c)/float64(n))
	}
	var e float64
	for _, p := range probs {
		e -= p * math.Log2(p)
	}
	return e
}

// Band100 converts an entropy value in [0, 8] to the integer
// representation in [0, 800] used by the band composition variant:
// multiply by 100 and truncate.
func Band100(e float64) uint16 {
	return uint16(e * 100)
}

// RunningHistogram accumulates every sample's byte histogram into one
// combined 256-bin vector, the average-variant composition descriptor:
// a single entropy value computed once over all samples pooled
// together, not an average of each sample's own entropy (those two
// quantities diverge by Jensen's inequality whenever samples differ in
// composition).
type RunningHistogram struct {
	total [histogram.Size]uint64
	n     int
}

// Add folds one sample's histogram into the running total.
func (r *RunningHistogram) Add(h [histogram.Size]uint64) {
	for i, c := range h {
		r.total[i] += c
	}
	r.n++
}

// Entropy returns the Shannon entropy of the combined histogram across
// every sample added so far, or 0 if none were added.
func (r *RunningHistogram) Entropy() float64 {
	if r.n == 0 {
		return 0
	}
	return Of(r.total)
}

// RunningBand tracks the observed [min, max] entropy band across
// samples, the band-variant composition descriptor.
type RunningBand struct {
	values []float64
}

// Add records one sample's entropy.
func (r *RunningBand) Add(e float64) {
	r.values = append(r.values, e)
}

// MinMax returns the observed band, in the integer [0, 800]
// representation. Both are 0 if no samples were recorded.
func (r *RunningBand) MinMax() (min, max uint16) {
	if len(r.values) == 0 {
		return 0, 0
	}
	lo := floats.Min(r.values)
	hi := floats.Max(r.values)
	return Band100(lo), Band100(hi)
}
