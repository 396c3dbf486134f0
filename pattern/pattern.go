// Package pattern defines the Pattern record: the fingerprint
// synthesized from a training directory of sample files, and scored
// against candidate files by package scorer.
package pattern

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/coralbyte/typeprint/sequence"
	"github.com/coralbyte/typeprint/typeerr"
)

// CompositionVariant selects which of the two composition descriptors
// a Pattern carries.
type CompositionVariant int

const (
	// CompositionAverage stores a single average entropy value.
	CompositionAverage CompositionVariant = iota
	// CompositionBand stores an observed [min, max] entropy band,
	// plus optional regular expressions.
	CompositionBand
)

// Composition is the statistical byte-composition descriptor. Exactly
// one variant's fields are meaningful, selected by Variant.
type Composition struct {
	Variant CompositionVariant

	// AverageEntropy is used when Variant == CompositionAverage, in
	// [0, 8]. Composition scoring is disabled when this is 0.
	AverageEntropy float64

	// MinEntropy, MaxEntropy are used when Variant == CompositionBand,
	// in [0, 800]. Composition scoring is disabled when both are 0.
	MinEntropy, MaxEntropy uint16

	// Regexes holds optional compiled-regex sources, band variant
	// only.
	Regexes []string
}

// Enabled reports whether this composition contributes to scoring.
func (c Composition) Enabled() bool {
	switch c.Variant {
	case CompositionAverage:
		return c.AverageEntropy != 0
	case CompositionBand:
		return !(c.MinEntropy == 0 && c.MaxEntropy == 0)
	default:
		return false
	}
}

// Identity carries the human-facing and referential fields of a
// pattern.
type Identity struct {
	ID          string
	Name        string
	Description string
	Extensions  map[string]struct{}
	MimeTypes   []string
	FormatURL   string
}

// Data is the fingerprint evidence itself.
type Data struct {
	// Sequences is sorted by Offset descending.
	Sequences   []sequence.Pair
	Strings     map[string]struct{}
	Composition Composition
}

// Provenance records who built (and who refined) the pattern, and
// when.
type Provenance struct {
	SubmitterName  string
	SubmitterEmail string
	ScannedAt      time.Time
	RefinerNames   []string
	RefinerEmails  []string
}

// Stats holds derived, precomputed values.
type Stats struct {
	TotalScanned     int
	ConfidenceFactor float64
	MaxPoints        int
}

// Pattern is the atomic, immutable-after-construction fingerprint unit.
type Pattern struct {
	Identity   Identity
	Data       Data
	Provenance Provenance
	Stats      Stats
}

// New constructs a Pattern, validating the invariants from spec.md §3:
// sequence length bounds and non-zero bytes, string length bounds,
// uppercased extensions. The ID is a fresh UUID if none is supplied.
// stats.TotalScanned must already be set by the caller; ConfidenceFactor
// and MaxPoints are derived here.
func New(id Identity, data Data, prov Provenance, stats Stats) (*Pattern, error) {
	for _, s := range data.Sequences {
		if len(s.Bytes) < sequence.MinLen || len(s.Bytes) > sequence.MaxLen {
			return nil, typeerr.New(typeerr.MalformedPattern, "sequence length out of bounds")
		}
		if sequence.AllZero(s.Bytes) {
			return nil, typeerr.New(typeerr.MalformedPattern, "sequence bytes are all zero")
		}
	}
	for s := range data.Strings {
		if len(s) < 5 || len(s) > 64 {
			return nil, typeerr.New(typeerr.MalformedPattern, "string length out of bounds: "+s)
		}
	}

	exts := make(map[string]struct{}, len(id.Extensions))
	for e := range id.Extensions {
		exts[strings.ToUpper(e)] = struct{}{}
	}
	id.Extensions = exts

	if id.ID == "" {
		u, err := uuid.NewUUID()
		if err != nil {
			return nil, typeerr.Wrap(typeerr.IOFailed, err, "generating pattern id")
		}
		id.ID = u.String()
	}

	p := &Pattern{Identity: id, Data: data, Provenance: prov, Stats: stats}
	if data.Composition.Variant == CompositionAverage {
		p.Stats.ConfidenceFactor = math.Cbrt(float64(stats.TotalScanned))
	}
	p.Stats.MaxPoints = MaxPoints(p)
	return p, nil
}

// Recompute recalculates ConfidenceFactor and MaxPoints from the
// pattern's current evidence — used by Load so that a foreign or
// hand-edited pattern file cannot desynchronize its score denominator
// from its content.
func (p *Pattern) Recompute() {
	if p.Data.Composition.Variant == CompositionAverage {
		p.Stats.ConfidenceFactor = math.Cbrt(float64(p.Stats.TotalScanned))
	}
	p.Stats.MaxPoints = MaxPoints(p)
}

// HasEvidence reports whether the pattern carries any sequences,
// strings, or an enabled composition descriptor.
func (p *Pattern) HasEvidence() bool {
	return len(p.Data.Sequences) > 0 || len(p.Data.Strings) > 0 || p.Data.Composition.Enabled()
}
