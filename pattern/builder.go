package pattern

import (
	"strings"
	"time"

	"github.com/coralbyte/typeprint/entropy"
	"github.com/coralbyte/typeprint/header"
	"github.com/coralbyte/typeprint/histogram"
	"github.com/coralbyte/typeprint/sequence"
	"github.com/coralbyte/typeprint/sieve"
	"github.com/coralbyte/typeprint/tokenset"
	"github.com/coralbyte/typeprint/typeerr"
	"github.com/coralbyte/typeprint/walk"
)

// BuildOptions configures PatternBuilder. Exactly the fields spec.md
// §4.6 names, plus the identity/provenance metadata a real CLI needs
// to populate before persisting.
type BuildOptions struct {
	SourceDir string
	Extension string

	DoStrings     bool
	DoSequences   bool
	DoComposition bool

	// CompositionVariant selects which descriptor DoComposition
	// populates.
	CompositionVariant CompositionVariant
	// Regexes is only meaningful for CompositionBand.
	Regexes []string

	Name        string
	Description string
	Extensions  []string
	MimeTypes   []string
	FormatURL   string

	SubmitterName  string
	SubmitterEmail string

	// OnSkip, if non-nil, is called for every sample file that fails
	// to read; the build continues without it (the "skip and warn"
	// policy chosen for the per-file-read-error open question).
	OnSkip func(path string, err error)

	// Now supplies the build timestamp; defaults to time.Now if nil.
	Now func() time.Time
}

// Build runs PatternBuilder: lists the matching sample files, feeds
// each header to the enabled scanning components, and assembles the
// resulting Pattern. It does not persist anything.
func Build(opts BuildOptions) (*Pattern, error) {
	if !opts.DoStrings && !opts.DoSequences && !opts.DoComposition {
		return nil, typeerr.New(typeerr.InvalidInput, "all scanning modes disabled")
	}
	if opts.Extension == "" {
		return nil, typeerr.New(typeerr.InvalidInput, "empty target extension")
	}

	files, err := walk.ByExtension(opts.SourceDir, opts.Extension)
	if err != nil {
		return nil, err
	}

	var (
		seqs        []sequence.Pair
		perFile     []map[string]struct{}
		runningHist entropy.RunningHistogram
		runningBnd  entropy.RunningBand
		scanned     int
	)

	for _, f := range files {
		h, err := header.Read(f)
		if err != nil {
			if opts.OnSkip != nil {
				opts.OnSkip(f, err)
			}
			continue
		}
		scanned++

		if opts.DoComposition {
			hist := histogram.Count(h)
			if opts.CompositionVariant == CompositionBand {
				runningBnd.Add(entropy.Of(hist))
			} else {
				runningHist.Add(hist)
			}
		}

		if opts.DoStrings {
			perFile = append(perFile, tokenset.Extract(h))
		}

		if opts.DoSequences {
			if seqs == nil {
				seqs = sequence.Seed(h)
			} else {
				seqs = sequence.Refine(seqs, h)
			}
		}
	}

	data := Data{}
	if opts.DoSequences {
		data.Sequences = sequence.Finalize(seqs)
	}
	if opts.DoStrings {
		data.Strings = sieve.Sieve(perFile)
	}
	if opts.DoComposition {
		data.Composition.Variant = opts.CompositionVariant
		if opts.CompositionVariant == CompositionBand {
			lo, hi := runningBnd.MinMax()
			data.Composition.MinEntropy = lo
			data.Composition.MaxEntropy = hi
			data.Composition.Regexes = opts.Regexes
		} else {
			data.Composition.AverageEntropy = runningHist.Entropy()
		}
	}

	exts := make(map[string]struct{}, len(opts.Extensions))
	for _, e := range opts.Extensions {
		exts[strings.ToUpper(e)] = struct{}{}
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	id := Identity{
		Name:        opts.Name,
		Description: opts.Description,
		Extensions:  exts,
		MimeTypes:   opts.MimeTypes,
		FormatURL:   opts.FormatURL,
	}
	prov := Provenance{
		SubmitterName:  opts.SubmitterName,
		SubmitterEmail: opts.SubmitterEmail,
		ScannedAt:      now(),
	}
	stats := Stats{TotalScanned: scanned}

	return New(id, data, prov, stats)
}
