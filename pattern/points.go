package pattern

// Point values shared between MaxPoints (here) and the live Scorer
// (package scorer), kept together so the two can never drift apart.
const (
	// MaxEntropyPoints is the full contribution of a composition
	// match: the band variant's flat award, and the average variant's
	// ceiling before it is reduced by the entropy distance.
	MaxEntropyPoints = 15
	// ExtensionPoints is the bonus for a recognized file extension.
	ExtensionPoints = 5
)

// RegexPoints is the contribution of one matching regex, band variant
// only.
func RegexPoints(source string) int {
	return len(source) + 15
}

// MaxPoints computes the best score a pattern could ever achieve: every
// sequence byte counted, every string's length summed, full entropy
// points if composition is enabled, every regex's value, all multiplied
// by the confidence factor (average variant only), then the extension
// bonus added on top (unscaled).
func MaxPoints(p *Pattern) int {
	var base float64

	for _, s := range p.Data.Sequences {
		base += float64(len(s.Bytes))
	}
	for s := range p.Data.Strings {
		base += float64(len(s))
	}
	if p.Data.Composition.Enabled() {
		base += MaxEntropyPoints
	}
	if p.Data.Composition.Variant == CompositionBand {
		for _, r := range p.Data.Composition.Regexes {
			base += float64(RegexPoints(r))
		}
	}

	if p.Data.Composition.Variant == CompositionAverage {
		base *= p.Stats.ConfidenceFactor
	}

	base += ExtensionPoints

	return roundNonNegative(base)
}

func roundNonNegative(f float64) int {
	if f < 0 {
		return 0
	}
	return int(f + 0.5)
}
