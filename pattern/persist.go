package pattern

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/golang/snappy"

	"github.com/coralbyte/typeprint/sequence"
	"github.com/coralbyte/typeprint/typeerr"
)

// wireSequence is the on-disk shape of a sequence.Pair.
type wireSequence struct {
	Offset uint64 `json:"offset"`
	Bytes  []byte `json:"bytes"`
}

// wire is the on-disk shape of a Pattern. Field presence matches
// spec.md §6 exactly; unknown fields found while decoding are ignored
// (the lenient policy chosen for the "from_json_str strictness" open
// question), so older or newer pattern files stay loadable.
type wire struct {
	UUID        string   `json:"uuid"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Extensions  []string `json:"known_extensions"`
	MimeTypes   []string `json:"known_mimetypes,omitempty"`
	FormatURL   string   `json:"format_url,omitempty"`

	Sequences []wireSequence `json:"sequences,omitempty"`
	Strings   []string       `json:"strings,omitempty"`

	CompositionVariant string   `json:"composition_variant"`
	AverageEntropy     float64  `json:"average_entropy,omitempty"`
	MinEntropy         uint16   `json:"min_entropy,omitempty"`
	MaxEntropy         uint16   `json:"max_entropy,omitempty"`
	Regexes            []string `json:"regexes,omitempty"`

	SubmitterName  string    `json:"submitter_name,omitempty"`
	SubmitterEmail string    `json:"submitter_email,omitempty"`
	ScannedAt      time.Time `json:"scanned_at"`
	RefinerNames   []string  `json:"refiner_names,omitempty"`
	RefinerEmails  []string  `json:"refiner_emails,omitempty"`

	TotalScanned     int     `json:"total_scanned"`
	ConfidenceFactor float64 `json:"confidence_factor,omitempty"`
	MaxPoints        int     `json:"max_points"`
}

const (
	variantAverage = "average"
	variantBand    = "band"
)

func toWire(p *Pattern) wire {
	w := wire{
		UUID:        p.Identity.ID,
		Name:        p.Identity.Name,
		Description: p.Identity.Description,
		MimeTypes:   p.Identity.MimeTypes,
		FormatURL:   p.Identity.FormatURL,

		SubmitterName:  p.Provenance.SubmitterName,
		SubmitterEmail: p.Provenance.SubmitterEmail,
		ScannedAt:      p.Provenance.ScannedAt,
		RefinerNames:   p.Provenance.RefinerNames,
		RefinerEmails:  p.Provenance.RefinerEmails,

		TotalScanned:     p.Stats.TotalScanned,
		ConfidenceFactor: p.Stats.ConfidenceFactor,
		MaxPoints:        p.Stats.MaxPoints,
	}

	for e := range p.Identity.Extensions {
		w.Extensions = append(w.Extensions, e)
	}
	sort.Strings(w.Extensions)

	for _, s := range p.Data.Sequences {
		w.Sequences = append(w.Sequences, wireSequence{Offset: s.Offset, Bytes: s.Bytes})
	}
	for s := range p.Data.Strings {
		w.Strings = append(w.Strings, s)
	}
	sort.Strings(w.Strings)

	switch p.Data.Composition.Variant {
	case CompositionBand:
		w.CompositionVariant = variantBand
		w.MinEntropy = p.Data.Composition.MinEntropy
		w.MaxEntropy = p.Data.Composition.MaxEntropy
		w.Regexes = p.Data.Composition.Regexes
	default:
		w.CompositionVariant = variantAverage
		w.AverageEntropy = p.Data.Composition.AverageEntropy
	}

	return w
}

func fromWire(w wire) (*Pattern, error) {
	exts := make(map[string]struct{}, len(w.Extensions))
	for _, e := range w.Extensions {
		exts[strings.ToUpper(e)] = struct{}{}
	}

	var seqs []sequence.Pair
	for _, s := range w.Sequences {
		seqs = append(seqs, sequence.Pair{Offset: s.Offset, Bytes: s.Bytes})
	}

	strs := make(map[string]struct{}, len(w.Strings))
	for _, s := range w.Strings {
		strs[s] = struct{}{}
	}

	comp := Composition{}
	if w.CompositionVariant == variantBand {
		comp.Variant = CompositionBand
		comp.MinEntropy = w.MinEntropy
		comp.MaxEntropy = w.MaxEntropy
		comp.Regexes = w.Regexes
	} else {
		comp.Variant = CompositionAverage
		comp.AverageEntropy = w.AverageEntropy
	}

	p := &Pattern{
		Identity: Identity{
			ID:          w.UUID,
			Name:        w.Name,
			Description: w.Description,
			Extensions:  exts,
			MimeTypes:   w.MimeTypes,
			FormatURL:   w.FormatURL,
		},
		Data: Data{
			Sequences:   seqs,
			Strings:     strs,
			Composition: comp,
		},
		Provenance: Provenance{
			SubmitterName:  w.SubmitterName,
			SubmitterEmail: w.SubmitterEmail,
			ScannedAt:      w.ScannedAt,
			RefinerNames:   w.RefinerNames,
			RefinerEmails:  w.RefinerEmails,
		},
		Stats: Stats{
			TotalScanned: w.TotalScanned,
		},
	}

	for _, s := range seqs {
		if len(s.Bytes) < sequence.MinLen || len(s.Bytes) > sequence.MaxLen {
			return nil, typeerr.New(typeerr.MalformedPattern, "sequence length out of bounds on load")
		}
		if sequence.AllZero(s.Bytes) {
			return nil, typeerr.New(typeerr.MalformedPattern, "sequence bytes are all zero on load")
		}
	}

	// Always recompute rather than trust the persisted confidence
	// factor / max points, so a hand-edited file can't desync its
	// score denominator from its content.
	p.Recompute()

	return p, nil
}

// Marshal renders p as self-describing JSON.
func Marshal(p *Pattern) ([]byte, error) {
	b, err := json.MarshalIndent(toWire(p), "", "  ")
	if err != nil {
		return nil, typeerr.Wrap(typeerr.IOFailed, err, "marshaling pattern")
	}
	return b, nil
}

// Unmarshal parses JSON produced by Marshal (or any compatible
// producer) back into a Pattern.
func Unmarshal(b []byte) (*Pattern, error) {
	var w wire
	if err := json.Unmarshal(b, &w); err != nil {
		return nil, typeerr.Wrap(typeerr.MalformedPattern, err, "decoding pattern")
	}
	if w.UUID == "" || w.Name == "" {
		return nil, typeerr.New(typeerr.MalformedPattern, "pattern missing uuid or name")
	}
	return fromWire(w)
}

// Save writes p to path. If path ends in ".sz" the JSON is Snappy
// framed-compressed first, matching the compressed on-disk convention
// used throughout the training pipeline this tool's patterns feed.
func Save(p *Pattern, path string) error {
	b, err := Marshal(p)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return typeerr.Wrap(typeerr.IOFailed, err, "creating "+path)
	}
	defer f.Close()

	var w io.Writer = f
	var sz *snappy.Writer
	if strings.HasSuffix(path, ".sz") {
		sz = snappy.NewBufferedWriter(f)
		w = sz
	}
	if _, err := w.Write(b); err != nil {
		return typeerr.Wrap(typeerr.IOFailed, err, "writing "+path)
	}
	if sz != nil {
		if err := sz.Close(); err != nil {
			return typeerr.Wrap(typeerr.IOFailed, err, "closing "+path)
		}
	}
	return nil
}

// Load reads and decodes a pattern file, transparently decompressing
// if path ends in ".sz".
func Load(path string) (*Pattern, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, typeerr.Wrap(typeerr.IOFailed, err, "opening "+path)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".sz") {
		r = snappy.NewReader(f)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, typeerr.Wrap(typeerr.IOFailed, err, "reading "+path)
	}

	return Unmarshal(buf.Bytes())
}
