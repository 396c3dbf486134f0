// Command pattern builds a Pattern fingerprint from a directory of
// sample files of a known type, the build side of the typeprint
// fingerprint engine.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/pkg/profile"

	"github.com/coralbyte/typeprint/cliconfig"
	"github.com/coralbyte/typeprint/pattern"
	"github.com/coralbyte/typeprint/typeerr"
)

type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("pattern", flag.ContinueOnError)
	fs.SetOutput(stderr)

	name := fs.String("name", "", "pattern name")
	description := fs.String("description", "", "pattern description")
	knownExtensions := fs.String("known-extensions", "", "comma-separated list of known extensions")
	mimetypes := fs.String("mimetypes", "", "comma-separated list of known MIME types")
	user := fs.String("user", "", "submitter name")
	email := fs.String("email", "", "submitter email")
	noStrings := fs.Bool("no-strings", false, "disable string-set scanning")
	noSequences := fs.Bool("no-sequences", false, "disable positional-sequence scanning")
	noComposition := fs.Bool("no-composition", false, "disable composition scanning")
	compositionBand := fs.Bool("composition-band", false, "use the min/max entropy band composition variant")
	compress := fs.Bool("compress", false, "write the pattern Snappy-compressed (.json.sz)")
	logFile := fs.String("log-file", "", "write log output to this file instead of stderr")
	profileCPU := fs.Bool("profile-cpu", false, "profile CPU usage for this run")
	defaultsFile := fs.String("defaults-file", "", "TOML file of default flag values")
	var regexes stringList
	fs.Var(&regexes, "regex", "regex required to match (band variant only, repeatable)")

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() < 2 {
		fmt.Fprintln(stderr, "usage: pattern <extension> <sample_dir> [output_dir] [flags]")
		fs.PrintDefaults()
		return 1
	}
	extension := fs.Arg(0)
	sampleDir := fs.Arg(1)
	outputDir := ""
	if fs.NArg() >= 3 {
		outputDir = fs.Arg(2)
	}

	logger, closeLog, err := setupLogger(*logFile, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	defer closeLog()

	if *profileCPU {
		p := profile.Start(profile.ProfilePath("."))
		defer p.Stop()
	}

	explicit := *defaultsFile != ""
	defPath := *defaultsFile
	if !explicit {
		defPath = cliconfig.DefaultPath()
	}
	defaults, err := cliconfig.Load(defPath, explicit)
	if err != nil {
		fmt.Fprintln(stderr, err)
		if typeerr.Is(err, typeerr.IOFailed) {
			return 2
		}
		return 1
	}

	opts := pattern.BuildOptions{
		SourceDir:     sampleDir,
		Extension:     extension,
		DoStrings:     !(*noStrings || defaults.NoStrings),
		DoSequences:   !(*noSequences || defaults.NoSequences),
		DoComposition: !(*noComposition || defaults.NoComposition),

		Name:           orDefault(*name, defaults.Name),
		Description:    orDefault(*description, defaults.Description),
		Extensions:     splitCSV(orDefault(*knownExtensions, defaults.KnownExtensions)),
		MimeTypes:      splitCSV(orDefault(*mimetypes, defaults.MimeTypes)),
		SubmitterName:  orDefault(*user, defaults.User),
		SubmitterEmail: orDefault(*email, defaults.Email),

		OnSkip: func(path string, err error) {
			logger.Printf("skipping sample %s: %v", path, err)
		},
	}
	if *compositionBand || defaults.CompositionBand {
		opts.CompositionVariant = pattern.CompositionBand
		opts.Regexes = regexes
		if len(opts.Regexes) == 0 {
			opts.Regexes = defaults.Regex
		}
	}

	p, err := pattern.Build(opts)
	if err != nil {
		fmt.Fprintln(stderr, err)
		if typeerr.Is(err, typeerr.IOFailed) {
			return 2
		}
		return 1
	}

	if !p.HasEvidence() {
		logger.Printf("build produced a pattern with no evidence")
	}

	if outputDir == "" {
		b, err := pattern.Marshal(p)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
		fmt.Fprintln(stdout, string(b))
		return 0
	}

	ext := ".json"
	if *compress || defaults.Compress {
		ext = ".json.sz"
	}
	outPath := outputDir + "/" + safeFileName(p.Identity.Name, p.Identity.ID) + ext
	if err := pattern.Save(p, outPath); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	logger.Printf("wrote %s", outPath)
	return 0
}

func setupLogger(path string, stderr io.Writer) (*log.Logger, func(), error) {
	if path == "" {
		return log.New(stderr, "", log.LstdFlags), func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return log.New(f, "", log.LstdFlags), func() { f.Close() }, nil
}

func orDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func safeFileName(name, id string) string {
	if name == "" {
		return id
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
