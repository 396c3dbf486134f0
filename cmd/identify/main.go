// Command identify scores a candidate file against every pattern in a
// pattern directory and prints a ranked table of matches, the query
// side of the typeprint fingerprint engine.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"github.com/pkg/profile"

	"github.com/coralbyte/typeprint/cliconfig"
	"github.com/coralbyte/typeprint/header"
	"github.com/coralbyte/typeprint/registry"
	"github.com/coralbyte/typeprint/typeerr"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("identify", flag.ContinueOnError)
	fs.SetOutput(stderr)

	patternSourceDir := fs.String("pattern-source-dir", "", "directory of persisted patterns (default ./patterns)")
	targetPattern := fs.String("target-pattern", "", "restrict matching to patterns whose file name contains this substring")
	resultCount := fs.Int("result-count", -1, "truncate the ranked results to N rows (negative: no limit)")
	logFile := fs.String("log-file", "", "write log output to this file instead of stderr")
	profileCPU := fs.Bool("profile-cpu", false, "profile CPU usage for this run")
	defaultsFile := fs.String("defaults-file", "", "TOML file of default flag values")

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(stderr, "usage: identify <path> [flags]")
		fs.PrintDefaults()
		return 1
	}
	path := fs.Arg(0)

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

	dir := *patternSourceDir
	if dir == "" {
		dir = defaults.PatternSourceDir
	}
	if dir == "" {
		dir = "./patterns"
	}
	target := *targetPattern
	if target == "" {
		target = defaults.TargetPattern
	}
	count := *resultCount
	if count < 0 && defaults.ResultCount > 0 {
		count = defaults.ResultCount
	}

	reg, err := registry.LoadDir(dir, target, func(p string, err error) {
		logger.Printf("skipping pattern %s: %v", p, err)
	})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if reg.Len() == 0 {
		fmt.Fprintln(stderr, "no usable patterns loaded from", dir)
		return 3
	}

	buf, err := header.Read(path)
	if err != nil {
		fmt.Fprintln(stderr, err)
		if typeerr.Is(err, typeerr.IOFailed) {
			return 2
		}
		return 1
	}

	matches := reg.MatchAll(buf, path)
	if count >= 0 && len(matches) > count {
		matches = matches[:count]
	}

	printTable(stdout, matches)
	return 0
}

func setupLogger(path string, stderr io.Writer) (*log.Logger, func(), error) {
	if path == "" {
		return log.New(stderr, "", log.LstdFlags), func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, typeerr.Wrap(typeerr.IOFailed, err, "creating log file "+path)
	}
	return log.New(f, "", log.LstdFlags), func() { f.Close() }, nil
}

func printTable(w io.Writer, matches []registry.Match) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATTERN\tID\tPOINTS\tMAX\tPERCENT")
	for _, m := range matches {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.1f%%\n", m.PatternName, m.PatternID, m.Points, m.MaxPoints, m.Percentage)
	}
	tw.Flush()
}
