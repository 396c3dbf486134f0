// Package cliconfig loads optional CLI default values from a TOML
// file, the same decoding path the teacher's test harness used for
// test fixtures (github.com/BurntSushi/toml), repurposed here as a
// real user-facing configuration surface. Flags given explicitly on
// the command line always win over anything loaded here.
package cliconfig

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/coralbyte/typeprint/typeerr"
)

// Defaults holds fallback values for flags not given explicitly.
// Every field is optional and zero-valued when absent from the file.
// LogFile and ProfileCPU are decoded but neither command reads them.
type Defaults struct {
	PatternSourceDir string
	TargetPattern    string
	ResultCount      int
	LogFile          string
	ProfileCPU       bool

	Name             string
	Description      string
	KnownExtensions  string
	MimeTypes        string
	User             string
	Email            string
	NoStrings        bool
	NoSequences      bool
	NoComposition    bool
	CompositionBand  bool
	Regex            []string
	Compress         bool
}

// DefaultPath returns "~/.typeprint.toml", or "" if the home directory
// cannot be determined.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".typeprint.toml")
}

// Load decodes path into Defaults. A missing file at the default path
// is not an error — it just means no defaults are set; an explicit
// --defaults-file that doesn't exist is.
func Load(path string, explicit bool) (*Defaults, error) {
	if path == "" {
		return &Defaults{}, nil
	}
	if _, err := os.Stat(path); err != nil {
		if !explicit {
			return &Defaults{}, nil
		}
		return nil, typeerr.Wrap(typeerr.IOFailed, err, "reading defaults file "+path)
	}

	var d Defaults
	if _, err := toml.DecodeFile(path, &d); err != nil {
		return nil, typeerr.Wrap(typeerr.InvalidInput, err, "parsing defaults file "+path)
	}
	return &d, nil
}
