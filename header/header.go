// Package header reads the header chunk every scanning operation works
// from: the first up-to-5-MiB of a file.
package header

import (
	"io"
	"os"

	"github.com/coralbyte/typeprint/typeerr"
)

// MaxSize is the largest header chunk ever read.
const MaxSize = 5 * 1024 * 1024

// Read returns up to MaxSize bytes from the start of the file at path.
// Files smaller than MaxSize are read in full.
func Read(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, typeerr.Wrap(typeerr.IOFailed, err, "open "+path)
	}
	defer f.Close()

	buf := make([]byte, MaxSize)
	n, err := io.ReadFull(f, buf)
	switch {
	case err == io.ErrUnexpectedEOF || err == io.EOF:
		return buf[:n], nil
	case err != nil:
		return nil, typeerr.Wrap(typeerr.IOFailed, err, "read "+path)
	default:
		return buf, nil
	}
}
