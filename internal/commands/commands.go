package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/bucketdrop/service/internal/client"
	"github.com/bucketdrop/service/internal/console"
)

type Globals struct {
	Debug   bool
	Version string
	Client  client.Client
	Printer *console.Printer
	// Out receives machine-readable results such as keys, ids and tokens.
	Out io.Writer
}

func (g *Globals) stdout() io.Writer {
	if g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// readUpload reads path, refusing files over limit before anything is sent.
func readUpload(path string, limit int64) (*os.File, os.FileInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > limit {
		_ = f.Close()
		return nil, nil, fmt.Errorf("file size exceeds %d byte limit: %s is %d bytes", limit, path, info.Size())
	}
	return f, info, nil
}
