// Package assets resolves static asset identifiers to file contents.
package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Asset names a file under the asset root.
type Asset string

const (
	Index        Asset = "index.html"
	MainJS       Asset = "main.js"
	Favicon      Asset = "icon.png"
	Styles       Asset = "styles.css"
	NotFoundPage Asset = "404.html"
)

var (
	ErrNotFound = errors.New("asset not found")
	ErrIO       = errors.New("asset read failed")
)

// Store reads an asset in full.
type Store interface {
	Read(id Asset) ([]byte, error)
}

// FSStore serves assets from any fs.FS. It holds no state of its own, so
// every Read goes to the filesystem.
type FSStore struct {
	fsys fs.FS
}

func NewFSStore(fsys fs.FS) *FSStore {
	return &FSStore{fsys: fsys}
}

// Dir serves assets from a directory on disk.
func Dir(path string) *FSStore {
	return NewFSStore(os.DirFS(path))
}

//go:embed client
var clientFS embed.FS

// Embedded serves the client bundled into the binary.
func Embedded() *FSStore {
	sub, err := fs.Sub(clientFS, "client")
	if err != nil {
		// "client" is a literal embedded above
		panic(err)
	}
	return NewFSStore(sub)
}

// Read returns the asset's bytes. A missing file wraps ErrNotFound; any
// other failure wraps ErrIO.
func (s *FSStore) Read(id Asset) ([]byte, error) {
	data, err := fs.ReadFile(s.fsys, string(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrIO, id, err)
	}
	return data, nil
}
