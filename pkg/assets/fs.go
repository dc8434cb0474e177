package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

//go:embed builtin
var builtin embed.FS

// Builtin returns the asset pack compiled into the binary.
func Builtin() fs.FS {
	sub, err := fs.Sub(builtin, "builtin")
	if err != nil {
		panic(err)
	}
	return sub
}

// Overlay is a stack of asset trees; earlier layers shadow later ones.
type Overlay []fs.FS

// Open implements fs.FS by returning the file from the first layer that has it.
func (o Overlay) Open(name string) (fs.File, error) {
	for _, layer := range o {
		f, err := layer.Open(name)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

// Load returns the asset tree rooted at dir layered over the built-in pack. An empty dir
// yields the built-in pack alone.
func Load(dir string) (fs.FS, error) {
	if dir == "" {
		return Builtin(), nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open asset directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("asset path %s is not a directory", dir)
	}
	return Overlay{os.DirFS(dir), Builtin()}, nil
}

// ReadFile reads the asset of the given kind and id, e.g. ReadFile(fsys, Models,
// "block/dirt", ".json").
func ReadFile(fsys fs.FS, kind Kind, id, ext string) ([]byte, error) {
	p := Path(kind, id, ext)
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s %s: %w", kind, ID(id), err)
	}
	return data, nil
}
