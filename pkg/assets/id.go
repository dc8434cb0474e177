// Package assets resolves canonical resource ids and their on-disk locations inside a
// resource-pack style file tree.
package assets

import (
	"path"
	"strings"
)

// DefaultNamespace is assumed for ids written without a namespace.
const DefaultNamespace = "minecraft"

// ID returns the canonical "namespace:path" form of name.
func ID(name string) string {
	if strings.Contains(name, ":") {
		return name
	}
	return DefaultNamespace + ":" + name
}

// Strip removes the default namespace prefix, leaving other namespaces untouched.
func Strip(name string) string {
	return strings.TrimPrefix(name, DefaultNamespace+":")
}

// Split returns the namespace and path parts of name.
func Split(name string) (namespace, p string) {
	id := ID(name)
	i := strings.IndexByte(id, ':')
	return id[:i], id[i+1:]
}

// Kind is a top-level asset directory.
type Kind string

const (
	Models      Kind = "models"
	BlockStates Kind = "blockstates"
	Textures    Kind = "textures"
)

// Path returns the slash-separated location of id inside an asset tree, e.g.
// "minecraft:block/dirt" with Models and ".json" gives "minecraft/models/block/dirt.json".
func Path(kind Kind, id, ext string) string {
	ns, p := Split(id)
	return path.Join(ns, string(kind), p+ext)
}
