// Package texture loads block textures on demand and keeps the per-texture data the
// model pipeline needs: decoded pixels, the minimum alpha used to classify opacity, and an
// average color for previews.
package texture

import (
	"image"
	"image/color"
	"io/fs"
	"sort"
	"sync"

	"github.com/leterax/blockmodels/pkg/assets"
)

type entry struct {
	img      *image.NRGBA
	minAlpha uint8
	average  color.NRGBA
}

// Registry deduplicates textures by canonical id
type Registry struct {
	fsys     fs.FS
	mu       sync.RWMutex
	textures map[string]entry
}

// NewRegistry creates a registry reading textures from fsys
func NewRegistry(fsys fs.FS) *Registry {
	return &Registry{
		fsys:     fsys,
		textures: make(map[string]entry),
	}
}

// Load decodes the texture once; later calls for the same canonical id are no-ops
func (r *Registry) Load(id string) error {
	id = assets.ID(id)
	if r.Contains(id) {
		return nil
	}

	img, err := Read(r.fsys, id)
	if err != nil {
		return err
	}
	r.Add(id, img)
	return nil
}

// Add registers an already decoded image under id, replacing any previous entry
func (r *Registry) Add(id string, img *image.NRGBA) {
	e := entry{img: img, minAlpha: minAlpha(img), average: averageColor(img)}
	r.mu.Lock()
	r.textures[assets.ID(id)] = e
	r.mu.Unlock()
}

// Contains reports whether the texture has been loaded
func (r *Registry) Contains(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.textures[assets.ID(id)]
	return ok
}

// Get returns the decoded texture
func (r *Registry) Get(id string) (*image.NRGBA, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.textures[assets.ID(id)]
	return e.img, ok
}

// MinAlpha returns the minimum alpha across all texels, or 0 for unknown textures
func (r *Registry) MinAlpha(id string) uint8 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.textures[assets.ID(id)].minAlpha
}

// AverageColor returns the mean color of the texture, transparent black if unknown
func (r *Registry) AverageColor(id string) color.NRGBA {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.textures[assets.ID(id)].average
}

// IDs returns the canonical ids of every loaded texture in sorted order
func (r *Registry) IDs() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.textures))
	for id := range r.textures {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// Len returns the number of loaded textures
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.textures)
}
