// Package model loads block models, composes them through their parent chains and bakes
// them into face lists ready for meshing.
package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leterax/blockmodels/pkg/assets"
)

var (
	// ErrNotFound is returned when a model file does not exist
	ErrNotFound = errors.New("model not found")
	// ErrCyclicParent is returned when a model is its own ancestor
	ErrCyclicParent = errors.New("cyclic parent reference")
	// ErrInvalidModel is returned for model files that fail validation
	ErrInvalidModel = errors.New("invalid model")
	// ErrUnresolvedTexture is returned when a face names a texture variable that no
	// model in the chain defines
	ErrUnresolvedTexture = errors.New("unresolved texture variable")
	// ErrInvalidRotation is returned for model rotations other than quarter turns
	ErrInvalidRotation = errors.New("invalid rotation")
)

// maxTextureDepth bounds "#var" chains so cyclic variables fail instead of looping
const maxTextureDepth = 32

// Model is a block model after parent inheritance
type Model struct {
	Name             string            `json:"-"`
	Parent           string            `json:"parent,omitempty"`
	AmbientOcclusion *bool             `json:"ambientocclusion,omitempty"`
	Textures         map[string]string `json:"textures,omitempty"`
	Elements         []Element         `json:"elements,omitempty"`
}

// AO returns whether ambient occlusion is enabled, defaulting to true
func (m *Model) AO() bool {
	return m.AmbientOcclusion == nil || *m.AmbientOcclusion
}

// inherit layers m over its resolved parent. The child's textures win, elements are taken
// from the parent only when the child declares none.
func (m *Model) inherit(parent *Model) {
	textures := make(map[string]string, len(parent.Textures)+len(m.Textures))
	for k, v := range parent.Textures {
		textures[k] = v
	}
	for k, v := range m.Textures {
		textures[k] = v
	}
	m.Textures = textures

	if len(m.Elements) == 0 {
		m.Elements = parent.Elements
	}
	if m.AmbientOcclusion == nil {
		m.AmbientOcclusion = parent.AmbientOcclusion
	}
}

// Texture resolves a face texture reference. "#name" references are chased through the
// texture map; anything else is a concrete texture id.
func (m *Model) Texture(ref string) (string, error) {
	seen := ref
	for range maxTextureDepth {
		name, isVar := strings.CutPrefix(ref, "#")
		if !isVar {
			return assets.ID(ref), nil
		}
		next, ok := m.Textures[name]
		if !ok {
			return "", fmt.Errorf("%w: %s in model %s", ErrUnresolvedTexture, seen, m.Name)
		}
		ref = next
	}
	return "", fmt.Errorf("%w: %s in model %s is cyclic", ErrUnresolvedTexture, seen, m.Name)
}

// concreteTextures returns the concrete texture ids reachable from the texture map and
// the element faces
func (m *Model) concreteTextures() []string {
	var ids []string
	seen := make(map[string]bool)
	add := func(ref string) {
		id, err := m.Texture(ref)
		if err != nil {
			// Abstract parents leave variables for their children to define.
			return
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, v := range m.Textures {
		add(v)
	}
	for _, e := range m.Elements {
		for _, f := range e.Faces {
			add(f.Texture)
		}
	}
	return ids
}
