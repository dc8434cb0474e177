package model

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/leterax/blockmodels/pkg/assets"
)

//go:embed model.schema.json
var modelSchemaJSON []byte

var modelSchema = assets.MustCompileSchema("model.schema.json", modelSchemaJSON)

// TextureStore loads textures by canonical id and reports their minimum alpha
type TextureStore interface {
	Load(id string) error
	MinAlpha(id string) uint8
}

// Loader resolves models by canonical name and caches them. It is not safe for
// concurrent use; resolution happens during the load phase.
type Loader struct {
	fsys      fs.FS
	textures  TextureStore
	schema    *jsonschema.Schema
	models    map[string]*Model
	resolving map[string]bool
}

// NewLoader creates a loader reading model files from fsys and loading the textures
// they reference into textures
func NewLoader(fsys fs.FS, textures TextureStore) *Loader {
	return &Loader{
		fsys:      fsys,
		textures:  textures,
		schema:    modelSchema,
		models:    make(map[string]*Model),
		resolving: make(map[string]bool),
	}
}

// Textures returns the store textures are loaded into
func (l *Loader) Textures() TextureStore {
	return l.textures
}

// Resolve returns the model with its parent chain applied, loading it on first use
func (l *Loader) Resolve(name string) (*Model, error) {
	id := assets.ID(name)
	if m, ok := l.models[id]; ok {
		return m, nil
	}
	if l.resolving[id] {
		return nil, fmt.Errorf("%w: %s", ErrCyclicParent, id)
	}
	l.resolving[id] = true
	defer delete(l.resolving, id)

	m, err := l.parse(id)
	if err != nil {
		return nil, err
	}

	if m.Parent != "" {
		parent, err := l.Resolve(m.Parent)
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", id, err)
		}
		m.inherit(parent)
	}

	for _, tex := range m.concreteTextures() {
		if err := l.textures.Load(tex); err != nil {
			return nil, fmt.Errorf("model %s: %w", id, err)
		}
	}

	l.models[id] = m
	return m, nil
}

func (l *Loader) parse(id string) (*Model, error) {
	data, err := assets.ReadFile(l.fsys, assets.Models, id, ".json")
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	if err := assets.Validate(l.schema, data); err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrInvalidModel, id, err)
	}

	m := &Model{}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrInvalidModel, id, err)
	}
	m.Name = id
	return m, nil
}

// Len returns the number of cached models
func (l *Loader) Len() int {
	return len(l.models)
}
