package blockstate

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/leterax/blockmodels/pkg/assets"
	"github.com/leterax/blockmodels/pkg/model"
	"github.com/leterax/blockmodels/pkg/voxel"
)

var (
	// ErrUnknownBlock is returned for blocks without a block-state definition
	ErrUnknownBlock = errors.New("unknown block")
	// ErrNoMatch is returned when no variant condition matches the block's properties
	ErrNoMatch = errors.New("no matching variant")
	// ErrUnsupported is returned when resolving a multipart definition
	ErrUnsupported = errors.New("multipart block states are not supported")
	// ErrInvalidDefinition is returned for block-state files that fail validation
	ErrInvalidDefinition = errors.New("invalid block state")
)

//go:embed blockstate.schema.json
var schemaJSON []byte

var schema = assets.MustCompileSchema("blockstate.schema.json", schemaJSON)

// Store loads block-state definitions by canonical block name. It is not safe for
// concurrent use.
type Store struct {
	fsys        fs.FS
	schema      *jsonschema.Schema
	definitions map[string]*Definition
}

// NewStore creates a store reading blockstates/<name>.json files from fsys
func NewStore(fsys fs.FS) *Store {
	return &Store{
		fsys:        fsys,
		schema:      schema,
		definitions: make(map[string]*Definition),
	}
}

// Load parses and caches the definition of a block
func (s *Store) Load(name string) (*Definition, error) {
	id := assets.ID(name)
	if d, ok := s.definitions[id]; ok {
		return d, nil
	}

	data, err := assets.ReadFile(s.fsys, assets.BlockStates, id, ".json")
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBlock, id)
	}
	if err != nil {
		return nil, err
	}
	if err := assets.Validate(s.schema, data); err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrInvalidDefinition, id, err)
	}
	d, err := Parse(id, data)
	if errors.Is(err, ErrInvalidCondition) {
		return nil, fmt.Errorf("block state %s: %w", id, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrInvalidDefinition, id, err)
	}

	s.definitions[id] = d
	return d, nil
}

// Option configures a Resolver
type Option func(*Resolver)

// WithRand makes variant selection draw from r, for reproducible worlds and tests
func WithRand(r *rand.Rand) Option {
	return func(res *Resolver) {
		res.rng = r
	}
}

// WithDescriptors sets the block types whose tint palettes and default properties the
// resolver applies. The default is the built-in table.
func WithDescriptors(t *voxel.DescriptorTable) Option {
	return func(res *Resolver) {
		res.descriptors = t
	}
}

// Resolver picks and bakes the model of a block instance. Like the loaders it draws on,
// it belongs to the load phase and is not safe for concurrent use.
type Resolver struct {
	store       *Store
	models      *model.Loader
	descriptors *voxel.DescriptorTable
	rng         *rand.Rand
	baked       map[bakeKey]*model.Resolved
}

type bakeKey struct {
	model  string
	x, y   int
	uvlock bool
	tints  string
}

// NewResolver creates a resolver over a definition store and a model loader
func NewResolver(store *Store, models *model.Loader, opts ...Option) *Resolver {
	r := &Resolver{
		store:  store,
		models: models,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		baked:  make(map[bakeKey]*model.Resolved),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.descriptors == nil {
		r.descriptors = voxel.NewDescriptorTable()
	}
	return r
}

// Descriptors returns the block types the resolver tints with
func (r *Resolver) Descriptors() *voxel.DescriptorTable {
	return r.descriptors
}

// Select returns the variant chosen for props: the first case in table order whose
// condition matches, with a uniform draw among its alternatives on every call
func (r *Resolver) Select(name string, props Properties) (Variant, error) {
	d, err := r.store.Load(name)
	if err != nil {
		return Variant{}, err
	}
	if d.IsMultipart() {
		return Variant{}, fmt.Errorf("%w: %s", ErrUnsupported, d.Name)
	}

	for _, c := range d.Variants {
		if !c.Condition.Matches(props) {
			continue
		}
		if len(c.Choice) == 1 {
			return c.Choice[0], nil
		}
		return c.Choice[r.rng.Intn(len(c.Choice))], nil
	}
	return Variant{}, fmt.Errorf("%w: %s with %v", ErrNoMatch, d.Name, props)
}

// Resolve returns the baked model of the block instance, tinted with the palette of
// the block's registered descriptor
func (r *Resolver) Resolve(name string, props Properties) (*model.Resolved, error) {
	var tints []mgl32.Vec4
	if d, ok := r.descriptors.Lookup(assets.Strip(assets.ID(name))); ok {
		tints = d.TintColors()
	}
	return r.ResolveTinted(name, props, tints)
}

// ResolveDescriptor resolves a block from its descriptor's default properties and tints
func (r *Resolver) ResolveDescriptor(d voxel.Descriptor) (*model.Resolved, error) {
	return r.ResolveTinted(d.Name, ParseProperties(d.Properties), d.TintColors())
}

// ResolveTinted is like Resolve with an explicit tint palette
func (r *Resolver) ResolveTinted(name string, props Properties, tints []mgl32.Vec4) (*model.Resolved, error) {
	v, err := r.Select(name, props)
	if err != nil {
		return nil, err
	}

	key := bakeKey{model: assets.ID(v.Model), x: v.X, y: v.Y, uvlock: v.UVLock, tints: fmt.Sprint(tints)}
	if m, ok := r.baked[key]; ok {
		return m, nil
	}
	m, err := model.Bake(r.models, v.Model, tints, v.X, v.Y, v.UVLock)
	if err != nil {
		return nil, fmt.Errorf("block %s: %w", assets.ID(name), err)
	}
	r.baked[key] = m
	return m, nil
}
