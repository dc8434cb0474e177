package game

import (
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/leterax/blockmodels/pkg/assets"
	"github.com/leterax/blockmodels/pkg/blockstate"
	"github.com/leterax/blockmodels/pkg/model"
	"github.com/leterax/blockmodels/pkg/voxel"
)

// ErrUnknownBlockID is returned when an id has no registered block
var ErrUnknownBlockID = errors.New("unknown block id")

var air = model.Empty()

// BlockRegistry maps block-state ids to their baked models. It is filled during startup
// and only read afterwards, so meshing workers share it without locking.
type BlockRegistry struct {
	names       []string
	models      []*model.Resolved
	translucent []bool
	ids         map[string]voxel.BlockState
}

// NewBlockRegistry creates a registry holding only air at id 0
func NewBlockRegistry() *BlockRegistry {
	return &BlockRegistry{
		names:       []string{assets.ID("air")},
		models:      []*model.Resolved{air},
		translucent: []bool{false},
		ids:         map[string]voxel.BlockState{assets.ID("air"): voxel.AirState},
	}
}

// Register stores the model of a block under id
func (r *BlockRegistry) Register(id voxel.BlockState, name string, m *model.Resolved) error {
	if id == voxel.AirState {
		return fmt.Errorf("block id 0 is reserved for air, cannot register %s", name)
	}
	if int(id) < len(r.models) && r.models[id] != nil {
		return fmt.Errorf("block id %d is already registered as %s", id, r.names[id])
	}
	for int(id) >= len(r.models) {
		r.models = append(r.models, nil)
		r.names = append(r.names, "")
		r.translucent = append(r.translucent, false)
	}
	name = assets.ID(name)
	r.models[id] = m
	r.names[id] = name
	r.ids[name] = id
	return nil
}

// Model returns the model of id. Unregistered ids are treated as air.
func (r *BlockRegistry) Model(id voxel.BlockState) *model.Resolved {
	if int(id) < len(r.models) {
		if m := r.models[id]; m != nil {
			return m
		}
	}
	return air
}

// Translucent reports whether id is drawn after opaque geometry
func (r *BlockRegistry) Translucent(id voxel.BlockState) bool {
	return int(id) < len(r.translucent) && r.translucent[id]
}

// Lookup returns the name and model registered under id
func (r *BlockRegistry) Lookup(id voxel.BlockState) (string, *model.Resolved, error) {
	if int(id) >= len(r.models) || r.models[id] == nil {
		return "", nil, fmt.Errorf("%w: %d", ErrUnknownBlockID, id)
	}
	return r.names[id], r.models[id], nil
}

// ID returns the id a block name was registered under
func (r *BlockRegistry) ID(name string) (voxel.BlockState, bool) {
	id, ok := r.ids[assets.ID(name)]
	return id, ok
}

// Len returns the number of registered ids, air included
func (r *BlockRegistry) Len() int {
	return len(r.ids)
}

// RegisterBlocks resolves every configured block and registers it. Blocks with a
// descriptor in the resolver's table resolve from its default properties and take its
// render flags. Any block that does not resolve to exactly one model fails the whole
// registration.
func RegisterBlocks(r *BlockRegistry, res *blockstate.Resolver, blocks map[uint16]string) error {
	ids := make([]uint16, 0, len(blocks))
	for id := range blocks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		if id == 0 {
			continue
		}
		name := blocks[id]
		var (
			m   *model.Resolved
			err error
		)
		d, described := res.Descriptors().Lookup(assets.Strip(assets.ID(name)))
		if described {
			m, err = res.ResolveDescriptor(d)
		} else {
			m, err = res.Resolve(name, blockstate.Properties{})
		}
		if err != nil {
			return fmt.Errorf("failed to register block %d (%s): %w", id, name, err)
		}
		if err := r.Register(voxel.BlockState(id), name, m); err != nil {
			return err
		}
		if !described {
			continue
		}
		r.translucent[id] = d.Translucent
		if d.OpaqueCube && !m.Opacity.IsOpaque() {
			log.Printf("Warning: block %s is an opaque cube but its model is %v on some side", name, m.Opacity)
		}
	}
	return nil
}
