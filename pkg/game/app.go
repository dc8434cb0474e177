package game

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"math/rand"
	"time"

	"github.com/leterax/blockmodels/pkg/assets"
	"github.com/leterax/blockmodels/pkg/biome"
	"github.com/leterax/blockmodels/pkg/blockstate"
	"github.com/leterax/blockmodels/pkg/config"
	"github.com/leterax/blockmodels/pkg/model"
	"github.com/leterax/blockmodels/pkg/texture"
	"github.com/leterax/blockmodels/pkg/voxel"
)

// App wires the load-phase registries to the world. Everything but the world is
// read-only once NewApp returns.
type App struct {
	Config   *config.Config
	Assets   fs.FS
	Textures *texture.Registry
	Models   *model.Loader
	Resolver *blockstate.Resolver
	Blocks   *BlockRegistry
	Biomes   *biome.Table
	World    *ChunkManager
	Mesher   *Mesher
}

// NewApp loads the assets named by cfg and registers its blocks
func NewApp(cfg *config.Config) (*App, error) {
	fsys, err := assets.Load(cfg.Assets)
	if err != nil {
		return nil, err
	}
	return NewAppFS(cfg, fsys)
}

// NewAppFS is NewApp over an already opened asset tree
func NewAppFS(cfg *config.Config, fsys fs.FS) (*App, error) {
	start := time.Now()
	textures := texture.NewRegistry(fsys)
	models := model.NewLoader(fsys, textures)
	for _, name := range cfg.Preload.Models {
		if _, err := models.Resolve(name); err != nil {
			return nil, fmt.Errorf("failed to preload model: %w", err)
		}
	}

	store := blockstate.NewStore(fsys)
	for _, name := range cfg.Preload.BlockStates {
		if _, err := store.Load(name); err != nil {
			return nil, fmt.Errorf("failed to preload block state: %w", err)
		}
	}
	resolver := blockstate.NewResolver(store, models,
		blockstate.WithDescriptors(descriptorTable(cfg.Descriptors)),
		blockstate.WithRand(rand.New(rand.NewSource(cfg.Seed))),
	)

	blocks := NewBlockRegistry()
	if err := RegisterBlocks(blocks, resolver, cfg.Blocks); err != nil {
		return nil, err
	}

	biomes, err := biome.Load(fsys)
	if err != nil {
		return nil, err
	}

	log.Printf("Loaded %d models, %d textures and %d blocks in %v", models.Len(), textures.Len(), blocks.Len(), time.Since(start))

	return &App{
		Config:   cfg,
		Assets:   fsys,
		Textures: textures,
		Models:   models,
		Resolver: resolver,
		Blocks:   blocks,
		Biomes:   biomes,
		World:    NewChunkManager(cfg.World.Height),
		Mesher:   NewMesher(blocks, biomes),
	}, nil
}

// GenerateWorld fills the square of columns within the configured radius of the origin
// with grass over dirt terrain
func (a *App) GenerateWorld() error {
	surface, ok := a.Blocks.ID("grass_block")
	if !ok {
		return fmt.Errorf("terrain needs grass_block: %w", ErrUnknownBlockID)
	}
	filler, ok := a.Blocks.ID("dirt")
	if !ok {
		return fmt.Errorf("terrain needs dirt: %w", ErrUnknownBlockID)
	}

	terrain := NewTerrain(a.Config.Seed, surface, filler)
	r := int32(a.Config.World.Radius)
	for x := -r; x <= r; x++ {
		for z := -r; z <= r; z++ {
			col := voxel.NewChunkColumn(voxel.ColumnCoord{X: x, Z: z}, a.World.Height(), biome.Plains)
			terrain.Generate(col)
			if err := a.World.AddColumn(col); err != nil {
				return err
			}
		}
	}
	return nil
}

// MeshWorld meshes every chunk with the configured number of workers
func (a *App) MeshWorld(ctx context.Context) error {
	start := time.Now()
	if err := a.World.MeshAll(ctx, a.Mesher, a.Config.Workers); err != nil {
		return err
	}

	quads := 0
	for _, col := range a.World.Columns() {
		quads += col.QuadCount()
	}
	log.Printf("Meshed %d columns (%d quads) in %v", len(a.World.Columns()), quads, time.Since(start))
	return nil
}

// PlaceBlock sets a block and re-meshes the chunks that can see it
func (a *App) PlaceBlock(x, y, z int32, state voxel.BlockState) error {
	if _, _, err := a.Blocks.Lookup(state); err != nil {
		return err
	}
	if !a.World.SetBlock(x, y, z, state) {
		return fmt.Errorf("position %d,%d,%d is outside the world", x, y, z)
	}
	a.World.Remesh(a.Mesher, x, y, z)
	return nil
}

// descriptorTable builds the block types of the built-in pack plus the configured ones
func descriptorTable(extra []config.Descriptor) *voxel.DescriptorTable {
	ds := make([]voxel.Descriptor, len(extra))
	for i, d := range extra {
		ds[i] = voxel.Descriptor{
			Name:        assets.Strip(assets.ID(d.Name)),
			Properties:  d.Properties,
			OpaqueCube:  d.OpaqueCube,
			Translucent: d.Translucent,
			Tints:       d.Tints,
		}
	}
	return voxel.NewDescriptorTable(ds...)
}
