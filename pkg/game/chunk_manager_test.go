package game

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"testing/fstest"

	"github.com/leterax/blockmodels/pkg/assets"
	"github.com/leterax/blockmodels/pkg/biome"
	"github.com/leterax/blockmodels/pkg/config"
	"github.com/leterax/blockmodels/pkg/model"
	"github.com/leterax/blockmodels/pkg/voxel"
)

func testApp(t *testing.T, radius, height, workers int) *App {
	t.Helper()
	cfg := config.Default()
	cfg.World.Radius = radius
	cfg.World.Height = height
	cfg.Workers = workers
	cfg.Blocks[3] = "stone"

	app, err := NewAppFS(cfg, assets.Builtin())
	if err != nil {
		t.Fatalf("NewAppFS: %v", err)
	}
	if err := app.GenerateWorld(); err != nil {
		t.Fatalf("GenerateWorld: %v", err)
	}
	return app
}

func snapshot(cm *ChunkManager) map[voxel.ChunkCoord][]voxel.Quad {
	meshes := make(map[voxel.ChunkCoord][]voxel.Quad)
	cm.EachChunk(func(col *voxel.ChunkColumn, y int) {
		meshes[col.Chunks[y].Coord] = append([]voxel.Quad(nil), col.Meshes[y]...)
	})
	return meshes
}

func TestNeighborhood(t *testing.T) {
	cm := NewChunkManager(2)
	for _, coord := range []voxel.ColumnCoord{{X: 0, Z: 0}, {X: 1, Z: 0}} {
		if err := cm.AddColumn(voxel.NewChunkColumn(coord, 2, biome.Plains)); err != nil {
			t.Fatalf("AddColumn: %v", err)
		}
	}

	if _, ok := cm.Neighborhood(voxel.ChunkCoord{X: 5}); ok {
		t.Error("neighborhood outside the world")
	}
	n, ok := cm.Neighborhood(voxel.ChunkCoord{X: 0, Y: 1, Z: 0})
	if !ok {
		t.Fatal("no neighborhood for chunk 0,1,0")
	}

	if n.Center() != cm.Chunk(voxel.ChunkCoord{X: 0, Y: 1, Z: 0}) {
		t.Error("center is not the requested chunk")
	}
	if n.Chunks[2][0][1] != cm.Chunk(voxel.ChunkCoord{X: 1, Y: 0, Z: 0}) {
		t.Error("east-below neighbor not wired")
	}
	if n.Chunks[1][2][1] != voxel.EmptyChunk {
		t.Error("chunk above the world is not the empty chunk")
	}
	if n.Chunks[0][1][1] != voxel.EmptyChunk {
		t.Error("missing west column is not the empty chunk")
	}
	if n.Biomes[1][1] == nil || n.Biomes[2][1] == nil {
		t.Error("existing columns have no biome grid")
	}
	if n.Biomes[0][1] != nil || n.Biomes[1][0] != nil {
		t.Error("missing columns have a biome grid")
	}
}

func TestAddColumnHeightMismatch(t *testing.T) {
	cm := NewChunkManager(2)
	if err := cm.AddColumn(voxel.NewChunkColumn(voxel.ColumnCoord{}, 3, biome.Plains)); err == nil {
		t.Error("AddColumn accepted a column of the wrong height")
	}
}

func TestMeshAllParallelMatchesSequential(t *testing.T) {
	app := testApp(t, 1, 2, 1)
	if err := app.MeshWorld(context.Background()); err != nil {
		t.Fatalf("MeshWorld: %v", err)
	}
	sequential := snapshot(app.World)

	quads := 0
	for _, q := range sequential {
		quads += len(q)
	}
	if len(sequential) != 9*2 || quads == 0 {
		t.Fatalf("meshed %d chunks with %d quads", len(sequential), quads)
	}

	if err := app.World.MeshAll(context.Background(), app.Mesher, 8); err != nil {
		t.Fatalf("MeshAll: %v", err)
	}
	if parallel := snapshot(app.World); !reflect.DeepEqual(sequential, parallel) {
		t.Error("parallel meshing differs from sequential meshing")
	}

	// Re-meshing an unchanged world replaces every buffer with the same content
	if err := app.World.MeshAll(context.Background(), app.Mesher, 3); err != nil {
		t.Fatalf("MeshAll: %v", err)
	}
	if again := snapshot(app.World); !reflect.DeepEqual(sequential, again) {
		t.Error("re-meshing changed the output")
	}
}

func TestMeshAllCancelled(t *testing.T) {
	app := testApp(t, 0, 1, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := app.World.MeshAll(ctx, app.Mesher, 2); !errors.Is(err, context.Canceled) {
		t.Errorf("MeshAll error = %v, want context.Canceled", err)
	}
}

func TestPlaceBlockRemeshesNeighbors(t *testing.T) {
	app := testApp(t, 1, 1, 4)
	ctx := context.Background()
	if err := app.MeshWorld(ctx); err != nil {
		t.Fatalf("MeshWorld: %v", err)
	}
	app.World.HaveChunksChanged()

	// Dig out the highest ground cell on the east edge of the origin column
	x, z := int32(15), int32(8)
	y := int32(15)
	for ; y >= 0 && app.World.GetBlock(x, y, z) == voxel.AirState; y-- {
	}
	if y < 0 {
		t.Skip("generated column has no ground on its east edge")
	}
	before := snapshot(app.World)
	if err := app.PlaceBlock(x, y, z, voxel.AirState); err != nil {
		t.Fatalf("PlaceBlock: %v", err)
	}
	if !app.World.HaveChunksChanged() {
		t.Error("editing a block did not flag the meshes as changed")
	}
	edited := snapshot(app.World)
	if reflect.DeepEqual(before[voxel.ChunkCoord{}], edited[voxel.ChunkCoord{}]) {
		t.Error("edited chunk was not re-meshed")
	}

	// A full pass must agree with the incremental re-mesh, including the east column
	if err := app.World.MeshAll(ctx, app.Mesher, 4); err != nil {
		t.Fatalf("MeshAll: %v", err)
	}
	if full := snapshot(app.World); !reflect.DeepEqual(edited, full) {
		t.Error("incremental re-mesh differs from a full pass")
	}
}

func TestPlaceBlockErrors(t *testing.T) {
	app := testApp(t, 0, 1, 1)
	if err := app.PlaceBlock(0, 0, 0, 42); !errors.Is(err, ErrUnknownBlockID) {
		t.Errorf("unregistered id error = %v, want ErrUnknownBlockID", err)
	}
	if err := app.PlaceBlock(100, 0, 0, 1); err == nil {
		t.Error("placing outside the world succeeded")
	}
	if err := app.PlaceBlock(0, 16, 0, 1); err == nil {
		t.Error("placing above the world succeeded")
	}
}

func TestBlockRegistry(t *testing.T) {
	app := testApp(t, 0, 1, 1)
	blocks := app.Blocks

	if !blocks.Model(voxel.AirState).IsEmpty() {
		t.Error("id 0 is not air")
	}
	if !blocks.Model(500).IsEmpty() {
		t.Error("unregistered id does not render as air")
	}
	if _, _, err := blocks.Lookup(500); !errors.Is(err, ErrUnknownBlockID) {
		t.Errorf("Lookup(500) error = %v", err)
	}

	id, ok := blocks.ID("minecraft:grass_block")
	if !ok || id != 2 {
		t.Fatalf("grass_block id = %d, %v", id, ok)
	}
	name, m, err := blocks.Lookup(id)
	if err != nil || name != "minecraft:grass_block" || m.IsEmpty() {
		t.Errorf("Lookup(2) = %s %v %v", name, m, err)
	}
	if blocks.Len() != 4 {
		t.Errorf("Len = %d, want air, dirt, grass and stone", blocks.Len())
	}

	if err := blocks.Register(0, "stone", m); err == nil {
		t.Error("registering over air succeeded")
	}
	if err := blocks.Register(2, "stone", m); err == nil {
		t.Error("registering a taken id succeeded")
	}
}

func TestStartupFailsOnUnresolvableBlock(t *testing.T) {
	cfg := config.Default()
	cfg.Blocks[7] = "lever"
	if _, err := NewAppFS(cfg, assets.Builtin()); err == nil {
		t.Error("startup succeeded with a block that has no block state")
	}

	cfg = config.Default()
	cfg.Preload.Models = append(cfg.Preload.Models, "block/missing")
	if _, err := NewAppFS(cfg, assets.Builtin()); err == nil {
		t.Error("startup succeeded with a missing preloaded model")
	}

	overlay := assets.Overlay{fstest.MapFS{
		"minecraft/blockstates/dirt.json": {Data: []byte(`{"variants": {"snowy=true": {"model": "block/dirt"}}}`)},
	}, assets.Builtin()}
	if _, err := NewAppFS(config.Default(), overlay); err == nil {
		t.Error("startup succeeded with a block whose properties match no variant")
	}

	oversized := assets.Overlay{fstest.MapFS{
		"minecraft/models/block/dirt.json": {Data: []byte(`{"textures": {"all": "block/dirt"}, "elements": [{"from": [0,0,0], "to": [600,16,16], "faces": {"up": {"texture": "#all"}}}]}`)},
	}, assets.Builtin()}
	if _, err := NewAppFS(config.Default(), oversized); !errors.Is(err, model.ErrInvalidModel) {
		t.Errorf("startup with an element outside the block = %v, want ErrInvalidModel", err)
	}
}

func TestExampleConfigBlocksResolve(t *testing.T) {
	cfg, err := config.Load("../../voxels.yaml")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	cfg.World.Radius = 0
	app, err := NewAppFS(cfg, assets.Builtin())
	if err != nil {
		t.Fatalf("NewAppFS: %v", err)
	}
	if app.Blocks.Len() != len(cfg.Blocks) {
		t.Errorf("registered %d blocks, want %d", app.Blocks.Len(), len(cfg.Blocks))
	}
	if err := app.GenerateWorld(); err != nil {
		t.Fatalf("GenerateWorld: %v", err)
	}
	if err := app.MeshWorld(context.Background()); err != nil {
		t.Fatalf("MeshWorld: %v", err)
	}
	if n := len(app.World.Columns()); n != 1 {
		t.Errorf("generated %d columns", n)
	}
}

func TestConfiguredDescriptors(t *testing.T) {
	cfg := config.Default()
	cfg.Descriptors = []config.Descriptor{
		{Name: "minecraft:dirt", Translucent: true},
		{Name: "grass_block", Properties: map[string]string{"snowy": "false"}},
	}
	app, err := NewAppFS(cfg, assets.Builtin())
	if err != nil {
		t.Fatalf("NewAppFS: %v", err)
	}

	if !app.Blocks.Translucent(1) || app.Blocks.Translucent(2) {
		t.Errorf("translucent dirt/grass = %v/%v, want true/false", app.Blocks.Translucent(1), app.Blocks.Translucent(2))
	}
	_, grassModel, err := app.Blocks.Lookup(2)
	if err != nil {
		t.Fatalf("Lookup(2): %v", err)
	}
	if grassModel.Tints != 0 {
		t.Errorf("grass_block tints = %d, want 0 for a descriptor without a palette", grassModel.Tints)
	}
	if d, ok := app.Resolver.Descriptors().Lookup("stone"); !ok || !d.OpaqueCube {
		t.Errorf("built-in stone = %+v, %v", d, ok)
	}
}
