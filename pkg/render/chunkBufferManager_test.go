package render

import (
	"image"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/blockmodels/pkg/voxel"
)

type alphaSource map[string]uint8

func (a alphaSource) Get(id string) (*image.NRGBA, bool) {
	_, ok := a[id]
	return image.NewNRGBA(image.Rect(0, 0, 1, 1)), ok
}

func (a alphaSource) MinAlpha(id string) uint8 {
	return a[id]
}

func TestPackVertices(t *testing.T) {
	got := PackVertices([]voxel.Vertex{
		{Position: mgl32.Vec3{1, 2, 3}, UV: mgl32.Vec2{0.25, 0.5}, Color: mgl32.Vec4{0.1, 0.2, 0.3, 1}},
		{Position: mgl32.Vec3{-1, 0, 16}, UV: mgl32.Vec2{1, 0}, Color: mgl32.Vec4{1, 1, 1, 0.5}},
	})
	want := []float32{
		1, 2, 3, 0.25, 0.5, 0.1, 0.2, 0.3, 1,
		-1, 0, 16, 1, 0, 1, 1, 1, 0.5,
	}
	if len(got) != len(want) {
		t.Fatalf("packed %d floats, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("float %d = %v, want %v", i, got[i], want[i])
		}
	}
	if n := len(PackVertices(nil)); n != 0 {
		t.Errorf("packed %d floats for no vertices", n)
	}
}

func TestPlanBatches(t *testing.T) {
	quad := func(texture string) voxel.Quad { return voxel.Quad{Texture: texture} }
	ice := voxel.Quad{Texture: "minecraft:block/ice", Translucent: true}
	meshes := voxel.BuildMeshes([]voxel.Quad{
		quad("minecraft:block/glass"),
		quad("minecraft:block/stone"),
		quad("minecraft:block/black_stained_glass"),
		quad("minecraft:block/dirt"),
		quad("minecraft:block/dirt"),
		ice,
	})
	textures := alphaSource{
		"minecraft:block/glass":               0,
		"minecraft:block/stone":               255,
		"minecraft:block/black_stained_glass": 166,
		"minecraft:block/dirt":                255,
		"minecraft:block/ice":                 255,
	}

	plan := planBatches(meshes, textures)
	want := []struct {
		texture     string
		translucent bool
		indices     int
	}{
		{"minecraft:block/dirt", false, 12},
		{"minecraft:block/stone", false, 6},
		{"minecraft:block/black_stained_glass", true, 6},
		{"minecraft:block/glass", true, 6},
		{"minecraft:block/ice", true, 6},
	}
	if len(plan) != len(want) {
		t.Fatalf("planned %d batches, want %d", len(plan), len(want))
	}
	for i, w := range want {
		b := plan[i]
		if b.texture != w.texture || b.translucent != w.translucent || len(b.mesh.Indices) != w.indices {
			t.Errorf("batch %d = %s translucent=%v indices=%d, want %+v", i, b.texture, b.translucent, len(b.mesh.Indices), w)
		}
	}
}
