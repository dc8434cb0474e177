package model

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/blockmodels/pkg/assets"
	"github.com/leterax/blockmodels/pkg/texture"
	"github.com/leterax/blockmodels/pkg/voxel"
)

// fakeTextures records loads and serves fixed alpha values
type fakeTextures struct {
	alpha map[string]uint8
	loads map[string]int
}

func newFakeTextures(alpha map[string]uint8) *fakeTextures {
	canon := make(map[string]uint8, len(alpha))
	for k, v := range alpha {
		canon[assets.ID(k)] = v
	}
	return &fakeTextures{alpha: canon, loads: map[string]int{}}
}

func (f *fakeTextures) Load(id string) error {
	f.loads[assets.ID(id)]++
	return nil
}

func (f *fakeTextures) MinAlpha(id string) uint8 {
	return f.alpha[assets.ID(id)]
}

func modelFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, body := range files {
		fsys[assets.Path(assets.Models, name, ".json")] = &fstest.MapFile{Data: []byte(body)}
	}
	return fsys
}

const cubeJSON = `{
  "elements": [{
    "from": [0, 0, 0], "to": [16, 16, 16],
    "faces": {
      "down":  {"texture": "#down",  "cullface": "down"},
      "up":    {"texture": "#up",    "cullface": "up", "tintindex": 0},
      "north": {"texture": "#north", "cullface": "north"},
      "south": {"texture": "#south", "cullface": "south"},
      "west":  {"texture": "#west",  "cullface": "west"},
      "east":  {"texture": "#east",  "cullface": "east"}
    }
  }]
}`

const cubeAllJSON = `{
  "parent": "block/cube",
  "textures": {"down": "#all", "up": "#all", "north": "#all", "south": "#all", "west": "#all", "east": "#all"}
}`

func testLoader(files map[string]string, alpha map[string]uint8) (*Loader, *fakeTextures) {
	tex := newFakeTextures(alpha)
	base := map[string]string{
		"block/cube":     cubeJSON,
		"block/cube_all": cubeAllJSON,
	}
	for k, v := range files {
		base[k] = v
	}
	return NewLoader(modelFS(base), tex), tex
}

func TestLoaderInheritance(t *testing.T) {
	l, _ := testLoader(map[string]string{
		"block/base":  `{"ambientocclusion": false, "textures": {"all": "block/parent_all", "particle": "block/p"}, "elements": [{"from": [0,0,0], "to": [16,8,16], "faces": {"up": {"texture": "#all"}}}]}`,
		"block/child": `{"parent": "block/base", "textures": {"all": "block/child_all"}}`,
	}, nil)

	m, err := l.Resolve("block/child")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if m.Textures["all"] != "block/child_all" {
		t.Errorf("child texture did not take precedence: all = %q", m.Textures["all"])
	}
	if m.Textures["particle"] != "block/p" {
		t.Errorf("parent texture was not inherited: particle = %q", m.Textures["particle"])
	}
	if len(m.Elements) != 1 || m.Elements[0].To != (mgl32.Vec3{16, 8, 16}) {
		t.Errorf("elements were not inherited: %+v", m.Elements)
	}
	if m.AO() {
		t.Error("ambientocclusion=false was not inherited")
	}

	tex, err := m.Texture("#all")
	if err != nil || tex != "minecraft:block/child_all" {
		t.Errorf("Texture(#all) = %q, %v", tex, err)
	}
}

func TestLoaderChildElementsReplaceParent(t *testing.T) {
	l, _ := testLoader(map[string]string{
		"block/slab": `{"parent": "block/cube_all", "textures": {"all": "block/stone"}, "elements": [{"from": [0,0,0], "to": [16,8,16], "faces": {"up": {"texture": "#all"}}}]}`,
	}, nil)
	m, err := l.Resolve("block/slab")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(m.Elements) != 1 || len(m.Elements[0].Faces) != 1 {
		t.Errorf("child elements were merged with the parent's: %+v", m.Elements)
	}
}

func TestLoaderCaches(t *testing.T) {
	l, tex := testLoader(map[string]string{
		"block/stone":  `{"parent": "block/cube_all", "textures": {"all": "block/stone"}}`,
		"block/stone2": `{"parent": "minecraft:block/cube_all", "textures": {"all": "minecraft:block/stone"}}`,
	}, nil)

	a, err := l.Resolve("block/stone")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	b, err := l.Resolve("minecraft:block/stone")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if a != b {
		t.Error("the same canonical model resolved twice")
	}
	if _, err := l.Resolve("block/stone2"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if n := tex.loads["minecraft:block/stone"]; n != 2 {
		// Each model asks once; the registry itself deduplicates.
		t.Errorf("texture load requested %d times, want once per model", n)
	}
	if l.Len() != 4 {
		t.Errorf("loader cached %d models, want 4", l.Len())
	}
}

func TestLoaderCyclicParent(t *testing.T) {
	l, _ := testLoader(map[string]string{
		"block/a":    `{"parent": "block/b"}`,
		"block/b":    `{"parent": "block/c"}`,
		"block/c":    `{"parent": "block/a"}`,
		"block/self": `{"parent": "block/self"}`,
	}, nil)

	for _, name := range []string{"block/a", "block/self"} {
		if _, err := l.Resolve(name); !errors.Is(err, ErrCyclicParent) {
			t.Errorf("Resolve(%s) error = %v, want ErrCyclicParent", name, err)
		}
	}
}

func TestLoaderErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"block/bad_json", `{"parent": `, ErrInvalidModel},
		{"block/bad_angle", `{"elements": [{"from": [0,0,0], "to": [16,16,16], "rotation": {"origin": [8,8,8], "axis": "y", "angle": 30}}]}`, ErrInvalidModel},
		{"block/bad_axis", `{"elements": [{"from": [0,0,0], "to": [16,16,16], "rotation": {"origin": [8,8,8], "axis": "w", "angle": 45}}]}`, ErrInvalidModel},
		{"block/bad_face", `{"elements": [{"from": [0,0,0], "to": [16,16,16], "faces": {"sideways": {"texture": "#all"}}}]}`, ErrInvalidModel},
		{"block/bad_face_rotation", `{"elements": [{"from": [0,0,0], "to": [16,16,16], "faces": {"up": {"texture": "#all", "rotation": 45}}}]}`, ErrInvalidModel},
		{"block/too_tall", `{"elements": [{"from": [0,0,0], "to": [600,16,16]}]}`, ErrInvalidModel},
		{"block/below_floor", `{"elements": [{"from": [0,-1,0], "to": [16,16,16]}]}`, ErrInvalidModel},
		{"block/far_origin", `{"elements": [{"from": [0,0,0], "to": [16,16,16], "rotation": {"origin": [8,64,8], "axis": "y", "angle": 45}}]}`, ErrInvalidModel},
		{"block/orphan", `{"parent": "block/missing"}`, ErrNotFound},
	}

	files := map[string]string{}
	for _, tt := range tests {
		files[tt.name] = tt.body
	}
	l, _ := testLoader(files, nil)

	for _, tt := range tests {
		if _, err := l.Resolve(tt.name); !errors.Is(err, tt.want) {
			t.Errorf("Resolve(%s) error = %v, want %v", tt.name, err, tt.want)
		}
	}
	if _, err := l.Resolve("block/nothing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing model error = %v, want ErrNotFound", err)
	}
}

func TestBuildPartialCube(t *testing.T) {
	l, _ := testLoader(map[string]string{
		"block/grassy": `{"parent": "block/cube_all", "textures": {"all": "block/grassy"}}`,
	}, nil)
	m, err := l.Resolve("block/grassy")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	tint := mgl32.Vec4{0.5, 0.6, 0.2, 1}
	p, err := BuildPartial(m, []mgl32.Vec4{tint})
	if err != nil {
		t.Fatalf("BuildPartial: %v", err)
	}

	if len(p.Faces) != 6 || len(p.FullFaces) != 6 {
		t.Fatalf("got %d faces and %d full faces, want 6 and 6", len(p.Faces), len(p.FullFaces))
	}
	for i, f := range p.Faces {
		dir := voxel.Directions[i]
		if f.CullFace == nil || *f.CullFace != dir || f.AOFace == nil || *f.AOFace != dir {
			t.Errorf("face %d: cull %v ao %v, want %v", i, f.CullFace, f.AOFace, dir)
		}
		if f.Texture != "minecraft:block/grassy" {
			t.Errorf("face %d texture = %q", i, f.Texture)
		}
		// Every vertex of a full face lies on the side of the unit cube it faces.
		axis, side := axisOf(dir)
		for _, v := range f.Vertices {
			if v.Position[axis] != side {
				t.Errorf("face %v vertex %v is not on its side", dir, v.Position)
			}
			for k := 0; k < 3; k++ {
				if v.Position[k] < 0 || v.Position[k] > 1 {
					t.Errorf("face %v vertex %v outside the block", dir, v.Position)
				}
			}
			if v.UV[0] < 0 || v.UV[0] > 1 || v.UV[1] < 0 || v.UV[1] > 1 {
				t.Errorf("face %v uv %v not normalized", dir, v.UV)
			}
		}
		wantColor := voxel.White
		if dir == voxel.Up {
			wantColor = tint
		}
		if f.Vertices[0].Color != wantColor {
			t.Errorf("face %v color = %v, want %v", dir, f.Vertices[0].Color, wantColor)
		}
	}

	// A tint index outside the palette stays white.
	p, err = BuildPartial(m, nil)
	if err != nil {
		t.Fatalf("BuildPartial: %v", err)
	}
	if p.Faces[0].Vertices[0].Color != voxel.White {
		t.Errorf("untinted up face color = %v", p.Faces[0].Vertices[0].Color)
	}
}

func axisOf(d voxel.Direction) (axis int, side float32) {
	v := d.Vector()
	for i, c := range v {
		if c > 0 {
			return i, 1
		}
		if c < 0 {
			return i, 0
		}
	}
	return 0, 0
}

func TestBuildPartialUnresolvedTexture(t *testing.T) {
	l, _ := testLoader(nil, nil)
	m, err := l.Resolve("block/cube")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if _, err := BuildPartial(m, nil); !errors.Is(err, ErrUnresolvedTexture) {
		t.Errorf("BuildPartial(abstract cube) error = %v, want ErrUnresolvedTexture", err)
	}
}

func TestBuildPartialRotatedElementHasNoAO(t *testing.T) {
	l, _ := testLoader(map[string]string{
		"block/plant": `{"textures": {"cross": "block/plant"}, "elements": [{"from": [0.8,0,8], "to": [15.2,16,8], "rotation": {"origin": [8,8,8], "axis": "y", "angle": 45, "rescale": true}, "faces": {"north": {"texture": "#cross"}}}]}`,
	}, nil)
	m, err := l.Resolve("block/plant")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	p, err := BuildPartial(m, nil)
	if err != nil {
		t.Fatalf("BuildPartial: %v", err)
	}
	if len(p.Faces) != 1 || p.Faces[0].AOFace != nil {
		t.Errorf("rotated element face has AO face %v", p.Faces[0].AOFace)
	}
	if len(p.FullFaces) != 0 {
		t.Errorf("rotated plane counted as a full face")
	}
}

func TestFinalizeOpacity(t *testing.T) {
	l, _ := testLoader(map[string]string{
		"block/solid":  `{"parent": "block/cube_all", "textures": {"all": "block/solid"}}`,
		"block/mixed":  `{"parent": "block/cube_all", "textures": {"all": "block/solid", "north": "block/stained"}}`,
		"block/leaves": `{"parent": "block/cube_all", "textures": {"all": "block/leaves"}}`,
		"block/carpet": `{"textures": {"all": "block/solid"}, "elements": [{"from": [0,0,0], "to": [16,1,16], "faces": {"down": {"texture": "#all", "cullface": "down"}, "up": {"texture": "#all"}}}]}`,
	}, map[string]uint8{"block/solid": 255, "block/stained": 100, "block/leaves": 0})

	tests := []struct {
		name    string
		sides   [6]voxel.Opacity
		overall voxel.Opacity
	}{
		{
			"block/solid",
			[6]voxel.Opacity{voxel.Opaque, voxel.Opaque, voxel.Opaque, voxel.Opaque, voxel.Opaque, voxel.Opaque},
			voxel.Opaque,
		},
		{
			"block/mixed",
			[6]voxel.Opacity{voxel.Opaque, voxel.Opaque, voxel.TranslucentSolid, voxel.Opaque, voxel.Opaque, voxel.Opaque},
			voxel.TranslucentSolid,
		},
		{
			"block/leaves",
			[6]voxel.Opacity{voxel.TransparentSolid, voxel.TransparentSolid, voxel.TransparentSolid, voxel.TransparentSolid, voxel.TransparentSolid, voxel.TransparentSolid},
			voxel.TransparentSolid,
		},
		{
			"block/carpet",
			[6]voxel.Opacity{},
			voxel.Transparent,
		},
	}

	for _, tt := range tests {
		r, err := Bake(l, tt.name, nil, 0, 0, false)
		if err != nil {
			t.Fatalf("Bake(%s): %v", tt.name, err)
		}
		if r.FaceOpacity != tt.sides {
			t.Errorf("%s: side opacity = %v, want %v", tt.name, r.FaceOpacity, tt.sides)
		}
		if r.Opacity != tt.overall {
			t.Errorf("%s: opacity = %v, want %v", tt.name, r.Opacity, tt.overall)
		}
	}
}

func TestFinalizeStripsAO(t *testing.T) {
	l, _ := testLoader(map[string]string{
		"block/flat": `{"parent": "block/cube_all", "ambientocclusion": false, "textures": {"all": "block/flat"}}`,
	}, nil)
	r, err := Bake(l, "block/flat", nil, 0, 0, false)
	if err != nil {
		t.Fatalf("Bake: %v", err)
	}
	for i, f := range r.Faces {
		if f.AOFace != nil {
			t.Errorf("face %d kept AO face %v", i, *f.AOFace)
		}
	}
}

func TestRotateMovesSideOpacity(t *testing.T) {
	l, _ := testLoader(map[string]string{
		"block/mixed": `{"parent": "block/cube_all", "textures": {"all": "block/solid", "north": "block/stained"}}`,
	}, map[string]uint8{"block/solid": 255, "block/stained": 100})

	r, err := Bake(l, "block/mixed", nil, 0, 90, false)
	if err != nil {
		t.Fatalf("Bake: %v", err)
	}
	if r.FaceOpacity[voxel.West] != voxel.TranslucentSolid || r.FaceOpacity[voxel.North] != voxel.Opaque {
		t.Errorf("after y=90 side opacity = %v, want the translucent side facing west", r.FaceOpacity)
	}
	for _, f := range r.Faces {
		if f.Texture == "minecraft:block/stained" && *f.CullFace != voxel.West {
			t.Errorf("stained face culls towards %v, want west", *f.CullFace)
		}
	}

	if _, err := Bake(l, "block/mixed", nil, 45, 0, false); !errors.Is(err, ErrInvalidRotation) {
		t.Errorf("Bake with x=45 error = %v, want ErrInvalidRotation", err)
	}
}

func TestRotateFullTurnRestoresPositions(t *testing.T) {
	l, _ := testLoader(map[string]string{
		"block/slab": `{"textures": {"all": "block/slab"}, "elements": [{"from": [0,0,0], "to": [16,8,12], "faces": {"up": {"texture": "#all"}, "north": {"texture": "#all", "cullface": "north"}}}]}`,
	}, nil)
	m, err := l.Resolve("block/slab")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	orig, _ := BuildPartial(m, nil)
	p, _ := BuildPartial(m, nil)
	for _, turn := range [][2]int{{90, 0}, {90, 0}, {90, 0}, {90, 0}, {0, 90}, {0, 270}, {0, 180}, {0, 180}} {
		if err := p.Rotate(turn[0], turn[1], false); err != nil {
			t.Fatalf("Rotate: %v", err)
		}
	}
	for fi := range p.Faces {
		for vi := range p.Faces[fi].Vertices {
			got, want := p.Faces[fi].Vertices[vi].Position, orig.Faces[fi].Vertices[vi].Position
			if !got.ApproxEqualThreshold(want, tolerance) {
				t.Errorf("face %d vertex %d = %v, want %v", fi, vi, got, want)
			}
		}
		if c := orig.Faces[fi].CullFace; c != nil && *p.Faces[fi].CullFace != *c {
			t.Errorf("face %d cull face did not return", fi)
		}
	}
}

func TestUVLock(t *testing.T) {
	l, _ := testLoader(map[string]string{
		"block/log": `{"parent": "block/cube_all", "textures": {"all": "block/log"}}`,
	}, nil)
	m, err := l.Resolve("block/log")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	plain, _ := BuildPartial(m, nil)
	locked, _ := BuildPartial(m, nil)
	if err := plain.Rotate(0, 90, false); err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	if err := locked.Rotate(0, 90, true); err != nil {
		t.Fatalf("Rotate: %v", err)
	}

	// The up face lies in the rotation plane and gets its UVs counter-rotated.
	up := locked.Faces[0]
	want := [4]mgl32.Vec2{{1, 1}, {0, 1}, {0, 0}, {1, 0}}
	for i, v := range up.Vertices {
		if !v.UV.ApproxEqualThreshold(want[i], tolerance) {
			t.Errorf("locked up uv %d = %v, want %v", i, v.UV, want[i])
		}
	}

	// Side faces are constant along one rotation axis and keep their UVs.
	for fi := 2; fi < 6; fi++ {
		for vi := range locked.Faces[fi].Vertices {
			if locked.Faces[fi].Vertices[vi].UV != plain.Faces[fi].Vertices[vi].UV {
				t.Errorf("side face %d uv %d changed under uvlock", fi, vi)
			}
		}
	}
}

func TestBakeBuiltinPack(t *testing.T) {
	textures := texture.NewRegistry(assets.Builtin())
	l := NewLoader(assets.Builtin(), textures)
	grass, _ := voxel.NewDescriptorTable().Lookup("grass_block")

	r, err := Bake(l, "block/grass_block", grass.TintColors(), 0, 0, false)
	if err != nil {
		t.Fatalf("Bake(grass_block): %v", err)
	}
	for _, d := range voxel.Directions {
		if r.FaceOpacity[d] != voxel.Opaque {
			t.Errorf("grass_block %v opacity = %v, want opaque", d, r.FaceOpacity[d])
		}
	}
	if r.Tints != 1 {
		t.Errorf("grass_block tints = %d, want 1", r.Tints)
	}
	// Base cube plus the four overlay sides.
	if len(r.Faces) != 10 {
		t.Errorf("grass_block has %d faces, want 10", len(r.Faces))
	}

	cross, err := Bake(l, "block/short_grass", grass.TintColors(), 0, 0, false)
	if err != nil {
		t.Fatalf("Bake(short_grass): %v", err)
	}
	if cross.Opacity != voxel.Transparent {
		t.Errorf("short_grass opacity = %v, want transparent", cross.Opacity)
	}
	for _, f := range cross.Faces {
		if f.AOFace != nil {
			t.Error("short_grass face has an AO face")
		}
	}

	glass, err := Bake(l, "block/glass", nil, 0, 0, false)
	if err != nil {
		t.Fatalf("Bake(glass): %v", err)
	}
	if glass.Opacity == voxel.Opaque {
		t.Error("glass baked as opaque")
	}
}
