package voxel

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Descriptor is the declarative record describing one block type. New block types are
// entries in a descriptor table rather than new Go types.
type Descriptor struct {
	Name string
	// Properties holds the default property values of the block, written the way
	// block-state conditions write them ("true", "3", "y").
	Properties map[string]string
	// OpaqueCube marks blocks whose model must hide every neighbor face
	OpaqueCube bool
	// Translucent blocks are drawn after all opaque geometry
	Translucent bool
	// Tints is the palette referenced by face tint indices, as 0xRRGGBB.
	Tints []uint32
}

// TintColors returns the tint palette as RGBA colors
func (d Descriptor) TintColors() []mgl32.Vec4 {
	colors := make([]mgl32.Vec4, len(d.Tints))
	for i, t := range d.Tints {
		colors[i] = RGB(t)
	}
	return colors
}

// RGB converts a 0xRRGGBB value to an opaque color
func RGB(hex uint32) mgl32.Vec4 {
	return mgl32.Vec4{
		float32((hex>>16)&0xFF) / 255,
		float32((hex>>8)&0xFF) / 255,
		float32(hex&0xFF) / 255,
		1,
	}
}

// White is the untinted face color
var White = mgl32.Vec4{1, 1, 1, 1}

// GrassTint is the fixed tint grass faces carry before biome blending
const GrassTint uint32 = 0x6D9930

// builtinDescriptors returns the block types of the built-in pack
func builtinDescriptors() []Descriptor {
	return []Descriptor{
		{Name: "air"},
		{Name: "dirt", Properties: map[string]string{"snowy": "false"}, OpaqueCube: true},
		{
			Name:       "grass_block",
			Properties: map[string]string{"snowy": "false"},
			OpaqueCube: true,
			Tints:      []uint32{GrassTint},
		},
		{Name: "stone", OpaqueCube: true},
		{Name: "glass", Translucent: true},
		{Name: "black_stained_glass", Translucent: true},
		{Name: "oak_log", Properties: map[string]string{"axis": "y"}, OpaqueCube: true},
		{Name: "crafting_table", OpaqueCube: true},
		{Name: "short_grass", Tints: []uint32{GrassTint}},
	}
}

// DescriptorTable maps block names to descriptors. It is built once at startup and
// only read afterwards.
type DescriptorTable struct {
	byName map[string]Descriptor
}

// NewDescriptorTable creates a table of the built-in block types. Descriptors in extra
// are added after them, replacing built-ins of the same name.
func NewDescriptorTable(extra ...Descriptor) *DescriptorTable {
	t := &DescriptorTable{byName: make(map[string]Descriptor)}
	for _, d := range builtinDescriptors() {
		t.byName[d.Name] = d
	}
	for _, d := range extra {
		t.byName[d.Name] = d
	}
	return t
}

// Lookup returns the descriptor of a block name. A nil table holds nothing.
func (t *DescriptorTable) Lookup(name string) (Descriptor, bool) {
	if t == nil {
		return Descriptor{}, false
	}
	d, ok := t.byName[name]
	return d, ok
}

// Len returns the number of block types in the table
func (t *DescriptorTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.byName)
}

// WithProperties returns a copy of d whose properties are the defaults overridden by props
func (d Descriptor) WithProperties(props map[string]string) Descriptor {
	merged := make(map[string]string, len(d.Properties)+len(props))
	for k, v := range d.Properties {
		merged[k] = v
	}
	for k, v := range props {
		merged[k] = v
	}
	d.Properties = merged
	return d
}
