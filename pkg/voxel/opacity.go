package voxel

// Opacity classifies how much a block face hides what is behind it. The order matters:
// culling and AO take the maximum observed value.
type Opacity uint8

const (
	Transparent Opacity = iota
	TranslucentSolid
	TransparentSolid
	Opaque
)

// IsOpaque reports whether nothing behind the face can be seen
func (o Opacity) IsOpaque() bool {
	return o == Opaque
}

// IsSolid reports whether the face has any geometry at all
func (o Opacity) IsSolid() bool {
	return o != Transparent
}

// OpacityFromAlpha classifies a texture by its minimum alpha value
func OpacityFromAlpha(minAlpha uint8) Opacity {
	switch minAlpha {
	case 0:
		return TransparentSolid
	case 255:
		return Opaque
	default:
		return TranslucentSolid
	}
}

func (o Opacity) String() string {
	switch o {
	case Transparent:
		return "transparent"
	case TranslucentSolid:
		return "translucent-solid"
	case TransparentSolid:
		return "transparent-solid"
	case Opaque:
		return "opaque"
	default:
		return "unknown"
	}
}
