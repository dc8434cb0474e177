package render

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Key constants for keyboard input
const (
	KeyW         = glfw.KeyW
	KeyA         = glfw.KeyA
	KeyS         = glfw.KeyS
	KeyD         = glfw.KeyD
	KeySpace     = glfw.KeySpace
	KeyLeftShift = glfw.KeyLeftShift
	KeyEscape    = glfw.KeyEscape
	KeyC         = glfw.KeyC
	KeyF         = glfw.KeyF
)

// Action constants for key states
const (
	Press   = glfw.Press
	Release = glfw.Release
	Repeat  = glfw.Repeat
)

// Camera constants
const (
	DefaultMoveSpeed   = 10.0
	DefaultRotateSpeed = 0.1

	// Facing -Z
	DefaultYaw   = -90.0
	DefaultPitch = 0.0

	DefaultFOV = 45.0
	MinFOV     = 1.0

	MaxPitch = 89.0
	MinPitch = -89.0
)

// Reach is how far away in blocks the viewer can edit
const Reach = 8.0
