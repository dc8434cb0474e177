package render

import (
	"math"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/blockmodels/pkg/config"
)

// KeySource reports the state of a keyboard key
type KeySource interface {
	GetKeyState(key glfw.Key) glfw.Action
}

// Camera implements a fly camera for navigating the world
type Camera struct {
	// Position and orientation
	position mgl32.Vec3
	worldUp  mgl32.Vec3
	front    mgl32.Vec3
	up       mgl32.Vec3
	right    mgl32.Vec3

	// Euler angles
	yaw   float32
	pitch float32

	fov         float32
	maxFOV      float32
	moveSpeed   float32
	rotateSpeed float32

	// Mouse state
	lastX      float64
	lastY      float64
	firstMouse bool

	projection mgl32.Mat4
	width      int
	height     int
}

// NewCamera creates a camera at position facing -Z
func NewCamera(position mgl32.Vec3) *Camera {
	camera := &Camera{
		position:    position,
		worldUp:     mgl32.Vec3{0, 1, 0},
		front:       mgl32.Vec3{0, 0, -1},
		yaw:         DefaultYaw,
		pitch:       DefaultPitch,
		fov:         DefaultFOV,
		maxFOV:      DefaultFOV,
		moveSpeed:   DefaultMoveSpeed,
		rotateSpeed: DefaultRotateSpeed,
		firstMouse:  true,
		width:       800,
		height:      600,
	}
	camera.updateCameraVectors()
	camera.updateProjectionMatrix()
	return camera
}

// NewCameraFromConfig places the camera as configured and points it at the look-at target
func NewCameraFromConfig(cfg config.Camera, width, height int) *Camera {
	c := NewCamera(mgl32.Vec3(cfg.Position))
	if cfg.FOV > 0 {
		c.fov = cfg.FOV
		c.maxFOV = max(cfg.FOV, DefaultFOV)
	}
	if cfg.MoveSpeed > 0 {
		c.moveSpeed = cfg.MoveSpeed
	}
	if cfg.RotateSpeed > 0 {
		c.rotateSpeed = cfg.RotateSpeed
	}
	if target := mgl32.Vec3(cfg.LookAt); target != c.position {
		c.LookAt(target)
	}
	c.UpdateProjectionMatrix(width, height)
	return c
}

// updateCameraVectors recalculates camera vectors based on Euler angles
func (c *Camera) updateCameraVectors() {
	yaw, pitch := float64(mgl32.DegToRad(c.yaw)), float64(mgl32.DegToRad(c.pitch))
	front := mgl32.Vec3{
		float32(math.Cos(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(math.Sin(yaw) * math.Cos(pitch)),
	}
	c.front = front.Normalize()

	c.right = c.front.Cross(c.worldUp).Normalize()
	c.up = c.right.Cross(c.front).Normalize()
}

func (c *Camera) updateProjectionMatrix() {
	aspect := float32(c.width) / float32(max(c.height, 1))
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.fov), aspect, 0.1, 1000.0)
}

// UpdateProjectionMatrix updates the projection matrix with new dimensions
func (c *Camera) UpdateProjectionMatrix(width, height int) {
	c.width = width
	c.height = height
	c.updateProjectionMatrix()
}

// ViewMatrix returns the current view matrix
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.position, c.position.Add(c.front), c.up)
}

// ProjectionMatrix returns the current projection matrix
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return c.projection
}

// Frustum returns the view frustum for the current position and projection
func (c *Camera) Frustum() Frustum {
	return ExtractFrustum(c.projection.Mul4(c.ViewMatrix()))
}

// Position returns the current camera position
func (c *Camera) Position() mgl32.Vec3 {
	return c.position
}

// Orientation returns the current camera orientation (yaw, pitch)
func (c *Camera) Orientation() (yaw, pitch float32) {
	return c.yaw, c.pitch
}

// SetRotation sets the camera rotation angles in degrees
func (c *Camera) SetRotation(yaw, pitch float32) {
	c.yaw = yaw
	c.pitch = mgl32.Clamp(pitch, MinPitch, MaxPitch)
	c.updateCameraVectors()
}

// LookAt makes the camera look at a specific point
func (c *Camera) LookAt(target mgl32.Vec3) {
	direction := target.Sub(c.position).Normalize()

	yaw := mgl32.RadToDeg(float32(math.Atan2(float64(direction.Z()), float64(direction.X()))))
	pitch := mgl32.RadToDeg(float32(math.Asin(float64(direction.Y()))))
	c.SetRotation(yaw, pitch)
}

// FrontVector returns the camera's front direction vector
func (c *Camera) FrontVector() mgl32.Vec3 {
	return c.front
}

// ProcessKeyboardInput moves the camera with WASD, Space and left Shift
func (c *Camera) ProcessKeyboardInput(deltaTime float32, keys KeySource) {
	speed := c.moveSpeed * deltaTime

	if keys.GetKeyState(KeyW) == Press {
		c.position = c.position.Add(c.front.Mul(speed))
	}
	if keys.GetKeyState(KeyS) == Press {
		c.position = c.position.Sub(c.front.Mul(speed))
	}

	if keys.GetKeyState(KeyA) == Press {
		c.position = c.position.Sub(c.right.Mul(speed))
	}
	if keys.GetKeyState(KeyD) == Press {
		c.position = c.position.Add(c.right.Mul(speed))
	}

	if keys.GetKeyState(KeySpace) == Press {
		c.position = c.position.Add(c.worldUp.Mul(speed))
	}
	if keys.GetKeyState(KeyLeftShift) == Press {
		c.position = c.position.Sub(c.worldUp.Mul(speed))
	}
}

// HandleMouseMovement updates camera orientation based on mouse movement
func (c *Camera) HandleMouseMovement(xpos, ypos float64) {
	if c.firstMouse {
		c.lastX = xpos
		c.lastY = ypos
		c.firstMouse = false
		return
	}

	// y ranges bottom to top
	xoffset := float32(xpos-c.lastX) * c.rotateSpeed
	yoffset := float32(c.lastY-ypos) * c.rotateSpeed
	c.lastX = xpos
	c.lastY = ypos

	c.SetRotation(c.yaw+xoffset, c.pitch+yoffset)
}

// HandleMouseScroll zooms by narrowing the field of view
func (c *Camera) HandleMouseScroll(yoffset float64) {
	c.fov = mgl32.Clamp(c.fov-float32(yoffset), MinFOV, c.maxFOV)
	c.updateProjectionMatrix()
}

// ResetMouseState resets the first-mouse flag for smooth camera control
func (c *Camera) ResetMouseState() {
	c.firstMouse = true
}
