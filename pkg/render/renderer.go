package render

import (
	"embed"
	"fmt"
	"log"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/blockmodels/internal/openglhelper"
	"github.com/leterax/blockmodels/pkg/game"
	"github.com/leterax/blockmodels/pkg/voxel"
)

//go:embed shaders
var shaderFS embed.FS

var skyColor = mgl32.Vec4{0.62, 0.76, 1.0, 1.0}

// Renderer runs the viewer: it draws the meshed world, moves the camera and applies block
// edits made with the mouse
type Renderer struct {
	window *openglhelper.Window
	camera *Camera
	shader *openglhelper.Shader
	chunks *ChunkBufferManager
	app    *game.App

	// Timing
	lastFrameTime float64
	deltaTime     float32
	frames        int
	statsTime     float64

	// Block placed with the right mouse button
	selected voxel.BlockState
	culling  bool
}

// NewRenderer opens the configured window and uploads the meshes of app's world
func NewRenderer(app *game.App) (*Renderer, error) {
	cfg := app.Config
	window, err := openglhelper.NewWindow(cfg.Window)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	shader, err := openglhelper.LoadShaderFS(shaderFS, "shaders/chunk.vert", "shaders/chunk.frag")
	if err != nil {
		window.Close()
		return nil, fmt.Errorf("failed to load shader: %w", err)
	}

	fbWidth, fbHeight := window.FramebufferSize()
	renderer := &Renderer{
		window:   window,
		camera:   NewCameraFromConfig(cfg.Camera, fbWidth, fbHeight),
		shader:   shader,
		chunks:   NewChunkBufferManager(app.Textures),
		app:      app,
		selected: 1,
		culling:  true,
	}

	window.GLFWWindow().SetKeyCallback(renderer.keyCallback)
	window.GLFWWindow().SetCursorPosCallback(renderer.cursorPosCallback)
	window.GLFWWindow().SetMouseButtonCallback(renderer.mouseButtonCallback)
	window.GLFWWindow().SetScrollCallback(renderer.scrollCallback)
	window.GLFWWindow().SetFramebufferSizeCallback(renderer.framebufferSizeCallback)

	renderer.syncChunks()
	return renderer, nil
}

// syncChunks re-uploads the world's meshes when a mesh pass has replaced them
func (r *Renderer) syncChunks() {
	if !r.app.World.HaveChunksChanged() {
		return
	}
	r.chunks.Sync(r.app.World.Columns())
}

// render draws one frame
func (r *Renderer) render() (drawn, culled int) {
	r.window.Clear(skyColor)

	r.shader.Use()
	r.shader.SetMat4("viewProjection", r.camera.ProjectionMatrix().Mul4(r.camera.ViewMatrix()))
	r.shader.SetVec3("viewPos", r.camera.Position())
	r.shader.SetInt("blockTexture", 0)
	r.shader.SetVec4("fogColor", skyColor)

	// Fog hides the edge of the generated square
	edge := float32(r.app.Config.World.Radius*voxel.ChunkSize + voxel.ChunkSize)
	r.shader.SetFloat("fogStart", edge*0.6)
	r.shader.SetFloat("fogEnd", edge*1.2)

	frustum := Frustum{}
	if r.culling {
		frustum = r.camera.Frustum()
	}
	return r.chunks.Render(frustum)
}

// Run starts the main rendering loop and releases all resources once the window closes
func (r *Renderer) Run() {
	r.lastFrameTime = glfw.GetTime()
	r.statsTime = r.lastFrameTime

	for !r.window.ShouldClose() {
		currentTime := glfw.GetTime()
		r.deltaTime = float32(currentTime - r.lastFrameTime)
		r.lastFrameTime = currentTime

		r.camera.ProcessKeyboardInput(r.deltaTime, r.window)
		r.syncChunks()
		drawn, culled := r.render()

		r.frames++
		if currentTime-r.statsTime >= 5 {
			log.Printf("%.1f fps, %d chunks drawn, %d culled", float64(r.frames)/(currentTime-r.statsTime), drawn, culled)
			r.frames = 0
			r.statsTime = currentTime
		}

		r.window.SwapBuffers()
		r.window.PollEvents()
	}

	r.Cleanup()
}

// Cleanup frees all resources
func (r *Renderer) Cleanup() {
	r.chunks.Cleanup()
	r.shader.Delete()
	r.window.Close()
}

// edit breaks the block under the crosshair, or places the selected block in front of it
func (r *Renderer) edit(place bool) {
	hit, ok := r.app.World.Raycast(r.camera.Position(), r.camera.FrontVector(), Reach)
	if !ok {
		return
	}
	x, y, z, state := hit.X, hit.Y, hit.Z, voxel.AirState
	if place {
		x, y, z = hit.Adjacent()
		state = r.selected
	}
	if err := r.app.PlaceBlock(x, y, z, state); err != nil {
		log.Printf("Failed to edit block at %d,%d,%d: %v", x, y, z, err)
	}
}

// Callback functions
func (r *Renderer) keyCallback(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	switch {
	case key == KeyEscape:
		r.window.RequestClose()
	case key == KeyC:
		r.window.ToggleMouseCaptured()
		r.camera.ResetMouseState()
	case key == KeyF:
		r.culling = !r.culling
		log.Printf("Frustum culling: %v", r.culling)
	case key >= glfw.Key1 && key <= glfw.Key9:
		state := voxel.BlockState(key - glfw.Key0)
		name, _, err := r.app.Blocks.Lookup(state)
		if err != nil {
			log.Printf("No block with id %d", state)
			return
		}
		r.selected = state
		log.Printf("Selected %s", name)
	}
}

func (r *Renderer) cursorPosCallback(_ *glfw.Window, xpos, ypos float64) {
	if r.window.IsMouseCaptured() {
		r.camera.HandleMouseMovement(xpos, ypos)
	}
}

func (r *Renderer) mouseButtonCallback(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	if action != glfw.Press || !r.window.IsMouseCaptured() {
		return
	}
	switch button {
	case glfw.MouseButtonLeft:
		r.edit(false)
	case glfw.MouseButtonRight:
		r.edit(true)
	}
}

func (r *Renderer) scrollCallback(_ *glfw.Window, _, yoffset float64) {
	r.camera.HandleMouseScroll(yoffset)
}

func (r *Renderer) framebufferSizeCallback(_ *glfw.Window, width, height int) {
	r.window.OnResize(width, height)
	r.camera.UpdateProjectionMatrix(width, height)
}
