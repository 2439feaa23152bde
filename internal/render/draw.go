// Package render draws a scene.Scene with raylib. It reads the graph and never mutates it.
package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"studio-emulator/internal/camera"
	"studio-emulator/internal/scene"
)

// Renderer draws scenes. Call from the main goroutine only, between BeginDrawing and EndDrawing.
type Renderer struct {
	reg *Registry
}

// New returns a renderer. GPU resources are created on first draw.
func New() *Renderer {
	return &Renderer{reg: NewRegistry()}
}

// Draw clears to the scene background and draws the grid and every visible node from the given
// camera pose.
func (r *Renderer) Draw(sc *scene.Scene, pose camera.Pose, fovy float32) {
	env := sc.Env
	rl.ClearBackground(rl.NewColor(env.Background.R, env.Background.G, env.Background.B, 255))

	cam := rl.Camera3D{
		Position:   vec3(pose.Position),
		Target:     vec3(pose.Target),
		Up:         vec3(pose.Up),
		Fovy:       fovy,
		Projection: rl.CameraPerspective,
	}
	rl.BeginMode3D(cam)
	r.reg.setFrameUniforms(env, pose.Position)
	if env.GridVisible {
		drawGrid(env)
	}
	sc.Root.Walk(func(n *scene.Node, world mgl32.Mat4) bool {
		switch n.Shape {
		case scene.ShapeBox, scene.ShapePlane:
			r.reg.drawNode(n, world)
		case scene.ShapeOutline:
			drawOutline(n, world)
		}
		return true
	})
	rl.EndMode3D()
}

// drawOutline draws a wire box. Outlines only follow their item's yaw.
func drawOutline(n *scene.Node, world mgl32.Mat4) {
	t := world.Col(3)
	rl.PushMatrix()
	rl.Translatef(t.X(), t.Y(), t.Z())
	rl.Rotatef(mgl32.RadToDeg(n.Rotation.Y()), 0, 1, 0)
	rl.DrawCubeWiresV(rl.Vector3{}, vec3(n.Size), rl.NewColor(n.Color.R, n.Color.G, n.Color.B, n.Color.A))
	rl.PopMatrix()
}

// Close releases GPU resources. It is safe to call more than once.
func (r *Renderer) Close() {
	r.reg.Close()
}

func vec3(v mgl32.Vec3) rl.Vector3 {
	return rl.NewVector3(v.X(), v.Y(), v.Z())
}
