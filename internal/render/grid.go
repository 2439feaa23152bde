package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"studio-emulator/internal/scene"
)

// drawGrid draws a square grid on the XZ plane (Y=0) centered on the origin. The two lines through
// the origin use GridCenter, the rest GridLines.
// Reuses start/end vectors to avoid per-frame allocations in the hot loop.
func drawGrid(env scene.Environment) {
	if env.GridDivisions <= 0 || env.GridSize <= 0 {
		return
	}
	half := env.GridSize / 2
	step := env.GridSize / float32(env.GridDivisions)
	center := rl.NewColor(env.GridCenter.R, env.GridCenter.G, env.GridCenter.B, env.GridCenter.A)
	lines := rl.NewColor(env.GridLines.R, env.GridLines.G, env.GridLines.B, env.GridLines.A)

	var start, end rl.Vector3
	for i := 0; i <= env.GridDivisions; i++ {
		k := -half + float32(i)*step
		c := lines
		if 2*i == env.GridDivisions {
			c = center
		}
		start.X, start.Y, start.Z = k, 0, -half
		end.X, end.Y, end.Z = k, 0, half
		rl.DrawLine3D(start, end, c)
		start.X, start.Y, start.Z = -half, 0, k
		end.X, end.Y, end.Z = half, 0, k
		rl.DrawLine3D(start, end, c)
	}
}
