package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/hexbounce/internal/geom"
	"github.com/san-kum/hexbounce/internal/physics"
)

const outlineThick = 3

func vec(p geom.Vec2) rl.Vector2 {
	return rl.NewVector2(float32(p[0]), float32(p[1]))
}

func bodyColor(c physics.Color) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, 255)
}

// drawContainer fills the polygon as a triangle fan from its origin and
// strokes the outline.
func (a *App) drawContainer() {
	c := a.world.Container
	n := len(c.Vertices)
	if n < 3 {
		return
	}
	center := vec(c.Origin())
	for i := 0; i < n; i++ {
		p1, p2 := vec(c.Vertices[i]), vec(c.Vertices[(i+1)%n])
		// raylib wants counter-clockwise on screen; y points down.
		rl.DrawTriangle(center, p2, p1, ColHexFill)
	}
	for i := 0; i < n; i++ {
		rl.DrawLineEx(vec(c.Vertices[i]), vec(c.Vertices[(i+1)%n]), outlineThick, ColHex)
	}
}

func (a *App) drawBodies() {
	for _, b := range a.world.Bodies {
		rl.DrawCircleV(vec(b.Pos), float32(b.Radius), bodyColor(b.Color))
	}
}
