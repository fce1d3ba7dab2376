// Package renderer draws the simulation as a 3D scene viewed from above.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/predprey/camera"
)

// Entity colors
var (
	PredatorColor = rl.NewColor(230, 41, 55, 255)
	PreyColor     = rl.NewColor(0, 121, 241, 255)
	TargetColor   = rl.NewColor(253, 249, 0, 255)
)

// Cube is one entity to draw.
type Cube struct {
	X, Y, Z float32
	Size    float32
	Color   rl.Color
	Outline bool
}

// Scene renders cubes through a camera rig.
type Scene struct {
	rig        *camera.Rig
	background rl.Color
}

// NewScene creates a scene viewed through rig.
func NewScene(rig *camera.Rig) *Scene {
	return &Scene{rig: rig, background: rl.Black}
}

// Camera converts the rig to a raylib camera looking down the -z axis.
func (s *Scene) Camera() rl.Camera3D {
	x, y, z := s.rig.Eye()
	return rl.Camera3D{
		Position:   rl.NewVector3(x, y, z),
		Target:     rl.NewVector3(x, y, 0),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       s.rig.FOV,
		Projection: rl.CameraPerspective,
	}
}

// Draw clears the frame and draws every visible cube.
func (s *Scene) Draw(cubes []Cube) {
	rl.ClearBackground(s.background)

	rl.BeginMode3D(s.Camera())
	for _, c := range cubes {
		if !s.rig.Contains(c.X, c.Y, c.Size) {
			continue
		}
		pos := rl.NewVector3(c.X, c.Y, c.Z)
		rl.DrawCube(pos, c.Size, c.Size, c.Size, c.Color)
		if c.Outline {
			rl.DrawCubeWires(pos, c.Size*1.2, c.Size*1.2, c.Size*1.2, TargetColor)
		}
	}
	rl.EndMode3D()
}

// FadeByPoints scales a color's alpha by the remaining share of points.
func FadeByPoints(c rl.Color, points, full float32) rl.Color {
	share := float32(1)
	if full > 0 {
		share = points / full
	}
	if share < 0.15 {
		share = 0.15
	}
	if share > 1 {
		share = 1
	}
	c.A = uint8(float32(c.A) * share)
	return c
}
