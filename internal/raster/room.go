package raster

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// Room is a box-shaped room with the floor at y = 0, centered on the
// origin in X and Z.
type Room struct {
	Width, Depth, Height float64
	// Photo, when set, is stretched over the back wall (z = -Depth/2).
	Photo *image.NRGBA
}

// DefaultRoom returns a 6 × 8 × 3 m room.
func DefaultRoom() Room {
	return Room{Width: 6, Depth: 8, Height: 3}
}

var (
	floorLight = color.NRGBA{R: 196, G: 170, B: 132, A: 255}
	floorDark  = color.NRGBA{R: 120, G: 94, B: 70, A: 255}
	backWall   = color.NRGBA{R: 70, G: 120, B: 200, A: 255}
	frontWall  = color.NRGBA{R: 220, G: 120, B: 60, A: 255}
	leftWall   = color.NRGBA{R: 90, G: 170, B: 90, A: 255}
	rightWall  = color.NRGBA{R: 230, G: 200, B: 70, A: 255}
	ceiling    = color.NRGBA{R: 235, G: 235, B: 230, A: 255}
	crate      = color.NRGBA{R: 200, G: 50, B: 60, A: 255}
)

// floorTiles is the checkerboard resolution along each floor axis.
const floorTiles = 8

// Scene builds the room's faces.
func (r Room) Scene() *Scene {
	hw, hd, h := r.Width/2, r.Depth/2, r.Height
	s := &Scene{
		Background: color.NRGBA{A: 255},
		Light:      mgl64.Vec3{0.3, 1, 0.5},
		Ambient:    0.55,
	}

	tw, td := r.Width/floorTiles, r.Depth/floorTiles
	for i := 0; i < floorTiles; i++ {
		for j := 0; j < floorTiles; j++ {
			x0, z0 := -hw+float64(i)*tw, -hd+float64(j)*td
			col := floorLight
			if (i+j)%2 == 1 {
				col = floorDark
			}
			s.AddQuad(
				mgl64.Vec3{x0, 0, z0}, mgl64.Vec3{x0 + tw, 0, z0},
				mgl64.Vec3{x0 + tw, 0, z0 + td}, mgl64.Vec3{x0, 0, z0 + td},
				col, nil,
			)
		}
	}

	s.AddQuad(mgl64.Vec3{-hw, h, -hd}, mgl64.Vec3{hw, h, -hd}, mgl64.Vec3{hw, 0, -hd}, mgl64.Vec3{-hw, 0, -hd}, backWall, r.Photo)
	s.AddQuad(mgl64.Vec3{hw, h, hd}, mgl64.Vec3{-hw, h, hd}, mgl64.Vec3{-hw, 0, hd}, mgl64.Vec3{hw, 0, hd}, frontWall, nil)
	s.AddQuad(mgl64.Vec3{-hw, h, hd}, mgl64.Vec3{-hw, h, -hd}, mgl64.Vec3{-hw, 0, -hd}, mgl64.Vec3{-hw, 0, hd}, leftWall, nil)
	s.AddQuad(mgl64.Vec3{hw, h, -hd}, mgl64.Vec3{hw, h, hd}, mgl64.Vec3{hw, 0, hd}, mgl64.Vec3{hw, 0, -hd}, rightWall, nil)
	s.AddQuad(mgl64.Vec3{-hw, h, hd}, mgl64.Vec3{hw, h, hd}, mgl64.Vec3{hw, h, -hd}, mgl64.Vec3{-hw, h, -hd}, ceiling, nil)

	s.AddBox(mgl64.Vec3{-hw + 0.5, 0, -hd + 0.5}, mgl64.Vec3{-hw + 1.3, 0.8, -hd + 1.3}, crate)
	return s
}

// AddBox appends an axis-aligned box.
func (s *Scene) AddBox(lo, hi mgl64.Vec3, col color.NRGBA) {
	c := func(x, y, z int) mgl64.Vec3 {
		pick := func(i int, a, b float64) float64 {
			if i == 0 {
				return a
			}
			return b
		}
		return mgl64.Vec3{pick(x, lo.X(), hi.X()), pick(y, lo.Y(), hi.Y()), pick(z, lo.Z(), hi.Z())}
	}
	s.AddQuad(c(0, 1, 1), c(1, 1, 1), c(1, 0, 1), c(0, 0, 1), col, nil) // +Z
	s.AddQuad(c(1, 1, 0), c(0, 1, 0), c(0, 0, 0), c(1, 0, 0), col, nil) // -Z
	s.AddQuad(c(0, 1, 0), c(0, 1, 1), c(0, 0, 1), c(0, 0, 0), col, nil) // -X
	s.AddQuad(c(1, 1, 1), c(1, 1, 0), c(1, 0, 0), c(1, 0, 1), col, nil) // +X
	s.AddQuad(c(0, 1, 0), c(1, 1, 0), c(1, 1, 1), c(0, 1, 1), col, nil) // top
}
