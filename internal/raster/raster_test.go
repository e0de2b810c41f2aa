package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"filter-portal/internal/camera"
)

func TestRenderQuadCoversCenter(t *testing.T) {
	s := &Scene{Background: color.NRGBA{A: 255}, Light: mgl64.Vec3{0, 0, 1}, Ambient: 1}
	red := color.NRGBA{R: 255, A: 255}
	s.AddQuad(mgl64.Vec3{-1, 1, 0}, mgl64.Vec3{1, 1, 0}, mgl64.Vec3{1, -1, 0}, mgl64.Vec3{-1, -1, 0}, red, nil)

	img := Render(s, camera.LookAt(mgl64.Vec3{0, 0, 5}, mgl64.Vec3{}), 64, 48)
	if c := img.NRGBAAt(32, 24); c != red {
		t.Errorf("center = %v, want %v", c, red)
	}
	if c := img.NRGBAAt(0, 0); c != s.Background {
		t.Errorf("corner = %v, want background", c)
	}
}

func TestRenderDepthOrder(t *testing.T) {
	s := &Scene{Light: mgl64.Vec3{0, 0, 1}, Ambient: 1}
	far := color.NRGBA{B: 255, A: 255}
	near := color.NRGBA{G: 255, A: 255}
	// Near quad first so the depth test, not draw order, decides.
	s.AddQuad(mgl64.Vec3{-0.5, 0.5, 1}, mgl64.Vec3{0.5, 0.5, 1}, mgl64.Vec3{0.5, -0.5, 1}, mgl64.Vec3{-0.5, -0.5, 1}, near, nil)
	s.AddQuad(mgl64.Vec3{-2, 2, -1}, mgl64.Vec3{2, 2, -1}, mgl64.Vec3{2, -2, -1}, mgl64.Vec3{-2, -2, -1}, far, nil)

	img := Render(s, camera.LookAt(mgl64.Vec3{0, 0, 5}, mgl64.Vec3{}), 64, 64)
	if c := img.NRGBAAt(32, 32); c != near {
		t.Errorf("center = %v, want near face", c)
	}
	if c := img.NRGBAAt(32, 16); c != far {
		t.Errorf("edge = %v, want far face", c)
	}
}

func TestRenderClipsBehindCamera(t *testing.T) {
	s := &Scene{Light: mgl64.Vec3{0, 1, 0}, Ambient: 1}
	floor := color.NRGBA{R: 10, G: 200, B: 10, A: 255}
	// A floor quad reaching far behind the camera.
	s.AddQuad(mgl64.Vec3{-5, 0, -20}, mgl64.Vec3{5, 0, -20}, mgl64.Vec3{5, 0, 20}, mgl64.Vec3{-5, 0, 20}, floor, nil)

	img := Render(s, camera.LookAt(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0.5, -2}), 40, 40)
	if c := img.NRGBAAt(20, 38); c != floor {
		t.Errorf("floor below horizon = %v", c)
	}
	if c := img.NRGBAAt(20, 1); c == floor {
		t.Error("floor drawn above the horizon")
	}
}

func TestRenderTexturedWall(t *testing.T) {
	tex := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	tex.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	tex.SetNRGBA(1, 0, color.NRGBA{R: 255, A: 255})
	tex.SetNRGBA(0, 1, color.NRGBA{B: 255, A: 255})
	tex.SetNRGBA(1, 1, color.NRGBA{B: 255, A: 255})

	s := &Scene{Light: mgl64.Vec3{0, 0, 1}, Ambient: 1}
	s.AddQuad(mgl64.Vec3{-1, 1, 0}, mgl64.Vec3{1, 1, 0}, mgl64.Vec3{1, -1, 0}, mgl64.Vec3{-1, -1, 0}, color.NRGBA{}, tex)
	img := Render(s, camera.LookAt(mgl64.Vec3{0, 0, 3}, mgl64.Vec3{}), 60, 60)

	top := img.NRGBAAt(30, 22)
	bottom := img.NRGBAAt(30, 38)
	if top.R <= top.B || bottom.B <= bottom.R {
		t.Errorf("texture upside down: top %v bottom %v", top, bottom)
	}
}

func TestDefaultRoomFillsView(t *testing.T) {
	room := DefaultRoom()
	img := Render(room.Scene(), camera.LookAt(mgl64.Vec3{0, 1.4, 2}, mgl64.Vec3{0, 1.4, 0}), 45, 80)
	for _, p := range []image.Point{{0, 0}, {44, 0}, {22, 40}, {0, 79}, {44, 79}} {
		if c := img.NRGBAAt(p.X, p.Y); c == (color.NRGBA{A: 255}) {
			t.Errorf("pixel %v shows background inside a closed room", p)
		}
	}
}

func TestSampleTextureClampAndWrap(t *testing.T) {
	tex := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	tex.SetNRGBA(0, 0, color.NRGBA{R: 0, A: 255})
	tex.SetNRGBA(1, 0, color.NRGBA{R: 200, A: 255})

	if r, _, _, _ := SampleTexture(tex, 1.5, 0, false); r != 200 {
		t.Errorf("clamped r = %d", r)
	}
	if r, _, _, _ := SampleTexture(tex, 1.5, 0, true); r != 100 {
		t.Errorf("wrapped r = %d", r)
	}
}
