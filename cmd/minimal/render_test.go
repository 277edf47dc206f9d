package main

import (
	"context"
	"testing"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/lightfold/raykit/rtkernel"
)

func TestSplitTilesCoverImage(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		size          int
		count         int
	}{
		{"exact fit", 128, 128, 64, 4},
		{"ragged right edge", 100, 64, 64, 2},
		{"ragged both edges", 100, 100, 64, 4},
		{"single tile", 32, 32, 64, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tiles := splitTiles(tt.width, tt.height, tt.size)
			if len(tiles) != tt.count {
				t.Fatalf("got %d tiles, want %d", len(tiles), tt.count)
			}

			covered := 0
			for _, tl := range tiles {
				if tl.x1 <= tl.x0 || tl.y1 <= tl.y0 {
					t.Errorf("degenerate tile %+v", tl)
				}
				if tl.x1 > tt.width || tl.y1 > tt.height {
					t.Errorf("tile %+v exceeds image", tl)
				}
				covered += (tl.x1 - tl.x0) * (tl.y1 - tl.y0)
			}
			if covered != tt.width*tt.height {
				t.Errorf("tiles cover %d pixels, want %d", covered, tt.width*tt.height)
			}
		})
	}
}

func TestCameraRaysUnitLength(t *testing.T) {
	cam := newCamera(DefaultConfig().Camera, 64, 64)

	for _, px := range [][2]int{{0, 0}, {63, 0}, {0, 63}, {63, 63}, {32, 32}} {
		d := cam.rayDir(px[0], px[1])
		length := math32.Sqrt(d[0]*d[0] + d[1]*d[1] + d[2]*d[2])
		if math32.Abs(length-1) > 1e-5 {
			t.Errorf("pixel %v: |dir| = %v, want 1", px, length)
		}
	}
}

func TestCameraCenterRayPointsAtTarget(t *testing.T) {
	cfg := CameraConfig{
		Eye:    [3]float32{0, 0, 5},
		LookAt: [3]float32{0, 0, 0},
		Up:     [3]float32{0, 1, 0},
		FOV:    45,
	}
	cam := newCamera(cfg, 101, 101)
	d := cam.rayDir(50, 50)

	// The center pixel looks straight down -z.
	if math32.Abs(d[0]) > 1e-2 || math32.Abs(d[1]) > 1e-2 || d[2] > -0.99 {
		t.Errorf("center ray = %v, want roughly [0 0 -1]", d)
	}
}

func TestRenderSceneProducesImage(t *testing.T) {
	dev, err := rtkernel.NewDevice()
	if err != nil {
		t.Fatalf("NewDevice: %v", err)
	}
	defer dev.Close()

	scene, err := buildScene(dev)
	if err != nil {
		t.Fatalf("buildScene: %v", err)
	}
	defer scene.Close()

	cfg := DefaultConfig()
	cfg.Width = 64
	cfg.Height = 48
	cfg.TileSize = 16

	img, err := renderScene(context.Background(), scene, cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("renderScene: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != 64 || bounds.Dy() != 48 {
		t.Fatalf("image size = %dx%d, want 64x48", bounds.Dx(), bounds.Dy())
	}

	// Every pixel must be shaded: the background gradient is opaque.
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if img.NRGBAAt(x, y).A != 255 {
				t.Fatalf("pixel (%d,%d) not shaded", x, y)
			}
		}
	}
}

func TestRenderSceneSupersampled(t *testing.T) {
	dev, err := rtkernel.NewDevice()
	if err != nil {
		t.Fatalf("NewDevice: %v", err)
	}
	defer dev.Close()

	scene, err := buildScene(dev)
	if err != nil {
		t.Fatalf("buildScene: %v", err)
	}
	defer scene.Close()

	cfg := DefaultConfig()
	cfg.Width = 32
	cfg.Height = 32
	cfg.TileSize = 16
	cfg.Supersample = 2

	img, err := renderScene(context.Background(), scene, cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("renderScene: %v", err)
	}
	// The downscale must bring the image back to the configured size.
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 32 {
		t.Errorf("image size = %v, want 32x32", img.Bounds())
	}
}

func TestRenderSceneCancelled(t *testing.T) {
	dev, err := rtkernel.NewDevice()
	if err != nil {
		t.Fatalf("NewDevice: %v", err)
	}
	defer dev.Close()

	scene, err := buildScene(dev)
	if err != nil {
		t.Fatalf("buildScene: %v", err)
	}
	defer scene.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := DefaultConfig()
	cfg.Width = 64
	cfg.Height = 64
	cfg.TileSize = 8

	if _, err := renderScene(ctx, scene, cfg, zap.NewNop()); err == nil {
		t.Error("cancelled context should abort the render")
	}
}

func TestCubeMeshWellFormed(t *testing.T) {
	verts := cubeVertices()
	if len(verts) != 8 {
		t.Fatalf("cube has %d vertices, want 8", len(verts))
	}
	tris := cubeIndices()
	if len(tris) != 12 {
		t.Fatalf("cube has %d triangles, want 12", len(tris))
	}
	for i, tri := range tris {
		for _, idx := range tri {
			if int(idx) >= len(verts) {
				t.Errorf("triangle %d references vertex %d out of range", i, idx)
			}
		}
	}
}
