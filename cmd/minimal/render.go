package main

import (
	"context"
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/lightfold/raykit/raystream"
	"github.com/lightfold/raykit/rtkernel"
)

// camera turns pixel coordinates into primary rays.
type camera struct {
	eye     [3]float32
	right   [3]float32
	up      [3]float32
	forward [3]float32
	halfW   float32
	halfH   float32
	invW    float32
	invH    float32
}

func newCamera(cfg CameraConfig, width, height int) camera {
	forward := normalize(sub(cfg.LookAt, cfg.Eye))
	right := normalize(cross(forward, cfg.Up))
	up := cross(right, forward)

	halfH := math32.Tan(cfg.FOV * math32.Pi / 360)
	halfW := halfH * float32(width) / float32(height)

	return camera{
		eye:     cfg.Eye,
		right:   right,
		up:      up,
		forward: forward,
		halfW:   halfW,
		halfH:   halfH,
		invW:    1 / float32(width),
		invH:    1 / float32(height),
	}
}

// rayDir returns the direction through the center of pixel (x, y).
func (c camera) rayDir(x, y int) [3]float32 {
	sx := (2*(float32(x)+0.5)*c.invW - 1) * c.halfW
	sy := (1 - 2*(float32(y)+0.5)*c.invH) * c.halfH
	return normalize([3]float32{
		c.forward[0] + sx*c.right[0] + sy*c.up[0],
		c.forward[1] + sx*c.right[1] + sy*c.up[1],
		c.forward[2] + sx*c.right[2] + sy*c.up[2],
	})
}

// tile is one rectangular unit of render work.
type tile struct {
	x0, y0, x1, y1 int
}

// splitTiles covers a width x height image with square tiles.
func splitTiles(width, height, size int) []tile {
	var tiles []tile
	for y := 0; y < height; y += size {
		for x := 0; x < width; x += size {
			tiles = append(tiles, tile{
				x0: x,
				y0: y,
				x1: min(x+size, width),
				y1: min(y+size, height),
			})
		}
	}
	return tiles
}

// renderScene traces the scene tile by tile, one goroutine per worker,
// one ray/hit stream per tile. Cancelling ctx abandons remaining tiles.
func renderScene(ctx context.Context, scene *rtkernel.Scene, cfg Config, log *zap.Logger) (*image.NRGBA, error) {
	width := cfg.Width * cfg.Supersample
	height := cfg.Height * cfg.Supersample
	cam := newCamera(cfg.Camera, width, height)
	img := image.NewNRGBA(image.Rect(0, 0, width, height))

	tiles := splitTiles(width, height, cfg.TileSize)
	log.Info("render started",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("tiles", len(tiles)),
	)

	g, ctx := errgroup.WithContext(ctx)
	if cfg.Workers > 0 {
		g.SetLimit(cfg.Workers)
	}

	for _, tl := range tiles {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return renderTile(scene, cam, tl, img)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if cfg.Supersample > 1 {
		out := image.NewNRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
		draw.CatmullRom.Scale(out, out.Bounds(), img, img.Bounds(), draw.Src, nil)
		return out, nil
	}
	return img, nil
}

// renderTile traces every pixel of one tile through a single stream
// query and shades the results.
func renderTile(scene *rtkernel.Scene, cam camera, tl tile, img *image.NRGBA) error {
	w := tl.x1 - tl.x0
	h := tl.y1 - tl.y0
	rh := raystream.NewRayHitNp(raystream.NewRayNp(w * h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			rh.Ray.SetOrg(i, cam.eye)
			rh.Ray.SetDir(i, cam.rayDir(tl.x0+x, tl.y0+y))
		}
	}

	ctx := rtkernel.NewIntersectContext(rtkernel.QueryCoherent)
	if err := scene.IntersectNp(ctx, rh); err != nil {
		return err
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			img.SetNRGBA(tl.x0+x, tl.y0+y, shade(rh, i))
		}
	}
	return nil
}

// shade colors a hit by its unit normal and a miss by a vertical
// gradient keyed to the ray direction.
func shade(rh *raystream.RayHitNp, i int) color.NRGBA {
	if rh.Hit.Valid(i) {
		n := rh.Hit.UnitNormal(i)
		return color.NRGBA{
			R: toByte(0.5 + 0.5*n[0]),
			G: toByte(0.5 + 0.5*n[1]),
			B: toByte(0.5 + 0.5*n[2]),
			A: 255,
		}
	}
	d := rh.Ray.Dir(i)
	t := 0.5 + 0.5*d[1]
	return color.NRGBA{
		R: toByte(0.6 + 0.3*t),
		G: toByte(0.7 + 0.2*t),
		B: toByte(0.9 + 0.1*t),
		A: 255,
	}
}

func toByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}

// buildScene assembles the built-in demo scene: a unit cube on a
// ground plane.
func buildScene(dev *rtkernel.Device) (*rtkernel.Scene, error) {
	scene, err := dev.NewScene()
	if err != nil {
		return nil, err
	}

	cube, err := dev.NewTriangleMesh(cubeVertices(), cubeIndices())
	if err != nil {
		scene.Close()
		return nil, err
	}
	if _, err := scene.Attach(cube); err != nil {
		scene.Close()
		return nil, err
	}

	ground, err := dev.NewQuadMesh(
		[][3]float32{
			{-10, -0.5, -10},
			{10, -0.5, -10},
			{10, -0.5, 10},
			{-10, -0.5, 10},
		},
		[][4]uint32{{0, 1, 2, 3}},
	)
	if err != nil {
		scene.Close()
		return nil, err
	}
	if _, err := scene.Attach(ground); err != nil {
		scene.Close()
		return nil, err
	}

	scene.SetBuildQuality(rtkernel.BuildQualityHigh)
	if err := scene.Commit(); err != nil {
		scene.Close()
		return nil, err
	}
	return scene, nil
}

func cubeVertices() [][3]float32 {
	return [][3]float32{
		{-0.5, -0.5, -0.5},
		{0.5, -0.5, -0.5},
		{0.5, 0.5, -0.5},
		{-0.5, 0.5, -0.5},
		{-0.5, -0.5, 0.5},
		{0.5, -0.5, 0.5},
		{0.5, 0.5, 0.5},
		{-0.5, 0.5, 0.5},
	}
}

func cubeIndices() [][3]uint32 {
	return [][3]uint32{
		{0, 1, 2}, {0, 2, 3},
		{4, 6, 5}, {4, 7, 6},
		{0, 4, 5}, {0, 5, 1},
		{3, 2, 6}, {3, 6, 7},
		{0, 3, 7}, {0, 7, 4},
		{1, 5, 6}, {1, 6, 2},
	}
}

func sub(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func cross(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func normalize(v [3]float32) [3]float32 {
	return raystream.Normalize3(v)
}
