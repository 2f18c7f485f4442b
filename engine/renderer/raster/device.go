// Package raster provides a software Device that draws into an *image.RGBA.
//
// Triangles are filled with golang.org/x/image/vector and composited with source-over
// blending, so transparent geometry shows exactly the order it was submitted in. There is
// no depth buffer: the draws of a replayed batch are painted farthest first, and immediate
// draws are painted in submission order on top of everything drawn before them.
package raster

import (
	"cmp"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"slices"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/primitive"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/material"
	"github.com/chewxy/math32"
	"golang.org/x/image/vector"
)

// drawCmd is one recorded draw with the material that was active when it was submitted.
type drawCmd struct {
	mat      material.Material
	t        primitive.DrawType
	vertices []common.Vec3
	normals  []common.Vec3
	depth    float32
}

var (
	// ErrUnknownBatch is returned by CallBatch for batches that were never finalized or were released.
	ErrUnknownBatch = errors.New("unknown batch")
	// ErrNestedBatch is returned by BeginBatch while another batch is being recorded.
	ErrNestedBatch = errors.New("batch already being recorded")
)

// Device is a software renderer.FrameDevice.
type Device struct {
	width, height int
	img           *image.RGBA
	ras           *vector.Rasterizer

	clear     color.NRGBA
	light     common.Vec3
	radiance  [3]float32
	lineWidth float32
	maxBatch  int

	viewProj [16]float32
	current  material.Material

	nextID    renderer.BatchID
	recording *renderer.BatchID
	recordMat material.Material
	pending   []drawCmd
	batches   map[renderer.BatchID][]drawCmd

	triangles int
}

var _ renderer.FrameDevice = &Device{}

// NewDevice creates a software device rendering width x height pixels.
//
// Parameters:
//   - width: image width in pixels
//   - height: image height in pixels
//   - options: functional options to configure the device
//
// Returns:
//   - *Device: the new device
func NewDevice(width, height int, options ...DeviceOption) *Device {
	d := &Device{
		width:     width,
		height:    height,
		img:       image.NewRGBA(image.Rect(0, 0, width, height)),
		ras:       vector.NewRasterizer(width, height),
		clear:     color.NRGBA{R: 25, G: 25, B: 30, A: 255},
		light:     light.DefaultDirection,
		radiance:  [3]float32{1, 1, 1},
		lineWidth: 1.5,
		nextID:    1,
		batches:   make(map[renderer.BatchID][]drawCmd),
	}
	common.Identity(d.viewProj[:])
	for _, opt := range options {
		opt(d)
	}
	d.light = d.light.Normalize()
	return d
}

func (d *Device) BeginBatch() (renderer.BatchID, error) {
	if d.recording != nil {
		return 0, ErrNestedBatch
	}
	if d.maxBatch > 0 && len(d.batches) >= d.maxBatch {
		return 0, fmt.Errorf("batch limit of %d reached", d.maxBatch)
	}
	id := d.nextID
	d.nextID++
	d.recording = &id
	d.recordMat = nil
	d.pending = nil
	return id, nil
}

func (d *Device) EndBatch(id renderer.BatchID) error {
	if d.recording == nil || *d.recording != id {
		return fmt.Errorf("%w: %d is not being recorded", ErrUnknownBatch, id)
	}
	d.batches[id] = d.pending
	d.recording = nil
	d.pending = nil
	return nil
}

func (d *Device) SetMaterial(m material.Material) {
	if d.recording != nil {
		d.recordMat = m
		return
	}
	d.current = m
}

func (d *Device) DrawPrimitive(t primitive.DrawType, vertices, normals []common.Vec3, _ [][]common.TexCoord) {
	if d.recording != nil {
		d.pending = append(d.pending, drawCmd{
			mat:      d.recordMat,
			t:        t,
			vertices: slices.Clone(vertices),
			normals:  slices.Clone(normals),
		})
		return
	}
	d.draw(d.current, t, vertices, normals)
}

func (d *Device) CallBatch(id renderer.BatchID) error {
	cmds, ok := d.batches[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBatch, id)
	}
	for i := range cmds {
		cmds[i].depth = d.depth(cmds[i].vertices)
	}
	order := make([]int, len(cmds))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(cmds[b].depth, cmds[a].depth)
	})
	for _, i := range order {
		d.draw(cmds[i].mat, cmds[i].t, cmds[i].vertices, cmds[i].normals)
	}
	return nil
}

func (d *Device) ReleaseBatch(id renderer.BatchID) {
	if _, ok := d.batches[id]; !ok {
		common.Logger().Warn("release of unknown batch", "batch", id)
		return
	}
	delete(d.batches, id)
}

func (d *Device) BeginFrame(viewProj [16]float32, _ common.Vec3) error {
	d.viewProj = viewProj
	d.triangles = 0
	draw.Draw(d.img, d.img.Bounds(), image.NewUniform(d.clear), image.Point{}, draw.Src)
	return nil
}

func (d *Device) EndFrame() error {
	common.Logger().Debug("raster frame finished", "triangles", d.triangles)
	return nil
}

// Image returns the image the device draws into.
func (d *Device) Image() *image.RGBA {
	return d.img
}

// Triangles returns the number of triangles filled since the last BeginFrame.
func (d *Device) Triangles() int {
	return d.triangles
}

// LiveBatches returns the number of batches that are finalized and not released.
func (d *Device) LiveBatches() int {
	return len(d.batches)
}

// WritePNG encodes the current image as PNG.
//
// Parameters:
//   - w: the destination
//
// Returns:
//   - error: an error if encoding or writing fails
func (d *Device) WritePNG(w io.Writer) error {
	if err := png.Encode(w, d.img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// depth returns the mean normalized device depth of the vertices; larger is farther.
func (d *Device) depth(vertices []common.Vec3) float32 {
	if len(vertices) == 0 {
		return 0
	}
	var sum float32
	for _, v := range vertices {
		c := common.TransformPoint(d.viewProj[:], v)
		if c[3] != 0 {
			sum += c[2] / c[3]
		}
	}
	return sum / float32(len(vertices))
}

// project maps a world position to pixel coordinates. ok is false for points behind the eye.
func (d *Device) project(v common.Vec3) (x, y float32, ok bool) {
	c := common.TransformPoint(d.viewProj[:], v)
	if c[3] <= 1e-6 {
		return 0, 0, false
	}
	x = (c[0]/c[3] + 1) / 2 * float32(d.width)
	y = (1 - c[1]/c[3]) / 2 * float32(d.height)
	return x, y, true
}

// shade returns the lit color of m for a surface with normal n.
func (d *Device) shade(m material.Material, n common.Vec3) color.NRGBA {
	if m == nil {
		m = material.NewMaterial()
	}
	base := m.BaseColor()
	var lambert float32
	if n.LengthSq() > 0 {
		lambert = m.DiffuseFactor() * math32.Abs(n.Normalize().Dot(d.light))
	}
	clamp := func(c float32) uint8 {
		return uint8(math32.Round(math32.Max(0, math32.Min(1, c)) * 255))
	}
	channel := func(i int) uint8 {
		return clamp(base[i] * math32.Min(m.AmbientFactor()+lambert*d.radiance[i], 1))
	}
	return color.NRGBA{
		R: channel(0),
		G: channel(1),
		B: channel(2),
		A: clamp(base[3]),
	}
}

func (d *Device) draw(m material.Material, t primitive.DrawType, vertices, normals []common.Vec3) {
	p := primitive.Primitive{Type: t, Indices: make([]int, len(vertices))}
	switch {
	case t.IsArea():
		corners := p.Triangulate()
		for i := 0; i+2 < len(corners); i += 3 {
			a, b, c := corners[i], corners[i+1], corners[i+2]
			n := averageNormal(normals, a, b, c)
			d.fillPolygon(d.shade(m, n), vertices[a], vertices[b], vertices[c])
		}
	case t == primitive.Points:
		col := d.shade(m, common.Vec3{})
		for _, v := range vertices {
			d.fillPoint(col, v)
		}
	default:
		col := d.shade(m, common.Vec3{})
		segments := p.Segments()
		for i := 0; i+1 < len(segments); i += 2 {
			d.fillLine(col, vertices[segments[i]], vertices[segments[i+1]])
		}
	}
}

func averageNormal(normals []common.Vec3, corners ...int) common.Vec3 {
	var n common.Vec3
	for _, c := range corners {
		if c < len(normals) {
			n = n.Add(normals[c])
		}
	}
	return n
}

// fillPolygon fills the projection of a convex polygon. Polygons with a vertex behind the eye are skipped.
func (d *Device) fillPolygon(col color.NRGBA, vertices ...common.Vec3) {
	d.ras.Reset(d.width, d.height)
	for i, v := range vertices {
		x, y, ok := d.project(v)
		if !ok {
			return
		}
		if i == 0 {
			d.ras.MoveTo(x, y)
		} else {
			d.ras.LineTo(x, y)
		}
	}
	d.ras.ClosePath()
	d.ras.DrawOp = draw.Over
	d.ras.Draw(d.img, d.img.Bounds(), image.NewUniform(col), image.Point{})
	d.triangles++
}

// fillLine fills a screen-space quad of lineWidth pixels around the projected segment.
func (d *Device) fillLine(col color.NRGBA, a, b common.Vec3) {
	ax, ay, okA := d.project(a)
	bx, by, okB := d.project(b)
	if !okA || !okB {
		return
	}
	dx, dy := bx-ax, by-ay
	l := math32.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := -dy/l*d.lineWidth/2, dx/l*d.lineWidth/2
	d.ras.Reset(d.width, d.height)
	d.ras.MoveTo(ax+nx, ay+ny)
	d.ras.LineTo(bx+nx, by+ny)
	d.ras.LineTo(bx-nx, by-ny)
	d.ras.LineTo(ax-nx, ay-ny)
	d.ras.ClosePath()
	d.ras.DrawOp = draw.Over
	d.ras.Draw(d.img, d.img.Bounds(), image.NewUniform(col), image.Point{})
}

// fillPoint fills a lineWidth sized square around the projected point.
func (d *Device) fillPoint(col color.NRGBA, v common.Vec3) {
	x, y, ok := d.project(v)
	if !ok {
		return
	}
	h := d.lineWidth
	d.ras.Reset(d.width, d.height)
	d.ras.MoveTo(x-h, y-h)
	d.ras.LineTo(x+h, y-h)
	d.ras.LineTo(x+h, y+h)
	d.ras.LineTo(x-h, y+h)
	d.ras.ClosePath()
	d.ras.DrawOp = draw.Over
	d.ras.Draw(d.img, d.img.Bounds(), image.NewUniform(col), image.Point{})
}
