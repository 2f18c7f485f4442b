package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/loader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/primitivebuffer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/material"
	"github.com/chewxy/math32"
	"gopkg.in/yaml.v3"
)

// File is the YAML document describing a scene. Angles are given in degrees.
type File struct {
	Name       string         `yaml:"name"`
	Camera     CameraSpec     `yaml:"camera"`
	Projection ProjectionSpec `yaml:"projection"`
	Light      *LightSpec     `yaml:"light"`
	Materials  []MaterialSpec `yaml:"materials"`
	Shapes     []ShapeSpec    `yaml:"shapes"`

	// baseDir resolves relative model paths; LoadFile sets it to the scene file's directory.
	baseDir string
}

// CameraSpec places the camera either at a fixed position or on an orbit around the target.
type CameraSpec struct {
	Position []float32  `yaml:"position"`
	Target   []float32  `yaml:"target"`
	Orbit    *OrbitSpec `yaml:"orbit"`
}

// OrbitSpec places the camera on a sphere around the target.
type OrbitSpec struct {
	Azimuth   float32 `yaml:"azimuth"`
	Elevation float32 `yaml:"elevation"`
	Radius    float32 `yaml:"radius"`
}

// ProjectionSpec selects an orthographic or perspective projection.
type ProjectionSpec struct {
	Orthographic bool    `yaml:"orthographic"`
	VolumeHeight float32 `yaml:"volume_height"`
	Fov          float32 `yaml:"fov"`
	Aspect       float32 `yaml:"aspect"`
	Near         float32 `yaml:"near"`
	Far          float32 `yaml:"far"`
}

// LightSpec configures the scene's directional light. Unset fields keep the light defaults.
type LightSpec struct {
	Direction []float32 `yaml:"direction"`
	Color     []float32 `yaml:"color"`
	Intensity *float32  `yaml:"intensity"`
}

// MaterialSpec describes one named material. Unset factors keep the material defaults.
type MaterialSpec struct {
	Name         string    `yaml:"name"`
	Color        []float32 `yaml:"color"`
	Ambient      *float32  `yaml:"ambient"`
	Diffuse      *float32  `yaml:"diffuse"`
	Transparency string    `yaml:"transparency"`
}

// ShapeSpec describes one shape. Type is one of triangle, quad, polygon, box, line, points, model,
// or the name of a primitive draw type for raw vertex lists. A model shape imports the glTF file
// named by File, scaled by Scale and moved by Translate; its Material, when set, replaces the
// file's materials.
type ShapeSpec struct {
	Type      string      `yaml:"type"`
	Material  string      `yaml:"material"`
	Vertices  [][]float32 `yaml:"vertices"`
	Center    []float32   `yaml:"center"`
	Size      []float32   `yaml:"size"`
	File      string      `yaml:"file"`
	Translate []float32   `yaml:"translate"`
	Scale     float32     `yaml:"scale"`
}

const (
	defaultVolumeHeight = 10
	defaultFov          = 45
	defaultNear         = 0.1
	defaultFar          = 1000
	defaultRadius       = 20
)

// Parse decodes a scene document. Unknown fields are rejected.
//
// Parameters:
//   - r: the YAML source
//
// Returns:
//   - *File: the decoded document
//   - error: an error if the document is not valid YAML or has unknown fields
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return &f, nil
}

// LoadFile reads, decodes and builds the scene stored at path.
//
// Parameters:
//   - path: the YAML scene file
//   - options: extra scene options applied after the ones derived from the file
//
// Returns:
//   - Scene: the built scene
//   - error: an error naming the file if it cannot be read, decoded or built
func LoadFile(path string, options ...SceneBuilderOption) (Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load scene: %w", err)
	}
	f, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.Name = common.Coalesce(f.Name, path)
	f.baseDir = filepath.Dir(path)
	s, err := f.Build(options...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Build turns the document into a Scene with its geometry, camera and projection.
//
// Parameters:
//   - options: extra scene options applied after the ones derived from the document
//
// Returns:
//   - Scene: the built scene
//   - error: an error naming the offending material or shape
func (f *File) Build(options ...SceneBuilderOption) (Scene, error) {
	materials := make(map[string]material.Material, len(f.Materials))
	for i, spec := range f.Materials {
		m, err := spec.build()
		if err != nil {
			return nil, fmt.Errorf("material %d: %w", i, err)
		}
		if _, dup := materials[spec.Name]; dup {
			return nil, fmt.Errorf("material %d: duplicate name %q", i, spec.Name)
		}
		materials[spec.Name] = m
	}

	geometry := primitivebuffer.NewPrimitiveBuffer()
	models := loader.NewLoader(loader.BackendTypeGLTF)
	for i, spec := range f.Shapes {
		var m material.Material
		if spec.Material != "" {
			found, ok := materials[spec.Material]
			if !ok {
				return nil, fmt.Errorf("shape %d: unknown material %q", i, spec.Material)
			}
			m = found
		}
		var err error
		switch {
		case spec.Type == "model":
			err = spec.addModel(geometry, models, f.baseDir, m)
		case m == nil:
			err = spec.addTo(geometry, material.NewMaterial())
		default:
			err = spec.addTo(geometry, m)
		}
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
	}

	cam, err := f.Camera.build()
	if err != nil {
		return nil, fmt.Errorf("camera: %w", err)
	}
	opts := []SceneBuilderOption{
		WithCamera(cam),
		WithProjection(f.Projection.build()),
	}
	if f.Light != nil {
		l, err := f.Light.build()
		if err != nil {
			return nil, fmt.Errorf("light: %w", err)
		}
		opts = append(opts, WithLight(l))
	}
	opts = append(opts, options...)
	return NewScene(f.Name, geometry, opts...), nil
}

func (spec LightSpec) build() (light.Light, error) {
	var opts []light.LightBuilderOption
	if spec.Direction != nil {
		dir, err := optionalVec3(spec.Direction)
		if err != nil {
			return nil, fmt.Errorf("direction: %w", err)
		}
		if dir.LengthSq() == 0 {
			return nil, errors.New("direction: must not be zero")
		}
		opts = append(opts, light.WithDirection(dir))
	}
	if spec.Color != nil {
		if len(spec.Color) != 3 {
			return nil, fmt.Errorf("color: need 3 components, have %d", len(spec.Color))
		}
		opts = append(opts, light.WithColor([3]float32{spec.Color[0], spec.Color[1], spec.Color[2]}))
	}
	if spec.Intensity != nil {
		if *spec.Intensity < 0 {
			return nil, fmt.Errorf("intensity: %v is negative", *spec.Intensity)
		}
		opts = append(opts, light.WithIntensity(*spec.Intensity))
	}
	return light.NewLight(opts...), nil
}

func (spec MaterialSpec) build() (material.Material, error) {
	if spec.Name == "" {
		return nil, errors.New("material needs a name")
	}
	transparency, err := material.ParseTransparency(spec.Transparency)
	if err != nil {
		return nil, err
	}
	opts := []material.MaterialBuilderOption{
		material.WithName(spec.Name),
		material.WithTransparency(transparency),
	}
	switch len(spec.Color) {
	case 0:
	case 3:
		opts = append(opts, material.WithBaseColor([4]float32{spec.Color[0], spec.Color[1], spec.Color[2], 1}))
	case 4:
		opts = append(opts, material.WithBaseColor([4]float32(spec.Color)))
	default:
		return nil, fmt.Errorf("color needs 3 or 4 components, has %d", len(spec.Color))
	}
	if spec.Ambient != nil {
		opts = append(opts, material.WithAmbientFactor(*spec.Ambient))
	}
	if spec.Diffuse != nil {
		opts = append(opts, material.WithDiffuseFactor(*spec.Diffuse))
	}
	return material.NewMaterial(opts...), nil
}

func (spec CameraSpec) build() (camera.Camera, error) {
	target, err := optionalVec3(spec.Target)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}
	if spec.Orbit != nil {
		ctrl := camera.NewCameraController(
			camera.WithTarget(target),
			camera.WithAzimuth(radians(spec.Orbit.Azimuth)),
			camera.WithElevation(radians(spec.Orbit.Elevation)),
			camera.WithRadius(common.Coalesce(spec.Orbit.Radius, defaultRadius)),
		)
		return camera.NewCamera(camera.WithController(ctrl)), nil
	}
	opts := []camera.CameraBuilderOption{camera.WithLookAt(target)}
	if spec.Position != nil {
		position, err := optionalVec3(spec.Position)
		if err != nil {
			return nil, fmt.Errorf("position: %w", err)
		}
		opts = append(opts, camera.WithPosition(position))
	}
	return camera.NewCamera(opts...), nil
}

func (spec ProjectionSpec) build() camera.Projection {
	opts := []camera.ProjectionBuilderOption{
		camera.WithFov(radians(common.Coalesce(spec.Fov, defaultFov))),
		camera.WithClipPlanes(common.Coalesce(spec.Near, defaultNear), common.Coalesce(spec.Far, defaultFar)),
	}
	if spec.Aspect > 0 {
		opts = append(opts, camera.WithAspect(spec.Aspect))
	}
	if spec.Orthographic {
		opts = append(opts, camera.WithOrthographic(common.Coalesce(spec.VolumeHeight, defaultVolumeHeight)))
	}
	proj := camera.NewProjection(opts...)
	if !spec.Orthographic && spec.VolumeHeight > 0 {
		// kept for switching to orthographic later
		proj.SetVolumeHeight(spec.VolumeHeight)
	}
	return proj
}

func radians(degrees float32) float32 {
	return degrees * math32.Pi / 180
}

func optionalVec3(v []float32) (common.Vec3, error) {
	switch len(v) {
	case 0:
		return common.Vec3{}, nil
	case 3:
		return common.Vec3{X: v[0], Y: v[1], Z: v[2]}, nil
	}
	return common.Vec3{}, fmt.Errorf("need 3 components, have %d", len(v))
}
