package gpu

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/shader"
)

// flatShaderTemplate is the single WGSL module every pipeline is built from. Shading is
// ambient plus two-sided lambert against a fixed directional light tinted by its radiance.
// Fragments below the material's alpha cutoff are discarded.
const flatShaderTemplate = `//@oxy:include camera
//@oxy:include material

//@oxy:group 0 0 storage_uniform camera camera
//@oxy:group 1 0 storage_uniform material material

const LIGHT_DIR: vec3<f32> = vec3<f32>(%f, %f, %f);
const LIGHT_RADIANCE: vec3<f32> = vec3<f32>(%f, %f, %f);

struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) normal: vec3<f32>,
}

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) normal: vec3<f32>,
}

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip_position = camera.view_proj * vec4<f32>(in.position, 1.0);
    out.normal = in.normal;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    var lambert = 0.0;
    if (dot(in.normal, in.normal) > 0.0) {
        lambert = abs(dot(normalize(in.normal), LIGHT_DIR));
    }
    let intensity = min(vec3<f32>(material.ambient) + material.diffuse * lambert * LIGHT_RADIANCE, vec3<f32>(1.0));
    let color = vec4<f32>(material.base_color.rgb * intensity, material.base_color.a);
    if (material.alpha_cutoff > 0.0 && color.a < material.alpha_cutoff) {
        discard;
    }
    return color;
}
`

// shaderSource renders the WGSL module for the given light and returns the bind group
// declarations found in it.
//
// Parameters:
//   - dir: direction towards the light, normalized here
//   - radiance: per-channel factor applied to the diffuse term
//
// Returns:
//   - string: the WGSL source
//   - []shader.Annotation: the bind group declarations of the source
//   - error: an error if the template's annotations do not expand
func shaderSource(dir common.Vec3, radiance [3]float32) (string, []shader.Annotation, error) {
	l := dir.Normalize()
	pp := shader.NewPreProcessor()
	source, err := pp.Process(fmt.Sprintf(flatShaderTemplate,
		l.X, l.Y, l.Z,
		radiance[0], radiance[1], radiance[2],
	))
	if err != nil {
		return "", nil, fmt.Errorf("failed to pre-process shader: %w", err)
	}
	return source, pp.Declarations(), nil
}

// bindingSlots resolves the bind group indices of the camera and material uniforms. Both must sit at
// binding 0 of distinct groups 0 and 1, matching the pipeline layout the device builds.
func bindingSlots(declarations []shader.Annotation) (cameraSlot, materialSlot uint32, err error) {
	cg, cb, ok := shader.FindBinding(declarations, shader.AnnotationArgCamera)
	if !ok {
		return 0, 0, fmt.Errorf("shader declares no camera binding")
	}
	mg, mb, ok := shader.FindBinding(declarations, shader.AnnotationArgMaterial)
	if !ok {
		return 0, 0, fmt.Errorf("shader declares no material binding")
	}
	if cb != 0 || mb != 0 || cg == mg || cg > 1 || mg > 1 {
		return 0, 0, fmt.Errorf("unsupported binding layout: camera %d/%d, material %d/%d", cg, cb, mg, mb)
	}
	return uint32(cg), uint32(mg), nil
}
