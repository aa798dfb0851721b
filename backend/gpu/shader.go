package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/naga"
)

// shaderWGSL is the single pipeline both draw paths share. Group 0 is
// per-frame (projection, time), group 1 is per-sprite (model matrix,
// tint, opacity, texture, sampler). The fragment stage implements the
// compositing contract: tint mixes toward tint*texel by strength, then
// everything scales by sprite opacity; texels are premultiplied.
const shaderWGSL = `
struct FrameUniform {
    proj: mat4x4<f32>,
    time: f32,
    pad0: f32,
    pad1: f32,
    pad2: f32,
}

struct SpriteUniform {
    model: mat4x4<f32>,
    tint: vec4<f32>,
    opacity: f32,
    pad0: f32,
    pad1: f32,
    pad2: f32,
}

@group(0) @binding(0) var<uniform> frame: FrameUniform;
@group(1) @binding(0) var<uniform> sprite: SpriteUniform;
@group(1) @binding(1) var tex: texture_2d<f32>;
@group(1) @binding(2) var samp: sampler;

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) uv: vec2<f32>,
}

@vertex
fn vs_main(@location(0) pos: vec2<f32>) -> VertexOutput {
    var out: VertexOutput;
    out.position = frame.proj * sprite.model * vec4<f32>(pos, 0.0, 1.0);
    out.uv = pos;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let t = textureSample(tex, samp, in.uv);
    let rgb = mix(t.rgb, sprite.tint.rgb * t.rgb, sprite.tint.a);
    return vec4<f32>(rgb, t.a) * sprite.opacity;
}
`

// buildShaderModule validates the WGSL through naga before handing it
// to the device, so shader errors surface as Go errors at Init instead
// of uncaptured device errors mid-frame.
func buildShaderModule(device *wgpu.Device) (*wgpu.ShaderModule, error) {
	if _, err := naga.Compile(shaderWGSL); err != nil {
		return nil, fmt.Errorf("gpu: shader validation: %w", err)
	}
	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "sprite_shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaderWGSL},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create shader module: %w", err)
	}
	return module, nil
}
