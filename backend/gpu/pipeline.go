package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// quadVertices is the unit quad in triangle-strip-friendly order; the
// vertex positions double as texture coordinates.
var quadVertices = [8]float32{
	0, 0,
	0, 1,
	1, 0,
	1, 1,
}

var quadIndices = [6]uint16{0, 1, 2, 2, 1, 3}

const (
	frameUniformSize  = 20 * 4 // mat4x4 + time + padding
	spriteUniformSize = 24 * 4 // mat4x4 + tint vec4 + opacity + padding
)

// pipelineState holds everything the render pass binds that is not
// per-sprite: the pipeline itself, the shared quad geometry, the
// sampler and the bind group layouts sprite resources are created
// against.
type pipelineState struct {
	pipeline     *wgpu.RenderPipeline
	frameLayout  *wgpu.BindGroupLayout
	spriteLayout *wgpu.BindGroupLayout
	vertexBuf    *wgpu.Buffer
	indexBuf     *wgpu.Buffer
	sampler      *wgpu.Sampler
}

func buildPipeline(device *wgpu.Device, format wgpu.TextureFormat) (*pipelineState, error) {
	module, err := buildShaderModule(device)
	if err != nil {
		return nil, err
	}
	defer module.Release()

	ps := &pipelineState{}
	ok := false
	defer func() {
		if !ok {
			ps.release()
		}
	}()

	ps.frameLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "frame_bind_layout",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
			Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: frame bind group layout: %w", err)
	}

	ps.spriteLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "sprite_bind_layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: wgpu.ShaderStageFragment,
				Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: sprite bind group layout: %w", err)
	}

	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "sprite_pipeline_layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{ps.frameLayout, ps.spriteLayout},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: pipeline layout: %w", err)
	}
	defer layout.Release()

	// Premultiplied source-over on both channels, matching the
	// software backend's blendPixel exactly.
	blend := wgpu.BlendState{
		Color: wgpu.BlendComponent{
			Operation: wgpu.BlendOperationAdd,
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		},
		Alpha: wgpu.BlendComponent{
			Operation: wgpu.BlendOperationAdd,
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		},
	}

	ps.pipeline, err = device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "sprite_pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: 2 * 4,
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{{
					Format:         wgpu.VertexFormatFloat32x2,
					Offset:         0,
					ShaderLocation: 0,
				}},
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    format,
				Blend:     &blend,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: render pipeline: %w", err)
	}

	ps.vertexBuf, err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "quad_vertices",
		Contents: wgpu.ToBytes(quadVertices[:]),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: quad vertex buffer: %w", err)
	}

	ps.indexBuf, err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "quad_indices",
		Contents: wgpu.ToBytes(quadIndices[:]),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: quad index buffer: %w", err)
	}

	ps.sampler, err = device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "sprite_sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		Compare:       wgpu.CompareFunctionUndefined,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: sampler: %w", err)
	}

	ok = true
	return ps, nil
}

func (ps *pipelineState) release() {
	if ps.sampler != nil {
		ps.sampler.Release()
	}
	if ps.indexBuf != nil {
		ps.indexBuf.Release()
	}
	if ps.vertexBuf != nil {
		ps.vertexBuf.Release()
	}
	if ps.pipeline != nil {
		ps.pipeline.Release()
	}
	if ps.spriteLayout != nil {
		ps.spriteLayout.Release()
	}
	if ps.frameLayout != nil {
		ps.frameLayout.Release()
	}
	*ps = pipelineState{}
}
