package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gogpu/sprite"
)

// spriteResources is the per-sprite device state: a uniform buffer and
// the bind group tying it to the sprite's current texture. Resources
// are created lazily on first draw and live until
// ReleaseSpriteResources, independent of the Sprite object itself.
type spriteResources struct {
	uniform *wgpu.Buffer
	binding *wgpu.BindGroup

	// boundView detects texture changes: a sprite repointed at a new
	// texture needs its bind group rebuilt, not a new uniform buffer.
	boundView *wgpu.TextureView
}

func (g *GPU) ensureSpriteResources(id sprite.ID, tex *gpuTexture) (*spriteResources, error) {
	res := g.resources[id]
	if res == nil {
		buf, err := g.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "sprite_uniform",
			Size:  spriteUniformSize,
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return nil, fmt.Errorf("gpu: sprite %d uniform buffer: %w", id, err)
		}
		res = &spriteResources{uniform: buf}
		g.resources[id] = res
	}

	if res.binding == nil || res.boundView != tex.view {
		if res.binding != nil {
			res.binding.Release()
		}
		binding, err := g.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  "sprite_bind_group",
			Layout: g.pipe.spriteLayout,
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: res.uniform, Size: spriteUniformSize},
				{Binding: 1, TextureView: tex.view},
				{Binding: 2, Sampler: g.pipe.sampler},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("gpu: sprite %d bind group: %w", id, err)
		}
		res.binding = binding
		res.boundView = tex.view
	}
	return res, nil
}

func (g *GPU) ReleaseSpriteResources(id sprite.ID) {
	res, ok := g.resources[id]
	if !ok {
		return
	}
	if res.binding != nil {
		res.binding.Release()
	}
	if res.uniform != nil {
		res.uniform.Release()
	}
	delete(g.resources, id)
}

func (g *GPU) SpriteResourceCount() int { return len(g.resources) }
