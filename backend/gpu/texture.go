package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gogpu/sprite/backend"
	"github.com/gogpu/sprite/raster"
)

// gpuTexture is a device-resident texture created by UploadTexture.
type gpuTexture struct {
	texture  *wgpu.Texture
	view     *wgpu.TextureView
	width    int
	height   int
	released bool
}

func (t *gpuTexture) Width() int  { return t.width }
func (t *gpuTexture) Height() int { return t.height }

func (g *GPU) UploadTexture(bm *raster.Bitmap) (backend.TextureHandle, error) {
	if !g.initialized {
		return nil, backend.ErrNotInitialized
	}
	w, h := bm.Width(), bm.Height()

	tex, err := g.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "sprite_texture",
		Size: wgpu.Extent3D{
			Width:              uint32(w),
			Height:             uint32(h),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create texture %dx%d: %w", w, h, err)
	}

	err = g.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		bm.Data(),
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(4 * w),
			RowsPerImage: uint32(h),
		},
		&wgpu.Extent3D{
			Width:              uint32(w),
			Height:             uint32(h),
			DepthOrArrayLayers: 1,
		},
	)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("gpu: upload texture %dx%d: %w", w, h, err)
	}

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("gpu: texture view: %w", err)
	}
	return &gpuTexture{texture: tex, view: view, width: w, height: h}, nil
}

func (g *GPU) ReleaseTexture(h backend.TextureHandle) {
	tex, ok := h.(*gpuTexture)
	if !ok || tex == nil || tex.released {
		return
	}
	tex.released = true
	tex.view.Release()
	tex.texture.Release()
	tex.view = nil
	tex.texture = nil
}
