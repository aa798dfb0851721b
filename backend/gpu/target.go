package gpu

import (
	"fmt"
	"image"

	"github.com/cogentcore/webgpu/wgpu"
)

// readbackAlign is the row alignment WebGPU requires for
// texture-to-buffer copies.
const readbackAlign = 256

// offscreenTarget is the headless render destination: a texture that
// doubles as copy source for ReadPixels.
type offscreenTarget struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
	width   int
	height  int
	format  wgpu.TextureFormat
}

func newOffscreenTarget(device *wgpu.Device, width, height int, format wgpu.TextureFormat) (*offscreenTarget, error) {
	tex, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "render_target",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create render target %dx%d: %w", width, height, err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("gpu: render target view: %w", err)
	}
	return &offscreenTarget{
		texture: tex,
		view:    view,
		width:   width,
		height:  height,
		format:  format,
	}, nil
}

// readPixels copies the target into a mappable buffer and returns the
// image. Rows are padded to the copy alignment on the device side and
// tightly repacked on the way out.
func (t *offscreenTarget) readPixels(device *wgpu.Device, queue *wgpu.Queue) (*image.RGBA, error) {
	rowBytes := 4 * t.width
	paddedRow := (rowBytes + readbackAlign - 1) / readbackAlign * readbackAlign
	size := paddedRow * t.height

	buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "readback",
		Size:  uint64(size),
		Usage: wgpu.BufferUsageCopyDst | wgpu.BufferUsageMapRead,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: readback buffer: %w", err)
	}
	defer buf.Release()

	encoder, err := device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, fmt.Errorf("gpu: readback encoder: %w", err)
	}
	err = encoder.CopyTextureToBuffer(
		&wgpu.ImageCopyTexture{
			Texture:  t.texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		&wgpu.ImageCopyBuffer{
			Buffer: buf,
			Layout: wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  uint32(paddedRow),
				RowsPerImage: uint32(t.height),
			},
		},
		&wgpu.Extent3D{
			Width:              uint32(t.width),
			Height:             uint32(t.height),
			DepthOrArrayLayers: 1,
		},
	)
	if err != nil {
		encoder.Release()
		return nil, fmt.Errorf("gpu: copy target to buffer: %w", err)
	}
	cmdBuf, err := encoder.Finish(nil)
	encoder.Release()
	if err != nil {
		return nil, fmt.Errorf("gpu: finish readback: %w", err)
	}
	queue.Submit(cmdBuf)
	cmdBuf.Release()

	var mapErr error
	done := false
	err = buf.MapAsync(wgpu.MapModeRead, 0, uint64(size), func(status wgpu.BufferMapAsyncStatus) {
		if status != wgpu.BufferMapAsyncStatusSuccess {
			mapErr = fmt.Errorf("gpu: map readback buffer: status %v", status)
		}
		done = true
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: map readback buffer: %w", err)
	}
	for !done {
		device.Poll(true, nil)
	}
	if mapErr != nil {
		return nil, mapErr
	}
	defer buf.Unmap()

	data := buf.GetMappedRange(0, uint(size))
	img := image.NewRGBA(image.Rect(0, 0, t.width, t.height))
	for y := 0; y < t.height; y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+rowBytes], data[y*paddedRow:y*paddedRow+rowBytes])
	}
	return img, nil
}

func (t *offscreenTarget) release() {
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}
