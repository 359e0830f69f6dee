// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package rhi

import (
	"runtime"
	"sync"

	"github.com/gviegas/rhi/driver"
)

// stagingBuffer is a host-visible buffer used to move pixel data into
// device-local textures. Grounded on the teacher's (now removed)
// engine/texture/staging.go, which pooled a small, GOMAXPROCS-sized
// set of staging buffers behind a channel rather than allocating one
// per upload.
type stagingBuffer struct {
	buf  driver.Buffer
	size int64
}

type stagingPool struct {
	mu   sync.Mutex
	bufs chan *stagingBuffer
	gpu  driver.GPU
}

const stagingBufferSize = 16 << 20 // 16 MiB, matches the teacher's default block size.

func newStagingPool(gpu driver.GPU) *stagingPool {
	n := runtime.GOMAXPROCS(0)
	return &stagingPool{bufs: make(chan *stagingBuffer, n), gpu: gpu}
}

func (p *stagingPool) acquire(minSize int64) (*stagingBuffer, error) {
	size := stagingBufferSize
	if minSize > int64(size) {
		size = int(minSize)
	}
	select {
	case sb := <-p.bufs:
		if sb.size >= int64(size) {
			return sb, nil
		}
		sb.buf.Destroy()
	default:
	}
	buf, err := p.gpu.NewBuffer(int64(size), true, driver.UShaderRead)
	if err != nil {
		return nil, err
	}
	return &stagingBuffer{buf: buf, size: int64(size)}, nil
}

func (p *stagingPool) release(sb *stagingBuffer) {
	select {
	case p.bufs <- sb:
	default:
		sb.buf.Destroy()
	}
}

// MipUpload describes the pixel data for one mip level of one array
// layer.
type MipUpload struct {
	Layer  int
	Level  int
	Width  int
	Height int
	Depth  int
	Data   []byte
}

// UploadTexture copies uploads into tex's backing image, transitioning
// it from whatever layout it is currently in, through
// TRANSFER_DST_OPTIMAL for the copy, to the shader-read layout on
// completion (spec.md §4.7 "mip upload path"). genMipmaps requests a
// blit-chain mipmap generation pass after the explicit uploads land,
// for textures whose remaining levels were not supplied directly.
func (d *Device) UploadTexture(tex *textureBase, uploads []MipUpload, genMipmaps bool) error {
	cb, err := d.gpu.NewCmdBuffer()
	if err != nil {
		return err
	}
	defer cb.Destroy()
	if err := cb.Begin(); err != nil {
		return err
	}

	cb.Transition([]driver.Transition{{
		LayoutBefore: tex.layout,
		LayoutAfter:  driver.LCopyDst,
		IView:        tex.view,
	}})

	cb.BeginBlit(false)
	var total int64
	for _, u := range uploads {
		total += int64(len(u.Data))
	}
	sb, err := d.staging.acquire(total)
	if err != nil {
		cb.EndBlit()
		return err
	}
	defer d.staging.release(sb)

	var off int64
	for _, u := range uploads {
		copy(sb.buf.Bytes()[off:], u.Data)
		cb.CopyBufToImg(&driver.BufImgCopy{
			Buf:    sb.buf,
			BufOff: off,
			Img:    tex.img,
			ImgOff: driver.Off3D{},
			Layer:  u.Layer,
			Level:  u.Level,
			Size:   driver.Dim3D{Width: u.Width, Height: u.Height, Depth: u.Depth},
		})
		off += int64(len(u.Data))
	}
	cb.EndBlit()

	finalLayout := driver.LShaderRead
	cb.Transition([]driver.Transition{{
		LayoutBefore: driver.LCopyDst,
		LayoutAfter:  finalLayout,
		IView:        tex.view,
	}})

	if err := cb.End(); err != nil {
		return err
	}
	ch := make(chan error, 1)
	d.gpu.Commit([]driver.CmdBuffer{cb}, ch)
	if err := <-ch; err != nil {
		return err
	}
	tex.layout = finalLayout
	if genMipmaps && tex.levels > 1 {
		return d.generateMipmaps(tex)
	}
	return nil
}

// pixelFmtSize returns the number of bytes per texel of pf, for the
// color formats generateMipmaps knows how to read back and
// downsample on the CPU. Depth/stencil formats are never valid
// texture-upload targets, so they are not listed.
func pixelFmtSize(pf driver.PixelFmt) (int, bool) {
	switch pf {
	case driver.RGBA8un, driver.RGBA8n, driver.RGBA8sRGB, driver.BGRA8un, driver.BGRA8sRGB:
		return 4, true
	case driver.RG8un, driver.RG8n:
		return 2, true
	case driver.R8un, driver.R8n:
		return 1, true
	case driver.RGBA16f:
		return 8, true
	case driver.RG16f:
		return 4, true
	case driver.R16f:
		return 2, true
	case driver.RGBA32f:
		return 16, true
	case driver.RG32f:
		return 8, true
	case driver.R32f:
		return 4, true
	default:
		return 0, false
	}
}

// downsample2x box-filters src (pw x ph texels, bpp bytes each) down
// to floor(pw/2) x floor(ph/2) (floored at 1 in either dimension),
// averaging each 2x2 block of source texels per destination texel.
func downsample2x(src []byte, pw, ph, bpp int) ([]byte, int, int) {
	nw, nh := pw/2, ph/2
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	dst := make([]byte, nw*nh*bpp)
	for y := 0; y < nh; y++ {
		sy0 := y * 2
		sy1 := sy0
		if sy0+1 < ph {
			sy1 = sy0 + 1
		}
		for x := 0; x < nw; x++ {
			sx0 := x * 2
			sx1 := sx0
			if sx0+1 < pw {
				sx1 = sx0 + 1
			}
			do := (y*nw + x) * bpp
			i00 := (sy0*pw + sx0) * bpp
			i01 := (sy0*pw + sx1) * bpp
			i10 := (sy1*pw + sx0) * bpp
			i11 := (sy1*pw + sx1) * bpp
			for c := 0; c < bpp; c++ {
				sum := uint16(src[i00+c]) + uint16(src[i01+c]) + uint16(src[i10+c]) + uint16(src[i11+c])
				dst[do+c] = byte(sum / 4)
			}
		}
	}
	return dst, nw, nh
}

// readbackLevel copies one mip level of one array layer of tex back
// to the CPU, through a staging buffer, waiting for the copy to
// complete. tex's view must already be in driver.LCopySrc layout.
func (d *Device) readbackLevel(tex *textureBase, layer, level, width, height, bpp int) ([]byte, error) {
	size := int64(width * height * bpp)
	sb, err := d.staging.acquire(size)
	if err != nil {
		return nil, err
	}
	defer d.staging.release(sb)

	cb, err := d.gpu.NewCmdBuffer()
	if err != nil {
		return nil, err
	}
	defer cb.Destroy()
	if err := cb.Begin(); err != nil {
		return nil, err
	}
	cb.BeginBlit(false)
	cb.CopyImgToBuf(&driver.BufImgCopy{
		Buf:    sb.buf,
		BufOff: 0,
		Img:    tex.img,
		ImgOff: driver.Off3D{},
		Layer:  layer,
		Level:  level,
		Size:   driver.Dim3D{Width: width, Height: height, Depth: 1},
	})
	cb.EndBlit()
	if err := cb.End(); err != nil {
		return nil, err
	}
	ch := make(chan error, 1)
	d.gpu.Commit([]driver.CmdBuffer{cb}, ch)
	if err := <-ch; err != nil {
		return nil, err
	}
	out := make([]byte, size)
	copy(out, sb.buf.Bytes()[:size])
	return out, nil
}

// writeLevel uploads data as one mip level of one array layer of tex,
// through a staging buffer. tex's view must already be in
// driver.LCopyDst layout.
func (d *Device) writeLevel(tex *textureBase, layer, level, width, height int, data []byte) error {
	sb, err := d.staging.acquire(int64(len(data)))
	if err != nil {
		return err
	}
	defer d.staging.release(sb)
	copy(sb.buf.Bytes(), data)

	cb, err := d.gpu.NewCmdBuffer()
	if err != nil {
		return err
	}
	defer cb.Destroy()
	if err := cb.Begin(); err != nil {
		return err
	}
	cb.BeginBlit(false)
	cb.CopyBufToImg(&driver.BufImgCopy{
		Buf:    sb.buf,
		BufOff: 0,
		Img:    tex.img,
		ImgOff: driver.Off3D{},
		Layer:  layer,
		Level:  level,
		Size:   driver.Dim3D{Width: width, Height: height, Depth: 1},
	})
	cb.EndBlit()
	if err := cb.End(); err != nil {
		return err
	}
	ch := make(chan error, 1)
	d.gpu.Commit([]driver.CmdBuffer{cb}, ch)
	return <-ch
}

// generateMipmaps fills in mip levels 1..N from level 0 by reading
// level 0 back to the CPU, box-filtering it down one level at a time,
// and writing each resulting level back through the staging buffer.
// package driver's CmdBuffer has no image-to-image blit with
// filtering, so this is a CPU round-trip rather than a GPU blit chain;
// it still gives generateMipmaps a concrete, testable effect on the
// texture's contents (spec.md §9, SPEC_FULL.md §7), unlike the
// driver-less mesh-task/resolve/query/debug-marker gaps recorded in
// DESIGN.md.
func (d *Device) generateMipmaps(tex *textureBase) error {
	bpp, ok := pixelFmtSize(tex.format)
	if !ok {
		logf(d.sink, Warning, "generateMipmaps: unsupported pixel format %d, mip levels left unwritten", tex.format)
		return nil
	}

	cb, err := d.gpu.NewCmdBuffer()
	if err != nil {
		return err
	}
	if err := cb.Begin(); err != nil {
		cb.Destroy()
		return err
	}
	cb.Transition([]driver.Transition{{LayoutBefore: tex.layout, LayoutAfter: driver.LCopySrc, IView: tex.view}})
	if err := cb.End(); err != nil {
		cb.Destroy()
		return err
	}
	ch := make(chan error, 1)
	d.gpu.Commit([]driver.CmdBuffer{cb}, ch)
	err = <-ch
	cb.Destroy()
	if err != nil {
		return err
	}
	tex.layout = driver.LCopySrc

	w0, h0 := tex.dim.Width, tex.dim.Height
	levels := make([][]byte, tex.layers)
	for layer := 0; layer < tex.layers; layer++ {
		data, err := d.readbackLevel(tex, layer, 0, w0, h0, bpp)
		if err != nil {
			return err
		}
		levels[layer] = data
	}

	cb, err = d.gpu.NewCmdBuffer()
	if err != nil {
		return err
	}
	if err := cb.Begin(); err != nil {
		cb.Destroy()
		return err
	}
	cb.Transition([]driver.Transition{{LayoutBefore: tex.layout, LayoutAfter: driver.LCopyDst, IView: tex.view}})
	if err := cb.End(); err != nil {
		cb.Destroy()
		return err
	}
	ch = make(chan error, 1)
	d.gpu.Commit([]driver.CmdBuffer{cb}, ch)
	err = <-ch
	cb.Destroy()
	if err != nil {
		return err
	}
	tex.layout = driver.LCopyDst

	for layer := 0; layer < tex.layers; layer++ {
		data := levels[layer]
		pw, ph := w0, h0
		for level := 1; level < tex.levels; level++ {
			down, nw, nh := downsample2x(data, pw, ph, bpp)
			if err := d.writeLevel(tex, layer, level, nw, nh, down); err != nil {
				return err
			}
			data, pw, ph = down, nw, nh
		}
	}

	cb, err = d.gpu.NewCmdBuffer()
	if err != nil {
		return err
	}
	if err := cb.Begin(); err != nil {
		cb.Destroy()
		return err
	}
	cb.Transition([]driver.Transition{{LayoutBefore: tex.layout, LayoutAfter: driver.LShaderRead, IView: tex.view}})
	if err := cb.End(); err != nil {
		cb.Destroy()
		return err
	}
	ch = make(chan error, 1)
	d.gpu.Commit([]driver.CmdBuffer{cb}, ch)
	err = <-ch
	cb.Destroy()
	if err != nil {
		return err
	}
	tex.layout = driver.LShaderRead
	return nil
}
