// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package rhi

import "github.com/gviegas/rhi/driver"

// textureBase is shared by every TextureSet variant: the backing
// driver.Image, its declared shape, and the shader-resource view
// package driver needs for sampling/storage access. Grounded on the
// teacher's engine/texture/texture.go, generalized from its fixed
// {2D, cube, render-target} kinds to the full dimension set spec.md
// §4.7 names.
type textureBase struct {
	resourceBase
	img    driver.Image
	view   driver.ImageView
	format driver.PixelFmt
	dim    driver.Dim3D
	layers int
	levels int
	layout driver.Layout
}

// Format returns the texture's pixel format.
func (t *textureBase) Format() driver.PixelFmt { return t.format }

// Levels returns the texture's mip-level count.
func (t *textureBase) Levels() int { return t.levels }

// View returns the shader-resource view used when binding this
// texture as a framebuffer attachment.
func (t *textureBase) View() driver.ImageView { return t.view }

// DimsAtLevel returns the width and height of mip level, halved level
// times from the base dimensions and floored at 1, matching the usual
// mip-chain sizing rule.
func (t *textureBase) DimsAtLevel(level int) (width, height int) {
	width, height = t.dim.Width, t.dim.Height
	for i := 0; i < level; i++ {
		if width > 1 {
			width /= 2
		}
		if height > 1 {
			height /= 2
		}
	}
	return
}

func newTextureBase(gpu driver.GPU, pf driver.PixelFmt, dim driver.Dim3D, layers, levels, samples int, usg driver.Usage, viewType driver.ViewType) (textureBase, error) {
	img, err := gpu.NewImage(pf, dim, layers, levels, samples, usg)
	if err != nil {
		return textureBase{}, err
	}
	view, err := img.NewView(viewType, 0, layers, 0, levels)
	if err != nil {
		img.Destroy()
		return textureBase{}, err
	}
	tb := textureBase{
		img: img, view: view, format: pf, dim: dim,
		layers: layers, levels: levels, layout: driver.LUndefined,
	}
	tb.resourceBase = newResourceBase(ResourceTexture, func() {
		view.Destroy()
		img.Destroy()
	})
	return tb, nil
}

// Texture1D is a one-dimensional, non-arrayed texture.
type Texture1D struct{ textureBase }

func (d *Device) NewTexture1D(pf driver.PixelFmt, width, levels int, usg driver.Usage) (*Texture1D, error) {
	tb, err := newTextureBase(d.gpu, pf, driver.Dim3D{Width: width}, 1, levels, 1, usg, driver.IView1D)
	if err != nil {
		return nil, err
	}
	return &Texture1D{tb}, nil
}

// Texture1DArray is an arrayed one-dimensional texture.
type Texture1DArray struct{ textureBase }

func (d *Device) NewTexture1DArray(pf driver.PixelFmt, width, layers, levels int, usg driver.Usage) (*Texture1DArray, error) {
	tb, err := newTextureBase(d.gpu, pf, driver.Dim3D{Width: width}, layers, levels, 1, usg, driver.IView1DArray)
	if err != nil {
		return nil, err
	}
	return &Texture1DArray{tb}, nil
}

// Texture2D is a two-dimensional, non-arrayed, non-multisampled (or
// multisampled, via samples > 1) texture.
type Texture2D struct{ textureBase }

func (d *Device) NewTexture2D(pf driver.PixelFmt, width, height, levels, samples int, usg driver.Usage) (*Texture2D, error) {
	vt := driver.IView2D
	if samples > 1 {
		vt = driver.IView2DMS
	}
	tb, err := newTextureBase(d.gpu, pf, driver.Dim3D{Width: width, Height: height}, 1, levels, samples, usg, vt)
	if err != nil {
		return nil, err
	}
	return &Texture2D{tb}, nil
}

// Texture2DArray is an arrayed two-dimensional texture.
type Texture2DArray struct{ textureBase }

func (d *Device) NewTexture2DArray(pf driver.PixelFmt, width, height, layers, levels, samples int, usg driver.Usage) (*Texture2DArray, error) {
	vt := driver.IView2DArray
	if samples > 1 {
		vt = driver.IView2DMSArray
	}
	tb, err := newTextureBase(d.gpu, pf, driver.Dim3D{Width: width, Height: height}, layers, levels, samples, usg, vt)
	if err != nil {
		return nil, err
	}
	return &Texture2DArray{tb}, nil
}

// Texture3D is a three-dimensional texture.
type Texture3D struct{ textureBase }

func (d *Device) NewTexture3D(pf driver.PixelFmt, width, height, depth, levels int, usg driver.Usage) (*Texture3D, error) {
	tb, err := newTextureBase(d.gpu, pf, driver.Dim3D{Width: width, Height: height, Depth: depth}, 1, levels, 1, usg, driver.IView3D)
	if err != nil {
		return nil, err
	}
	return &Texture3D{tb}, nil
}

// TextureCube is a six-layer cube texture.
type TextureCube struct{ textureBase }

func (d *Device) NewTextureCube(pf driver.PixelFmt, size, levels int, usg driver.Usage) (*TextureCube, error) {
	tb, err := newTextureBase(d.gpu, pf, driver.Dim3D{Width: size, Height: size}, 6, levels, 1, usg, driver.IViewCube)
	if err != nil {
		return nil, err
	}
	return &TextureCube{tb}, nil
}

// TextureCubeArray is an arrayed cube texture; layers counts cube
// faces, so it must be a multiple of 6.
type TextureCubeArray struct{ textureBase }

func (d *Device) NewTextureCubeArray(pf driver.PixelFmt, size, cubeLayers, levels int, usg driver.Usage) (*TextureCubeArray, error) {
	tb, err := newTextureBase(d.gpu, pf, driver.Dim3D{Width: size, Height: size}, cubeLayers*6, levels, 1, usg, driver.IViewCubeArray)
	if err != nil {
		return nil, err
	}
	return &TextureCubeArray{tb}, nil
}
