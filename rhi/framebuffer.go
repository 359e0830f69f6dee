// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package rhi

import "github.com/gviegas/rhi/driver"

// framebufferAttachment is the shape every TextureSet variant exposes
// for use as a render target (spec.md §4.5 "Framebuffer").
type framebufferAttachment interface {
	View() driver.ImageView
	DimsAtLevel(level int) (width, height int)
}

// Attach pairs an attachment's texture with the mip level and layer
// range to render into.
type Attach struct {
	Tex        framebufferAttachment
	Level      int
	Layer      int
	LayerCount int
}

// Framebuffer is a fixed set of attachment views bound to a
// RenderPass (spec.md §4.5). Its extent is the minimum width/height
// across every attachment's chosen mip level, per testable property
// #5, rather than an explicitly supplied size the caller could get
// wrong.
type Framebuffer struct {
	resourceBase
	fb            driver.Framebuf
	rp            *RenderPass
	width, height int
	layers        int
}

func (*Framebuffer) isRenderTarget() {}

// NewFramebuffer builds a Framebuffer for rp from the given
// attachments.
func (d *Device) NewFramebuffer(rp *RenderPass, attachs []Attach) (*Framebuffer, error) {
	if len(attachs) == 0 {
		return nil, ErrAttachmentCountMismatch
	}
	views := make([]driver.ImageView, len(attachs))
	width, height := -1, -1
	layers := attachs[0].LayerCount
	if layers == 0 {
		layers = 1
	}
	for i, a := range attachs {
		views[i] = a.Tex.View()
		w, h := a.Tex.DimsAtLevel(a.Level)
		if width == -1 || w < width {
			width = w
		}
		if height == -1 || h < height {
			height = h
		}
	}
	fb, err := rp.pass.NewFB(views, width, height, layers)
	if err != nil {
		return nil, err
	}
	rp.Incref()
	f := &Framebuffer{fb: fb, rp: rp, width: width, height: height, layers: layers}
	f.resourceBase = newResourceBase(ResourceFramebuffer, func() {
		fb.Destroy()
		rp.Release()
	})
	return f, nil
}

// Width and Height report the framebuffer's computed extent.
func (f *Framebuffer) Width() int  { return f.width }
func (f *Framebuffer) Height() int { return f.height }
