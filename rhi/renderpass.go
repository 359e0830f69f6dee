// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package rhi

import "github.com/gviegas/rhi/driver"

// RenderPass describes the attachments and subpass structure that
// Framebuffer and GraphicsPipeline are built against (spec.md §4.5
// "RenderPass"). Each subpass may use at most 7 color attachments and
// no more than Capabilities.MaxSimultaneousRenderTargets (itself
// capped at 8); otherwise NewRenderPass returns
// ErrTooManyColorAttachments.
type RenderPass struct {
	resourceBase
	pass    driver.RenderPass
	attachs []driver.Attachment
	subs    []driver.Subpass
}

// NewRenderPass validates and creates a render pass from the given
// attachment and subpass descriptions.
func (d *Device) NewRenderPass(attachs []driver.Attachment, subs []driver.Subpass) (*RenderPass, error) {
	for _, s := range subs {
		if len(s.Color) > maxSimultaneousRenderTargetsHardCap-1 {
			return nil, ErrTooManyColorAttachments
		}
		if len(s.Color) > d.caps.MaxSimultaneousRenderTargets {
			return nil, ErrTooManyColorAttachments
		}
	}
	pass, err := d.gpu.NewRenderPass(attachs, subs)
	if err != nil {
		return nil, err
	}
	rp := &RenderPass{
		pass:    pass,
		attachs: append([]driver.Attachment(nil), attachs...),
		subs:    append([]driver.Subpass(nil), subs...),
	}
	rp.resourceBase = newResourceBase(ResourceRenderPass, func() { pass.Destroy() })
	return rp, nil
}

// ColorAttachmentCount returns the number of color attachments used by
// subpass 0, the count GraphicsPipeline's blend state must match
// (ErrAttachmentCountMismatch).
func (rp *RenderPass) ColorAttachmentCount() int {
	if len(rp.subs) == 0 {
		return 0
	}
	return len(rp.subs[0].Color)
}
