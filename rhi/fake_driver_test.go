// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package rhi

import "github.com/gviegas/rhi/driver"

// fakeCmdBuffer is an in-memory driver.CmdBuffer that records which
// methods were called instead of issuing real GPU work. It lets the
// dispatcher's packet-walking logic be exercised without a real
// driver.vk/Vulkan device, the way the teacher's own test suite
// always requires actual hardware (driver/common_test.go opens a real
// driver.Driver); dispatch logic is pure enough to verify in memory
// instead.
type fakeCmdBuffer struct {
	calls []string
}

func (c *fakeCmdBuffer) Destroy()    {}
func (c *fakeCmdBuffer) Begin() error { c.calls = append(c.calls, "Begin"); return nil }
func (c *fakeCmdBuffer) BeginPass(pass driver.RenderPass, fb driver.Framebuf, clear []driver.ClearValue) {
	c.calls = append(c.calls, "BeginPass")
}
func (c *fakeCmdBuffer) NextSubpass() { c.calls = append(c.calls, "NextSubpass") }
func (c *fakeCmdBuffer) EndPass()     { c.calls = append(c.calls, "EndPass") }
func (c *fakeCmdBuffer) BeginWork(wait bool) { c.calls = append(c.calls, "BeginWork") }
func (c *fakeCmdBuffer) EndWork()            { c.calls = append(c.calls, "EndWork") }
func (c *fakeCmdBuffer) BeginBlit(wait bool) { c.calls = append(c.calls, "BeginBlit") }
func (c *fakeCmdBuffer) EndBlit()            { c.calls = append(c.calls, "EndBlit") }
func (c *fakeCmdBuffer) SetPipeline(pl driver.Pipeline)               { c.calls = append(c.calls, "SetPipeline") }
func (c *fakeCmdBuffer) SetViewport(vp []driver.Viewport)             { c.calls = append(c.calls, "SetViewport") }
func (c *fakeCmdBuffer) SetScissor(s []driver.Scissor)                { c.calls = append(c.calls, "SetScissor") }
func (c *fakeCmdBuffer) SetBlendColor(r, g, b, a float32)             {}
func (c *fakeCmdBuffer) SetStencilRef(v uint32)                       {}
func (c *fakeCmdBuffer) SetVertexBuf(start int, buf []driver.Buffer, off []int64) {
	c.calls = append(c.calls, "SetVertexBuf")
}
func (c *fakeCmdBuffer) SetIndexBuf(format driver.IndexFmt, buf driver.Buffer, off int64) {
	c.calls = append(c.calls, "SetIndexBuf")
}
func (c *fakeCmdBuffer) SetDescTableGraph(t driver.DescTable, start int, hc []int) {
	c.calls = append(c.calls, "SetDescTableGraph")
}
func (c *fakeCmdBuffer) SetDescTableComp(t driver.DescTable, start int, hc []int) {
	c.calls = append(c.calls, "SetDescTableComp")
}
func (c *fakeCmdBuffer) Draw(vertCount, instCount, baseVert, baseInst int) {
	c.calls = append(c.calls, "Draw")
}
func (c *fakeCmdBuffer) DrawIndexed(idxCount, instCount, baseIdx, vertOff, baseInst int) {
	c.calls = append(c.calls, "DrawIndexed")
}
func (c *fakeCmdBuffer) Dispatch(x, y, z int) { c.calls = append(c.calls, "Dispatch") }
func (c *fakeCmdBuffer) CopyBuffer(p *driver.BufferCopy)   { c.calls = append(c.calls, "CopyBuffer") }
func (c *fakeCmdBuffer) CopyImage(p *driver.ImageCopy)     { c.calls = append(c.calls, "CopyImage") }
func (c *fakeCmdBuffer) CopyBufToImg(p *driver.BufImgCopy) { c.calls = append(c.calls, "CopyBufToImg") }
func (c *fakeCmdBuffer) CopyImgToBuf(p *driver.BufImgCopy) { c.calls = append(c.calls, "CopyImgToBuf") }
func (c *fakeCmdBuffer) Fill(buf driver.Buffer, off int64, value byte, size int64) {}
func (c *fakeCmdBuffer) Barrier(b []driver.Barrier)         {}
func (c *fakeCmdBuffer) Transition(t []driver.Transition)   { c.calls = append(c.calls, "Transition") }
func (c *fakeCmdBuffer) End() error                         { c.calls = append(c.calls, "End"); return nil }
func (c *fakeCmdBuffer) Reset() error                       { c.calls = nil; return nil }

// fakeBuffer is an in-memory driver.Buffer.
type fakeBuffer struct {
	data []byte
	vis  bool
}

func (b *fakeBuffer) Destroy()       {}
func (b *fakeBuffer) Visible() bool  { return b.vis }
func (b *fakeBuffer) Bytes() []byte  { return b.data }
func (b *fakeBuffer) Cap() int64     { return int64(len(b.data)) }

// fakeImageView and fakeImage are in-memory driver.Image(View)s.
type fakeImageView struct{}

func (fakeImageView) Destroy() {}

type fakeImage struct{}

func (fakeImage) Destroy() {}
func (fakeImage) NewView(typ driver.ViewType, layer, layers, level, levels int) (driver.ImageView, error) {
	return fakeImageView{}, nil
}

type fakeDescHeap struct{ n int }

func (h *fakeDescHeap) Destroy()  {}
func (h *fakeDescHeap) New(n int) error {
	h.n = n
	return nil
}
func (h *fakeDescHeap) SetBuffer(cpy, nr, start int, buf []driver.Buffer, off, size []int64) {}
func (h *fakeDescHeap) SetImage(cpy, nr, start int, iv []driver.ImageView)                    {}
func (h *fakeDescHeap) SetSampler(cpy, nr, start int, splr []driver.Sampler)                  {}
func (h *fakeDescHeap) Count() int { return h.n }

type fakeDescTable struct{}

func (fakeDescTable) Destroy() {}

type fakePipeline struct{}

func (fakePipeline) Destroy() {}

type fakeRenderPass struct{ sub []driver.Subpass }

func (fakeRenderPass) Destroy() {}
func (p fakeRenderPass) NewFB(iv []driver.ImageView, width, height, layers int) (driver.Framebuf, error) {
	return fakeFramebuf{}, nil
}

type fakeFramebuf struct{}

func (fakeFramebuf) Destroy() {}

type fakeSampler struct{}

func (fakeSampler) Destroy() {}

// fakeGPU is an in-memory driver.GPU used by dispatcher/swap-chain
// tests.
type fakeGPU struct {
	cb *fakeCmdBuffer
}

func (g *fakeGPU) Driver() driver.Driver { return fakeDriver{} }
func (g *fakeGPU) Commit(cb []driver.CmdBuffer, ch chan<- error) {
	if ch != nil {
		ch <- nil
	}
}
func (g *fakeGPU) NewCmdBuffer() (driver.CmdBuffer, error) {
	g.cb = &fakeCmdBuffer{}
	return g.cb, nil
}
func (g *fakeGPU) NewRenderPass(att []driver.Attachment, sub []driver.Subpass) (driver.RenderPass, error) {
	return fakeRenderPass{sub: sub}, nil
}
func (g *fakeGPU) NewShaderCode(data []byte) (driver.ShaderCode, error) { return nil, nil }
func (g *fakeGPU) NewDescHeap(ds []driver.Descriptor) (driver.DescHeap, error) {
	return &fakeDescHeap{}, nil
}
func (g *fakeGPU) NewDescTable(dh []driver.DescHeap) (driver.DescTable, error) {
	return fakeDescTable{}, nil
}
func (g *fakeGPU) NewPipeline(state any) (driver.Pipeline, error) { return fakePipeline{}, nil }
func (g *fakeGPU) NewBuffer(size int64, visible bool, usg driver.Usage) (driver.Buffer, error) {
	return &fakeBuffer{data: make([]byte, size), vis: visible}, nil
}
func (g *fakeGPU) NewImage(pf driver.PixelFmt, size driver.Dim3D, layers, levels, samples int, usg driver.Usage) (driver.Image, error) {
	return fakeImage{}, nil
}
func (g *fakeGPU) NewSampler(spln *driver.Sampling) (driver.Sampler, error) { return fakeSampler{}, nil }
func (g *fakeGPU) Limits() driver.Limits {
	return driver.Limits{
		MaxImage2D: 4096, MaxLayers: 256, MaxDescHeaps: 8,
		MaxDBuffer: 16, MaxDImage: 16, MaxDConstant: 16, MaxDTexture: 16, MaxDSampler: 16,
		MaxDBufferRange: 1 << 20, MaxDConstantRange: 1 << 16,
		MaxColorTargets: 8, MaxFBSize: 8192, MaxFBLayers: 256,
		MaxPointSize: 64, MaxViewports: 16, MaxVertexIn: 16, MaxFragmentIn: 16,
	}
}

type fakeDriver struct{}

func (fakeDriver) Open() (driver.GPU, error) { return &fakeGPU{}, nil }
func (fakeDriver) Name() string              { return "fake" }
func (fakeDriver) Close()                    {}

func newTestDevice() *Device {
	return newDevice(&fakeGPU{}, fakeDriver{}, nil)
}
