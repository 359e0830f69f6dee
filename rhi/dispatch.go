// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package rhi

import (
	"encoding/binary"

	"github.com/gviegas/rhi/driver"
)

// dispatchHandler is the signature every dispatchTable entry
// implements: translate payload into calls against primary, mutating
// d's bound recording state as needed.
type dispatchHandler func(d *Device, primary driver.CmdBuffer, payload any) error

// dispatchTable is indexed by dispatchIndex (spec.md §4.2
// "CommandDispatchFunctionIndex"). Using a Go closure/function table
// in place of a raw function-pointer-plus-payload-pointer pair keeps
// the whole walk free of unsafe, per the source's own design notes
// (spec.md §9).
var dispatchTable [dispatchCount]dispatchHandler

func init() {
	dispatchTable[dispatchSetGraphicsRootSignature] = handleSetGraphicsRootSignature
	dispatchTable[dispatchSetGraphicsPipelineState] = handleSetGraphicsPipelineState
	dispatchTable[dispatchSetGraphicsResourceGroup] = handleSetGraphicsResourceGroup
	dispatchTable[dispatchSetGraphicsVertexArray] = handleSetGraphicsVertexArray
	dispatchTable[dispatchSetGraphicsViewports] = handleSetGraphicsViewports
	dispatchTable[dispatchSetGraphicsScissorRectangles] = handleSetGraphicsScissorRectangles
	dispatchTable[dispatchSetGraphicsRenderTarget] = handleSetGraphicsRenderTarget
	dispatchTable[dispatchClearGraphics] = handleClearGraphics
	dispatchTable[dispatchDrawGraphics] = handleDrawGraphics
	dispatchTable[dispatchDrawGraphicsEmulated] = handleDrawGraphicsEmulated
	dispatchTable[dispatchDrawIndexedGraphics] = handleDrawIndexedGraphics
	dispatchTable[dispatchDrawIndexedGraphicsEmulated] = handleDrawIndexedGraphicsEmulated
	dispatchTable[dispatchDrawIndexedGraphicsIndirect] = handleDrawIndexedGraphicsIndirect
	dispatchTable[dispatchDrawMeshTasks] = handleDrawMeshTasks
	dispatchTable[dispatchDrawMeshTasksIndirect] = handleDrawMeshTasksIndirect

	dispatchTable[dispatchSetComputeRootSignature] = handleSetComputeRootSignature
	dispatchTable[dispatchSetComputeResourceGroup] = handleSetComputeResourceGroup
	dispatchTable[dispatchSetComputePipelineState] = handleSetComputePipelineState
	dispatchTable[dispatchDispatchCompute] = handleDispatchCompute
	dispatchTable[dispatchDispatchComputeIndirect] = handleDispatchComputeIndirect

	dispatchTable[dispatchCopyResource] = handleCopyResource
	dispatchTable[dispatchResolveMultisampleFramebuffer] = handleResolveMultisampleFramebuffer
	dispatchTable[dispatchGenerateMipmaps] = handleGenerateMipmaps

	dispatchTable[dispatchBeginQuery] = handleBeginQuery
	dispatchTable[dispatchEndQuery] = handleEndQuery
	dispatchTable[dispatchResolveQueryPool] = handleResolveQueryPool

	dispatchTable[dispatchDebugMarkerBegin] = handleDebugMarkerBegin
	dispatchTable[dispatchDebugMarkerEnd] = handleDebugMarkerEnd
	dispatchTable[dispatchDebugMarkerInsert] = handleDebugMarkerInsert
	dispatchTable[dispatchSetDebugName] = handleSetDebugName
}

// --- Graphics handlers ---

func handleSetGraphicsRootSignature(d *Device, primary driver.CmdBuffer, payload any) error {
	d.graphicsRS = payload.(setGraphicsRootSignaturePayload).rs
	return nil
}

func handleSetGraphicsPipelineState(d *Device, primary driver.CmdBuffer, payload any) error {
	pl := payload.(setGraphicsPipelineStatePayload).pl
	d.graphicsPL = pl
	if d.pass == passInside {
		primary.SetPipeline(pl.pl)
	}
	return nil
}

func handleSetGraphicsResourceGroup(d *Device, primary driver.CmdBuffer, payload any) error {
	p := payload.(setGraphicsResourceGroupPayload)
	if d.graphicsRS == nil || p.index != p.group.RootParameterIndex() {
		return ErrDescriptorGroupMismatch
	}
	ensureRecording(d, primary)
	primary.SetDescTableGraph(d.graphicsRS.table, p.index, []int{int(p.group.slot)})
	return nil
}

func handleSetGraphicsVertexArray(d *Device, primary driver.CmdBuffer, payload any) error {
	va := payload.(setGraphicsVertexArrayPayload).va
	d.vertexArray = va
	if va == nil {
		return nil
	}
	bufs := make([]driver.Buffer, len(va.streams))
	offs := make([]int64, len(va.streams))
	for i, s := range va.streams {
		bufs[i] = s.buf.buf
		offs[i] = s.off
	}
	if len(bufs) > 0 {
		primary.SetVertexBuf(0, bufs, offs)
	}
	if va.index != nil {
		primary.SetIndexBuf(va.index.Format, va.index.buf, 0)
	}
	return nil
}

// handleSetGraphicsViewports translates viewports into driver.Viewport.
// The first viewport's Y is inverted and its height negated to
// compensate for the driver's Y-down clip space, matching
// original_source's rhidynamicrhi.cpp ("vkViewport.y +=
// vkViewport.height; vkViewport.height = -vkViewport.height;").
func handleSetGraphicsViewports(d *Device, primary driver.CmdBuffer, payload any) error {
	vps := payload.(setGraphicsViewportsPayload).viewports
	dv := make([]driver.Viewport, len(vps))
	for i, v := range vps {
		dv[i] = driver.Viewport{X: v.X, Y: v.Y, Width: v.Width, Height: v.Height, Znear: v.MinDepth, Zfar: v.MaxDepth}
	}
	if len(dv) > 0 {
		dv[0].Y += dv[0].Height
		dv[0].Height = -dv[0].Height
	}
	primary.SetViewport(dv)
	return nil
}

func handleSetGraphicsScissorRectangles(d *Device, primary driver.CmdBuffer, payload any) error {
	sciss := payload.(setGraphicsScissorsPayload).scissors
	ds := make([]driver.Scissor, len(sciss))
	for i, s := range sciss {
		ds[i] = driver.Scissor{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height}
	}
	primary.SetScissor(ds)
	return nil
}

func handleSetGraphicsRenderTarget(d *Device, primary driver.CmdBuffer, payload any) error {
	p := payload.(setGraphicsRenderTargetPayload)
	return d.setGraphicsRenderTargetIndexed(primary, p.target, p.index)
}

// setGraphicsRenderTarget closes any open pass against the current
// target (first running any pending clears, if old was a swap chain
// and new is nil) and, if target is non-nil, reopens the pass-outside
// state against it (spec.md §4.1 "setGraphicsRenderTarget
// transition").
func (d *Device) setGraphicsRenderTarget(primary driver.CmdBuffer, target renderTarget) error {
	return d.setGraphicsRenderTargetIndexed(primary, target, 0)
}

func (d *Device) setGraphicsRenderTargetIndexed(primary driver.CmdBuffer, target renderTarget, index int) error {
	neverOpened := d.pass == passHaveTargetOutside
	if d.pass == passInside {
		primary.EndPass()
		d.pass = passHaveTargetOutside
	}
	if target == nil {
		// If the old target is a swap chain and the new target is
		// null, a pass must still be begun (and immediately ended)
		// to run any pending clears before the target is dropped,
		// since no draw may ever open one otherwise.
		if _, wasSwapChain := d.target.(*SwapChain); wasSwapChain && neverOpened {
			ensureRecording(d, primary)
			if d.pass == passInside {
				primary.EndPass()
			}
		}
		d.target = nil
		d.targetIndex = index
		d.pass = passNoTarget
		return nil
	}
	d.target = target
	d.targetIndex = index
	d.pass = passHaveTargetOutside
	return nil
}

// ensureRecording opens a render pass against the current target if
// one is bound but not yet open, applying the stored clear values
// (spec.md §4.1).
func ensureRecording(d *Device, primary driver.CmdBuffer) {
	if d.pass != passHaveTargetOutside || d.target == nil {
		return
	}
	fb, rp := d.currentFramebuffer()
	if fb == nil {
		return
	}
	clears := make([]driver.ClearValue, 0, len(d.colors)+1)
	n := rp.ColorAttachmentCount()
	for i := 0; i < n; i++ {
		clears = append(clears, d.colors[i])
	}
	clears = append(clears, d.depth)
	primary.BeginPass(rp.pass, fb.fb, clears)
	d.pass = passInside
	if d.graphicsPL != nil {
		primary.SetPipeline(d.graphicsPL.pl)
	}
}

// currentFramebuffer resolves the bound target (a *Framebuffer
// directly, or one of a *SwapChain's per-image framebuffers) to the
// concrete Framebuffer/RenderPass pair to begin a pass against.
func (d *Device) currentFramebuffer() (*Framebuffer, *RenderPass) {
	switch t := d.target.(type) {
	case *Framebuffer:
		return t, t.rp
	case *SwapChain:
		fbs := t.Framebuffers()
		if d.targetIndex < 0 || d.targetIndex >= len(fbs) {
			return nil, nil
		}
		return fbs[d.targetIndex], t.rp
	default:
		return nil, nil
	}
}

func handleClearGraphics(d *Device, primary driver.CmdBuffer, payload any) error {
	p := payload.(clearGraphicsPayload)
	if p.flags&ClearColor != 0 && p.attachmentIndex < len(d.colors) {
		d.colors[p.attachmentIndex] = driver.ClearValue{Color: p.color}
	}
	if p.flags&(ClearDepth|ClearStencil) != 0 {
		if p.flags&ClearDepth != 0 {
			d.depth.Depth = p.depth
		}
		if p.flags&ClearStencil != 0 {
			d.depth.Stencil = p.stencil
		}
	}
	return nil
}

func handleDrawGraphics(d *Device, primary driver.CmdBuffer, payload any) error {
	ensureRecording(d, primary)
	p := payload.(drawGraphicsPayload)
	primary.Draw(p.vertCount, p.instCount, p.baseVert, p.baseInst)
	return nil
}

func handleDrawGraphicsEmulated(d *Device, primary driver.CmdBuffer, payload any) error {
	ensureRecording(d, primary)
	for _, a := range payload.(drawGraphicsEmulatedPayload).args {
		primary.Draw(a.VertexCount, a.InstanceCount, a.BaseVertex, a.BaseInstance)
	}
	return nil
}

func handleDrawIndexedGraphics(d *Device, primary driver.CmdBuffer, payload any) error {
	ensureRecording(d, primary)
	p := payload.(drawIndexedGraphicsPayload)
	primary.DrawIndexed(p.indexCount, p.instCount, p.baseIdx, p.vertOff, p.baseInst)
	return nil
}

func handleDrawIndexedGraphicsEmulated(d *Device, primary driver.CmdBuffer, payload any) error {
	ensureRecording(d, primary)
	for _, a := range payload.(drawIndexedGraphicsEmulatedPayload).args {
		primary.DrawIndexed(a.IndexCount, a.InstanceCount, a.BaseIndex, a.VertexOffset, a.BaseInstance)
	}
	return nil
}

// indirectDrawArgStride is the byte size of one DrawArguments-shaped
// record (4 little-endian uint32s) in an IndirectBuffer.
const indirectDrawArgStride = 16

// indirectDrawIndexedArgStride is the byte size of one
// DrawIndexedArguments-shaped record (5 little-endian uint32s).
const indirectDrawIndexedArgStride = 20

func handleDrawIndexedGraphicsIndirect(d *Device, primary driver.CmdBuffer, payload any) error {
	ensureRecording(d, primary)
	p := payload.(drawIndexedGraphicsIndirectPayload)
	bs := p.indirectBuf.Bytes()
	off := p.indirectOffset
	for i := 0; i < p.numberOfDraws; i++ {
		base := off + int64(i)*indirectDrawIndexedArgStride
		if base+indirectDrawIndexedArgStride > int64(len(bs)) {
			break
		}
		r := bs[base : base+indirectDrawIndexedArgStride]
		indexCount := int(binary.LittleEndian.Uint32(r[0:4]))
		instCount := int(binary.LittleEndian.Uint32(r[4:8]))
		baseIdx := int(binary.LittleEndian.Uint32(r[8:12]))
		vertOff := int(int32(binary.LittleEndian.Uint32(r[12:16])))
		baseInst := int(binary.LittleEndian.Uint32(r[16:20]))
		primary.DrawIndexed(indexCount, instCount, baseIdx, vertOff, baseInst)
	}
	return nil
}

func handleDrawMeshTasks(d *Device, primary driver.CmdBuffer, payload any) error {
	ensureRecording(d, primary)
	logf(d.sink, Warning, "mesh shading is not supported by this driver; draw_mesh_tasks is a no-op")
	return nil
}

func handleDrawMeshTasksIndirect(d *Device, primary driver.CmdBuffer, payload any) error {
	ensureRecording(d, primary)
	logf(d.sink, Warning, "mesh shading is not supported by this driver; draw_mesh_tasks_indirect is a no-op")
	return nil
}

// --- Compute handlers ---

func handleSetComputeRootSignature(d *Device, primary driver.CmdBuffer, payload any) error {
	d.computeRS = payload.(setComputeRootSignaturePayload).rs
	return nil
}

func handleSetComputeResourceGroup(d *Device, primary driver.CmdBuffer, payload any) error {
	p := payload.(setComputeResourceGroupPayload)
	if d.computeRS == nil || p.index != p.group.RootParameterIndex() {
		return ErrDescriptorGroupMismatch
	}
	primary.SetDescTableComp(d.computeRS.table, p.index, []int{int(p.group.slot)})
	return nil
}

func handleSetComputePipelineState(d *Device, primary driver.CmdBuffer, payload any) error {
	pl := payload.(setComputePipelineStatePayload).pl
	d.computePL = pl
	primary.SetPipeline(pl.pl)
	return nil
}

func handleDispatchCompute(d *Device, primary driver.CmdBuffer, payload any) error {
	p := payload.(dispatchComputePayload)
	primary.BeginWork(false)
	primary.Dispatch(p.groupCountX, p.groupCountY, p.groupCountZ)
	primary.EndWork()
	return nil
}

func handleDispatchComputeIndirect(d *Device, primary driver.CmdBuffer, payload any) error {
	p := payload.(dispatchComputeIndirectPayload)
	bs := p.indirectBuf.Bytes()
	if p.indirectOffset+12 > int64(len(bs)) {
		return ErrBufferSizeMisaligned
	}
	r := bs[p.indirectOffset : p.indirectOffset+12]
	x := int(binary.LittleEndian.Uint32(r[0:4]))
	y := int(binary.LittleEndian.Uint32(r[4:8]))
	z := int(binary.LittleEndian.Uint32(r[8:12]))
	primary.BeginWork(false)
	primary.Dispatch(x, y, z)
	primary.EndWork()
	return nil
}

// --- Resource handlers ---

// textureBaseOf extracts the shared textureBase from any concrete
// TextureSet variant, or reports ok=false for a non-texture Resource.
func textureBaseOf(r Resource) (*textureBase, bool) {
	switch t := r.(type) {
	case *Texture1D:
		return &t.textureBase, true
	case *Texture1DArray:
		return &t.textureBase, true
	case *Texture2D:
		return &t.textureBase, true
	case *Texture2DArray:
		return &t.textureBase, true
	case *Texture3D:
		return &t.textureBase, true
	case *TextureCube:
		return &t.textureBase, true
	case *TextureCubeArray:
		return &t.textureBase, true
	default:
		return nil, false
	}
}

// bufferBaseOf extracts the shared bufferBase from any concrete
// BufferSet variant.
func bufferBaseOf(r Resource) (*bufferBase, bool) {
	switch b := r.(type) {
	case *VertexBuffer:
		return &b.bufferBase, true
	case *IndexBuffer:
		return &b.bufferBase, true
	case *UniformBuffer:
		return &b.bufferBase, true
	case *StructuredBuffer:
		return &b.bufferBase, true
	case *TextureBuffer:
		return &b.bufferBase, true
	case *IndirectBuffer:
		return &b.bufferBase, true
	default:
		return nil, false
	}
}

func handleCopyResource(d *Device, primary driver.CmdBuffer, payload any) error {
	p := payload.(copyResourcePayload)
	primary.BeginBlit(false)
	defer primary.EndBlit()

	if db, ok := bufferBaseOf(p.dst); ok {
		sb, ok := bufferBaseOf(p.src)
		if !ok {
			return ErrUnmappedLayoutTransiton
		}
		primary.CopyBuffer(&driver.BufferCopy{From: sb.buf, To: db.buf, Size: sb.size})
		return nil
	}
	if dt, ok := textureBaseOf(p.dst); ok {
		st, ok := textureBaseOf(p.src)
		if !ok {
			return ErrUnmappedLayoutTransiton
		}
		primary.CopyImage(&driver.ImageCopy{
			From: st.img, To: dt.img,
			Size:   st.dim,
			Layers: st.layers,
		})
		return nil
	}
	return ErrUnmappedLayoutTransiton
}

func handleResolveMultisampleFramebuffer(d *Device, primary driver.CmdBuffer, payload any) error {
	logf(d.sink, Warning, "resolve_multisample_framebuffer: configure Subpass.MSR on the render pass instead; this driver has no standalone resolve command")
	return nil
}

func handleGenerateMipmaps(d *Device, primary driver.CmdBuffer, payload any) error {
	p := payload.(generateMipmapsPayload)
	tex, ok := textureBaseOf(p.tex)
	if !ok {
		return ErrUnmappedLayoutTransiton
	}
	return d.generateMipmaps(tex)
}

// --- Query handlers ---

func handleBeginQuery(d *Device, primary driver.CmdBuffer, payload any) error {
	logf(d.sink, PerformanceWarning, "hardware queries are not supported by this driver; begin_query is a no-op")
	return nil
}

func handleEndQuery(d *Device, primary driver.CmdBuffer, payload any) error {
	return nil
}

func handleResolveQueryPool(d *Device, primary driver.CmdBuffer, payload any) error {
	p := payload.(resolveQueryPoolPayload)
	for i := p.first; i < p.first+p.count && i < len(p.pool.results); i++ {
		p.pool.results[i] = 0
	}
	return nil
}

// --- Debug handlers ---

func handleDebugMarkerBegin(d *Device, primary driver.CmdBuffer, payload any) error {
	p := payload.(debugMarkerPayload)
	logf(d.sink, Trace, "debug marker begin: %s", p.name)
	return nil
}

func handleDebugMarkerEnd(d *Device, primary driver.CmdBuffer, payload any) error {
	logf(d.sink, Trace, "debug marker end")
	return nil
}

func handleDebugMarkerInsert(d *Device, primary driver.CmdBuffer, payload any) error {
	p := payload.(debugMarkerPayload)
	logf(d.sink, Trace, "debug marker insert: %s", p.name)
	return nil
}

func handleSetDebugName(d *Device, primary driver.CmdBuffer, payload any) error {
	p := payload.(setDebugNamePayload)
	logf(d.sink, Trace, "resource %p named %q", p.res, p.name)
	return nil
}
