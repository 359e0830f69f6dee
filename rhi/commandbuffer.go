// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package rhi

// dispatchIndex selects a handler from the package-level dispatch
// table (spec.md §4.2 "CommandDispatchFunctionIndex"). It is the
// discriminant stored in every commandPacket.
type dispatchIndex int

// Dispatch indices, grouped exactly as spec.md §4.2 describes:
// dispatch-command-buffer, then graphics, compute, resource, query
// and debug categories, each mapped to one entry in dispatchTable.
const (
	dispatchCommandBuffer dispatchIndex = iota

	dispatchSetGraphicsRootSignature
	dispatchSetGraphicsPipelineState
	dispatchSetGraphicsResourceGroup
	dispatchSetGraphicsVertexArray
	dispatchSetGraphicsViewports
	dispatchSetGraphicsScissorRectangles
	dispatchSetGraphicsRenderTarget
	dispatchClearGraphics
	dispatchDrawGraphics
	dispatchDrawGraphicsEmulated
	dispatchDrawIndexedGraphics
	dispatchDrawIndexedGraphicsEmulated
	dispatchDrawIndexedGraphicsIndirect
	dispatchDrawMeshTasks
	dispatchDrawMeshTasksIndirect

	dispatchSetComputeRootSignature
	dispatchSetComputeResourceGroup
	dispatchSetComputePipelineState
	dispatchDispatchCompute
	dispatchDispatchComputeIndirect

	dispatchCopyResource
	dispatchResolveMultisampleFramebuffer
	dispatchGenerateMipmaps

	dispatchBeginQuery
	dispatchEndQuery
	dispatchResolveQueryPool

	dispatchDebugMarkerBegin
	dispatchDebugMarkerEnd
	dispatchDebugMarkerInsert
	dispatchSetDebugName

	dispatchCount
)

// sentinelNext marks the end of a packet chain (spec.md §3
// "Invariant: packets are appended monotonically... terminating on
// sentinel").
const sentinelNext = ^uint32(0)

// commandPacket is one recorded command: a typed header (kind +
// payload) plus the forward link to the next packet. Using a Go
// interface value for payload in place of a raw byte blob keeps
// recording and dispatch memory-safe without unsafe casts, which the
// source's design notes call out as an acceptable alternative to a
// function-pointer/payload-pointer pair when performance allows
// (spec.md §9 "The command dispatcher").
type commandPacket struct {
	kind    dispatchIndex
	payload any
	next    uint32
}

// CommandBuffer is a linear, append-only record of commands. Building
// one never touches a Device: recording is pure data accumulation,
// and only Device.Submit interprets it, against whichever recording
// state is current at that time (spec.md §2 "Data-flow").
//
// CommandBuffer holds only weak references to the resources it
// mentions (spec.md §3 "Relationships & ownership"): callers must
// keep buffers, textures, pipelines and the like alive until
// the completion channel returned by Device.EndFrame fires.
type CommandBuffer struct {
	packets []commandPacket
}

// append adds a new packet and returns its index.
func (cb *CommandBuffer) append(kind dispatchIndex, payload any) int {
	idx := len(cb.packets)
	cb.packets = append(cb.packets, commandPacket{kind: kind, payload: payload, next: sentinelNext})
	if idx > 0 {
		cb.packets[idx-1].next = uint32(idx)
	}
	return idx
}

// Reset discards all recorded packets, allowing the CommandBuffer to
// be reused for a new recording.
func (cb *CommandBuffer) Reset() {
	cb.packets = cb.packets[:0]
}

// Len reports the number of recorded packets.
func (cb *CommandBuffer) Len() int { return len(cb.packets) }

// DispatchCommandBuffer appends a record that, when walked, recursively
// dispatches sub against the same device and recording state (spec.md
// §4.2: "Dispatching a command buffer from within a command buffer is
// allowed").
func (cb *CommandBuffer) DispatchCommandBuffer(sub *CommandBuffer) {
	cb.append(dispatchCommandBuffer, sub)
}

// --- Graphics recording ---

type setGraphicsRootSignaturePayload struct{ rs *RootSignature }

func (cb *CommandBuffer) SetGraphicsRootSignature(rs *RootSignature) {
	cb.append(dispatchSetGraphicsRootSignature, setGraphicsRootSignaturePayload{rs})
}

type setGraphicsPipelineStatePayload struct{ pl *GraphicsPipeline }

func (cb *CommandBuffer) SetGraphicsPipelineState(pl *GraphicsPipeline) {
	cb.append(dispatchSetGraphicsPipelineState, setGraphicsPipelineStatePayload{pl})
}

type setGraphicsResourceGroupPayload struct {
	index int
	group *ResourceGroup
}

func (cb *CommandBuffer) SetGraphicsResourceGroup(index int, group *ResourceGroup) {
	cb.append(dispatchSetGraphicsResourceGroup, setGraphicsResourceGroupPayload{index, group})
}

type setGraphicsVertexArrayPayload struct{ va *VertexArray }

func (cb *CommandBuffer) SetGraphicsVertexArray(va *VertexArray) {
	cb.append(dispatchSetGraphicsVertexArray, setGraphicsVertexArrayPayload{va})
}

// Viewport describes one viewport's bounds, in the engine's Y-up
// convention.
type Viewport struct {
	X, Y, Width, Height float32
	MinDepth, MaxDepth  float32
}

type setGraphicsViewportsPayload struct{ viewports []Viewport }

// SetGraphicsViewports records one or more viewports as the auxiliary
// tail of the packet (spec.md §4.8: "aux-memory holds embedded POD
// (e.g. viewport arrays)").
func (cb *CommandBuffer) SetGraphicsViewports(viewports []Viewport) {
	cp := append([]Viewport(nil), viewports...)
	cb.append(dispatchSetGraphicsViewports, setGraphicsViewportsPayload{cp})
}

// Scissor describes one scissor rectangle.
type Scissor struct{ X, Y, Width, Height int }

type setGraphicsScissorsPayload struct{ scissors []Scissor }

func (cb *CommandBuffer) SetGraphicsScissorRectangles(scissors []Scissor) {
	cp := append([]Scissor(nil), scissors...)
	cb.append(dispatchSetGraphicsScissorRectangles, setGraphicsScissorsPayload{cp})
}

type setGraphicsRenderTargetPayload struct {
	target renderTarget
	index  int
}

// renderTarget is either a *Framebuffer or a *SwapChain, the two
// things Device.setGraphicsRenderTarget accepts (spec.md §4.1). index
// is only meaningful when target is a *SwapChain: it selects which of
// the swapchain's per-image framebuffers to bind, and must be the
// value returned by the prior SwapChain.AcquireNext.
type renderTarget interface {
	isRenderTarget()
}

func (cb *CommandBuffer) SetGraphicsRenderTarget(target renderTarget, index int) {
	cb.append(dispatchSetGraphicsRenderTarget, setGraphicsRenderTargetPayload{target, index})
}

// ClearFlags selects which stored clear values a ClearGraphics call
// overwrites.
type ClearFlags int

// Clear flags.
const (
	ClearColor ClearFlags = 1 << iota
	ClearDepth
	ClearStencil
)

type clearGraphicsPayload struct {
	flags            ClearFlags
	color            [4]float32
	depth            float32
	stencil          uint32
	attachmentIndex  int
}

// ClearGraphics updates the stored clear value for one attachment;
// the actual driver clear happens at render-pass begin (spec.md §4.1
// "Clear-value storage").
func (cb *CommandBuffer) ClearGraphics(attachmentIndex int, flags ClearFlags, color [4]float32, depth float32, stencil uint32) {
	cb.append(dispatchClearGraphics, clearGraphicsPayload{flags, color, depth, stencil, attachmentIndex})
}

type drawGraphicsPayload struct{ vertCount, instCount, baseVert, baseInst int }

func (cb *CommandBuffer) DrawGraphics(vertCount, instCount, baseVert, baseInst int) {
	cb.append(dispatchDrawGraphics, drawGraphicsPayload{vertCount, instCount, baseVert, baseInst})
}

// DrawArguments mirrors a single indirect-draw argument block.
type DrawArguments struct {
	VertexCount, InstanceCount, BaseVertex, BaseInstance int
}

type drawGraphicsEmulatedPayload struct{ args []DrawArguments }

// DrawGraphicsEmulated iterates args on the CPU, issuing one draw per
// entry, for backends lacking native multi-draw-indirect (spec.md
// §4.1 "*_emulated variants").
func (cb *CommandBuffer) DrawGraphicsEmulated(args []DrawArguments) {
	cp := append([]DrawArguments(nil), args...)
	cb.append(dispatchDrawGraphicsEmulated, drawGraphicsEmulatedPayload{cp})
}

type drawIndexedGraphicsPayload struct{ indexCount, instCount, baseIdx, vertOff, baseInst int }

func (cb *CommandBuffer) DrawIndexedGraphics(indexCount, instCount, baseIdx, vertOff, baseInst int) {
	cb.append(dispatchDrawIndexedGraphics, drawIndexedGraphicsPayload{indexCount, instCount, baseIdx, vertOff, baseInst})
}

type drawIndexedGraphicsIndirectPayload struct {
	indirectBuf    *IndirectBuffer
	indirectOffset int64
	numberOfDraws  int
}

// DrawIndexedGraphicsIndirect records an indexed draw whose arguments
// are read from indirectBuf at dispatch time (spec.md §4.1
// "*_indirect variants"). package driver's CmdBuffer has no native
// indirect-draw entry point, so the handler decodes the argument
// blocks on the CPU and issues one DrawIndexed per entry — the same
// strategy the emulated variants use, just with the argument list
// coming from GPU-writable memory instead of a Go slice.
func (cb *CommandBuffer) DrawIndexedGraphicsIndirect(indirectBuf *IndirectBuffer, indirectOffset int64, numberOfDraws int) {
	cb.append(dispatchDrawIndexedGraphicsIndirect, drawIndexedGraphicsIndirectPayload{indirectBuf, indirectOffset, numberOfDraws})
}

// DrawIndexedArguments mirrors a single indexed indirect-draw
// argument block.
type DrawIndexedArguments struct {
	IndexCount, InstanceCount, BaseIndex, VertexOffset, BaseInstance int
}

type drawIndexedGraphicsEmulatedPayload struct{ args []DrawIndexedArguments }

func (cb *CommandBuffer) DrawIndexedGraphicsEmulated(args []DrawIndexedArguments) {
	cp := append([]DrawIndexedArguments(nil), args...)
	cb.append(dispatchDrawIndexedGraphicsEmulated, drawIndexedGraphicsEmulatedPayload{cp})
}

type drawMeshTasksPayload struct{ groupCountX, groupCountY, groupCountZ int }

func (cb *CommandBuffer) DrawMeshTasks(groupCountX, groupCountY, groupCountZ int) {
	cb.append(dispatchDrawMeshTasks, drawMeshTasksPayload{groupCountX, groupCountY, groupCountZ})
}

type drawMeshTasksIndirectPayload struct {
	indirectBuf    *IndirectBuffer
	indirectOffset int64
	numberOfDraws  int
}

// DrawMeshTasksIndirect records an indirect mesh-task dispatch. No
// GPU in the retrieval pack's driver backends exposes mesh shading, so
// the dispatch handler logs and treats this as a no-op rather than
// inventing a driver-level entry point (see DESIGN.md).
func (cb *CommandBuffer) DrawMeshTasksIndirect(indirectBuf *IndirectBuffer, indirectOffset int64, numberOfDraws int) {
	cb.append(dispatchDrawMeshTasksIndirect, drawMeshTasksIndirectPayload{indirectBuf, indirectOffset, numberOfDraws})
}

// --- Compute recording ---

type setComputeRootSignaturePayload struct{ rs *RootSignature }

func (cb *CommandBuffer) SetComputeRootSignature(rs *RootSignature) {
	cb.append(dispatchSetComputeRootSignature, setComputeRootSignaturePayload{rs})
}

type setComputeResourceGroupPayload struct {
	index int
	group *ResourceGroup
}

func (cb *CommandBuffer) SetComputeResourceGroup(index int, group *ResourceGroup) {
	cb.append(dispatchSetComputeResourceGroup, setComputeResourceGroupPayload{index, group})
}

type setComputePipelineStatePayload struct{ pl *ComputePipeline }

func (cb *CommandBuffer) SetComputePipelineState(pl *ComputePipeline) {
	cb.append(dispatchSetComputePipelineState, setComputePipelineStatePayload{pl})
}

type dispatchComputePayload struct{ groupCountX, groupCountY, groupCountZ int }

// DispatchCompute records a compute dispatch with the given group
// counts. spec.md §9 flags this as an open question in the source
// (the body was empty); here it is fully implemented per the
// documented contract.
func (cb *CommandBuffer) DispatchCompute(groupCountX, groupCountY, groupCountZ int) {
	cb.append(dispatchDispatchCompute, dispatchComputePayload{groupCountX, groupCountY, groupCountZ})
}

type dispatchComputeIndirectPayload struct {
	indirectBuf    *IndirectBuffer
	indirectOffset int64
}

func (cb *CommandBuffer) DispatchComputeIndirect(indirectBuf *IndirectBuffer, indirectOffset int64) {
	cb.append(dispatchDispatchComputeIndirect, dispatchComputeIndirectPayload{indirectBuf, indirectOffset})
}

// --- Resource recording ---

type copyResourcePayload struct{ dst, src Resource }

// CopyResource records a whole-resource copy between two buffers or
// two textures of matching layout. The original device's body was
// empty (spec.md §9); this module performs the semantic action.
func (cb *CommandBuffer) CopyResource(dst, src Resource) {
	cb.append(dispatchCopyResource, copyResourcePayload{dst, src})
}

type resolveMultisampleFramebufferPayload struct{ dst, src *Framebuffer }

func (cb *CommandBuffer) ResolveMultisampleFramebuffer(dst, src *Framebuffer) {
	cb.append(dispatchResolveMultisampleFramebuffer, resolveMultisampleFramebufferPayload{dst, src})
}

type generateMipmapsPayload struct{ tex Resource }

func (cb *CommandBuffer) GenerateMipmaps(tex Resource) {
	cb.append(dispatchGenerateMipmaps, generateMipmapsPayload{tex})
}

// --- Query recording ---

type beginQueryPayload struct {
	pool  *QueryPool
	index int
}

func (cb *CommandBuffer) BeginQuery(pool *QueryPool, index int) {
	cb.append(dispatchBeginQuery, beginQueryPayload{pool, index})
}

type endQueryPayload struct {
	pool  *QueryPool
	index int
}

func (cb *CommandBuffer) EndQuery(pool *QueryPool, index int) {
	cb.append(dispatchEndQuery, endQueryPayload{pool, index})
}

type resolveQueryPoolPayload struct {
	pool        *QueryPool
	first, count int
}

func (cb *CommandBuffer) ResolveQueryPool(pool *QueryPool, first, count int) {
	cb.append(dispatchResolveQueryPool, resolveQueryPoolPayload{pool, first, count})
}

// --- Debug recording ---

type debugMarkerPayload struct {
	name  string
	color [4]float32
}

func (cb *CommandBuffer) DebugMarkerBegin(name string, color [4]float32) {
	cb.append(dispatchDebugMarkerBegin, debugMarkerPayload{name, color})
}

func (cb *CommandBuffer) DebugMarkerEnd() {
	cb.append(dispatchDebugMarkerEnd, nil)
}

func (cb *CommandBuffer) DebugMarkerInsert(name string, color [4]float32) {
	cb.append(dispatchDebugMarkerInsert, debugMarkerPayload{name, color})
}

type setDebugNamePayload struct {
	res  Resource
	name string
}

func (cb *CommandBuffer) SetDebugName(res Resource, name string) {
	cb.append(dispatchSetDebugName, setDebugNamePayload{res, name})
}
