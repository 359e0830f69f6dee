// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package rhi

import "github.com/gviegas/rhi/driver"

// GraphicsPipelineDesc describes a graphics pipeline (spec.md §4.4
// "Pipeline"). Viewports and scissor rectangles are always dynamic
// state, set per command buffer via
// CommandBuffer.SetGraphicsViewports/SetGraphicsScissorRectangles,
// matching package driver's CmdBuffer.SetViewport/SetScissor model;
// there is no static viewport field here.
type GraphicsPipelineDesc struct {
	VertexShader   driver.ShaderFunc
	FragmentShader driver.ShaderFunc
	RootSignature  *RootSignature
	Input          []driver.VertexIn
	Topology       Topology
	Raster         driver.RasterState
	Samples        int
	DepthStencil   driver.DSState
	Blend          driver.BlendState
	RenderPass     *RenderPass
	Subpass        int
}

// GraphicsPipeline is an immutable, compiled graphics pipeline state
// object, with a compact 16-bit id allocated from the owning Device
// (spec.md §3 "Compact 16-bit id").
type GraphicsPipeline struct {
	resourceBase
	pl       driver.Pipeline
	id       uint16
	rs       *RootSignature
	rp       *RenderPass
	patchCtl int
}

// ID returns the pipeline's compact identifier.
func (p *GraphicsPipeline) ID() uint16 { return p.id }

// NewGraphicsPipeline validates desc against its render pass (blend
// attachment count, patch-control-point range, 7-attachment cap) and
// compiles the pipeline.
func (d *Device) NewGraphicsPipeline(desc GraphicsPipelineDesc) (*GraphicsPipeline, error) {
	n := desc.RenderPass.ColorAttachmentCount()
	if n > maxSimultaneousRenderTargetsHardCap-1 {
		return nil, ErrTooManyColorAttachments
	}
	if desc.Blend.IndependentBlend && len(desc.Blend.Color) != n {
		return nil, ErrAttachmentCountMismatch
	}
	topo, patchCtl, err := toDriverTopology(desc.Topology)
	if err != nil {
		return nil, err
	}

	gs := &driver.GraphState{
		VertFunc: desc.VertexShader,
		FragFunc: desc.FragmentShader,
		Desc:     desc.RootSignature.table,
		Input:    desc.Input,
		Topology: topo,
		Raster:   desc.Raster,
		Samples:  desc.Samples,
		DS:       desc.DepthStencil,
		Blend:    desc.Blend,
		Pass:     desc.RenderPass.pass,
		Subpass:  desc.Subpass,
	}
	pl, err := d.gpu.NewPipeline(gs)
	if err != nil {
		return nil, err
	}
	id, err := d.pipelineIDs.New()
	if err != nil {
		pl.Destroy()
		return nil, err
	}

	desc.RootSignature.Incref()
	desc.RenderPass.Incref()
	p := &GraphicsPipeline{pl: pl, id: id, rs: desc.RootSignature, rp: desc.RenderPass, patchCtl: patchCtl}
	p.resourceBase = newResourceBase(ResourcePipeline, func() {
		pl.Destroy()
		d.pipelineIDs.Free(id)
		desc.RootSignature.Release()
		desc.RenderPass.Release()
	})
	return p, nil
}

// ComputePipelineDesc describes a compute pipeline.
type ComputePipelineDesc struct {
	Shader        driver.ShaderFunc
	RootSignature *RootSignature
}

// ComputePipeline is an immutable, compiled compute pipeline state
// object.
type ComputePipeline struct {
	resourceBase
	pl driver.Pipeline
	id uint16
	rs *RootSignature
}

func (p *ComputePipeline) ID() uint16 { return p.id }

// NewComputePipeline compiles desc into a compute pipeline.
func (d *Device) NewComputePipeline(desc ComputePipelineDesc) (*ComputePipeline, error) {
	cs := &driver.CompState{Func: desc.Shader, Desc: desc.RootSignature.table}
	pl, err := d.gpu.NewPipeline(cs)
	if err != nil {
		return nil, err
	}
	id, err := d.pipelineIDs.New()
	if err != nil {
		pl.Destroy()
		return nil, err
	}
	desc.RootSignature.Incref()
	p := &ComputePipeline{pl: pl, id: id, rs: desc.RootSignature}
	p.resourceBase = newResourceBase(ResourcePipeline, func() {
		pl.Destroy()
		d.pipelineIDs.Free(id)
		desc.RootSignature.Release()
	})
	return p, nil
}
