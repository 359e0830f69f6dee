// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package rhi

import (
	"fmt"

	"github.com/gviegas/rhi/driver"
)

// passState is the render-pass recording state of a Device, replacing
// a boolean "inside a render pass" flag with the three named states
// spec.md §9's redesign guidance calls for.
type passState int

// Render-pass states.
const (
	// passNoTarget: no render target bound, no pass open.
	passNoTarget passState = iota
	// passHaveTargetOutside: a render target is bound but no pass
	// is currently open (e.g. right after SetGraphicsRenderTarget,
	// before the first draw-affecting call reopens it).
	passHaveTargetOutside
	// passInside: a render pass is open against the bound target.
	passInside
)

// Device is the central object of this package: it owns the
// underlying driver.GPU, the current recording state that
// CommandBuffer dispatch mutates, and the id/staging allocators every
// resource constructor draws from (spec.md §4.1 "Device").
type Device struct {
	gpu  driver.GPU
	drv  driver.Driver
	sink LogSink
	caps Capabilities

	staging *stagingPool

	pipelineIDs    idAllocator
	vertexArrayIDs idAllocator

	primary      driver.CmdBuffer
	primaryBegun bool
	lastCommit   chan error

	// Bound state, mutated only while dispatching a CommandBuffer.
	graphicsRS   *RootSignature
	computeRS    *RootSignature
	graphicsPL   *GraphicsPipeline
	computePL    *ComputePipeline
	vertexArray  *VertexArray

	target      renderTarget
	targetIndex int
	pass        passState
	colors    [maxSimultaneousRenderTargetsHardCap - 1]driver.ClearValue
	depth     driver.ClearValue
}

// defaultClearColor and defaultClearDepthStencil are the documented
// defaults a Device's stored clear values start with (spec.md §4.1
// "Clear-value storage defaults").
var (
	defaultClearColor        = driver.ClearValue{Color: [4]float32{0, 0, 0, 1}}
	defaultClearDepthStencil = driver.ClearValue{Depth: 1.0, Stencil: 0}
)

// newDevice wraps gpu in a Device, ready to create resources and
// dispatch command buffers.
func newDevice(gpu driver.GPU, drv driver.Driver, sink LogSink) *Device {
	if sink == nil {
		sink = defaultLogSink
	}
	d := &Device{
		gpu:     gpu,
		drv:     drv,
		sink:    sink,
		caps:    capabilitiesFromLimits(drv.Name(), gpu.Limits()),
		staging: newStagingPool(gpu),
		depth:   defaultClearDepthStencil,
	}
	for i := range d.colors {
		d.colors[i] = defaultClearColor
	}
	return d
}

// Capabilities returns the device's capability table.
func (d *Device) Capabilities() Capabilities { return d.caps }

// Close releases the underlying driver resources. The Device must not
// be used afterwards.
func (d *Device) Close() {
	if d.primary != nil {
		d.primary.Destroy()
	}
}

// primaryCmdBuffer lazily creates and begins the device's primary
// command buffer, the one every CommandBuffer dispatched via Submit is
// translated into (spec.md §4.2 "Command-buffer submission").
func (d *Device) primaryCmdBuffer() (driver.CmdBuffer, error) {
	if d.primary == nil {
		cb, err := d.gpu.NewCmdBuffer()
		if err != nil {
			return nil, err
		}
		d.primary = cb
	}
	if !d.primaryBegun {
		if err := d.primary.Begin(); err != nil {
			return nil, err
		}
		d.primaryBegun = true
	}
	return d.primary, nil
}

// BeginFrame prepares the primary command buffer for a new batch of
// work. It must be called once before the first Submit of a frame.
func (d *Device) BeginFrame() error {
	_, err := d.primaryCmdBuffer()
	return err
}

// Submit walks cb's recorded packets, translating each into calls
// against the primary command buffer and the device's current
// recording state (spec.md §2 "Data-flow", §4.2 "CommandDispatchFunctionIndex").
func (d *Device) Submit(cb *CommandBuffer) error {
	primary, err := d.primaryCmdBuffer()
	if err != nil {
		return err
	}
	return d.walk(cb, primary)
}

// walk visits every packet of cb in record order exactly once,
// recursing into sub-command-buffers when it encounters
// dispatchCommandBuffer (testable property #1).
func (d *Device) walk(cb *CommandBuffer, primary driver.CmdBuffer) error {
	for i := 0; i < len(cb.packets); {
		p := cb.packets[i]
		if p.kind == dispatchCommandBuffer {
			if err := d.walk(p.payload.(*CommandBuffer), primary); err != nil {
				return err
			}
		} else {
			h := dispatchTable[p.kind]
			if h == nil {
				return fmt.Errorf("rhi: no dispatch handler for index %d", p.kind)
			}
			if err := h(d, primary, p.payload); err != nil {
				return err
			}
		}
		if p.next == sentinelNext {
			break
		}
		i = int(p.next)
	}
	return nil
}

// EndFrame closes any still-open render pass, unbinds the vertex
// array, ends the primary command buffer and commits it, returning a
// channel that receives the completion result (spec.md §4.2: "force
// setGraphicsRenderTarget(nil) + unset vertex array, then End").
func (d *Device) EndFrame() (<-chan error, error) {
	if err := d.setGraphicsRenderTarget(d.primary, nil); err != nil {
		return nil, err
	}
	d.vertexArray = nil
	if err := d.primary.End(); err != nil {
		return nil, err
	}
	d.primaryBegun = false
	ch := make(chan error, 1)
	d.gpu.Commit([]driver.CmdBuffer{d.primary}, ch)
	d.lastCommit = ch
	return ch, nil
}

// waitIdle blocks until the most recently committed batch finishes.
func (d *Device) waitIdle() error {
	if d.lastCommit == nil {
		return nil
	}
	return <-d.lastCommit
}
