// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package rhi

import "github.com/gviegas/rhi/driver"

// ResourceGroup is a set of resource bindings for one root parameter:
// an allocated descriptor-heap copy plus strong references to every
// resource bound into it, keeping them alive for as long as the group
// exists (spec.md §4.3 "ResourceGroup", §3 "Relationships &
// ownership"). Its layout must match the root parameter it is built
// against (testable property #3); NewResourceGroup enforces this by
// construction rather than checking it at bind time.
type ResourceGroup struct {
	resourceBase
	rs        *RootSignature
	paramIdx  int
	slot      uint16
	refs      []Resource
}

// RootParameterIndex returns the root parameter this group was built
// for, checked against the index given to
// CommandBuffer.Set{Graphics,Compute}ResourceGroup at dispatch time.
func (g *ResourceGroup) RootParameterIndex() int { return g.paramIdx }

// BufferBinding binds a buffer range into a descriptor range slot.
type BufferBinding struct {
	Buf    driver.Buffer
	Off    int64
	Size   int64
	Nr     int
	Start  int
}

// ImageBinding binds an image view into a descriptor range slot.
type ImageBinding struct {
	View  driver.ImageView
	Nr    int
	Start int
}

// SamplerBinding binds a sampler into a descriptor range slot.
type SamplerBinding struct {
	Sampler *SamplerState
	Nr      int
	Start   int
}

// NewResourceGroup allocates one descriptor-heap copy from rs for root
// parameter paramIdx and writes the given bindings into it.
func (d *Device) NewResourceGroup(rs *RootSignature, paramIdx int, buffers []BufferBinding, images []ImageBinding, samplers []SamplerBinding, resources []Resource) (*ResourceGroup, error) {
	if paramIdx < 0 || paramIdx >= len(rs.params) {
		return nil, ErrRootParameterOutOfRange
	}
	slot, err := rs.slots.New()
	if err != nil {
		return nil, ErrDescriptorPoolExhausted
	}
	if int(slot) >= descriptorPoolCap {
		rs.slots.Free(slot)
		return nil, ErrDescriptorPoolExhausted
	}

	heap := rs.heaps[paramIdx]
	for _, b := range buffers {
		heap.SetBuffer(int(slot), b.Nr, b.Start, []driver.Buffer{b.Buf}, []int64{b.Off}, []int64{b.Size})
	}
	for _, im := range images {
		heap.SetImage(int(slot), im.Nr, im.Start, []driver.ImageView{im.View})
	}
	for _, s := range samplers {
		heap.SetSampler(int(slot), s.Nr, s.Start, []driver.Sampler{s.splrOf()})
	}

	g := &ResourceGroup{rs: rs, paramIdx: paramIdx, slot: slot}
	rs.Incref()
	g.refs = append(g.refs, resources...)
	for _, r := range resources {
		r.Incref()
	}
	g.resourceBase = newResourceBase(ResourceResourceGroup, func() {
		rs.slots.Free(slot)
		for _, r := range g.refs {
			r.Release()
		}
		rs.Release()
	})
	return g, nil
}

// splrOf exposes the underlying driver.Sampler without making
// SamplerState.splr itself exported.
func (s *SamplerState) splrOf() driver.Sampler { return s.splr }
