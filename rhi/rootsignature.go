// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package rhi

import "github.com/gviegas/rhi/driver"

// descriptorPoolCap is the number of ResourceGroup instances a
// RootSignature's descriptor pool can serve simultaneously, applied
// uniformly to every descriptor range it declares. original_source's
// rhiroot_signature.cpp hard-codes 4242; this module rounds that down
// to a power-of-two-friendly 4096, recorded as an Open Question
// decision in DESIGN.md.
const descriptorPoolCap = 4096

// DescriptorRange is one contiguous run of same-type descriptors
// within a root parameter (spec.md §4.3 "RootSignature").
type DescriptorRange struct {
	Resource RangeResourceType
	Access   RangeType
	Count    int
	BaseSlot int
}

// RootParameter is one binding slot of a root signature: a table of
// descriptor ranges visible to a given set of shader stages.
type RootParameter struct {
	Ranges     []DescriptorRange
	Visibility ShaderVisibility
}

// StaticSampler is an immutable sampler baked directly into the root
// signature, never bound through a ResourceGroup.
type StaticSampler struct {
	Desc       SamplerDesc
	Slot       int
	Visibility ShaderVisibility
}

// RootSignature is the immutable description of everything a
// pipeline's shaders can access: an ordered list of root parameters
// plus any static samplers (spec.md §4.3). It owns one driver.DescHeap
// per root parameter and the aggregate driver.DescTable built from
// them, matching the one-heap-per-parameter layout driver/vk's
// descriptor-pool construction expects.
type RootSignature struct {
	resourceBase
	params         []RootParameter
	heaps          []driver.DescHeap
	table          driver.DescTable
	staticSamplers []*SamplerState
	slots          idAllocator
}

// Params returns the root parameter layout, for ResourceGroup
// validation.
func (rs *RootSignature) Params() []RootParameter { return rs.params }

// NewRootSignature builds the descriptor heaps and pipeline layout for
// params (plus any staticSamplers), sized to serve descriptorPoolCap
// concurrent ResourceGroup instances (spec.md §4.3 "pool sizing
// invariant": poolSize[type] = maxSets * sum(ranges of that type)).
func (d *Device) NewRootSignature(params []RootParameter, staticSamplers []*SamplerState) (*RootSignature, error) {
	heaps := make([]driver.DescHeap, 0, len(params))
	destroyHeaps := func() {
		for _, h := range heaps {
			h.Destroy()
		}
	}

	for _, p := range params {
		if len(p.Ranges) == 0 {
			destroyHeaps()
			return nil, ErrRootParameterOutOfRange
		}
		descs := make([]driver.Descriptor, 0, len(p.Ranges))
		for _, r := range p.Ranges {
			dt, err := descriptorType(r.Resource, r.Access)
			if err != nil {
				destroyHeaps()
				return nil, err
			}
			descs = append(descs, driver.Descriptor{
				Type:   dt,
				Stages: stageMask(p.Visibility),
				Nr:     r.BaseSlot,
				Len:    r.Count,
			})
		}
		heap, err := d.gpu.NewDescHeap(descs)
		if err != nil {
			destroyHeaps()
			return nil, err
		}
		if err := heap.New(descriptorPoolCap); err != nil {
			heap.Destroy()
			destroyHeaps()
			return nil, ErrDescriptorPoolExhausted
		}
		heaps = append(heaps, heap)
	}

	table, err := d.gpu.NewDescTable(heaps)
	if err != nil {
		destroyHeaps()
		return nil, err
	}

	rs := &RootSignature{
		params:         append([]RootParameter(nil), params...),
		heaps:          heaps,
		table:          table,
		staticSamplers: append([]*SamplerState(nil), staticSamplers...),
	}
	rs.resourceBase = newResourceBase(ResourceRootSignature, func() {
		table.Destroy()
		for _, h := range heaps {
			h.Destroy()
		}
		for _, s := range rs.staticSamplers {
			s.Release()
		}
	})
	for _, s := range staticSamplers {
		s.Incref()
	}
	return rs, nil
}
