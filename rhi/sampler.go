// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package rhi

import "github.com/gviegas/rhi/driver"

// SamplerState wraps a driver.Sampler built from a FilterMode plus
// addressing/comparison parameters (spec.md §4.6 "SamplerState"),
// grounded on original_source's rhisampler_state, whose construction
// splits a single filter enum into independent min/mag/mip choices
// exactly as decomposeFilter does here.
type SamplerState struct {
	resourceBase
	splr driver.Sampler
}

// SamplerDesc describes a sampler to be created.
type SamplerDesc struct {
	Filter       FilterMode
	AddrU, AddrV, AddrW driver.AddrMode
	MaxAnisotropy int
	Cmp          driver.CmpFunc
	MinLOD, MaxLOD float32
}

// NewSamplerState creates a sampler from desc.
func (d *Device) NewSamplerState(desc SamplerDesc) (*SamplerState, error) {
	min, mag, mip := decomposeFilter(desc.Filter, d.sink)
	spln := &driver.Sampling{
		Min:      min,
		Mag:      mag,
		Mipmap:   mip,
		AddrU:    desc.AddrU,
		AddrV:    desc.AddrV,
		AddrW:    desc.AddrW,
		MaxAniso: desc.MaxAnisotropy,
		Cmp:      desc.Cmp,
		MinLOD:   desc.MinLOD,
		MaxLOD:   desc.MaxLOD,
	}
	splr, err := d.gpu.NewSampler(spln)
	if err != nil {
		return nil, err
	}
	s := &SamplerState{splr: splr}
	s.resourceBase = newResourceBase(ResourceSampler, func() { splr.Destroy() })
	return s, nil
}
