// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package rhi

import "github.com/gviegas/rhi/driver"

// Capabilities is the table a Device publishes after initialization
// (spec.md §6). It is read-only for the lifetime of the Device.
type Capabilities struct {
	DeviceName string

	PreferredColorFormat driver.PixelFmt
	PreferredDepthFormat driver.PixelFmt

	MaxViewports                int
	MaxSimultaneousRenderTargets int
	MaxTextureDimension          int
	MaxArraySlices                int
	MaxTextureBufferSize         int64
	MaxUniformBufferSize         int64
	MaxIndirectBufferSize        int64
	MaxSamples                   int
	MaxAnisotropy                int

	Features Features
}

// Features is a mask of optional feature support.
type Features int

// Feature flags.
const (
	FeatInstancedArrays Features = 1 << iota
	FeatDrawInstanced
	FeatBaseVertex
	FeatMeshShader
	FeatComputeShader
	FeatVertexShader
	FeatFragmentShader
	FeatNativeMultithreading
	FeatShaderBytecode
	FeatZeroToOneClipZ
	FeatUpperLeftOrigin
)

// Has reports whether all of want is present in f.
func (f Features) Has(want Features) bool { return f&want == want }

const maxSimultaneousRenderTargetsHardCap = 8

// capabilitiesFromLimits derives a Capabilities table from the
// driver's reported Limits. The fixed-function feature flags are
// those package driver's software model always provides; hardware
// backends (driver/vk) are expected to narrow FeatMeshShader and
// FeatNativeMultithreading according to what the physical device
// actually reports.
func capabilitiesFromLimits(name string, lim driver.Limits) Capabilities {
	maxRT := lim.MaxColorTargets
	if maxRT > maxSimultaneousRenderTargetsHardCap {
		maxRT = maxSimultaneousRenderTargetsHardCap
	}
	return Capabilities{
		DeviceName:                   name,
		PreferredColorFormat:         driver.RGBA8sRGB,
		PreferredDepthFormat:         driver.D32f,
		MaxViewports:                 lim.MaxViewports,
		MaxSimultaneousRenderTargets: maxRT,
		MaxTextureDimension:          lim.MaxImage2D,
		MaxArraySlices:               lim.MaxLayers,
		MaxTextureBufferSize:         lim.MaxDBufferRange,
		MaxUniformBufferSize:         lim.MaxDConstantRange,
		MaxIndirectBufferSize:        lim.MaxDBufferRange,
		MaxSamples:                   4,
		MaxAnisotropy:                16,
		Features: FeatInstancedArrays | FeatDrawInstanced | FeatBaseVertex |
			FeatComputeShader | FeatVertexShader | FeatFragmentShader |
			FeatShaderBytecode | FeatZeroToOneClipZ | FeatUpperLeftOrigin,
	}
}
