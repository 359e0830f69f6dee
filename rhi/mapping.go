// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package rhi

import "github.com/gviegas/rhi/driver"

// FilterMode is a D3D-style composite sampler filter, grounded on
// original_source/engine/plugins/rhi_vulkan/private/mapping.cpp's
// Mapping::get_vulkan_{mag,min}_filter_mode switches. It names all
// nine {min,mag,mip} point/linear combinations plus anisotropic, each
// with a depth-comparison variant, rather than the three independent
// driver.Filter values package driver exposes directly; decomposeFilter
// below performs the split.
type FilterMode int

// Filter modes.
const (
	MinMagMipPoint FilterMode = iota
	MinMagPointMipLinear
	MinPointMagLinearMipPoint
	MinPointMagMipLinear
	MinLinearMagMipPoint
	MinLinearMagPointMipLinear
	MinMagLinearMipPoint
	MinMagMipLinear
	Anisotropic
	ComparisonMinMagMipPoint
	ComparisonMinMagPointMipLinear
	ComparisonMinPointMagLinearMipPoint
	ComparisonMinPointMagMipLinear
	ComparisonMinLinearMagMipPoint
	ComparisonMinLinearMagPointMipLinear
	ComparisonMinMagLinearMipPoint
	ComparisonMinMagMipLinear
	ComparisonAnisotropic
	FilterModeUnknown
)

// IsComparison reports whether fm performs depth comparison while
// sampling.
func (fm FilterMode) IsComparison() bool {
	return fm >= ComparisonMinMagMipPoint && fm <= ComparisonAnisotropic
}

// decomposeFilter maps a FilterMode to the three independent
// driver.Filter values (min, mag, mip) package driver's Sampling
// struct expects. Mappings are total: FilterModeUnknown and any value
// outside the declared range fall back to driver.FNearest in every
// slot, matching the source's "we should never be in here" default
// arm (logged, not fatal).
func decomposeFilter(fm FilterMode, sink LogSink) (min, mag, mip driver.Filter) {
	base := fm
	if base.IsComparison() {
		base -= ComparisonMinMagMipPoint - MinMagMipPoint
	}
	switch base {
	case MinMagMipPoint:
		return driver.FNearest, driver.FNearest, driver.FNearest
	case MinMagPointMipLinear:
		return driver.FNearest, driver.FNearest, driver.FLinear
	case MinPointMagLinearMipPoint:
		return driver.FNearest, driver.FLinear, driver.FNearest
	case MinPointMagMipLinear:
		return driver.FNearest, driver.FLinear, driver.FLinear
	case MinLinearMagMipPoint:
		return driver.FLinear, driver.FNearest, driver.FNearest
	case MinLinearMagPointMipLinear:
		return driver.FLinear, driver.FNearest, driver.FLinear
	case MinMagLinearMipPoint:
		return driver.FLinear, driver.FLinear, driver.FNearest
	case MinMagMipLinear, Anisotropic:
		return driver.FLinear, driver.FLinear, driver.FLinear
	default:
		logf(sink, Warning, "rhi: unknown filter mode %d, falling back to nearest", fm)
		return driver.FNearest, driver.FNearest, driver.FNearest
	}
}

// RangeResourceType is the resource type carried by a descriptor
// range (spec.md §3 "RootSignature").
type RangeResourceType int

// Range resource types.
const (
	RangeVertexBuffer RangeResourceType = iota
	RangeIndexBuffer
	RangeUniformBuffer
	RangeStructuredBuffer
	RangeIndirectBuffer
	RangeTextureBuffer
	RangeTexture
	RangeSampler
)

// RangeType is the access pattern of a descriptor range.
type RangeType int

// Range types.
const (
	RangeSRV RangeType = iota
	RangeUAV
	RangeUBV
	RangeSamplerRange
)

// descriptorType maps a (RangeResourceType, RangeType) pair to a
// driver.DescType, per the table in spec.md §4.3. Sampler ranges are
// elided: they fold into the combined-image-sampler descriptor that
// package driver models as driver.DImage plus a driver.Sampler bound
// alongside it, so they never reach this function directly (see
// rootsignature.go); reaching the default arm is a contract
// violation.
func descriptorType(res RangeResourceType, rt RangeType) (driver.DescType, error) {
	switch {
	case res == RangeTextureBuffer && rt == RangeSRV:
		return driver.DTexture, nil
	case res == RangeTextureBuffer && rt == RangeUAV:
		return driver.DImage, nil
	case res == RangeVertexBuffer, res == RangeIndexBuffer, res == RangeStructuredBuffer, res == RangeIndirectBuffer:
		return driver.DBuffer, nil
	case res == RangeUniformBuffer && (rt == RangeUBV || rt == RangeUAV):
		return driver.DConstant, nil
	case res == RangeTexture && rt == RangeSRV:
		return driver.DTexture, nil
	case res == RangeTexture && rt == RangeUAV:
		return driver.DImage, nil
	default:
		return 0, ErrDescriptorGroupMismatch
	}
}

// ShaderVisibility is a mask of shader stages a root parameter is
// visible to.
type ShaderVisibility int

// Shader visibility flags.
const (
	VisVertex ShaderVisibility = 1 << iota
	VisFragment
	VisTask
	VisMesh
	VisCompute
	VisAllGraphics = VisVertex | VisFragment | VisTask | VisMesh
	VisAll         = VisAllGraphics | VisCompute
)

// stageMask converts a ShaderVisibility to the driver.Stage mask
// package driver's descriptor heaps expect. Task/mesh visibility has
// no driver.Stage counterpart (mesh shading sits outside package
// driver's vertex/fragment/compute model) and is folded into
// SVertex|SFragment, matching the "all-graphics" fallback a Vulkan
// implementation would use in the absence of the mesh-shader
// extension.
func stageMask(vis ShaderVisibility) driver.Stage {
	var s driver.Stage
	if vis&(VisVertex|VisTask|VisMesh) != 0 {
		s |= driver.SVertex
	}
	if vis&VisFragment != 0 {
		s |= driver.SFragment
	}
	if vis&VisCompute != 0 {
		s |= driver.SCompute
	}
	return s
}

// Topology is the primitive topology of a graphics pipeline,
// extending driver.Topology with the PATCH_LIST_k family (spec.md
// §4.4 "Patch control points").
type Topology int

// Topologies. TopoPatchListBase through TopoPatchListBase+31 represent
// PATCH_LIST_1 through PATCH_LIST_32; PatchListK(k) builds the value for a given
// patch-control-point count.
const (
	TopoPoint Topology = iota
	TopoLine
	TopoLineStrip
	TopoTriangle
	TopoTriangleStrip
	TopoPatchListBase
)

// PatchListK returns the Topology for a patch list with k control
// points, 1 <= k <= 32.
func PatchListK(k int) Topology { return TopoPatchListBase + Topology(k-1) }

// toDriverTopology maps t to the underlying driver.Topology plus the
// patch control point count package Pipeline needs at assembly time
// (1 when t does not name a patch list).
func toDriverTopology(t Topology) (driver.Topology, int, error) {
	switch {
	case t == TopoPoint:
		return driver.TPoint, 1, nil
	case t == TopoLine:
		return driver.TLine, 1, nil
	case t == TopoLineStrip:
		return driver.TLnStrip, 1, nil
	case t == TopoTriangle:
		return driver.TTriangle, 1, nil
	case t == TopoTriangleStrip:
		return driver.TTriStrip, 1, nil
	case t >= TopoPatchListBase && t < TopoPatchListBase+32:
		return driver.TPoint, int(t-TopoPatchListBase) + 1, nil
	default:
		return 0, 0, ErrInvalidPatchControl
	}
}

// indexStride returns the element size, in bytes, of an index
// format.
func indexStride(f driver.IndexFmt) int64 { return int64(f) }
