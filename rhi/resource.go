// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package rhi

import "sync/atomic"

// ResourceType discriminates the kind of a Resource, used by the
// large enumerate-and-switch sites (map/unmap, render-target binding)
// that the source models as a polymorphic switch. Go's type switch on
// the concrete Resource fills the same role; ResourceType exists for
// call sites that need the discriminant without a type assertion
// (debug logging, capability checks).
type ResourceType int

// Resource kinds.
const (
	ResourceBuffer ResourceType = iota
	ResourceTexture
	ResourceRenderPass
	ResourceFramebuffer
	ResourceSwapChain
	ResourcePipeline
	ResourceRootSignature
	ResourceResourceGroup
	ResourceSampler
	ResourceQueryPool
)

// Resource is the interface every GPU-owned object implements:
// shared ownership through reference counting, with the backing
// driver handles released on last decref (spec.md §3 "Resource").
type Resource interface {
	// Type reports the resource's kind.
	Type() ResourceType

	// Incref increments the reference count and returns the new
	// value. Callers that retain a Resource beyond the scope that
	// created it must call Incref.
	Incref() int32

	// Release decrements the reference count. When it reaches
	// zero, the resource's self-destruction routine runs exactly
	// once, releasing its driver handles (and, for pipelines, its
	// compact id) back to the device. Vertex arrays hold no id.
	Release()

	// Refs reports the current reference count. It is meant for
	// diagnostics and tests, not for synchronization.
	Refs() int32
}

// resourceBase implements Resource. Embedding it gives a type atomic,
// racing-safe sharing with a single finalization path; the finalizer
// closure captures whatever driver handles and device back-pointers
// it needs at construction time, so resourceBase itself stays free of
// knowledge about any particular resource kind.
type resourceBase struct {
	typ     ResourceType
	refs    atomic.Int32
	destroy func()
}

func newResourceBase(typ ResourceType, destroy func()) resourceBase {
	r := resourceBase{typ: typ, destroy: destroy}
	r.refs.Store(1)
	return r
}

func (r *resourceBase) Type() ResourceType { return r.typ }

func (r *resourceBase) Incref() int32 { return r.refs.Add(1) }

func (r *resourceBase) Refs() int32 { return r.refs.Load() }

func (r *resourceBase) Release() {
	if r.refs.Add(-1) == 0 && r.destroy != nil {
		d := r.destroy
		r.destroy = nil
		d()
	}
}
