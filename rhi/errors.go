// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package rhi implements a thin, uniform rendering hardware interface
// on top of package driver. It owns the command-buffer dispatcher,
// the root-signature/descriptor-pool machinery, the render-pass state
// machine, resource reference counting and the swap-chain lifecycle.
// The underlying driver.Driver/driver.GPU pair plays the role of the
// device factory: rhi never talks to the loader or the windowing
// system directly.
package rhi

import "errors"

// Bootstrap failures (spec.md §7 "Bootstrap failures"): the Device
// never became usable. Callers must not retain it.
var (
	ErrNoDriver = errors.New("rhi: no suitable driver registered")
	ErrNoDevice = errors.New("rhi: device failed to initialize")
)

// Contract violations (spec.md §7): programmer errors. They are
// returned as errors by the call that detects them; there is no
// separate debug-build panic path.
var (
	ErrRootParameterOutOfRange = errors.New("rhi: root parameter index out of range")
	ErrDescriptorGroupMismatch = errors.New("rhi: resource group does not match root parameter layout")
	ErrAttachmentCountMismatch = errors.New("rhi: blend state attachment count does not match render pass")
	ErrTooManyColorAttachments = errors.New("rhi: color attachment count exceeds the 7-attachment cap")
	ErrInvalidPatchControl     = errors.New("rhi: patch control point count must be in [1,32]")
)

// Create-resource failures (spec.md §7): return type is (nil, err),
// never a panic.
var (
	ErrDescriptorPoolExhausted = errors.New("rhi: descriptor pool exhausted")
	ErrBufferSizeMisaligned    = errors.New("rhi: buffer size is not a multiple of the element stride")
	ErrUnmappedLayoutTransiton = errors.New("rhi: no rule to transition between the given image layouts")
)

// Transient/terminal runtime errors (spec.md §7).
var (
	ErrSwapChainOutOfDate  = errors.New("rhi: swap chain is out of date")
	ErrSwapChainSuboptimal = errors.New("rhi: swap chain is suboptimal")
	ErrPresentFailed       = errors.New("rhi: present failed")
	ErrMinimized           = errors.New("rhi: window has zero extent")
)
