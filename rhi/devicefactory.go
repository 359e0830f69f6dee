// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package rhi

import (
	"fmt"

	"github.com/gviegas/rhi/driver"
)

// ShaderCompiler is the pluggable boundary for GLSL (or any other
// shading language) to opaque shader module translation (spec.md §1,
// §6). rhi never parses shader source; it only ever holds the
// driver.ShaderCode a ShaderCompiler hands back.
type ShaderCompiler interface {
	// Compile compiles sourceText for the given stage and returns
	// both the opaque bytecode and the module created from it.
	Compile(stage driver.Stage, sourceText string) (bytecode []byte, module driver.ShaderCode, err error)

	// ModuleFromBytecode creates a module directly from
	// previously-compiled bytecode, skipping front-end compilation.
	ModuleFromBytecode(bytecode []byte) (driver.ShaderCode, error)
}

// NativeWindowHandle is the opaque {connection, window} pair a
// PresentationSurfaceFactory consumes (spec.md §6).
type NativeWindowHandle struct {
	Connection uintptr
	Window     uintptr
}

// Surface is the opaque handle a PresentationSurfaceFactory returns.
// Its only use is as the parameter to Device.NewSwapChain.
type Surface interface {
	// Destroy releases the surface. It must be called after the
	// SwapChain built from it is destroyed.
	Destroy()
}

// PresentationSurfaceFactory is the OS-specific boundary that turns a
// native window handle into a Surface (spec.md §1, §6). Windowing and
// surface creation are explicitly out of this module's scope; the
// teacher's wsi package is one concrete, OS-dispatching
// implementation of this boundary (see wsisurface.go).
type PresentationSurfaceFactory interface {
	CreateSurface(native NativeWindowHandle) (Surface, error)
}

// AllocatorHook routes host allocations through an external allocator
// (spec.md §6). A nil AllocatorHook means the Go runtime's allocator
// is used directly, which is the default and the only mode package
// driver's software backends need.
type AllocatorHook struct {
	Alloc           func(size uintptr, alignment uintptr) uintptr
	Realloc         func(ptr uintptr, size uintptr, alignment uintptr) uintptr
	Free            func(ptr uintptr)
	InternalAllocFn func(size uintptr, allocType int)
}

// Options configures DeviceFactory.Open. There is no file-based
// configuration layer for device selection, consistent with every HAL
// in the retrieval pack (driver/vk picks the first suitable physical
// device; gogpu-wgpu/hal backends take an in-process descriptor) — see
// SPEC_FULL.md §3.
type Options struct {
	// DriverName selects a specific registered driver.Driver by
	// name. Empty selects the first registered driver.
	DriverName string
	LogSink    LogSink
	Allocator  AllocatorHook
}

// DeviceFactory loads the driver, enumerates devices and opens the
// logical device and queues (spec.md §2 "DeviceFactory"). It is the
// sole entry point into this package: there is no way to construct a
// Device except through DeviceFactory.Open.
type DeviceFactory struct{}

// Open selects a driver.Driver (per Options), opens it, and wraps the
// resulting driver.GPU in a Device. Bootstrap failures (no driver
// registered, Driver.Open failing) are fatal: they are logged at
// Critical and returned as ErrNoDriver/ErrNoDevice, and the returned
// Device is nil (spec.md §7 "Bootstrap failures").
func (DeviceFactory) Open(opts Options) (*Device, error) {
	sink := opts.LogSink
	if sink == nil {
		sink = defaultLogSink
	}

	drivers := driver.Drivers()
	if len(drivers) == 0 {
		logf(sink, Critical, "no driver registered")
		return nil, ErrNoDriver
	}

	var drv driver.Driver
	if opts.DriverName == "" {
		drv = drivers[0]
	} else {
		for _, d := range drivers {
			if d.Name() == opts.DriverName {
				drv = d
				break
			}
		}
		if drv == nil {
			logf(sink, Critical, "driver %q not registered", opts.DriverName)
			return nil, ErrNoDriver
		}
	}

	gpu, err := drv.Open()
	if err != nil {
		logf(sink, Critical, "driver %q failed to open: %v", drv.Name(), err)
		return nil, fmt.Errorf("%w: %v", ErrNoDevice, err)
	}

	dev := newDevice(gpu, drv, sink)
	return dev, nil
}
