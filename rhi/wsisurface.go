// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package rhi

import "github.com/gviegas/rhi/wsi"

// windowSurface is the internal extension every concrete Surface
// implementation backed by a wsi.Window satisfies, letting
// Device.NewSwapChain reach the underlying window without widening
// the public Surface interface.
type windowSurface interface {
	Surface
	window() wsi.Window
}

// wsiSurface adapts a wsi.Window to the Surface/windowSurface
// boundary. The teacher's wsi package creates and owns its windows
// directly (wsi.NewWindow), rather than wrapping an externally
// supplied native handle, so WSISurfaceFactory.CreateSurface opens a
// fresh window sized from the factory's configured defaults instead
// of decoding native.Connection/native.Window.
type wsiSurface struct {
	win wsi.Window
}

func (s *wsiSurface) window() wsi.Window { return s.win }

// Destroy closes the underlying window.
func (s *wsiSurface) Destroy() { s.win.Close() }

// WSISurfaceFactory implements PresentationSurfaceFactory on top of
// package wsi, the teacher's cgo-backed, OS-dispatching window layer
// (wsi.NewWindow picks XCB/Win32/Wayland/Android at build time).
type WSISurfaceFactory struct {
	Width, Height int
	Title         string
}

// CreateSurface opens a new wsi.Window. native is accepted to satisfy
// PresentationSurfaceFactory but unused: package wsi has no concept of
// adopting a pre-existing native window.
func (f WSISurfaceFactory) CreateSurface(native NativeWindowHandle) (Surface, error) {
	w, h, title := f.Width, f.Height, f.Title
	if w == 0 {
		w = 1280
	}
	if h == 0 {
		h = 720
	}
	if title == "" {
		title = "rhi"
	}
	win, err := wsi.NewWindow(w, h, title)
	if err != nil {
		return nil, err
	}
	if err := win.Map(); err != nil {
		win.Close()
		return nil, err
	}
	return &wsiSurface{win: win}, nil
}
