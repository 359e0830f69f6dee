// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package rhi

import (
	"github.com/gviegas/rhi/driver"
	"github.com/gviegas/rhi/wsi"
)

// fakeWindow is an in-memory wsi.Window, letting SwapChain tests run
// without a real windowing system.
type fakeWindow struct {
	w, h  int
	title string
}

func (w *fakeWindow) Map() error                    { return nil }
func (w *fakeWindow) Unmap() error                  { return nil }
func (w *fakeWindow) Resize(width, height int) error { w.w, w.h = width, height; return nil }
func (w *fakeWindow) SetTitle(title string) error    { w.title = title; return nil }
func (w *fakeWindow) Close()                         {}
func (w *fakeWindow) Width() int                     { return w.w }
func (w *fakeWindow) Height() int                    { return w.h }
func (w *fakeWindow) Title() string                  { return w.title }

// fakeSurface satisfies windowSurface for tests, bypassing
// WSISurfaceFactory/wsi.NewWindow.
type fakeSurface struct {
	win *fakeWindow
}

func (s *fakeSurface) window() wsi.Window { return s.win }
func (s *fakeSurface) Destroy()           {}

// fakeSwapchain is an in-memory driver.Swapchain. nextErr/presentErr
// let tests force ErrSwapchain recovery paths.
type fakeSwapchain struct {
	views               []driver.ImageView
	format              driver.PixelFmt
	nextErr, presentErr error
	recreateCalls       int
}

func (s *fakeSwapchain) Destroy()                 {}
func (s *fakeSwapchain) Views() []driver.ImageView { return s.views }
func (s *fakeSwapchain) Next(cb driver.CmdBuffer) (int, error) {
	if s.nextErr != nil {
		return 0, s.nextErr
	}
	return 0, nil
}
func (s *fakeSwapchain) Present(index int, cb driver.CmdBuffer) error {
	return s.presentErr
}
func (s *fakeSwapchain) Recreate() error {
	s.recreateCalls++
	s.nextErr, s.presentErr = nil, nil
	return nil
}
func (s *fakeSwapchain) Format() driver.PixelFmt { return s.format }

// fakePresentGPU composes fakeGPU with driver.Presenter, since
// Device.NewSwapChain type-asserts d.gpu against driver.Presenter.
type fakePresentGPU struct {
	*fakeGPU
	sc *fakeSwapchain
}

func (g *fakePresentGPU) NewSwapchain(win wsi.Window, imageCount int) (driver.Swapchain, error) {
	return g.sc, nil
}

func newTestPresentDevice(imageCount int) (*Device, *fakePresentGPU, *fakeSurface) {
	views := make([]driver.ImageView, imageCount)
	for i := range views {
		views[i] = fakeImageView{}
	}
	gpu := &fakePresentGPU{
		fakeGPU: &fakeGPU{},
		sc:      &fakeSwapchain{views: views, format: driver.RGBA8sRGB},
	}
	d := newDevice(gpu, fakeDriver{}, nil)
	surf := &fakeSurface{win: &fakeWindow{w: 640, h: 480, title: "t"}}
	return d, gpu, surf
}
