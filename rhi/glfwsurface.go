// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package rhi

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// GLFWSurfaceFactory implements PresentationSurfaceFactory on top of
// go-gl/glfw, as an alternative to WSISurfaceFactory for hosts where
// package wsi's cgo XCB/Win32/Wayland bindings are undesirable. It
// does not satisfy the internal windowSurface interface
// driver.Presenter.NewSwapchain needs (that method is wsi.Window
// specific in every driver this module ships with), so a SwapChain
// cannot be built directly from its Surface today; it is provided so
// a future driver.Presenter implementation keyed on *glfw.Window has
// somewhere to plug in (see DESIGN.md).
type GLFWSurfaceFactory struct {
	Width, Height int
	Title         string
}

// glfwSurface wraps a *glfw.Window as a Surface.
type glfwSurface struct {
	win *glfw.Window
}

func (s *glfwSurface) Destroy() {
	s.win.Destroy()
	glfw.Terminate()
}

// CreateSurface opens a GLFW window with OpenGL context creation
// disabled, since this module only ever renders through package
// driver's Vulkan-style command buffers.
func (f GLFWSurfaceFactory) CreateSurface(native NativeWindowHandle) (Surface, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("rhi: glfw init failed: %w", err)
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

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
	win, err := glfw.CreateWindow(w, h, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("rhi: glfw window creation failed: %w", err)
	}
	return &glfwSurface{win: win}, nil
}
