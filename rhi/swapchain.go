// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package rhi

import (
	"github.com/gviegas/rhi/driver"
)

// swapChainState is the explicit state machine a SwapChain moves
// through, replacing a boolean "have I acquired an image" flag with
// named states (spec.md §9 "SwapChain state machine" redesign
// guidance).
type swapChainState int

// SwapChain states.
const (
	scUninitialized swapChainState = iota
	scSurfaceOnly
	scReady
	scImageAcquired
)

// depthFormatPreference lists depth formats in order of preference
// (spec.md §4.5). build uses only its first entry, driver.D32f, for
// the per-image depth attachments: if creating a D32f texture fails,
// build returns that error and the later entries are not tried.
var depthFormatPreference = []driver.PixelFmt{
	driver.D32f,
	driver.D32fS8ui,
	driver.D24unS8ui,
}

// swapImage bundles one swapchain backbuffer with its private depth
// attachment and the framebuffer built from the pair, recreated as a
// group whenever the swapchain is rebuilt.
type swapImage struct {
	depth *Texture2D
	fb    *Framebuffer
}

// colorAttachment wraps a driver.ImageView with the fixed dims every
// level of a swapchain backbuffer has (swapchain images are never
// mipmapped), satisfying framebufferAttachment.
type colorAttachment struct {
	view          driver.ImageView
	width, height int
}

func (c colorAttachment) View() driver.ImageView { return c.view }
func (c colorAttachment) DimsAtLevel(int) (int, int) { return c.width, c.height }

// SwapChain is the higher-level wrapper around driver.Swapchain: it
// adds the explicit state machine above, a chosen depth format, and a
// per-image Framebuffer triple so callers never touch driver.Swapchain
// directly (spec.md §4.5 "SwapChain").
type SwapChain struct {
	resourceBase
	dev      *Device
	surf     windowSurface
	sc       driver.Swapchain
	state    swapChainState
	rp       *RenderPass
	images   []swapImage
	width    int
	height   int
	depthFmt driver.PixelFmt
}

// Framebuffers returns the current per-image framebuffer triples,
// valid until the next Recreate.
func (s *SwapChain) Framebuffers() []*Framebuffer {
	fbs := make([]*Framebuffer, len(s.images))
	for i, im := range s.images {
		fbs[i] = im.fb
	}
	return fbs
}

// RenderPass returns the render pass every Framebuffer returned by
// Framebuffers was built against.
func (s *SwapChain) RenderPass() *RenderPass { return s.rp }

func (*SwapChain) isRenderTarget() {}

// NewSwapChain creates a swapchain for surf with imageCount
// backbuffers. Its per-image framebuffers are built before it
// returns, so it starts in scReady; AcquireNext moves it to
// scImageAcquired.
func (d *Device) NewSwapChain(surf Surface, imageCount int) (*SwapChain, error) {
	ws, ok := surf.(windowSurface)
	if !ok {
		return nil, driver.ErrCannotPresent
	}
	presenter, ok := d.gpu.(driver.Presenter)
	if !ok {
		return nil, driver.ErrCannotPresent
	}
	sc, err := presenter.NewSwapchain(ws.window(), imageCount)
	if err != nil {
		return nil, err
	}

	s := &SwapChain{dev: d, surf: ws, sc: sc, state: scSurfaceOnly}
	s.resourceBase = newResourceBase(ResourceSwapChain, func() { sc.Destroy() })
	if err := s.build(); err != nil {
		sc.Destroy()
		return nil, err
	}
	return s, nil
}

func (s *SwapChain) build() error {
	views := s.sc.Views()
	if len(views) == 0 {
		return driver.ErrSwapchain
	}
	s.depthFmt = depthFormatPreference[0]
	s.width, s.height = s.surf.window().Width(), s.surf.window().Height()

	rp, err := s.dev.NewRenderPass(
		[]driver.Attachment{
			{Format: s.sc.Format(), Samples: 1, Load: [2]driver.LoadOp{driver.LClear, driver.LDontCare}, Store: [2]driver.StoreOp{driver.SStore, driver.SDontCare}},
			{Format: s.depthFmt, Samples: 1, Load: [2]driver.LoadOp{driver.LClear, driver.LClear}, Store: [2]driver.StoreOp{driver.SDontCare, driver.SDontCare}},
		},
		[]driver.Subpass{{Color: []int{0}, DS: 1}},
	)
	if err != nil {
		return err
	}

	images := make([]swapImage, len(views))
	for i, v := range views {
		depth, err := s.dev.NewTexture2D(s.depthFmt, s.width, s.height, 1, 1, driver.URenderTarget)
		if err != nil {
			rp.Release()
			return err
		}
		fb, err := s.dev.NewFramebuffer(rp, []Attach{
			{Tex: colorAttachment{view: v, width: s.width, height: s.height}},
			{Tex: &depth.textureBase},
		})
		if err != nil {
			depth.Release()
			rp.Release()
			return err
		}
		images[i] = swapImage{depth: depth, fb: fb}
	}

	for _, im := range s.images {
		im.fb.Release()
		im.depth.Release()
	}
	if s.rp != nil {
		s.rp.Release()
	}
	s.rp = rp
	s.images = images
	s.state = scReady
	return nil
}

// AcquireNext advances the state machine to scImageAcquired and
// returns the index of the backbuffer to render into. It must be
// called after Device.BeginFrame and before any CommandBuffer
// targeting this swapchain is submitted. Callers must call Present
// before acquiring again.
func (s *SwapChain) AcquireNext() (int, error) {
	if s.state == scUninitialized {
		return 0, ErrSwapChainOutOfDate
	}
	primary, err := s.dev.primaryCmdBuffer()
	if err != nil {
		return 0, err
	}
	idx, err := s.sc.Next(primary)
	if err != nil {
		if err == driver.ErrSwapchain {
			return 0, ErrSwapChainOutOfDate
		}
		return 0, err
	}
	s.state = scImageAcquired
	return idx, nil
}

// Present presents the backbuffer at index and returns the state
// machine to scReady. It must be called after every CommandBuffer
// that writes to the image has been submitted and before
// Device.EndFrame. A nil error does not guarantee the image is still
// optimal; ErrSwapChainSuboptimal signals a recreate is advisable but
// not mandatory.
func (s *SwapChain) Present(index int) error {
	primary, err := s.dev.primaryCmdBuffer()
	if err != nil {
		return err
	}
	err = s.sc.Present(index, primary)
	s.state = scReady
	if err != nil {
		if err == driver.ErrSwapchain {
			return ErrSwapChainOutOfDate
		}
		return ErrPresentFailed
	}
	return nil
}

// Recreate rebuilds the swapchain (and its per-image depth/framebuffer
// state) after an ErrSwapChainOutOfDate or ErrSwapChainSuboptimal
// result, e.g. following a window resize.
func (s *SwapChain) Recreate() error {
	if err := s.sc.Recreate(); err != nil {
		return err
	}
	return s.build()
}

// Format returns the backbuffer's pixel format.
func (s *SwapChain) Format() driver.PixelFmt { return s.sc.Format() }
