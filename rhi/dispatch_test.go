// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package rhi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestWalkOrdersPacketsSequentially checks that Device.walk visits
// every recorded packet exactly once, in the order it was appended,
// following the next links rather than slice order directly.
func TestWalkOrdersPacketsSequentially(t *testing.T) {
	gpu := &fakeGPU{}
	d := newDevice(gpu, fakeDriver{}, nil)

	cb := &CommandBuffer{}
	cb.DispatchCompute(1, 1, 1)
	cb.DebugMarkerInsert("a", [4]float32{})
	cb.DispatchCompute(2, 2, 2)
	require.Equal(t, 3, cb.Len())

	require.NoError(t, d.BeginFrame())
	require.NoError(t, d.Submit(cb))

	calls := gpu.cb.calls
	require.Equal(t, []string{
		"Begin",
		"BeginWork", "Dispatch", "EndWork",
		"BeginWork", "Dispatch", "EndWork",
	}, calls)
}

// TestWalkRecursesIntoNestedCommandBuffers checks that a packet
// recorded via DispatchCommandBuffer recursively walks the referenced
// sub-buffer's packets. The parent's debug markers around it issue no
// driver calls, so only the sub-buffer's dispatch is observed.
func TestWalkRecursesIntoNestedCommandBuffers(t *testing.T) {
	gpu := &fakeGPU{}
	d := newDevice(gpu, fakeDriver{}, nil)

	sub := &CommandBuffer{}
	sub.DispatchCompute(9, 9, 9)

	cb := &CommandBuffer{}
	cb.DebugMarkerInsert("before", [4]float32{})
	cb.DispatchCommandBuffer(sub)
	cb.DebugMarkerInsert("after", [4]float32{})

	require.NoError(t, d.BeginFrame())
	require.NoError(t, d.Submit(cb))

	calls := gpu.cb.calls
	require.Equal(t, []string{"Begin", "BeginWork", "Dispatch", "EndWork"}, calls)
}

// TestResetDiscardsPackets checks that Reset empties a CommandBuffer
// so it can be reused for a new recording.
func TestResetDiscardsPackets(t *testing.T) {
	cb := &CommandBuffer{}
	cb.DispatchCompute(1, 1, 1)
	cb.DebugMarkerInsert("x", [4]float32{})
	require.Equal(t, 2, cb.Len())

	cb.Reset()
	require.Equal(t, 0, cb.Len())

	cb.DispatchCompute(3, 3, 3)
	require.Equal(t, 1, cb.Len())
}
