// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package rhi

import "github.com/gviegas/rhi/driver"

// bufferBase is the data every BufferSet variant shares: a single
// driver.Buffer plus its declared byte length (which may be smaller
// than driver.Buffer.Cap, since drivers are allowed to round up).
type bufferBase struct {
	resourceBase
	buf  driver.Buffer
	size int64
}

// Bytes returns the CPU-visible view of the buffer's storage, or nil
// if the buffer was created non-visible (spec.md §4.7 "BufferSet").
func (b *bufferBase) Bytes() []byte {
	bs := b.buf.Bytes()
	if int64(len(bs)) > b.size {
		return bs[:b.size]
	}
	return bs
}

// Size returns the buffer's declared length in bytes.
func (b *bufferBase) Size() int64 { return b.size }

func newBufferBase(typ ResourceType, gpu driver.GPU, size int64, visible bool, usg driver.Usage) (bufferBase, error) {
	buf, err := gpu.NewBuffer(size, visible, usg)
	if err != nil {
		return bufferBase{}, err
	}
	bb := bufferBase{buf: buf, size: size}
	bb.resourceBase = newResourceBase(typ, func() { buf.Destroy() })
	return bb, nil
}

// VertexBuffer backs one vertex input stream.
type VertexBuffer struct{ bufferBase }

// NewVertexBuffer creates a buffer meant for use as vertex input.
func (d *Device) NewVertexBuffer(size int64, visible bool) (*VertexBuffer, error) {
	bb, err := newBufferBase(ResourceBuffer, d.gpu, size, visible, driver.UVertexData|driver.UShaderWrite)
	if err != nil {
		return nil, err
	}
	return &VertexBuffer{bb}, nil
}

// IndexBuffer backs indexed draw calls.
type IndexBuffer struct {
	bufferBase
	Format driver.IndexFmt
}

// NewIndexBuffer creates a buffer meant for use as index input. size
// must be a multiple of format's stride (ErrBufferSizeMisaligned).
func (d *Device) NewIndexBuffer(size int64, visible bool, format driver.IndexFmt) (*IndexBuffer, error) {
	if size%indexStride(format) != 0 {
		return nil, ErrBufferSizeMisaligned
	}
	bb, err := newBufferBase(ResourceBuffer, d.gpu, size, visible, driver.UIndexData|driver.UShaderWrite)
	if err != nil {
		return nil, err
	}
	return &IndexBuffer{bufferBase: bb, Format: format}, nil
}

// UniformBuffer backs constant/uniform-buffer descriptor ranges.
// size must be 256-byte aligned, matching package driver's descriptor
// heap alignment rule.
type UniformBuffer struct{ bufferBase }

func (d *Device) NewUniformBuffer(size int64, visible bool) (*UniformBuffer, error) {
	if size%256 != 0 {
		return nil, ErrBufferSizeMisaligned
	}
	bb, err := newBufferBase(ResourceBuffer, d.gpu, size, visible, driver.UShaderConst)
	if err != nil {
		return nil, err
	}
	return &UniformBuffer{bb}, nil
}

// StructuredBuffer backs an SRV/UAV storage-buffer descriptor range.
type StructuredBuffer struct {
	bufferBase
	Stride int64
}

func (d *Device) NewStructuredBuffer(size, stride int64, visible bool, writable bool) (*StructuredBuffer, error) {
	if stride <= 0 || size%stride != 0 {
		return nil, ErrBufferSizeMisaligned
	}
	usg := driver.UShaderRead
	if writable {
		usg |= driver.UShaderWrite
	}
	bb, err := newBufferBase(ResourceBuffer, d.gpu, size, visible, usg)
	if err != nil {
		return nil, err
	}
	return &StructuredBuffer{bufferBase: bb, Stride: stride}, nil
}

// TextureBuffer backs a texel-buffer (buffer viewed as an array of
// typed texels) descriptor range.
type TextureBuffer struct {
	bufferBase
	Format driver.PixelFmt
}

func (d *Device) NewTextureBuffer(size int64, visible bool, format driver.PixelFmt) (*TextureBuffer, error) {
	bb, err := newBufferBase(ResourceBuffer, d.gpu, size, visible, driver.UShaderRead)
	if err != nil {
		return nil, err
	}
	return &TextureBuffer{bufferBase: bb, Format: format}, nil
}

// IndirectBuffer backs the argument buffer of an indirect draw,
// indexed draw, dispatch or mesh-task-dispatch command.
type IndirectBuffer struct{ bufferBase }

func (d *Device) NewIndirectBuffer(size int64, visible bool) (*IndirectBuffer, error) {
	bb, err := newBufferBase(ResourceBuffer, d.gpu, size, visible, driver.UShaderWrite)
	if err != nil {
		return nil, err
	}
	return &IndirectBuffer{bb}, nil
}

// VertexArray binds a set of vertex buffers and an optional index
// buffer as a single unit (spec.md §4.1 "bound vertex array"). It
// mirrors the source's vertex-array object without the cached
// pipeline-layout validation the original GL-era APIs required.
type VertexArray struct {
	resourceBase
	streams []vertexStream
	index   *IndexBuffer
}

type vertexStream struct {
	buf *VertexBuffer
	off int64
}

// NewVertexArray records the given vertex streams, binding them
// starting at input slot 0, and an optional index buffer.
func (d *Device) NewVertexArray(streams []*VertexBuffer, offsets []int64, index *IndexBuffer) *VertexArray {
	va := &VertexArray{}
	for i, s := range streams {
		var off int64
		if i < len(offsets) {
			off = offsets[i]
		}
		s.Incref()
		va.streams = append(va.streams, vertexStream{buf: s, off: off})
	}
	if index != nil {
		index.Incref()
		va.index = index
	}
	va.resourceBase = newResourceBase(ResourceBuffer, func() {
		for _, s := range va.streams {
			s.buf.Release()
		}
		if va.index != nil {
			va.index.Release()
		}
	})
	return va
}
