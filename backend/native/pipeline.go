// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/glyphpipe/gpu"
)

// paramsSize is the size of the shader's Params uniform.
const paramsSize = 16

// RenderPass wraps a host-owned HAL render pass encoder.
type RenderPass struct {
	encoder hal.RenderPassEncoder
}

// WrapRenderPass adapts encoder for Pipeline.Render. The caller keeps
// ownership: it begins and ends the pass.
func WrapRenderPass(encoder hal.RenderPassEncoder) *RenderPass {
	return &RenderPass{encoder: encoder}
}

// SetScissorRect restricts subsequent draws to a rectangle.
func (p *RenderPass) SetScissorRect(x, y, width, height uint32) {
	p.encoder.SetScissorRect(x, y, width, height)
}

// bindKey identifies the resources a bind group was built from.
type bindKey struct {
	mask, color *Texture
}

// Pipeline draws glyph quads with an instanced triangle strip.
//
// The bind group is rebuilt only when the atlas pages change, which
// happens when a page grows.
type Pipeline struct {
	device hal.Device
	queue  hal.Queue
	label  string

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
	params     hal.Buffer

	bindGroup hal.BindGroup
	bound     bindKey

	destroyed bool
}

func (p *Pipeline) create(format gputypes.TextureFormat) error {
	words, err := compileGlyphShader()
	if err != nil {
		return err
	}
	p.shader, err = p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "glyph_shader",
		Source: hal.ShaderSource{SPIRV: words},
	})
	if err != nil {
		return fmt.Errorf("native: create glyph shader module: %w", err)
	}

	// Binding 0: Params (uniform, vertex)
	// Binding 1: mask page (texture_2d, fragment)
	// Binding 2: color page (texture_2d, fragment)
	atlasLayout := &gputypes.TextureBindingLayout{
		SampleType:    gputypes.TextureSampleTypeFloat,
		ViewDimension: gputypes.TextureViewDimension2D,
	}
	p.bindLayout, err = p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "glyph_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform, MinBindingSize: paramsSize},
			},
			{Binding: 1, Visibility: gputypes.ShaderStageFragment, Texture: atlasLayout},
			{Binding: 2, Visibility: gputypes.ShaderStageFragment, Texture: atlasLayout},
		},
	})
	if err != nil {
		return fmt.Errorf("native: create glyph bind group layout: %w", err)
	}

	p.pipeLayout, err = p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "glyph_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("native: create glyph pipeline layout: %w", err)
	}

	premulBlend := gputypes.BlendStatePremultiplied()
	p.pipeline, err = p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "glyph_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
			Buffers:    quadVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    format,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleStrip,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("native: create glyph pipeline: %w", err)
	}

	p.params, err = p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "glyph_params",
		Size:  paramsSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("native: create glyph params buffer: %w", err)
	}
	return nil
}

// quadVertexLayout matches QuadInput in glyph.wgsl and the GlyphQuad
// encoding, stepped per instance.
func quadVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: gpu.GlyphQuadSize,
			StepMode:    gputypes.VertexStepModeInstance,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatSint32x2, Offset: 0, ShaderLocation: 0},  // origin
				{Format: gputypes.VertexFormatUint16x4, Offset: 8, ShaderLocation: 1},  // size, atlas position
				{Format: gputypes.VertexFormatUnorm8x4, Offset: 16, ShaderLocation: 2}, // color
				{Format: gputypes.VertexFormatUint32, Offset: 20, ShaderLocation: 3},   // content
			},
		},
	}
}

// encodeParams encodes the Params uniform for a target size.
func encodeParams(width, height uint32) []byte {
	b := make([]byte, 0, paramsSize)
	b = binary.LittleEndian.AppendUint32(b, math.Float32bits(float32(width)))
	b = binary.LittleEndian.AppendUint32(b, math.Float32bits(float32(height)))
	return append(b, make([]byte, paramsSize-8)...)
}

// Draw records call into pass.
func (p *Pipeline) Draw(pass gpu.RenderPass, call gpu.DrawCall) error {
	if p.destroyed {
		return ErrDestroyed
	}
	rp, ok := pass.(*RenderPass)
	if !ok {
		return ErrForeignResource
	}
	quads, ok := call.Quads.(*Buffer)
	if !ok {
		return ErrForeignResource
	}
	mask, ok := call.Mask.(*Texture)
	if !ok {
		return ErrForeignResource
	}
	color, ok := call.Color.(*Texture)
	if !ok {
		return ErrForeignResource
	}
	if quads.destroyed || mask.destroyed || color.destroyed {
		return ErrDestroyed
	}
	if call.QuadCount == 0 {
		return nil
	}

	if err := p.bind(mask, color); err != nil {
		return err
	}
	p.queue.WriteBuffer(p.params, 0, encodeParams(call.Width, call.Height))

	rp.encoder.SetPipeline(p.pipeline)
	rp.encoder.SetBindGroup(0, p.bindGroup, nil)
	rp.encoder.SetVertexBuffer(0, quads.raw, 0)
	rp.encoder.Draw(4, call.QuadCount, 0, 0)
	return nil
}

// bind rebuilds the bind group if the atlas pages changed.
func (p *Pipeline) bind(mask, color *Texture) error {
	key := bindKey{mask: mask, color: color}
	if p.bindGroup != nil && p.bound == key {
		return nil
	}

	group, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "glyph_bind",
		Layout: p.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: p.params.NativeHandle(), Offset: 0, Size: paramsSize}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{TextureView: uintptr(mask.view.NativeHandle())}},
			{Binding: 2, Resource: gputypes.TextureViewBinding{TextureView: uintptr(color.view.NativeHandle())}},
		},
	})
	if err != nil {
		return fmt.Errorf("native: create glyph bind group: %w", err)
	}
	if p.bindGroup != nil {
		p.device.DestroyBindGroup(p.bindGroup)
	}
	p.bindGroup = group
	p.bound = key
	slogger().Debug("glyph bind group rebuilt",
		"mask", mask.width, "color", color.width)
	return nil
}

// Destroy releases every pipeline resource in reverse creation order.
func (p *Pipeline) Destroy() {
	if p.destroyed {
		return
	}
	p.destroyed = true
	if p.bindGroup != nil {
		p.device.DestroyBindGroup(p.bindGroup)
	}
	if p.params != nil {
		p.device.DestroyBuffer(p.params)
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
	}
	if p.bindLayout != nil {
		p.device.DestroyBindGroupLayout(p.bindLayout)
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
	}
}
