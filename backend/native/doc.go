// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package native implements the glyphpipe device over gogpu/wgpu HAL.
//
// Atlas pages become sampled HAL textures, quad buffers become vertex
// buffers read per instance, and each draw call is recorded into a
// host-owned hal.RenderPassEncoder as a single instanced triangle strip.
//
// Hosts that already own a device, such as a gogpu application, pass it in
// through NewFromProvider or Register:
//
//	native.Register(app.DeviceProvider())
//	p, err := glyphpipe.New(device, queue, provider.SurfaceFormat())
//	...
//	p.Render(0, clip, native.WrapRenderPass(encoder))
package native
