// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/glyphpipe/backend"
	"github.com/gogpu/glyphpipe/gpu"
)

// halProvider is implemented by device providers that expose their HAL
// device and queue, such as gogpu applications.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// NewFromProvider wraps the HAL device of a host's device provider.
func NewFromProvider(provider gpucontext.DeviceProvider) (*Device, *Queue, error) {
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHAL)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHAL)
	}

	d := NewDevice(device, queue, 0)
	slogger().Info("native device from provider",
		"format", provider.SurfaceFormat(), "max_texture", d.maxDim)
	return d, d.Queue(), nil
}

// Register makes the provider's device available as the native backend.
func Register(provider gpucontext.DeviceProvider) {
	backend.Register(backend.Native, func() (gpu.Device, gpu.Queue, error) {
		device, queue, err := NewFromProvider(provider)
		if err != nil {
			return nil, nil, err
		}
		return device, queue, nil
	})
}
