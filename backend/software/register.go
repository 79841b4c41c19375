// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"github.com/gogpu/glyphpipe/backend"
	"github.com/gogpu/glyphpipe/gpu"
)

func init() {
	backend.Register(backend.Software, func() (gpu.Device, gpu.Queue, error) {
		return NewDevice(0), NewQueue(), nil
	})
}
