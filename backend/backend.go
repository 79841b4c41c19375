package backend

import (
	"errors"

	"github.com/gogpu/glyphpipe/gpu"
)

// Backend name constants.
const (
	// Software is the name of the CPU backend.
	Software = "software"
	// Native is the name of the gogpu/wgpu HAL backend.
	Native = "native"
)

// ErrBackendNotAvailable is returned when a requested backend is not
// registered.
var ErrBackendNotAvailable = errors.New("backend: not available")

// Factory opens a device and its queue.
type Factory func() (gpu.Device, gpu.Queue, error)
