// Package backend selects the GPU implementation glyphpipe renders through.
//
// Backends register a factory under a name from an init function or at
// startup. The software backend registers itself on import:
//
//	import _ "github.com/gogpu/glyphpipe/backend/software"
//
// A host that owns a wgpu device registers it through the native backend:
//
//	native.Register(provider)
//
// Open returns a device and queue by name, Default the best available one.
//
// # Available Backends
//
//   - "native": gogpu/wgpu HAL device shared by the host
//   - "software": in-memory textures composited on the CPU (always available)
package backend
