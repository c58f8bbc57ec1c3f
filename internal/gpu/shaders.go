//go:build !nogpu

package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// Embedded WGSL shader sources.

//go:embed shaders/overlay_glyph.wgsl
var glyphShaderSource string

//go:embed shaders/overlay_line.wgsl
var lineShaderSource string

// ShaderFormat selects how shader sources are handed to the HAL device.
type ShaderFormat string

const (
	// ShaderFormatWGSL passes WGSL source through; the backend compiles it.
	ShaderFormatWGSL ShaderFormat = "wgsl"

	// ShaderFormatSPIRV compiles WGSL to SPIR-V with naga before creating
	// the module.
	ShaderFormatSPIRV ShaderFormat = "spirv"
)

// createShaderModule creates a shader module from WGSL source in the
// requested format.
func createShaderModule(device hal.Device, label, source string, format ShaderFormat) (hal.ShaderModule, error) {
	var src hal.ShaderSource
	switch format {
	case ShaderFormatWGSL, "":
		src.WGSL = source
	case ShaderFormatSPIRV:
		code, err := compileSPIRV(source)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", label, err)
		}
		src.SPIRV = code
	default:
		return nil, fmt.Errorf("%s: unknown shader format %q", label, format)
	}

	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: src,
	})
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", label, err)
	}
	return module, nil
}

// compileSPIRV compiles WGSL to SPIR-V words.
func compileSPIRV(wgsl string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("naga compile: %w", err)
	}
	return spirvWords(spirvBytes), nil
}

// spirvWords converts little-endian SPIR-V bytes to 32-bit words. Trailing
// bytes that do not fill a word are dropped.
func spirvWords(b []byte) []uint32 {
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return words
}
