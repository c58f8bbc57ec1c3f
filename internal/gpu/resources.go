//go:build !nogpu

package gpu

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/overlay"
	"github.com/gogpu/wgpu/hal"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"gopkg.in/yaml.v3"
)

//go:embed resources.yaml
var defaultDescriptorYAML []byte

// ErrInvalidDescriptor is returned for descriptors that cannot be built.
var ErrInvalidDescriptor = errors.New("gpu: invalid resource descriptor")

// Font faces a descriptor can name.
const (
	FaceBasic  = "basic"
	FaceGoMono = "gomono"
)

// Descriptor configures the GPU resource bundle. The defaults live in the
// embedded resources.yaml.
type Descriptor struct {
	Font struct {
		Face string  `yaml:"face"`
		Size float64 `yaml:"size"`
		DPI  float64 `yaml:"dpi"`
	} `yaml:"font"`

	Atlas struct {
		Columns int `yaml:"columns"`
	} `yaml:"atlas"`

	Shader struct {
		Format ShaderFormat `yaml:"format"`
	} `yaml:"shader"`
}

// DefaultDescriptor returns the embedded default descriptor.
func DefaultDescriptor() Descriptor {
	var d Descriptor
	if err := yaml.Unmarshal(defaultDescriptorYAML, &d); err != nil {
		panic(fmt.Sprintf("gpu: embedded resources.yaml: %v", err))
	}
	return d
}

// ParseDescriptor parses a YAML descriptor. Fields it leaves out keep
// their default values.
func ParseDescriptor(data []byte) (Descriptor, error) {
	d := DefaultDescriptor()
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Descriptor{}, fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
	}
	if err := d.Validate(); err != nil {
		return Descriptor{}, err
	}
	return d, nil
}

// Validate reports whether d names a known face, a positive atlas width
// and a known shader format.
func (d *Descriptor) Validate() error {
	switch d.Font.Face {
	case FaceBasic:
	case FaceGoMono:
		if d.Font.Size <= 0 || d.Font.DPI <= 0 {
			return fmt.Errorf("%w: font size %v at %v dpi", ErrInvalidDescriptor, d.Font.Size, d.Font.DPI)
		}
	default:
		return fmt.Errorf("%w: unknown font face %q", ErrInvalidDescriptor, d.Font.Face)
	}
	if d.Atlas.Columns <= 0 {
		return fmt.Errorf("%w: atlas columns %d", ErrInvalidDescriptor, d.Atlas.Columns)
	}
	switch d.Shader.Format {
	case ShaderFormatWGSL, ShaderFormatSPIRV:
	default:
		return fmt.Errorf("%w: unknown shader format %q", ErrInvalidDescriptor, d.Shader.Format)
	}
	return nil
}

// NewFace opens the font face the descriptor names.
func (d *Descriptor) NewFace() (font.Face, error) {
	switch d.Font.Face {
	case FaceBasic:
		return basicfont.Face7x13, nil
	case FaceGoMono:
		f, err := opentype.Parse(gomono.TTF)
		if err != nil {
			return nil, fmt.Errorf("parse gomono: %w", err)
		}
		face, err := opentype.NewFace(f, &opentype.FaceOptions{
			Size:    d.Font.Size,
			DPI:     d.Font.DPI,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, fmt.Errorf("gomono face: %w", err)
		}
		return face, nil
	default:
		return nil, fmt.Errorf("%w: unknown font face %q", ErrInvalidDescriptor, d.Font.Face)
	}
}

// Bundle owns the GPU objects behind an overlay resource bundle.
type Bundle struct {
	device hal.Device

	Device *Device
	Glyph  *Material
	Line   *Material
	Atlas  *GlyphAtlas

	atlasTex *atlasTexture
}

// NewBundle rasterizes the glyph atlas, uploads it and creates both
// materials for render passes targeting format.
func NewBundle(device hal.Device, queue hal.Queue, format gputypes.TextureFormat, desc Descriptor) (*Bundle, error) {
	if device == nil || queue == nil {
		return nil, errors.New("gpu: nil device or queue")
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	if format == gputypes.TextureFormatUndefined {
		format = gputypes.TextureFormatBGRA8Unorm
	}

	face, err := desc.NewFace()
	if err != nil {
		return nil, err
	}
	atlas, err := NewGlyphAtlas(face, desc.Atlas.Columns)
	if err != nil {
		return nil, err
	}

	b := &Bundle{
		device: device,
		Device: NewDevice(device, queue),
		Atlas:  atlas,
	}
	b.atlasTex, err = uploadAtlas(device, queue, atlas)
	if err != nil {
		return nil, err
	}

	b.Glyph, err = newMaterial(device, queue, materialConfig{
		name:   "glyph",
		source: glyphShaderSource,
		atlas:  b.atlasTex,
		shader: desc.Shader.Format,
		target: format,
	})
	if err != nil {
		b.Destroy()
		return nil, err
	}

	b.Line, err = newMaterial(device, queue, materialConfig{
		name:   "line",
		source: lineShaderSource,
		shader: desc.Shader.Format,
		target: format,
	})
	if err != nil {
		b.Destroy()
		return nil, err
	}

	slogger().Debug("gpu: overlay bundle created",
		"face", desc.Font.Face,
		"cell", fmt.Sprintf("%dx%d", atlas.CellWidth, atlas.CellHeight),
		"format", fmt.Sprintf("%v", format))
	return b, nil
}

// Resources returns the bundle in the form the overlay renders with.
func (b *Bundle) Resources() *overlay.Resources {
	return &overlay.Resources{
		Device:        b.Device,
		GlyphMaterial: b.Glyph,
		LineMaterial:  b.Line,
		CellWidth:     b.Atlas.CellWidth,
		CellHeight:    b.Atlas.CellHeight,
		CharCols:      b.Atlas.Cols,
	}
}

// Destroy releases the materials and atlas. Overlays using the bundle must
// be shut down first.
func (b *Bundle) Destroy() {
	if b.Line != nil {
		b.Line.Destroy()
		b.Line = nil
	}
	if b.Glyph != nil {
		b.Glyph.Destroy()
		b.Glyph = nil
	}
	if b.atlasTex != nil {
		b.atlasTex.destroy(b.device)
		b.atlasTex = nil
	}
}
