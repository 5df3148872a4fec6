package tmx

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// Image references a picture used by a map, either a file or bytes
// embedded in the document.
type Image struct {
	Source      string       // Path resolved against the map's directory, empty when embedded
	Format      string       // Format hint for embedded data, e.g. "png"
	Width       int          // Declared width in pixels, 0 if unset
	Height      int          // Declared height in pixels, 0 if unset
	Transparent *color.NRGBA // Color to treat as transparent, if any
	Data        []byte       // Embedded picture bytes
}

// newImage decodes an <image> element whose start tag has already been
// read. A relative source is joined to dir.
func newImage(p *parser, attrs []xml.Attr, dir string) (Image, error) {
	var source, format *string
	var width, height *int
	var trans *color.NRGBA
	err := getAttrs("image", attrs,
		optAttr("source", &source, parseString),
		optAttr("format", &format, parseString),
		optAttr("width", &width, parseInt),
		optAttr("height", &height, parseInt),
		optAttr("trans", &trans, parseColor),
	)
	if err != nil {
		return Image{}, err
	}

	img := Image{
		Format:      valueOr(format, ""),
		Width:       valueOr(width, 0),
		Height:      valueOr(height, 0),
		Transparent: trans,
	}

	err = p.parseTag("image", tagHandlers{
		"data": func(attrs []xml.Attr) error {
			data, err := parseImageData(p, attrs)
			if err != nil {
				return err
			}
			img.Data = data
			return nil
		},
	})
	if err != nil {
		return Image{}, err
	}

	switch {
	case source != nil:
		img.Source = resolvePath(dir, *source)
	case img.Data == nil:
		return Image{}, missingAttr("image", "source")
	}
	return img, nil
}

// parseImageData decodes the base64 text of a <data> element inside an
// <image>, inflating it when compression="zlib".
func parseImageData(p *parser, attrs []xml.Attr) ([]byte, error) {
	var encoding, compression *string
	err := getAttrs("data", attrs,
		optAttr("encoding", &encoding, parseString),
		optAttr("compression", &compression, parseString),
	)
	if err != nil {
		return nil, err
	}
	if encoding == nil {
		return nil, missingAttr("data", "encoding")
	}
	if *encoding != "base64" {
		return nil, &AttributeError{Element: "data", Name: "encoding", Value: *encoding, Err: ErrUnsupportedEncoding}
	}

	text, err := p.text("data")
	if err != nil {
		return nil, err
	}
	data, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(text), ""))
	if err != nil {
		return nil, fmt.Errorf("tmx: embedded image data: %w", err)
	}

	switch c := valueOr(compression, ""); c {
	case "":
		return data, nil
	case "zlib":
		return decompressZlib(data)
	default:
		return nil, &AttributeError{Element: "data", Name: "compression", Value: c, Err: ErrUnsupportedCompression}
	}
}

func decompressZlib(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("tmx: zlib input is empty")
	}

	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("tmx: failed to create zlib reader: %w", err)
	}
	defer r.Close()

	var out bytes.Buffer
	if _, err := io.Copy(&out, r); err != nil {
		return nil, fmt.Errorf("tmx: failed to decompress zlib data: %w", err)
	}
	return out.Bytes(), nil
}

// Decode reads the picture, from Data when embedded and from Source
// otherwise. Pixels matching Transparent become fully transparent.
func (img *Image) Decode() (image.Image, error) {
	var r io.Reader
	if img.Data != nil {
		r = bytes.NewReader(img.Data)
	} else {
		f, err := os.Open(img.Source)
		if err != nil {
			return nil, fmt.Errorf("tmx: open image: %w", err)
		}
		defer f.Close()
		r = f
	}

	m, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("tmx: decode image %s: %w", img.name(), err)
	}
	if img.Transparent == nil {
		return m, nil
	}
	return colorKey(m, *img.Transparent), nil
}

// EbitenImage decodes the picture into an image ready to draw.
func (img *Image) EbitenImage() (*ebiten.Image, error) {
	m, err := img.Decode()
	if err != nil {
		return nil, err
	}
	return ebiten.NewImageFromImage(m), nil
}

func (img *Image) name() string {
	if img.Source != "" {
		return img.Source
	}
	return "<embedded>"
}

func colorKey(m image.Image, key color.NRGBA) *image.NRGBA {
	b := m.Bounds()
	out := image.NewNRGBA(b)
	draw.Draw(out, b, m, b.Min, draw.Src)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := out.NRGBAAt(x, y)
			if c.R == key.R && c.G == key.G && c.B == key.B {
				out.SetNRGBA(x, y, color.NRGBA{})
			}
		}
	}
	return out
}
