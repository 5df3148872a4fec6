// Package tmx decodes the image layers of Tiled TMX maps.
//
// Decoding streams the document with encoding/xml. Image sources are
// resolved against the directory of the map file, so the path given to
// the decoder must name the map itself and not its directory.
package tmx

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"os"
)

// LoadImageLayers reads the map file at path and returns its image layers.
func LoadImageLayers(path string, opts ...Option) ([]ImageLayer, error) {
	if _, err := baseDir(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tmx: open map: %w", err)
	}
	defer f.Close()

	return DecodeImageLayers(bufio.NewReader(f), path, opts...)
}

// DecodeImageLayers reads a TMX document from r and returns its image
// layers in document order, including those inside groups. mapPath is the
// path the document was read from.
func DecodeImageLayers(r io.Reader, mapPath string, opts ...Option) ([]ImageLayer, error) {
	if _, err := baseDir(mapPath); err != nil {
		return nil, err
	}

	p := newParser(r, newOptions(opts))
	root, err := p.root()
	if err != nil {
		return nil, err
	}
	if root.Name.Local != "map" {
		return nil, fmt.Errorf("%w: <%s>", ErrNotAMap, root.Name.Local)
	}

	layers := []ImageLayer{}
	if err := p.collectImageLayers("map", mapPath, &layers); err != nil {
		return nil, err
	}
	return layers, nil
}

func (p *parser) collectImageLayers(element, mapPath string, layers *[]ImageLayer) error {
	return p.parseTag(element, tagHandlers{
		"imagelayer": func(attrs []xml.Attr) error {
			layer, err := p.imageLayer(attrs, mapPath)
			if err != nil {
				return err
			}
			*layers = append(*layers, layer)
			return nil
		},
		"group": func([]xml.Attr) error {
			return p.collectImageLayers("group", mapPath, layers)
		},
	})
}
