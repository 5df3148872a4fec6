package tmx

import (
	"encoding/xml"
	"fmt"
	"image/color"

	"go.uber.org/zap"
)

// LayerData holds the fields every Tiled layer kind has.
type LayerData struct {
	ID         uint32
	Name       string
	Class      string
	Visible    bool
	Opacity    float64
	OffsetX    float64
	OffsetY    float64
	ParallaxX  float64
	ParallaxY  float64
	TintColor  *color.NRGBA
	Properties Properties
}

// ImageLayer is a layer consisting of a single image.
type ImageLayer struct {
	LayerData
	ImageLayerData
}

func newLayerData(element string, attrs []xml.Attr) (LayerData, error) {
	var id *uint32
	var name, class *string
	var visible *bool
	var opacity, offsetX, offsetY, parallaxX, parallaxY *float64
	var tint *color.NRGBA
	err := getAttrs(element, attrs,
		optAttr("id", &id, parseUint32),
		optAttr("name", &name, parseString),
		optAttr("class", &class, parseString),
		optAttr("visible", &visible, parseFlag),
		optAttr("opacity", &opacity, parseFloat),
		optAttr("offsetx", &offsetX, parseFloat),
		optAttr("offsety", &offsetY, parseFloat),
		optAttr("parallaxx", &parallaxX, parseFloat),
		optAttr("parallaxy", &parallaxY, parseFloat),
		optAttr("tintcolor", &tint, parseColor),
	)
	if err != nil {
		return LayerData{}, err
	}

	return LayerData{
		ID:        valueOr(id, 0),
		Name:      valueOr(name, ""),
		Class:     valueOr(class, ""),
		Visible:   valueOr(visible, true),
		Opacity:   valueOr(opacity, 1),
		OffsetX:   valueOr(offsetX, 0),
		OffsetY:   valueOr(offsetY, 0),
		ParallaxX: valueOr(parallaxX, 1),
		ParallaxY: valueOr(parallaxY, 1),
		TintColor: tint,
	}, nil
}

func (p *parser) imageLayer(attrs []xml.Attr, mapPath string) (ImageLayer, error) {
	layer, err := newLayerData("imagelayer", attrs)
	if err != nil {
		return ImageLayer{}, err
	}
	data, props, err := newImageLayerData(p, attrs, mapPath)
	if err != nil {
		return ImageLayer{}, err
	}
	layer.Properties = props

	p.log.Debug("Decoded image layer", zap.Uint32("id", layer.ID), zap.String("name", layer.Name))
	return ImageLayer{LayerData: layer, ImageLayerData: data}, nil
}

// DecodeImageLayer decodes one <imagelayer> element from dec. The caller
// has already read start. mapPath is the path of the document being
// decoded and is used to resolve the layer's image source.
func DecodeImageLayer(dec *xml.Decoder, start xml.StartElement, mapPath string, opts ...Option) (ImageLayer, error) {
	if start.Name.Local != "imagelayer" {
		return ImageLayer{}, fmt.Errorf("%w: <%s>, want <imagelayer>", ErrUnexpectedElement, start.Name.Local)
	}
	o := newOptions(opts)
	p := &parser{dec: dec, log: o.log}
	return p.imageLayer(start.Attr, mapPath)
}
