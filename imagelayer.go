package tmx

import "encoding/xml"

// ImageLayerData is the part of an image layer specific to its kind. It
// holds no reference to the map it came from.
type ImageLayerData struct {
	Image   *Image // nil when the layer declares no picture
	RepeatX bool
	RepeatY bool
}

// newImageLayerData decodes the body of an <imagelayer> whose start tag
// and attrs have already been read. Properties are returned separately so
// the caller can merge them into the common layer fields.
//
// A repeated attribute keeps its first value. A repeated <image> or
// <properties> child replaces the previous one.
func newImageLayerData(p *parser, attrs []xml.Attr, mapPath string) (ImageLayerData, Properties, error) {
	dir, err := baseDir(mapPath)
	if err != nil {
		return ImageLayerData{}, nil, err
	}

	var repeatX, repeatY *bool
	err = getAttrs("imagelayer", attrs,
		optAttr("repeatx", &repeatX, parseFlag),
		optAttr("repeaty", &repeatY, parseFlag),
	)
	if err != nil {
		return ImageLayerData{}, nil, err
	}

	var img *Image
	properties := Properties{}
	seenProperties := false
	err = p.parseTag("imagelayer", tagHandlers{
		"image": func(attrs []xml.Attr) error {
			if img != nil {
				p.warnRepeated("imagelayer", "image")
			}
			i, err := newImage(p, attrs, dir)
			if err != nil {
				return err
			}
			img = &i
			return nil
		},
		"properties": func([]xml.Attr) error {
			if seenProperties {
				p.warnRepeated("imagelayer", "properties")
			}
			props, err := parseProperties(p)
			if err != nil {
				return err
			}
			properties = props
			seenProperties = true
			return nil
		},
	})
	if err != nil {
		return ImageLayerData{}, nil, err
	}

	return ImageLayerData{
		Image:   img,
		RepeatX: valueOr(repeatX, false),
		RepeatY: valueOr(repeatY, false),
	}, properties, nil
}
