package tmx

import (
	"encoding/xml"
	"image/color"
	"strconv"
)

// Properties maps a custom property name to its value.
type Properties map[string]PropertyValue

// PropertyValue is one of StringValue, IntValue, FloatValue, BoolValue,
// ColorValue, FileValue, ObjectValue or ClassValue.
type PropertyValue interface {
	// Type returns the name Tiled uses for the value's type.
	Type() string
}

type (
	StringValue string
	IntValue    int
	FloatValue  float64
	BoolValue   bool
	ColorValue  color.NRGBA
	FileValue   string // Path as written in the document, not rebased
	ObjectValue uint32 // Object ID, 0 for none
)

// ClassValue holds the members of a custom class property.
type ClassValue struct {
	PropertyType string
	Properties   Properties
}

func (StringValue) Type() string { return "string" }
func (IntValue) Type() string    { return "int" }
func (FloatValue) Type() string  { return "float" }
func (BoolValue) Type() string   { return "bool" }
func (ColorValue) Type() string  { return "color" }
func (FileValue) Type() string   { return "file" }
func (ObjectValue) Type() string { return "object" }
func (ClassValue) Type() string  { return "class" }

// parseProperties decodes a <properties> element whose start tag has
// already been read. A name given twice keeps the last value.
func parseProperties(p *parser) (Properties, error) {
	props := Properties{}
	err := p.parseTag("properties", tagHandlers{
		"property": func(attrs []xml.Attr) error {
			name, v, err := parseProperty(p, attrs)
			if err != nil {
				return err
			}
			props[name] = v
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return props, nil
}

func parseProperty(p *parser, attrs []xml.Attr) (string, PropertyValue, error) {
	var name, typ, propertyType, value *string
	err := getAttrs("property", attrs,
		optAttr("name", &name, parseString),
		optAttr("type", &typ, parseString),
		optAttr("propertytype", &propertyType, parseString),
		optAttr("value", &value, parseString),
	)
	if err != nil {
		return "", nil, err
	}
	if name == nil {
		return "", nil, missingAttr("property", "name")
	}

	if valueOr(typ, "string") == "class" {
		class := ClassValue{PropertyType: valueOr(propertyType, ""), Properties: Properties{}}
		err := p.parseTag("property", tagHandlers{
			"properties": func([]xml.Attr) error {
				members, err := parseProperties(p)
				if err != nil {
					return err
				}
				class.Properties = members
				return nil
			},
		})
		if err != nil {
			return "", nil, err
		}
		return *name, class, nil
	}

	// Multi-line strings are written as text content instead of a value
	// attribute.
	var raw string
	if value != nil {
		raw = *value
		if err := p.parseTag("property", nil); err != nil {
			return "", nil, err
		}
	} else {
		text, err := p.text("property")
		if err != nil {
			return "", nil, err
		}
		raw = text
	}

	v, err := newPropertyValue(valueOr(typ, "string"), raw)
	if err != nil {
		return "", nil, err
	}
	return *name, v, nil
}

func newPropertyValue(typ, raw string) (PropertyValue, error) {
	var (
		v   PropertyValue
		err error
	)
	switch typ {
	case "string":
		v = StringValue(raw)
	case "file":
		v = FileValue(raw)
	case "int":
		var n int
		n, err = strconv.Atoi(raw)
		v = IntValue(n)
	case "float":
		var f float64
		f, err = strconv.ParseFloat(raw, 64)
		v = FloatValue(f)
	case "bool":
		var b bool
		b, err = strconv.ParseBool(raw)
		v = BoolValue(b)
	case "color":
		// An unset color property is written as an empty value.
		c := color.NRGBA{}
		if raw != "" {
			c, err = parseColor(raw)
		}
		v = ColorValue(c)
	case "object":
		var id uint32
		id, err = parseUint32(raw)
		v = ObjectValue(id)
	default:
		return nil, &AttributeError{Element: "property", Name: "type", Value: typ, Err: ErrUnknownPropertyType}
	}
	if err != nil {
		return nil, &AttributeError{Element: "property", Name: "value", Value: raw, Err: err}
	}
	return v, nil
}
