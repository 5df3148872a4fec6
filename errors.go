package tmx

import (
	"errors"
	"fmt"
)

var (
	ErrPathIsNotFile          = errors.New("tmx: map path has no parent directory")
	ErrMissingAttribute       = errors.New("tmx: missing required attribute")
	ErrUnknownPropertyType    = errors.New("tmx: unknown property type")
	ErrUnsupportedEncoding    = errors.New("tmx: unsupported data encoding")
	ErrUnsupportedCompression = errors.New("tmx: unsupported data compression")
	ErrNotAMap                = errors.New("tmx: root element is not a map")
	ErrUnexpectedElement      = errors.New("tmx: unexpected element")
)

// AttributeError reports an attribute whose value could not be converted,
// or a required attribute that was not present.
type AttributeError struct {
	Element string
	Name    string
	Value   string
	Err     error
}

func (e *AttributeError) Error() string {
	if errors.Is(e.Err, ErrMissingAttribute) {
		return fmt.Sprintf("tmx: <%s> is missing attribute %q", e.Element, e.Name)
	}
	return fmt.Sprintf("tmx: <%s> attribute %s=%q: %v", e.Element, e.Name, e.Value, e.Err)
}

func (e *AttributeError) Unwrap() error { return e.Err }

// StructuralError reports a document that ended, or stopped being well
// formed, before the end tag of Element was read.
type StructuralError struct {
	Element string
	Err     error
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("tmx: malformed document inside <%s>: %v", e.Element, e.Err)
}

func (e *StructuralError) Unwrap() error { return e.Err }
