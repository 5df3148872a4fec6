package tmx

import (
	"encoding/xml"
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

// parser owns the token stream for one decode. Handlers called from
// parseTag read from the same stream, so a handler must consume its own
// element up to and including the end tag before returning.
type parser struct {
	dec *xml.Decoder
	log *zap.Logger
}

// tagHandlers maps a child element name to the function that decodes it.
type tagHandlers map[string]func(attrs []xml.Attr) error

func newParser(r io.Reader, o options) *parser {
	dec := xml.NewDecoder(r)
	dec.Strict = o.strict
	dec.CharsetReader = charset.NewReaderLabel
	return &parser{dec: dec, log: o.log}
}

// parseTag reads tokens until the end tag of name. Start tags listed in
// handlers are dispatched, any other child element is skipped whole.
func (p *parser) parseTag(name string, handlers tagHandlers) error {
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return &StructuralError{Element: name, Err: unexpectedEOF(err)}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			handle, ok := handlers[t.Name.Local]
			if !ok {
				p.log.Debug("Unexpected tag, skipping", zap.String("parent", name), zap.String("tag", t.Name.Local))
				if err := p.dec.Skip(); err != nil {
					return &StructuralError{Element: t.Name.Local, Err: unexpectedEOF(err)}
				}
				continue
			}
			if err := handle(t.Attr); err != nil {
				return err
			}
		case xml.EndElement:
			if t.Name.Local == name {
				return nil
			}
		}
	}
}

// text returns the character data of name up to its end tag. Nested
// elements are skipped.
func (p *parser) text(name string) (string, error) {
	var sb strings.Builder
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return "", &StructuralError{Element: name, Err: unexpectedEOF(err)}
		}

		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.StartElement:
			if err := p.dec.Skip(); err != nil {
				return "", &StructuralError{Element: t.Name.Local, Err: unexpectedEOF(err)}
			}
		case xml.EndElement:
			if t.Name.Local == name {
				return sb.String(), nil
			}
		}
	}
}

// root returns the first start element of the document.
func (p *parser) root() (xml.StartElement, error) {
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return xml.StartElement{}, &StructuralError{Element: "map", Err: unexpectedEOF(err)}
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start, nil
		}
	}
}

func (p *parser) warnRepeated(parent, tag string) {
	p.log.Warn("Repeated tag, overwriting previous value", zap.String("parent", parent), zap.String("tag", tag))
}

// A bare io.EOF reads as success to most callers.
func unexpectedEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
