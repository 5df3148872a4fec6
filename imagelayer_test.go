package tmx

import (
	"encoding/xml"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var level1 = filepath.FromSlash("/maps/level1.tmx")

func decodeImageLayerData(t *testing.T, doc, mapPath string, opts ...Option) (ImageLayerData, Properties, error) {
	t.Helper()

	p, start := startParser(t, doc, opts...)
	if start.Name.Local != "imagelayer" {
		t.Fatalf("document starts with <%s>", start.Name.Local)
	}
	return newImageLayerData(p, start.Attr, mapPath)
}

func TestImageLayerEndToEnd(t *testing.T) {
	doc := `<imagelayer repeatx="1" repeaty="0"><image source="tile.png" width="32" height="32"/><properties><property name="z" value="1"/></properties></imagelayer>`

	data, props, err := decodeImageLayerData(t, doc, level1)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	if !data.RepeatX || data.RepeatY {
		t.Errorf("repeat = %t,%t, want true,false", data.RepeatX, data.RepeatY)
	}

	want := &Image{Source: filepath.Join(filepath.FromSlash("/maps"), "tile.png"), Width: 32, Height: 32}
	if !reflect.DeepEqual(data.Image, want) {
		t.Errorf("image = %+v, want %+v", data.Image, want)
	}

	if !reflect.DeepEqual(props, Properties{"z": StringValue("1")}) {
		t.Errorf("properties = %v", props)
	}
}

func TestImageLayerRepeatFlags(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"0", false},
		{"2", false},
		{"-1", false},
	}

	for _, tt := range tests {
		doc := `<imagelayer repeatx="` + tt.value + `" repeaty="` + tt.value + `"></imagelayer>`
		data, _, err := decodeImageLayerData(t, doc, level1)
		if err != nil {
			t.Errorf("repeatx=%q: unexpected error %v", tt.value, err)
			continue
		}
		if data.RepeatX != tt.want || data.RepeatY != tt.want {
			t.Errorf("repeatx=%q: got %t,%t, want %t", tt.value, data.RepeatX, data.RepeatY, tt.want)
		}
	}
}

func TestImageLayerDefaults(t *testing.T) {
	data, props, err := decodeImageLayerData(t, `<imagelayer></imagelayer>`, level1)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if data.RepeatX || data.RepeatY {
		t.Errorf("flags should default to false")
	}
	if data.Image != nil {
		t.Errorf("image should be absent, got %+v", data.Image)
	}
	if props == nil || len(props) != 0 {
		t.Errorf("expected empty property map, got %v", props)
	}
}

func TestImageLayerCoercionFailure(t *testing.T) {
	data, props, err := decodeImageLayerData(t, `<imagelayer repeaty="1" repeatx="abc"><image source="a.png"/></imagelayer>`, level1)

	var attrErr *AttributeError
	if !errors.As(err, &attrErr) {
		t.Fatalf("expected *AttributeError, got %v", err)
	}
	if attrErr.Name != "repeatx" || attrErr.Value != "abc" {
		t.Errorf("unexpected error fields %+v", attrErr)
	}
	if !reflect.DeepEqual(data, ImageLayerData{}) || props != nil {
		t.Errorf("failed decode returned partial result %+v, %v", data, props)
	}
}

func TestImageLayerDuplicateAttributeFirstWins(t *testing.T) {
	data, _, err := decodeImageLayerData(t, `<imagelayer repeatx="1" repeatx="0"></imagelayer>`, level1)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !data.RepeatX {
		t.Errorf("expected first repeatx to win")
	}
}

func TestImageLayerDuplicateChildLastWins(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	doc := `<imagelayer>
	<image source="first.png"/>
	<properties><property name="a" value="1"/></properties>
	<image source="second.png"/>
	<properties><property name="b" value="2"/></properties>
</imagelayer>`

	data, props, err := decodeImageLayerData(t, doc, level1, WithLogger(zap.New(core)))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	if !reflect.DeepEqual(props, Properties{"b": StringValue("2")}) {
		t.Errorf("properties = %v, want only the second set", props)
	}
	if data.Image == nil || filepath.Base(data.Image.Source) != "second.png" {
		t.Errorf("image = %+v, want second.png", data.Image)
	}

	if n := logs.FilterField(zap.String("tag", "image")).Len(); n != 1 {
		t.Errorf("expected one warning for repeated <image>, got %d", n)
	}
	if n := logs.FilterField(zap.String("tag", "properties")).Len(); n != 1 {
		t.Errorf("expected one warning for repeated <properties>, got %d", n)
	}
}

func TestImageLayerSkipsUnknownChild(t *testing.T) {
	doc := `<imagelayer repeaty="1"><foo><image source="hidden.png"/><properties><property name="x" value="y"/></properties></foo><image source="sky.png"/></imagelayer>`

	data, props, err := decodeImageLayerData(t, doc, level1)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if data.Image == nil || filepath.Base(data.Image.Source) != "sky.png" {
		t.Errorf("image = %+v, want sky.png", data.Image)
	}
	if !data.RepeatY || data.RepeatX {
		t.Errorf("unexpected flags %+v", data)
	}
	if len(props) != 0 {
		t.Errorf("properties inside <foo> leaked: %v", props)
	}
}

func TestImageLayerTruncated(t *testing.T) {
	docs := []string{
		`<imagelayer repeatx="1"><image source="a.png"/>`,
		`<imagelayer><properties><property name="a" value="1"/>`,
		`<imagelayer><foo>`,
	}

	for _, doc := range docs {
		_, _, err := decodeImageLayerData(t, doc, level1)

		var structErr *StructuralError
		if !errors.As(err, &structErr) {
			t.Errorf("%s: expected *StructuralError, got %v", doc, err)
		}
	}
}

func TestImageLayerPathIsNotFile(t *testing.T) {
	r := &countingReader{r: strings.NewReader(`<image source="a.png"/></imagelayer>`)}
	p := &parser{dec: xml.NewDecoder(r), log: zap.NewNop()}

	_, _, err := newImageLayerData(p, attrs("repeatx", "1"), string(filepath.Separator))
	if !errors.Is(err, ErrPathIsNotFile) {
		t.Fatalf("expected ErrPathIsNotFile, got %v", err)
	}
	if r.reads != 0 {
		t.Errorf("document was read before the path was checked")
	}
}

func TestImageLayerCollaboratorErrorUnchanged(t *testing.T) {
	_, _, err := decodeImageLayerData(t, `<imagelayer><properties><property name="n" type="int" value="x"/></properties></imagelayer>`, level1)

	var attrErr *AttributeError
	if !errors.As(err, &attrErr) {
		t.Fatalf("expected *AttributeError, got %v", err)
	}
	if attrErr.Element != "property" || attrErr.Value != "x" {
		t.Errorf("property parser error was rewritten: %+v", attrErr)
	}

	_, _, err = decodeImageLayerData(t, `<imagelayer><image width="3"/></imagelayer>`, level1)
	if !errors.Is(err, ErrMissingAttribute) {
		t.Errorf("expected ErrMissingAttribute from image resolver, got %v", err)
	}
}

type countingReader struct {
	r     *strings.Reader
	reads int
}

func (c *countingReader) Read(b []byte) (int, error) {
	c.reads++
	return c.r.Read(b)
}
