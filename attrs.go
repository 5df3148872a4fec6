package tmx

import (
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"image/color"
	"path/filepath"
	"strconv"
	"strings"
)

// attrRule binds one attribute name to a conversion and a destination.
type attrRule struct {
	name   string
	filled func() bool
	set    func(value string) error
}

// optAttr converts the attribute called name with conv and stores the
// result in *dst. A nil *dst means the attribute was not seen.
func optAttr[T any](name string, dst **T, conv func(string) (T, error)) attrRule {
	return attrRule{
		name:   name,
		filled: func() bool { return *dst != nil },
		set: func(value string) error {
			v, err := conv(value)
			if err != nil {
				return err
			}
			*dst = &v
			return nil
		},
	}
}

// getAttrs applies rules to attrs in document order. Only the first
// occurrence of a name is converted. Attributes without a rule are
// ignored.
func getAttrs(element string, attrs []xml.Attr, rules ...attrRule) error {
	for _, a := range attrs {
		for _, r := range rules {
			if r.name != a.Name.Local || r.filled() {
				continue
			}
			if err := r.set(a.Value); err != nil {
				return &AttributeError{Element: element, Name: a.Name.Local, Value: a.Value, Err: err}
			}
		}
	}
	return nil
}

func missingAttr(element, name string) error {
	return &AttributeError{Element: element, Name: name, Err: ErrMissingAttribute}
}

func valueOr[T any](v *T, def T) T {
	if v == nil {
		return def
	}
	return *v
}

// parseFlag reads the 0/1 integers Tiled writes for boolean attributes.
// Any integer other than 1 is false.
func parseFlag(s string) (bool, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func parseString(s string) (string, error) { return s, nil }

func parseInt(s string) (int, error) { return strconv.Atoi(s) }

func parseUint32(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	return uint32(n), err
}

func parseFloat(s string) (float64, error) { return strconv.ParseFloat(s, 64) }

// parseColor accepts #RRGGBB and #AARRGGBB, with or without the '#'.
func parseColor(s string) (color.NRGBA, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "#"))
	if err != nil {
		return color.NRGBA{}, err
	}
	switch len(b) {
	case 3:
		return color.NRGBA{R: b[0], G: b[1], B: b[2], A: 0xff}, nil
	case 4:
		return color.NRGBA{R: b[1], G: b[2], B: b[3], A: b[0]}, nil
	}
	return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
}

// baseDir returns the directory relative paths in the map at mapPath are
// resolved against.
func baseDir(mapPath string) (string, error) {
	if mapPath == "" {
		return "", ErrPathIsNotFile
	}
	clean := filepath.Clean(mapPath)
	dir := filepath.Dir(clean)
	if dir == clean {
		return "", ErrPathIsNotFile
	}
	return dir, nil
}

func resolvePath(dir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(dir, p)
}
