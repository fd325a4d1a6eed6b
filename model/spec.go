package model

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/netvis-dev/eqvm/interp"
	"github.com/netvis-dev/eqvm/vm"
	"gopkg.in/yaml.v3"
)

// A Sheet is a set of named attributes and the equations evaluated against
// them, as found in a .toml or .yaml file.
type Sheet struct {
	Settings   Settings                `toml:"settings" yaml:"settings"`
	Attributes map[string]any          `toml:"attributes" yaml:"attributes"`
	Undefined  []string                `toml:"undefined" yaml:"undefined"`
	Equations  map[string]EquationSpec `toml:"equations" yaml:"equations"`
}

type Settings struct {
	Workers   int `toml:"workers,omitempty" yaml:"workers,omitempty"`
	CacheSize int `toml:"cache_size,omitempty" yaml:"cache_size,omitempty"`
}

type EquationSpec struct {
	Source    string     `toml:"source,omitempty" yaml:"source,omitempty"`
	Code      []CellSpec `toml:"code" yaml:"code"`
	Locations []int      `toml:"locations,omitempty" yaml:"locations,omitempty"`

	// Expect and ExpectError turn an equation into a check.
	Expect      any    `toml:"expect,omitempty" yaml:"expect,omitempty"`
	ExpectError string `toml:"expect_error,omitempty" yaml:"expect_error,omitempty"`
}

type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

// FormatForPath picks the decoder from the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("unknown sheet format for %s", path)
}

func ParseSheet(r io.Reader, format Format) (*Sheet, error) {
	var out Sheet
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&out); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&out); err != nil && err != io.EOF {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown sheet format %d", format)
	}
	return &out, nil
}

func LoadSheetFromFile(path string) (*Sheet, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := ParseSheet(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Names returns the equation names in sorted order.
func (s *Sheet) Names() []string {
	out := make([]string, 0, len(s.Equations))
	for k := range s.Equations {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Resolver builds the read-only attribute lookup shared by every equation.
// Attributes with a null value and names listed under undefined are known
// but have no value.
func (s *Sheet) Resolver() (interp.MapResolver, error) {
	out := make(interp.MapResolver, len(s.Attributes)+len(s.Undefined))
	for name, raw := range s.Attributes {
		if raw == nil {
			out[name] = nil
			continue
		}
		v, err := vm.NewValue(raw)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		out[name] = v
	}
	for _, name := range s.Undefined {
		if _, ok := out[name]; ok {
			return nil, fmt.Errorf("attribute %q is both defined and undefined", name)
		}
		out[name] = nil
	}
	return out, nil
}
