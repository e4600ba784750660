package sizes

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/image-variants/internal/imaging"
)

// ErrInvalidSpec marks a size without width and height. Such sizes are
// skipped by the pipeline.
var ErrInvalidSpec = errors.New("size needs a width or a height")

// Spec is a requested target size. A zero Width or Height is unset and is
// derived from the other side, keeping the aspect ratio.
type Spec struct {
	Width  int          `json:"width,omitempty" yaml:"width"`
	Height int          `json:"height,omitempty" yaml:"height"`
	Crop   imaging.Crop `json:"crop" yaml:"crop"`
}

// Validate returns ErrInvalidSpec when neither side is set.
func (s Spec) Validate() error {
	if s.Width <= 0 && s.Height <= 0 {
		return ErrInvalidSpec
	}
	return nil
}

// Entry is a named size in a catalog.
type Entry struct {
	Name string `json:"name"`
	Spec
}

// Catalog is an ordered list of named sizes.
type Catalog []Entry

// Names returns the size names in catalog order.
func (c Catalog) Names() []string {
	names := make([]string, len(c))
	for i, e := range c {
		names[i] = e.Name
	}
	return names
}

// Lookup returns the entry named name.
func (c Catalog) Lookup(name string) (Entry, bool) {
	for _, e := range c {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// catalogEntry is the on-disk form of one size: its Spec and Info inline.
type catalogEntry struct {
	Spec `yaml:",inline"`
	Info `yaml:",inline"`
}

// LoadCatalog reads a size catalog file. See ParseCatalog.
func LoadCatalog(path string, reg *Registry) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	catalog, err := ParseCatalog(data, reg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return catalog, nil
}

// ParseCatalog decodes a YAML size catalog, keeping the file's key order:
//
//	sizes:
//	  thumbnail: {width: 150, height: 150, crop: true, zoom: 1.4}
//	  medium:    {width: 300, height: 300, quality: 70}
//	  banner:    {width: 1200, height: 300, crop: [center, top], filters: [sepia]}
//
// Zoom, quality and filters are registered in reg when reg is non-nil.
func ParseCatalog(data []byte, reg *Registry) (Catalog, error) {
	var doc struct {
		Sizes yaml.Node `yaml:"sizes"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	node := doc.Sizes
	if node.Kind == 0 {
		return Catalog{}, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: sizes must be a mapping of name to size", node.Line)
	}

	catalog := make(Catalog, 0, len(node.Content)/2)
	seen := make(map[string]bool, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		name := key.Value

		if seen[name] {
			return nil, fmt.Errorf("line %d: duplicate size %q", key.Line, name)
		}
		seen[name] = true

		var ce catalogEntry
		if err := value.Decode(&ce); err != nil {
			return nil, fmt.Errorf("size %q: %w", name, err)
		}
		if ce.Width < 0 || ce.Height < 0 {
			return nil, fmt.Errorf("size %q: negative dimensions %dx%d", name, ce.Width, ce.Height)
		}

		if reg != nil && !ce.Info.IsZero() {
			if err := reg.Register(name, ce.Info); err != nil {
				return nil, err
			}
		}

		catalog = append(catalog, Entry{Name: name, Spec: ce.Spec})
	}

	return catalog, nil
}
