package imaging

import (
	"fmt"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Crop anchors.
const (
	AnchorLeft   = "left"
	AnchorRight  = "right"
	AnchorTop    = "top"
	AnchorBottom = "bottom"
	AnchorCenter = "center"
)

// Crop selects between fit mode and crop mode for a resize.
//
// In configuration files and tool arguments a crop is written either as a
// boolean or as an anchor list such as [left, top]:
//
//	crop: true           # crop, centered
//	crop: [right, top]   # crop, biased to the top-right corner
//	crop: []             # no crop
//
// An anchor list that does not hold exactly two entries still crops, centered.
type Crop struct {
	Enabled bool
	Anchor  []string
}

// NoCrop returns a fit-mode crop spec.
func NoCrop() Crop {
	return Crop{}
}

// CropCenter returns a crop spec anchored at the center of the image.
func CropCenter() Crop {
	return Crop{Enabled: true}
}

// CropAt returns a crop spec anchored at the given horizontal and vertical
// positions.
func CropAt(x, y string) Crop {
	return Crop{Enabled: true, Anchor: []string{x, y}}
}

// ParseCrop reads the command-line form of a crop: "true", "false", or a
// comma separated anchor pair such as "left,top".
func ParseCrop(s string) (Crop, error) {
	if enabled, err := strconv.ParseBool(s); err == nil {
		return Crop{Enabled: enabled}, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Crop{}, fmt.Errorf("invalid crop %q: want true, false or x,y", s)
	}
	return CropAt(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])), nil
}

// Anchors returns the horizontal and vertical anchor, falling back to
// (center, center) when the anchor list is not a pair.
func (c Crop) Anchors() (string, string) {
	if len(c.Anchor) != 2 {
		return AnchorCenter, AnchorCenter
	}
	return c.Anchor[0], c.Anchor[1]
}

func (c Crop) String() string {
	if !c.Enabled {
		return "fit"
	}
	x, y := c.Anchors()
	return fmt.Sprintf("crop(%s,%s)", x, y)
}

// MarshalJSON writes false, true, or the anchor list.
func (c Crop) MarshalJSON() ([]byte, error) {
	if !c.Enabled {
		return []byte("false"), nil
	}
	if len(c.Anchor) > 0 {
		return json.Marshal(c.Anchor)
	}
	return []byte("true"), nil
}

// UnmarshalJSON accepts a boolean, null, or an anchor list.
func (c *Crop) UnmarshalJSON(data []byte) error {
	var enabled bool
	if err := json.Unmarshal(data, &enabled); err == nil {
		*c = Crop{Enabled: enabled}
		return nil
	}

	var anchor []string
	if err := json.Unmarshal(data, &anchor); err != nil {
		return fmt.Errorf("crop must be a boolean or an anchor list: %w", err)
	}
	*c = Crop{Enabled: len(anchor) > 0, Anchor: anchor}
	return nil
}

// UnmarshalYAML accepts a boolean, null, or an anchor sequence.
func (c *Crop) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*c = Crop{}
			return nil
		}
		var enabled bool
		if err := value.Decode(&enabled); err != nil {
			return fmt.Errorf("line %d: crop must be a boolean or an anchor list: %w", value.Line, err)
		}
		*c = Crop{Enabled: enabled}
		return nil
	case yaml.SequenceNode:
		var anchor []string
		if err := value.Decode(&anchor); err != nil {
			return fmt.Errorf("line %d: invalid crop anchor: %w", value.Line, err)
		}
		*c = Crop{Enabled: len(anchor) > 0, Anchor: anchor}
		return nil
	default:
		return fmt.Errorf("line %d: crop must be a boolean or an anchor list", value.Line)
	}
}
