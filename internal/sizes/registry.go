package sizes

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/ironsheep/image-variants/internal/imaging"
)

// ErrInvalidInfo is returned when registered size info fails validation.
var ErrInvalidInfo = errors.New("invalid size info")

// Info is the per-size processing metadata registered for a size name.
// Nil fields are unset.
type Info struct {
	Zoom    *float64 `json:"zoom,omitempty" yaml:"zoom" validate:"omitempty,gt=0"`
	Quality *int     `json:"quality,omitempty" yaml:"quality" validate:"omitempty,min=1,max=100"`
	Filters []string `json:"filters,omitempty" yaml:"filters" validate:"omitempty,dive,required"`
}

// IsZero reports whether no field is set.
func (i Info) IsZero() bool {
	return i.Zoom == nil && i.Quality == nil && i.Filters == nil
}

// Override returns the geometry override for the registered zoom, or nil when
// no zoom is registered.
func (i Info) Override() *imaging.DimensionOverride {
	if i.Zoom == nil {
		return nil
	}
	return &imaging.DimensionOverride{Zoom: *i.Zoom}
}

// mergeMissing fills fields of i that are unset from other.
func (i Info) mergeMissing(other Info) Info {
	if i.Zoom == nil && other.Zoom != nil {
		z := *other.Zoom
		i.Zoom = &z
	}
	if i.Quality == nil && other.Quality != nil {
		q := *other.Quality
		i.Quality = &q
	}
	if i.Filters == nil && other.Filters != nil {
		i.Filters = append([]string(nil), other.Filters...)
	}
	return i
}

// Registry holds size info keyed by size name. It is safe for concurrent use.
//
// Registering a name twice merges the two entries; a key that is already set
// keeps its first value.
type Registry struct {
	mu       sync.RWMutex
	info     map[string]Info
	validate *validator.Validate
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		info:     make(map[string]Info),
		validate: validator.New(),
	}
}

// Register merges info into the entry for name.
func (r *Registry) Register(name string, info Info) error {
	if name == "" {
		return fmt.Errorf("%w: empty size name", ErrInvalidInfo)
	}
	if err := r.validate.Struct(info); err != nil {
		return fmt.Errorf("%w for %q: %v", ErrInvalidInfo, name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.info[name] = r.info[name].mergeMissing(info)
	return nil
}

// Info returns the info registered for name, or the zero Info.
func (r *Registry) Info(name string) Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Info{}.mergeMissing(r.info[name])
}

// Len returns the number of registered size names.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.info)
}
