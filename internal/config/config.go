// Package config holds the tuning parameters of the edge-map computation and
// their validation.
package config

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
)

// ErrInvalidConfig is matched by every *ValidationError.
var ErrInvalidConfig = errors.New("invalid configuration")

type ValidationError struct {
	Context string
	Field   string
	Value   interface{}
	Reason  string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid %s value %v - %s", ve.Context, ve.Field, ve.Value, ve.Reason)
}

func (ve *ValidationError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// ScaleType selects how an oversized source is brought down to the target
// scale size. The numeric values follow the command line of the tag reader.
type ScaleType int

const (
	ScaleFast      ScaleType = iota // skip pixels (nearest neighbour)
	ScaleAveraging                  // average a cross of source pixels
	ScaleNative                     // let the image library resize
)

func (s ScaleType) String() string {
	switch s {
	case ScaleFast:
		return "fast"
	case ScaleAveraging:
		return "averaging"
	case ScaleNative:
		return "native"
	default:
		return fmt.Sprintf("ScaleType(%d)", int(s))
	}
}

// Config is read-only once handed to the engine.
type Config struct {
	// WindowSize is the side of the square neighbourhood used for the
	// local mean. Smaller is faster.
	WindowSize int `toml:"window_size"`

	// Offset is subtracted from the local mean before comparison.
	Offset int `toml:"offset"`

	// RGBFactor scales Offset to the intensity range of the source
	// (1 for 8-bit decoders, 256 for 16-bit ones).
	RGBFactor int `toml:"rgb_factor"`

	// ScaleSize is the bounding box the source is scaled into. Zero, or any
	// value below WindowSize, disables scaling.
	ScaleSize int `toml:"scale_size"`

	// MinScaleSize is the smallest accepted non-zero ScaleSize.
	MinScaleSize int `toml:"min_scale_size"`

	FastScale   bool `toml:"fast_scale"`
	NativeScale bool `toml:"native_scale"`

	// Workers selects the two-way row split when set to 2. Every other
	// value runs a single pass.
	Workers int `toml:"workers"`

	Debug       bool `toml:"debug"`
	VisualDebug bool `toml:"visual_debug"`

	// KeepClassification returns the filled/blank buffer alongside the
	// edge map instead of dropping it after edge marking.
	KeepClassification bool `toml:"keep_classification"`
}

func Default() Config {
	return Config{
		WindowSize:   48,
		Offset:       10,
		RGBFactor:    1,
		ScaleSize:    320,
		MinScaleSize: 64,
		FastScale:    true,
		NativeScale:  false,
		Workers:      1,
	}
}

// ScaleType reports the scaling mode the flags select.
func (c Config) ScaleType() ScaleType {
	switch {
	case c.NativeScale:
		return ScaleNative
	case c.FastScale:
		return ScaleFast
	default:
		return ScaleAveraging
	}
}

// SetScaleType sets the scaling flags from a ScaleType.
func (c *Config) SetScaleType(t ScaleType) {
	c.NativeScale = t == ScaleNative
	c.FastScale = t != ScaleAveraging
}

// ParseScaleType accepts the numeric scale type of the command line:
// 1 averaging, 2 native, anything else fast.
func ParseScaleType(n int) ScaleType {
	switch n {
	case 1:
		return ScaleAveraging
	case 2:
		return ScaleNative
	default:
		return ScaleFast
	}
}

func (c Config) Validate() error {
	const ctx = "config validation"

	if c.WindowSize < 1 {
		return &ValidationError{Context: ctx, Field: "WindowSize", Value: c.WindowSize, Reason: "must be positive"}
	}

	if c.RGBFactor < 1 {
		return &ValidationError{Context: ctx, Field: "RGBFactor", Value: c.RGBFactor, Reason: "must be positive"}
	}

	if c.ScaleSize < 0 {
		return &ValidationError{Context: ctx, Field: "ScaleSize", Value: c.ScaleSize, Reason: "must not be negative"}
	}

	if c.MinScaleSize < 0 {
		return &ValidationError{Context: ctx, Field: "MinScaleSize", Value: c.MinScaleSize, Reason: "must not be negative"}
	}

	if c.ScaleSize != 0 && c.ScaleSize < c.MinScaleSize {
		return &ValidationError{
			Context: ctx,
			Field:   "ScaleSize",
			Value:   c.ScaleSize,
			Reason:  fmt.Sprintf("must be 0 or at least MinScaleSize (%d)", c.MinScaleSize),
		}
	}

	if c.Workers < 0 {
		return &ValidationError{Context: ctx, Field: "Workers", Value: c.Workers, Reason: "must not be negative"}
	}

	return nil
}

// Load reads a TOML file over the defaults and validates the result. Keys
// missing from the file keep their default value.
func Load(path string) (Config, error) {
	cfg := Default()

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, &ValidationError{
			Context: "config file " + path,
			Field:   "keys",
			Value:   undecoded,
			Reason:  "unknown keys",
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Decode is Load for in-memory TOML.
func Decode(data string) (Config, error) {
	cfg := Default()

	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, &ValidationError{
			Context: "config",
			Field:   "keys",
			Value:   undecoded,
			Reason:  "unknown keys",
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Set assigns the field whose TOML key is name. Integer fields accept int or
// float64 (slider values), scale_type accepts a ScaleType, its numeric code
// or its name.
func (c *Config) Set(name string, value interface{}) error {
	switch name {
	case "window_size":
		return setInt(&c.WindowSize, name, value)
	case "offset":
		return setInt(&c.Offset, name, value)
	case "rgb_factor":
		return setInt(&c.RGBFactor, name, value)
	case "scale_size":
		return setInt(&c.ScaleSize, name, value)
	case "min_scale_size":
		return setInt(&c.MinScaleSize, name, value)
	case "workers":
		return setInt(&c.Workers, name, value)
	case "fast_scale":
		return setBool(&c.FastScale, name, value)
	case "native_scale":
		return setBool(&c.NativeScale, name, value)
	case "debug":
		return setBool(&c.Debug, name, value)
	case "visual_debug":
		return setBool(&c.VisualDebug, name, value)
	case "keep_classification":
		return setBool(&c.KeepClassification, name, value)
	case "scale_type":
		switch v := value.(type) {
		case ScaleType:
			c.SetScaleType(v)
		case int:
			c.SetScaleType(ParseScaleType(v))
		case string:
			for _, t := range []ScaleType{ScaleFast, ScaleAveraging, ScaleNative} {
				if t.String() == v {
					c.SetScaleType(t)
					return nil
				}
			}
			return &ValidationError{Context: "config set", Field: name, Value: value, Reason: "unknown scale type"}
		default:
			return &ValidationError{Context: "config set", Field: name, Value: value, Reason: fmt.Sprintf("unsupported type %T", value)}
		}
		return nil
	default:
		return &ValidationError{Context: "config set", Field: name, Value: value, Reason: "unknown parameter"}
	}
}

func setInt(dst *int, name string, value interface{}) error {
	switch v := value.(type) {
	case int:
		*dst = v
	case float64:
		*dst = int(v)
	default:
		return &ValidationError{Context: "config set", Field: name, Value: value, Reason: fmt.Sprintf("expected a number, got %T", value)}
	}
	return nil
}

func setBool(dst *bool, name string, value interface{}) error {
	v, ok := value.(bool)
	if !ok {
		return &ValidationError{Context: "config set", Field: name, Value: value, Reason: fmt.Sprintf("expected a bool, got %T", value)}
	}
	*dst = v
	return nil
}

// Params returns the settings keyed like Set, with scale_type by name.
func (c Config) Params() map[string]interface{} {
	return map[string]interface{}{
		"window_size":         c.WindowSize,
		"offset":              c.Offset,
		"rgb_factor":          c.RGBFactor,
		"scale_size":          c.ScaleSize,
		"min_scale_size":      c.MinScaleSize,
		"workers":             c.Workers,
		"scale_type":          c.ScaleType().String(),
		"debug":               c.Debug,
		"visual_debug":        c.VisualDebug,
		"keep_classification": c.KeepClassification,
	}
}
