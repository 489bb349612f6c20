package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	"github.com/forest6511/hsimp/pkg/strength"
)

// Format identifies an override document encoding.
type Format string

// Supported override document formats.
const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// maxConfigSize bounds override documents read from disk.
const maxConfigSize = 16 << 20

// ErrUnknownFormat is returned for file extensions other than .yaml, .yml,
// .toml and .json.
var ErrUnknownFormat = errors.New("unknown configuration format")

// FormatFromPath infers the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// FromMap decodes a generic document, e.g. the output of a YAML or JSON
// decoder, into a Partial. Keys match case-insensitively; unknown keys and
// mistyped values are rejected with strength.ErrInvalidArgument. Nil values
// are treated as not provided.
func FromMap(m map[string]any) (*Partial, error) {
	var p Partial
	if len(m) == 0 {
		return &p, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &p,
		TagName:     "json",
		ErrorUnused: true,
		DecodeHook:  mapstructure.DecodeHookFuncKind(rejectFractions),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := dec.Decode(m); err != nil {
		return nil, fmt.Errorf("%w: %v", strength.ErrInvalidArgument, err)
	}
	return &p, nil
}

// rejectFractions stops a float such as 10.9 from being truncated into an
// integer field. JSON and YAML numbers like 10.0 are still accepted.
func rejectFractions(from, to reflect.Kind, data any) (any, error) {
	switch to {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
	default:
		return data, nil
	}
	if from != reflect.Float32 && from != reflect.Float64 {
		return data, nil
	}
	f := reflect.ValueOf(data).Float()
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("expected an integer, got %v", f)
	}
	return data, nil
}

// FromValue accepts nil, a map, a Partial or a *Partial. Any other shape,
// such as a slice or a scalar, fails with strength.ErrInvalidArgument.
func FromValue(v any) (*Partial, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case *Partial:
		return t, nil
	case Partial:
		return &t, nil
	case map[string]any:
		return FromMap(t)
	default:
		return nil, fmt.Errorf("%w: configuration must be an object, got %T", strength.ErrInvalidArgument, v)
	}
}

// Decode reads one override document in the given format.
func Decode(r io.Reader, format Format) (*Partial, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxConfigSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	if len(data) > maxConfigSize {
		return nil, fmt.Errorf("%w: configuration exceeds %d bytes", strength.ErrInvalidArgument, maxConfigSize)
	}

	var root any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &root); err != nil {
			return nil, fmt.Errorf("failed to parse YAML configuration: %w", err)
		}
	case FormatTOML:
		var table map[string]any
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&table); err != nil {
			return nil, fmt.Errorf("failed to parse TOML configuration: %w", err)
		}
		root = table
	case FormatJSON:
		if len(bytes.TrimSpace(data)) > 0 {
			if err := json.Unmarshal(data, &root); err != nil {
				return nil, fmt.Errorf("failed to parse JSON configuration: %w", err)
			}
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if root == nil {
		return &Partial{}, nil
	}
	m, ok := root.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: configuration root must be a mapping, got %T", strength.ErrInvalidArgument, root)
	}
	return FromMap(m)
}

// LoadFile reads an override document, picking the format from the file
// extension.
func LoadFile(path string) (*Partial, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open configuration: %w", err)
	}
	defer f.Close()

	p, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}
