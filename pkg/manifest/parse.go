// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/capwire/capwire/pkg/cueutil"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is the source format of a manifest.
type Format string

const (
	FormatCUE  Format = "cue"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ErrUnsupportedFormat is returned for files whose extension is not a
// known manifest format.
var ErrUnsupportedFormat = errors.New("unsupported manifest format")

//go:embed manifest_schema.cue
var schema string

const schemaRoot = "#Manifest"

// FormatOf returns the format of path by extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		return FormatCUE, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %s (want .cue, .yaml, .yml or .toml)", ErrUnsupportedFormat, path)
	}
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest at %s: %w", path, err)
	}
	if info.Size() > cueutil.DefaultMaxFileSize {
		return nil, fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", path, info.Size(), cueutil.DefaultMaxFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest at %s: %w", path, err)
	}
	return Parse(data, format, path)
}

// Parse validates manifest data of the given format. name is used in error
// messages.
func Parse(data []byte, format Format, name string) (*Manifest, error) {
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, name); err != nil {
		return nil, err
	}
	opts := []cueutil.Option{cueutil.WithFilename(name)}

	var (
		res *cueutil.Result[Manifest]
		err error
	)
	switch format {
	case FormatCUE:
		res, err = cueutil.Compile[Manifest](schema, schemaRoot, data, opts...)
	case FormatYAML:
		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		res, err = cueutil.Encode[Manifest](schema, schemaRoot, doc, opts...)
	case FormatTOML:
		var doc map[string]any
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		res, err = cueutil.Encode[Manifest](schema, schemaRoot, doc, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	m := res.Value
	m.Source = name
	return m, nil
}
