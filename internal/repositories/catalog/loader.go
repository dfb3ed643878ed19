package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	cmberr "github.com/KirkDiggler/shinobi-bot/internal/errors"
)

// Format is the encoding of a catalog file
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFor picks the format from a file extension
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", cmberr.InvalidArgumentf("unsupported catalog extension %q", filepath.Ext(path))
	}
}

// Parse decodes catalog data. Unknown keys are rejected so typos in effect
// fields fail at load instead of silently doing nothing.
func Parse(data []byte, format Format) (*File, error) {
	f := &File{}

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(f); err != nil {
			return nil, cmberr.WrapWithCode(err, cmberr.CodeInvalidArgument, "failed to parse yaml catalog")
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(f); err != nil {
			return nil, cmberr.WrapWithCode(err, cmberr.CodeInvalidArgument, "failed to parse json catalog")
		}
	default:
		return nil, cmberr.InvalidArgumentf("unknown catalog format %q", format)
	}

	return f, nil
}

// LoadFile reads, parses and indexes a catalog file
func LoadFile(path string) (Repository, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cmberr.WrapWithCode(err, cmberr.CodeNotFound, fmt.Sprintf("failed to read catalog %s", path))
	}

	f, err := Parse(data, format)
	if err != nil {
		return nil, cmberr.Wrap(err, "failed to load catalog").WithMeta("file", path)
	}

	repo, err := NewInMemoryRepository(f)
	if err != nil {
		return nil, cmberr.Wrap(err, "failed to index catalog").WithMeta("file", path)
	}

	return repo, nil
}
