package config

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"github.com/a8m/envsubst"
	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"github.com/yosuke-furukawa/json5/encoding/json5"
	"gopkg.in/yaml.v3"
)

// Supported problem file formats.
const (
	FormatJSON  = "json"
	FormatJSON5 = "json5"
	FormatYAML  = "yaml"
)

// FormatFromPath picks the file format from the extension; anything unrecognized is JSON.
func FormatFromPath(filePath string) string {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json5":
		return FormatJSON5
	default:
		return FormatJSON
	}
}

// Read reads a problem from the given file. Environment variables in the file are expanded first.
func Read(filePath string) (*ProblemConfig, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	cfg, err := FromReader(bytes.NewReader(buf), FormatFromPath(filePath))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read problem from %q", filePath)
	}
	return cfg, nil
}

// FromReader decodes and validates a problem in the given format.
func FromReader(r io.Reader, format string) (*ProblemConfig, error) {
	cfg := &ProblemConfig{}
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, errors.Wrap(err, "failed to decode problem from json")
		}
	case FormatJSON5:
		// json5 has no strict mode, unknown fields are ignored.
		buf, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		if err := json5.Unmarshal(buf, cfg); err != nil {
			return nil, errors.Wrap(err, "failed to decode problem from json5")
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, errors.Wrap(err, "failed to decode problem from yaml")
		}
	default:
		return nil, errors.Errorf("unsupported problem format %q", format)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Schema returns the JSON schema of problem files.
func Schema() *jsonschema.Schema {
	return jsonschema.Reflect(&ProblemConfig{})
}
