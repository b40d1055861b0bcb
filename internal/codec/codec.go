// Package codec persists pivot settings. JSON and YAML suit hand-edited
// files, MessagePack suits storage, and Token produces a compact URL-safe
// string for share links.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/quocdat202/pivot/internal/errors"
	"github.com/quocdat202/pivot/internal/model"
)

// Codec converts settings to and from bytes. Unmarshal always returns
// normalized settings: every collection is present, possibly empty.
type Codec interface {
	Name() string
	Marshal(s model.PivotSettings) ([]byte, error)
	Unmarshal(data []byte) (model.PivotSettings, error)
}

// Codec names
const (
	NameJSON    = "json"
	NameYAML    = "yaml"
	NameMsgpack = "msgpack"
	NameToken   = "token"
)

var (
	// JSON encodes settings as indented JSON.
	JSON Codec = jsonCodec{}
	// YAML encodes settings as YAML.
	YAML Codec = yamlCodec{}
	// Msgpack encodes settings as MessagePack.
	Msgpack Codec = msgpackCodec{}
	// Token encodes settings as a versioned, zstd-compressed, base64url
	// MessagePack string.
	Token Codec = tokenCodec{}
)

var byName = map[string]Codec{
	NameJSON:    JSON,
	NameYAML:    YAML,
	"yml":       YAML,
	NameMsgpack: Msgpack,
	"mpk":       Msgpack,
	NameToken:   Token,
}

var byExtension = map[string]Codec{
	".json":    JSON,
	".yaml":    YAML,
	".yml":     YAML,
	".msgpack": Msgpack,
	".mpk":     Msgpack,
	".token":   Token,
}

// ForName returns the codec registered under name, case-insensitively.
func ForName(name string) (Codec, error) {
	if c, ok := byName[strings.ToLower(name)]; ok {
		return c, nil
	}
	return nil, errors.NewUnsupportedFormatError("codec.ForName", name, Names())
}

// ForPath returns the codec implied by the extension of path.
func ForPath(path string) (Codec, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if c, ok := byExtension[ext]; ok {
		return c, nil
	}
	return nil, errors.NewUnsupportedFormatError("codec.ForPath", ext, extensions())
}

// Names returns the primary codec names in sorted order.
func Names() []string {
	return []string{NameJSON, NameMsgpack, NameToken, NameYAML}
}

func extensions() []string {
	out := make([]string, 0, len(byExtension))
	for ext := range byExtension {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

func emptyInput(op string) error {
	return errors.NewInvalidInputError(op, "empty settings data")
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return NameJSON }

func (jsonCodec) Marshal(s model.PivotSettings) ([]byte, error) {
	data, err := json.MarshalIndent(s.Normalize(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding JSON settings: %w", err)
	}
	return append(data, '\n'), nil
}

func (jsonCodec) Unmarshal(data []byte) (model.PivotSettings, error) {
	var s model.PivotSettings
	if len(bytes.TrimSpace(data)) == 0 {
		return s, emptyInput("codec.JSON")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return s, fmt.Errorf("decoding JSON settings: %w", err)
	}
	return s.Normalize(), nil
}

type yamlCodec struct{}

func (yamlCodec) Name() string { return NameYAML }

func (yamlCodec) Marshal(s model.PivotSettings) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s.Normalize()); err != nil {
		return nil, fmt.Errorf("encoding YAML settings: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding YAML settings: %w", err)
	}
	return buf.Bytes(), nil
}

func (yamlCodec) Unmarshal(data []byte) (model.PivotSettings, error) {
	var s model.PivotSettings
	if len(bytes.TrimSpace(data)) == 0 {
		return s, emptyInput("codec.YAML")
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return s, fmt.Errorf("decoding YAML settings: %w", err)
	}
	return s.Normalize(), nil
}

type msgpackCodec struct{}

func (msgpackCodec) Name() string { return NameMsgpack }

func (msgpackCodec) Marshal(s model.PivotSettings) ([]byte, error) {
	data, err := msgpack.Marshal(s.Normalize())
	if err != nil {
		return nil, fmt.Errorf("encoding MessagePack settings: %w", err)
	}
	return data, nil
}

func (msgpackCodec) Unmarshal(data []byte) (model.PivotSettings, error) {
	var s model.PivotSettings
	if len(data) == 0 {
		return s, emptyInput("codec.Msgpack")
	}
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("decoding MessagePack settings: %w", err)
	}
	return s.Normalize(), nil
}
