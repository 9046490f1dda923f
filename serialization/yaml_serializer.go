package serialization

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// YAMLSerializer encodes results as a YAML document with two-space indent
type YAMLSerializer struct{}

func NewYAMLSerializer() *YAMLSerializer {
	return &YAMLSerializer{}
}

func (ys *YAMLSerializer) Serialize(data interface{}) ([]byte, error) {
	if data == nil {
		return nil, serializeError(FormatYAML, errNilData)
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return nil, serializeError(FormatYAML, err)
	}
	if err := enc.Close(); err != nil {
		return nil, serializeError(FormatYAML, err)
	}
	return buf.Bytes(), nil
}

func (ys *YAMLSerializer) Deserialize(data []byte, target interface{}) error {
	if len(data) == 0 {
		return deserializeError(FormatYAML, errEmptyData)
	}
	if err := yaml.Unmarshal(data, target); err != nil {
		return deserializeError(FormatYAML, err)
	}
	return nil
}

func (ys *YAMLSerializer) GetName() string { return FormatYAML }

func (ys *YAMLSerializer) GetVersion() string { return DocumentVersion }

func (ys *YAMLSerializer) SupportsVersion(version string) bool { return sameMajor(version) }
