package serialization

import "encoding/json"

// JSONSerializer encodes results as JSON, indented or on one line
type JSONSerializer struct {
	indent string
}

// NewJSONSerializer creates the "json" serializer with two-space indentation
func NewJSONSerializer() *JSONSerializer {
	return &JSONSerializer{indent: "  "}
}

// NewCompactJSONSerializer creates the "json-compact" serializer, which
// matches the {output, errors} response body byte for byte
func NewCompactJSONSerializer() *JSONSerializer {
	return &JSONSerializer{}
}

func (js *JSONSerializer) Serialize(data interface{}) ([]byte, error) {
	if data == nil {
		return nil, serializeError(js.GetName(), errNilData)
	}
	var (
		out []byte
		err error
	)
	if js.indent == "" {
		out, err = json.Marshal(data)
	} else {
		out, err = json.MarshalIndent(data, "", js.indent)
	}
	if err != nil {
		return nil, serializeError(js.GetName(), err)
	}
	return out, nil
}

func (js *JSONSerializer) Deserialize(data []byte, target interface{}) error {
	if len(data) == 0 {
		return deserializeError(js.GetName(), errEmptyData)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return deserializeError(js.GetName(), err)
	}
	return nil
}

func (js *JSONSerializer) GetName() string {
	if js.indent == "" {
		return FormatJSONCompact
	}
	return FormatJSON
}

func (js *JSONSerializer) GetVersion() string { return DocumentVersion }

func (js *JSONSerializer) SupportsVersion(version string) bool { return sameMajor(version) }
