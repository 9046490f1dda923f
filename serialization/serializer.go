// Package serialization encodes run results for the -format flag.
package serialization

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Format names accepted by -format and batch.format
const (
	FormatJSON        = "json"
	FormatJSONCompact = "json-compact"
	FormatYAML        = "yaml"
)

// DocumentVersion is the version of the {output, errors} document shape
const DocumentVersion = "1.0.0"

// ResultSerializer encodes run results for batch and scripted use
type ResultSerializer interface {
	// Serialize converts a result, or a slice of results, to bytes
	Serialize(data interface{}) ([]byte, error)
	// Deserialize decodes bytes produced by Serialize into target
	Deserialize(data []byte, target interface{}) error
	// GetName returns the format name used on the command line
	GetName() string
	// GetVersion returns the document shape version
	GetVersion() string
	// SupportsVersion reports whether documents of version can be decoded
	SupportsVersion(version string) bool
}

// SerializationError reports a failed encode or decode
type SerializationError struct {
	Format    string
	Operation string
	Err       error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Format, e.Operation, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

func serializeError(format string, err error) error {
	return &SerializationError{Format: format, Operation: "serialize", Err: err}
}

func deserializeError(format string, err error) error {
	return &SerializationError{Format: format, Operation: "deserialize", Err: err}
}

var (
	errNilData   = fmt.Errorf("data is nil")
	errEmptyData = fmt.Errorf("data is empty")
)

// sameMajor accepts versions sharing DocumentVersion's major number
func sameMajor(version string) bool {
	major, _, _ := strings.Cut(DocumentVersion, ".")
	return strings.HasPrefix(version, major+".")
}

// SerializerRegistry maps format names to serializers
type SerializerRegistry struct {
	serializers map[string]ResultSerializer
	def         string
}

// NewSerializerRegistry creates an empty registry defaulting to json
func NewSerializerRegistry() *SerializerRegistry {
	return &SerializerRegistry{serializers: make(map[string]ResultSerializer), def: FormatJSON}
}

// RegisterSerializer adds serializer under its name; names must be unique
func (sr *SerializerRegistry) RegisterSerializer(serializer ResultSerializer) error {
	name := serializer.GetName()
	if _, exists := sr.serializers[name]; exists {
		return fmt.Errorf("serializer %q is already registered", name)
	}
	sr.serializers[name] = serializer
	return nil
}

// GetSerializer returns the serializer for name
func (sr *SerializerRegistry) GetSerializer(name string) (ResultSerializer, error) {
	if serializer, ok := sr.serializers[name]; ok {
		return serializer, nil
	}
	return nil, fmt.Errorf("unknown output format %q (supported: text, %s)", name, strings.Join(sr.ListSerializers(), ", "))
}

func (sr *SerializerRegistry) GetDefaultSerializer() (ResultSerializer, error) {
	return sr.GetSerializer(sr.def)
}

func (sr *SerializerRegistry) SetDefaultSerializer(name string) error {
	if !sr.IsFormatSupported(name) {
		return fmt.Errorf("serializer %q not found", name)
	}
	sr.def = name
	return nil
}

// ListSerializers returns the registered format names, sorted
func (sr *SerializerRegistry) ListSerializers() []string {
	names := make([]string, 0, len(sr.serializers))
	for name := range sr.serializers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (sr *SerializerRegistry) IsFormatSupported(format string) bool {
	_, ok := sr.serializers[format]
	return ok
}

// ConvertFormat decodes data from one format into target and encodes it in
// another
func (sr *SerializerRegistry) ConvertFormat(data []byte, fromFormat, toFormat string, target interface{}) ([]byte, error) {
	from, err := sr.GetSerializer(fromFormat)
	if err != nil {
		return nil, err
	}
	to, err := sr.GetSerializer(toFormat)
	if err != nil {
		return nil, err
	}
	if err := from.Deserialize(data, target); err != nil {
		return nil, err
	}
	return to.Serialize(target)
}

// Write encodes data with the named format and writes it to w, ending with
// a newline
func (sr *SerializerRegistry) Write(w io.Writer, data interface{}, format string) error {
	serializer, err := sr.GetSerializer(format)
	if err != nil {
		return err
	}
	out, err := serializer.Serialize(data)
	if err != nil {
		return err
	}
	if len(out) == 0 || out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	_, err = w.Write(out)
	return err
}
