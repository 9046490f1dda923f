package serialization

import "io"

// NewDefaultSerializerRegistry creates a registry with the json,
// json-compact and yaml serializers; json is the default.
func NewDefaultSerializerRegistry() *SerializerRegistry {
	registry := NewSerializerRegistry()
	// names are distinct, registration cannot fail
	_ = registry.RegisterSerializer(NewJSONSerializer())
	_ = registry.RegisterSerializer(NewCompactJSONSerializer())
	_ = registry.RegisterSerializer(NewYAMLSerializer())
	return registry
}

// Serialize encodes data with the named format
func Serialize(data interface{}, format string) ([]byte, error) {
	serializer, err := NewDefaultSerializerRegistry().GetSerializer(format)
	if err != nil {
		return nil, err
	}
	return serializer.Serialize(data)
}

// Write encodes data with the named format to w
func Write(w io.Writer, data interface{}, format string) error {
	return NewDefaultSerializerRegistry().Write(w, data, format)
}

// IsFormatSupported reports whether format names a registered serializer
func IsFormatSupported(format string) bool {
	return NewDefaultSerializerRegistry().IsFormatSupported(format)
}
