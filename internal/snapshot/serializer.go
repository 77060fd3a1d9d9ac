package snapshot

import (
	"github.com/goccy/go-json"
	"github.com/hyp3rd/ewrap"
	"github.com/shamaton/msgpack/v2"
)

// Serializer converts snapshots to and from bytes.
type Serializer interface {
	Marshal(s *Snapshot) ([]byte, error)
	Unmarshal(data []byte, s *Snapshot) error
}

// JSONSerializer encodes snapshots with goccy/go-json.
type JSONSerializer struct{}

// Marshal serializes s as indented JSON.
func (JSONSerializer) Marshal(s *Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, ewrap.Wrap(err, "failed to marshal json")
	}
	return data, nil
}

// Unmarshal deserializes JSON data into s.
func (JSONSerializer) Unmarshal(data []byte, s *Snapshot) error {
	if err := json.Unmarshal(data, s); err != nil {
		return ewrap.Wrap(err, "failed to unmarshal json")
	}
	return nil
}

// MsgpackSerializer encodes snapshots with msgpack.
type MsgpackSerializer struct{}

// Marshal serializes s as msgpack.
func (MsgpackSerializer) Marshal(s *Snapshot) ([]byte, error) {
	data, err := msgpack.Marshal(s)
	if err != nil {
		return nil, ewrap.Wrap(err, "failed to marshal msgpack")
	}
	return data, nil
}

// Unmarshal deserializes msgpack data into s.
func (MsgpackSerializer) Unmarshal(data []byte, s *Snapshot) error {
	if err := msgpack.Unmarshal(data, s); err != nil {
		return ewrap.Wrap(err, "failed to unmarshal msgpack")
	}
	return nil
}

// Registry manages serializer constructors by format name.
type Registry struct {
	serializers map[string]func() Serializer
}

// NewRegistry returns a registry with the "json" and "msgpack" formats.
func NewRegistry() *Registry {
	r := &Registry{serializers: make(map[string]func() Serializer)}
	r.Register("json", func() Serializer { return JSONSerializer{} })
	r.Register("msgpack", func() Serializer { return MsgpackSerializer{} })
	return r
}

// Register adds or replaces the serializer for format.
func (r *Registry) Register(format string, create func() Serializer) {
	r.serializers[format] = create
}

// New returns the serializer for format.
func (r *Registry) New(format string) (Serializer, error) {
	if format == "" {
		return nil, ewrap.Wrap(ErrParamCannotBeEmpty, "format")
	}

	create, ok := r.serializers[format]
	if !ok {
		return nil, ewrap.Wrap(ErrSerializerNotFound, format)
	}
	return create(), nil
}
