package krecord

import (
	"fmt"
	"time"
)

// Encoded is a key/value record whose parts have already been serialized.
// Its length is the sum of the key, value and header sizes.
type Encoded struct {
	Key       []byte
	Value     []byte
	Timestamp time.Time
	Headers   *Headers
}

// Encode serializes k and v into an Encoded record.
func Encode[K, V any](k K, v V, keySerializer Serializer[K], valueSerializer Serializer[V]) (*Encoded, error) {
	key, err := keySerializer(k)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal key: %w", err)
	}

	value, err := valueSerializer(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal value: %w", err)
	}

	return &Encoded{
		Key:     key,
		Value:   value,
		Headers: NewHeaders(),
	}, nil
}

// Decode is the inverse of Encode.
func Decode[K, V any](e *Encoded, keyDeserializer Deserializer[K], valueDeserializer Deserializer[V]) (K, V, error) {
	var (
		k K
		v V
	)
	k, err := keyDeserializer(e.Key)
	if err != nil {
		return k, v, fmt.Errorf("failed to unmarshal key: %w", err)
	}
	v, err = valueDeserializer(e.Value)
	if err != nil {
		return k, v, fmt.Errorf("failed to unmarshal value: %w", err)
	}
	return k, v, nil
}

func (e *Encoded) BinaryLength() int {
	return len(e.Key) + len(e.Value) + e.Headers.BinaryLength()
}

// MarshalBinary returns the serialized value. Keys and headers travel
// separately on transports that support them.
func (e *Encoded) MarshalBinary() ([]byte, error) {
	return e.Value, nil
}

var _ Record = (*Encoded)(nil)
