package cache

import "encoding/json"

// Codec converts values to and from the byte payloads the store holds. The
// wire form of a cache entry is an implementation detail of the codec, not of
// the store.
type Codec interface {
	Encode(value any) ([]byte, error)
	Decode(data []byte, dest any) error
}

type jsonCodec struct{}

// JSONCodec returns the default text codec.
func JSONCodec() Codec {
	return jsonCodec{}
}

func (jsonCodec) Encode(value any) ([]byte, error) {
	return json.Marshal(value)
}

func (jsonCodec) Decode(data []byte, dest any) error {
	return json.Unmarshal(data, dest)
}
