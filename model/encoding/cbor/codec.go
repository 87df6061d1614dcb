package cbor

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Name is the content subtype under which the codec is used on the wire.
const Name = "cbor"

// EncMode is the deterministic encoding mode used for every wire payload.
//
// Transaction bodies are signed over their encoded bytes, so the encoding of a given
// value must never vary between calls, processes or releases.
var EncMode = func() cbor.EncMode {
	options := cbor.CoreDetEncOptions()
	options.Time = cbor.TimeRFC3339Nano
	encMode, err := options.EncMode()
	if err != nil {
		panic(fmt.Errorf("could not build cbor encoding mode: %w", err))
	}
	return encMode
}()

// DecMode is the decoding mode matching EncMode.
var DecMode = func() cbor.DecMode {
	decMode, err := cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic(fmt.Errorf("could not build cbor decoding mode: %w", err))
	}
	return decMode
}()

// Codec encodes and decodes wire payloads with deterministic CBOR.
//
// It satisfies google.golang.org/grpc/encoding.Codec, so it can be installed directly
// as the codec of a gRPC connection or server.
type Codec struct{}

// NewCodec returns a new CBOR codec.
func NewCodec() *Codec {
	return &Codec{}
}

// Marshal encodes v.
func (c *Codec) Marshal(v interface{}) ([]byte, error) {
	data, err := EncMode.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("could not encode %T: %w", v, err)
	}
	return data, nil
}

// Unmarshal decodes data into v.
func (c *Codec) Unmarshal(data []byte, v interface{}) error {
	err := DecMode.Unmarshal(data, v)
	if err != nil {
		return fmt.Errorf("could not decode %T: %w", v, err)
	}
	return nil
}

// Name returns the content subtype of the codec.
func (c *Codec) Name() string {
	return Name
}

// MustMarshal encodes v, panicking on failure. Only for values whose encoding cannot fail.
func MustMarshal(v interface{}) []byte {
	data, err := EncMode.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("could not encode %T: %w", v, err))
	}
	return data
}
