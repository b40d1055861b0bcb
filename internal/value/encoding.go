package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

var nullJSON = []byte("null")

// MarshalJSON encodes v as a JSON scalar. Missing, null and non-finite numbers
// encode as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return nullJSON, nil
		}
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	default:
		return nullJSON, nil
	}
}

// UnmarshalJSON decodes a JSON scalar into v. Objects and arrays are kept as
// their compact JSON text.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, nullJSON) {
		*v = Null()
		return nil
	}
	var x interface{}
	if err := json.Unmarshal(data, &x); err != nil {
		return fmt.Errorf("decoding cell value: %w", err)
	}
	switch x.(type) {
	case map[string]interface{}, []interface{}:
		var compact bytes.Buffer
		if err := json.Compact(&compact, data); err != nil {
			return fmt.Errorf("decoding cell value: %w", err)
		}
		*v = String(compact.String())
	default:
		*v = Of(x)
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (v Value) MarshalYAML() (interface{}, error) {
	return v.Interface(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode && node.Kind != yaml.AliasNode {
		return fmt.Errorf("decoding cell value: expected scalar at line %d", node.Line)
	}
	var x interface{}
	if err := node.Decode(&x); err != nil {
		return fmt.Errorf("decoding cell value: %w", err)
	}
	*v = Of(x)
	return nil
}

var (
	_ msgpack.CustomEncoder = Value{}
	_ msgpack.CustomDecoder = (*Value)(nil)
)

// EncodeMsgpack implements msgpack.CustomEncoder.
func (v Value) EncodeMsgpack(enc *msgpack.Encoder) error {
	switch v.kind {
	case KindString:
		return enc.EncodeString(v.str)
	case KindNumber:
		return enc.EncodeFloat64(v.num)
	case KindBool:
		return enc.EncodeBool(v.b)
	default:
		return enc.EncodeNil()
	}
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (v *Value) DecodeMsgpack(dec *msgpack.Decoder) error {
	x, err := dec.DecodeInterface()
	if err != nil {
		return fmt.Errorf("decoding cell value: %w", err)
	}
	*v = Of(x)
	return nil
}
