// Package json wraps encoding/json with raw-message predicates used
// throughout the processor.
package json

import (
	"bytes"
	"encoding/json"
)

type RawMessage = json.RawMessage
type Object map[string]RawMessage
type Array []RawMessage

func Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func MarshalIndent(v any, prefix string, indent string) ([]byte, error) {
	return json.MarshalIndent(v, prefix, indent)
}

func Valid(data []byte) bool {
	return json.Valid(data)
}

func Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

var (
	beginArray  = byte('[')
	beginObject = byte('{')
	beginString = byte('"')
	null        = RawMessage(`null`)
	boolTrue    = RawMessage(`true`)
	boolFalse   = RawMessage(`false`)
)

func IsNull(in RawMessage) bool {
	return bytes.Equal(in, null)
}

func IsArray(in RawMessage) bool {
	if len(in) == 0 {
		return false
	}
	return in[0] == beginArray
}

func IsEmptyArray(in RawMessage) bool {
	if !IsArray(in) {
		return false
	}
	return len(bytes.TrimSpace(in[1:len(in)-1])) == 0
}

func IsMap(in RawMessage) bool {
	if len(in) == 0 {
		return false
	}
	return in[0] == beginObject
}

func IsString(in RawMessage) bool {
	if len(in) == 0 {
		return false
	}
	return in[0] == beginString
}

func IsBool(in RawMessage) bool {
	return bytes.Equal(in, boolTrue) || bytes.Equal(in, boolFalse)
}

func IsNumber(in RawMessage) bool {
	if len(in) == 0 {
		return false
	}
	c := in[0]
	return c == '-' || (c >= '0' && c <= '9')
}

func IsScalar(in RawMessage) bool {
	return len(in) != 0 && !IsArray(in) && !IsMap(in) && !IsNull(in)
}

// MakeString encodes s as a JSON string.
func MakeString(s string) RawMessage {
	out, _ := json.Marshal(s)
	return out
}

// MakeArray returns its input unchanged when it already is an array, and
// wrapped in a single-element array otherwise.
func MakeArray(in RawMessage) RawMessage {
	if len(in) == 0 {
		return RawMessage(`[]`)
	}

	if IsArray(in) {
		return in
	}

	return bytes.Join([][]byte{
		[]byte(`[`),
		in,
		[]byte(`]`),
	}, nil)
}
