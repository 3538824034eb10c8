package settings

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind tags the shape of a document node
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	}
	return "unknown(" + strconv.Itoa(int(k)) + ")"
}

// Value wraps one node of the configuration document
type Value struct {
	raw any
}

// ValueOf wraps an arbitrary node
func ValueOf(raw any) Value {
	return Value{raw: raw}
}

// Interface returns the underlying node as stored in the document
func (v Value) Interface() any {
	return v.raw
}

func (v Value) Kind() Kind {
	switch v.raw.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case json.Number:
		return KindNumber
	case string:
		return KindString
	case []any:
		return KindSequence
	case map[string]any:
		return KindMapping
	}
	// Only decoded JSON shapes reach the document
	return KindNull
}

func (v Value) IsNull() bool {
	return v.raw == nil
}

// Mapping returns the node as a mapping if it is a decoded JSON object
func (v Value) Mapping() (map[string]any, bool) {
	m, ok := v.raw.(map[string]any)
	return m, ok
}

// Sequence returns the node as a list if it is a decoded JSON array
func (v Value) Sequence() ([]any, bool) {
	s, ok := v.raw.([]any)
	return s, ok
}

func (v Value) Str() (string, bool) {
	s, ok := v.raw.(string)
	return s, ok
}

func (v Value) Bool() (bool, bool) {
	b, ok := v.raw.(bool)
	return b, ok
}

// Float converts a numeric node to float64
func (v Value) Float() (float64, bool) {
	n, ok := v.raw.(json.Number)
	if !ok {
		return 0, false
	}
	f, err := n.Float64()
	return f, err == nil
}

// Int converts an integral numeric node to int64
func (v Value) Int() (int64, bool) {
	n, ok := v.raw.(json.Number)
	if !ok {
		return 0, false
	}
	i, err := n.Int64()
	return i, err == nil
}

// Strings returns a list whose every element is a string
func (v Value) Strings() ([]string, bool) {
	s, ok := v.raw.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(s))
	for _, item := range s {
		str, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, str)
	}
	return out, true
}

// Text renders the node for display: strings verbatim, everything else as JSON
func (v Value) Text() string {
	if s, ok := v.raw.(string); ok {
		return s
	}
	data, err := codec.Marshal(v.raw)
	if err != nil {
		return fmt.Sprint(v.raw)
	}
	return string(data)
}

// ParseValue decodes text as a JSON value, falling back to the literal string
func ParseValue(text string) any {
	var v any
	if err := codec.UnmarshalFromString(text, &v); err != nil {
		return text
	}
	return v
}
