package manifest

import (
	"bytes"
	"fmt"

	"github.com/iancoleman/orderedmap"
	"github.com/vmihailenco/msgpack/v5"
)

func bytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}

// decodeOrdered walks a msgpack stream by inspecting each value's leading
// format byte, reconstructing maps as *orderedmap.OrderedMap so key order
// (in our case, entry insertion order) survives decoding instead of being
// scrambled by a plain map.
func decodeOrdered(dec *msgpack.Decoder) (any, error) {
	code, err := dec.PeekCode()
	if err != nil {
		return nil, err
	}

	c := code
	switch {
	// fixmap (0x80-0x8f), map16 (0xde), map32 (0xdf)
	case (c >= 0x80 && c <= 0x8f) || c == 0xde || c == 0xdf:
		n, err := dec.DecodeMapLen()
		if err != nil {
			return nil, err
		}
		om := orderedmap.New()
		om.SetEscapeHTML(false)
		for i := 0; i < n; i++ {
			k, err := decodeOrdered(dec)
			if err != nil {
				return nil, err
			}
			v, err := decodeOrdered(dec)
			if err != nil {
				return nil, err
			}
			key, ok := k.(string)
			if !ok {
				key = fmt.Sprint(k)
			}
			om.Set(key, v)
		}
		return om, nil

	// fixarray (0x90-0x9f), array16 (0xdc), array32 (0xdd)
	case (c >= 0x90 && c <= 0x9f) || c == 0xdc || c == 0xdd:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return nil, err
		}
		out := make([]any, n)
		for i := 0; i < n; i++ {
			v, err := decodeOrdered(dec)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil

	default:
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
}
