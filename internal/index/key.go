package index

import (
	"bytes"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"

	"vddb/internal/sql"
)

// encodeKey returns the canonical byte form of an index key: the type tag
// followed by the msgpack encoding of the payload. Equal values always
// produce equal bytes; -0.0 is folded into 0.0 so it lands in the same entry.
func encodeKey(v sql.Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.GetEncoder()
	defer msgpack.PutEncoder(enc)
	enc.Reset(&buf)

	if err := enc.EncodeUint8(uint8(v.Type)); err != nil {
		return nil, err
	}

	var err error
	switch v.Type {
	case sql.TypeInt:
		err = enc.EncodeInt(v.I64)
	case sql.TypeFloat:
		f := v.F64
		if f == 0 {
			f = 0
		}
		err = enc.EncodeFloat64(f)
	case sql.TypeString:
		err = enc.EncodeString(v.S)
	default:
		err = fmt.Errorf("unsupported key type %s", v.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("index: encode key %s: %w", v.Literal(), err)
	}
	return buf.Bytes(), nil
}

func hashKey(b []byte) uint64 {
	return xxhash.Sum64(b)
}
