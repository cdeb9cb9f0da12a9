package pixgen

import (
	"encoding/binary"
	"math"

	"github.com/chenxingqiang/go-floatx"
	"github.com/kshard/float8"
	"github.com/shogo82148/float128"
	"github.com/shogo82148/int128"
	"github.com/x448/float16"
)

// Describes the size and interpretation of one stored value in a pixgen
// container. Grids and videos hold float64 in memory but can be persisted in
// any floating point format here; the integer and boolean formats exist for
// auxiliary payloads such as masks and index sets.
type ScalarType uint32

const (
	ScalarUnknown  ScalarType = 0  // Generally indicates an error.
	ScalarInt8     ScalarType = 1  // An 8-bit signed integer.
	ScalarUint8    ScalarType = 2  // An 8-bit unsigned integer.
	ScalarInt16    ScalarType = 3  // A 16-bit signed integer.
	ScalarUint16   ScalarType = 4  // A 16-bit unsigned integer.
	ScalarInt32    ScalarType = 5  // A 32-bit signed integer.
	ScalarUint32   ScalarType = 6  // A 32-bit unsigned integer.
	ScalarInt64    ScalarType = 7  // A 64-bit signed integer.
	ScalarUint64   ScalarType = 8  // A 64-bit unsigned integer.
	ScalarFloat8   ScalarType = 9  // An 8-bit floating point number.
	ScalarFloat16  ScalarType = 10 // A 16-bit floating point number.
	ScalarFloat32  ScalarType = 11 // A 32-bit floating point number.
	ScalarFloat64  ScalarType = 12 // A 64-bit floating point number.
	ScalarBool     ScalarType = 13 // A boolean value.
	ScalarInt128   ScalarType = 14 // A 128-bit signed integer using github.com/shogo82148/int128.
	ScalarUint128  ScalarType = 15 // A 128-bit unsigned integer using github.com/shogo82148/int128.
	ScalarFloat128 ScalarType = 16 // A 128-bit floating point number using github.com/shogo82148/float128.
	ScalarBFloat16 ScalarType = 17 // A 16-bit brain floating point number.
)

// This function returns the size of each stored value in bytes.
func (s ScalarType) Size() int {
	switch s {
	case ScalarUnknown:
		return 0
	case ScalarInt8, ScalarUint8, ScalarFloat8, ScalarBool:
		return 1
	case ScalarInt16, ScalarUint16, ScalarFloat16, ScalarBFloat16:
		return 2
	case ScalarInt32, ScalarUint32, ScalarFloat32:
		return 4
	case ScalarInt64, ScalarUint64, ScalarFloat64:
		return 8
	case ScalarInt128, ScalarUint128, ScalarFloat128:
		return 16
	default:
		panic("pixgen: unsupported scalar type")
	}
}

func (s ScalarType) String() string {
	switch s {
	case ScalarUnknown:
		return "unknown"
	case ScalarInt8:
		return "int8"
	case ScalarUint8:
		return "uint8"
	case ScalarInt16:
		return "int16"
	case ScalarUint16:
		return "uint16"
	case ScalarInt32:
		return "int32"
	case ScalarUint32:
		return "uint32"
	case ScalarInt64:
		return "int64"
	case ScalarUint64:
		return "uint64"
	case ScalarFloat8:
		return "float8"
	case ScalarFloat16:
		return "float16"
	case ScalarFloat32:
		return "float32"
	case ScalarFloat64:
		return "float64"
	case ScalarBool:
		return "bool"
	case ScalarInt128:
		return "int128"
	case ScalarUint128:
		return "uint128"
	case ScalarFloat128:
		return "float128"
	case ScalarBFloat16:
		return "bfloat16"
	default:
		panic("pixgen: unsupported scalar type")
	}
}

// Reports whether grid and video payloads can be stored in this format.
// Payload values are float64 in memory, so the format must round-trip
// through a floating point representation.
func (s ScalarType) Floating() bool {
	switch s {
	case ScalarFloat16, ScalarFloat32, ScalarFloat64, ScalarFloat128, ScalarBFloat16:
		return true
	}
	return false
}

// This function reads the value of a given ScalarType from the provided raw
// byte slice. The read operation is type-dependent, with each scalar type
// having its own specific method for reading values.
func (s ScalarType) Value(raw []byte, o binary.ByteOrder) any {
	switch s {
	case ScalarUnknown:
		panic("pixgen: tried to read scalar with unknown size")
	case ScalarInt8:
		return int8(raw[0])
	case ScalarUint8:
		return raw[0]
	case ScalarInt16:
		return int16(o.Uint16(raw))
	case ScalarUint16:
		return o.Uint16(raw)
	case ScalarInt32:
		return int32(o.Uint32(raw))
	case ScalarUint32:
		return o.Uint32(raw)
	case ScalarInt64:
		return int64(o.Uint64(raw))
	case ScalarUint64:
		return o.Uint64(raw)
	case ScalarFloat8:
		return float8.Float8(uint8(raw[0]))
	case ScalarFloat16:
		return float16.Frombits(o.Uint16(raw))
	case ScalarFloat32:
		return math.Float32frombits(o.Uint32(raw))
	case ScalarFloat64:
		return math.Float64frombits(o.Uint64(raw))
	case ScalarBool:
		return raw[0] != 0
	case ScalarInt128:
		var h int64
		var l uint64
		if o == binary.BigEndian {
			h = int64(o.Uint64(raw[0:8]))
			l = o.Uint64(raw[8:16])
		} else {
			l = o.Uint64(raw[0:8])
			h = int64(o.Uint64(raw[8:16]))
		}
		return int128.Int128{H: h, L: l}
	case ScalarUint128:
		var h uint64
		var l uint64
		if o == binary.BigEndian {
			h = o.Uint64(raw[0:8])
			l = o.Uint64(raw[8:16])
		} else {
			l = o.Uint64(raw[0:8])
			h = o.Uint64(raw[8:16])
		}
		return int128.Uint128{H: h, L: l}
	case ScalarFloat128:
		var h uint64
		var l uint64
		if o == binary.BigEndian {
			h = o.Uint64(raw[0:8])
			l = o.Uint64(raw[8:16])
		} else {
			l = o.Uint64(raw[0:8])
			h = o.Uint64(raw[8:16])
		}
		return float128.FromBits(h, l)
	case ScalarBFloat16:
		return floatx.BF16Frombits(o.Uint16(raw))
	default:
		panic("pixgen: tried to read unsupported scalar type")
	}
}

// Writes the given value, assumed to correspond to the ScalarType, into its
// raw representation in bytes according to the byte order specified.
func (s ScalarType) PutValue(val any, o binary.ByteOrder, bytes []byte) {
	switch s {
	case ScalarUnknown:
		panic("pixgen: tried to write scalar with unknown size")
	case ScalarInt8:
		bytes[0] = byte(val.(int8))
	case ScalarUint8:
		bytes[0] = val.(uint8)
	case ScalarInt16:
		o.PutUint16(bytes, uint16(val.(int16)))
	case ScalarUint16:
		o.PutUint16(bytes, val.(uint16))
	case ScalarInt32:
		o.PutUint32(bytes, uint32(val.(int32)))
	case ScalarUint32:
		o.PutUint32(bytes, val.(uint32))
	case ScalarInt64:
		o.PutUint64(bytes, uint64(val.(int64)))
	case ScalarUint64:
		o.PutUint64(bytes, val.(uint64))
	case ScalarFloat8:
		bytes[0] = byte(val.(float8.Float8))
	case ScalarFloat16:
		o.PutUint16(bytes, val.(float16.Float16).Bits())
	case ScalarFloat32:
		o.PutUint32(bytes, math.Float32bits(val.(float32)))
	case ScalarFloat64:
		o.PutUint64(bytes, math.Float64bits(val.(float64)))
	case ScalarBool:
		if val.(bool) {
			bytes[0] = 1
		} else {
			bytes[0] = 0
		}
	case ScalarInt128:
		val128 := val.(int128.Int128)
		if o == binary.BigEndian {
			o.PutUint64(bytes[0:8], uint64(val128.H))
			o.PutUint64(bytes[8:16], val128.L)
		} else {
			o.PutUint64(bytes[0:8], val128.L)
			o.PutUint64(bytes[8:16], uint64(val128.H))
		}
	case ScalarUint128:
		val128 := val.(int128.Uint128)
		if o == binary.BigEndian {
			o.PutUint64(bytes[0:8], val128.H)
			o.PutUint64(bytes[8:16], val128.L)
		} else {
			o.PutUint64(bytes[0:8], val128.L)
			o.PutUint64(bytes[8:16], val128.H)
		}
	case ScalarFloat128:
		val128 := val.(float128.Float128)
		h, l := val128.Bits()
		if o == binary.BigEndian {
			o.PutUint64(bytes[0:8], h)
			o.PutUint64(bytes[8:16], l)
		} else {
			o.PutUint64(bytes[0:8], l)
			o.PutUint64(bytes[8:16], h)
		}
	case ScalarBFloat16:
		o.PutUint16(bytes, uint16(val.(floatx.BFloat16)))
	default:
		panic("pixgen: tried to write unsupported scalar type")
	}
}

// Encodes a float64 payload value into raw bytes in this format. Only
// floating point formats are supported; precision beyond the format's is
// dropped.
func (s ScalarType) PutFloat(v float64, o binary.ByteOrder, bytes []byte) {
	switch s {
	case ScalarFloat16:
		s.PutValue(float16.Fromfloat32(float32(v)), o, bytes)
	case ScalarBFloat16:
		// round-to-nearest would need the low mantissa bits; truncation
		// matches how the bits are reread
		s.PutValue(floatx.BF16Frombits(uint16(math.Float32bits(float32(v))>>16)), o, bytes)
	case ScalarFloat32:
		s.PutValue(float32(v), o, bytes)
	case ScalarFloat64:
		s.PutValue(v, o, bytes)
	case ScalarFloat128:
		s.PutValue(float128.FromFloat64(v), o, bytes)
	default:
		panic("pixgen: payload scalar type must be floating point")
	}
}

// Decodes a float64 payload value from raw bytes in this format.
func (s ScalarType) Float(raw []byte, o binary.ByteOrder) float64 {
	switch s {
	case ScalarFloat16:
		return float64(s.Value(raw, o).(float16.Float16).Float32())
	case ScalarBFloat16:
		bits := uint16(s.Value(raw, o).(floatx.BFloat16))
		return float64(math.Float32frombits(uint32(bits) << 16))
	case ScalarFloat32:
		return float64(s.Value(raw, o).(float32))
	case ScalarFloat64:
		return s.Value(raw, o).(float64)
	case ScalarFloat128:
		return s.Value(raw, o).(float128.Float128).Float64()
	default:
		panic("pixgen: payload scalar type must be floating point")
	}
}
