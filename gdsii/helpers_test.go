package gdsii

import (
	"encoding/binary"

	"github.com/robert-malhotra/go-gdsii/gdsii/record"
)

// raw assembles one wire record from its type, data type, and content.
func raw(rt record.Type, dt record.DType, content ...byte) []byte {
	b := make([]byte, 0, 4+len(content))
	b = binary.BigEndian.AppendUint16(b, uint16(4+len(content)))
	b = append(b, byte(rt), byte(dt))
	return append(b, content...)
}

func i16be(vals ...int16) []byte {
	var b []byte
	for _, v := range vals {
		b = binary.BigEndian.AppendUint16(b, uint16(v))
	}
	return b
}

func i32be(vals ...int32) []byte {
	var b []byte
	for _, v := range vals {
		b = binary.BigEndian.AppendUint32(b, uint32(v))
	}
	return b
}

func f64be(bits ...uint64) []byte {
	var b []byte
	for _, v := range bits {
		b = binary.BigEndian.AppendUint64(b, v)
	}
	return b
}

// str pads a string payload to even length with a trailing NUL, the way
// stream writers do.
func str(s string) []byte {
	b := []byte(s)
	if len(b)%2 == 1 {
		b = append(b, 0)
	}
	return b
}

// stream concatenates record fragments into one byte stream.
func stream(parts ...[]byte) []byte {
	var b []byte
	for _, p := range parts {
		b = append(b, p...)
	}
	return b
}

// unitsContent is the canonical UNITS payload: one database unit is 1e-3
// user units and 1e-9 meters.
var unitsContent = f64be(0x3E4189374BC6A7EF, 0x3944B82FA09B5A53)

// datesContent is a BGNLIB or BGNSTR payload holding two valid timestamps.
var datesContent = i16be(2024, 6, 15, 12, 30, 45, 2024, 6, 16, 8, 0, 0)

// preamble builds the mandatory HEADER-BGNLIB-LIBNAME-UNITS opening.
func preamble(name string) []byte {
	return stream(
		raw(record.TypeHeader, record.DTypeI16, i16be(600)...),
		raw(record.TypeBgnLib, record.DTypeI16, datesContent...),
		raw(record.TypeLibName, record.DTypeStr, str(name)...),
		raw(record.TypeUnits, record.DTypeF64, unitsContent...),
	)
}

// structDef frames element fragments in a BGNSTR-STRNAME...ENDSTR block.
func structDef(name string, elements ...[]byte) []byte {
	b := stream(
		raw(record.TypeBgnStruct, record.DTypeI16, datesContent...),
		raw(record.TypeStructName, record.DTypeStr, str(name)...),
	)
	for _, e := range elements {
		b = append(b, e...)
	}
	return append(b, raw(record.TypeEndStruct, record.DTypeNoData)...)
}

func endlib() []byte {
	return raw(record.TypeEndLib, record.DTypeNoData)
}

// boundaryOn builds a minimal boundary element from interleaved x, y
// coordinates.
func boundaryOn(layer, datatype int16, coords ...int32) []byte {
	return stream(
		raw(record.TypeBoundary, record.DTypeNoData),
		raw(record.TypeLayer, record.DTypeI16, i16be(layer)...),
		raw(record.TypeDataType, record.DTypeI16, i16be(datatype)...),
		raw(record.TypeXy, record.DTypeI32, i32be(coords...)...),
		raw(record.TypeEndElement, record.DTypeNoData),
	)
}
