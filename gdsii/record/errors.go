package record

import "fmt"

// LenError reports a malformed on-wire record length. The total length
// counts the 4 header bytes, so it must be at least 4, and records are
// word-aligned, so it must be even.
type LenError struct {
	Len uint16
}

func (e LenError) Error() string {
	return fmt.Sprintf("invalid record length %d: must be even and at least 4", e.Len)
}

// InvalidRecordTypeError reports a record-type code outside the GDSII
// table, or one the table reserves.
type InvalidRecordTypeError struct {
	Code byte
}

func (e InvalidRecordTypeError) Error() string {
	return fmt.Sprintf("invalid or reserved record type 0x%02X", e.Code)
}

// InvalidDataTypeError reports an unrecognized data-type code.
type InvalidDataTypeError struct {
	Code byte
}

func (e InvalidDataTypeError) Error() string {
	return fmt.Sprintf("invalid data type 0x%02X", e.Code)
}

// DecodeError reports a structurally valid header whose record type, data
// type, and length combination has no decoding in the stream-format table.
// It covers corrupt files and spec-shaped-but-unexpected records alike.
type DecodeError struct {
	RType Type
	DType DType
	Len   uint16
}

func (e DecodeError) Error() string {
	return fmt.Sprintf("cannot decode %s record with data type %s and length %d", e.RType, e.DType, e.Len)
}
