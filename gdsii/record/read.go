package record

import (
	"golang.org/x/text/encoding"

	"github.com/robert-malhotra/go-gdsii/internal/binary"
)

// Reader reads GDSII records sequentially from an in-memory stream.
//
// It owns the byte cursor: ReadHeader and Read advance it record by record,
// Skip jumps over content without decoding, and Pos reports the current
// byte offset for diagnostics. A Reader is not safe for concurrent use;
// decode each stream with its own instance.
type Reader struct {
	r *binary.Reader
}

// Config holds reader configuration.
type Config struct {
	// Encoding optionally decodes string payloads written in a legacy
	// single-byte charset. Nil means strict UTF-8 validation.
	Encoding encoding.Encoding
}

// NewReader creates a record reader over data.
func NewReader(data []byte, cfg Config) *Reader {
	return &Reader{r: binary.NewReader(data, binary.Config{Encoding: cfg.Encoding})}
}

// Pos returns the current byte offset in the stream.
func (rd *Reader) Pos() int64 {
	return rd.r.Pos()
}

// Skip advances the cursor n bytes without decoding anything. Record
// content can be jumped over by its declared length this way.
func (rd *Reader) Skip(n int64) {
	rd.r.Skip(n)
}

// ReadHeader reads and validates the 4-byte record header at the cursor.
// The returned Len is the content length: the on-wire total minus 4.
func (rd *Reader) ReadHeader() (Header, error) {
	length, err := rd.r.ReadUint16()
	if err != nil {
		return Header{}, err
	}
	if length < 4 || length%2 != 0 {
		return Header{}, LenError{Len: length}
	}
	rcode, err := rd.r.ReadUint8()
	if err != nil {
		return Header{}, err
	}
	rtype := Type(rcode)
	if !rtype.Valid() {
		return Header{}, InvalidRecordTypeError{Code: rcode}
	}
	dcode, err := rd.r.ReadUint8()
	if err != nil {
		return Header{}, err
	}
	if dcode > uint8(DTypeStr) {
		return Header{}, InvalidDataTypeError{Code: dcode}
	}
	return Header{RType: rtype, DType: DType(dcode), Len: length - 4}, nil
}

// Read decodes one complete record: header, then content.
func (rd *Reader) Read() (Record, error) {
	h, err := rd.ReadHeader()
	if err != nil {
		return nil, err
	}
	return rd.Decode(h)
}

// Decode reads h.Len content bytes and decodes them according to the
// stream-format table, matching on the record type, data type, and length
// together. Combinations the table does not define fail with DecodeError
// and leave the cursor before the content.
func (rd *Reader) Decode(h Header) (Record, error) {
	switch {
	case h.matches(TypeHeader, DTypeI16, 2):
		v, err := rd.readInt16()
		if err != nil {
			return nil, err
		}
		return Version{Version: v}, nil
	case h.matches(TypeBgnLib, DTypeI16, 24):
		dates, err := rd.readDates()
		if err != nil {
			return nil, err
		}
		return BgnLib{Dates: dates}, nil
	case h.matchesVar(TypeLibName, DTypeStr):
		s, err := rd.r.ReadString(int(h.Len))
		if err != nil {
			return nil, err
		}
		return LibName{Name: s}, nil
	case h.matches(TypeUnits, DTypeF64, 16):
		vals, err := rd.r.ReadFloat64s(2)
		if err != nil {
			return nil, err
		}
		return Units{UserUnits: vals[0], Meters: vals[1]}, nil
	case h.matches(TypeEndLib, DTypeNoData, 0):
		return EndLib{}, nil
	case h.matches(TypeBgnStruct, DTypeI16, 24):
		dates, err := rd.readDates()
		if err != nil {
			return nil, err
		}
		return BgnStruct{Dates: dates}, nil
	case h.matchesVar(TypeStructName, DTypeStr):
		s, err := rd.r.ReadString(int(h.Len))
		if err != nil {
			return nil, err
		}
		return StructName{Name: s}, nil
	case h.matchesVar(TypeStructRefName, DTypeStr):
		s, err := rd.r.ReadString(int(h.Len))
		if err != nil {
			return nil, err
		}
		return StructRefName{Name: s}, nil
	case h.matches(TypeEndStruct, DTypeNoData, 0):
		return EndStruct{}, nil
	case h.matches(TypeBoundary, DTypeNoData, 0):
		return Boundary{}, nil
	case h.matches(TypePath, DTypeNoData, 0):
		return Path{}, nil
	case h.matches(TypeStructRef, DTypeNoData, 0):
		return StructRef{}, nil
	case h.matches(TypeArrayRef, DTypeNoData, 0):
		return ArrayRef{}, nil
	case h.matches(TypeText, DTypeNoData, 0):
		return Text{}, nil
	case h.matches(TypeLayer, DTypeI16, 2):
		v, err := rd.readInt16()
		if err != nil {
			return nil, err
		}
		return Layer{Value: v}, nil
	case h.matches(TypeDataType, DTypeI16, 2):
		v, err := rd.readInt16()
		if err != nil {
			return nil, err
		}
		return DataType{Value: v}, nil
	case h.matches(TypeWidth, DTypeI32, 4):
		v, err := rd.readInt32()
		if err != nil {
			return nil, err
		}
		return Width{Value: v}, nil
	case h.matchesVar(TypeXy, DTypeI32) && h.Len%4 == 0:
		coords, err := rd.r.ReadInt32s(int(h.Len) / 4)
		if err != nil {
			return nil, err
		}
		return Xy{Coords: coords}, nil
	case h.matches(TypeEndElement, DTypeNoData, 0):
		return EndElement{}, nil
	case h.matches(TypeColRow, DTypeI16, 4):
		vals, err := rd.r.ReadInt16s(2)
		if err != nil {
			return nil, err
		}
		return ColRow{Cols: vals[0], Rows: vals[1]}, nil
	case h.matches(TypeNode, DTypeNoData, 0):
		return Node{}, nil
	case h.matches(TypeTextType, DTypeI16, 2):
		v, err := rd.readInt16()
		if err != nil {
			return nil, err
		}
		return TextType{Value: v}, nil
	case h.matches(TypePresentation, DTypeBitArray, 2):
		bits, err := rd.readBits()
		if err != nil {
			return nil, err
		}
		return Presentation{Bits: bits}, nil
	case h.matchesVar(TypeString, DTypeStr):
		s, err := rd.r.ReadString(int(h.Len))
		if err != nil {
			return nil, err
		}
		return String{Value: s}, nil
	case h.matches(TypeStrans, DTypeBitArray, 2):
		bits, err := rd.readBits()
		if err != nil {
			return nil, err
		}
		return Strans{Bits: bits}, nil
	case h.matches(TypeMag, DTypeF64, 8):
		v, err := rd.readFloat64()
		if err != nil {
			return nil, err
		}
		return Mag{Value: v}, nil
	case h.matches(TypeAngle, DTypeF64, 8):
		v, err := rd.readFloat64()
		if err != nil {
			return nil, err
		}
		return Angle{Value: v}, nil
	case h.matchesVar(TypeRefLibs, DTypeStr):
		s, err := rd.r.ReadString(int(h.Len))
		if err != nil {
			return nil, err
		}
		return RefLibs{Value: s}, nil
	case h.matchesVar(TypeFonts, DTypeStr):
		s, err := rd.r.ReadString(int(h.Len))
		if err != nil {
			return nil, err
		}
		return Fonts{Value: s}, nil
	case h.matches(TypePathType, DTypeI16, 2):
		v, err := rd.readInt16()
		if err != nil {
			return nil, err
		}
		return PathType{Value: v}, nil
	case h.matches(TypeGenerations, DTypeI16, 2):
		v, err := rd.readInt16()
		if err != nil {
			return nil, err
		}
		return Generations{Value: v}, nil
	case h.matchesVar(TypeAttrTable, DTypeStr):
		s, err := rd.r.ReadString(int(h.Len))
		if err != nil {
			return nil, err
		}
		return AttrTable{Value: s}, nil
	case h.matches(TypeElemFlags, DTypeBitArray, 2):
		bits, err := rd.readBits()
		if err != nil {
			return nil, err
		}
		return ElemFlags{Bits: bits}, nil
	case h.matches(TypeNodetype, DTypeI16, 2):
		v, err := rd.readInt16()
		if err != nil {
			return nil, err
		}
		return Nodetype{Value: v}, nil
	case h.matches(TypePropAttr, DTypeI16, 2):
		v, err := rd.readInt16()
		if err != nil {
			return nil, err
		}
		return PropAttr{Attr: v}, nil
	case h.matchesVar(TypePropValue, DTypeStr):
		s, err := rd.r.ReadString(int(h.Len))
		if err != nil {
			return nil, err
		}
		return PropValue{Value: s}, nil
	case h.matches(TypeBox, DTypeNoData, 0):
		return Box{}, nil
	case h.matches(TypeBoxType, DTypeI16, 2):
		v, err := rd.readInt16()
		if err != nil {
			return nil, err
		}
		return BoxType{Value: v}, nil
	case h.matches(TypePlex, DTypeI32, 4):
		v, err := rd.readInt32()
		if err != nil {
			return nil, err
		}
		return Plex{Value: v}, nil
	case h.matches(TypeBeginExtn, DTypeI32, 4):
		v, err := rd.readInt32()
		if err != nil {
			return nil, err
		}
		return BeginExtn{Value: v}, nil
	case h.matches(TypeEndExtn, DTypeI32, 4):
		v, err := rd.readInt32()
		if err != nil {
			return nil, err
		}
		return EndExtn{Value: v}, nil
	case h.matches(TypeTapeNum, DTypeI16, 2):
		v, err := rd.readInt16()
		if err != nil {
			return nil, err
		}
		return TapeNum{Value: v}, nil
	case h.matches(TypeTapeCode, DTypeI16, 12):
		vals, err := rd.r.ReadInt16s(6)
		if err != nil {
			return nil, err
		}
		var code [6]int16
		copy(code[:], vals)
		return TapeCode{Values: code}, nil
	case h.matches(TypeFormat, DTypeI16, 2):
		v, err := rd.readInt16()
		if err != nil {
			return nil, err
		}
		return Format{Value: v}, nil
	case h.matchesVar(TypeMask, DTypeStr):
		s, err := rd.r.ReadString(int(h.Len))
		if err != nil {
			return nil, err
		}
		return Mask{Value: s}, nil
	case h.matches(TypeEndMasks, DTypeNoData, 0):
		return EndMasks{}, nil
	case h.matches(TypeLibDirSize, DTypeI16, 2):
		v, err := rd.readInt16()
		if err != nil {
			return nil, err
		}
		return LibDirSize{Value: v}, nil
	case h.matchesVar(TypeSrfName, DTypeStr):
		s, err := rd.r.ReadString(int(h.Len))
		if err != nil {
			return nil, err
		}
		return SrfName{Name: s}, nil
	case h.matches(TypeLibSecur, DTypeI16, 2):
		v, err := rd.readInt16()
		if err != nil {
			return nil, err
		}
		return LibSecur{Value: v}, nil
	default:
		return nil, DecodeError{RType: h.RType, DType: h.DType, Len: h.Len}
	}
}

func (rd *Reader) readInt16() (int16, error) {
	vals, err := rd.r.ReadInt16s(1)
	if err != nil {
		return 0, err
	}
	return vals[0], nil
}

func (rd *Reader) readInt32() (int32, error) {
	vals, err := rd.r.ReadInt32s(1)
	if err != nil {
		return 0, err
	}
	return vals[0], nil
}

func (rd *Reader) readFloat64() (float64, error) {
	vals, err := rd.r.ReadFloat64s(1)
	if err != nil {
		return 0, err
	}
	return vals[0], nil
}

func (rd *Reader) readDates() ([12]int16, error) {
	vals, err := rd.r.ReadInt16s(12)
	if err != nil {
		return [12]int16{}, err
	}
	var dates [12]int16
	copy(dates[:], vals)
	return dates, nil
}

func (rd *Reader) readBits() ([2]byte, error) {
	buf, err := rd.r.ReadBytes(2)
	if err != nil {
		return [2]byte{}, err
	}
	return [2]byte{buf[0], buf[1]}, nil
}
