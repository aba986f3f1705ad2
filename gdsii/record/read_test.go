package record

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

// raw assembles one on-wire record: big-endian total length (content plus
// the 4 header bytes), record-type code, data-type code, content.
func raw(rt Type, dt DType, content ...byte) []byte {
	total := len(content) + 4
	out := []byte{byte(total >> 8), byte(total), byte(rt), byte(dt)}
	return append(out, content...)
}

func i16be(vals ...int16) []byte {
	out := make([]byte, 0, 2*len(vals))
	for _, v := range vals {
		out = append(out, byte(uint16(v)>>8), byte(uint16(v)))
	}
	return out
}

func i32be(vals ...int32) []byte {
	out := make([]byte, 0, 4*len(vals))
	for _, v := range vals {
		out = append(out, byte(uint32(v)>>24), byte(uint32(v)>>16), byte(uint32(v)>>8), byte(uint32(v)))
	}
	return out
}

func TestReadHeader(t *testing.T) {
	rd := NewReader(raw(TypeBoundary, DTypeNoData), Config{})

	h, err := rd.ReadHeader()
	require.NoError(t, err)
	require.Equal(t, Header{RType: TypeBoundary, DType: DTypeNoData, Len: 0}, h)
	require.Equal(t, int64(4), rd.Pos())
}

func TestReadHeaderRejectsBadLength(t *testing.T) {
	tests := []struct {
		name string
		wire uint16
	}{
		{"zero", 0},
		{"below header size", 2},
		{"odd", 5},
		{"odd above header size", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rd := NewReader([]byte{byte(tt.wire >> 8), byte(tt.wire), 0x00, 0x02}, Config{})

			_, err := rd.ReadHeader()
			var lenErr LenError
			require.ErrorAs(t, err, &lenErr)
			require.Equal(t, tt.wire, lenErr.Len)
		})
	}
}

func TestReadHeaderRejectsBadRecordType(t *testing.T) {
	tests := []struct {
		name string
		code byte
	}{
		{"reserved TEXTNODE", 0x14},
		{"reserved SPACING", 0x18},
		{"reserved STRCLASS", 0x34},
		{"beyond table", 0x3C},
		{"far beyond table", 0xFF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rd := NewReader([]byte{0x00, 0x04, tt.code, 0x00}, Config{})

			_, err := rd.ReadHeader()
			var typeErr InvalidRecordTypeError
			require.ErrorAs(t, err, &typeErr)
			require.Equal(t, tt.code, typeErr.Code)
		})
	}
}

func TestReadHeaderRejectsBadDataType(t *testing.T) {
	rd := NewReader([]byte{0x00, 0x04, 0x08, 0x07}, Config{})

	_, err := rd.ReadHeader()
	var dtErr InvalidDataTypeError
	require.ErrorAs(t, err, &dtErr)
	require.Equal(t, byte(0x07), dtErr.Code)
}

func TestReadHeaderTruncated(t *testing.T) {
	for _, data := range [][]byte{nil, {0x00}, {0x00, 0x06}, {0x00, 0x06, 0x02}} {
		rd := NewReader(data, Config{})

		_, err := rd.ReadHeader()
		require.True(t, errors.Is(err, io.ErrUnexpectedEOF), "input %v", data)
	}
}

func TestReadDispatch(t *testing.T) {
	dates := []int16{2024, 6, 1, 12, 30, 45, 2024, 6, 2, 8, 15, 0}

	tests := []struct {
		name     string
		data     []byte
		expected Record
	}{
		{"HEADER", raw(TypeHeader, DTypeI16, i16be(600)...), Version{Version: 600}},
		{"BGNLIB", raw(TypeBgnLib, DTypeI16, i16be(dates...)...),
			BgnLib{Dates: [12]int16{2024, 6, 1, 12, 30, 45, 2024, 6, 2, 8, 15, 0}}},
		{"LIBNAME even length", raw(TypeLibName, DTypeStr, []byte("TOPLIB")...), LibName{Name: "TOPLIB"}},
		{"STRNAME odd length padded", raw(TypeStructName, DTypeStr, []byte("CEL\x00")...), StructName{Name: "CEL"}},
		{"SNAME", raw(TypeStructRefName, DTypeStr, []byte("SUBCELL$")...), StructRefName{Name: "SUBCELL$"}},
		{"UNITS exact reals", raw(TypeUnits, DTypeF64,
			0x40, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			0x41, 0x10, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00),
			Units{UserUnits: 0.5, Meters: 1.0}},
		{"ENDLIB", raw(TypeEndLib, DTypeNoData), EndLib{}},
		{"BGNSTR", raw(TypeBgnStruct, DTypeI16, i16be(dates...)...),
			BgnStruct{Dates: [12]int16{2024, 6, 1, 12, 30, 45, 2024, 6, 2, 8, 15, 0}}},
		{"ENDSTR", raw(TypeEndStruct, DTypeNoData), EndStruct{}},
		{"BOUNDARY", raw(TypeBoundary, DTypeNoData), Boundary{}},
		{"PATH", raw(TypePath, DTypeNoData), Path{}},
		{"SREF", raw(TypeStructRef, DTypeNoData), StructRef{}},
		{"AREF", raw(TypeArrayRef, DTypeNoData), ArrayRef{}},
		{"TEXT", raw(TypeText, DTypeNoData), Text{}},
		{"NODE", raw(TypeNode, DTypeNoData), Node{}},
		{"BOX", raw(TypeBox, DTypeNoData), Box{}},
		{"LAYER", raw(TypeLayer, DTypeI16, i16be(5)...), Layer{Value: 5}},
		{"DATATYPE", raw(TypeDataType, DTypeI16, i16be(0)...), DataType{Value: 0}},
		{"WIDTH negative", raw(TypeWidth, DTypeI32, i32be(-200)...), Width{Value: -200}},
		{"XY", raw(TypeXy, DTypeI32, i32be(0, 0, -5, 10)...), Xy{Coords: []int32{0, 0, -5, 10}}},
		{"XY empty", raw(TypeXy, DTypeI32), Xy{Coords: []int32{}}},
		{"ENDEL", raw(TypeEndElement, DTypeNoData), EndElement{}},
		{"COLROW", raw(TypeColRow, DTypeI16, i16be(4, 3)...), ColRow{Cols: 4, Rows: 3}},
		{"TEXTTYPE", raw(TypeTextType, DTypeI16, i16be(2)...), TextType{Value: 2}},
		{"PRESENTATION", raw(TypePresentation, DTypeBitArray, 0x00, 0x05), Presentation{Bits: [2]byte{0x00, 0x05}}},
		{"STRING", raw(TypeString, DTypeStr, []byte("VDD!")...), String{Value: "VDD!"}},
		{"STRANS", raw(TypeStrans, DTypeBitArray, 0x80, 0x06), Strans{Bits: [2]byte{0x80, 0x06}}},
		{"MAG", raw(TypeMag, DTypeF64, 0x41, 0x20, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00), Mag{Value: 2.0}},
		{"ANGLE", raw(TypeAngle, DTypeF64, 0xC1, 0x10, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00), Angle{Value: -1.0}},
		{"REFLIBS", raw(TypeRefLibs, DTypeStr, []byte("LI")...), RefLibs{Value: "LI"}},
		{"FONTS", raw(TypeFonts, DTypeStr, []byte("FO")...), Fonts{Value: "FO"}},
		{"PATHTYPE", raw(TypePathType, DTypeI16, i16be(1)...), PathType{Value: 1}},
		{"GENERATIONS", raw(TypeGenerations, DTypeI16, i16be(3)...), Generations{Value: 3}},
		{"ATTRTABLE", raw(TypeAttrTable, DTypeStr, []byte("AT")...), AttrTable{Value: "AT"}},
		{"ELFLAGS", raw(TypeElemFlags, DTypeBitArray, 0x00, 0x01), ElemFlags{Bits: [2]byte{0x00, 0x01}}},
		{"NODETYPE", raw(TypeNodetype, DTypeI16, i16be(7)...), Nodetype{Value: 7}},
		{"PROPATTR", raw(TypePropAttr, DTypeI16, i16be(2)...), PropAttr{Attr: 2}},
		{"PROPVALUE", raw(TypePropValue, DTypeStr, []byte("metal1")...), PropValue{Value: "metal1"}},
		{"BOXTYPE", raw(TypeBoxType, DTypeI16, i16be(0)...), BoxType{Value: 0}},
		{"PLEX", raw(TypePlex, DTypeI32, i32be(77)...), Plex{Value: 77}},
		{"BGNEXTN", raw(TypeBeginExtn, DTypeI32, i32be(-25)...), BeginExtn{Value: -25}},
		{"ENDEXTN", raw(TypeEndExtn, DTypeI32, i32be(25)...), EndExtn{Value: 25}},
		{"TAPENUM", raw(TypeTapeNum, DTypeI16, i16be(1)...), TapeNum{Value: 1}},
		{"TAPECODE", raw(TypeTapeCode, DTypeI16, i16be(1, 2, 3, 4, 5, 6)...), TapeCode{Values: [6]int16{1, 2, 3, 4, 5, 6}}},
		{"FORMAT", raw(TypeFormat, DTypeI16, i16be(0)...), Format{Value: 0}},
		{"MASK", raw(TypeMask, DTypeStr, []byte("1 2;")...), Mask{Value: "1 2;"}},
		{"ENDMASKS", raw(TypeEndMasks, DTypeNoData), EndMasks{}},
		{"LIBDIRSIZE", raw(TypeLibDirSize, DTypeI16, i16be(120)...), LibDirSize{Value: 120}},
		{"SRFNAME", raw(TypeSrfName, DTypeStr, []byte("SR")...), SrfName{Name: "SR"}},
		{"LIBSECUR", raw(TypeLibSecur, DTypeI16, i16be(1)...), LibSecur{Value: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rd := NewReader(tt.data, Config{})

			rec, err := rd.Read()
			require.NoError(t, err)
			require.Equal(t, tt.expected, rec)

			// Content must be consumed exactly.
			require.Equal(t, int64(len(tt.data)), rd.Pos())
		})
	}
}

func TestReadUnitsCanonical(t *testing.T) {
	// 1e-3 user units and 1e-9 meters per database unit, the payload
	// nearly every micron-gridded file carries.
	data := raw(TypeUnits, DTypeF64,
		0x3E, 0x41, 0x89, 0x37, 0x4B, 0xC6, 0xA7, 0xEF,
		0x39, 0x44, 0xB8, 0x2F, 0xA0, 0x9B, 0x5A, 0x53)
	rd := NewReader(data, Config{})

	rec, err := rd.Read()
	require.NoError(t, err)

	units, ok := rec.(Units)
	require.True(t, ok)
	require.InEpsilon(t, 1e-3, units.UserUnits, 1e-12)
	require.InEpsilon(t, 1e-9, units.Meters, 1e-12)
}

func TestDecodeRejectsUndefinedCombinations(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"LAYER with INT4", raw(TypeLayer, DTypeI32, i32be(5)...)},
		{"LAYER with wrong length", raw(TypeLayer, DTypeI16, i16be(5, 6)...)},
		{"UNITS with short payload", raw(TypeUnits, DTypeF64, 0x41, 0x10, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00)},
		{"HEADER with no data", raw(TypeHeader, DTypeNoData)},
		{"XY with INT2", raw(TypeXy, DTypeI16, i16be(0, 0)...)},
		{"XY length not multiple of four", raw(TypeXy, DTypeI32, i16be(0, 0, 0)...)},
		{"BOUNDARY with content", raw(TypeBoundary, DTypeNoData, 0x00, 0x00)},
		{"MAG with REAL4", raw(TypeMag, DTypeF32, 0x41, 0x10, 0x00, 0x00)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rd := NewReader(tt.data, Config{})
			h, err := rd.ReadHeader()
			require.NoError(t, err)

			_, err = rd.Decode(h)
			var decErr DecodeError
			require.ErrorAs(t, err, &decErr)
			require.Equal(t, h.RType, decErr.RType)
			require.Equal(t, h.DType, decErr.DType)
			require.Equal(t, h.Len, decErr.Len)
		})
	}
}

func TestReadTruncatedContent(t *testing.T) {
	// Header declares 6 content bytes but only 2 are present.
	data := []byte{0x00, 0x0A, byte(TypeLibName), byte(DTypeStr), 'A', 'B'}

	rd := NewReader(data, Config{})
	_, err := rd.Read()
	require.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}

func TestReadSequential(t *testing.T) {
	data := append(raw(TypeLibName, DTypeStr, []byte("LIB1")...), raw(TypeEndLib, DTypeNoData)...)
	rd := NewReader(data, Config{})

	rec, err := rd.Read()
	require.NoError(t, err)
	require.Equal(t, LibName{Name: "LIB1"}, rec)
	require.Equal(t, int64(8), rd.Pos())

	rec, err = rd.Read()
	require.NoError(t, err)
	require.Equal(t, EndLib{}, rec)
	require.Equal(t, int64(len(data)), rd.Pos())
}

func TestSkipJumpsOverContent(t *testing.T) {
	data := append(raw(TypeXy, DTypeI32, i32be(1, 2, 3, 4)...), raw(TypeEndElement, DTypeNoData)...)
	rd := NewReader(data, Config{})

	h, err := rd.ReadHeader()
	require.NoError(t, err)
	require.Equal(t, TypeXy, h.RType)

	rd.Skip(int64(h.Len))

	rec, err := rd.Read()
	require.NoError(t, err)
	require.Equal(t, EndElement{}, rec)
}
