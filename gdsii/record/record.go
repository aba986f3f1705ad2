// Package record implements the GDSII record layer: reading and decoding
// the individual typed records a stream file is made of.
//
// Every record on the wire is a 4-byte header followed by content: a 2-byte
// big-endian total length (header included, so content is total minus 4),
// a 1-byte record-type code, and a 1-byte data-type code declaring how the
// content bytes are encoded. Records are self-delimiting, which is what
// lets a scanner skip content it does not care about by length alone.
package record

import "fmt"

// Type represents a GDSII record-type code.
type Type uint8

// Record-type codes, per the GDSII stream-format table.
const (
	TypeHeader        Type = 0x00
	TypeBgnLib        Type = 0x01
	TypeLibName       Type = 0x02
	TypeUnits         Type = 0x03
	TypeEndLib        Type = 0x04
	TypeBgnStruct     Type = 0x05
	TypeStructName    Type = 0x06
	TypeEndStruct     Type = 0x07
	TypeBoundary      Type = 0x08
	TypePath          Type = 0x09
	TypeStructRef     Type = 0x0A
	TypeArrayRef      Type = 0x0B
	TypeText          Type = 0x0C
	TypeLayer         Type = 0x0D
	TypeDataType      Type = 0x0E
	TypeWidth         Type = 0x0F
	TypeXy            Type = 0x10
	TypeEndElement    Type = 0x11
	TypeStructRefName Type = 0x12
	TypeColRow        Type = 0x13
	TypeTextNode      Type = 0x14
	TypeNode          Type = 0x15
	TypeTextType      Type = 0x16
	TypePresentation  Type = 0x17
	TypeSpacing       Type = 0x18
	TypeString        Type = 0x19
	TypeStrans        Type = 0x1A
	TypeMag           Type = 0x1B
	TypeAngle         Type = 0x1C
	TypeUinteger      Type = 0x1D
	TypeUstring       Type = 0x1E
	TypeRefLibs       Type = 0x1F
	TypeFonts         Type = 0x20
	TypePathType      Type = 0x21
	TypeGenerations   Type = 0x22
	TypeAttrTable     Type = 0x23
	TypeStypTable     Type = 0x24
	TypeStrType       Type = 0x25
	TypeElemFlags     Type = 0x26
	TypeElemKey       Type = 0x27
	TypeLinkType      Type = 0x28
	TypeLinkKeys      Type = 0x29
	TypeNodetype      Type = 0x2A
	TypePropAttr      Type = 0x2B
	TypePropValue     Type = 0x2C
	TypeBox           Type = 0x2D
	TypeBoxType       Type = 0x2E
	TypePlex          Type = 0x2F
	TypeBeginExtn     Type = 0x30
	TypeEndExtn       Type = 0x31
	TypeTapeNum       Type = 0x32
	TypeTapeCode      Type = 0x33
	TypeStrClass      Type = 0x34
	TypeReserved      Type = 0x35
	TypeFormat        Type = 0x36
	TypeMask          Type = 0x37
	TypeEndMasks      Type = 0x38
	TypeLibDirSize    Type = 0x39
	TypeSrfName       Type = 0x3A
	TypeLibSecur      Type = 0x3B
)

var typeNames = [...]string{
	"HEADER", "BGNLIB", "LIBNAME", "UNITS", "ENDLIB", "BGNSTR", "STRNAME",
	"ENDSTR", "BOUNDARY", "PATH", "SREF", "AREF", "TEXT", "LAYER",
	"DATATYPE", "WIDTH", "XY", "ENDEL", "SNAME", "COLROW", "TEXTNODE",
	"NODE", "TEXTTYPE", "PRESENTATION", "SPACING", "STRING", "STRANS",
	"MAG", "ANGLE", "UINTEGER", "USTRING", "REFLIBS", "FONTS", "PATHTYPE",
	"GENERATIONS", "ATTRTABLE", "STYPTABLE", "STRTYPE", "ELFLAGS", "ELKEY",
	"LINKTYPE", "LINKKEYS", "NODETYPE", "PROPATTR", "PROPVALUE", "BOX",
	"BOXTYPE", "PLEX", "BGNEXTN", "ENDEXTN", "TAPENUM", "TAPECODE",
	"STRCLASS", "RESERVED", "FORMAT", "MASK", "ENDMASKS", "LIBDIRSIZE",
	"SRFNAME", "LIBSECUR",
}

// String returns the GDSII mnemonic for t, e.g. "BGNLIB".
func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(0x%02X)", uint8(t))
}

// Valid reports whether t is legal on the wire. The GDSII code table
// reserves several codes that were never released for use; files containing
// them are rejected at the header stage.
func (t Type) Valid() bool {
	switch t {
	case TypeTextNode, TypeSpacing, TypeUinteger, TypeUstring, TypeStypTable,
		TypeStrType, TypeElemKey, TypeLinkType, TypeLinkKeys, TypeStrClass,
		TypeReserved:
		return false
	}
	return t <= TypeLibSecur
}

// DType represents a GDSII data-type code: the encoding of a record's
// content bytes.
type DType uint8

// Data-type codes. DTypeF32 is recognized but no record in the stream
// format carries it, so it never decodes.
const (
	DTypeNoData   DType = 0x00
	DTypeBitArray DType = 0x01
	DTypeI16      DType = 0x02
	DTypeI32      DType = 0x03
	DTypeF32      DType = 0x04
	DTypeF64      DType = 0x05
	DTypeStr      DType = 0x06
)

var dtypeNames = [...]string{
	"NODATA", "BITARRAY", "INT2", "INT4", "REAL4", "REAL8", "ASCII",
}

// String returns the Calma mnemonic for d, e.g. "INT2".
func (d DType) String() string {
	if int(d) < len(dtypeNames) {
		return dtypeNames[d]
	}
	return fmt.Sprintf("DType(0x%02X)", uint8(d))
}

// Header is the validated 4-byte record header. Len is the content length
// in bytes, i.e. the on-wire length minus the 4 header bytes.
type Header struct {
	RType Type
	DType DType
	Len   uint16
}

// matches reports whether the header announces exactly the given type,
// data type, and content length.
func (h Header) matches(rt Type, dt DType, n uint16) bool {
	return h.RType == rt && h.DType == dt && h.Len == n
}

// matchesVar is the wildcard-length form, for records carrying strings or
// coordinate lists.
func (h Header) matchesVar(rt Type, dt DType) bool {
	return h.RType == rt && h.DType == dt
}

// Record is the interface implemented by all decoded records. The concrete
// types below form a closed union mirroring the GDSII record table; decoded
// values are immutable and compared structurally.
type Record interface {
	Type() Type
}

// Version is the HEADER record, carrying the stream-format version number.
type Version struct{ Version int16 }

// BgnLib opens a library and carries its modified and accessed timestamps
// as twelve raw i16 calendar fields.
type BgnLib struct{ Dates [12]int16 }

// LibName names the library.
type LibName struct{ Name string }

// Units carries the two library scale factors: the size of one database
// unit in user units, and in meters.
type Units struct {
	UserUnits float64
	Meters    float64
}

// EndLib terminates the library and the stream.
type EndLib struct{}

// BgnStruct opens a structure (cell) definition; payload as in BgnLib.
type BgnStruct struct{ Dates [12]int16 }

// StructName names the structure being defined.
type StructName struct{ Name string }

// EndStruct terminates a structure definition.
type EndStruct struct{}

// Boundary, Path, StructRef, ArrayRef, Text, Node, and Box are the
// zero-content markers opening each element kind.
type (
	Boundary  struct{}
	Path      struct{}
	StructRef struct{}
	ArrayRef  struct{}
	Text      struct{}
	Node      struct{}
	Box       struct{}
)

// Layer carries an element's layer number.
type Layer struct{ Value int16 }

// DataType carries an element's datatype number.
type DataType struct{ Value int16 }

// Width carries a path or text width in database units; negative means
// absolute (not magnified).
type Width struct{ Value int32 }

// Xy carries element coordinates as a flat list of signed 32-bit database
// units, x and y interleaved.
type Xy struct{ Coords []int32 }

// EndElement terminates an element body.
type EndElement struct{}

// StructRefName names the structure a reference element instantiates.
type StructRefName struct{ Name string }

// ColRow carries an array reference's column and row counts.
type ColRow struct {
	Cols int16
	Rows int16
}

// TextType carries a text element's texttype number.
type TextType struct{ Value int16 }

// Presentation carries text presentation flags (font, justification).
type Presentation struct{ Bits [2]byte }

// String carries a text element's character string.
type String struct{ Value string }

// Strans carries transform flag bits; magnification and angle follow in
// separate Mag and Angle records.
type Strans struct{ Bits [2]byte }

// Mag carries a transform magnification factor.
type Mag struct{ Value float64 }

// Angle carries a transform rotation angle in degrees, counterclockwise.
type Angle struct{ Value float64 }

// RefLibs names up to two reference libraries.
type RefLibs struct{ Value string }

// Fonts names up to four font definition files.
type Fonts struct{ Value string }

// PathType selects a path's end-cap style.
type PathType struct{ Value int16 }

// Generations carries the number of retained cell generations.
type Generations struct{ Value int16 }

// AttrTable names the attribute definition file.
type AttrTable struct{ Value string }

// ElemFlags carries element flag bits (template and external data).
type ElemFlags struct{ Bits [2]byte }

// Nodetype carries a node element's nodetype number.
type Nodetype struct{ Value int16 }

// PropAttr carries a property's numeric attribute key; the value follows
// in an immediately adjacent PropValue record.
type PropAttr struct{ Attr int16 }

// PropValue carries a property's string value.
type PropValue struct{ Value string }

// BoxType carries a box element's boxtype number.
type BoxType struct{ Value int16 }

// Plex carries an element's plex membership number.
type Plex struct{ Value int32 }

// BeginExtn and EndExtn carry custom path end extensions in database units.
type (
	BeginExtn struct{ Value int32 }
	EndExtn   struct{ Value int32 }
)

// TapeNum carries the stream tape sequence number.
type TapeNum struct{ Value int16 }

// TapeCode carries the six-value tape identification code.
type TapeCode struct{ Values [6]int16 }

// Format declares the stream format variant (archive or filtered).
type Format struct{ Value int16 }

// Mask names a layer/datatype mask list for filtered format.
type Mask struct{ Value string }

// EndMasks terminates a mask list.
type EndMasks struct{}

// LibDirSize carries the library directory size in pages.
type LibDirSize struct{ Value int16 }

// SrfName names the spacing-rules file.
type SrfName struct{ Name string }

// LibSecur carries library access-control data.
type LibSecur struct{ Value int16 }

// Type implementations for the record union.

func (Version) Type() Type       { return TypeHeader }
func (BgnLib) Type() Type        { return TypeBgnLib }
func (LibName) Type() Type       { return TypeLibName }
func (Units) Type() Type         { return TypeUnits }
func (EndLib) Type() Type        { return TypeEndLib }
func (BgnStruct) Type() Type     { return TypeBgnStruct }
func (StructName) Type() Type    { return TypeStructName }
func (EndStruct) Type() Type     { return TypeEndStruct }
func (Boundary) Type() Type      { return TypeBoundary }
func (Path) Type() Type          { return TypePath }
func (StructRef) Type() Type     { return TypeStructRef }
func (ArrayRef) Type() Type      { return TypeArrayRef }
func (Text) Type() Type          { return TypeText }
func (Layer) Type() Type         { return TypeLayer }
func (DataType) Type() Type      { return TypeDataType }
func (Width) Type() Type         { return TypeWidth }
func (Xy) Type() Type            { return TypeXy }
func (EndElement) Type() Type    { return TypeEndElement }
func (StructRefName) Type() Type { return TypeStructRefName }
func (ColRow) Type() Type        { return TypeColRow }
func (Node) Type() Type          { return TypeNode }
func (TextType) Type() Type      { return TypeTextType }
func (Presentation) Type() Type  { return TypePresentation }
func (String) Type() Type        { return TypeString }
func (Strans) Type() Type        { return TypeStrans }
func (Mag) Type() Type           { return TypeMag }
func (Angle) Type() Type         { return TypeAngle }
func (RefLibs) Type() Type       { return TypeRefLibs }
func (Fonts) Type() Type         { return TypeFonts }
func (PathType) Type() Type      { return TypePathType }
func (Generations) Type() Type   { return TypeGenerations }
func (AttrTable) Type() Type     { return TypeAttrTable }
func (ElemFlags) Type() Type     { return TypeElemFlags }
func (Nodetype) Type() Type      { return TypeNodetype }
func (PropAttr) Type() Type      { return TypePropAttr }
func (PropValue) Type() Type     { return TypePropValue }
func (Box) Type() Type           { return TypeBox }
func (BoxType) Type() Type       { return TypeBoxType }
func (Plex) Type() Type          { return TypePlex }
func (BeginExtn) Type() Type     { return TypeBeginExtn }
func (EndExtn) Type() Type       { return TypeEndExtn }
func (TapeNum) Type() Type       { return TypeTapeNum }
func (TapeCode) Type() Type      { return TypeTapeCode }
func (Format) Type() Type        { return TypeFormat }
func (Mask) Type() Type          { return TypeMask }
func (EndMasks) Type() Type      { return TypeEndMasks }
func (LibDirSize) Type() Type    { return TypeLibDirSize }
func (SrfName) Type() Type       { return TypeSrfName }
func (LibSecur) Type() Type      { return TypeLibSecur }
