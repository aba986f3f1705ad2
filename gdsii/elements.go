package gdsii

import "github.com/robert-malhotra/go-gdsii/geom"

// Element is one geometric or reference primitive inside a structure. The
// implementations form a closed union: Boundary, Path, TextElement, Node,
// Box, StructRef, and ArrayRef.
type Element interface {
	element()
}

// ElemFlags holds the two element flag bytes (template and external-data
// markers).
type ElemFlags [2]byte

// Presentation holds the two text presentation bytes (font selection and
// justification).
type Presentation [2]byte

// Plex is an element's plex membership number.
type Plex int32

// Property is an attribute/value pair attached to an element.
type Property struct {
	Attr  int16
	Value string
}

// Strans is the transform attached to reference and text placements.
// Mag and Angle are nil when the stream omits the corresponding records.
type Strans struct {
	Reflected bool
	AbsMag    bool
	AbsAngle  bool
	Mag       *float64
	Angle     *float64
}

// Boundary is a filled, closed polygon.
type Boundary struct {
	Layer      int16
	DataType   int16
	XY         []geom.Point
	ElemFlags  *ElemFlags
	Plex       *Plex
	Properties []Property
}

// Path is a wire: an open point chain with a width and end-cap style.
type Path struct {
	Layer      int16
	DataType   int16
	XY         []geom.Point
	Width      *int32
	PathType   *int16
	BeginExtn  *int32
	EndExtn    *int32
	ElemFlags  *ElemFlags
	Plex       *Plex
	Properties []Property
}

// TextElement is an annotation string placed at a point.
type TextElement struct {
	Layer        int16
	TextType     int16
	XY           geom.Point
	Text         string
	Presentation *Presentation
	PathType     *int16
	Width        *int32
	Strans       *Strans
	ElemFlags    *ElemFlags
	Plex         *Plex
	Properties   []Property
}

// Node is an electrical net annotation over a point set.
type Node struct {
	Layer      int16
	NodeType   int16
	XY         []geom.Point
	ElemFlags  *ElemFlags
	Plex       *Plex
	Properties []Property
}

// Box is a rectangle outline, always closed with exactly five points.
type Box struct {
	Layer      int16
	BoxType    int16
	XY         [5]geom.Point
	ElemFlags  *ElemFlags
	Plex       *Plex
	Properties []Property
}

// StructRef places one instance of a named structure.
type StructRef struct {
	Name       string
	XY         geom.Point
	Strans     *Strans
	ElemFlags  *ElemFlags
	Plex       *Plex
	Properties []Property
}

// ArrayRef places a rectangular array of instances of a named structure.
// XY holds the array origin and the two lattice corner points.
type ArrayRef struct {
	Name       string
	XY         [3]geom.Point
	Cols       int16
	Rows       int16
	Strans     *Strans
	ElemFlags  *ElemFlags
	Plex       *Plex
	Properties []Property
}

func (Boundary) element()    {}
func (Path) element()        {}
func (TextElement) element() {}
func (Node) element()        {}
func (Box) element()         {}
func (StructRef) element()   {}
func (ArrayRef) element()    {}
