package gdsii

import (
	"fmt"
	"time"

	"github.com/robert-malhotra/go-gdsii/gdsii/record"
	"github.com/robert-malhotra/go-gdsii/geom"
)

// parser drives the record-level grammar, building the typed library tree.
// It keeps a one-record lookahead in peek and a context stack recording
// where in the hierarchy it currently is, purely for diagnostics.
type parser struct {
	rd      *record.Reader
	peek    record.Record
	numRead int
	ctx     []Context
}

// newParser positions a parser over data with the first record decoded
// into the lookahead.
func newParser(data []byte, cfg record.Config) (*parser, error) {
	rd := record.NewReader(data, cfg)
	rec, err := rd.Read()
	if err != nil {
		return nil, err
	}
	return &parser{rd: rd, peek: rec, numRead: 1}, nil
}

// next returns the peeked record and decodes the following one into the
// lookahead. Once ENDLIB has been peeked it keeps returning ENDLIB
// without reading further.
func (p *parser) next() (record.Record, error) {
	rec := p.peek
	if rec.Type() == record.TypeEndLib {
		return rec, nil
	}
	nxt, err := p.rd.Read()
	if err != nil {
		return nil, err
	}
	p.peek = nxt
	p.numRead++
	return rec, nil
}

func (p *parser) pushCtx(c Context) {
	p.ctx = append(p.ctx, c)
}

func (p *parser) popCtx() {
	p.ctx = p.ctx[:len(p.ctx)-1]
}

// err builds a ParseError carrying rec and the parser's current state. The
// context stack is copied since it keeps mutating as the parse unwinds.
func (p *parser) err(rec record.Record, msg string) error {
	return &ParseError{
		Msg:       msg,
		Record:    rec,
		RecordNum: p.numRead,
		BytePos:   p.rd.Pos(),
		Context:   append([]Context(nil), p.ctx...),
	}
}

func (p *parser) errf(rec record.Record, format string, args ...any) error {
	return p.err(rec, fmt.Sprintf(format, args...))
}

// invalid reports rec as out of place at the current grammar position.
func (p *parser) invalid(rec record.Record) error {
	return p.err(rec, "invalid GDS record")
}

// parseLibrary drives the top-level grammar: HEADER and BGNLIB are
// mandatory and ordered; LIBNAME, UNITS, and structure definitions follow
// in any order until ENDLIB, where the required library fields are
// checked.
func (p *parser) parseLibrary() (*Library, error) {
	p.pushCtx(ContextLibrary)
	defer p.popCtx()

	lib := &Library{}
	var haveName, haveUnits bool

	rec, err := p.next()
	if err != nil {
		return nil, err
	}
	v, ok := rec.(record.Version)
	if !ok {
		return nil, p.err(rec, "invalid library: missing HEADER record")
	}
	lib.Version = v.Version

	rec, err = p.next()
	if err != nil {
		return nil, err
	}
	b, ok := rec.(record.BgnLib)
	if !ok {
		return nil, p.err(rec, "invalid library: missing BGNLIB record")
	}
	lib.Dates, err = p.parseDates(rec, b.Dates)
	if err != nil {
		return nil, err
	}

	for {
		rec, err := p.next()
		if err != nil {
			return nil, err
		}
		switch r := rec.(type) {
		case record.EndLib:
			if !haveName {
				return nil, p.err(rec, "invalid library: missing LIBNAME record")
			}
			if !haveUnits {
				return nil, p.err(rec, "invalid library: missing UNITS record")
			}
			return lib, nil
		case record.LibName:
			lib.Name = r.Name
			haveName = true
		case record.Units:
			lib.Units = Units{UserUnits: r.UserUnits, Meters: r.Meters}
			haveUnits = true
		case record.BgnStruct:
			s, err := p.parseStruct(r)
			if err != nil {
				return nil, err
			}
			lib.Structs = append(lib.Structs, s)
		case record.RefLibs, record.Fonts, record.AttrTable, record.Generations,
			record.Format, record.LibDirSize, record.SrfName, record.LibSecur:
			return nil, &UnsupportedError{Record: rec, Context: ContextLibrary}
		default:
			return nil, p.invalid(rec)
		}
	}
}

// parseStruct parses one structure definition, entered just after its
// BGNSTR record b.
func (p *parser) parseStruct(b record.BgnStruct) (*Struct, error) {
	p.pushCtx(ContextStruct)
	defer p.popCtx()

	s := &Struct{}
	dates, err := p.parseDates(b, b.Dates)
	if err != nil {
		return nil, err
	}
	s.Dates = dates

	rec, err := p.next()
	if err != nil {
		return nil, err
	}
	sn, ok := rec.(record.StructName)
	if !ok {
		return nil, p.err(rec, "invalid structure: missing STRNAME record")
	}
	s.Name = sn.Name

	for {
		rec, err := p.next()
		if err != nil {
			return nil, err
		}
		switch rec.(type) {
		case record.EndStruct:
			return s, nil
		case record.Boundary:
			e, err := p.parseBoundary()
			if err != nil {
				return nil, err
			}
			s.Elements = append(s.Elements, e)
		case record.Path:
			e, err := p.parsePath()
			if err != nil {
				return nil, err
			}
			s.Elements = append(s.Elements, e)
		case record.Text:
			e, err := p.parseText()
			if err != nil {
				return nil, err
			}
			s.Elements = append(s.Elements, e)
		case record.Node:
			e, err := p.parseNode()
			if err != nil {
				return nil, err
			}
			s.Elements = append(s.Elements, e)
		case record.Box:
			e, err := p.parseBox()
			if err != nil {
				return nil, err
			}
			s.Elements = append(s.Elements, e)
		case record.StructRef:
			e, err := p.parseStructRef()
			if err != nil {
				return nil, err
			}
			s.Elements = append(s.Elements, e)
		case record.ArrayRef:
			e, err := p.parseArrayRef()
			if err != nil {
				return nil, err
			}
			s.Elements = append(s.Elements, e)
		default:
			return nil, p.invalid(rec)
		}
	}
}

// parseBoundary parses a boundary body, entered just after its BOUNDARY
// marker.
func (p *parser) parseBoundary() (Boundary, error) {
	var e Boundary
	var haveLayer, haveDataType, haveXY bool

	for {
		rec, err := p.next()
		if err != nil {
			return Boundary{}, err
		}
		switch r := rec.(type) {
		case record.EndElement:
			if !haveLayer {
				return Boundary{}, p.err(rec, "invalid boundary: missing LAYER record")
			}
			if !haveDataType {
				return Boundary{}, p.err(rec, "invalid boundary: missing DATATYPE record")
			}
			if !haveXY {
				return Boundary{}, p.err(rec, "invalid boundary: missing XY record")
			}
			return e, nil
		case record.Layer:
			e.Layer = r.Value
			haveLayer = true
		case record.DataType:
			e.DataType = r.Value
			haveDataType = true
		case record.Xy:
			pts, err := geom.ParsePoints(r.Coords)
			if err != nil {
				return Boundary{}, p.errf(rec, "invalid XY coordinates: %v", err)
			}
			e.XY = pts
			haveXY = true
		case record.Plex:
			plex := Plex(r.Value)
			e.Plex = &plex
		case record.ElemFlags:
			flags := ElemFlags(r.Bits)
			e.ElemFlags = &flags
		case record.PropAttr:
			prop, err := p.parseProperty(r.Attr)
			if err != nil {
				return Boundary{}, err
			}
			e.Properties = append(e.Properties, prop)
		default:
			return Boundary{}, p.invalid(rec)
		}
	}
}

// parsePath parses a path body, entered just after its PATH marker.
func (p *parser) parsePath() (Path, error) {
	p.pushCtx(ContextPath)
	defer p.popCtx()

	var e Path
	var haveLayer, haveDataType, haveXY bool

	for {
		rec, err := p.next()
		if err != nil {
			return Path{}, err
		}
		switch r := rec.(type) {
		case record.EndElement:
			if !haveLayer {
				return Path{}, p.err(rec, "invalid path: missing LAYER record")
			}
			if !haveDataType {
				return Path{}, p.err(rec, "invalid path: missing DATATYPE record")
			}
			if !haveXY {
				return Path{}, p.err(rec, "invalid path: missing XY record")
			}
			return e, nil
		case record.Layer:
			e.Layer = r.Value
			haveLayer = true
		case record.DataType:
			e.DataType = r.Value
			haveDataType = true
		case record.Xy:
			pts, err := geom.ParsePoints(r.Coords)
			if err != nil {
				return Path{}, p.errf(rec, "invalid XY coordinates: %v", err)
			}
			e.XY = pts
			haveXY = true
		case record.Width:
			w := r.Value
			e.Width = &w
		case record.PathType:
			pt := r.Value
			e.PathType = &pt
		case record.BeginExtn:
			v := r.Value
			e.BeginExtn = &v
		case record.EndExtn:
			v := r.Value
			e.EndExtn = &v
		case record.Plex:
			plex := Plex(r.Value)
			e.Plex = &plex
		case record.ElemFlags:
			flags := ElemFlags(r.Bits)
			e.ElemFlags = &flags
		case record.PropAttr:
			prop, err := p.parseProperty(r.Attr)
			if err != nil {
				return Path{}, err
			}
			e.Properties = append(e.Properties, prop)
		default:
			return Path{}, p.invalid(rec)
		}
	}
}

// parseText parses a text body, entered just after its TEXT marker.
func (p *parser) parseText() (TextElement, error) {
	p.pushCtx(ContextText)
	defer p.popCtx()

	var e TextElement
	var haveLayer, haveTextType, haveXY, haveString bool

	for {
		rec, err := p.next()
		if err != nil {
			return TextElement{}, err
		}
		switch r := rec.(type) {
		case record.EndElement:
			if !haveLayer {
				return TextElement{}, p.err(rec, "invalid text: missing LAYER record")
			}
			if !haveTextType {
				return TextElement{}, p.err(rec, "invalid text: missing TEXTTYPE record")
			}
			if !haveXY {
				return TextElement{}, p.err(rec, "invalid text: missing XY record")
			}
			if !haveString {
				return TextElement{}, p.err(rec, "invalid text: missing STRING record")
			}
			return e, nil
		case record.Layer:
			e.Layer = r.Value
			haveLayer = true
		case record.TextType:
			e.TextType = r.Value
			haveTextType = true
		case record.Xy:
			pt, err := geom.ParsePoint(r.Coords)
			if err != nil {
				return TextElement{}, p.errf(rec, "invalid XY for text: %v", err)
			}
			e.XY = pt
			haveXY = true
		case record.String:
			e.Text = r.Value
			haveString = true
		case record.Presentation:
			pres := Presentation(r.Bits)
			e.Presentation = &pres
		case record.PathType:
			pt := r.Value
			e.PathType = &pt
		case record.Width:
			w := r.Value
			e.Width = &w
		case record.Strans:
			st, err := p.parseStrans(r)
			if err != nil {
				return TextElement{}, err
			}
			e.Strans = &st
		case record.Plex:
			plex := Plex(r.Value)
			e.Plex = &plex
		case record.ElemFlags:
			flags := ElemFlags(r.Bits)
			e.ElemFlags = &flags
		case record.PropAttr:
			prop, err := p.parseProperty(r.Attr)
			if err != nil {
				return TextElement{}, err
			}
			e.Properties = append(e.Properties, prop)
		default:
			return TextElement{}, p.invalid(rec)
		}
	}
}

// parseNode parses a node body, entered just after its NODE marker.
func (p *parser) parseNode() (Node, error) {
	p.pushCtx(ContextNode)
	defer p.popCtx()

	var e Node
	var haveLayer, haveNodeType, haveXY bool

	for {
		rec, err := p.next()
		if err != nil {
			return Node{}, err
		}
		switch r := rec.(type) {
		case record.EndElement:
			if !haveLayer {
				return Node{}, p.err(rec, "invalid node: missing LAYER record")
			}
			if !haveNodeType {
				return Node{}, p.err(rec, "invalid node: missing NODETYPE record")
			}
			if !haveXY {
				return Node{}, p.err(rec, "invalid node: missing XY record")
			}
			return e, nil
		case record.Layer:
			e.Layer = r.Value
			haveLayer = true
		case record.Nodetype:
			e.NodeType = r.Value
			haveNodeType = true
		case record.Xy:
			pts, err := geom.ParsePoints(r.Coords)
			if err != nil {
				return Node{}, p.errf(rec, "invalid XY coordinates: %v", err)
			}
			e.XY = pts
			haveXY = true
		case record.Plex:
			plex := Plex(r.Value)
			e.Plex = &plex
		case record.ElemFlags:
			flags := ElemFlags(r.Bits)
			e.ElemFlags = &flags
		case record.PropAttr:
			prop, err := p.parseProperty(r.Attr)
			if err != nil {
				return Node{}, err
			}
			e.Properties = append(e.Properties, prop)
		default:
			return Node{}, p.invalid(rec)
		}
	}
}

// parseBox parses a box body, entered just after its BOX marker.
func (p *parser) parseBox() (Box, error) {
	p.pushCtx(ContextBox)
	defer p.popCtx()

	var e Box
	var haveLayer, haveBoxType, haveXY bool

	for {
		rec, err := p.next()
		if err != nil {
			return Box{}, err
		}
		switch r := rec.(type) {
		case record.EndElement:
			if !haveLayer {
				return Box{}, p.err(rec, "invalid box: missing LAYER record")
			}
			if !haveBoxType {
				return Box{}, p.err(rec, "invalid box: missing BOXTYPE record")
			}
			if !haveXY {
				return Box{}, p.err(rec, "invalid box: missing XY record")
			}
			return e, nil
		case record.Layer:
			e.Layer = r.Value
			haveLayer = true
		case record.BoxType:
			e.BoxType = r.Value
			haveBoxType = true
		case record.Xy:
			pts, err := geom.ParsePoints(r.Coords)
			if err != nil {
				return Box{}, p.errf(rec, "invalid XY coordinates: %v", err)
			}
			if len(pts) != 5 {
				return Box{}, p.errf(rec, "invalid XY for box: expected exactly 5 points, got %d", len(pts))
			}
			copy(e.XY[:], pts)
			haveXY = true
		case record.Plex:
			plex := Plex(r.Value)
			e.Plex = &plex
		case record.ElemFlags:
			flags := ElemFlags(r.Bits)
			e.ElemFlags = &flags
		case record.PropAttr:
			prop, err := p.parseProperty(r.Attr)
			if err != nil {
				return Box{}, err
			}
			e.Properties = append(e.Properties, prop)
		default:
			return Box{}, p.invalid(rec)
		}
	}
}

// parseStructRef parses a structure reference body, entered just after
// its SREF marker.
func (p *parser) parseStructRef() (StructRef, error) {
	p.pushCtx(ContextStructRef)
	defer p.popCtx()

	var e StructRef
	var haveName, haveXY bool

	for {
		rec, err := p.next()
		if err != nil {
			return StructRef{}, err
		}
		switch r := rec.(type) {
		case record.EndElement:
			if !haveName {
				return StructRef{}, p.err(rec, "invalid structure reference: missing SNAME record")
			}
			if !haveXY {
				return StructRef{}, p.err(rec, "invalid structure reference: missing XY record")
			}
			return e, nil
		case record.StructRefName:
			e.Name = r.Name
			haveName = true
		case record.Xy:
			pt, err := geom.ParsePoint(r.Coords)
			if err != nil {
				return StructRef{}, p.errf(rec, "invalid XY for structure reference: %v", err)
			}
			e.XY = pt
			haveXY = true
		case record.Strans:
			st, err := p.parseStrans(r)
			if err != nil {
				return StructRef{}, err
			}
			e.Strans = &st
		case record.Plex:
			plex := Plex(r.Value)
			e.Plex = &plex
		case record.ElemFlags:
			flags := ElemFlags(r.Bits)
			e.ElemFlags = &flags
		case record.PropAttr:
			prop, err := p.parseProperty(r.Attr)
			if err != nil {
				return StructRef{}, err
			}
			e.Properties = append(e.Properties, prop)
		default:
			return StructRef{}, p.invalid(rec)
		}
	}
}

// parseArrayRef parses an array reference body, entered just after its
// AREF marker.
func (p *parser) parseArrayRef() (ArrayRef, error) {
	p.pushCtx(ContextArrayRef)
	defer p.popCtx()

	var e ArrayRef
	var haveName, haveXY, haveColRow bool

	for {
		rec, err := p.next()
		if err != nil {
			return ArrayRef{}, err
		}
		switch r := rec.(type) {
		case record.EndElement:
			if !haveName {
				return ArrayRef{}, p.err(rec, "invalid array reference: missing SNAME record")
			}
			if !haveXY {
				return ArrayRef{}, p.err(rec, "invalid array reference: missing XY record")
			}
			if !haveColRow {
				return ArrayRef{}, p.err(rec, "invalid array reference: missing COLROW record")
			}
			return e, nil
		case record.StructRefName:
			e.Name = r.Name
			haveName = true
		case record.ColRow:
			e.Cols = r.Cols
			e.Rows = r.Rows
			haveColRow = true
		case record.Xy:
			pts, err := geom.ParsePoints(r.Coords)
			if err != nil {
				return ArrayRef{}, p.errf(rec, "invalid XY coordinates: %v", err)
			}
			if len(pts) != 3 {
				return ArrayRef{}, p.errf(rec, "invalid XY for array reference: expected exactly 3 points, got %d", len(pts))
			}
			copy(e.XY[:], pts)
			haveXY = true
		case record.Strans:
			st, err := p.parseStrans(r)
			if err != nil {
				return ArrayRef{}, err
			}
			e.Strans = &st
		case record.Plex:
			plex := Plex(r.Value)
			e.Plex = &plex
		case record.ElemFlags:
			flags := ElemFlags(r.Bits)
			e.ElemFlags = &flags
		case record.PropAttr:
			prop, err := p.parseProperty(r.Attr)
			if err != nil {
				return ArrayRef{}, err
			}
			e.Properties = append(e.Properties, prop)
		default:
			return ArrayRef{}, p.invalid(rec)
		}
	}
}

// parseStrans decodes transform flags and opportunistically consumes the
// optional MAG and ANGLE records that may follow in either order. The
// first record of any other type ends the transform.
func (p *parser) parseStrans(r record.Strans) (Strans, error) {
	s := Strans{
		Reflected: r.Bits[0]&0x80 != 0,
		AbsMag:    r.Bits[1]&0x04 != 0,
		AbsAngle:  r.Bits[1]&0x02 != 0,
	}
	for {
		switch p.peek.(type) {
		case record.Mag:
			rec, err := p.next()
			if err != nil {
				return Strans{}, err
			}
			v := rec.(record.Mag).Value
			s.Mag = &v
		case record.Angle:
			rec, err := p.next()
			if err != nil {
				return Strans{}, err
			}
			v := rec.(record.Angle).Value
			s.Angle = &v
		default:
			return s, nil
		}
	}
}

// parseProperty completes a property pair opened by a PROPATTR record:
// the PROPVALUE carrying the value must immediately follow, with no
// record in between.
func (p *parser) parseProperty(attr int16) (Property, error) {
	p.pushCtx(ContextProperty)
	defer p.popCtx()

	rec, err := p.next()
	if err != nil {
		return Property{}, err
	}
	pv, ok := rec.(record.PropValue)
	if !ok {
		return Property{}, p.err(rec, "property attribute without PROPVALUE record")
	}
	return Property{Attr: attr, Value: pv.Value}, nil
}

// parseDates decodes the twelve calendar fields of a BGNLIB or BGNSTR
// payload into the modified and accessed timestamps.
func (p *parser) parseDates(rec record.Record, fields [12]int16) (Dates, error) {
	modified, err := parseTime(fields[0:6])
	if err != nil {
		return Dates{}, p.errf(rec, "invalid modified timestamp: %v", err)
	}
	accessed, err := parseTime(fields[6:12])
	if err != nil {
		return Dates{}, p.errf(rec, "invalid accessed timestamp: %v", err)
	}
	return Dates{Modified: modified, Accessed: accessed}, nil
}

// parseTime builds a timestamp from year, month, day, hour, minute, and
// second fields. time.Date normalizes out-of-range values (month 13 rolls
// into January), so the result is compared field by field against the
// inputs to reject invalid calendar data instead of silently shifting it.
func parseTime(f []int16) (time.Time, error) {
	ts := time.Date(int(f[0]), time.Month(f[1]), int(f[2]), int(f[3]), int(f[4]), int(f[5]), 0, time.UTC)
	if ts.Year() != int(f[0]) || ts.Month() != time.Month(f[1]) || ts.Day() != int(f[2]) ||
		ts.Hour() != int(f[3]) || ts.Minute() != int(f[4]) || ts.Second() != int(f[5]) {
		return time.Time{}, fmt.Errorf("calendar fields %v do not form a valid time", f)
	}
	return ts, nil
}
