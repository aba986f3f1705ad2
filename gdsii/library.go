package gdsii

import "time"

// Library is the top-level container a stream file decodes into. Structs
// preserves declaration order.
type Library struct {
	Version int16
	Name    string
	Dates   Dates
	Units   Units
	Structs []*Struct
}

// Struct is a named, reusable cell definition containing elements in
// encounter order.
type Struct struct {
	Name     string
	Dates    Dates
	Elements []Element
}

// Dates are the modified and accessed timestamps carried by BGNLIB and
// BGNSTR records.
type Dates struct {
	Modified time.Time
	Accessed time.Time
}

// Units are the library scale factors: the size of one database unit in
// user units and in meters. A micron-gridded nanometer database stores
// 1e-3 and 1e-9.
type Units struct {
	UserUnits float64
	Meters    float64
}

// Struct returns the structure named name, or nil when the library does
// not define it.
func (l *Library) Struct(name string) *Struct {
	for _, s := range l.Structs {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Stats summarizes a library's contents by element kind.
type Stats struct {
	Structs    int
	Boundaries int
	Paths      int
	Texts      int
	Nodes      int
	Boxes      int
	StructRefs int
	ArrayRefs  int
}

// Stats counts the library's structures and their elements by kind.
func (l *Library) Stats() Stats {
	st := Stats{Structs: len(l.Structs)}
	for _, s := range l.Structs {
		for _, e := range s.Elements {
			switch e.(type) {
			case Boundary:
				st.Boundaries++
			case Path:
				st.Paths++
			case TextElement:
				st.Texts++
			case Node:
				st.Nodes++
			case Box:
				st.Boxes++
			case StructRef:
				st.StructRefs++
			case ArrayRef:
				st.ArrayRefs++
			}
		}
	}
	return st
}
