package gdsii

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-gdsii/gdsii/record"
)

func TestLibraryStructLookup(t *testing.T) {
	lib, err := FromBytes(stream(preamble("LIB"), structDef("A"), structDef("B"), endlib()))
	require.NoError(t, err)

	s := lib.Struct("B")
	require.NotNil(t, s)
	require.Equal(t, "B", s.Name)
	require.Nil(t, lib.Struct("MISSING"))
}

func TestLibraryStats(t *testing.T) {
	path := stream(
		raw(record.TypePath, record.DTypeNoData),
		raw(record.TypeLayer, record.DTypeI16, i16be(3)...),
		raw(record.TypeDataType, record.DTypeI16, i16be(0)...),
		raw(record.TypeXy, record.DTypeI32, i32be(0, 0, 100, 0)...),
		raw(record.TypeEndElement, record.DTypeNoData),
	)
	text := stream(
		raw(record.TypeText, record.DTypeNoData),
		raw(record.TypeLayer, record.DTypeI16, i16be(63)...),
		raw(record.TypeTextType, record.DTypeI16, i16be(0)...),
		raw(record.TypeXy, record.DTypeI32, i32be(0, 0)...),
		raw(record.TypeString, record.DTypeStr, str("LBL")...),
		raw(record.TypeEndElement, record.DTypeNoData),
	)
	node := stream(
		raw(record.TypeNode, record.DTypeNoData),
		raw(record.TypeLayer, record.DTypeI16, i16be(12)...),
		raw(record.TypeNodetype, record.DTypeI16, i16be(0)...),
		raw(record.TypeXy, record.DTypeI32, i32be(0, 0)...),
		raw(record.TypeEndElement, record.DTypeNoData),
	)
	box := stream(
		raw(record.TypeBox, record.DTypeNoData),
		raw(record.TypeLayer, record.DTypeI16, i16be(2)...),
		raw(record.TypeBoxType, record.DTypeI16, i16be(0)...),
		raw(record.TypeXy, record.DTypeI32, i32be(0, 0, 1, 0, 1, 1, 0, 1, 0, 0)...),
		raw(record.TypeEndElement, record.DTypeNoData),
	)
	sref := stream(
		raw(record.TypeStructRef, record.DTypeNoData),
		raw(record.TypeStructRefName, record.DTypeStr, str("GEOM")...),
		raw(record.TypeXy, record.DTypeI32, i32be(0, 0)...),
		raw(record.TypeEndElement, record.DTypeNoData),
	)
	aref := stream(
		raw(record.TypeArrayRef, record.DTypeNoData),
		raw(record.TypeStructRefName, record.DTypeStr, str("GEOM")...),
		raw(record.TypeColRow, record.DTypeI16, i16be(2, 2)...),
		raw(record.TypeXy, record.DTypeI32, i32be(0, 0, 200, 0, 0, 200)...),
		raw(record.TypeEndElement, record.DTypeNoData),
	)

	data := stream(
		preamble("LIB"),
		structDef("GEOM",
			boundaryOn(1, 0, 0, 0, 1, 0, 1, 1, 0, 1, 0, 0),
			boundaryOn(2, 0, 0, 0, 1, 0, 1, 1, 0, 1, 0, 0),
			path, text, node, box,
		),
		structDef("TOP", sref, aref),
		endlib(),
	)

	lib, err := FromBytes(data)
	require.NoError(t, err)

	require.Equal(t, Stats{
		Structs:    2,
		Boundaries: 2,
		Paths:      1,
		Texts:      1,
		Nodes:      1,
		Boxes:      1,
		StructRefs: 1,
		ArrayRefs:  1,
	}, lib.Stats())
}
