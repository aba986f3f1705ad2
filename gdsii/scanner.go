package gdsii

import (
	"fmt"

	"github.com/robert-malhotra/go-gdsii/gdsii/record"
)

// StructScan locates one structure definition inside a stream. Start is
// the byte offset of the structure's BGNSTR record header; End is the
// offset just past its ENDSTR record, so data[Start:End] brackets the
// complete definition.
type StructScan struct {
	Name  string
	Start int64
	End   int64
}

// scanner walks record headers only, jumping over content by declared
// length, to index structure locations without decoding any geometry.
// It keeps a one-header lookahead in peek.
type scanner struct {
	rd   *record.Reader
	peek record.Header
}

// newScanner positions a scanner over data with the first header peeked.
func newScanner(data []byte, cfg record.Config) (*scanner, error) {
	rd := record.NewReader(data, cfg)
	h, err := rd.ReadHeader()
	if err != nil {
		return nil, err
	}
	return &scanner{rd: rd, peek: h}, nil
}

// next advances the lookahead to the following record header. Once ENDLIB
// has been peeked it keeps returning ENDLIB without moving the cursor.
func (s *scanner) next() (record.Header, error) {
	if s.peek.RType == record.TypeEndLib {
		return s.peek, nil
	}
	h, err := s.rd.ReadHeader()
	if err != nil {
		return record.Header{}, err
	}
	s.peek = h
	return h, nil
}

// skip jumps the cursor past the peeked record's content without decoding
// it, then advances the lookahead.
func (s *scanner) skip() error {
	s.rd.Skip(int64(s.peek.Len))
	_, err := s.next()
	return err
}

// expect fails unless the peeked record has type rt, then skips it.
func (s *scanner) expect(rt record.Type) error {
	if s.peek.RType != rt {
		return s.fail()
	}
	return s.skip()
}

// get fails unless the peeked record has type rt. It returns the header
// with the cursor still at the record's content; the caller decodes the
// content and then advances with next.
func (s *scanner) get(rt record.Type) (record.Header, error) {
	if s.peek.RType != rt {
		return record.Header{}, s.fail()
	}
	return s.peek, nil
}

func (s *scanner) fail() error {
	return fmt.Errorf("scanned invalid %s record at byte %d", s.peek.RType, s.rd.Pos())
}

// scanLibrary drives the header-level grammar: the strict
// HEADER-BGNLIB-LIBNAME-UNITS preamble, then structures until ENDLIB.
func (s *scanner) scanLibrary() ([]StructScan, error) {
	if err := s.expect(record.TypeHeader); err != nil {
		return nil, err
	}
	if err := s.expect(record.TypeBgnLib); err != nil {
		return nil, err
	}

	// The library name is decoded rather than skipped so a bad name
	// string fails here, matching the full parse.
	h, err := s.get(record.TypeLibName)
	if err != nil {
		return nil, err
	}
	if _, err := s.rd.Decode(h); err != nil {
		return nil, err
	}
	if _, err := s.next(); err != nil {
		return nil, err
	}

	if err := s.expect(record.TypeUnits); err != nil {
		return nil, err
	}

	var scans []StructScan
	for {
		switch s.peek.RType {
		case record.TypeBgnStruct:
			sc, err := s.scanStruct()
			if err != nil {
				return nil, err
			}
			scans = append(scans, sc)
		case record.TypeEndLib:
			return scans, nil
		default:
			return nil, s.fail()
		}
	}
}

// scanStruct indexes one structure, entered with its BGNSTR header peeked.
func (s *scanner) scanStruct() (StructScan, error) {
	// The cursor sits just past the 4 BGNSTR header bytes; back up over
	// them so Start points at the record itself.
	start := s.rd.Pos() - 4
	if err := s.skip(); err != nil {
		return StructScan{}, err
	}

	h, err := s.get(record.TypeStructName)
	if err != nil {
		return StructScan{}, err
	}
	rec, err := s.rd.Decode(h)
	if err != nil {
		return StructScan{}, err
	}
	name := rec.(record.StructName).Name
	if _, err := s.next(); err != nil {
		return StructScan{}, err
	}

	for {
		switch s.peek.RType {
		case record.TypeEndStruct:
			end := s.rd.Pos()
			if err := s.skip(); err != nil {
				return StructScan{}, err
			}
			return StructScan{Name: name, Start: start, End: end}, nil
		case record.TypeEndLib:
			// A structure body may not run into the end of the library.
			return StructScan{}, s.fail()
		default:
			if err := s.skip(); err != nil {
				return StructScan{}, err
			}
		}
	}
}
