// Package gdsii reads GDSII stream format layout databases.
//
// A stream file is a flat sequence of typed records describing one library
// of named structures (cells), each holding geometry elements and references
// to other structures. The package offers two levels of access: Open and
// FromBytes build the full typed tree, while Scan and ScanBytes only index
// structure names and byte extents, skipping element content entirely.
// Record-level access is available through the gdsii/record package.
package gdsii

import (
	"fmt"
	"os"

	"golang.org/x/text/encoding"

	"github.com/robert-malhotra/go-gdsii/gdsii/record"
)

// Option configures stream reading options.
type Option func(*readOptions)

type readOptions struct {
	encoding encoding.Encoding
}

func defaultReadOptions() *readOptions {
	return &readOptions{}
}

// WithTextEncoding decodes string payloads with enc instead of requiring
// strict UTF-8. Streams written by older CAD tools often carry vendor
// charsets such as Latin-1.
func WithTextEncoding(enc encoding.Encoding) Option {
	return func(o *readOptions) {
		o.encoding = enc
	}
}

func applyOptions(opts []Option) *readOptions {
	options := defaultReadOptions()
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// Open reads the GDSII stream file at path and parses it into a Library.
func Open(path string, opts ...Option) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	return FromBytes(data, opts...)
}

// FromBytes parses a complete GDSII stream held in memory.
func FromBytes(data []byte, opts ...Option) (*Library, error) {
	options := applyOptions(opts)
	p, err := newParser(data, record.Config{Encoding: options.encoding})
	if err != nil {
		return nil, err
	}
	return p.parseLibrary()
}

// Scan reads the GDSII stream file at path and indexes its structures
// without decoding element content.
func Scan(path string, opts ...Option) ([]StructScan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	return ScanBytes(data, opts...)
}

// ScanBytes indexes the structures of a complete GDSII stream held in
// memory.
func ScanBytes(data []byte, opts ...Option) ([]StructScan, error) {
	options := applyOptions(opts)
	s, err := newScanner(data, record.Config{Encoding: options.encoding})
	if err != nil {
		return nil, err
	}
	return s.scanLibrary()
}
