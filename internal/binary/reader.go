// Package binary provides low-level big-endian decoding for GDSII stream parsing.
package binary

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding"
)

// ErrInvalidString is returned when a string payload is not valid UTF-8
// and no legacy text encoding has been configured.
var ErrInvalidString = errors.New("string payload is not valid UTF-8")

// Reader provides methods for reading GDSII binary data. All multi-byte
// integers in the stream format are big-endian.
//
// The entire input is held in memory; every read decodes into freshly
// allocated values, so returned slices never alias the reader's buffer.
type Reader struct {
	data []byte
	pos  int64
	dec  *encoding.Decoder
}

// Config holds reader configuration.
type Config struct {
	// Encoding optionally decodes string payloads written in a legacy
	// single-byte charset (older CAD tools commonly emitted ISO 8859-1).
	// Nil means strict UTF-8 validation.
	Encoding encoding.Encoding
}

// NewReader creates a binary reader over data with the given configuration.
func NewReader(data []byte, cfg Config) *Reader {
	r := &Reader{data: data}
	if cfg.Encoding != nil {
		r.dec = cfg.Encoding.NewDecoder()
	}
	return r
}

// Pos returns the current read position.
func (r *Reader) Pos() int64 {
	return r.pos
}

// Len returns the total input length in bytes.
func (r *Reader) Len() int64 {
	return int64(len(r.data))
}

// Skip advances the position by n bytes without reading. Skipping past the
// end of the input is not itself an error; the next read fails instead.
func (r *Reader) Skip(n int64) {
	r.pos += n
}

// ReadBytes reads exactly n bytes from the current position.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	if r.pos < 0 || r.pos+int64(n) > int64(len(r.data)) {
		return nil, fmt.Errorf("reading %d bytes at offset %d: %w", n, r.pos, io.ErrUnexpectedEOF)
	}
	buf := make([]byte, n)
	copy(buf, r.data[r.pos:])
	r.pos += int64(n)
	return buf, nil
}

// ReadUint8 reads an unsigned 8-bit integer.
func (r *Reader) ReadUint8() (uint8, error) {
	buf, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadUint16 reads an unsigned 16-bit integer.
func (r *Reader) ReadUint16() (uint16, error) {
	buf, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf), nil
}

// ReadInt16s reads count signed 16-bit integers.
func (r *Reader) ReadInt16s(count int) ([]int16, error) {
	buf, err := r.ReadBytes(2 * count)
	if err != nil {
		return nil, err
	}
	vals := make([]int16, count)
	for i := range vals {
		vals[i] = int16(binary.BigEndian.Uint16(buf[2*i:]))
	}
	return vals, nil
}

// ReadInt32s reads count signed 32-bit integers.
func (r *Reader) ReadInt32s(count int) ([]int32, error) {
	buf, err := r.ReadBytes(4 * count)
	if err != nil {
		return nil, err
	}
	vals := make([]int32, count)
	for i := range vals {
		vals[i] = int32(binary.BigEndian.Uint32(buf[4*i:]))
	}
	return vals, nil
}

// ReadFloat64s reads count 8-byte reals. The stream format uses its own
// excess-64 representation rather than IEEE 754; see DecodeFloat64.
func (r *Reader) ReadFloat64s(count int) ([]float64, error) {
	buf, err := r.ReadBytes(8 * count)
	if err != nil {
		return nil, err
	}
	vals := make([]float64, count)
	for i := range vals {
		vals[i] = DecodeFloat64(binary.BigEndian.Uint64(buf[8*i:]))
	}
	return vals, nil
}

// ReadString reads n raw bytes and decodes them as a GDSII string.
// Odd-length strings are padded on the wire with a trailing NUL, which is
// stripped; at most one NUL is removed so embedded padding never truncates
// real content.
func (r *Reader) ReadString(n int) (string, error) {
	raw, err := r.ReadBytes(n)
	if err != nil {
		return "", err
	}
	if len(raw) > 0 && raw[len(raw)-1] == 0x00 {
		raw = raw[:len(raw)-1]
	}
	if r.dec != nil {
		decoded, err := r.dec.Bytes(raw)
		if err != nil {
			return "", fmt.Errorf("decoding string at offset %d: %w", r.pos-int64(n), err)
		}
		return string(decoded), nil
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("at offset %d: %w", r.pos-int64(n), ErrInvalidString)
	}
	return string(raw), nil
}
