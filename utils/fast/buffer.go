package fast

// buffer.go provides a lightweight, non-thread-safe wrapper around byte slices.
//
// Purpose:
// - Assembling and splitting the fixed container layout of a compressed file.
// - The Writer simply appends to a slice; the Reader increments an integer index.
// - Unlike a trusted in-process buffer, the Reader is fed file contents, so
//   every read is bounds checked and reports ErrOutOfBounds instead of panicking.

import (
	"encoding/binary"
	"errors"
)

// ErrOutOfBounds is returned when a read needs more bytes than remain.
var ErrOutOfBounds = errors.New("byte read out of bounds")

type Reader struct {
	// buf is the underlying data source.
	buf []byte
	// offset tracks the current reading position (cursor).
	offset int
}

type Writer struct {
	// buf is the accumulating byte slice.
	buf []byte
}

// NewReader creates a Reader to consume the provided byte slice.
func NewReader(bb []byte) *Reader {
	return &Reader{
		buf:    bb,
		offset: 0,
	}
}

// NewWriter creates a Writer that appends to the provided initial slice.
// Often called with `make([]byte, 0, capacity)` to pre-allocate memory.
func NewWriter(bb []byte) *Writer {
	return &Writer{
		buf: bb,
	}
}

// WriteByte appends a single byte to the buffer.
func (b *Writer) WriteByte(v byte) {
	b.buf = append(b.buf, v)
}

// Write appends a slice of bytes (bulk write) to the buffer.
func (b *Writer) Write(v []byte) {
	b.buf = append(b.buf, v...)
}

// WriteUint64 appends v as 8 little-endian bytes.
func (b *Writer) WriteUint64(v uint64) {
	b.buf = binary.LittleEndian.AppendUint64(b.buf, v)
}

// Read consumes and returns the next 'n' bytes from the buffer.
//
// Note: It returns a slice that *shares memory* with the original buffer.
func (b *Reader) Read(n uint64) ([]byte, error) {
	if n > uint64(b.Remaining()) {
		return nil, ErrOutOfBounds
	}
	res := b.buf[b.offset : b.offset+int(n)]
	b.offset += int(n)
	return res, nil
}

// ReadByte consumes and returns a single byte.
func (b *Reader) ReadByte() (byte, error) {
	if b.Empty() {
		return 0, ErrOutOfBounds
	}
	res := b.buf[b.offset]
	b.offset++
	return res, nil
}

// ReadUint64 consumes 8 little-endian bytes.
func (b *Reader) ReadUint64() (uint64, error) {
	raw, err := b.Read(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(raw), nil
}

// Rest consumes everything left.
func (b *Reader) Rest() []byte {
	res := b.buf[b.offset:]
	b.offset = len(b.buf)
	return res
}

// Position returns the current cursor index of the Reader.
func (b *Reader) Position() int {
	return b.offset
}

// Remaining returns the number of unread bytes.
func (b *Reader) Remaining() int {
	return len(b.buf) - b.offset
}

// Bytes returns the entire underlying buffer of the Reader.
func (b *Reader) Bytes() []byte {
	return b.buf
}

// Bytes returns the accumulated content of the Writer.
func (b *Writer) Bytes() []byte {
	return b.buf
}

// Empty checks if the Reader has reached the end of the buffer.
func (b *Reader) Empty() bool {
	return len(b.buf) == b.offset
}
