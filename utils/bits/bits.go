package bits

// This package implements a low-level "Bit Stream" Reader and Writer.
// Fields of arbitrary width are packed most-significant-bit first, both inside
// each output byte and inside the field itself, without regard to byte
// alignment.
//
// Use Case:
// - Packing dictionary indices whose width is not a multiple of 8.
// - Writing the 1-bit node mode flags of a serialized trie.

import "errors"

// ErrOutOfBounds is returned when a read would consume bits past the end of
// the underlying buffer.
var ErrOutOfBounds = errors.New("bit read out of bounds")

type (
	// Array is a container for the underlying byte slice that holds the bitstream.
	Array struct {
		Bytes []byte
	}

	// Writer packs fields into an Array.
	// Completed bytes are appended to Bytes; the partial byte lives in acc
	// until it fills up or Flush is called.
	Writer struct {
		*Array
		acc   byte // pending bits, aligned to the MSB
		valid int  // 0-7: number of pending bits in acc
	}

	// Reader extracts fields from an Array.
	// It tracks position both by byte index and bit offset within that byte.
	Reader struct {
		*Array
		byteOffset int // Index of the current byte in Bytes
		bitOffset  int // 0-7: Index of the next bit to read in Bytes[byteOffset], counted from the MSB
	}
)

// NewWriter creates a new bitstream writer pointing to the given array.
func NewWriter(arr *Array) *Writer {
	return &Writer{
		Array: arr,
	}
}

// NewReader creates a new bitstream reader pointing to the given array.
func NewReader(arr *Array) *Reader {
	return &Reader{
		Array: arr,
	}
}

// byteBitsFree calculates how many bits are left in the accumulator.
func (a *Writer) byteBitsFree() int {
	return 8 - a.valid
}

// Write appends the lowest 'bits' of 'v' to the stream, MSB first.
// Bits of v above 'bits' are ignored. Example: Write(3, 5) -> '101'.
func (a *Writer) Write(bits int, v uint64) {
	for bits > 0 {
		free := a.byteBitsFree()
		take := min(free, bits)

		// Top 'take' bits of the remaining field.
		chunk := byte((v >> (bits - take)) & (1<<take - 1))
		a.acc |= chunk << (free - take)
		a.valid += take
		bits -= take

		if a.valid == 8 {
			a.Bytes = append(a.Bytes, a.acc)
			a.acc = 0
			a.valid = 0
		}
	}
}

// Flush appends the pending partial byte, zero padding its low bits.
// It is a no-op when the stream is byte aligned.
func (a *Writer) Flush() {
	if a.valid == 0 {
		return
	}
	a.Bytes = append(a.Bytes, a.acc)
	a.acc = 0
	a.valid = 0
}

// BitsWritten returns the number of bits written so far, pending ones included.
func (a *Writer) BitsWritten() int {
	return len(a.Bytes)*8 + a.valid
}

// byteBitsFree returns how many unread bits remain in the current byte being read.
func (a *Reader) byteBitsFree() int {
	return 8 - a.bitOffset
}

// Read extracts 'bits' (0..64) from the stream and advances the cursor.
// If fewer bits remain, ErrOutOfBounds is returned and the cursor stays put.
func (a *Reader) Read(bits int) (v uint64, err error) {
	if bits == 0 {
		return 0, nil
	}
	if bits < 0 || bits > 64 || bits > a.NonReadBits() {
		return 0, ErrOutOfBounds
	}

	for bits > 0 {
		free := a.byteBitsFree()
		take := min(free, bits)

		cur := uint64(a.Bytes[a.byteOffset])
		v = v<<take | (cur>>(free-take))&(1<<take-1)

		a.bitOffset += take
		if a.bitOffset == 8 {
			a.bitOffset = 0
			a.byteOffset++
		}
		bits -= take
	}
	return v, nil
}

// View allows "peeking" at the next 'bits' without advancing the cursor state.
func (a *Reader) View(bits int) (uint64, error) {
	cp := *a
	return cp.Read(bits)
}

// NonReadBytes returns the number of bytes not yet fully consumed.
func (a *Reader) NonReadBytes() int {
	return len(a.Bytes) - a.byteOffset
}

// NonReadBits calculates the total number of individual unread bits remaining.
func (a *Reader) NonReadBits() int {
	return a.NonReadBytes()*8 - a.bitOffset
}
