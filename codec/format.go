package codec

import (
	"errors"
	"fmt"

	"github.com/velfel-krunoslav/DataCompression/dictionary"
	"github.com/velfel-krunoslav/DataCompression/utils/bits"
	"github.com/velfel-krunoslav/DataCompression/utils/fast"
)

var (
	ErrCorruptedHeader    = dictionary.ErrCorruptedHeader
	ErrBitReadOutOfBounds = bits.ErrOutOfBounds
	ErrCorruptedStream    = errors.New("corrupted code stream")
	ErrBitWidth           = errors.New("invalid bit width")
	ErrFinished           = errors.New("encoder already finished")
)

const maxBitWidth = 32

// container is the on-disk layout:
//
//	[8]  tree section length, uint64 little-endian
//	[n]  serialized trie
//	[1]  bit width
//	[..] code stream
type container struct {
	tree   []byte
	width  uint8
	stream []byte
}

func (c container) marshal() []byte {
	w := fast.NewWriter(make([]byte, 0, 8+len(c.tree)+1+len(c.stream)))
	w.WriteUint64(uint64(len(c.tree)))
	w.Write(c.tree)
	w.WriteByte(c.width)
	w.Write(c.stream)
	return w.Bytes()
}

// unmarshalContainer splits raw into its sections. The returned slices share
// memory with raw.
func unmarshalContainer(raw []byte) (c container, err error) {
	r := fast.NewReader(raw)

	n, err := r.ReadUint64()
	if err != nil {
		return c, fmt.Errorf("read tree length: %w: %w", ErrBitReadOutOfBounds, err)
	}
	if c.tree, err = r.Read(n); err != nil {
		return c, fmt.Errorf("read tree section of %d bytes at offset %d: %w: %w", n, r.Position(), ErrBitReadOutOfBounds, err)
	}
	if c.width, err = r.ReadByte(); err != nil {
		return c, fmt.Errorf("read bit width at offset %d: %w: %w", r.Position(), ErrBitReadOutOfBounds, err)
	}
	if c.width < dictionary.BitWidth(dictionary.MinMaxSize) || c.width > maxBitWidth {
		return c, fmt.Errorf("%w: %w %d", ErrCorruptedHeader, ErrBitWidth, c.width)
	}
	c.stream = r.Rest()
	return c, nil
}
