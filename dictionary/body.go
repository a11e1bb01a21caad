package dictionary

import (
	"fmt"

	"github.com/velfel-krunoslav/DataCompression/utils/bits"
)

// Mode is the tag of a serialized node body.
type Mode uint8

const (
	// Dense writes one index slot for every byte value, 0 for absent children.
	Dense Mode = 0
	// Sparse writes (byte, index) pairs terminated by a (0, 0) pair.
	Sparse Mode = 1
)

func (m Mode) String() string {
	switch m {
	case Dense:
		return "dense"
	case Sparse:
		return "sparse"
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// Edge is one child entry of a node body.
type Edge struct {
	Key   byte
	Index uint32
}

// Body is the serialized form of a node's children, edges in ascending key order.
type Body struct {
	Mode  Mode
	Edges []Edge
}

// newBody picks the smaller encoding: sparse once more than half of the
// 256 slots would be empty.
func newBody(edges []Edge) Body {
	mode := Dense
	if maxNodeChildren-len(edges) > maxNodeChildren/2 {
		mode = Sparse
	}
	return Body{Mode: mode, Edges: edges}
}

// BitLen returns the encoded size of the body including its flag bit.
func (b Body) BitLen(width int) int {
	if b.Mode == Dense {
		return 1 + maxNodeChildren*width
	}
	return 1 + (2*len(b.Edges)+2)*width
}

func (b Body) write(w *bits.Writer, width int) {
	w.Write(1, uint64(b.Mode))

	switch b.Mode {
	case Dense:
		next := 0
		for slot := 0; slot < maxNodeChildren; slot++ {
			var idx uint32
			if next < len(b.Edges) && int(b.Edges[next].Key) == slot {
				idx = b.Edges[next].Index
				next++
			}
			w.Write(width, uint64(idx))
		}
	case Sparse:
		for _, e := range b.Edges {
			w.Write(width, uint64(e.Key))
			w.Write(width, uint64(e.Index))
		}
		w.Write(width, 0)
		w.Write(width, 0)
	}
}

func readBody(r *bits.Reader, width int) (Body, error) {
	flag, err := r.Read(1)
	if err != nil {
		return Body{}, err
	}

	b := Body{Mode: Mode(flag)}
	switch b.Mode {
	case Dense:
		for slot := 0; slot < maxNodeChildren; slot++ {
			idx, err := r.Read(width)
			if err != nil {
				return Body{}, err
			}
			if idx != 0 {
				b.Edges = append(b.Edges, Edge{Key: byte(slot), Index: uint32(idx)})
			}
		}
	case Sparse:
		for prev := -1; ; {
			key, err := r.Read(width)
			if err != nil {
				return Body{}, err
			}
			idx, err := r.Read(width)
			if err != nil {
				return Body{}, err
			}
			if idx == 0 {
				if key != 0 {
					return Body{}, fmt.Errorf("%w: sentinel with key %d", ErrCorruptedHeader, key)
				}
				break
			}
			if key >= maxNodeChildren || int(key) <= prev {
				return Body{}, fmt.Errorf("%w: sparse key %d after %d", ErrCorruptedHeader, key, prev)
			}
			prev = int(key)
			b.Edges = append(b.Edges, Edge{Key: byte(key), Index: uint32(idx)})
		}
	}
	return b, nil
}
