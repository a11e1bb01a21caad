// Package dictionary implements the byte-keyed trie behind the adaptive
// dictionary codec.
//
// Nodes live in an arena owned by the Dictionary and are addressed by stable
// Handles. Every non-root node carries a unique index; the 256 single-byte
// sequences are pre-seeded with indices 1..256 and index 0 is reserved for
// the root (and for "no child" in serialized node bodies).
package dictionary

import (
	"errors"
	"fmt"
	"math/bits"
	"slices"

	"github.com/bits-and-blooms/bitset"
)

const (
	// SeedCount is the number of pre-seeded single-byte entries.
	SeedCount = 256

	// MinMaxSize is the smallest usable dictionary size.
	MinMaxSize = SeedCount

	maxNodeChildren = 256
)

var (
	ErrMaxSize         = errors.New("dictionary max size out of range")
	ErrCorruptedHeader = errors.New("corrupted dictionary header")
	ErrUnknownIndex    = errors.New("unknown dictionary index")
)

// Handle addresses a node in the arena. Handles are never reused.
type Handle uint32

// Root is the handle of the root node.
const Root Handle = 0

// node is a trie node.
//
// Children are kept popcount-compressed: childSet marks the present bytes and
// kids holds their handles in ascending byte order.
type node struct {
	index  uint32
	parent Handle
	key    byte
	depth  uint32

	childSet *bitset.BitSet // nil until the first child is attached
	kids     []Handle
}

// rank maps a present byte to its slot in kids.
func (n *node) rank(b byte) int {
	return int(n.childSet.Rank(uint(b))) - 1
}

func (n *node) has(b byte) bool {
	return n.childSet != nil && n.childSet.Test(uint(b))
}

// Dictionary holds the trie, the insertion counter and the configured size.
// It is not safe for concurrent use.
type Dictionary struct {
	nodes   []node
	byIndex []Handle // index -> handle, dense 0..count

	count   uint32
	maxSize uint32
	width   uint8
}

// BitWidth returns the field width needed to store any index up to maxSize,
// i.e. ceil(log2(maxSize+1)).
func BitWidth(maxSize uint32) uint8 {
	return uint8(bits.Len32(maxSize))
}

// New creates a dictionary pre-seeded with the 256 single-byte sequences.
func New(maxSize uint32) (*Dictionary, error) {
	if maxSize < MinMaxSize {
		return nil, fmt.Errorf("%w: %d < %d", ErrMaxSize, maxSize, MinMaxSize)
	}
	d := newSeeded(maxSize)
	return d, nil
}

func newSeeded(maxSize uint32) *Dictionary {
	d := &Dictionary{
		nodes:   make([]node, 1, SeedCount+1),
		byIndex: make([]Handle, 1, SeedCount+1),
		maxSize: maxSize,
		width:   BitWidth(maxSize),
	}
	for b := 0; b < SeedCount; b++ {
		d.count++
		h := d.attach(Root, byte(b), d.count)
		d.byIndex = append(d.byIndex, h)
	}
	return d
}

// attach appends a new node as the child b of parent. The caller guarantees
// the edge is absent.
func (d *Dictionary) attach(parent Handle, b byte, index uint32) Handle {
	h := Handle(len(d.nodes))
	d.nodes = append(d.nodes, node{
		index:  index,
		parent: parent,
		key:    b,
		depth:  d.nodes[parent].depth + 1,
	})

	p := &d.nodes[parent]
	if p.childSet == nil {
		p.childSet = bitset.New(maxNodeChildren)
	}
	p.childSet.Set(uint(b))
	p.kids = slices.Insert(p.kids, p.rank(b), h)
	return h
}

// InsertAt adds the edge b -> new node below h and assigns it the next index.
// It reports false, leaving the trie untouched, if the edge already exists
// or the dictionary is full.
func (d *Dictionary) InsertAt(h Handle, b byte) (Handle, bool) {
	n := &d.nodes[h]
	if n.has(b) || len(n.kids) == maxNodeChildren || d.Full() {
		return 0, false
	}
	d.count++
	child := d.attach(h, b, d.count)
	d.byIndex = append(d.byIndex, child)
	return child, true
}

// Lookup returns the child of h at byte b.
func (d *Dictionary) Lookup(h Handle, b byte) (Handle, bool) {
	n := &d.nodes[h]
	if !n.has(b) {
		return 0, false
	}
	return n.kids[n.rank(b)], true
}

// Full reports whether count has reached maxSize.
func (d *Dictionary) Full() bool {
	return d.count >= d.maxSize
}

// Count returns the number of assigned indices.
func (d *Dictionary) Count() uint32 { return d.count }

// MaxSize returns the configured size limit.
func (d *Dictionary) MaxSize() uint32 { return d.maxSize }

// Width returns the bit width of serialized indices.
func (d *Dictionary) Width() uint8 { return d.width }

// Index returns the index assigned to h, 0 for the root.
func (d *Dictionary) Index(h Handle) uint32 { return d.nodes[h].index }

// Depth returns the length of the byte sequence spelled by h.
func (d *Dictionary) Depth(h Handle) int { return int(d.nodes[h].depth) }

// Occupancy returns the number of children of h.
func (d *Dictionary) Occupancy(h Handle) int { return len(d.nodes[h].kids) }

// Parent returns the parent of h. The root is its own parent.
func (d *Dictionary) Parent(h Handle) Handle { return d.nodes[h].parent }

// NodeByIndex resolves an assigned index.
func (d *Dictionary) NodeByIndex(index uint32) (Handle, bool) {
	if index == 0 || index > d.count || int(index) >= len(d.byIndex) {
		return 0, false
	}
	return d.byIndex[index], true
}

// Expand appends the byte sequence represented by index to dst.
func (d *Dictionary) Expand(index uint32, dst []byte) ([]byte, error) {
	h, ok := d.NodeByIndex(index)
	if !ok {
		return dst, fmt.Errorf("%w: %d", ErrUnknownIndex, index)
	}

	n := int(d.nodes[h].depth)
	start := len(dst)
	dst = slices.Grow(dst, n)[:start+n]

	// walk up to the root, filling from the back
	for i := start + n - 1; h != Root; i-- {
		dst[i] = d.nodes[h].key
		h = d.nodes[h].parent
	}
	return dst, nil
}

// edges returns the children of h as (byte, index) pairs in ascending byte order.
func (d *Dictionary) edges(h Handle) []Edge {
	n := &d.nodes[h]
	if len(n.kids) == 0 {
		return nil
	}
	out := make([]Edge, 0, len(n.kids))
	for i, e := n.childSet.NextSet(0); e; i, e = n.childSet.NextSet(i + 1) {
		c := n.kids[len(out)]
		out = append(out, Edge{Key: byte(i), Index: d.nodes[c].index})
	}
	return out
}

// Equal reports whether both tries hold the same sequences under the same indices.
func (d *Dictionary) Equal(o *Dictionary) bool {
	if d.count != o.count {
		return false
	}

	type pair struct{ a, b Handle }
	stack := []pair{{Root, Root}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		na, nb := &d.nodes[p.a], &o.nodes[p.b]
		if na.index != nb.index || len(na.kids) != len(nb.kids) {
			return false
		}
		if len(na.kids) == 0 {
			continue
		}
		if !na.childSet.Equal(nb.childSet) {
			return false
		}
		for i := range na.kids {
			stack = append(stack, pair{na.kids[i], nb.kids[i]})
		}
	}
	return true
}
