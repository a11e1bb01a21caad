package dictionary

import (
	"fmt"

	"github.com/velfel-krunoslav/DataCompression/utils/bits"
)

// Serialized trie layout, all fields Width() bits wide, MSB first:
//
//	repeat for every non-root node with children, depth-first preorder:
//	  parent_index  own_index  mode(1 bit)  body
//	zero padding to a byte boundary
//
// The root and the leaves produce no record. The root's 256 children are
// implied by the pre-seeding on both ends.

// SerializeTree encodes the whole trie.
func (d *Dictionary) SerializeTree() []byte {
	arr := &bits.Array{}
	w := bits.NewWriter(arr)
	width := int(d.width)

	// explicit stack, children pushed in reverse to pop in ascending order
	stack := make([]Handle, 0, 64)
	pushKids := func(h Handle) {
		kids := d.nodes[h].kids
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}

	pushKids(Root)
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := &d.nodes[h]
		if len(n.kids) == 0 {
			continue
		}

		w.Write(width, uint64(d.nodes[n.parent].index))
		w.Write(width, uint64(n.index))
		newBody(d.edges(h)).write(w, width)

		pushKids(h)
	}

	w.Flush()
	return arr.Bytes
}

// Rebuilder reconstructs a dictionary from a serialized trie one record at a time.
type Rebuilder struct {
	d     *Dictionary
	r     *bits.Reader
	width int

	lookup   map[uint32]Handle
	expanded map[Handle]bool
}

// NewRebuilder prepares a pre-seeded dictionary to be filled from tree.
// The width must be able to hold every pre-seeded index.
func NewRebuilder(tree []byte, width uint8) (*Rebuilder, error) {
	if width < BitWidth(MinMaxSize) || width > 32 {
		return nil, fmt.Errorf("%w: bit width %d", ErrCorruptedHeader, width)
	}

	d := newSeeded(MinMaxSize)
	d.width = width

	lookup := make(map[uint32]Handle, len(d.byIndex))
	for i, h := range d.byIndex[1:] {
		lookup[uint32(i+1)] = h
	}

	return &Rebuilder{
		d:        d,
		r:        bits.NewReader(&bits.Array{Bytes: tree}),
		width:    int(width),
		lookup:   lookup,
		expanded: make(map[Handle]bool),
	}, nil
}

// More reports whether another record can start; anything shorter than a
// record header plus flag is padding.
func (b *Rebuilder) More() bool {
	return b.r.NonReadBits() >= 2*b.width+1
}

// DeserializeStep reads one record and attaches the node's children.
// It returns the expanded node and the number of bits consumed.
func (b *Rebuilder) DeserializeStep() (Handle, int, error) {
	before := b.r.NonReadBits()

	parentIdx, err := b.r.Read(b.width)
	if err != nil {
		return 0, 0, err
	}
	ownIdx, err := b.r.Read(b.width)
	if err != nil {
		return 0, 0, err
	}

	parent := Root
	if parentIdx != 0 {
		h, ok := b.lookup[uint32(parentIdx)]
		if !ok {
			return 0, 0, fmt.Errorf("%w: parent index %d not found", ErrCorruptedHeader, parentIdx)
		}
		parent = h
	}
	own, ok := b.lookup[uint32(ownIdx)]
	if !ok || b.d.nodes[own].parent != parent {
		return 0, 0, fmt.Errorf("%w: index %d is not a child of %d", ErrCorruptedHeader, ownIdx, parentIdx)
	}
	if b.expanded[own] {
		return 0, 0, fmt.Errorf("%w: index %d expanded twice", ErrCorruptedHeader, ownIdx)
	}
	b.expanded[own] = true

	body, err := readBody(b.r, b.width)
	if err != nil {
		return 0, 0, err
	}
	for _, e := range body.Edges {
		if _, dup := b.lookup[e.Index]; dup {
			return 0, 0, fmt.Errorf("%w: duplicate index %d", ErrCorruptedHeader, e.Index)
		}
		b.lookup[e.Index] = b.d.attach(own, e.Key, e.Index)
	}

	return own, before - b.r.NonReadBits(), nil
}

// Finish checks the padding and the index set and returns the dictionary.
// The result is frozen: its max size equals its count.
func (b *Rebuilder) Finish() (*Dictionary, error) {
	if b.r.NonReadBytes() > 1 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorruptedHeader, b.r.NonReadBytes())
	}
	tail, err := b.r.Read(b.r.NonReadBits())
	if err != nil {
		return nil, err
	}
	if tail != 0 {
		return nil, fmt.Errorf("%w: non-zero padding", ErrCorruptedHeader)
	}

	// unique indices in 1..count means contiguous
	count := uint32(len(b.lookup))
	byIndex := make([]Handle, count+1)
	for idx, h := range b.lookup {
		if idx == 0 || idx > count {
			return nil, fmt.Errorf("%w: index %d outside 1..%d", ErrCorruptedHeader, idx, count)
		}
		byIndex[idx] = h
	}

	d := b.d
	d.byIndex = byIndex
	d.count = count
	d.maxSize = count
	return d, nil
}

// Rebuild reconstructs the dictionary serialized by SerializeTree.
func Rebuild(tree []byte, width uint8) (*Dictionary, error) {
	b, err := NewRebuilder(tree, width)
	if err != nil {
		return nil, err
	}
	for b.More() {
		if _, _, err := b.DeserializeStep(); err != nil {
			return nil, err
		}
	}
	return b.Finish()
}
