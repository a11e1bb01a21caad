// Package codec implements the adaptive dictionary byte codec.
//
// The Encoder walks input bytes through a growing dictionary trie and emits
// fixed-width indices; when it finishes, the complete trie is serialized in
// front of the code stream so the Decoder can rebuild it verbatim instead of
// replaying insertions.
package codec

import (
	"io"

	"github.com/c2h5oh/datasize"
	"github.com/sirupsen/logrus"

	"github.com/velfel-krunoslav/DataCompression/dictionary"
	"github.com/velfel-krunoslav/DataCompression/utils/bits"
)

// EncodeStats summarises an encode run.
type EncodeStats struct {
	InputBytes  uint64
	Codes       uint64
	Entries     uint32
	TreeBytes   int
	StreamBytes int
	Frozen      bool // dictionary reached its max size
}

// Encoder compresses bytes written to it. It is not safe for concurrent use.
type Encoder struct {
	dict  *dictionary.Dictionary
	codes *bits.Writer
	width int
	log   logrus.FieldLogger

	// cursor
	prev, cur dictionary.Handle
	last      byte

	stats    EncodeStats
	finished bool
}

// NewEncoder creates an encoder with a fresh dictionary.
func NewEncoder(opts ...Option) (*Encoder, error) {
	cfg := newConfig(opts)

	dict, err := dictionary.New(cfg.MaxSize)
	if err != nil {
		return nil, err
	}

	return &Encoder{
		dict:  dict,
		codes: bits.NewWriter(&bits.Array{}),
		width: int(dict.Width()),
		log:   cfg.Logger.WithField("component", "encoder"),
		prev:  dictionary.Root,
		cur:   dictionary.Root,
	}, nil
}

// Write feeds p to the encoder. It never fails before Finish.
func (e *Encoder) Write(p []byte) (int, error) {
	if e.finished {
		return 0, ErrFinished
	}
	for _, b := range p {
		e.step(b)
	}
	e.stats.InputBytes += uint64(len(p))
	return len(p), nil
}

func (e *Encoder) step(b byte) {
	// extend the match
	if next, ok := e.dict.Lookup(e.cur, b); ok {
		e.prev, e.cur, e.last = e.cur, next, b
		return
	}

	// new sequence: the new node spells cur followed by b
	if child, ok := e.dict.InsertAt(e.cur, b); ok {
		e.emit(child)
		e.reset()
		return
	}

	// dictionary full
	if !e.stats.Frozen {
		e.stats.Frozen = true
		e.log.WithFields(logrus.Fields{
			"entries": e.dict.Count(),
			"offset":  e.stats.InputBytes,
		}).Debug("Dictionary full, continuing with frozen entries")
	}
	if e.cur != dictionary.Root {
		e.emit(e.cur)
	}
	seed, _ := e.dict.Lookup(dictionary.Root, b)
	e.emit(seed)
	e.reset()
}

func (e *Encoder) emit(h dictionary.Handle) {
	e.codes.Write(e.width, uint64(e.dict.Index(h)))
	e.stats.Codes++
}

func (e *Encoder) reset() {
	e.prev, e.cur, e.last = dictionary.Root, dictionary.Root, 0
}

// Finish flushes the pending match and returns the complete encoded output.
// The encoder accepts no more input afterwards.
func (e *Encoder) Finish() ([]byte, error) {
	if e.finished {
		return nil, ErrFinished
	}
	e.finished = true

	if e.prev != e.cur {
		e.emit(e.cur)
		e.reset()
	}
	e.codes.Flush()

	c := container{
		tree:   e.dict.SerializeTree(),
		width:  e.dict.Width(),
		stream: e.codes.Bytes,
	}
	out := c.marshal()

	e.stats.Entries = e.dict.Count()
	e.stats.TreeBytes = len(c.tree)
	e.stats.StreamBytes = len(c.stream)

	e.log.WithFields(logrus.Fields{
		"input":   datasize.ByteSize(e.stats.InputBytes).HumanReadable(),
		"output":  datasize.ByteSize(len(out)).HumanReadable(),
		"tree":    datasize.ByteSize(len(c.tree)).HumanReadable(),
		"codes":   e.stats.Codes,
		"entries": e.stats.Entries,
		"width":   c.width,
	}).Debug("Encoded")

	return out, nil
}

// WriteTo finishes the encoder and writes the encoded output to w.
func (e *Encoder) WriteTo(w io.Writer) (int64, error) {
	out, err := e.Finish()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(out)
	if err == nil && n != len(out) {
		err = io.ErrShortWrite
	}
	return int64(n), err
}

// Dictionary exposes the encoder's trie, mainly for inspection.
func (e *Encoder) Dictionary() *dictionary.Dictionary { return e.dict }

// Stats returns the counters collected so far.
func (e *Encoder) Stats() EncodeStats { return e.stats }

// Encode compresses data in one call.
func Encode(data []byte, opts ...Option) ([]byte, error) {
	e, err := NewEncoder(opts...)
	if err != nil {
		return nil, err
	}
	if _, err := e.Write(data); err != nil {
		return nil, err
	}
	return e.Finish()
}
