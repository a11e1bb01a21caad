package codec

import (
	"fmt"

	"github.com/c2h5oh/datasize"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/velfel-krunoslav/DataCompression/dictionary"
	"github.com/velfel-krunoslav/DataCompression/utils/bits"
)

// DecodeStats summarises a decode run.
type DecodeStats struct {
	Codes       uint64
	Entries     uint32
	OutputBytes int
	CacheHits   uint64
}

// Decoder restores data produced by an Encoder. A Decoder may be reused for
// several inputs but not concurrently.
type Decoder struct {
	cacheSize int
	log       logrus.FieldLogger
	stats     DecodeStats
}

// NewDecoder creates a decoder. WithMaxSize is ignored: the dictionary is
// always taken from the input.
func NewDecoder(opts ...Option) (*Decoder, error) {
	cfg := newConfig(opts)
	if cfg.CacheSize < 0 {
		return nil, fmt.Errorf("negative cache size %d", cfg.CacheSize)
	}
	return &Decoder{
		cacheSize: cfg.CacheSize,
		log:       cfg.Logger.WithField("component", "decoder"),
	}, nil
}

// Decode restores the original bytes from raw.
func (d *Decoder) Decode(raw []byte) ([]byte, error) {
	d.stats = DecodeStats{}

	c, err := unmarshalContainer(raw)
	if err != nil {
		return nil, err
	}
	dict, err := dictionary.Rebuild(c.tree, c.width)
	if err != nil {
		return nil, fmt.Errorf("rebuild dictionary: %w", err)
	}
	d.stats.Entries = dict.Count()

	var cache *lru.Cache[uint32, []byte]
	if d.cacheSize > 0 {
		if cache, err = lru.New[uint32, []byte](d.cacheSize); err != nil {
			return nil, err
		}
	}

	width := int(c.width)
	r := bits.NewReader(&bits.Array{Bytes: c.stream})
	out := make([]byte, 0, 2*len(c.stream))

	for r.NonReadBits() >= width {
		v, err := r.Read(width)
		if err != nil {
			return nil, err
		}
		index := uint32(v)
		if index == 0 || index > dict.Count() {
			return nil, fmt.Errorf("%w: code %d at position %d, dictionary has %d entries", ErrCorruptedStream, index, d.stats.Codes, dict.Count())
		}
		d.stats.Codes++

		if cache != nil {
			if seq, ok := cache.Get(index); ok {
				d.stats.CacheHits++
				out = append(out, seq...)
				continue
			}
		}
		start := len(out)
		if out, err = dict.Expand(index, out); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptedStream, err)
		}
		if cache != nil && len(out)-start > 1 {
			cache.Add(index, append([]byte(nil), out[start:]...))
		}
	}

	// padding: fewer than 8 bits, all zero
	if r.NonReadBits() >= 8 {
		return nil, fmt.Errorf("%w: %d trailing bits", ErrCorruptedStream, r.NonReadBits())
	}
	if tail, _ := r.Read(r.NonReadBits()); tail != 0 {
		return nil, fmt.Errorf("%w: non-zero padding", ErrCorruptedStream)
	}

	d.stats.OutputBytes = len(out)
	d.log.WithFields(logrus.Fields{
		"input":     datasize.ByteSize(len(raw)).HumanReadable(),
		"output":    datasize.ByteSize(len(out)).HumanReadable(),
		"codes":     d.stats.Codes,
		"entries":   d.stats.Entries,
		"cacheHits": d.stats.CacheHits,
	}).Debug("Decoded")

	return out, nil
}

// Stats returns counters of the last Decode call.
func (d *Decoder) Stats() DecodeStats { return d.stats }

// Decode restores data in one call.
func Decode(raw []byte, opts ...Option) ([]byte, error) {
	d, err := NewDecoder(opts...)
	if err != nil {
		return nil, err
	}
	return d.Decode(raw)
}
