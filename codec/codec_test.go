package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/rand"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velfel-krunoslav/DataCompression/dictionary"
	"github.com/velfel-krunoslav/DataCompression/utils/bits"
)

// codesOf extracts the code stream of an encoded container.
func codesOf(t *testing.T, raw []byte) []uint32 {
	t.Helper()
	c, err := unmarshalContainer(raw)
	require.NoError(t, err)

	r := bits.NewReader(&bits.Array{Bytes: c.stream})
	var codes []uint32
	for r.NonReadBits() >= int(c.width) {
		v, err := r.Read(int(c.width))
		require.NoError(t, err)
		codes = append(codes, uint32(v))
	}
	return codes
}

func genInputs(r *rand.Rand) map[string][]byte {
	random := make([]byte, 1+r.Intn(1<<15))
	r.Read(random)

	narrow := make([]byte, 1+r.Intn(1<<15))
	for i := range narrow {
		narrow[i] = 'a' + byte(r.Intn(4))
	}

	text := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 1+r.Intn(500))

	return map[string][]byte{
		"single": {byte(r.Intn(256))},
		"random": random,
		"narrow": narrow,
		"text":   text,
	}
}

func TestRoundTrip(t *testing.T) {
	sizes := []uint32{256, 257, 300, 1 << 12, 1 << 16, DefaultMaxSize}
	r := rand.New(rand.NewSource(42))

	for _, maxSize := range sizes {
		for name, in := range genInputs(r) {
			t.Run(fmt.Sprintf("%s/%d", name, maxSize), func(t *testing.T) {
				raw, err := Encode(in, WithMaxSize(maxSize))
				require.NoError(t, err)

				out, err := Decode(raw)
				require.NoError(t, err)
				require.Equal(t, in, out)
			})
		}
	}
}

func TestRoundTrip_Empty(t *testing.T) {
	raw, err := Encode(nil)
	require.NoError(t, err)
	// length, empty tree, width
	assert.Len(t, raw, 9)
	assert.Empty(t, codesOf(t, raw))

	out, err := Decode(raw)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestEncode_Codes(t *testing.T) {
	t.Run("growing dictionary", func(t *testing.T) {
		raw, err := Encode([]byte("ABABAB"), WithMaxSize(260))
		require.NoError(t, err)
		assert.Equal(t, []uint32{257, 258, 'B' + 1}, codesOf(t, raw))
	})

	t.Run("full from the start", func(t *testing.T) {
		in := []byte("ABABAB")
		raw, err := Encode(in, WithMaxSize(256))
		require.NoError(t, err)

		codes := codesOf(t, raw)
		require.Len(t, codes, len(in))
		for i, b := range in {
			assert.EqualValues(t, uint32(b)+1, codes[i])
		}

		c, err := unmarshalContainer(raw)
		require.NoError(t, err)
		assert.Empty(t, c.tree)
		assert.EqualValues(t, 9, c.width)
	})

	t.Run("every byte value", func(t *testing.T) {
		in := make([]byte, 256)
		for i := range in {
			in[i] = byte(i)
		}
		e, err := NewEncoder(WithMaxSize(256))
		require.NoError(t, err)
		_, err = e.Write(in)
		require.NoError(t, err)
		raw, err := e.Finish()
		require.NoError(t, err)

		codes := codesOf(t, raw)
		require.Len(t, codes, 256)
		for i, code := range codes {
			assert.EqualValues(t, i+1, code)
		}
		assert.EqualValues(t, 256, e.Dictionary().Count())

		out, err := Decode(raw)
		require.NoError(t, err)
		assert.Equal(t, in, out)

		// a larger dictionary grows instead, and still round-trips
		raw, err = Encode(in, WithMaxSize(1000))
		require.NoError(t, err)
		out, err = Decode(raw)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("single byte", func(t *testing.T) {
		raw, err := Encode([]byte{0xFF}, WithMaxSize(512))
		require.NoError(t, err)
		assert.Equal(t, []uint32{256}, codesOf(t, raw))
	})
}

func TestEncoder_FrozenDictionary(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	e, err := NewEncoder(WithMaxSize(300), WithLogger(logger))
	require.NoError(t, err)

	in := make([]byte, 1<<14)
	rand.New(rand.NewSource(5)).Read(in)
	_, err = e.Write(in)
	require.NoError(t, err)
	raw, err := e.Finish()
	require.NoError(t, err)

	assert.True(t, e.Stats().Frozen)
	assert.EqualValues(t, 300, e.Dictionary().Count())
	assert.EqualValues(t, 300, e.Stats().Entries)
	for _, code := range codesOf(t, raw) {
		assert.LessOrEqual(t, code, uint32(300))
		assert.NotZero(t, code)
	}

	full := 0
	for _, entry := range hook.AllEntries() {
		if entry.Message == "Dictionary full, continuing with frozen entries" {
			full++
		}
	}
	assert.Equal(t, 1, full)

	out, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestEncoder_ChunkedWrites(t *testing.T) {
	r := rand.New(rand.NewSource(9))
	in := make([]byte, 1<<15)
	for i := range in {
		in[i] = byte(r.Intn(16))
	}

	whole, err := Encode(in, WithMaxSize(1<<13))
	require.NoError(t, err)

	e, err := NewEncoder(WithMaxSize(1 << 13))
	require.NoError(t, err)
	for rest := in; len(rest) > 0; {
		n := 1 + r.Intn(100)
		if n > len(rest) {
			n = len(rest)
		}
		written, err := e.Write(rest[:n])
		require.NoError(t, err)
		require.Equal(t, n, written)
		rest = rest[n:]
	}

	var buf bytes.Buffer
	n, err := e.WriteTo(&buf)
	require.NoError(t, err)
	assert.EqualValues(t, len(whole), n)
	assert.Equal(t, whole, buf.Bytes())
	assert.EqualValues(t, len(in), e.Stats().InputBytes)
}

func TestEncoder_Finished(t *testing.T) {
	e, err := NewEncoder()
	require.NoError(t, err)
	_, err = e.Finish()
	require.NoError(t, err)

	_, err = e.Finish()
	assert.ErrorIs(t, err, ErrFinished)
	_, err = e.Write([]byte("x"))
	assert.ErrorIs(t, err, ErrFinished)
}

func TestNewEncoder_MaxSizeTooSmall(t *testing.T) {
	_, err := NewEncoder(WithMaxSize(100))
	assert.ErrorIs(t, err, dictionary.ErrMaxSize)
}

func TestEncode_Compresses(t *testing.T) {
	in := bytes.Repeat([]byte("abc"), 1<<14)
	raw, err := Encode(in)
	require.NoError(t, err)
	assert.Less(t, len(raw), len(in)/2)
}

func TestDecoder_Cache(t *testing.T) {
	in := bytes.Repeat([]byte("abracadabra "), 2000)
	raw, err := Encode(in, WithMaxSize(400))
	require.NoError(t, err)

	cached, err := NewDecoder(WithCacheSize(64))
	require.NoError(t, err)
	out, err := cached.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.Positive(t, cached.Stats().CacheHits)
	assert.Equal(t, len(in), cached.Stats().OutputBytes)

	plain, err := NewDecoder(WithCacheSize(0))
	require.NoError(t, err)
	out, err = plain.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.Zero(t, plain.Stats().CacheHits)
	assert.Equal(t, cached.Stats().Codes, plain.Stats().Codes)

	_, err = NewDecoder(WithCacheSize(-1))
	assert.Error(t, err)
}

func TestDecode_Corrupted(t *testing.T) {
	valid, err := Encode([]byte("ABABAB"), WithMaxSize(260))
	require.NoError(t, err)

	withStream := func(codes ...uint64) []byte {
		arr := &bits.Array{}
		w := bits.NewWriter(arr)
		for _, c := range codes {
			w.Write(9, c)
		}
		w.Flush()
		return container{width: 9, stream: arr.Bytes}.marshal()
	}

	tests := []struct {
		name string
		raw  []byte
		want []error
	}{
		{
			name: "empty file",
			raw:  nil,
			want: []error{ErrBitReadOutOfBounds},
		},
		{
			name: "short length field",
			raw:  valid[:5],
			want: []error{ErrBitReadOutOfBounds},
		},
		{
			name: "tree length beyond file",
			raw: func() []byte {
				raw := append([]byte(nil), valid...)
				binary.LittleEndian.PutUint64(raw, uint64(len(raw)))
				return raw
			}(),
			want: []error{ErrBitReadOutOfBounds},
		},
		{
			name: "huge tree length",
			raw: func() []byte {
				raw := append([]byte(nil), valid...)
				binary.LittleEndian.PutUint64(raw, ^uint64(0))
				return raw
			}(),
			want: []error{ErrBitReadOutOfBounds},
		},
		{
			name: "missing width",
			raw:  make([]byte, 8),
			want: []error{ErrBitReadOutOfBounds},
		},
		{
			name: "width too small",
			raw:  container{width: 8}.marshal(),
			want: []error{ErrCorruptedHeader, ErrBitWidth},
		},
		{
			name: "width too large",
			raw:  container{width: 33}.marshal(),
			want: []error{ErrCorruptedHeader, ErrBitWidth},
		},
		{
			name: "code zero",
			raw:  withStream(66, 0),
			want: []error{ErrCorruptedStream},
		},
		{
			name: "unknown code",
			raw:  withStream(66, 257),
			want: []error{ErrCorruptedStream},
		},
		{
			name: "non-zero padding",
			raw: func() []byte {
				raw := withStream(66)
				raw[len(raw)-1] |= 1
				return raw
			}(),
			want: []error{ErrCorruptedStream},
		},
		{
			name: "trailing garbage",
			raw:  append(withStream(66), 0),
			want: []error{ErrCorruptedStream},
		},
		{
			name: "corrupted tree",
			raw: func() []byte {
				raw := append([]byte(nil), valid...)
				raw[8] = 0xFF
				return raw
			}(),
			want: []error{ErrCorruptedHeader},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.raw)
			require.Error(t, err)
			for _, want := range tc.want {
				assert.ErrorIs(t, err, want)
			}
		})
	}
}

func TestDecode_Valid(t *testing.T) {
	out, err := Decode(func() []byte {
		arr := &bits.Array{}
		w := bits.NewWriter(arr)
		for _, b := range []byte("hi") {
			w.Write(9, uint64(b)+1)
		}
		w.Flush()
		return container{width: 9, stream: arr.Bytes}.marshal()
	}())
	require.NoError(t, err)
	assert.Equal(t, "hi", string(out))
}

func BenchmarkEncode(b *testing.B) {
	in := make([]byte, 1<<20)
	r := rand.New(rand.NewSource(1))
	for i := range in {
		in[i] = byte(r.Intn(32))
	}
	b.SetBytes(int64(len(in)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := Encode(in); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecode(b *testing.B) {
	in := make([]byte, 1<<20)
	r := rand.New(rand.NewSource(1))
	for i := range in {
		in[i] = byte(r.Intn(32))
	}
	raw, _ := Encode(in)
	b.SetBytes(int64(len(in)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := Decode(raw); err != nil {
			b.Fatal(err)
		}
	}
}
