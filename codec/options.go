package codec

import (
	"io"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultMaxSize is the dictionary size used when none is configured.
	DefaultMaxSize = 0xFFFFFF
	// DefaultCacheSize is the number of decoded sequences the decoder memoises.
	DefaultCacheSize = 4096
)

// Config holds configuration for the encoder and decoder.
type Config struct {
	MaxSize   uint32             // Dictionary size limit, encoder only (0 = DefaultMaxSize)
	CacheSize int                // Decoder expansion cache entries (0 disables)
	Logger    logrus.FieldLogger // Destination for debug output (nil = discard)
}

// Option is a functional option for configuring the codec.
type Option func(*Config)

// WithMaxSize sets the number of dictionary entries the encoder may assign.
func WithMaxSize(n uint32) Option {
	return func(c *Config) {
		c.MaxSize = n
	}
}

// WithCacheSize sets the decoder's expansion cache size. 0 disables caching.
func WithCacheSize(n int) Option {
	return func(c *Config) {
		c.CacheSize = n
	}
}

// WithLogger routes debug output to l.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

func newConfig(opts []Option) Config {
	cfg := Config{
		MaxSize:   DefaultMaxSize,
		CacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.MaxSize == 0 {
		cfg.MaxSize = DefaultMaxSize
	}
	if cfg.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		cfg.Logger = l
	}
	return cfg
}
