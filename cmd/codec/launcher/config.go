// This file maps CLI context to the config struct.

package launcher

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gopkg.in/urfave/cli.v1"

	"github.com/velfel-krunoslav/DataCompression/dictionary"
	"github.com/velfel-krunoslav/DataCompression/presets"
)

// Mode selects what the launcher does with its input file.
type Mode int

const (
	ModeNone Mode = iota
	ModeEncode
	ModeDecode
)

func (m Mode) String() string {
	switch m {
	case ModeEncode:
		return "encode"
	case ModeDecode:
		return "decode"
	default:
		return "none"
	}
}

var ErrUsage = errors.New("specify exactly one of --encode or --decode")

// Config aggregates everything the launcher needs.
type Config struct {
	Codec   CodecConfig
	Logging LoggingConfig
}

type CodecConfig struct {
	Mode      Mode
	Input     string
	Preset    string
	MaxSize   uint32
	Extension string
	CacheSize int
	Stats     bool
}

type LoggingConfig struct {
	Verbosity int
	Format    string
	Color     bool
	SentryDSN string
}

func defaultConfig() Config {
	return Config{
		Codec: CodecConfig{
			MaxSize:   DefaultConfig().Codec.MaxSize,
			Extension: DefaultConfig().Codec.Extension,
			CacheSize: DefaultConfig().Codec.CacheSize,
			Stats:     DefaultConfig().Codec.Stats,
		},
		Logging: LoggingConfig{
			Verbosity: DefaultConfig().Logging.Verbosity,
			Format:    DefaultConfig().Logging.Format,
			Color:     DefaultConfig().Logging.Color,
		},
	}
}

// MakeAllConfigs merges defaults and CLI overrides into a single config
// struct and validates the result.

func MakeAllConfigs(ctx *cli.Context) (Config, error) {
	cfg := defaultConfig()

	if err := applyCLIOverrides(ctx, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyCLIOverrides(ctx *cli.Context, cfg *Config) error {
	encode, decode := ctx.String("encode"), ctx.String("decode")
	switch {
	case encode != "" && decode != "":
		return ErrUsage
	case encode != "":
		cfg.Codec.Mode, cfg.Codec.Input = ModeEncode, encode
	case decode != "":
		cfg.Codec.Mode, cfg.Codec.Input = ModeDecode, decode
	}

	if ctx.IsSet("preset") {
		p, err := presets.ByName(ctx.String("preset"))
		if err != nil {
			return err
		}
		current := presets.Config{MaxSize: cfg.Codec.MaxSize, CacheSize: cfg.Codec.CacheSize}
		presets.Apply(&current, p)
		cfg.Codec.Preset = current.Name
		cfg.Codec.MaxSize, cfg.Codec.CacheSize = current.MaxSize, current.CacheSize
	}
	if ctx.IsSet("maxsize") {
		v := ctx.Uint64("maxsize")
		if v > math.MaxUint32 {
			return fmt.Errorf("--maxsize %d: %w", v, dictionary.ErrMaxSize)
		}
		cfg.Codec.MaxSize = uint32(v)
	}
	if ctx.IsSet("ext") {
		cfg.Codec.Extension = strings.TrimPrefix(ctx.String("ext"), ".")
	}
	if ctx.IsSet("cache") {
		cfg.Codec.CacheSize = ctx.Int("cache")
	}
	if ctx.IsSet("stats") {
		cfg.Codec.Stats = ctx.Bool("stats")
	}

	if ctx.IsSet("log.format") {
		cfg.Logging.Format = ctx.String("log.format")
	}
	if ctx.IsSet("log.verbosity") {
		cfg.Logging.Verbosity = ctx.Int("log.verbosity")
	}
	if ctx.IsSet("log.color") {
		cfg.Logging.Color = ctx.Bool("log.color")
	}
	if ctx.IsSet("log.sentry") {
		cfg.Logging.SentryDSN = ctx.String("log.sentry")
	}
	return nil
}

func (cfg Config) validate() error {
	if cfg.Codec.Mode == ModeNone {
		return ErrUsage
	}
	if cfg.Codec.MaxSize < dictionary.MinMaxSize {
		return fmt.Errorf("--maxsize %d: %w", cfg.Codec.MaxSize, dictionary.ErrMaxSize)
	}
	if cfg.Codec.Extension == "" {
		return errors.New("--ext must not be empty")
	}
	if cfg.Codec.CacheSize < 0 {
		return fmt.Errorf("--cache %d must not be negative", cfg.Codec.CacheSize)
	}
	if cfg.Logging.Verbosity < 0 || cfg.Logging.Verbosity > 5 {
		return fmt.Errorf("--log.verbosity %d outside 0..5", cfg.Logging.Verbosity)
	}
	switch cfg.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown --log.format %q", cfg.Logging.Format)
	}
	return nil
}
