package launcher

import "github.com/velfel-krunoslav/DataCompression/codec"

// Defaults bundles the baseline configuration values the launcher uses
// before flags override them.

type Defaults struct {
	Codec   CodecDefaults
	Logging LoggingDefaults
}

// CodecDefaults tunes the compressor.
type CodecDefaults struct {
	MaxSize   uint32 //	Dictionary entries the encoder may assign; fixes the code width as well.
	Extension string //	Suffix appended to encoded files, without the dot.
	CacheSize int    //	Decoded sequences memoised by the decoder.
	Stats     bool   //	Whether to log entropy and dictionary statistics.
}

// LoggingDefaults controls log verbosity/format.
type LoggingDefaults struct {
	Verbosity int    //	Log level numeric (0=fatal, 1=error, 2=warn, 3=info, 4=debug, 5=trace).
	Format    string //	Log output format (text vs json).
	Color     bool   //	Whether to use ANSI color codes in logs.
}

// DefaultConfig returns a fully populated Defaults instance.

func DefaultConfig() Defaults {
	return Defaults{
		Codec: CodecDefaults{
			MaxSize:   codec.DefaultMaxSize,
			Extension: "lzw",
			CacheSize: codec.DefaultCacheSize,
		},
		Logging: LoggingDefaults{
			Verbosity: 3,
			Format:    "text",
		},
	}
}
