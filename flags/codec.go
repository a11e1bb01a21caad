package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// CodecFlags selects the mode and tunes the codec.
func CodecFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "e, encode",
			Usage: "Compress `FILE` into FILE.<ext>",
		},
		cli.StringFlag{
			Name:  "d, decode",
			Usage: "Restore `FILE`, dropping its last extension",
		},
		cli.StringFlag{
			Name:  "preset",
			Usage: "Named size profile (small|default|large); --maxsize and --cache override it",
		},
		cli.Uint64Flag{
			Name:  "maxsize",
			Usage: "Maximum number of dictionary entries (256..4294967295)",
			Value: 0xFFFFFF,
		},
		cli.StringFlag{
			Name:  "ext",
			Usage: "Extension appended to encoded files",
			Value: "lzw",
		},
		cli.IntFlag{
			Name:  "cache",
			Usage: "Decoded sequences kept in memory while decoding (0 disables)",
			Value: 4096,
		},
		cli.BoolFlag{
			Name:  "stats",
			Usage: "Log input entropy and dictionary statistics",
		},
	}
}
