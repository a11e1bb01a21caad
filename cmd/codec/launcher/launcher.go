package launcher

import (
	"gopkg.in/urfave/cli.v1"

	"github.com/velfel-krunoslav/DataCompression/flags"
)

func newApp() *cli.App {
	app := flags.NewApp()
	app.Flags = append(flags.CommonFlags(), flags.CodecFlags()...)
	app.Action = run
	return app
}

// Launch parses args and runs the selected mode.
func Launch(args []string) error {
	return newApp().Run(args)
}
