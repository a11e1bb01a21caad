package flags

import (
	"os"

	cli "gopkg.in/urfave/cli.v1"
)

// NewApp creates the bare application; the launcher attaches flags and the action.
func NewApp() *cli.App {

	app := cli.NewApp()
	app.Name = "codec"
	app.Usage = "Adaptive dictionary file compressor"
	app.UsageText = "codec (-e | -d) <file> [options]"
	app.Version = "0.1.0"
	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr
	return app

}
