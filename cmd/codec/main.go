package main

import (
	"fmt"
	"os"

	"github.com/velfel-krunoslav/DataCompression/cmd/codec/launcher"
)

func main() {

	// Call into the launcher and capture any resulting error
	if err := launcher.Launch(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
