// skiff - deploy WASM modules to the Skiff platform
//
// A command-line client for uploading modules, configuring hosts, and
// running modules locally during development.
package main

import (
	"fmt"
	"os"

	"github.com/skiffworks/skiff/pkg/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd := cli.NewRootCmd(cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
