// Command unitspec-example is a test program built with unitspec. It
// registers a few sample suites and hands them to the command line.
package main

import (
	"github.com/abdul-hamid-achik/unitspec/apps/cli/cmd"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	cmd.Execute(version, buildTime, registerSuites)
}
