package main

import (
	"os"

	"rawblog/service"
)

// CliVersion is the version reported by the version command
const CliVersion = service.Version

var exit = os.Exit

func main() {
	RealMain()
}

// RealMain runs the command line and exits with its status
func RealMain() {
	exit(service.HandleCommand(os.Args[1:]))
}
