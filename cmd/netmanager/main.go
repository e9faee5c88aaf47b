package main

import (
	"os"

	"github.com/adamwoolhether/netmanager/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
