package main

import (
	"os"

	"github.com/arthur-debert/dockplate/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
