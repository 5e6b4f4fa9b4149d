package main

import (
	"os"

	"github.com/fieldops/weekplan/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
