package main

import (
	"os"

	"github.com/mkoval/jobscout/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
