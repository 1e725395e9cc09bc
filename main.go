package main

import (
	"os"

	"github.com/meresu/lead-advisor/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
